// Package product turns a raw directory product list into one recommended
// winner plus alternatives.
package product

import (
	"math"
	"sort"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

// maxAlternatives caps the alternatives offered next to the winner.
const maxAlternatives = 4

// priceOrInf treats a missing or non-numeric price as infinite so it sorts
// last within a turnover tie.
func priceOrInf(p model.Product) float64 {
	if !p.Price.Set {
		return math.Inf(1)
	}
	return p.Price.Value
}

func turnover(p model.Product) float64 {
	if !p.Turnover.Set {
		return 0
	}
	return p.Turnover.Value
}

// SelectWinner sorts candidates by turnover descending, then price
// ascending, and picks the first explicitly-available one. When nothing is
// available the first candidate of the sorted order wins anyway: as long as
// any product exists, a recommendation is produced. Alternatives are the
// remaining sorted candidates minus the winner's identity, capped.
func SelectWinner(products []model.Product) (*model.Product, []model.Product) {
	if len(products) == 0 {
		return nil, nil
	}

	sorted := make([]model.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := turnover(sorted[i]), turnover(sorted[j])
		if ti != tj {
			return ti > tj
		}
		return priceOrInf(sorted[i]) < priceOrInf(sorted[j])
	})

	winner := sorted[0]
	for _, p := range sorted {
		if p.Available.Set && p.Available.Value {
			winner = p
			break
		}
	}

	alternatives := make([]model.Product, 0, maxAlternatives)
	for _, p := range sorted {
		if p.SameIdentity(winner) {
			continue
		}
		alternatives = append(alternatives, p)
		if len(alternatives) == maxAlternatives {
			break
		}
	}

	w := winner
	return &w, alternatives
}
