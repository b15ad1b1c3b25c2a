package product

import (
	"testing"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

func prod(ref, brand string, turnover, price float64, available *bool) model.Product {
	p := model.Product{
		Ref:       ref,
		Name:      "part " + ref,
		BrandCode: brand,
		Turnover:  model.FlexFloat{Value: turnover, Set: true},
		Price:     model.FlexFloat{Value: price, Set: true},
	}
	if available != nil {
		p.Available = model.FlexBool{Value: *available, Set: true}
	}
	return p
}

func boolPtr(b bool) *bool { return &b }

func TestSelectWinner_PrefersAvailableInSortedOrder(t *testing.T) {
	products := []model.Product{
		prod("A", "b1", 9, 100, boolPtr(false)),
		prod("B", "b1", 5, 10, boolPtr(false)),
		prod("C", "b1", 5, 8, boolPtr(true)),
	}
	// Sorted order: A (turnover 9), then C before B (price tiebreak).
	// C is the only available candidate.
	winner, alternatives := SelectWinner(products)
	if winner == nil {
		t.Fatalf("winner is nil")
	}
	if winner.Ref != "C" {
		t.Fatalf("winner = %q, want C", winner.Ref)
	}
	if len(alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(alternatives))
	}
	if alternatives[0].Ref != "A" || alternatives[1].Ref != "B" {
		t.Fatalf("alternatives order = %q, %q", alternatives[0].Ref, alternatives[1].Ref)
	}
}

func TestSelectWinner_FallbackWhenNothingAvailable(t *testing.T) {
	products := []model.Product{
		prod("low", "b1", 1, 50, boolPtr(false)),
		prod("high", "b1", 9, 50, boolPtr(false)),
	}
	winner, _ := SelectWinner(products)
	if winner == nil {
		t.Fatalf("winner must never be nil when products exist")
	}
	if winner.Ref != "high" {
		t.Fatalf("winner = %q, want first of sorted order", winner.Ref)
	}
}

func TestSelectWinner_UnknownAvailabilityIsNotAvailable(t *testing.T) {
	products := []model.Product{
		prod("unknown", "b1", 9, 10, nil),
		prod("yes", "b1", 1, 10, boolPtr(true)),
	}
	winner, _ := SelectWinner(products)
	if winner.Ref != "yes" {
		t.Fatalf("winner = %q: unknown availability must not count as available", winner.Ref)
	}
}

func TestSelectWinner_MissingPriceSortsLast(t *testing.T) {
	noPrice := model.Product{
		Ref:       "np",
		Name:      "no price",
		BrandCode: "b1",
		Turnover:  model.FlexFloat{Value: 5, Set: true},
	}
	products := []model.Product{
		noPrice,
		prod("cheap", "b1", 5, 3, boolPtr(false)),
	}
	winner, alternatives := SelectWinner(products)
	if winner.Ref != "cheap" {
		t.Fatalf("winner = %q, want cheap (missing price sorts last)", winner.Ref)
	}
	if alternatives[0].Ref != "np" {
		t.Fatalf("alternatives = %v", alternatives)
	}
}

func TestSelectWinner_ExcludesWinnerIdentityAndCaps(t *testing.T) {
	avail := boolPtr(true)
	products := []model.Product{
		prod("W", "brand", 10, 5, avail),
		prod("W", "brand", 9, 6, boolPtr(false)), // same identity as winner
		prod("W", "other", 8, 7, boolPtr(false)), // same ref, other brand
		prod("d", "b", 7, 1, boolPtr(false)),
		prod("e", "b", 6, 1, boolPtr(false)),
		prod("f", "b", 5, 1, boolPtr(false)),
		prod("g", "b", 4, 1, boolPtr(false)),
		prod("h", "b", 3, 1, boolPtr(false)),
	}
	winner, alternatives := SelectWinner(products)
	if winner.Ref != "W" || winner.BrandCode != "brand" {
		t.Fatalf("winner = %+v", winner)
	}
	if len(alternatives) != 4 {
		t.Fatalf("alternatives = %d, want cap of 4", len(alternatives))
	}
	for _, alt := range alternatives {
		if alt.SameIdentity(*winner) {
			t.Fatalf("winner identity leaked into alternatives")
		}
	}
	if alternatives[0].Ref != "W" || alternatives[0].BrandCode != "other" {
		t.Fatalf("same ref with different brand must stay: %+v", alternatives[0])
	}
}

func TestSelectWinner_Empty(t *testing.T) {
	winner, alternatives := SelectWinner(nil)
	if winner != nil || alternatives != nil {
		t.Fatalf("expected nil results for empty input")
	}
}

func TestRegistry_DefaultIsIdentity(t *testing.T) {
	r := NewRegistry()
	products := []model.Product{prod("A", "b", 1, 1, nil)}

	primary, related := r.NormalizeByFamily("fam-unknown", products)
	if len(primary) != 1 || primary[0].Ref != "A" {
		t.Fatalf("default primary = %v", primary)
	}
	if len(related) != 0 {
		t.Fatalf("default related = %v", related)
	}
}

func TestRegistry_RegisteredRuleApplies(t *testing.T) {
	r := NewRegistry()
	r.Register("fam-brakes", func(products []model.Product) ([]model.Product, []model.Product) {
		// Split: branded parts are primary, the rest related.
		var primary, related []model.Product
		for _, p := range products {
			if p.BrandCode == "oem" {
				primary = append(primary, p)
			} else {
				related = append(related, p)
			}
		}
		return primary, related
	})

	products := []model.Product{
		prod("A", "oem", 1, 1, nil),
		prod("B", "aftermarket", 1, 1, nil),
	}
	primary, related := r.NormalizeByFamily("fam-brakes", products)
	if len(primary) != 1 || primary[0].Ref != "A" {
		t.Fatalf("primary = %v", primary)
	}
	if len(related) != 1 || related[0].Ref != "B" {
		t.Fatalf("related = %v", related)
	}
}
