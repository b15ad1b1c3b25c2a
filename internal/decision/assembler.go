// Package decision fuses the session state of a processed turn into the
// single structured object handed to the reply generator.
package decision

import (
	"github.com/gearline-ai/parts-assistant/internal/model"
)

// DefaultClarifyThreshold is the match-confidence floor below which the
// assistant asks one clarifying question instead of recommending.
const DefaultClarifyThreshold = 0.82

// Assembler builds decisions. It never produces natural-language text.
type Assembler struct {
	clarifyThreshold float64
}

// NewAssembler creates an assembler. threshold <= 0 selects the default.
func NewAssembler(threshold float64) *Assembler {
	if threshold <= 0 {
		threshold = DefaultClarifyThreshold
	}
	return &Assembler{clarifyThreshold: threshold}
}

// Assemble builds the decision for the current turn. The clarification flag
// is set only when no product was selected and the best match scored
// strictly below the threshold; a score exactly at the threshold does not
// trigger clarification.
func (a *Assembler) Assemble(sess *model.Session, best *model.PartMatch) *model.Decision {
	d := &model.Decision{
		Vehicle:      sess.Vehicle,
		BestMatch:    best,
		Product:      sess.SelectedProduct,
		Alternatives: sess.ProductAlternatives,
	}
	d.AskClarifyingQuestion = d.Product == nil &&
		best != nil &&
		best.Score < a.clarifyThreshold
	return d
}
