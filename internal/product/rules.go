package product

import (
	"github.com/gearline-ai/parts-assistant/internal/model"
)

// NormalizeFunc is a per-family post-processing rule: it splits a raw
// product list into the primary candidates and a related tail.
type NormalizeFunc func(products []model.Product) (primary, related []model.Product)

// Registry maps family ids to normalization rules. It is data-driven so new
// rules never touch the selection algorithm.
type Registry struct {
	rules map[string]NormalizeFunc
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{rules: map[string]NormalizeFunc{}}
}

// Register installs the rule for a family id, replacing any previous one.
func (r *Registry) Register(familyID string, fn NormalizeFunc) {
	r.rules[familyID] = fn
}

// NormalizeByFamily applies the family's rule. Absent a registered rule the
// default applies: primary is the list unchanged and related is empty.
func (r *Registry) NormalizeByFamily(familyID string, products []model.Product) (primary, related []model.Product) {
	if fn, ok := r.rules[familyID]; ok {
		return fn(products)
	}
	return products, nil
}
