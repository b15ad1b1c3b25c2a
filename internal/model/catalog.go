package model

// CatalogEntry is one part family loaded from the catalog store, with its
// precomputed text embedding.
type CatalogEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Embedding []float32 `json:"embedding"`
}

// PartMatch is one ranked part-family candidate for a piece of user text.
type PartMatch struct {
	FamilyID string  `json:"family_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}
