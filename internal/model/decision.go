package model

// Decision is the structured handoff to the reply generator. It carries
// everything the generator may ground a reply on; it never carries prose.
type Decision struct {
	Vehicle      *Vehicle   `json:"vehicle,omitempty"`
	BestMatch    *PartMatch `json:"best_match,omitempty"`
	Product      *Product   `json:"product,omitempty"`
	Alternatives []Product  `json:"alternatives,omitempty"`

	// AskClarifyingQuestion tells the generator to ask exactly one closed
	// question instead of recommending, set when match confidence is too low
	// and no product was selected this turn.
	AskClarifyingQuestion bool `json:"ask_clarifying_question"`
}
