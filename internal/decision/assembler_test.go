package decision

import (
	"testing"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

func TestAssemble_ClarifyBelowThreshold(t *testing.T) {
	a := NewAssembler(0.82)
	sess := &model.Session{}
	best := &model.PartMatch{FamilyID: "fam-brakes", Name: "brake pads", Score: 0.81}

	d := a.Assemble(sess, best)
	if !d.AskClarifyingQuestion {
		t.Fatalf("score 0.81 below threshold must ask clarification")
	}
	if d.BestMatch != best {
		t.Fatalf("best match not carried through")
	}
}

func TestAssemble_ThresholdIsStrict(t *testing.T) {
	a := NewAssembler(0.82)
	sess := &model.Session{}
	best := &model.PartMatch{FamilyID: "fam-brakes", Name: "brake pads", Score: 0.82}

	if d := a.Assemble(sess, best); d.AskClarifyingQuestion {
		t.Fatalf("score exactly at threshold must not ask clarification")
	}
}

func TestAssemble_NoBestMatchNoClarify(t *testing.T) {
	a := NewAssembler(0)

	if d := a.Assemble(&model.Session{}, nil); d.AskClarifyingQuestion {
		t.Fatalf("no best match must not ask clarification")
	}
}

func TestAssemble_SelectedProductSuppressesClarify(t *testing.T) {
	a := NewAssembler(0.82)
	sess := &model.Session{
		Vehicle:             &model.Vehicle{Plate: "1234BCD", VehicleID: 77},
		SelectedProduct:     &model.Product{Ref: "R1", BrandCode: "b"},
		ProductAlternatives: []model.Product{{Ref: "R2", BrandCode: "b"}},
	}
	best := &model.PartMatch{FamilyID: "fam-brakes", Name: "brake pads", Score: 0.4}

	d := a.Assemble(sess, best)
	if d.AskClarifyingQuestion {
		t.Fatalf("a selected product must suppress clarification")
	}
	if d.Product == nil || d.Product.Ref != "R1" {
		t.Fatalf("product = %+v", d.Product)
	}
	if d.Vehicle == nil || d.Vehicle.VehicleID != 77 {
		t.Fatalf("vehicle = %+v", d.Vehicle)
	}
	if len(d.Alternatives) != 1 {
		t.Fatalf("alternatives = %v", d.Alternatives)
	}
}

func TestNewAssembler_DefaultThreshold(t *testing.T) {
	a := NewAssembler(-1)
	best := &model.PartMatch{FamilyID: "f", Name: "n", Score: DefaultClarifyThreshold - 0.01}

	if d := a.Assemble(&model.Session{}, best); !d.AskClarifyingQuestion {
		t.Fatalf("default threshold not applied")
	}
}
