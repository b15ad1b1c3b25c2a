package vehicle

import (
	"context"
	"errors"
	"testing"

	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
)

func TestExtractPlate(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"digits then letters", "my car is 1234 bcd thanks", "1234BCD", true},
		{"hyphenated", "plate 1234-BCD", "1234BCD", true},
		{"compact", "1234BCD", "1234BCD", true},
		{"diacritics folded", "la matrícula es 1234 bçd", "1234BCD", true},
		{"letters digits letters", "AB 1234 CD", "AB1234CD", true},
		{"letters digits only", "C-1234", "C1234", true},
		{"no plate", "need brake pads for my car", "", false},
		{"too few digits", "call me at 123 BCD", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractPlate(tc.text)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ExtractPlate(%q) = %q, %v; want %q, %v", tc.text, got, ok, tc.want, tc.ok)
			}
		})
	}
}

type fakeDirectory struct {
	vehicle *model.Vehicle
	err     error
	calls   int
}

func (d *fakeDirectory) SearchByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	v := *d.vehicle
	return &v, nil
}

func (d *fakeDirectory) ProductsByVehicle(ctx context.Context, vehicleID int64, familyID string) ([]model.Product, error) {
	return nil, nil
}

func TestMaybeResolve_SetsVehicle(t *testing.T) {
	dir := &fakeDirectory{vehicle: &model.Vehicle{Brand: "Seat", Model: "Ibiza", VehicleID: 42}}
	r := NewResolver(dir, logger.NewNop())
	sess := &model.Session{}

	r.MaybeResolve(context.Background(), "my plate is 1234 BCD", sess)
	if sess.Vehicle == nil {
		t.Fatalf("vehicle not set")
	}
	if sess.Vehicle.Plate != "1234BCD" {
		t.Fatalf("plate = %q", sess.Vehicle.Plate)
	}
	if sess.Vehicle.VehicleID != 42 {
		t.Fatalf("vehicle id = %d", sess.Vehicle.VehicleID)
	}
}

func TestMaybeResolve_NoPlateNoLookup(t *testing.T) {
	dir := &fakeDirectory{vehicle: &model.Vehicle{}}
	r := NewResolver(dir, logger.NewNop())
	sess := &model.Session{}

	r.MaybeResolve(context.Background(), "need brake pads", sess)
	if dir.calls != 0 {
		t.Fatalf("directory called without a plate")
	}
	if sess.Vehicle != nil {
		t.Fatalf("vehicle set without a plate")
	}
}

func TestMaybeResolve_SamePlateIsCached(t *testing.T) {
	dir := &fakeDirectory{vehicle: &model.Vehicle{VehicleID: 42}}
	r := NewResolver(dir, logger.NewNop())
	sess := &model.Session{Vehicle: &model.Vehicle{Plate: "1234BCD", VehicleID: 42}}

	r.MaybeResolve(context.Background(), "still 1234 bcd", sess)
	if dir.calls != 0 {
		t.Fatalf("directory called for an already-resolved plate")
	}
}

func TestMaybeResolve_NewPlateReplacesVehicle(t *testing.T) {
	dir := &fakeDirectory{vehicle: &model.Vehicle{VehicleID: 99}}
	r := NewResolver(dir, logger.NewNop())
	sess := &model.Session{Vehicle: &model.Vehicle{Plate: "1234BCD", VehicleID: 42}}

	r.MaybeResolve(context.Background(), "actually it is 5678 JKL", sess)
	if dir.calls != 1 {
		t.Fatalf("directory calls = %d", dir.calls)
	}
	if sess.Vehicle.Plate != "5678JKL" || sess.Vehicle.VehicleID != 99 {
		t.Fatalf("vehicle = %+v", sess.Vehicle)
	}
}

func TestMaybeResolve_LookupFailureKeepsSession(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("directory down")}
	r := NewResolver(dir, logger.NewNop())
	prev := &model.Vehicle{Plate: "1234BCD", VehicleID: 42}
	sess := &model.Session{Vehicle: prev}

	r.MaybeResolve(context.Background(), "try 5678 JKL", sess)
	if sess.Vehicle != prev {
		t.Fatalf("failed lookup must not touch the cached vehicle")
	}
}
