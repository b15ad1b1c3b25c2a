package vehicle

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/directory"
	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
	"github.com/gearline-ai/parts-assistant/pkg/metrics"
)

// Resolver looks up plates found in user text and caches the vehicle on
// the session.
type Resolver struct {
	directory directory.Client
	logger    *logger.Logger
}

// NewResolver creates a vehicle resolver.
func NewResolver(dir directory.Client, log *logger.Logger) *Resolver {
	return &Resolver{directory: dir, logger: log}
}

// MaybeResolve scans text for a plate and, when one is found, resolves it
// and mutates the session in place. It no-ops when no plate is present or
// the session already holds a vehicle for the same plate, and it swallows
// lookup failures: a missing vehicle never blocks the turn.
func (r *Resolver) MaybeResolve(ctx context.Context, text string, sess *model.Session) {
	plate, ok := ExtractPlate(text)
	if !ok {
		return
	}
	if sess.Vehicle != nil && strings.EqualFold(sess.Vehicle.Plate, plate) {
		return
	}

	v, err := r.directory.SearchByPlate(ctx, plate)
	if err != nil {
		metrics.VehicleLookups.WithLabelValues("error").Inc()
		r.logger.Warn("plate lookup failed",
			zap.String("plate", plate),
			zap.Error(err),
		)
		return
	}
	metrics.VehicleLookups.WithLabelValues("ok").Inc()
	v.Plate = plate
	sess.Vehicle = v
}
