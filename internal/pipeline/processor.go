// Package pipeline orchestrates one inbound delivery end to end: session
// load, text derivation, vehicle resolution, catalog match, product
// selection, decision assembly, reply generation, session save, and
// outbound send. No stage failure is fatal and nothing is retried; every
// collaborator call carries a timeout and a documented fallback.
package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gearline-ai/parts-assistant/internal/catalog"
	"github.com/gearline-ai/parts-assistant/internal/decision"
	"github.com/gearline-ai/parts-assistant/internal/directory"
	"github.com/gearline-ai/parts-assistant/internal/events"
	"github.com/gearline-ai/parts-assistant/internal/llm"
	"github.com/gearline-ai/parts-assistant/internal/media"
	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/internal/outbound"
	"github.com/gearline-ai/parts-assistant/internal/product"
	"github.com/gearline-ai/parts-assistant/internal/session"
	"github.com/gearline-ai/parts-assistant/internal/vehicle"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
	"github.com/gearline-ai/parts-assistant/pkg/metrics"
)

// fallbackReply is sent when reply generation fails.
const fallbackReply = "Sorry, something went wrong on our side. Could you send that again in a moment?"

const matchQuerySampleLen = 120

// Options carries the pipeline's tunables.
type Options struct {
	TopK                int
	ContextWindow       int
	CollaboratorTimeout time.Duration
}

// Processor runs the decision pipeline for normalized inbound events.
type Processor struct {
	sessions    *session.Store
	vehicles    *vehicle.Resolver
	matcher     *catalog.Matcher
	directory   directory.Client
	rules       *product.Registry
	assembler   *decision.Assembler
	transcriber media.Transcriber
	describer   media.Describer
	generator   llm.Generator
	sender      outbound.Sender
	publisher   *events.Publisher
	opts        Options
	logger      *logger.Logger
}

// NewProcessor wires the pipeline.
func NewProcessor(
	sessions *session.Store,
	vehicles *vehicle.Resolver,
	matcher *catalog.Matcher,
	dir directory.Client,
	rules *product.Registry,
	assembler *decision.Assembler,
	transcriber media.Transcriber,
	describer media.Describer,
	generator llm.Generator,
	sender outbound.Sender,
	publisher *events.Publisher,
	opts Options,
	log *logger.Logger,
) *Processor {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = 12
	}
	if opts.CollaboratorTimeout <= 0 {
		opts.CollaboratorTimeout = 10 * time.Second
	}
	return &Processor{
		sessions:    sessions,
		vehicles:    vehicles,
		matcher:     matcher,
		directory:   dir,
		rules:       rules,
		assembler:   assembler,
		transcriber: transcriber,
		describer:   describer,
		generator:   generator,
		sender:      sender,
		publisher:   publisher,
		opts:        opts,
		logger:      log,
	}
}

// ProcessEvent runs one turn. It never returns an error: every failure
// downgrades the turn instead of failing it.
func (p *Processor) ProcessEvent(ctx context.Context, ev *model.InboundEvent) {
	start := time.Now()
	log := p.logger.With(
		zap.String("tenant_id", ev.TenantID),
		zap.String("conversation_id", ev.ConversationID),
		zap.String("event_type", string(ev.Type)),
	)

	sess := p.sessions.Load(ctx, ev.TenantID, ev.ConversationID)

	text := p.deriveText(ctx, ev, log)
	sess.Append(model.RoleUser, userContent(ev, text), p.sessions.MaxMessages())

	best := p.resolveAndMatch(ctx, text, sess, log)
	p.selectProduct(ctx, sess, best, log)

	dec := p.assembler.Assemble(sess, best)
	reply := p.generateReply(ctx, sess, dec, log)

	sess.Append(model.RoleAssistant, reply, p.sessions.MaxMessages())
	p.sessions.Save(ctx, ev.TenantID, ev.ConversationID, sess)

	sent := p.sendReply(ctx, ev, reply, log)

	p.publisher.PublishTurn(ctx, &events.TurnEvent{
		TenantID:       ev.TenantID,
		ConversationID: session.StripDeviceSuffix(ev.ConversationID),
		EventType:      ev.Type,
		Decision:       dec,
		ReplySent:      sent,
		ProcessedAt:    time.Now().UTC(),
	})

	metrics.TurnDuration.WithLabelValues(string(ev.Type)).Observe(time.Since(start).Seconds())
	log.Info("turn processed",
		zap.Bool("clarify", dec.AskClarifyingQuestion),
		zap.Bool("product_selected", dec.Product != nil),
		zap.Duration("duration", time.Since(start)),
	)
}

// deriveText obtains the matchable text of the turn: the body for text
// events, a transcription for audio, a description for images. Provider
// failure degrades to the caption, or to nothing.
func (p *Processor) deriveText(ctx context.Context, ev *model.InboundEvent, log *logger.Logger) string {
	switch ev.Type {
	case model.EventTypeText:
		return ev.Text

	case model.EventTypeAudio:
		if ev.MediaURL == "" {
			return ev.Caption
		}
		cctx, cancel := context.WithTimeout(ctx, p.opts.CollaboratorTimeout)
		defer cancel()
		text, err := p.transcriber.Transcribe(cctx, ev.MediaURL)
		if err != nil {
			log.Warn("transcription failed", zap.Error(err))
			return ev.Caption
		}
		return text

	case model.EventTypeImage:
		if ev.MediaURL == "" {
			return ev.Caption
		}
		cctx, cancel := context.WithTimeout(ctx, p.opts.CollaboratorTimeout)
		defer cancel()
		desc, err := p.describer.Describe(cctx, ev.MediaURL)
		if err != nil {
			log.Warn("image description failed", zap.Error(err))
			return ev.Caption
		}
		if ev.Caption != "" {
			return ev.Caption + "\n" + desc
		}
		return desc
	}
	return ""
}

// userContent is what gets appended to the session for the user turn.
func userContent(ev *model.InboundEvent, derived string) string {
	if derived != "" {
		return derived
	}
	switch ev.Type {
	case model.EventTypeAudio:
		return "[voice message]"
	case model.EventTypeImage:
		return "[image]"
	}
	return ""
}

// resolveAndMatch runs the vehicle lookup and the catalog match. The two
// legs are independent, so they run concurrently; neither failing blocks
// the turn. Returns the best match of this turn, falling back to the
// session's cached match list when this turn produced none.
func (p *Processor) resolveAndMatch(ctx context.Context, text string, sess *model.Session, log *logger.Logger) *model.PartMatch {
	var matches []model.PartMatch

	if text != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			vctx, cancel := context.WithTimeout(gctx, p.opts.CollaboratorTimeout)
			defer cancel()
			p.vehicles.MaybeResolve(vctx, text, sess)
			return nil
		})
		g.Go(func() error {
			mctx, cancel := context.WithTimeout(gctx, p.opts.CollaboratorTimeout)
			defer cancel()
			got, err := p.matcher.Match(mctx, text, p.opts.TopK)
			if err != nil {
				log.Warn("catalog match failed", zap.Error(err))
				return nil
			}
			matches = got
			return nil
		})
		_ = g.Wait()
	}

	if len(matches) > 0 {
		sess.PartMatches = matches
		sess.PartMatchQuery = sample(text, matchQuerySampleLen)
		sess.PartMatchedAt = time.Now().UTC()
		m := matches[0]
		return &m
	}
	if len(sess.PartMatches) > 0 {
		m := sess.PartMatches[0]
		return &m
	}
	return nil
}

// selectProduct fetches the product list for the session's vehicle and the
// best part family, then picks a winner. Selection is per turn: previous
// turns' selections are cleared first, and any failure leaves the turn
// without a product rather than with a stale one.
func (p *Processor) selectProduct(ctx context.Context, sess *model.Session, best *model.PartMatch, log *logger.Logger) {
	sess.SelectedProduct = nil
	sess.ProductAlternatives = nil

	if best == nil || sess.Vehicle == nil || sess.Vehicle.VehicleID == 0 {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, p.opts.CollaboratorTimeout)
	defer cancel()
	products, err := p.directory.ProductsByVehicle(cctx, sess.Vehicle.VehicleID, best.FamilyID)
	if err != nil {
		log.Warn("product fetch failed",
			zap.String("family_id", best.FamilyID),
			zap.Error(err),
		)
		return
	}
	if len(products) == 0 {
		return
	}

	primary, related := p.rules.NormalizeByFamily(best.FamilyID, products)
	winner, alternatives := product.SelectWinner(primary)
	if winner == nil {
		return
	}
	for _, rel := range related {
		if len(alternatives) >= 4 {
			break
		}
		if rel.SameIdentity(*winner) {
			continue
		}
		alternatives = append(alternatives, rel)
	}

	sess.SelectedProduct = winner
	sess.ProductAlternatives = alternatives
}

func (p *Processor) generateReply(ctx context.Context, sess *model.Session, dec *model.Decision, log *logger.Logger) string {
	cctx, cancel := context.WithTimeout(ctx, p.opts.CollaboratorTimeout)
	defer cancel()

	reply, err := p.generator.Generate(cctx, sess.Window(p.opts.ContextWindow), dec)
	if err != nil || reply == "" {
		metrics.ReplyGenerations.WithLabelValues("error").Inc()
		log.Warn("reply generation failed, using fallback", zap.Error(err))
		return fallbackReply
	}
	metrics.ReplyGenerations.WithLabelValues("ok").Inc()
	return reply
}

func (p *Processor) sendReply(ctx context.Context, ev *model.InboundEvent, reply string, log *logger.Logger) bool {
	cctx, cancel := context.WithTimeout(ctx, p.opts.CollaboratorTimeout)
	defer cancel()

	to := session.StripDeviceSuffix(ev.ConversationID)
	if err := p.sender.Send(cctx, ev.TenantID, to, reply); err != nil {
		metrics.OutboundSends.WithLabelValues("error").Inc()
		log.Warn("outbound send failed", zap.Error(err))
		return false
	}
	metrics.OutboundSends.WithLabelValues("ok").Inc()
	return true
}

func sample(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
