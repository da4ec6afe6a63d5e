// Package service runs one insight request end to end: load the prior
// payload, resolve the variant offset, pick the policy, store the result,
// then archive and announce it.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caddie/caddie/internal/archive"
	"github.com/caddie/caddie/internal/events"
	"github.com/caddie/caddie/internal/rounds"
	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/insights"
)

// ErrInvalidRequest wraps every input problem the caller can fix.
var ErrInvalidRequest = errors.New("invalid request")

// ErrArchiveDisabled is returned by the archive read methods when no archive
// is configured.
var ErrArchiveDisabled = errors.New("archive disabled")

// GenerateRequest is one call to produce (or fetch) a round's insights.
type GenerateRequest struct {
	Round           rounds.Round       `json:"round"`
	StrokesGained   insights.SGValues  `json:"strokes_gained"`
	Entitlement     rounds.Entitlement `json:"entitlement"`
	Seed            *string            `json:"seed,omitempty"`
	ForceRegenerate bool               `json:"force_regenerate"`
	BumpVariant     bool               `json:"bump_variant"`
}

// Result is a stored insight plus whether this call produced it.
type Result struct {
	Insight   *store.Insight `json:"insight"`
	Generated bool           `json:"generated"`
}

type publisher interface {
	PublishInsightGenerated(ctx context.Context, ev events.InsightGenerated) error
}

// Service generates and persists round insights.
type Service struct {
	store     store.InsightStore
	engine    *insights.Engine
	producer  *rounds.Producer
	archive   archive.Archive
	publisher publisher
	log       *zap.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithArchive archives every generated payload.
func WithArchive(a archive.Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithPublisher announces every generated payload.
func WithPublisher(p *events.Publisher) Option {
	return func(s *Service) {
		if p.Enabled() {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New creates a Service. The engine's thresholds are reused by the producer.
func New(st store.InsightStore, engine *insights.Engine, opts ...Option) *Service {
	s := &Service{
		store:    st,
		engine:   engine,
		producer: rounds.NewProducer(engine.Thresholds()),
		log:      zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns the stored insight for roundID, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, roundID string) (*store.Insight, error) {
	if err := checkRoundID(roundID); err != nil {
		return nil, err
	}
	return s.store.GetInsight(ctx, roundID)
}

// History lists the archived versions of a round's insight, oldest first.
func (s *Service) History(ctx context.Context, roundID string) ([]string, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if err := checkRoundID(roundID); err != nil {
		return nil, err
	}
	versions, err := s.archive.Versions(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("list archived versions: %w", err)
	}
	return versions, nil
}

// Archived returns one archived version of a round's insight. A version that
// was never archived is reported as store.ErrNotFound.
func (s *Service) Archived(ctx context.Context, roundID, version string) (*store.Insight, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if err := checkRoundID(roundID); err != nil {
		return nil, err
	}
	versions, err := s.History(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(versions, version) {
		return nil, fmt.Errorf("version %s of round %s: %w", version, roundID, store.ErrNotFound)
	}
	data, err := s.archive.GetInsight(ctx, roundID, version)
	if err != nil {
		return nil, fmt.Errorf("read archived insight: %w", err)
	}
	var in store.Insight
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode archived insight: %w", err)
	}
	return &in, nil
}

func checkRoundID(roundID string) error {
	if roundID == "" {
		return fmt.Errorf("%w: round id is required", ErrInvalidRequest)
	}
	if err := rounds.ValidateID(roundID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Generate returns the stored insight for the round unless the caller forces
// regeneration, in which case a new payload is rendered and stored.
// Regeneration keeps the variant offset unless BumpVariant is also set.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	if err := checkRoundID(req.Round.ID); err != nil {
		return nil, err
	}
	if err := req.Round.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	log := s.log.With(zap.String("round_id", req.Round.ID))

	prev, err := s.store.GetInsight(ctx, req.Round.ID)
	switch {
	case err == nil && !req.ForceRegenerate:
		log.Debug("returning stored insight")
		return &Result{Insight: prev}, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load insight: %w", err)
	}

	var stored *insights.StoredPayload
	if prev != nil {
		stored = prev.Payload()
	}
	offset := insights.ResolveOffset(stored, insights.RegenerateOptions{
		ForceRegenerate: req.ForceRegenerate,
		BumpVariant:     req.BumpVariant,
	})

	out, mode, err := s.render(req, offset)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if prev != nil {
		id = prev.ID
	}
	saved, err := s.store.UpsertInsight(ctx, store.NewInsight(id, req.Round.ID, mode, offset, out))
	if err != nil {
		return nil, fmt.Errorf("save insight: %w", err)
	}
	log.Info("insight generated",
		zap.String("mode", mode),
		zap.Int("variant_offset", offset),
		zap.Strings("outcomes", saved.Outcomes[:]),
		zap.Bool("regenerated", prev != nil))

	s.afterSave(ctx, log, saved)
	return &Result{Insight: saved, Generated: true}, nil
}

func (s *Service) render(req GenerateRequest, offset int) (*insights.PolicyOutput, string, error) {
	if req.Round.IsOnboarding() {
		in, err := s.producer.OnboardingInput(req.Round)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		out, err := insights.GenerateOnboarding(in)
		if err != nil {
			return nil, "", fmt.Errorf("onboarding policy: %w", err)
		}
		return out, store.ModeOnboarding, nil
	}

	in, err := s.producer.PolicyInput(req.Round, req.StrokesGained, req.Entitlement)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	seed := req.Round.ID
	if req.Seed != nil {
		seed = *req.Seed
	}
	out, err := s.engine.Generate(in, insights.VariantOptions{Offset: offset}.WithSeed(seed))
	if err != nil {
		return nil, "", fmt.Errorf("insight policy: %w", err)
	}
	return out, store.ModeSteady, nil
}

// afterSave archives and announces a stored insight. Failures are logged and
// never fail the request.
func (s *Service) afterSave(ctx context.Context, log *zap.Logger, in *store.Insight) {
	if s.archive != nil {
		version := fmt.Sprintf("%s-o%d", s.now().Format("20060102T150405.000000000Z"), in.VariantOffset)
		data, err := json.Marshal(in)
		if err == nil {
			err = s.archive.PutInsight(ctx, in.RoundID, version, data)
		}
		if err != nil {
			log.Warn("archive insight failed", zap.Error(err))
		}
	}

	if s.publisher != nil {
		err := s.publisher.PublishInsightGenerated(ctx, events.InsightGenerated{
			RoundID:       in.RoundID,
			Outcomes:      in.Outcomes,
			VariantOffset: in.VariantOffset,
			Mode:          in.Mode,
			GeneratedAt:   in.UpdatedAt,
		})
		if err != nil {
			log.Warn("publish insight event failed", zap.Error(err))
		}
	}
}
