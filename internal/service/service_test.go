package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/caddie/caddie/internal/archive"
	"github.com/caddie/caddie/internal/events"
	"github.com/caddie/caddie/internal/rounds"
	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/insights"
)

type fakePublisher struct {
	events []events.InsightGenerated
	err    error
}

func (f *fakePublisher) PublishInsightGenerated(ctx context.Context, ev events.InsightGenerated) error {
	f.events = append(f.events, ev)
	return f.err
}

type failingArchive struct{}

func (failingArchive) PutInsight(ctx context.Context, roundID, version string, data []byte) error {
	return errors.New("bucket gone")
}

func (failingArchive) GetInsight(ctx context.Context, roundID, version string) ([]byte, error) {
	return nil, errors.New("bucket gone")
}

func (failingArchive) Versions(ctx context.Context, roundID string) ([]string, error) {
	return nil, errors.New("bucket gone")
}

func f64p(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	st, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	engine := insights.NewEngine(insights.WithCopyGuard(insights.NewCopyGuard(true)))
	return New(st, engine, opts...)
}

func steadyRequest() GenerateRequest {
	return GenerateRequest{
		Round: rounds.Round{
			ID:          "round-42",
			RoundNumber: 12,
			Score:       75,
			ToPar:       3,
			AvgScore:    74,
			Band:        insights.BandExpected,
			Stats: insights.StatsRecord{
				FIRHit: intp(8), GIRHit: intp(9), Putts: intp(34), Penalties: intp(0),
			},
		},
		StrokesGained: insights.SGValues{
			OffTee:    f64p(0.2),
			Approach:  f64p(-0.8),
			Putting:   f64p(-2.1),
			Penalties: f64p(-0.2),
		},
		Entitlement: rounds.Entitlement{IsPremium: true, ShowStrokesGained: true},
	}
}

func TestGenerate_FirstCallStores(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newTestService(t)
	svc.publisher = pub

	res, err := svc.Generate(ctx, steadyRequest())
	require.NoError(t, err)
	assert.True(t, res.Generated)
	assert.Equal(t, store.ModeSteady, res.Insight.Mode)
	assert.Equal(t, 0, res.Insight.VariantOffset)
	assert.Equal(t, [3]string{"M1-B", "M2-B", "M3-C"}, res.Insight.Outcomes)
	assert.True(t, strings.HasPrefix(res.Insight.Messages[2], insights.NextRoundPrefix))

	got, err := svc.Get(ctx, "round-42")
	require.NoError(t, err)
	assert.Equal(t, res.Insight.Messages, got.Messages)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "round-42", pub.events[0].RoundID)
	assert.Equal(t, store.ModeSteady, pub.events[0].Mode)
}

func TestGenerate_ReturnsStoredWithoutForce(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := newTestService(t)
	svc.publisher = pub

	first, err := svc.Generate(ctx, steadyRequest())
	require.NoError(t, err)

	req := steadyRequest()
	req.BumpVariant = true
	second, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Generated)
	assert.Equal(t, first.Insight.Messages, second.Insight.Messages)
	assert.Len(t, pub.events, 1, "a cache hit publishes nothing")
}

func TestGenerate_RegenerateOffsets(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Generate(ctx, steadyRequest())
	require.NoError(t, err)

	req := steadyRequest()
	req.ForceRegenerate = true
	same, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.True(t, same.Generated)
	assert.Equal(t, 0, same.Insight.VariantOffset)
	assert.Equal(t, first.Insight.Messages, same.Insight.Messages, "force without bump re-renders the same wording")
	assert.Equal(t, first.Insight.ID, same.Insight.ID)

	req.BumpVariant = true
	bumped, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, bumped.Insight.VariantOffset)
	assert.Equal(t, first.Insight.Outcomes, bumped.Insight.Outcomes)
	for i := range bumped.Insight.Messages {
		assert.NotEqual(t, first.Insight.Messages[i], bumped.Insight.Messages[i], "message %d", i+1)
	}

	again, err := svc.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Insight.VariantOffset)
}

func TestGenerate_Onboarding(t *testing.T) {
	svc := newTestService(t)
	req := steadyRequest()
	req.Round.RoundNumber = 2
	req.Round.PreviousScore = intp(79)

	res, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, store.ModeOnboarding, res.Insight.Mode)
	assert.Equal(t, insights.OutcomeOB2Better, res.Insight.Outcomes[0])
	assert.Equal(t, "Round 2 came in at 75 (+3), 4 strokes better than your last round.", res.Insight.Messages[0])
}

func TestGenerate_EntitlementGating(t *testing.T) {
	svc := newTestService(t)
	req := steadyRequest()
	req.Entitlement = rounds.Entitlement{IsPremium: true}

	res, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, insights.OutcomeM1NoComponents, res.Insight.Outcomes[0])
	assert.Equal(t, insights.OutcomeM2NoComponents, res.Insight.Outcomes[1])
}

func TestGenerate_InvalidRequest(t *testing.T) {
	svc := newTestService(t)

	req := steadyRequest()
	req.Round.ID = ""
	_, err := svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = steadyRequest()
	req.Round.Score = 0
	_, err = svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerate_SideEffectFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := newTestService(t, WithLogger(zap.New(core)), WithArchive(failingArchive{}))
	svc.publisher = &fakePublisher{err: errors.New("broker down")}

	res, err := svc.Generate(context.Background(), steadyRequest())
	require.NoError(t, err)
	assert.True(t, res.Generated)

	assert.Equal(t, 1, logs.FilterMessage("archive insight failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("publish insight event failed").Len())
}

func TestGenerate_ArchivesPayload(t *testing.T) {
	dir := t.TempDir()
	local := archive.NewLocalArchive(dir)
	svc := newTestService(t, WithArchive(local))

	_, err := svc.Generate(context.Background(), steadyRequest())
	require.NoError(t, err)

	versions, err := local.Versions(context.Background(), "round-42")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.True(t, strings.HasSuffix(versions[0], "-o0"))
}

func TestGenerate_RejectsPathLikeRoundIDs(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, WithArchive(archive.NewLocalArchive(dir)))

	for _, id := range []string{"../../escaped", `..\escaped`, "a/b", ".."} {
		req := steadyRequest()
		req.Round.ID = id
		_, err := svc.Generate(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest, "round id %q", id)
	}
	_, err := svc.Get(context.Background(), "../x")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestHistoryAndArchived(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, WithArchive(archive.NewLocalArchive(t.TempDir())))
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := svc.Generate(ctx, steadyRequest())
	require.NoError(t, err)
	req := steadyRequest()
	req.ForceRegenerate = true
	req.BumpVariant = true
	_, err = svc.Generate(ctx, req)
	require.NoError(t, err)

	versions, err := svc.History(ctx, "round-42")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.True(t, strings.HasSuffix(versions[0], "-o0"))
	assert.True(t, strings.HasSuffix(versions[1], "-o1"))

	old, err := svc.Archived(ctx, "round-42", versions[0])
	require.NoError(t, err)
	assert.Equal(t, first.Insight.Messages, old.Messages)
	assert.Equal(t, 0, old.VariantOffset)

	_, err = svc.Archived(ctx, "round-42", "never")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistory_ArchiveDisabled(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.History(context.Background(), "round-42")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, err = svc.Archived(context.Background(), "round-42", "v")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
