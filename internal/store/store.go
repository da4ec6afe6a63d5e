// Package store persists generated round insights. One row per round; a
// regeneration overwrites the payload in place and keeps the row id.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/caddie/caddie/pkg/insights"
)

// ErrNotFound is returned when no insight exists for a round.
var ErrNotFound = errors.New("insight not found")

// Insight modes.
const (
	ModeSteady     = "steady"
	ModeOnboarding = "onboarding"
)

// Insight is a persisted insight payload for one round.
type Insight struct {
	ID            string            `json:"id"`
	RoundID       string            `json:"round_id"`
	Outcomes      [3]string         `json:"outcomes"`
	MessageLevels [3]insights.Level `json:"message_levels"`
	Messages      [3]string         `json:"messages"`
	VariantOffset int               `json:"variant_offset"`
	Mode          string            `json:"mode"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// rawOffset is the variant_offset exactly as stored, before sanitizing.
	rawOffset any
}

// InsightStore is the persistence collaborator of the insight service.
type InsightStore interface {
	// GetInsight returns the insight for roundID or ErrNotFound.
	GetInsight(ctx context.Context, roundID string) (*Insight, error)
	// UpsertInsight creates or overwrites the insight for in.RoundID and
	// returns the stored row.
	UpsertInsight(ctx context.Context, in *Insight) (*Insight, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewInsight builds an unsaved Insight from a policy output.
func NewInsight(id, roundID, mode string, offset int, out *insights.PolicyOutput) *Insight {
	return &Insight{
		ID:            id,
		RoundID:       roundID,
		Outcomes:      out.Outcomes,
		MessageLevels: out.MessageLevels,
		Messages:      out.Messages,
		VariantOffset: offset,
		Mode:          mode,
	}
}

// Output returns the stored messages as a PolicyOutput.
func (i *Insight) Output() *insights.PolicyOutput {
	return &insights.PolicyOutput{
		Outcomes:      i.Outcomes,
		MessageLevels: i.MessageLevels,
		Messages:      i.Messages,
	}
}

// Payload returns the stored payload for offset resolution. It carries the
// raw stored offset so malformed values resolve to 0.
func (i *Insight) Payload() *insights.StoredPayload {
	if i.rawOffset != nil {
		return &insights.StoredPayload{VariantOffset: i.rawOffset}
	}
	return &insights.StoredPayload{VariantOffset: i.VariantOffset}
}

// payloadDoc is the JSON document kept in the payload column.
type payloadDoc struct {
	Outcomes      [3]string         `json:"outcomes"`
	MessageLevels [3]insights.Level `json:"message_levels"`
	Messages      [3]string         `json:"messages"`
	VariantOffset any               `json:"variant_offset"`
}

func encodePayload(in *Insight) ([]byte, error) {
	data, err := json.Marshal(payloadDoc{
		Outcomes:      in.Outcomes,
		MessageLevels: in.MessageLevels,
		Messages:      in.Messages,
		VariantOffset: in.VariantOffset,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

func decodePayload(data []byte, in *Insight) error {
	var doc payloadDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	in.Outcomes = doc.Outcomes
	in.MessageLevels = doc.MessageLevels
	in.Messages = doc.Messages
	in.rawOffset = doc.VariantOffset
	in.VariantOffset = insights.ResolveOffset(&insights.StoredPayload{VariantOffset: doc.VariantOffset}, insights.RegenerateOptions{})
	return nil
}

func validate(in *Insight) error {
	if in.RoundID == "" {
		return errors.New("insight has no round id")
	}
	if in.Mode != ModeSteady && in.Mode != ModeOnboarding {
		return fmt.Errorf("insight has unknown mode %q", in.Mode)
	}
	return nil
}

// Open returns the store for driver ("postgres" or "sqlite").
func Open(ctx context.Context, driver, dsn string) (InsightStore, error) {
	switch driver {
	case "postgres":
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "":
		s, err := OpenSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
