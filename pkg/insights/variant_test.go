package insights_test

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/caddie/caddie/pkg/insights"
)

var threeVariants = []string{"a", "b", "c"}

func TestPickVariant_Empty(t *testing.T) {
	text, idx := insights.PickVariant("M1-A", nil, insights.VariantOptions{Offset: 5})
	if text != "" || idx != 0 {
		t.Errorf("expected (\"\", 0), got (%q, %d)", text, idx)
	}
}

func TestPickVariant_FixedIndex(t *testing.T) {
	tests := []struct {
		fixed int
		want  int
	}{
		{0, 0},
		{2, 2},
		{3, 0},
		{7, 1},
		{-1, 2},
		{-4, 2},
	}
	for _, tt := range tests {
		opts := insights.VariantOptions{Offset: 1}.WithSeed("round-1").WithFixedIndex(tt.fixed)
		text, idx := insights.PickVariant("M2-B", threeVariants, opts)
		if idx != tt.want {
			t.Errorf("fixed %d: expected index %d, got %d", tt.fixed, tt.want, idx)
		}
		if text != threeVariants[tt.want] {
			t.Errorf("fixed %d: expected %q, got %q", tt.fixed, threeVariants[tt.want], text)
		}
	}
}

func TestPickVariant_OffsetWithoutSeed(t *testing.T) {
	for offset := -5; offset <= 5; offset++ {
		_, idx := insights.PickVariant("M3-C", threeVariants, insights.VariantOptions{Offset: offset})
		want := ((offset % 3) + 3) % 3
		if idx != want {
			t.Errorf("offset %d: expected index %d, got %d", offset, want, idx)
		}
	}
}

func TestPickVariant_SeedHash(t *testing.T) {
	seed := "round-42"
	outcome := "M1-B"
	sum := sha256.Sum256([]byte(seed + "|" + outcome))
	h := int64(binary.BigEndian.Uint32(sum[:4]))

	for offset := 0; offset < 4; offset++ {
		_, idx := insights.PickVariant(outcome, threeVariants, insights.VariantOptions{Offset: offset}.WithSeed(seed))
		want := int((h + int64(offset)) % 3)
		if idx != want {
			t.Errorf("offset %d: expected index %d, got %d", offset, want, idx)
		}
	}
}

func TestPickVariant_OffsetAlwaysMovesWithSeed(t *testing.T) {
	opts := insights.VariantOptions{}.WithSeed("round-7")
	_, first := insights.PickVariant("M2-B", threeVariants, opts)
	opts.Offset = 1
	_, second := insights.PickVariant("M2-B", threeVariants, opts)
	if first == second {
		t.Errorf("expected offset 1 to change the index, both were %d", first)
	}
}

func TestPickVariant_Deterministic(t *testing.T) {
	opts := insights.VariantOptions{Offset: 2}.WithSeed("abc")
	_, want := insights.PickVariant("M3-B", threeVariants, opts)
	for i := 0; i < 50; i++ {
		if _, got := insights.PickVariant("M3-B", threeVariants, opts); got != want {
			t.Fatalf("iteration %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestVariantIndex_NonPositiveN(t *testing.T) {
	if got := insights.VariantIndex("M1-A", 0, insights.VariantOptions{Offset: 3}); got != 0 {
		t.Errorf("expected 0 for n=0, got %d", got)
	}
}
