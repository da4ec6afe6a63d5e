package insights_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/caddie/caddie/pkg/insights"
)

func intp(v int) *int { return &v }

func f64p(v float64) *float64 { return &v }

func TestClassifyMissing_ZeroIsRecorded(t *testing.T) {
	got := insights.ClassifyMissing(insights.StatsRecord{
		FIRHit:    intp(0),
		GIRHit:    nil,
		Putts:     intp(0),
		Penalties: nil,
	})
	want := insights.MissingStats{GIR: true, Penalties: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassifyMissing mismatch (-want +got):\n%s", diff)
	}
	if got.Count() != 2 {
		t.Errorf("expected count 2, got %d", got.Count())
	}
	if diff := cmp.Diff([]string{"gir", "penalties"}, got.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingStats_AllCombinations(t *testing.T) {
	opp := &insights.Component{Name: insights.Putting, Label: "Putting", Value: -1.8}

	for mask := 0; mask < 16; mask++ {
		m := insights.MissingStats{
			FIR:       mask&1 != 0,
			GIR:       mask&2 != 0,
			Putts:     mask&4 != 0,
			Penalties: mask&8 != 0,
		}
		absent := 0
		for bit := 0; bit < 4; bit++ {
			if mask&(1<<bit) != 0 {
				absent++
			}
		}

		if m.Count() != absent {
			t.Errorf("mask %04b: expected count %d, got %d", mask, absent, m.Count())
		}
		if len(m.Keys()) != absent {
			t.Errorf("mask %04b: expected %d keys, got %v", mask, absent, m.Keys())
		}

		for _, worst := range []*insights.Component{nil, opp} {
			for variant := 0; variant < 3; variant++ {
				f := insights.BuildFocus(insights.FocusInput{
					Missing:           m,
					WorstMeasured:     worst,
					OpportunityIsWeak: worst != nil,
					Variant:           insights.VariantOptions{}.WithFixedIndex(variant),
				})
				hasTrack := strings.Contains(strings.ToLower(f.Text), "track")
				if hasTrack != (absent > 0) {
					t.Errorf("mask %04b variant %d: track present = %v with %d missing: %q",
						mask, variant, hasTrack, absent, f.Text)
				}
				if absent > 0 && !strings.HasPrefix(f.Text, "Track") {
					t.Errorf("mask %04b: expected focus to start with Track, got %q", mask, f.Text)
				}
			}
		}
	}
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"fir"}, "fir"},
		{[]string{"fir", "gir"}, "fir and gir"},
		{[]string{"fir", "gir", "putts"}, "fir, gir, and putts"},
		{[]string{"fir", "gir", "putts", "penalties"}, "fir, gir, putts, and penalties"},
	}

	for _, tt := range tests {
		got := insights.JoinList(tt.items)
		if got != tt.want {
			t.Errorf("JoinList(%v) = %q, want %q", tt.items, got, tt.want)
		}
	}
}

func TestMissingStats_Labels(t *testing.T) {
	m := insights.MissingStats{FIR: true, Putts: true}
	got := insights.JoinList(m.Labels())
	if got != "fairways hit and putts" {
		t.Errorf("expected %q, got %q", "fairways hit and putts", got)
	}
}
