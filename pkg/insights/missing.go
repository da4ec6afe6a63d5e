package insights

import "strings"

// MissingStats records which of the four advanced stats were not recorded.
type MissingStats struct {
	FIR       bool `json:"fir"`
	GIR       bool `json:"gir"`
	Putts     bool `json:"putts"`
	Penalties bool `json:"penalties"`
}

// StatsRecord is the nullable advanced-stat view of a round. A nil field was
// not recorded; zero is a recorded value.
type StatsRecord struct {
	FIRHit    *int `json:"fir_hit"`
	GIRHit    *int `json:"gir_hit"`
	Putts     *int `json:"putts"`
	Penalties *int `json:"penalties"`
}

// ClassifyMissing reports which stats of r are absent.
func ClassifyMissing(r StatsRecord) MissingStats {
	return MissingStats{
		FIR:       r.FIRHit == nil,
		GIR:       r.GIRHit == nil,
		Putts:     r.Putts == nil,
		Penalties: r.Penalties == nil,
	}
}

// Count returns how many stats are missing (0-4).
func (m MissingStats) Count() int {
	n := 0
	for _, missing := range m.flags() {
		if missing {
			n++
		}
	}
	return n
}

// Keys returns the missing stat keys in fixed order: fir, gir, putts, penalties.
func (m MissingStats) Keys() []string {
	keys := []string{"fir", "gir", "putts", "penalties"}
	var out []string
	for i, missing := range m.flags() {
		if missing {
			out = append(out, keys[i])
		}
	}
	return out
}

// Labels returns the missing stats as words used in message copy.
func (m MissingStats) Labels() []string {
	labels := []string{"fairways hit", "greens in regulation", "putts", "penalties"}
	var out []string
	for i, missing := range m.flags() {
		if missing {
			out = append(out, labels[i])
		}
	}
	return out
}

// All reports whether every stat is missing.
func (m MissingStats) All() bool { return m.Count() == 4 }

// None reports whether every stat was recorded.
func (m MissingStats) None() bool { return m.Count() == 0 }

func (m MissingStats) flags() [4]bool {
	return [4]bool{m.FIR, m.GIR, m.Putts, m.Penalties}
}

// JoinList joins items with an Oxford comma: "a", "a and b", "a, b, and c".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}
