package insights

import (
	"fmt"
	"math"
	"strings"
)

// fill replaces {placeholders} in tmpl. Placeholders without a value are left
// as-is so tests catch them.
func fill(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// signed formats v with an explicit sign and one decimal. Values that round
// to zero print as "0.0".
func signed(v float64) string {
	r := math.Round(v*10) / 10
	if r == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%+.1f", r)
}

// FormatToPar renders a score relative to par: "E", "+3", "-2".
func FormatToPar(toPar int) string {
	switch {
	case toPar == 0:
		return "E"
	case toPar > 0:
		return fmt.Sprintf("+%d", toPar)
	default:
		return fmt.Sprintf("%d", toPar)
	}
}

func strokes(n int) string {
	if n == 1 {
		return "1 stroke"
	}
	return fmt.Sprintf("%d strokes", n)
}

func labelOf(c Component) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name.Label()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// decorate inserts " (note)" before the final period of text.
func decorate(text, note string) string {
	if note == "" {
		return text
	}
	if strings.HasSuffix(text, ".") {
		return strings.TrimSuffix(text, ".") + " (" + note + ")."
	}
	return text + " (" + note + ")"
}
