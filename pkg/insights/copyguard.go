package insights

import (
	"fmt"
	"strings"
)

// DefaultBannedTokens are hedging, cliché and corporate phrases that must
// never reach a player, plus em and en dashes.
var DefaultBannedTokens = []string{
	"consider",
	"might",
	"could",
	"perhaps",
	"maybe",
	"possibly",
	"try to",
	"challenge",
	"moving forward",
	"going forward",
	"significant impact",
	"leverage",
	"at the end of the day",
	"game changer",
	"keep up the good work",
	"room for improvement",
	"—",
	"–",
}

// MaxSentenceWords is the ceiling on words per sentence in rendered copy.
const MaxSentenceWords = 30

// GuardContext identifies where a checked text came from.
type GuardContext struct {
	Slot         int // 1-based message slot
	Outcome      string
	VariantIndex int
}

// CopyViolation is returned when rendered copy breaks a copy rule.
type CopyViolation struct {
	Rule    string // "banned_token" or "structure"
	Token   string
	Context GuardContext
	Text    string
}

func (v *CopyViolation) Error() string {
	return fmt.Sprintf("copy guard: %s %q in message %d (outcome %s, variant %d): %s",
		v.Rule, v.Token, v.Context.Slot, v.Context.Outcome, v.Context.VariantIndex, v.Text)
}

// CopyGuard asserts copy rules in development and test builds. A disabled
// guard accepts everything.
type CopyGuard struct {
	Enabled bool
	Banned  []string
}

// NewCopyGuard returns a guard using DefaultBannedTokens.
func NewCopyGuard(enabled bool) *CopyGuard {
	return &CopyGuard{Enabled: enabled, Banned: DefaultBannedTokens}
}

// Check returns a *CopyViolation for the first banned token or structural
// problem found in text.
func (g *CopyGuard) Check(text string, ctx GuardContext) error {
	if g == nil || !g.Enabled {
		return nil
	}
	lower := strings.ToLower(text)
	for _, tok := range g.Banned {
		if tok == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(tok)) {
			return &CopyViolation{Rule: "banned_token", Token: tok, Context: ctx, Text: text}
		}
	}
	if problem := StructureProblem(text); problem != "" {
		return &CopyViolation{Rule: "structure", Token: problem, Context: ctx, Text: text}
	}
	return nil
}

// StructureProblem returns a short description of the first formatting rule
// text breaks, or "" when it is clean.
func StructureProblem(text string) string {
	switch {
	case strings.Contains(text, "  "):
		return "double space"
	case strings.Contains(text, " ."):
		return "space before period"
	case strings.Contains(text, ".."):
		return "double period"
	case strings.TrimSpace(text) != text:
		return "surrounding whitespace"
	}
	for _, sentence := range splitSentences(text) {
		if len(strings.Fields(sentence)) > MaxSentenceWords {
			return "sentence too long"
		}
	}
	return ""
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}
