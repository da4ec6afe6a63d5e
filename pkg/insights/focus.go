package insights

// Focus sub-codes describe which branch built the next-round sentence.
const (
	FocusTrackAll = "F-TRACK-ALL"
	FocusTrack    = "F-TRACK"
	FocusTrackTip = "F-TRACK-TIP"
	FocusAction   = "F-ACTION"
	FocusMaintain = "F-MAINTAIN"
	FocusGeneral  = "F-GENERAL"
)

// FocusInput is what the next-round focus sentence depends on.
type FocusInput struct {
	Missing           MissingStats
	WorstMeasured     *Component
	OpportunityIsWeak bool
	WeakSeparation    bool

	// Key is the hash key for variant selection. Empty means the focus code.
	Key     string
	Variant VariantOptions
}

// Focus is a rendered next-round sentence without any prefix.
type Focus struct {
	Code         string `json:"code"`
	Text         string `json:"text"`
	VariantIndex int    `json:"variant_index"`
}

// BuildFocus renders the next-round focus sentence. With every stat recorded
// the text never asks the player to track anything; with any stat missing it
// always starts with "Track".
func BuildFocus(in FocusInput) Focus {
	code, table := focusTable(in)
	key := in.Key
	if key == "" {
		key = code
	}
	tmpl, idx := PickVariant(key, table, in.Variant)
	vars := focusVars(in, key)
	return Focus{Code: code, Text: fill(tmpl, vars), VariantIndex: idx}
}

func focusTable(in FocusInput) (string, []string) {
	validOpp := in.WorstMeasured != nil && !in.WeakSeparation
	switch n := in.Missing.Count(); {
	case n == 4:
		return FocusTrackAll, copyFocusTrackAll
	case n > 0 && validOpp:
		return FocusTrackTip, copyFocusTrackTip
	case n > 0:
		return FocusTrack, copyFocusTrack
	case !validOpp:
		return FocusGeneral, copyFocusGeneral
	case in.OpportunityIsWeak:
		return FocusAction, copyFocusAction
	default:
		return FocusMaintain, copyFocusMaintain
	}
}

func focusVars(in FocusInput, key string) map[string]string {
	vars := map[string]string{
		"{missing}": JoinList(in.Missing.Labels()),
	}
	if opp := in.WorstMeasured; opp != nil {
		vars["{opp}"] = labelOf(*opp)
		vars["{opp_lc}"] = lowerFirst(labelOf(*opp))
		vars["{opp_value}"] = signed(opp.Value)
		tips := componentTips[opp.Name]
		tip, _ := PickVariant(key+"/tip", tips, in.Variant)
		vars["{tip}"] = tip
	}
	return vars
}
