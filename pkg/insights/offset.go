package insights

import (
	"encoding/json"
	"math"
)

// StoredPayload is the part of a persisted insight the offset resolver reads.
// VariantOffset holds whatever was stored, so malformed values can be seen.
// Only numeric values count; strings, booleans and nil resolve to 0.
type StoredPayload struct {
	VariantOffset any `json:"variant_offset"`
}

// RegenerateOptions are the caller's regeneration intent flags.
type RegenerateOptions struct {
	ForceRegenerate bool `json:"force_regenerate"`
	BumpVariant     bool `json:"bump_variant"`
}

// ResolveOffset returns the variant offset to render with. A missing or
// invalid stored offset counts as 0. The offset only advances when the caller
// both forces regeneration and asks for a new variant, and saturates at
// math.MaxInt.
func ResolveOffset(prev *StoredPayload, opts RegenerateOptions) int {
	offset := 0
	if prev != nil {
		offset = storedOffset(prev.VariantOffset)
	}
	if opts.ForceRegenerate && opts.BumpVariant && offset < math.MaxInt {
		return offset + 1
	}
	return offset
}

func storedOffset(raw any) int {
	var f float64
	switch v := raw.(type) {
	case int:
		return max(v, 0)
	case int64:
		if v < 0 || int64(int(v)) != v {
			return 0
		}
		return int(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= float64(math.MaxInt) {
		return 0
	}
	return int(math.Floor(f))
}
