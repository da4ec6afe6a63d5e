package insights

import (
	"crypto/sha256"
	"encoding/binary"
)

// VariantOptions controls which phrasing the picker returns.
type VariantOptions struct {
	Seed       *string `json:"seed,omitempty"`
	Offset     int     `json:"offset"`
	FixedIndex *int    `json:"fixed_index,omitempty"` // tests and debugging
}

// WithSeed returns a copy of o using seed.
func (o VariantOptions) WithSeed(seed string) VariantOptions {
	o.Seed = &seed
	return o
}

// WithFixedIndex returns a copy of o pinned to index i.
func (o VariantOptions) WithFixedIndex(i int) VariantOptions {
	o.FixedIndex = &i
	return o
}

// PickVariant deterministically selects one of variants for outcome and
// returns it with its index. An empty list yields ("", 0).
func PickVariant(outcome string, variants []string, opts VariantOptions) (string, int) {
	if len(variants) == 0 {
		return "", 0
	}
	i := VariantIndex(outcome, len(variants), opts)
	return variants[i], i
}

// VariantIndex computes the index PickVariant would use for n candidates.
func VariantIndex(outcome string, n int, opts VariantOptions) int {
	if n <= 0 {
		return 0
	}
	switch {
	case opts.FixedIndex != nil:
		return mod(*opts.FixedIndex, n)
	case opts.Seed == nil:
		return mod(opts.Offset, n)
	default:
		h := int64(seedHash(*opts.Seed, outcome)) + int64(opts.Offset)
		return int(modInt64(h, int64(n)))
	}
}

// seedHash is the first four bytes of sha256(seed|outcome) as a big-endian
// uint32. Stored payloads depend on this value staying fixed.
func seedHash(seed, outcome string) uint32 {
	sum := sha256.Sum256([]byte(seed + "|" + outcome))
	return binary.BigEndian.Uint32(sum[:4])
}

func mod(a, n int) int {
	return int(modInt64(int64(a), int64(n)))
}

func modInt64(a, n int64) int64 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
