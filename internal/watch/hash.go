package watch

import "hash/fnv"

// contentHash computes a stable 64-bit digest of data. The disposition
// phase only needs its before/after comparison to be byte-identical and
// not text-normalized; the specific algorithm doesn't matter, so this
// reaches for the standard library's FNV-1a rather than add a dependency
// for it.
func contentHash(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
