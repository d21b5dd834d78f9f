// Package hashseed supplies the default key hasher used when a container is
// constructed without an explicit hash function.
//
// The reference library leaves hashing to whatever std::hash/function object
// the caller's traits bind in (the hash algorithm itself is out of scope —
// see the design document's "supported hash families" table). This package
// is that default binding for Go: a process-seeded hash/maphash.Hash, typed
// the same way Voskan-arena-cache/pkg/cache.go's shard.hash does — a type
// switch for the zero-allocation string/[]byte paths, falling back to an
// unsafe byte reinterpretation for fixed-size scalar keys.
package hashseed

import (
	"hash/maphash"
	"unsafe"

	"github.com/Voskan/arena-table/internal/unsafehelpers"
)

// Hasher computes a 64-bit digest for a key of type K. Engines accept one at
// construction time; Default below is used when the caller supplies none.
type Hasher[K comparable] func(key K) uint64

// Seed is a process-lifetime random seed, matching maphash's own guidance
// that one seed should be shared across many Hash values rather than
// reseeded per call.
type Seed struct {
	s maphash.Seed
}

// NewSeed draws a fresh random seed.
func NewSeed() Seed {
	return Seed{s: maphash.MakeSeed()}
}

// Default returns a Hasher bound to this seed. It special-cases string and
// []byte keys to avoid the unsafe reinterpretation path, and falls back to
// hashing the key's raw bytes for scalar/struct keys — valid only for keys
// without pointer-shaped fields, since the hash would otherwise depend on
// pointer identity rather than value.
func Default[K comparable](seed Seed) Hasher[K] {
	return func(key K) uint64 {
		var h maphash.Hash
		h.SetSeed(seed.s)
		switch k := any(key).(type) {
		case string:
			h.WriteString(k)
		case []byte:
			h.Write(k)
		default:
			ptr := unsafe.Pointer(&key)
			h.Write(unsafehelpers.ByteSliceFrom(ptr, unsafe.Sizeof(key)))
		}
		return h.Sum64()
	}
}
