//go:build !amd64 && !arm64

// This file backs the metadata-block contract on architectures without a
// cheap wide compare primitive, using the 8-lane scalar word. Mirrors the
// reference library's generic/NEON width split, and the amd64-vs-generic
// split SnellerInc-sneller/internal/aes/hash_generic.go uses for its own
// per-architecture fast paths.
package metablock

// Width is the number of metadata bytes one Block covers on this
// architecture.
const Width = 8

// Block is an opaque snapshot of Width consecutive metadata bytes, loaded
// from a slice and matched lane-wise against tag values.
type Block struct {
	w word8
}

// Load reads Width bytes starting at meta[0]. The caller must ensure
// len(meta) >= Width.
func Load(meta []byte) Block {
	return Block{w: loadWord8(meta)}
}

// MatchByte returns a bitmask with bit i set iff lane i equals b.
func (blk Block) MatchByte(b byte) uint16 { return uint16(blk.w.matchByte(b)) }

// MatchEmpty returns a bitmask with bit i set iff lane i is Empty.
func (blk Block) MatchEmpty() uint16 { return uint16(blk.w.matchEmpty()) }

// MatchAvailable returns a bitmask with bit i set iff lane i is Empty or
// Deleted.
func (blk Block) MatchAvailable() uint16 { return uint16(blk.w.matchAvailable()) }

// CountAvailable returns the number of leading available lanes.
func (blk Block) CountAvailable() int { return blk.w.countAvailable() }

// ResetOccupied clears every occupied lane to Deleted and every available
// lane to Empty, then writes the result back to dst.
func (blk Block) ResetOccupied(dst []byte) {
	blk.w.resetOccupied().store(dst)
}
