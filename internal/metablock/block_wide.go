//go:build amd64 || arm64

// This file backs the metadata-block contract on architectures with 128-bit
// SIMD available at the hardware level (SSE2 on amd64, NEON on arm64). The
// reference library issues one compare-and-movemask/compare-and-narrow
// instruction per Block; Go has no portable way to emit that without cgo or
// per-arch assembly, so this composes two 8-lane scalar words into one
// 16-lane logical block and stitches their masks together. The external
// contract (Width, Load, MatchByte, MatchEmpty, MatchAvailable,
// CountAvailable, ResetOccupied) is identical across both build-tag
// variants, matching the reference design's three-backends-one-contract
// shape (§9) and modeled on SnellerInc-sneller/internal/simd's composed
// vector types (e.g. Vec32x16 built from two Vec32x8 halves).
package metablock

// Width is the number of metadata bytes one Block covers on this
// architecture.
const Width = 16

// Block is an opaque snapshot of Width consecutive metadata bytes.
type Block struct {
	lo, hi word8
}

// Load reads Width bytes starting at meta[0]. The caller must ensure
// len(meta) >= Width.
func Load(meta []byte) Block {
	return Block{lo: loadWord8(meta[:8]), hi: loadWord8(meta[8:16])}
}

// MatchByte returns a bitmask with bit i set iff lane i equals b.
func (blk Block) MatchByte(b byte) uint16 {
	return uint16(blk.lo.matchByte(b)) | uint16(blk.hi.matchByte(b))<<8
}

// MatchEmpty returns a bitmask with bit i set iff lane i is Empty.
func (blk Block) MatchEmpty() uint16 {
	return uint16(blk.lo.matchEmpty()) | uint16(blk.hi.matchEmpty())<<8
}

// MatchAvailable returns a bitmask with bit i set iff lane i is Empty or
// Deleted.
func (blk Block) MatchAvailable() uint16 {
	return uint16(blk.lo.matchAvailable()) | uint16(blk.hi.matchAvailable())<<8
}

// CountAvailable returns the number of leading available lanes.
func (blk Block) CountAvailable() int {
	loAvail := blk.lo.matchAvailable()
	if loAvail != 0xFF {
		return trailingOnes8(loAvail)
	}
	return 8 + blk.hi.countAvailable()
}

// ResetOccupied clears every occupied lane to Deleted and every available
// lane to Empty, then writes the result back to dst.
func (blk Block) ResetOccupied(dst []byte) {
	blk.lo.resetOccupied().store(dst[:8])
	blk.hi.resetOccupied().store(dst[8:16])
}

func trailingOnes8(x uint8) int {
	n := 0
	for x&1 != 0 {
		n++
		x >>= 1
	}
	return n
}
