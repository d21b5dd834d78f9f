package metablock

import "testing"

func TestIsOccupied(t *testing.T) {
	cases := map[byte]bool{
		0x00: true, 0x7f: true, 0x05: true,
		Empty: false, Deleted: false, Sentinel: false,
	}
	for b, want := range cases {
		if got := IsOccupied(b); got != want {
			t.Errorf("IsOccupied(%#x) = %v, want %v", b, got, want)
		}
	}
}

func makeMeta(tags ...byte) []byte {
	meta := make([]byte, Width)
	for i := range meta {
		meta[i] = Empty
	}
	copy(meta, tags)
	return meta
}

func TestMatchByte(t *testing.T) {
	meta := makeMeta(0x05, 0x12, 0x05, Deleted, 0x05)
	blk := Load(meta)
	mask := blk.MatchByte(0x05)
	want := uint16(1<<0 | 1<<2 | 1<<4)
	if mask != want {
		t.Errorf("MatchByte(0x05) = %016b, want %016b", mask, want)
	}
}

func TestMatchEmpty(t *testing.T) {
	meta := makeMeta(0x05, Empty, 0x12)
	blk := Load(meta)
	mask := blk.MatchEmpty()
	for i := 0; i < Width; i++ {
		want := meta[i] == Empty
		got := mask&(1<<uint(i)) != 0
		if got != want {
			t.Errorf("MatchEmpty bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestMatchAvailable(t *testing.T) {
	meta := makeMeta(0x05, Deleted, Empty, 0x12)
	blk := Load(meta)
	mask := blk.MatchAvailable()
	for i := 0; i < Width; i++ {
		want := meta[i] == Empty || meta[i] == Deleted
		got := mask&(1<<uint(i)) != 0
		if got != want {
			t.Errorf("MatchAvailable bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestMatchAvailableExcludesSentinel(t *testing.T) {
	meta := makeMeta(Sentinel, Deleted, Empty, 0x12)
	blk := Load(meta)
	mask := blk.MatchAvailable()
	if mask&(1<<0) != 0 {
		t.Fatal("MatchAvailable must not flag the sentinel lane as available")
	}
	for i := 1; i < Width; i++ {
		want := meta[i] == Empty || meta[i] == Deleted
		got := mask&(1<<uint(i)) != 0
		if got != want {
			t.Errorf("MatchAvailable bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestResetOccupiedLeavesSentinelUntouched(t *testing.T) {
	meta := makeMeta(Sentinel, 0x05, Empty, Deleted)
	blk := Load(meta)
	out := make([]byte, Width)
	blk.ResetOccupied(out)
	if out[0] != Sentinel {
		t.Fatalf("lane 0 was Sentinel, want it preserved, got %#x", out[0])
	}
}

func TestCountAvailable(t *testing.T) {
	meta := make([]byte, Width)
	for i := range meta {
		meta[i] = Empty
	}
	meta[0], meta[1], meta[2] = 0x01, 0x02, Deleted
	blk := Load(meta)
	if got := blk.CountAvailable(); got != 0 {
		t.Errorf("CountAvailable() = %d, want 0 (lane 0 occupied)", got)
	}

	meta2 := make([]byte, Width)
	for i := range meta2 {
		meta2[i] = Empty
	}
	meta2[Width-1] = 0x07
	blk2 := Load(meta2)
	if got := blk2.CountAvailable(); got != Width-1 {
		t.Errorf("CountAvailable() = %d, want %d", got, Width-1)
	}
}

func TestResetOccupied(t *testing.T) {
	meta := makeMeta(0x05, Empty, Deleted, 0x12)
	blk := Load(meta)
	out := make([]byte, Width)
	blk.ResetOccupied(out)
	for i := 0; i < Width; i++ {
		wasOccupied := IsOccupied(meta[i])
		if wasOccupied && out[i] != Deleted {
			t.Errorf("lane %d was occupied, want Deleted after reset, got %#x", i, out[i])
		}
		if !wasOccupied && out[i] != Empty {
			t.Errorf("lane %d was available, want Empty after reset, got %#x", i, out[i])
		}
	}
}
