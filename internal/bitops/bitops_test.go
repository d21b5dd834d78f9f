package bitops

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	cases := map[uint64]bool{0: false, 1: true, 2: true, 3: false, 4: true, 1023: false, 1024: true}
	for in, want := range cases {
		if got := IsPowerOfTwo(in); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uint64]uint64{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 16: 16, 17: 32}
	for in, want := range cases {
		if got := NextPowerOfTwo(in); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestAlignCapacity(t *testing.T) {
	cases := map[uint64]uint64{0: 1, 1: 1, 5: 7, 7: 7, 8: 15, 15: 15, 16: 31}
	for in, want := range cases {
		got := AlignCapacity(in)
		if got != want {
			t.Errorf("AlignCapacity(%d) = %d, want %d", in, got, want)
		}
		if !IsPowerOfTwo(got + 1) {
			t.Errorf("AlignCapacity(%d) = %d is not of form 2^k-1", in, got)
		}
	}
}

func TestAlignUp(t *testing.T) {
	if got := AlignUp(5, 8); got != 8 {
		t.Errorf("AlignUp(5,8) = %d, want 8", got)
	}
	if got := AlignUp(16, 8); got != 16 {
		t.Errorf("AlignUp(16,8) = %d, want 16", got)
	}
}
