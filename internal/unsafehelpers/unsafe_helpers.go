// Package unsafehelpers centralizes every unavoidable use of the unsafe
// standard-library package so the rest of this module stays clean and easy
// to audit. Every helper documents its pre/post-conditions.
//
// DISCLAIMER: these helpers deliberately break Go's memory-safety model for
// zero-allocation conversions. Use only inside this module; they are not
// part of the public API and may change without notice.
package unsafehelpers

import "unsafe"

// BytesToString converts a mutable byte slice to an immutable string without
// allocating. The caller must guarantee b is never modified for the
// lifetime of the resulting string.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes re-interprets string data as a byte slice. The slice must
// remain read-only: writing to it mutates immutable string storage.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// ByteSliceFrom returns a []byte view of raw memory starting at ptr with the
// given length. Used by internal/hashseed's scalar-key fallback path, where
// only the key's address and size are known at runtime.
func ByteSliceFrom(ptr unsafe.Pointer, length uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), length)
}
