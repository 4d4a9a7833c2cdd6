// Package bits provides the small bit-twiddling primitives shared by the
// decoder, the cache geometry calculations, and the disassembler.
package bits

// Range extracts the unsigned value held in bits [lo, hi) of v.
//
// The intermediate mask is computed in 64 bits so the full-width case
// (lo == 0, hi == 32) is well defined without relying on wraparound
// shift semantics.
func Range(v uint32, lo, hi uint8) uint32 {
	width := uint(hi) - uint(lo)
	mask := uint32((uint64(1) << width) - 1)
	return (v >> lo) & mask
}

// SignExtend treats v as a bits-wide two's complement value and sign
// extends it to the full width of uint32.
func SignExtend(v uint32, bitWidth uint8) uint32 {
	if bitWidth == 0 || bitWidth >= 32 {
		return v
	}
	signBit := uint32(1) << (bitWidth - 1)
	if v&signBit != 0 {
		return v | (^uint32(0) << bitWidth)
	}
	return v
}

// ByteSwap reverses the byte order of v: abcd -> dcba. The loader uses
// this to convert a big-endian-on-disk word read raw into a little-endian
// host's native integer, and vice versa; ByteSwap is its own inverse.
func ByteSwap(v uint32) uint32 {
	return (v >> 24) | ((v >> 8) & 0xff00) | ((v << 8) & 0xff0000) | (v << 24)
}

// Log2Ceil returns the smallest k such that 2^k >= v.
//
// Log2Ceil(0) is defined as 0: the original C computed this with a loop
// that has no explicit return on the value-0 path, so a faithful port
// must pick a deterministic convention rather than guess at intent.
func Log2Ceil(v uint32) uint8 {
	if v <= 1 {
		return 0
	}
	v--
	var k uint8
	for v > 0 {
		v >>= 1
		k++
	}
	return k
}
