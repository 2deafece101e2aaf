package frame

import "math"

// MaxVarintLen32 is the longest possible LEB128 encoding of a uint32.
const MaxVarintLen32 = 5

// MaxVarintLen64 is the longest possible LEB128 encoding of a uint64.
const MaxVarintLen64 = 10

// WriteU32 writes v as an unsigned LEB128 varint: 7 bits per byte,
// little-endian, continuation flagged by the MSB.
func WriteU32(w *Writer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteU64 writes v as an unsigned LEB128 varint.
func WriteU64(w *Writer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// WriteS64 zigzag-encodes v and writes it as an unsigned varint. INT64_MIN
// cannot be negated without overflow, so it is given a single-byte escape
// (the varint value 1, which the normal encoding never produces: that would
// require a negative zero) rather than participating in the usual
// abs-value-with-sign-in-LSB construction.
func WriteS64(w *Writer, v int64) {
	if v == math.MinInt64 {
		w.WriteByte(0x01)
		return
	}
	var abs uint64
	var sign uint64
	if v < 0 {
		abs = uint64(-v)
		sign = 1
	} else {
		abs = uint64(v)
	}
	WriteU64(w, (abs<<1)|sign)
}

// WriteStr writes up to maxLen bytes of s, stopping early at the first NUL
// byte. No length prefix or terminator is written; the field's end is
// implicit once the decoder knows maxLen.
func WriteStr(w *Writer, s string, maxLen int) {
	n := len(s)
	if n > maxLen {
		n = maxLen
	}
	for i := 0; i < n; i++ {
		if s[i] == 0 {
			return
		}
		w.WriteByte(s[i])
	}
}
