// Package frame implements the self-delimiting byte-stuffing frame codec
// used to wrap every tband event record. No encoded frame contains a literal
// 0x00 byte except its own trailing terminator, so a reader can scan a raw
// byte stream for 0x00 to find frame boundaries without length prefixes.
//
// The scheme is a COBS variant: a frame starts with a reserved code byte,
// every non-zero payload byte is copied through untouched, and every zero
// payload byte is replaced in place by the start of a new code byte run. A
// run of 254 consecutive non-zero bytes is closed early with code 0xFF,
// which the reader knows implies "more data, no zero consumed" rather than
// "frame ends here".
package frame

// Writer accumulates a single framed record into a caller-provided buffer.
// The buffer must be at least Max(n) bytes for an n-byte payload; Writer
// does not grow or reallocate it.
type Writer struct {
	buf                   []byte
	pos                   int
	codeIdx               int
	run                   byte
	justFinishedFullBlock bool
}

// NewWriter starts a new frame into buf, reserving its first byte as the
// initial code byte slot.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf, pos: 1, codeIdx: 0, run: 1}
}

// WriteByte adds one payload byte to the frame, stuffing it if it is zero.
func (w *Writer) WriteByte(b byte) {
	if b != 0 {
		w.buf[w.pos] = b
		w.pos++
		w.run++
		if w.run == 0xFF {
			w.buf[w.codeIdx] = 0xFF
			w.codeIdx = w.pos
			w.pos++
			w.run = 1
			w.justFinishedFullBlock = true
		} else {
			w.justFinishedFullBlock = false
		}
		return
	}

	w.buf[w.codeIdx] = w.run
	w.codeIdx = w.pos
	w.pos++
	w.run = 1
	w.justFinishedFullBlock = false
}

// Write adds a run of payload bytes, equivalent to calling WriteByte for each.
func (w *Writer) Write(p []byte) {
	for _, b := range p {
		w.WriteByte(b)
	}
}

// Finish closes the frame and returns its total length in bytes written to
// the backing buffer. The frame must not be reused after calling Finish.
func (w *Writer) Finish() int {
	if w.justFinishedFullBlock {
		w.buf[w.codeIdx] = 0
		return w.pos
	}
	w.buf[w.codeIdx] = w.run
	w.buf[w.pos] = 0
	w.pos++
	return w.pos
}

// Max returns the worst-case framed length for a payload of n bytes:
// one initial code byte, one extra code byte per started 254-byte block,
// the n payload bytes themselves, and a closing terminator.
func Max(n int) int {
	if n <= 0 {
		return 2
	}
	blocks := (n + 253) / 254
	return 1 + blocks + n + 1
}
