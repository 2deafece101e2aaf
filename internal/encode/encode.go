// Package encode implements the tagged variant sum type of event kinds: one
// Go type per wire event, each carrying only the fields it needs and
// knowing its own tag, metadata-ness, and worst-case framed length. This
// replaces the preprocessor union-of-structs the original C encoder
// generated from its code_gen tag table (Design Note 2).
package encode

import (
	"github.com/schilkp/Tonbandgeraet/config"
	"github.com/schilkp/Tonbandgeraet/internal/frame"
)

// Event is implemented by every wire event kind.
type Event interface {
	// Tag is the single byte identifying this event kind on the wire.
	Tag() byte
	// IsMetadata reports whether this event belongs in the metadata
	// replay buffer rather than the ordinary event stream.
	IsMetadata() bool
	// MaxLen is the worst-case framed length of this event kind: callers
	// size stack buffers with it before calling Encode.
	MaxLen() int
	// Encode frames this event into buf (which must be at least MaxLen()
	// bytes) and returns the number of bytes written.
	Encode(buf []byte) int
}

const (
	maxU8  = 1
	maxU32 = frame.MaxVarintLen32
	maxU64 = frame.MaxVarintLen64
	maxS64 = frame.MaxVarintLen64
	maxStr = config.MaxStrLen
)

// header starts every record: tag, then timestamp if the kind carries one,
// then a resource id if the kind carries one. Every non-metadata ("event")
// kind carries a timestamp except metadata_overflowed; metadata kinds
// generally do not, per spec.
func header(w *frame.Writer, tag byte, hasTS bool, ts uint64, hasID bool, id uint32) {
	w.WriteByte(tag)
	if hasTS {
		frame.WriteU64(w, ts)
	}
	if hasID {
		frame.WriteU32(w, id)
	}
}

func headerMaxLen(hasTS, hasID bool) int {
	n := maxU8
	if hasTS {
		n += maxU64
	}
	if hasID {
		n += maxU32
	}
	return n
}
