package backend

import (
	"io"

	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/meta"
	"github.com/schilkp/Tonbandgeraet/port"
)

// Stream is the streaming backend (C8): every record is written to a
// Sink as it is submitted. On Start, each core's metadata buffer is
// replayed in core-id order, each prefixed by a core_id record
// identifying the source core, so a consumer attaching mid-session still
// learns every task/queue/ISR name registered before it connected and can
// attribute it correctly.
type Stream struct {
	sink io.Writer
	meta *meta.Store
	port port.Port
}

// NewStream builds a streaming backend writing to sink, replaying from
// store on Start, and using p for timestamps and the current core id.
func NewStream(sink io.Writer, store *meta.Store, p port.Port) *Stream {
	return &Stream{sink: sink, meta: store, port: p}
}

// Forward writes framed directly to the sink. A write error or a short
// write both count as a drop: the caller could not be sure the consumer
// received the record.
func (s *Stream) Forward(_ int, framed []byte) ForwardResult {
	n, err := s.sink.Write(framed)
	if err != nil || n != len(framed) {
		return ForwardDropped
	}
	return ForwardOK
}

// Start replays every core's metadata buffer to the sink, in core-id
// order, each prefixed by that core's core_id record, then emits a
// trailing core_id for the current core so that subsequent live events
// are attributed correctly (spec §4.6). If any core's metadata buffer
// had already overflowed, a metadata_overflowed record is written for
// that core immediately after its (incomplete) replay, and Start reports
// a *MetadataDropOnStartError* once every core has been replayed.
func (s *Stream) Start() error {
	var dropped []int
	for i := 0; i < s.meta.NumCores(); i++ {
		if err := s.writeEvent(&encode.CoreID{TS: s.port.Timestamp(), CoreID: uint32(i)}); err != nil {
			return err
		}
		buf := s.meta.Core(i)
		if n, err := s.sink.Write(buf.Bytes()); err != nil || n != len(buf.Bytes()) {
			return err
		}
		if buf.ConsumeOverflow() {
			if err := s.writeEvent(&encode.MetadataOverflowed{CoreID: uint32(i)}); err != nil {
				return err
			}
			dropped = append(dropped, i)
		}
	}
	if err := s.writeEvent(&encode.CoreID{TS: s.port.Timestamp(), CoreID: uint32(s.port.CurrentCoreID())}); err != nil {
		return err
	}
	if len(dropped) > 0 {
		return &MetadataDropOnStartError{Cores: dropped}
	}
	return nil
}

func (s *Stream) writeEvent(ev encode.Event) error {
	b := make([]byte, ev.MaxLen())
	n := ev.Encode(b)
	_, err := s.sink.Write(b[:n])
	return err
}

// Stop is a no-op: the streaming backend has no buffered state beyond
// what Forward already wrote through.
func (s *Stream) Stop() error { return nil }

// Reset is a no-op for the same reason Stop is.
func (s *Stream) Reset() error { return nil }

// Finished always reports false: the streaming backend never reaches a
// terminal state on its own, only via an explicit Stop.
func (s *Stream) Finished(int) bool { return false }

var _ Backend = (*Stream)(nil)

// MetadataDropOnStartError is returned by Stream.Start when one or more
// cores' metadata replay buffers had already overflowed. The root
// package maps this to ErrCodeMetadataDropOnStart.
type MetadataDropOnStartError struct {
	Cores []int
}

func (e *MetadataDropOnStartError) Error() string {
	return "tband: metadata dropped before stream start"
}
