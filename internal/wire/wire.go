// Package wire implements a flat, non-semantic decoder for the tband wire
// format: unframe, read the tag byte, read whatever fixed fields that tag
// carries, and hand back a Record a caller can print or filter. It
// deliberately does not reconstruct RTOS semantics (task state machines,
// marker begin/end pairing, queue occupancy) -- that belongs to a
// dedicated analysis tool, not a dump utility.
//
// Grounded on the teacher's cmd/ublk-mem/main.go CLI shape (a single-
// responsibility main reading flags and a size argument) and, for the
// read-loop-dispatches-on-tag structure, on
// aclements-go-perf/perffile/records.go's Records.Next: read a header,
// switch on its type, populate one of a small set of typed fields.
package wire

import (
	"fmt"
	"io"

	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/frame"
)

// extraKind enumerates the shape of whatever field(s) follow a record's
// header (tag, optional timestamp, optional resource id).
type extraKind int

const (
	extraNone extraKind = iota
	extraU32            // a single LEB128 uint32 (DroppedEvtCnt.Count, QueueSend.SizeBefore, ...)
	extraS64            // a single LEB128 sint64 (ValMarker.Val, TaskValMarker.Val)
	extraStr            // a string occupying the rest of the payload (*Name, *Marker.Msg)
	extraByte           // a single raw byte (QueueKindEvt.Kind)
	extraU32Str         // a uint32 then a string (TaskCreated: Priority, Name)
	extraU32S64         // a uint32 marker id then a sint64 value (TaskValMarker)
	extraRawU64         // a single LEB128 uint64 with no header at all (TSResolutionNS)
)

type tagInfo struct {
	name  string
	hasTS bool
	hasID bool
	extra extraKind
}

var tagTable = map[byte]tagInfo{
	encode.TagCoreID:         {"core_id", true, false, extraU32},
	encode.TagDroppedEvtCnt:  {"dropped_evt_cnt", true, false, extraU32},
	encode.TagTSResolutionNS: {"ts_resolution_ns", false, false, extraRawU64},
	encode.TagISRName:        {"isr_name", false, true, extraStr},
	encode.TagISREnter:       {"isr_enter", true, true, extraNone},
	encode.TagISRExit:        {"isr_exit", true, true, extraNone},
	encode.TagEvtMarkerName:  {"evtmarker_name", false, true, extraStr},
	encode.TagEvtMarker:      {"evtmarker", true, true, extraStr},
	encode.TagEvtMarkerBegin: {"evtmarker_begin", true, true, extraStr},
	encode.TagEvtMarkerEnd:   {"evtmarker_end", true, true, extraNone},
	encode.TagValMarkerName:  {"valmarker_name", false, true, extraStr},
	encode.TagValMarker:      {"valmarker", true, true, extraS64},

	encode.TagTaskSwitchedIn: {"task_switched_in", true, true, extraNone},
	encode.TagTaskReady:      {"task_ready", true, true, extraNone},
	encode.TagTaskResumed:    {"task_resumed", true, true, extraNone},
	encode.TagTaskSuspended:  {"task_suspended", true, true, extraNone},
	encode.TagTaskCreated:    {"task_created", false, true, extraU32Str},
	encode.TagTaskDeleted:    {"task_deleted", true, true, extraNone},
	encode.TagTaskRenamed:    {"task_renamed", false, true, extraStr},

	encode.TagQueueCreated:   {"queue_created", false, true, extraNone},
	encode.TagQueueKind:      {"queue_kind", false, true, extraByte},
	encode.TagQueueSend:      {"queue_send", true, true, extraU32},
	encode.TagQueueReceive:   {"queue_receive", true, true, extraU32},
	encode.TagQueueOverwrite: {"queue_overwrite", true, true, extraU32},
	encode.TagQueueReset:     {"queue_reset", true, true, extraNone},
	encode.TagQueueLength:    {"queue_length", true, true, extraU32},
	encode.TagBlockOnSend:    {"block_on_send", true, true, extraU32},
	encode.TagBlockOnReceive: {"block_on_receive", true, true, extraU32},
	encode.TagBlockOnPeek:    {"block_on_peek", true, true, extraU32},

	encode.TagTaskEvtMarkerName:  {"task_evtmarker_name", false, true, extraU32Str},
	encode.TagTaskEvtMarker:      {"task_evtmarker", true, true, extraU32Str},
	encode.TagTaskEvtMarkerBegin: {"task_evtmarker_begin", true, true, extraU32Str},
	encode.TagTaskEvtMarkerEnd:   {"task_evtmarker_end", true, true, extraU32},
	encode.TagTaskValMarkerName:  {"task_valmarker_name", false, true, extraU32Str},
	encode.TagTaskValMarker:      {"task_valmarker", true, true, extraU32S64},

	encode.TagMetadataOverflowed: {"metadata_overflowed", false, true, extraNone},
}

// Record is one decoded wire event, with only the fields its tag actually
// carries populated.
type Record struct {
	Tag  byte
	Name string

	HasTS bool
	TS    uint64

	HasID bool
	ID    uint32 // core id, ISR id, marker id, task id, or queue id depending on Tag

	HasSubID bool
	SubID    uint32 // the u32 before a string or value: marker id on task-scoped marker name/marker/begin/valmarker records, or task_created's priority

	HasU32 bool
	U32    uint32

	HasU64 bool
	U64    uint64 // ts_resolution_ns's value; the only record with a raw (non-header) u64 field

	HasS64 bool
	S64    int64

	HasByte bool
	Byte    byte

	HasStr bool
	Str    string
}

// String renders a Record as a single human-readable line, in the style
// of a flat trace dump: tag name followed by whatever fields it carries.
func (r Record) String() string {
	s := r.Name
	if r.HasTS {
		s += fmt.Sprintf(" ts=%d", r.TS)
	}
	if r.HasID {
		s += fmt.Sprintf(" id=%d", r.ID)
	}
	if r.HasSubID {
		s += fmt.Sprintf(" marker=%d", r.SubID)
	}
	if r.HasU32 {
		s += fmt.Sprintf(" val=%d", r.U32)
	}
	if r.HasU64 {
		s += fmt.Sprintf(" val=%d", r.U64)
	}
	if r.HasS64 {
		s += fmt.Sprintf(" val=%d", r.S64)
	}
	if r.HasByte {
		s += fmt.Sprintf(" kind=%d", r.Byte)
	}
	if r.HasStr {
		s += fmt.Sprintf(" %q", r.Str)
	}
	return s
}

// ErrUnknownTag is returned by Decode/Next when a record's tag byte is not
// in the known table -- a newer producer and an older decoder, or a
// corrupt stream.
type ErrUnknownTag byte

func (e ErrUnknownTag) Error() string {
	return fmt.Sprintf("wire: unknown record tag 0x%02x", byte(e))
}

// Decode parses a single already-unframed payload (the bytes Unframe
// returns, tag byte first) into a Record.
func Decode(payload []byte) (Record, error) {
	if len(payload) == 0 {
		return Record{}, frame.ErrTruncated
	}
	tag := payload[0]
	info, ok := tagTable[tag]
	if !ok {
		return Record{}, ErrUnknownTag(tag)
	}
	p := payload[1:]
	r := Record{Tag: tag, Name: info.name}

	if info.hasTS {
		ts, n, err := frame.ReadU64(p)
		if err != nil {
			return Record{}, err
		}
		r.HasTS, r.TS = true, ts
		p = p[n:]
	}
	if info.hasID {
		id, n, err := frame.ReadU32(p)
		if err != nil {
			return Record{}, err
		}
		r.HasID, r.ID = true, id
		p = p[n:]
	}

	switch info.extra {
	case extraNone:
	case extraRawU64:
		v, _, err := frame.ReadU64(p)
		if err != nil {
			return Record{}, err
		}
		r.HasU64, r.U64 = true, v
	case extraU32:
		v, _, err := frame.ReadU32(p)
		if err != nil {
			return Record{}, err
		}
		r.HasU32, r.U32 = true, v
	case extraS64:
		v, _, err := frame.ReadS64(p)
		if err != nil {
			return Record{}, err
		}
		r.HasS64, r.S64 = true, v
	case extraByte:
		if len(p) < 1 {
			return Record{}, frame.ErrTruncated
		}
		r.HasByte, r.Byte = true, p[0]
	case extraStr:
		str, _, err := frame.ReadStr(p, len(p))
		if err != nil {
			return Record{}, err
		}
		r.HasStr, r.Str = true, str
	case extraU32Str:
		sub, n, err := frame.ReadU32(p)
		if err != nil {
			return Record{}, err
		}
		p = p[n:]
		str, _, err := frame.ReadStr(p, len(p))
		if err != nil {
			return Record{}, err
		}
		r.HasSubID, r.SubID = true, sub
		r.HasStr, r.Str = true, str
	case extraU32S64:
		sub, n, err := frame.ReadU32(p)
		if err != nil {
			return Record{}, err
		}
		p = p[n:]
		v, _, err := frame.ReadS64(p)
		if err != nil {
			return Record{}, err
		}
		r.HasSubID, r.SubID = true, sub
		r.HasS64, r.S64 = true, v
	}

	return r, nil
}

// Decoder reads a raw byte stream and decodes one framed Record at a time.
type Decoder struct {
	r   io.Reader
	buf []byte
	tmp [4096]byte
}

// NewDecoder wraps r, a stream of COBS-framed tband records.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Next returns the next decoded Record, reading from the underlying
// io.Reader as needed. It returns io.EOF once the stream is exhausted with
// no partial frame left buffered.
func (d *Decoder) Next() (Record, error) {
	for {
		if payload, rest, ok := frame.Unframe(d.buf); ok {
			d.buf = append(d.buf[:0], rest...)
			return Decode(payload)
		}
		n, err := d.r.Read(d.tmp[:])
		if n > 0 {
			d.buf = append(d.buf, d.tmp[:n]...)
			continue
		}
		if err != nil {
			if len(d.buf) == 0 {
				return Record{}, io.EOF
			}
			return Record{}, err
		}
	}
}
