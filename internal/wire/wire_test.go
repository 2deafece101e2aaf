package wire

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/frame"
	"github.com/stretchr/testify/require"
)

// encoded frames ev into its own wire representation, the same way
// internal/backend's writeEvent does.
func encoded(ev encode.Event) []byte {
	b := make([]byte, ev.MaxLen())
	n := ev.Encode(b)
	return b[:n]
}

func TestDecodeRoundTripsEveryEventKind(t *testing.T) {
	cases := []struct {
		name string
		ev   encode.Event
		want Record
	}{
		{"CoreID", encode.CoreID{TS: 10, CoreID: 2},
			Record{Name: "core_id", HasTS: true, TS: 10, HasU32: true, U32: 2}},
		{"DroppedEvtCnt", encode.DroppedEvtCnt{TS: 5, Count: 7},
			Record{Name: "dropped_evt_cnt", HasTS: true, TS: 5, HasU32: true, U32: 7}},
		{"TSResolutionNS", encode.TSResolutionNS{ResolutionNS: 1000},
			Record{Name: "ts_resolution_ns", HasU64: true, U64: 1000}},
		{"ISRName", encode.ISRName{ISRID: 3, Name: "uart_isr"},
			Record{Name: "isr_name", HasID: true, ID: 3, HasStr: true, Str: "uart_isr"}},
		{"ISREnter", encode.ISREnter{TS: 9, ISRID: 3},
			Record{Name: "isr_enter", HasTS: true, TS: 9, HasID: true, ID: 3}},
		{"ISRExit", encode.ISRExit{TS: 11, ISRID: 3},
			Record{Name: "isr_exit", HasTS: true, TS: 11, HasID: true, ID: 3}},
		{"EvtMarkerName", encode.EvtMarkerName{MarkerID: 1, Name: "checkpoint"},
			Record{Name: "evtmarker_name", HasID: true, ID: 1, HasStr: true, Str: "checkpoint"}},
		{"EvtMarker", encode.EvtMarker{TS: 4, MarkerID: 1, Msg: "hit"},
			Record{Name: "evtmarker", HasTS: true, TS: 4, HasID: true, ID: 1, HasStr: true, Str: "hit"}},
		{"EvtMarkerBegin", encode.EvtMarkerBegin{TS: 4, MarkerID: 1, Msg: "span"},
			Record{Name: "evtmarker_begin", HasTS: true, TS: 4, HasID: true, ID: 1, HasStr: true, Str: "span"}},
		{"EvtMarkerEnd", encode.EvtMarkerEnd{TS: 6, MarkerID: 1},
			Record{Name: "evtmarker_end", HasTS: true, TS: 6, HasID: true, ID: 1}},
		{"ValMarkerName", encode.ValMarkerName{MarkerID: 2, Name: "depth"},
			Record{Name: "valmarker_name", HasID: true, ID: 2, HasStr: true, Str: "depth"}},
		{"ValMarker", encode.ValMarker{TS: 1, MarkerID: 2, Val: -42},
			Record{Name: "valmarker", HasTS: true, TS: 1, HasID: true, ID: 2, HasS64: true, S64: -42}},
		{"TaskSwitchedIn", encode.TaskSwitchedIn{TS: 1, TaskID: 9},
			Record{Name: "task_switched_in", HasTS: true, TS: 1, HasID: true, ID: 9}},
		{"TaskCreated", encode.TaskCreated{TaskID: 9, Priority: 5, Name: "worker"},
			Record{Name: "task_created", HasID: true, ID: 9, HasSubID: true, SubID: 5, HasStr: true, Str: "worker"}},
		{"TaskRenamed", encode.TaskRenamed{TaskID: 9, Name: "worker2"},
			Record{Name: "task_renamed", HasID: true, ID: 9, HasStr: true, Str: "worker2"}},
		{"QueueCreated", encode.QueueCreated{QueueID: 4},
			Record{Name: "queue_created", HasID: true, ID: 4}},
		{"QueueKindEvt", encode.QueueKindEvt{QueueID: 4, Kind: encode.QueueKindMutex},
			Record{Name: "queue_kind", HasID: true, ID: 4, HasByte: true, Byte: byte(encode.QueueKindMutex)}},
		{"QueueSend", encode.QueueSend{TS: 2, QueueID: 4, SizeBefore: 3},
			Record{Name: "queue_send", HasTS: true, TS: 2, HasID: true, ID: 4, HasU32: true, U32: 3}},
		{"BlockOnSend", encode.BlockOnSend{TS: 2, QueueID: 4, TicksToWait: 100},
			Record{Name: "block_on_send", HasTS: true, TS: 2, HasID: true, ID: 4, HasU32: true, U32: 100}},
		{"TaskEvtMarkerName", encode.TaskEvtMarkerName{TaskID: 9, MarkerID: 1, Name: "span"},
			Record{Name: "task_evtmarker_name", HasID: true, ID: 9, HasSubID: true, SubID: 1, HasStr: true, Str: "span"}},
		{"TaskEvtMarker", encode.TaskEvtMarker{TS: 3, TaskID: 9, MarkerID: 1, Msg: "tick"},
			Record{Name: "task_evtmarker", HasTS: true, TS: 3, HasID: true, ID: 9, HasSubID: true, SubID: 1, HasStr: true, Str: "tick"}},
		{"TaskEvtMarkerEnd", encode.TaskEvtMarkerEnd{TS: 3, TaskID: 9, MarkerID: 1},
			Record{Name: "task_evtmarker_end", HasTS: true, TS: 3, HasID: true, ID: 9, HasU32: true, U32: 1}},
		{"TaskValMarker", encode.TaskValMarker{TS: 3, TaskID: 9, MarkerID: 1, Val: -7},
			Record{Name: "task_valmarker", HasTS: true, TS: 3, HasID: true, ID: 9, HasSubID: true, SubID: 1, HasS64: true, S64: -7}},
		{"MetadataOverflowed", encode.MetadataOverflowed{CoreID: 0},
			Record{Name: "metadata_overflowed", HasID: true, ID: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := encoded(tc.ev)
			dec := NewDecoder(bytes.NewReader(raw))
			got, err := dec.Next()
			require.NoError(t, err)

			tc.want.Tag = tc.ev.Tag()
			require.Equal(t, tc.want, got)

			_, err = dec.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestDecoderReadsMultipleRecordsInOrder(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(encoded(encode.ISREnter{TS: 1, ISRID: 0}))
	buf.Write(encoded(encode.ISRExit{TS: 2, ISRID: 0}))
	buf.Write(encoded(encode.QueueSend{TS: 3, QueueID: 1, SizeBefore: 0}))

	dec := NewDecoder(&buf)
	var got []string
	for {
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, rec.Name)
	}
	require.Equal(t, []string{"isr_enter", "isr_exit", "queue_send"}, got)
}

func TestDecoderSurvivesSmallReadChunks(t *testing.T) {
	raw := encoded(encode.TaskCreated{TaskID: 1, Priority: 3, Name: "chunked"})
	dec := NewDecoder(&slowReader{data: raw, chunk: 3})

	rec, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, "task_created", rec.Name)
	require.Equal(t, "chunked", rec.Str)
}

func TestDecodeUnknownTagReturnsErrUnknownTag(t *testing.T) {
	_, err := Decode([]byte{0xF0})
	var unknown ErrUnknownTag
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, byte(0xF0), byte(unknown))
}

func TestRecordStringIncludesPopulatedFields(t *testing.T) {
	payload, _, ok := frame.Unframe(encoded(encode.QueueSend{TS: 1, QueueID: 2, SizeBefore: 3}))
	require.True(t, ok)
	rec, err := Decode(payload)
	require.NoError(t, err)
	s := rec.String()
	require.Contains(t, s, "queue_send")
	require.Contains(t, s, "ts=1")
	require.Contains(t, s, "id=2")
	require.Contains(t, s, "val=3")
}

// slowReader serves data in small fixed-size chunks regardless of the
// caller's buffer size, exercising Decoder.Next's partial-frame buffering.
type slowReader struct {
	data  []byte
	chunk int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}
