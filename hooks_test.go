package tband

import (
	"testing"

	"github.com/schilkp/Tonbandgeraet/config"
	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/frame"
	"github.com/stretchr/testify/require"
)

// tagsOf unframes each non-empty COBS-stuffed record in writes and returns
// the leading tag byte of each decoded payload, in order. Empty writes (the
// metadata replay buffer on a session with no metadata yet) are skipped.
func tagsOf(t *testing.T, writes [][]byte) []byte {
	t.Helper()
	var tags []byte
	for _, w := range writes {
		if len(w) == 0 {
			continue
		}
		payload, _, ok := frame.Unframe(w)
		require.True(t, ok)
		require.NotEmpty(t, payload)
		tags = append(tags, payload[0])
	}
	return tags
}

// newTestSession builds a streaming Session and returns it alongside the
// number of sink writes StartStreaming's own metadata replay already
// produced, so tests can look only at writes triggered by their own hook
// calls via sink.Writes()[base:]. The first hook call on a core is
// preceded by that core's initial dropped_evt_cnt publication.
func newTestSession(t *testing.T, cfg config.Config) (s *Session, p *MockPort, sink *MockSink, base int) {
	t.Helper()
	p = NewMockPort(cfg.NumCores, 0, 1)
	sink = NewMockSink()
	s, err := NewSession(p, sink, cfg)
	require.NoError(t, err)
	require.NoError(t, s.StartStreaming())
	return s, p, sink, len(sink.Writes())
}

func TestResourceIDsAssignOnFirstObservationAndReuse(t *testing.T) {
	ids := newResourceIDs()
	a := ids.taskID(Handle(0x1000))
	b := ids.taskID(Handle(0x2000))
	aAgain := ids.taskID(Handle(0x1000))

	require.Equal(t, uint32(1), a)
	require.Equal(t, uint32(2), b)
	require.Equal(t, a, aAgain)
	require.NotZero(t, a, "zero is reserved as no id")
}

func TestResourceIDsTaskAndQueueSpacesAreIndependent(t *testing.T) {
	ids := newResourceIDs()
	task := ids.taskID(Handle(0xAAAA))
	queue := ids.queueID(Handle(0xAAAA))
	require.Equal(t, uint32(1), task)
	require.Equal(t, uint32(1), queue)
}

func TestHookBracketsCriticalSection(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, p, _, _ := newTestSession(t, cfg)

	enterBefore, exitBefore := p.CriticalSectionCalls()
	s.IsrEnter(0)
	enterAfter, exitAfter := p.CriticalSectionCalls()

	require.Equal(t, enterBefore+1, enterAfter)
	require.Equal(t, exitBefore+1, exitAfter)
}

func TestTaskHooksReuseAssignedID(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, _, sink, base := newTestSession(t, cfg)

	task := Handle(0xDEAD)
	s.TaskCreated(task, 5, "worker")
	s.TaskSwitchedIn(task)
	s.TaskSuspended(task)

	require.Equal(t, uint32(1), s.ids.taskID(task))
	require.Len(t, sink.Writes()[base:], 4)
}

func TestQueueHooksEmitExpectedTags(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, _, sink, base := newTestSession(t, cfg)

	q := Handle(0xF00D)
	s.QueueCreated(q)
	s.QueueKind(q, encode.QueueKindQueue)
	s.QueueSend(q, 3)

	tags := tagsOf(t, sink.Writes()[base:])
	require.Equal(t, []byte{encode.TagDroppedEvtCnt, encode.TagQueueCreated, encode.TagQueueKind, encode.TagQueueSend}, tags)
}

func TestDisabledCapabilityHookPanics(t *testing.T) {
	cfg := config.DefaultConfig(1)
	cfg.Capabilities.Task = false
	s, _, _, _ := newTestSession(t, cfg)

	require.Panics(t, func() { s.TaskSwitchedIn(Handle(1)) })
}

func TestEnabledCapabilityHookDoesNotPanic(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, _, _, _ := newTestSession(t, cfg)

	require.NotPanics(t, func() { s.TaskSwitchedIn(Handle(1)) })
}

func TestMarkerHooksEmitExpectedTags(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, _, sink, base := newTestSession(t, cfg)

	s.EvtMarkerName(1, "checkpoint")
	s.EvtMarker(1, "hit")
	s.EvtMarkerBegin(1, "span")
	s.EvtMarkerEnd(1)
	s.ValMarkerName(2, "depth")
	s.ValMarker(2, 42)

	tags := tagsOf(t, sink.Writes()[base:])
	require.Equal(t, []byte{
		encode.TagDroppedEvtCnt,
		encode.TagEvtMarkerName,
		encode.TagEvtMarker,
		encode.TagEvtMarkerBegin,
		encode.TagEvtMarkerEnd,
		encode.TagValMarkerName,
		encode.TagValMarker,
	}, tags)
}

func TestTaskScopedMarkerHooksUseAssignedTaskID(t *testing.T) {
	cfg := config.DefaultConfig(1)
	s, _, sink, base := newTestSession(t, cfg)

	task := Handle(0x9)
	s.TaskEvtMarkerName(task, 1, "span")
	s.TaskEvtMarker(task, 1, "tick")

	require.Len(t, sink.Writes()[base:], 3)
	require.Equal(t, uint32(1), s.ids.taskID(task))
}
