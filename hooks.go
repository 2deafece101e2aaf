package tband

import (
	"sync"

	"github.com/schilkp/Tonbandgeraet/internal/encode"
)

// Handle identifies a native RTOS object (a task control block, a queue,
// a semaphore...) well enough to use as a map key -- typically the
// object's address, reinterpreted as a uintptr by the calling hook site.
// tband never dereferences it.
type Handle uintptr

// resourceIDs assigns the small monotonically increasing numeric ids the
// wire format uses, the first time each native Handle is observed (spec
// §4.10: "atomic fetch-add from a process-wide counter starting at 1;
// zero is reserved as no id"). A plain mutex guards the maps: this
// bookkeeping runs before Session.submit's critical section, not inside
// the dispatcher's own spinlock-guarded region, so blocking here does
// not violate spec §5's "no suspension inside the dispatcher".
type resourceIDs struct {
	mu sync.Mutex

	tasks     map[Handle]uint32
	queues    map[Handle]uint32
	nextTask  uint32
	nextQueue uint32
}

func newResourceIDs() resourceIDs {
	return resourceIDs{
		tasks:     make(map[Handle]uint32),
		queues:    make(map[Handle]uint32),
		nextTask:  1,
		nextQueue: 1,
	}
}

// taskID returns h's numeric task id, assigning a new one on first sight.
func (r *resourceIDs) taskID(h Handle) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.tasks[h]; ok {
		return id
	}
	id := r.nextTask
	r.nextTask++
	r.tasks[h] = id
	return id
}

// queueID returns h's numeric queue id, assigning a new one on first
// sight.
func (r *resourceIDs) queueID(h Handle) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.queues[h]; ok {
		return id
	}
	id := r.nextQueue
	r.nextQueue++
	r.queues[h] = id
	return id
}

func (s *Session) requireCapability(enabled bool, family string) {
	if !enabled {
		panic("tband: " + family + " hooks are not enabled for this session's capabilities")
	}
}

func (s *Session) ts() uint64 { return s.port.Timestamp() }
func (s *Session) core() int  { return s.port.CurrentCoreID() }

// --- ISR family (C10, spec §6 "isr_name/enter/exit") ---

func (s *Session) IsrName(isrID uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.ISR, "ISR")
	s.submit(s.core(), encode.ISRName{ISRID: isrID, Name: name})
}

func (s *Session) IsrEnter(isrID uint32) {
	s.requireCapability(s.cfg.Capabilities.ISR, "ISR")
	s.submit(s.core(), encode.ISREnter{TS: s.ts(), ISRID: isrID})
}

func (s *Session) IsrExit(isrID uint32) {
	s.requireCapability(s.cfg.Capabilities.ISR, "ISR")
	s.submit(s.core(), encode.ISRExit{TS: s.ts(), ISRID: isrID})
}

// --- Marker family (C10, spec §6 "evtmarker_{name,,begin,end}", "valmarker_{name,}") ---

func (s *Session) EvtMarkerName(markerID uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.EvtMarkerName{MarkerID: markerID, Name: name})
}

func (s *Session) EvtMarker(markerID uint32, msg string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.EvtMarker{TS: s.ts(), MarkerID: markerID, Msg: msg})
}

func (s *Session) EvtMarkerBegin(markerID uint32, msg string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.EvtMarkerBegin{TS: s.ts(), MarkerID: markerID, Msg: msg})
}

func (s *Session) EvtMarkerEnd(markerID uint32) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.EvtMarkerEnd{TS: s.ts(), MarkerID: markerID})
}

func (s *Session) ValMarkerName(markerID uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.ValMarkerName{MarkerID: markerID, Name: name})
}

func (s *Session) ValMarker(markerID uint32, val int64) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.ValMarker{TS: s.ts(), MarkerID: markerID, Val: val})
}

// --- Task-scoped marker family ---

func (s *Session) TaskEvtMarkerName(task Handle, markerID uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskEvtMarkerName{TaskID: s.ids.taskID(task), MarkerID: markerID, Name: name})
}

func (s *Session) TaskEvtMarker(task Handle, markerID uint32, msg string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskEvtMarker{TS: s.ts(), TaskID: s.ids.taskID(task), MarkerID: markerID, Msg: msg})
}

func (s *Session) TaskEvtMarkerBegin(task Handle, markerID uint32, msg string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskEvtMarkerBegin{TS: s.ts(), TaskID: s.ids.taskID(task), MarkerID: markerID, Msg: msg})
}

func (s *Session) TaskEvtMarkerEnd(task Handle, markerID uint32) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskEvtMarkerEnd{TS: s.ts(), TaskID: s.ids.taskID(task), MarkerID: markerID})
}

func (s *Session) TaskValMarkerName(task Handle, markerID uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskValMarkerName{TaskID: s.ids.taskID(task), MarkerID: markerID, Name: name})
}

func (s *Session) TaskValMarker(task Handle, markerID uint32, val int64) {
	s.requireCapability(s.cfg.Capabilities.Marker, "marker")
	s.submit(s.core(), encode.TaskValMarker{TS: s.ts(), TaskID: s.ids.taskID(task), MarkerID: markerID, Val: val})
}

// --- RTOS task family ---

func (s *Session) TaskSwitchedIn(task Handle) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskSwitchedIn{TS: s.ts(), TaskID: s.ids.taskID(task)})
}

func (s *Session) TaskReady(task Handle) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskReady{TS: s.ts(), TaskID: s.ids.taskID(task)})
}

func (s *Session) TaskResumed(task Handle) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskResumed{TS: s.ts(), TaskID: s.ids.taskID(task)})
}

func (s *Session) TaskSuspended(task Handle) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskSuspended{TS: s.ts(), TaskID: s.ids.taskID(task)})
}

func (s *Session) TaskCreated(task Handle, priority uint32, name string) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskCreated{TaskID: s.ids.taskID(task), Priority: priority, Name: name})
}

func (s *Session) TaskDeleted(task Handle) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskDeleted{TS: s.ts(), TaskID: s.ids.taskID(task)})
}

func (s *Session) TaskRenamed(task Handle, name string) {
	s.requireCapability(s.cfg.Capabilities.Task, "task")
	s.submit(s.core(), encode.TaskRenamed{TaskID: s.ids.taskID(task), Name: name})
}

// --- RTOS queue family ---

func (s *Session) QueueCreated(queue Handle) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueCreated{QueueID: s.ids.queueID(queue)})
}

func (s *Session) QueueKind(queue Handle, kind encode.QueueKind) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueKindEvt{QueueID: s.ids.queueID(queue), Kind: kind})
}

func (s *Session) QueueSend(queue Handle, sizeBefore uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueSend{TS: s.ts(), QueueID: s.ids.queueID(queue), SizeBefore: sizeBefore})
}

func (s *Session) QueueReceive(queue Handle, sizeBefore uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueReceive{TS: s.ts(), QueueID: s.ids.queueID(queue), SizeBefore: sizeBefore})
}

func (s *Session) QueueOverwrite(queue Handle, sizeBefore uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueOverwrite{TS: s.ts(), QueueID: s.ids.queueID(queue), SizeBefore: sizeBefore})
}

func (s *Session) QueueReset(queue Handle) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueReset{TS: s.ts(), QueueID: s.ids.queueID(queue)})
}

func (s *Session) QueueLength(queue Handle, length uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.QueueLength{TS: s.ts(), QueueID: s.ids.queueID(queue), Length: length})
}

func (s *Session) BlockOnSend(queue Handle, ticksToWait uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.BlockOnSend{TS: s.ts(), QueueID: s.ids.queueID(queue), TicksToWait: ticksToWait})
}

func (s *Session) BlockOnReceive(queue Handle, ticksToWait uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.BlockOnReceive{TS: s.ts(), QueueID: s.ids.queueID(queue), TicksToWait: ticksToWait})
}

func (s *Session) BlockOnPeek(queue Handle, ticksToWait uint32) {
	s.requireCapability(s.cfg.Capabilities.Queue, "queue")
	s.submit(s.core(), encode.BlockOnPeek{TS: s.ts(), QueueID: s.ids.queueID(queue), TicksToWait: ticksToWait})
}
