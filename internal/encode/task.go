package encode

import "github.com/schilkp/Tonbandgeraet/internal/frame"

// TaskSwitchedIn marks a task being switched onto a core.
type TaskSwitchedIn struct {
	TS     uint64
	TaskID uint32
}

func (TaskSwitchedIn) Tag() byte        { return TagTaskSwitchedIn }
func (TaskSwitchedIn) IsMetadata() bool { return false }
func (TaskSwitchedIn) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e TaskSwitchedIn) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskSwitchedIn, true, e.TS, true, e.TaskID)
	return w.Finish()
}

// TaskReady marks a task being moved to the ready state.
type TaskReady struct {
	TS     uint64
	TaskID uint32
}

func (TaskReady) Tag() byte        { return TagTaskReady }
func (TaskReady) IsMetadata() bool { return false }
func (TaskReady) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e TaskReady) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskReady, true, e.TS, true, e.TaskID)
	return w.Finish()
}

// TaskResumed marks a task being resumed from the suspended state.
type TaskResumed struct {
	TS     uint64
	TaskID uint32
}

func (TaskResumed) Tag() byte        { return TagTaskResumed }
func (TaskResumed) IsMetadata() bool { return false }
func (TaskResumed) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e TaskResumed) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskResumed, true, e.TS, true, e.TaskID)
	return w.Finish()
}

// TaskSuspended marks a task being suspended.
type TaskSuspended struct {
	TS     uint64
	TaskID uint32
}

func (TaskSuspended) Tag() byte        { return TagTaskSuspended }
func (TaskSuspended) IsMetadata() bool { return false }
func (TaskSuspended) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e TaskSuspended) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskSuspended, true, e.TS, true, e.TaskID)
	return w.Finish()
}

// TaskCreated registers a newly created task's id, priority and name;
// metadata, like ISRName/EvtMarkerName.
type TaskCreated struct {
	TaskID   uint32
	Priority uint32
	Name     string
}

func (TaskCreated) Tag() byte        { return TagTaskCreated }
func (TaskCreated) IsMetadata() bool { return true }
func (TaskCreated) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxU32 + maxStr) }
func (e TaskCreated) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskCreated, false, 0, true, e.TaskID)
	frame.WriteU32(w, e.Priority)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// TaskDeleted marks a task being deleted.
type TaskDeleted struct {
	TS     uint64
	TaskID uint32
}

func (TaskDeleted) Tag() byte        { return TagTaskDeleted }
func (TaskDeleted) IsMetadata() bool { return false }
func (TaskDeleted) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e TaskDeleted) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskDeleted, true, e.TS, true, e.TaskID)
	return w.Finish()
}

// TaskRenamed re-registers a task id's name; metadata.
type TaskRenamed struct {
	TaskID uint32
	Name   string
}

func (TaskRenamed) Tag() byte        { return TagTaskRenamed }
func (TaskRenamed) IsMetadata() bool { return true }
func (TaskRenamed) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxStr) }
func (e TaskRenamed) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskRenamed, false, 0, true, e.TaskID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}
