package encode

import "github.com/schilkp/Tonbandgeraet/internal/frame"

// TaskEvtMarkerName registers a task-scoped event marker id's name;
// metadata.
type TaskEvtMarkerName struct {
	TaskID   uint32
	MarkerID uint32
	Name     string
}

func (TaskEvtMarkerName) Tag() byte        { return TagTaskEvtMarkerName }
func (TaskEvtMarkerName) IsMetadata() bool { return true }
func (TaskEvtMarkerName) MaxLen() int {
	return frame.Max(headerMaxLen(false, true) + maxU32 + maxStr)
}
func (e TaskEvtMarkerName) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskEvtMarkerName, false, 0, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// TaskEvtMarker is an instantaneous event marker scoped to a task.
type TaskEvtMarker struct {
	TS       uint64
	TaskID   uint32
	MarkerID uint32
	Msg      string
}

func (TaskEvtMarker) Tag() byte        { return TagTaskEvtMarker }
func (TaskEvtMarker) IsMetadata() bool { return false }
func (TaskEvtMarker) MaxLen() int {
	return frame.Max(headerMaxLen(true, true) + maxU32 + maxStr)
}
func (e TaskEvtMarker) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskEvtMarker, true, e.TS, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	frame.WriteStr(w, e.Msg, maxStr)
	return w.Finish()
}

// TaskEvtMarkerBegin opens a task-scoped duration marker.
type TaskEvtMarkerBegin struct {
	TS       uint64
	TaskID   uint32
	MarkerID uint32
	Msg      string
}

func (TaskEvtMarkerBegin) Tag() byte        { return TagTaskEvtMarkerBegin }
func (TaskEvtMarkerBegin) IsMetadata() bool { return false }
func (TaskEvtMarkerBegin) MaxLen() int {
	return frame.Max(headerMaxLen(true, true) + maxU32 + maxStr)
}
func (e TaskEvtMarkerBegin) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskEvtMarkerBegin, true, e.TS, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	frame.WriteStr(w, e.Msg, maxStr)
	return w.Finish()
}

// TaskEvtMarkerEnd closes a task-scoped duration marker.
type TaskEvtMarkerEnd struct {
	TS       uint64
	TaskID   uint32
	MarkerID uint32
}

func (TaskEvtMarkerEnd) Tag() byte        { return TagTaskEvtMarkerEnd }
func (TaskEvtMarkerEnd) IsMetadata() bool { return false }
func (TaskEvtMarkerEnd) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e TaskEvtMarkerEnd) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskEvtMarkerEnd, true, e.TS, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	return w.Finish()
}

// TaskValMarkerName registers a task-scoped value marker id's name;
// metadata.
type TaskValMarkerName struct {
	TaskID   uint32
	MarkerID uint32
	Name     string
}

func (TaskValMarkerName) Tag() byte        { return TagTaskValMarkerName }
func (TaskValMarkerName) IsMetadata() bool { return true }
func (TaskValMarkerName) MaxLen() int {
	return frame.Max(headerMaxLen(false, true) + maxU32 + maxStr)
}
func (e TaskValMarkerName) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskValMarkerName, false, 0, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// TaskValMarker records a signed sample value under a task-scoped marker id.
type TaskValMarker struct {
	TS       uint64
	TaskID   uint32
	MarkerID uint32
	Val      int64
}

func (TaskValMarker) Tag() byte        { return TagTaskValMarker }
func (TaskValMarker) IsMetadata() bool { return false }
func (TaskValMarker) MaxLen() int {
	return frame.Max(headerMaxLen(true, true) + maxU32 + maxS64)
}
func (e TaskValMarker) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTaskValMarker, true, e.TS, true, e.TaskID)
	frame.WriteU32(w, e.MarkerID)
	frame.WriteS64(w, e.Val)
	return w.Finish()
}

// MetadataOverflowed marks that a core's metadata replay buffer dropped at
// least one registration event (§4.7); emitted once into the live stream
// the next time that core's buffer is read, not into the buffer itself.
type MetadataOverflowed struct {
	CoreID uint32
}

// IsMetadata is false even though this event is metadata-shaped: it is
// routed straight to the live stream, never into the replay buffer whose
// overflow it is reporting, to avoid recursing into the same buffer.
func (MetadataOverflowed) Tag() byte        { return TagMetadataOverflowed }
func (MetadataOverflowed) IsMetadata() bool { return false }
func (MetadataOverflowed) MaxLen() int      { return frame.Max(headerMaxLen(false, true)) }
func (e MetadataOverflowed) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagMetadataOverflowed, false, 0, true, e.CoreID)
	return w.Finish()
}
