package encode

import "github.com/schilkp/Tonbandgeraet/internal/frame"

// QueueCreated registers a newly created queue-like resource's id;
// metadata. The resource's kind (queue/semaphore/mutex/...) is registered
// separately by QueueKindEvt, mirroring how ISRName and EvtMarkerName only
// carry a name and leave other attributes to their own event kinds.
type QueueCreated struct {
	QueueID uint32
}

func (QueueCreated) Tag() byte        { return TagQueueCreated }
func (QueueCreated) IsMetadata() bool { return true }
func (QueueCreated) MaxLen() int      { return frame.Max(headerMaxLen(false, true)) }
func (e QueueCreated) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueCreated, false, 0, true, e.QueueID)
	return w.Finish()
}

// QueueKindEvt registers a queue-like resource's kind (queue, counting or
// binary semaphore, mutex, recursive mutex); metadata.
type QueueKindEvt struct {
	QueueID uint32
	Kind    QueueKind
}

func (QueueKindEvt) Tag() byte        { return TagQueueKind }
func (QueueKindEvt) IsMetadata() bool { return true }
func (QueueKindEvt) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxU8) }
func (e QueueKindEvt) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueKind, false, 0, true, e.QueueID)
	w.WriteByte(byte(e.Kind))
	return w.Finish()
}

// QueueSend marks a successful send, carrying the queue's length before
// the item was added.
type QueueSend struct {
	TS         uint64
	QueueID    uint32
	SizeBefore uint32
}

func (QueueSend) Tag() byte        { return TagQueueSend }
func (QueueSend) IsMetadata() bool { return false }
func (QueueSend) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e QueueSend) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueSend, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.SizeBefore)
	return w.Finish()
}

// QueueReceive marks a successful receive, carrying the queue's length
// before the item was removed.
type QueueReceive struct {
	TS         uint64
	QueueID    uint32
	SizeBefore uint32
}

func (QueueReceive) Tag() byte        { return TagQueueReceive }
func (QueueReceive) IsMetadata() bool { return false }
func (QueueReceive) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e QueueReceive) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueReceive, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.SizeBefore)
	return w.Finish()
}

// QueueOverwrite marks an overwrite send into a length-1 queue, carrying
// the queue's length before the overwrite.
type QueueOverwrite struct {
	TS         uint64
	QueueID    uint32
	SizeBefore uint32
}

func (QueueOverwrite) Tag() byte        { return TagQueueOverwrite }
func (QueueOverwrite) IsMetadata() bool { return false }
func (QueueOverwrite) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e QueueOverwrite) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueOverwrite, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.SizeBefore)
	return w.Finish()
}

// QueueReset marks a queue being reset to empty.
type QueueReset struct {
	TS      uint64
	QueueID uint32
}

func (QueueReset) Tag() byte        { return TagQueueReset }
func (QueueReset) IsMetadata() bool { return false }
func (QueueReset) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e QueueReset) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueReset, true, e.TS, true, e.QueueID)
	return w.Finish()
}

// QueueLength samples a queue's current length.
type QueueLength struct {
	TS      uint64
	QueueID uint32
	Length  uint32
}

func (QueueLength) Tag() byte        { return TagQueueLength }
func (QueueLength) IsMetadata() bool { return false }
func (QueueLength) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e QueueLength) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagQueueLength, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.Length)
	return w.Finish()
}

// BlockOnSend marks a task blocking while trying to send to a full queue.
type BlockOnSend struct {
	TS          uint64
	QueueID     uint32
	TicksToWait uint32
}

func (BlockOnSend) Tag() byte        { return TagBlockOnSend }
func (BlockOnSend) IsMetadata() bool { return false }
func (BlockOnSend) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e BlockOnSend) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagBlockOnSend, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.TicksToWait)
	return w.Finish()
}

// BlockOnReceive marks a task blocking while trying to receive from an
// empty queue.
type BlockOnReceive struct {
	TS          uint64
	QueueID     uint32
	TicksToWait uint32
}

func (BlockOnReceive) Tag() byte        { return TagBlockOnReceive }
func (BlockOnReceive) IsMetadata() bool { return false }
func (BlockOnReceive) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e BlockOnReceive) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagBlockOnReceive, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.TicksToWait)
	return w.Finish()
}

// BlockOnPeek marks a task blocking while trying to peek an empty queue.
type BlockOnPeek struct {
	TS          uint64
	QueueID     uint32
	TicksToWait uint32
}

func (BlockOnPeek) Tag() byte        { return TagBlockOnPeek }
func (BlockOnPeek) IsMetadata() bool { return false }
func (BlockOnPeek) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxU32) }
func (e BlockOnPeek) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagBlockOnPeek, true, e.TS, true, e.QueueID)
	frame.WriteU32(w, e.TicksToWait)
	return w.Finish()
}
