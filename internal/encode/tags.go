package encode

// Tag values. General events occupy the low range; the RTOS scheduler
// family is densely packed from 0x54 (the original's code_gen tag table
// that assigned these numbers was stripped from the retrieval pack, so this
// run is renumbered from the hook declaration order in tband_hooks.h rather
// than reused verbatim -- see DESIGN.md). 0x7E is reserved for the
// metadata-overflow marker (spec §4.7, left for implementations to assign).
const (
	TagCoreID         byte = 0x00
	TagDroppedEvtCnt  byte = 0x01
	TagTSResolutionNS byte = 0x02
	TagISRName        byte = 0x03
	TagISREnter       byte = 0x04
	TagISRExit        byte = 0x05
	TagEvtMarkerName  byte = 0x06
	TagEvtMarker      byte = 0x07
	TagEvtMarkerBegin byte = 0x08
	TagEvtMarkerEnd   byte = 0x09
	TagValMarkerName  byte = 0x0A
	TagValMarker      byte = 0x0B

	TagTaskSwitchedIn   byte = 0x54
	TagTaskReady        byte = 0x55
	TagTaskResumed      byte = 0x56
	TagTaskSuspended    byte = 0x57
	TagTaskCreated      byte = 0x58
	TagTaskDeleted      byte = 0x59
	TagTaskRenamed      byte = 0x5A
	TagQueueCreated     byte = 0x5B
	TagQueueKind        byte = 0x5C
	TagQueueSend        byte = 0x5D
	TagQueueReceive     byte = 0x5E
	TagQueueOverwrite   byte = 0x5F
	TagQueueReset       byte = 0x60
	TagQueueLength      byte = 0x61
	TagBlockOnSend      byte = 0x62
	TagBlockOnReceive   byte = 0x63
	TagBlockOnPeek      byte = 0x64
	TagTaskEvtMarkerName byte = 0x65
	TagTaskEvtMarker     byte = 0x66
	TagTaskEvtMarkerBegin byte = 0x67
	TagTaskEvtMarkerEnd   byte = 0x68
	TagTaskValMarkerName  byte = 0x69
	TagTaskValMarker      byte = 0x6A

	TagMetadataOverflowed byte = 0x7E
)

// QueueKind enumerates the queue-like resource kinds distinguished by
// QueueKindEvt (plain queue, counting/binary semaphore, mutex, recursive
// mutex), matching the resource kinds the FreeRTOS hooks distinguish.
type QueueKind byte

const (
	QueueKindQueue QueueKind = iota
	QueueKindCountingSemaphore
	QueueKindBinarySemaphore
	QueueKindMutex
	QueueKindRecursiveMutex
)
