package encode

import "github.com/schilkp/Tonbandgeraet/internal/frame"

// CoreID announces a core's numeric id; emitted once per core as part of
// gather_system_metadata(). Not itself a metadata-class event (it carries a
// timestamp, like the scenario in spec §8 S1 shows).
type CoreID struct {
	TS     uint64
	CoreID uint32
}

func (CoreID) Tag() byte        { return TagCoreID }
func (CoreID) IsMetadata() bool { return false }
func (CoreID) MaxLen() int      { return frame.Max(headerMaxLen(true, false) + maxU32) }
func (e CoreID) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagCoreID, true, e.TS, false, 0)
	frame.WriteU32(w, e.CoreID)
	return w.Finish()
}

// DroppedEvtCnt reports the process-wide drop counter, emitted by the drop
// accountant (internal/dropcount) whenever it changes or periodically.
type DroppedEvtCnt struct {
	TS    uint64
	Count uint32
}

func (DroppedEvtCnt) Tag() byte        { return TagDroppedEvtCnt }
func (DroppedEvtCnt) IsMetadata() bool { return false }
func (DroppedEvtCnt) MaxLen() int      { return frame.Max(headerMaxLen(true, false) + maxU32) }
func (e DroppedEvtCnt) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagDroppedEvtCnt, true, e.TS, false, 0)
	frame.WriteU32(w, e.Count)
	return w.Finish()
}

// TSResolutionNS announces the port's timestamp resolution in nanoseconds;
// metadata, carries no timestamp of its own.
type TSResolutionNS struct {
	ResolutionNS uint64
}

func (TSResolutionNS) Tag() byte        { return TagTSResolutionNS }
func (TSResolutionNS) IsMetadata() bool { return true }
func (TSResolutionNS) MaxLen() int      { return frame.Max(maxU8 + maxU64) }
func (e TSResolutionNS) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagTSResolutionNS, false, 0, false, 0)
	frame.WriteU64(w, e.ResolutionNS)
	return w.Finish()
}

// ISRName registers an ISR id's human-readable name; metadata.
type ISRName struct {
	ISRID uint32
	Name  string
}

func (ISRName) Tag() byte        { return TagISRName }
func (ISRName) IsMetadata() bool { return true }
func (ISRName) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxStr) }
func (e ISRName) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagISRName, false, 0, true, e.ISRID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// ISREnter marks entry into an ISR.
type ISREnter struct {
	TS    uint64
	ISRID uint32
}

func (ISREnter) Tag() byte        { return TagISREnter }
func (ISREnter) IsMetadata() bool { return false }
func (ISREnter) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e ISREnter) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagISREnter, true, e.TS, true, e.ISRID)
	return w.Finish()
}

// ISRExit marks exit from an ISR.
type ISRExit struct {
	TS    uint64
	ISRID uint32
}

func (ISRExit) Tag() byte        { return TagISRExit }
func (ISRExit) IsMetadata() bool { return false }
func (ISRExit) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e ISRExit) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagISRExit, true, e.TS, true, e.ISRID)
	return w.Finish()
}

// EvtMarkerName registers a marker id's human-readable name; metadata.
type EvtMarkerName struct {
	MarkerID uint32
	Name     string
}

func (EvtMarkerName) Tag() byte        { return TagEvtMarkerName }
func (EvtMarkerName) IsMetadata() bool { return true }
func (EvtMarkerName) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxStr) }
func (e EvtMarkerName) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagEvtMarkerName, false, 0, true, e.MarkerID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// EvtMarker is an instantaneous event marker carrying a short message.
type EvtMarker struct {
	TS       uint64
	MarkerID uint32
	Msg      string
}

func (EvtMarker) Tag() byte        { return TagEvtMarker }
func (EvtMarker) IsMetadata() bool { return false }
func (EvtMarker) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxStr) }
func (e EvtMarker) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagEvtMarker, true, e.TS, true, e.MarkerID)
	frame.WriteStr(w, e.Msg, maxStr)
	return w.Finish()
}

// EvtMarkerBegin opens a duration marked by a later EvtMarkerEnd sharing
// MarkerID.
type EvtMarkerBegin struct {
	TS       uint64
	MarkerID uint32
	Msg      string
}

func (EvtMarkerBegin) Tag() byte        { return TagEvtMarkerBegin }
func (EvtMarkerBegin) IsMetadata() bool { return false }
func (EvtMarkerBegin) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxStr) }
func (e EvtMarkerBegin) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagEvtMarkerBegin, true, e.TS, true, e.MarkerID)
	frame.WriteStr(w, e.Msg, maxStr)
	return w.Finish()
}

// EvtMarkerEnd closes a duration opened by EvtMarkerBegin.
type EvtMarkerEnd struct {
	TS       uint64
	MarkerID uint32
}

func (EvtMarkerEnd) Tag() byte        { return TagEvtMarkerEnd }
func (EvtMarkerEnd) IsMetadata() bool { return false }
func (EvtMarkerEnd) MaxLen() int      { return frame.Max(headerMaxLen(true, true)) }
func (e EvtMarkerEnd) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagEvtMarkerEnd, true, e.TS, true, e.MarkerID)
	return w.Finish()
}

// ValMarkerName registers a value-marker id's human-readable name; metadata.
type ValMarkerName struct {
	MarkerID uint32
	Name     string
}

func (ValMarkerName) Tag() byte        { return TagValMarkerName }
func (ValMarkerName) IsMetadata() bool { return true }
func (ValMarkerName) MaxLen() int      { return frame.Max(headerMaxLen(false, true) + maxStr) }
func (e ValMarkerName) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagValMarkerName, false, 0, true, e.MarkerID)
	frame.WriteStr(w, e.Name, maxStr)
	return w.Finish()
}

// ValMarker records a signed sample value under a marker id.
type ValMarker struct {
	TS       uint64
	MarkerID uint32
	Val      int64
}

func (ValMarker) Tag() byte        { return TagValMarker }
func (ValMarker) IsMetadata() bool { return false }
func (ValMarker) MaxLen() int      { return frame.Max(headerMaxLen(true, true) + maxS64) }
func (e ValMarker) Encode(buf []byte) int {
	w := frame.NewWriter(buf)
	header(w, TagValMarker, true, e.TS, true, e.MarkerID)
	frame.WriteS64(w, e.Val)
	return w.Finish()
}
