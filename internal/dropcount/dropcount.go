// Package dropcount implements the process-wide drop accountant: a single
// atomic counter incremented whenever any core discards an event, and a
// per-core publication schedule that decides when that core's next record
// should be a DroppedEvtCnt announcement instead of (or ahead of) whatever
// it was about to emit.
//
// Publication is idempotent by construction: a consumer that sees the same
// count twice, or an older count after a newer one, simply keeps the
// maximum it has observed. That lets Accountant over-publish (on every
// change, and periodically even without one) without any cross-core
// coordination beyond the single shared atomic counter.
package dropcount

import "sync/atomic"

// Accountant tracks one process-wide drop counter and one per-core
// publication schedule. All of Accountant's own exported methods are safe
// for concurrent use by different cores; PreEmit for a given core index
// must only be called by that core's dispatcher, which already serializes
// access to its own state under its backend spinlock (spec's per-core
// discipline), so the per-core schedule fields themselves are plain,
// unsynchronized values.
type Accountant struct {
	global atomic.Uint32
	every  uint32
	cores  []coreSchedule
}

type coreSchedule struct {
	lastPublished uint32
	havePublished bool
	countdown     uint32
}

// New builds an Accountant for numCores cores. every is how many emitted
// events may pass between unconditional republications of an unchanged
// count; it mirrors tband_configTRACE_DROP_CNT_EVERY.
func New(numCores int, every uint32) *Accountant {
	a := &Accountant{every: every, cores: make([]coreSchedule, numCores)}
	for i := range a.cores {
		a.cores[i].countdown = every
	}
	return a
}

// RecordDrop increments the process-wide drop counter by one. Safe to call
// from any core, including from inside a spinlock-held dispatch path: it is
// a single atomic add, no blocking.
func (a *Accountant) RecordDrop() {
	a.global.Add(1)
}

// Count returns the current process-wide drop count.
func (a *Accountant) Count() uint32 {
	return a.global.Load()
}

// PreEmit is consulted by a core's dispatcher immediately before it would
// emit any ordinary record. It returns shouldPublish=true when that core
// must first emit a DroppedEvtCnt(count) record: either because the global
// count has changed since this core last published it, or because every
// emissions have passed since the last publication (so a newly attached
// consumer is never more than every records away from a refresh).
func (a *Accountant) PreEmit(coreID int) (shouldPublish bool, count uint32) {
	cs := &a.cores[coreID]
	c := a.global.Load()

	if !cs.havePublished || c != cs.lastPublished || cs.countdown == 0 {
		cs.lastPublished = c
		cs.havePublished = true
		cs.countdown = a.every
		return true, c
	}
	cs.countdown--
	return false, 0
}

// Reset clears a core's publication schedule, used when a backend (re)starts
// and must re-announce the current count on its first emission regardless
// of whether it changed since the core last streamed.
func (a *Accountant) Reset(coreID int) {
	cs := &a.cores[coreID]
	cs.havePublished = false
	cs.countdown = a.every
}
