package backend

import (
	"errors"
	"sync/atomic"

	"github.com/schilkp/Tonbandgeraet/config"
	"github.com/schilkp/Tonbandgeraet/internal/dropcount"
	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/internal/meta"
	"github.com/schilkp/Tonbandgeraet/port"
)

// ErrNotQuiescent is returned by StartBackend and ResetBackend when the
// dispatcher is not quiescent (spec §4.6/§5): tracing is still enabled,
// or some core could be mid-dispatch. The root package maps this to
// ErrCodeNotQuiescent.
var ErrNotQuiescent = errors.New("tband: dispatcher not quiescent")

// ErrAlreadyStopped is returned by StopBackend when tracing is already
// disabled. The root package maps this to ErrCodeAlreadyStopped.
var ErrAlreadyStopped = errors.New("tband: dispatcher already stopped")

// Dispatcher serializes every hook call site's access to a session's
// output backend. Lock ordering is fixed for the dispatcher's lifetime:
// enableLock > backendLock[i] > metadataLock[i]. A core holding its own
// backendLock[i] releases it before acquiring enableLock (see
// notifyBufferFull) -- the one place those two locks would otherwise
// nest in the wrong order.
type Dispatcher struct {
	port    port.Port
	backend Backend
	drops   *dropcount.Accountant
	meta    *meta.Store

	enableLock Spinlock
	enabled    atomic.Bool

	backendLock  []Spinlock
	metadataLock []Spinlock
	finished     []atomic.Bool

	buf []byte // scratch encode buffer, reused; Submit is never reentrant per core
}

// New builds a dispatcher for the given port and backend, wired to a
// metadata store and drop accountant sized from cfg.
func New(p port.Port, be Backend, cfg config.Config) *Dispatcher {
	n := cfg.NumCores
	d := &Dispatcher{
		port:         p,
		backend:      be,
		drops:        dropcount.New(n, cfg.DropCountEvery),
		meta:         meta.NewStore(n, cfg.MetadataBufSize),
		backendLock:  make([]Spinlock, n),
		metadataLock: make([]Spinlock, n),
		finished:     make([]atomic.Bool, n),
		buf:          make([]byte, 0, 1+5+5+config.MaxStrLen+5),
	}
	return d
}

// Meta exposes the per-core metadata replay store, used to build the
// streaming backend (which replays it on Start) and by the session's
// metadata buffer accessors.
func (d *Dispatcher) Meta() *meta.Store { return d.meta }

// RawBackend exposes the installed backend so callers can type-assert to
// a concrete kind (e.g. *Snapshot, to read a core's captured bytes).
func (d *Dispatcher) RawBackend() Backend { return d.backend }

// SetBackend installs the active output backend. Session construction
// needs the dispatcher's metadata store to exist before it can build a
// Stream backend (which replays from it), so backend wiring is a second
// step rather than a New() argument.
func (d *Dispatcher) SetBackend(be Backend) { d.backend = be }

// Enabled reports whether the session is currently accepting events.
func (d *Dispatcher) Enabled() bool { return d.enabled.Load() }

// Enable flips the session to accepting events. No-op if already enabled.
func (d *Dispatcher) Enable() {
	d.enableLock.Lock()
	d.enabled.Store(true)
	d.enableLock.Unlock()
}

// Disable flips the session to rejecting events. A core already
// mid-Submit when Disable runs is allowed to finish that one event; the
// next Submit on every core observes the new state once it acquires its
// own backendLock.
func (d *Dispatcher) Disable() {
	d.enableLock.Lock()
	d.enabled.Store(false)
	d.enableLock.Unlock()
}

// Quiescent implements spec §5's quiescence predicate: tracing_enabled is
// false AND every core's backend spinlock can be immediately acquired.
// It is a momentary snapshot: true only means no core was mid-dispatch at
// the instant each backendLock was sampled, not that none will start
// again -- sound only once the caller has already disabled the session
// and no further Enable can race it, which is how StartBackend and
// ResetBackend use it.
func (d *Dispatcher) Quiescent() bool {
	if d.enabled.Load() {
		return false
	}
	acquired := make([]bool, len(d.backendLock))
	quiescent := true
	for i := range d.backendLock {
		if d.backendLock[i].TryLock() {
			acquired[i] = true
		} else {
			quiescent = false
		}
	}
	for i, ok := range acquired {
		if ok {
			d.backendLock[i].Unlock()
		}
	}
	return quiescent
}

// Finished reports whether coreID's backend has reached a terminal state.
func (d *Dispatcher) Finished(coreID int) bool {
	return d.finished[coreID].Load()
}

// CoreQuiescent reports whether coreID alone is not currently mid-Submit,
// regardless of any other core or the session-wide enabled flag. Used by
// get_core_snapshot_buf (spec §4.9), which is scoped to a single core
// rather than the whole dispatcher.
func (d *Dispatcher) CoreQuiescent(coreID int) bool {
	if d.backendLock[coreID].TryLock() {
		d.backendLock[coreID].Unlock()
		return true
	}
	return false
}

// Submit encodes ev for coreID and forwards it through the backend,
// first publishing a pending drop count if one is due. ev must be
// non-nil; the dropped_evt_cnt record is built and forwarded by Submit
// itself, not passed in by callers.
//
// A metadata-kind ev is appended to the replay buffer unconditionally of
// the enabled flag (spec §4.6 step 1 / C7): names registered before
// start() must still be present in the buffer start() replays. Only the
// backend forward -- the live stream or snapshot -- is gated on enabled.
func (d *Dispatcher) Submit(coreID int, ev encode.Event) {
	if d.finished[coreID].Load() {
		return
	}

	d.backendLock[coreID].Lock()

	if d.finished[coreID].Load() {
		d.backendLock[coreID].Unlock()
		return
	}

	if ev.IsMetadata() {
		framed := d.encodeLocked(ev)
		d.metadataLock[coreID].Lock()
		d.meta.Core(coreID).Append(framed)
		d.metadataLock[coreID].Unlock()
	}

	if !d.enabled.Load() {
		d.backendLock[coreID].Unlock()
		return
	}

	full := false

	if pub, count := d.drops.PreEmit(coreID); pub {
		switch d.forwardLocked(coreID, dropCountEvent(d.port, count)) {
		case ForwardBufferFull:
			full = true
		case ForwardDropped:
			// spec §4.5 step 2: the publish itself was dropped (already
			// counted by forwardLocked) -- the caller's event is skipped
			// this round rather than forwarded on top of a lost count.
			d.backendLock[coreID].Unlock()
			if full {
				d.notifyBufferFull(coreID)
			}
			return
		}
	}

	if d.forwardLocked(coreID, ev) == ForwardBufferFull {
		full = true
	}

	d.backendLock[coreID].Unlock()

	if full {
		d.notifyBufferFull(coreID)
	}
}

// encodeLocked encodes ev into the dispatcher's reused scratch buffer and
// returns the framed bytes, valid until the next encodeLocked call. Must
// be called with backendLock[coreID] held.
func (d *Dispatcher) encodeLocked(ev encode.Event) []byte {
	if need := ev.MaxLen(); need > cap(d.buf) {
		d.buf = make([]byte, need)
	}
	n := ev.Encode(d.buf[:cap(d.buf)])
	return d.buf[:n]
}

// forwardLocked encodes ev and hands it to the backend, counting a
// streaming-sink failure as a drop. Must be called with
// backendLock[coreID] held.
func (d *Dispatcher) forwardLocked(coreID int, ev encode.Event) ForwardResult {
	framed := d.encodeLocked(ev)
	res := d.backend.Forward(coreID, framed)
	if res == ForwardDropped {
		d.drops.RecordDrop()
	}
	return res
}

// notifyBufferFull marks coreID finished, atomically transitions
// tracing_enabled to false (spec §4.9, scenario S6: "tracing_enabled()
// reads false thereafter"), and invokes the port's buffer-full observer,
// if any. Called with no lock held -- the caller (Submit) already
// released backendLock[coreID] before calling this, so enableLock is
// acquired here without ever nesting under a backendLock.
func (d *Dispatcher) notifyBufferFull(coreID int) {
	d.enableLock.Lock()
	justFinished := !d.finished[coreID].Swap(true)
	if justFinished {
		d.enabled.Store(false)
	}
	d.enableLock.Unlock()

	if !justFinished {
		return
	}
	if obs, ok := d.port.(port.SnapshotFullObserver); ok {
		obs.OnSnapshotBufFull(coreID)
	}
}

// StartBackend implements spec §4.6's start(): it requires the
// dispatcher to be quiescent, then runs the backend's own start policy
// (the streaming backend replays metadata here) before flipping
// tracing_enabled, so metadata replay can never interleave with a live
// event. A *MetadataDropOnStartError* from the backend still results in
// tracing being enabled -- replay already happened on a best-effort
// basis -- but is still returned to the caller; any other backend error
// aborts the start.
func (d *Dispatcher) StartBackend() error {
	if !d.Quiescent() {
		return ErrNotQuiescent
	}
	err := d.backend.Start()
	var dropErr *MetadataDropOnStartError
	if err != nil && !errors.As(err, &dropErr) {
		return err
	}
	d.Enable()
	return err
}

// StopBackend implements spec §4.6's stop(): disable first (so no core
// can begin a new Submit), then run the backend's own stop policy.
func (d *Dispatcher) StopBackend() error {
	if !d.enabled.Load() {
		return ErrAlreadyStopped
	}
	d.Disable()
	return d.backend.Stop()
}

// ResetBackend implements spec §4.6's reset(): only valid while
// quiescent, it zeros every core's finished latch and metadata buffer
// and delegates to the backend's own Reset.
func (d *Dispatcher) ResetBackend() error {
	if !d.Quiescent() {
		return ErrNotQuiescent
	}
	for i := range d.finished {
		d.finished[i].Store(false)
		d.meta.Core(i).Reset()
		d.drops.Reset(i)
	}
	return d.backend.Reset()
}

func dropCountEvent(p port.Port, count uint32) encode.Event {
	return &encode.DroppedEvtCnt{TS: p.Timestamp(), Count: count}
}
