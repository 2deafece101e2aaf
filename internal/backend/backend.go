// Package backend implements the three output policies a session can be
// configured with (spec C6/C8/C9: streaming, snapshot, post-mortem/
// external) behind a single Dispatcher, plus the lock discipline that
// lets hook call sites submit events without ever suspending. Grounded on
// the teacher's internal/queue/runner.go: per-resource (there, per-tag;
// here, per-core) lock-then-transition discipline, generalized from a
// blocking sync.Mutex to a non-suspending Spinlock.
package backend

// ForwardResult reports what a Backend did with one already-framed
// record, and tells the dispatcher whether to route it through drop
// accounting.
type ForwardResult int

const (
	// ForwardOK: the record was stored or written successfully.
	ForwardOK ForwardResult = iota
	// ForwardDropped: the record could not be delivered and must be
	// counted by the drop accountant (streaming backend: Sink.Write
	// failed or would block).
	ForwardDropped
	// ForwardBufferFull: the record could not be stored because this
	// call is the one that just filled the buffer (snapshot backend).
	// Never counted as a drop -- C9 -- the buffer-full observer
	// callback is how this is surfaced instead.
	ForwardBufferFull
	// ForwardAlreadyFull: the buffer was already full before this call;
	// the record is silently discarded, same as ForwardBufferFull but
	// without re-firing the observer callback.
	ForwardAlreadyFull
)

// Backend is the per-session output policy. All methods except Forward
// are called with no per-core lock held; Forward is always called with
// the calling core's backend lock held.
type Backend interface {
	// Forward stores or writes one framed record for coreID.
	Forward(coreID int, framed []byte) ForwardResult
	// Start begins output (e.g. replays metadata, in the streaming
	// backend's case). Called while the dispatcher is quiescent.
	Start() error
	// Stop ends output. Called while the dispatcher is quiescent.
	Stop() error
	// Reset clears any buffered state. Called while the dispatcher is
	// quiescent.
	Reset() error
	// Finished reports whether coreID's backend has reached a terminal
	// state and will no longer accept records (snapshot: buffer full;
	// streaming: never finishes on its own).
	Finished(coreID int) bool
}
