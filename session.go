package tband

import (
	"errors"
	"io"

	"github.com/schilkp/Tonbandgeraet/config"
	"github.com/schilkp/Tonbandgeraet/internal/backend"
	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/schilkp/Tonbandgeraet/port"
)

// Session is the library's single entry point: one Session per traced
// process/image, aggregating the port, the configured backend, and the
// resource-id bookkeeping the hook surface needs. Replaces the source's
// module-scope statics and arrays (Design Note 9: "from global mutable
// state to a Session value").
type Session struct {
	cfg        config.Config
	port       port.Port
	dispatcher *backend.Dispatcher

	ids resourceIDs
}

// NewSession builds a Session for p, wiring whichever backend cfg.Backend
// selects. sink is only used (and must be non-nil) when
// cfg.Backend == config.BackendStream.
func NewSession(p port.Port, sink io.Writer, cfg config.Config) (*Session, error) {
	if cfg.NumCores <= 0 {
		return nil, NewError("NewSession", ErrCodeInvalidParameters, nil)
	}

	d := backend.New(p, nil, cfg)

	var be backend.Backend
	switch cfg.Backend {
	case config.BackendStream:
		if sink == nil {
			return nil, NewError("NewSession", ErrCodeInvalidParameters, nil)
		}
		be = backend.NewStream(sink, d.Meta(), p)
	case config.BackendSnapshot:
		be = backend.NewSnapshot(cfg.NumCores, cfg.SnapshotBufSize)
	case config.BackendPostMortem, config.BackendExternal:
		be = backend.Unimplemented{}
	default:
		return nil, NewError("NewSession", ErrCodeInvalidParameters, nil)
	}
	d.SetBackend(be)

	return &Session{cfg: cfg, port: p, dispatcher: d, ids: newResourceIDs()}, nil
}

// Enabled reports whether the session is currently accepting events
// (tband_tracing_enabled).
func (s *Session) Enabled() bool { return s.dispatcher.Enabled() }

// Finished reports whether tracing has stopped and every core is
// confirmed quiescent (tband_tracing_finished).
func (s *Session) Finished() bool { return s.dispatcher.Quiescent() }

// BackendFinished reports whether coreID's backend has reached a
// terminal state -- always false for streaming, true once a snapshot
// buffer has filled (tband_tracing_backend_finished).
func (s *Session) BackendFinished(coreID int) bool { return s.dispatcher.Finished(coreID) }

// MetadataBuf returns coreID's replayed metadata bytes so far
// (tband_get_metadata_buf).
func (s *Session) MetadataBuf(coreID int) []byte { return s.dispatcher.Meta().Core(coreID).Bytes() }

// MetadataBufLen returns len(s.MetadataBuf(coreID)) without copying
// (tband_get_metadata_buf_amount).
func (s *Session) MetadataBufLen(coreID int) int { return len(s.dispatcher.Meta().Core(coreID).Bytes()) }

// StartStreaming starts the session's configured backend; it does not
// check cfg.Backend, so a non-streaming backend's own start result is
// returned. Requires the dispatcher to be quiescent. The streaming
// backend replays each core's
// metadata prefixed by a core_id record, then emits a trailing core_id
// for the current core before enabling live events.
func (s *Session) StartStreaming() error {
	return s.wrapControlErr("StartStreaming", s.dispatcher.StartBackend())
}

// StopStreaming disables the streaming backend (tband_stop_streaming).
func (s *Session) StopStreaming() error {
	return s.wrapControlErr("StopStreaming", s.dispatcher.StopBackend())
}

// TriggerSnapshot starts the session's configured backend; it does not
// check cfg.Backend. Requires the dispatcher to be quiescent.
func (s *Session) TriggerSnapshot() error {
	return s.wrapControlErr("TriggerSnapshot", s.dispatcher.StartBackend())
}

// StopSnapshot stops accepting further events into the snapshot buffer
// without clearing it (tband_stop_snapshot).
func (s *Session) StopSnapshot() error {
	return s.wrapControlErr("StopSnapshot", s.dispatcher.StopBackend())
}

// ResetSnapshot zeros every core's snapshot buffer; only valid while
// stopped and quiescent (tband_reset_snapshot).
func (s *Session) ResetSnapshot() error {
	return s.wrapControlErr("ResetSnapshot", s.dispatcher.ResetBackend())
}

// CoreSnapshotBuf returns coreID's captured bytes, or nil if the
// dispatcher is not quiescent for that core (spec §4.9:
// get_core_snapshot_buf only returns data once quiescent).
func (s *Session) CoreSnapshotBuf(coreID int) []byte {
	snap, ok := s.snapshotBackend()
	if !ok || !s.dispatcher.CoreQuiescent(coreID) {
		return nil
	}
	return snap.Bytes(coreID)
}

// CoreSnapshotBufLen returns len(s.CoreSnapshotBuf(coreID)).
func (s *Session) CoreSnapshotBufLen(coreID int) int {
	return len(s.CoreSnapshotBuf(coreID))
}

func (s *Session) snapshotBackend() (*backend.Snapshot, bool) {
	snap, ok := s.dispatcher.RawBackend().(*backend.Snapshot)
	return snap, ok
}

// GatherSystemMetadata emits the fixed metadata preamble described in
// SPEC_FULL.md §3: the port's timestamp resolution, once, followed by a
// core_id record for every configured core. Call once at startup before
// any other hook.
func (s *Session) GatherSystemMetadata() {
	s.dispatcher.Submit(s.port.CurrentCoreID(), &encode.TSResolutionNS{
		ResolutionNS: s.port.TimestampResolutionNS(),
	})
	for i := 0; i < s.cfg.NumCores; i++ {
		s.dispatcher.Submit(i, &encode.CoreID{TS: s.port.Timestamp(), CoreID: uint32(i)})
	}
}

// submit is the hook surface's single call-in point: enter critical
// section, read the timestamp is the caller's job (ev already carries
// it), hand off to the dispatcher, exit critical section. See
// hooks.go for the per-hook-kind wrappers.
func (s *Session) submit(coreID int, ev encode.Event) {
	s.port.EnterCritical()
	s.dispatcher.Submit(coreID, ev)
	s.port.ExitCritical()
}

func (s *Session) wrapControlErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, backend.ErrNotQuiescent):
		return NewError(op, ErrCodeNotQuiescent, err)
	case errors.Is(err, backend.ErrAlreadyStopped):
		return NewError(op, ErrCodeAlreadyStopped, err)
	case errors.Is(err, backend.ErrNotImplemented):
		return NewError(op, ErrCodeNotImplemented, err)
	}
	var dropErr *backend.MetadataDropOnStartError
	if errors.As(err, &dropErr) {
		return NewError(op, ErrCodeMetadataDropOnStart, err)
	}
	return NewError(op, ErrCodeInvalidParameters, err)
}
