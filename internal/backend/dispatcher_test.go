package backend

import (
	"bytes"
	"sync"
	"testing"

	"github.com/schilkp/Tonbandgeraet/config"
	"github.com/schilkp/Tonbandgeraet/internal/encode"
	"github.com/stretchr/testify/require"
)

type fakePort struct {
	ts uint64
}

func (f *fakePort) Timestamp() uint64            { f.ts++; return f.ts }
func (f *fakePort) TimestampResolutionNS() uint64 { return 1 }
func (f *fakePort) EnterCritical()                {}
func (f *fakePort) ExitCritical()                 {}
func (f *fakePort) NumberOfCores() int            { return 2 }
func (f *fakePort) CurrentCoreID() int            { return 0 }

func TestDispatcherSubmitWritesThroughStream(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig(2)
	be := NewStream(&buf, nil, &fakePort{})
	d := New(&fakePort{}, nopMetaBackend{be}, cfg)
	d.Enable()

	d.Submit(0, encode.CoreID{CoreID: 0})
	require.NotZero(t, buf.Len())
}

// nopMetaBackend wraps a Backend but replaces Start with a no-op that
// skips metadata replay, for tests that only care about Forward.
type nopMetaBackend struct{ Backend }

func (nopMetaBackend) Start() error { return nil }

func TestDispatcherSkipsSubmitWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig(1)
	be := NewStream(&buf, nil, &fakePort{})
	d := New(&fakePort{}, nopMetaBackend{be}, cfg)

	d.Submit(0, encode.CoreID{CoreID: 0})
	require.Zero(t, buf.Len())
}

func TestDispatcherQuiescentWhenIdle(t *testing.T) {
	cfg := config.DefaultConfig(2)
	d := New(&fakePort{}, NewSnapshot(2, 1024), cfg)
	require.True(t, d.Quiescent())
}

func TestDispatcherQuiescentFalseWhileLockHeld(t *testing.T) {
	cfg := config.DefaultConfig(2)
	d := New(&fakePort{}, NewSnapshot(2, 1024), cfg)
	d.backendLock[1].Lock()
	defer d.backendLock[1].Unlock()
	require.False(t, d.Quiescent())
}

func TestDispatcherSnapshotFullMarksFinishedAndNotifiesOnce(t *testing.T) {
	cfg := config.DefaultConfig(1)
	cfg.SnapshotBufSize = 4 // tiny, forces overflow fast
	snap := NewSnapshot(1, 4)
	d := New(&fakePort{}, snap, cfg)
	d.Enable()

	obs := &countingObserver{}
	d.port = &observingPort{fakePort: &fakePort{}, obs: obs}

	for i := 0; i < 20; i++ {
		d.Submit(0, encode.CoreID{CoreID: 0})
	}

	require.True(t, d.Finished(0))
	require.Equal(t, 1, obs.calls)
}

// spec §4.9 scenario S6: once any core's snapshot buffer fills,
// tracing_enabled must read false session-wide, not just that core's own
// finished latch.
func TestDispatcherEnabledClearsWhenSnapshotBufferFills(t *testing.T) {
	cfg := config.DefaultConfig(1)
	cfg.SnapshotBufSize = 4
	snap := NewSnapshot(1, 4)
	d := New(&fakePort{}, snap, cfg)
	d.Enable()

	for i := 0; i < 20; i++ {
		d.Submit(0, encode.CoreID{CoreID: 0})
	}

	require.True(t, d.Finished(0))
	require.False(t, d.Enabled())
}

type countingObserver struct {
	mu    sync.Mutex
	calls int
}

func (c *countingObserver) OnSnapshotBufFull(int) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

type observingPort struct {
	*fakePort
	obs *countingObserver
}

func (p *observingPort) OnSnapshotBufFull(coreID int) { p.obs.OnSnapshotBufFull(coreID) }

func TestDispatcherResetClearsFinishedAndMetadata(t *testing.T) {
	cfg := config.DefaultConfig(1)
	cfg.SnapshotBufSize = 2
	snap := NewSnapshot(1, 2)
	d := New(&fakePort{}, snap, cfg)
	d.Enable()
	d.Submit(0, encode.CoreID{CoreID: 0})
	d.Submit(0, encode.CoreID{CoreID: 0})
	require.True(t, d.Finished(0))
	require.True(t, d.meta.Core(0).Append([]byte{1}))

	d.Disable()
	require.NoError(t, d.ResetBackend())
	require.False(t, d.Finished(0))
	require.Empty(t, d.meta.Core(0).Bytes())
}

func TestDispatcherStartBackendRequiresQuiescence(t *testing.T) {
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, NewSnapshot(1, 1024), cfg)
	d.Enable()
	require.ErrorIs(t, d.StartBackend(), ErrNotQuiescent)
}

func TestDispatcherStartBackendEnablesOnSuccess(t *testing.T) {
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, NewSnapshot(1, 1024), cfg)
	require.NoError(t, d.StartBackend())
	require.True(t, d.Enabled())
}

func TestDispatcherStopBackendRequiresEnabled(t *testing.T) {
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, NewSnapshot(1, 1024), cfg)
	require.ErrorIs(t, d.StopBackend(), ErrAlreadyStopped)
}

func TestDispatcherStopBackendDisablesAndStopsBackend(t *testing.T) {
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, NewSnapshot(1, 1024), cfg)
	d.Enable()
	require.NoError(t, d.StopBackend())
	require.False(t, d.Enabled())
}

func TestDispatcherResetBackendRequiresQuiescence(t *testing.T) {
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, NewSnapshot(1, 1024), cfg)
	d.Enable()
	require.ErrorIs(t, d.ResetBackend(), ErrNotQuiescent)
}

// callCountingBackend records every Forward call's payload and result,
// failing only the configured call number -- used to pin down exactly
// which of Submit's two forwards (the drop-count publish, then the
// caller's event) is the one under test.
type callCountingBackend struct {
	mu       sync.Mutex
	calls    int
	failCall int
}

func (b *callCountingBackend) Start() error      { return nil }
func (b *callCountingBackend) Stop() error       { return nil }
func (b *callCountingBackend) Reset() error      { return nil }
func (b *callCountingBackend) Finished(int) bool { return false }

func (b *callCountingBackend) Forward(_ int, _ []byte) ForwardResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	if b.calls == b.failCall {
		return ForwardDropped
	}
	return ForwardOK
}

// spec §4.5 step 2: if the drop-count publish itself is dropped by the
// sink, Submit must count the drop and return without forwarding the
// caller's event on top of a lost count. A core's very first Submit
// always triggers a publish (Accountant.PreEmit's havePublished==false
// case), so the first Forward call observed here is the publish.
func TestSubmitSkipsCallerEventWhenDropCountPublishIsDropped(t *testing.T) {
	cfg := config.DefaultConfig(1)
	be := &callCountingBackend{failCall: 1}
	d := New(&fakePort{}, be, cfg)
	d.Enable()

	d.Submit(0, encode.CoreID{CoreID: 0})

	require.Equal(t, 1, be.calls)
	require.Equal(t, uint32(1), d.drops.Count())
}

func TestDispatcherStartBackendPropagatesMetadataDropButStillEnables(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig(1)
	d := New(&fakePort{}, nil, cfg)
	d.meta.Core(0).Append([]byte{1})
	d.meta.Core(0).Append(make([]byte, cfg.MetadataBufSize)) // force overflow
	stream := NewStream(&buf, d.meta, &fakePort{})
	d.SetBackend(stream)

	err := d.StartBackend()
	require.Error(t, err)
	require.True(t, d.Enabled())
}
