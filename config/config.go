// Package config resolves the preprocessor feature-gate table of the
// original tracer (tband_config* macros, one #if per optional subsystem)
// into a plain Go struct built once at session construction. Call sites
// branch on a field instead of a compile-time macro; Capabilities gates
// which hook-surface families are wired at all, the same role
// tband_config{TASK,QUEUE,ISR,MARKER}_TRACE_ENABLE played.
package config

// MaxStrLen bounds every string field (task/queue/marker names, marker
// messages). It mirrors tband_configMAX_STR_LEN and, like that macro, is a
// fixed build-time constant: Go has no per-call generic string-length
// parameter worth the complexity here, so a single package constant plays
// the same role as the C macro default.
const MaxStrLen = 20

// Backend selects which single output backend a session drives. Exactly
// one must be chosen; unlike the original's four independent
// tband_configUSE_BACKEND_* booleans (validated with a single #error), a Go
// enum makes "exactly one" a type-level property instead of a runtime check.
type Backend int

const (
	BackendStream Backend = iota
	BackendSnapshot
	BackendPostMortem
	BackendExternal
)

func (b Backend) String() string {
	switch b {
	case BackendStream:
		return "stream"
	case BackendSnapshot:
		return "snapshot"
	case BackendPostMortem:
		return "post-mortem"
	case BackendExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Capabilities gates which hook-surface families are wired into a session.
// A disabled family's hook methods panic with a clear programmer error
// instead of silently no-opping, per Design Note 3's capability-trait
// replacement for #if gates: the mistake of calling a disabled hook should
// surface immediately, not compile away unnoticed.
type Capabilities struct {
	Task           bool
	Queue          bool
	ISR            bool
	Marker         bool
	StreamBuffer   bool
	UseMetadataBuf bool
}

// DefaultCapabilities matches the original's defaults: every family on.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Task:           true,
		Queue:          true,
		ISR:            true,
		Marker:         true,
		StreamBuffer:   true,
		UseMetadataBuf: true,
	}
}

// Config is the resolved, immutable-after-construction configuration for a
// Session, replacing the tband_config* macro table.
type Config struct {
	// NumCores is the number of cores this port exposes; required, no
	// default (the original likewise required a port-provided core count).
	NumCores int

	// Backend selects the single active output backend.
	Backend Backend

	// Capabilities gates which hook families are wired.
	Capabilities Capabilities

	// MetadataBufSize bounds the per-core metadata replay buffer, in bytes.
	// Default mirrors tband_configMETADATA_BUF_SIZE.
	MetadataBufSize int

	// SnapshotBufSize bounds each core's snapshot backend buffer, in bytes.
	// Default mirrors tband_configBACKEND_SNAPSHOT_BUF_SIZE. Only
	// meaningful when Backend == BackendSnapshot.
	SnapshotBufSize int

	// DropCountEvery controls how often each core re-emits a
	// dropped_evt_cnt record when the count has not changed: after this
	// many events without a publication, whatever the count's value.
	// Default mirrors tband_configTRACE_DROP_CNT_EVERY.
	DropCountEvery uint32
}

// DefaultConfig returns a Config with every default from the original
// tband.h macro table except NumCores, which the caller must always set.
func DefaultConfig(numCores int) Config {
	return Config{
		NumCores:        numCores,
		Backend:         BackendStream,
		Capabilities:    DefaultCapabilities(),
		MetadataBufSize: 256,
		SnapshotBufSize: 32768,
		DropCountEvery:  50,
	}
}
