package port

import (
	"io"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// Posix is a reference Port implementation for running tband on a regular
// Linux host, in place of a bare-metal port. It is not the port a real
// embedded target
// would use -- see DESIGN.md for why golang.org/x/sys/unix (previously
// spent on the teacher's io_uring/mmap plumbing) now backs the timestamp
// and core-id capabilities instead.
type Posix struct {
	numCores int
	sink     io.Writer

	criticalMu []sync.Mutex
}

// NewPosix builds a POSIX port with the given core count, writing streamed
// output to sink (nil is valid -- a snapshot-only session never writes to
// a Sink).
func NewPosix(numCores int, sink io.Writer) *Posix {
	if numCores <= 0 {
		numCores = runtime.NumCPU()
	}
	return &Posix{
		numCores:   numCores,
		sink:       sink,
		criticalMu: make([]sync.Mutex, numCores),
	}
}

// Timestamp reads CLOCK_MONOTONIC and returns nanoseconds since an
// unspecified epoch, matching tband_portTIMESTAMP's contract (monotonic,
// not wall-clock).
func (p *Posix) Timestamp() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}

// TimestampResolutionNS reports CLOCK_MONOTONIC's reported resolution.
func (p *Posix) TimestampResolutionNS() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGetres(unix.CLOCK_MONOTONIC, &ts); err != nil || (ts.Sec == 0 && ts.Nsec == 0) {
		return 1
	}
	return uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)
}

// NumberOfCores returns the fixed core count this port was built with.
func (p *Posix) NumberOfCores() int {
	return p.numCores
}

// CurrentCoreID asks the kernel which CPU the calling thread is running on.
// On a host this drifts unless the calling goroutine's OS thread has been
// pinned (see PinCurrentThreadToCPU); a real embedded port has no such
// ambiguity since "core" and "CPU" coincide exactly.
func (p *Posix) CurrentCoreID() int {
	cpu, err := unix.SchedGetcpu()
	if err != nil || cpu < 0 || cpu >= p.numCores {
		return 0
	}
	return cpu
}

// PinCurrentThreadToCPU locks the calling goroutine to its current OS
// thread and restricts that thread's affinity to a single CPU, so that
// CurrentCoreID reports a stable value for the remainder of the goroutine's
// life. Intended for demo producer goroutines, one per simulated core.
func (p *Posix) PinCurrentThreadToCPU(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

// EnterCritical locks the calling core's own critical-section mutex. Not
// reentrant: tband never nests this call on the same goroutine.
func (p *Posix) EnterCritical() {
	p.criticalMu[p.CurrentCoreID()].Lock()
}

// ExitCritical unlocks the calling core's critical-section mutex.
func (p *Posix) ExitCritical() {
	p.criticalMu[p.CurrentCoreID()].Unlock()
}

// Sink returns the io.Writer backing this port's streaming output, or nil.
func (p *Posix) Sink() io.Writer {
	return p.sink
}
