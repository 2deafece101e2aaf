package tband

import (
	"sync"

	"github.com/schilkp/Tonbandgeraet/port"
)

// MockPort is a Port implementation for tests: a manually-advanced
// timestamp, a fixed core count and current core id, and critical
// sections tracked by call count rather than enforced by a real mutex
// (tests run single-goroutine against it). Adapted from the teacher's
// MockBackend, which plays the same "exercise the interface without a
// real device" role for ublk's storage Backend.
type MockPort struct {
	mu sync.Mutex

	ts         uint64
	resolution uint64
	numCores   int
	coreID     int

	enterCalls int
	exitCalls  int
}

// NewMockPort builds a MockPort reporting numCores cores, always as
// coreID, with resolution nanoseconds per Timestamp tick.
func NewMockPort(numCores, coreID int, resolution uint64) *MockPort {
	return &MockPort{numCores: numCores, coreID: coreID, resolution: resolution}
}

// Advance increases the mock timestamp by delta ticks, returning the new
// value.
func (m *MockPort) Advance(delta uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ts += delta
	return m.ts
}

func (m *MockPort) Timestamp() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ts
}

func (m *MockPort) TimestampResolutionNS() uint64 { return m.resolution }
func (m *MockPort) NumberOfCores() int            { return m.numCores }
func (m *MockPort) CurrentCoreID() int            { return m.coreID }

func (m *MockPort) EnterCritical() {
	m.mu.Lock()
	m.enterCalls++
	m.mu.Unlock()
}

func (m *MockPort) ExitCritical() {
	m.mu.Lock()
	m.exitCalls++
	m.mu.Unlock()
}

// CriticalSectionCalls returns how many times EnterCritical/ExitCritical
// have each been called, for tests asserting every hook brackets its
// work in a critical section.
func (m *MockPort) CriticalSectionCalls() (enter, exit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enterCalls, m.exitCalls
}

var _ port.Port = (*MockPort)(nil)

// MockSink is a Sink (io.Writer) that records every write and can be
// configured to report a subset of calls as failed, for exercising the
// drop-accounting path (spec S5) without a real transport.
type MockSink struct {
	mu sync.Mutex

	failCalls map[int]bool // 1-indexed call number -> fail
	call      int
	writes    [][]byte
}

// NewMockSink builds a MockSink that always succeeds until configured
// otherwise via FailOnCalls.
func NewMockSink() *MockSink {
	return &MockSink{failCalls: make(map[int]bool)}
}

// FailOnCalls marks the given 1-indexed Write call numbers to fail
// (return an error without recording the write), modeling S5's "sink
// returns dropped=true for the 3rd-5th calls".
func (s *MockSink) FailOnCalls(calls ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range calls {
		s.failCalls[c] = true
	}
}

func (s *MockSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.call++
	if s.failCalls[s.call] {
		return 0, errMockSinkFull
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	s.writes = append(s.writes, cp)
	return len(p), nil
}

// Writes returns every payload successfully written so far, in order.
func (s *MockSink) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.writes))
	copy(out, s.writes)
	return out
}

// Bytes concatenates every payload successfully written so far.
func (s *MockSink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []byte
	for _, w := range s.writes {
		out = append(out, w...)
	}
	return out
}

var errMockSinkFull = NewError("MockSink.Write", ErrCodeInvalidParameters, nil)
