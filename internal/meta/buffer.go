// Package meta implements the per-core metadata replay buffer: every
// metadata-class record (names, resolutions, task/queue registrations) is
// appended here as it is emitted, in addition to whatever backend is active,
// so that a streaming backend started after those registrations already
// happened can replay them to a newly attached consumer.
package meta

// Buffer is a bounded, append-only byte buffer owned by a single core. It
// never shrinks or removes entries: once full, further appends are rejected
// and the overflow flag is set until explicitly cleared.
//
// Simplified from the teacher's queue.BufferPool (a size-bucketed pool of
// reusable, GC-managed buffers serving many short-lived callers) to a single
// fixed-size append-only buffer owned for the process's lifetime by one core: there is
// nothing to pool because there is exactly one of these per core, ever.
type Buffer struct {
	data       []byte
	len        int
	overflowed bool
}

// NewBuffer allocates a metadata buffer of the given capacity in bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// Append adds a framed record to the buffer. It reports whether the record
// fit; if it did not, the buffer is left unchanged and Overflowed becomes
// true. The caller must hold the core's metadata lock (spec's lock
// ordering: enable_lock > backend_lock[i] > metadata_lock[i]).
func (b *Buffer) Append(record []byte) bool {
	if b.len+len(record) > len(b.data) {
		b.overflowed = true
		return false
	}
	copy(b.data[b.len:], record)
	b.len += len(record)
	return true
}

// Bytes returns the buffer's current contents without removing them: the
// metadata buffer is replayed, not drained, because a backend may be
// (re)started more than once over the session's lifetime.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.len]
}

// Overflowed reports whether any Append has ever failed to fit.
func (b *Buffer) Overflowed() bool {
	return b.overflowed
}

// ConsumeOverflow reports and clears the overflow flag. A backend calls this
// when it reads the buffer, so it knows to also emit a MetadataOverflowed
// record exactly once per observed overflow rather than on every restart.
func (b *Buffer) ConsumeOverflow() bool {
	v := b.overflowed
	b.overflowed = false
	return v
}

// Reset clears the buffer's contents and overflow flag. Used when a
// snapshot or stream backend is explicitly reset (spec's reset operation).
func (b *Buffer) Reset() {
	b.len = 0
	b.overflowed = false
}

// Store owns one Buffer per core.
type Store struct {
	cores []*Buffer
}

// NewStore allocates a Store with numCores buffers, each of the given
// per-core capacity.
func NewStore(numCores, capacity int) *Store {
	s := &Store{cores: make([]*Buffer, numCores)}
	for i := range s.cores {
		s.cores[i] = NewBuffer(capacity)
	}
	return s
}

// Core returns the metadata buffer owned by the given core id.
func (s *Store) Core(coreID int) *Buffer {
	return s.cores[coreID]
}

// NumCores returns how many per-core buffers this store owns.
func (s *Store) NumCores() int {
	return len(s.cores)
}
