package backend

import "errors"

// ErrNotImplemented is returned by every Unimplemented operation. The root
// package maps it to ErrCodeNotImplemented.
var ErrNotImplemented = errors.New("tband: backend not implemented")

// Unimplemented stands in for the post-mortem and external backend kinds
// (spec §9 Open Question: left undecided rather than guessed at --
// neither has an obvious POSIX-hosted analogue the way streaming and
// snapshot do). Selecting either config.Backend value wires this in, so
// a session configured for them fails every operation instead of
// silently behaving like one of the other two.
type Unimplemented struct{}

func (Unimplemented) Forward(int, []byte) ForwardResult { return ForwardDropped }
func (Unimplemented) Start() error                      { return ErrNotImplemented }
func (Unimplemented) Stop() error                       { return ErrNotImplemented }
func (Unimplemented) Reset() error                      { return ErrNotImplemented }
func (Unimplemented) Finished(int) bool                 { return true }

var _ Backend = Unimplemented{}
