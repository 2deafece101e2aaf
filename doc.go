// Package tband implements the Tonbandgeraet embedded tracing core: an
// RTOS-facing recorder that turns scheduler, queue, ISR, and marker
// events into a compact framed byte stream (or a fixed-size in-memory
// snapshot), without ever suspending the caller.
//
// A Session aggregates a port.Port (the host environment's timestamp,
// core-id, and critical-section capabilities) with a single configured
// backend (streaming, snapshot, or an unimplemented stand-in for
// post-mortem/external) and drives every hook call through a lock-free
// hot path down to that backend.
package tband
