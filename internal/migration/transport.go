// Package migration implements the island migration protocol: the
// asynchronous, non-blocking emigration/immigration state machines that let
// a process emit a boat of emigrants and absorb immigrants without
// stalling its evolutionary pipeline.
package migration

// Transport is the non-blocking message-passing contract the migration
// engine is built on. Implementations must never block in PostSend,
// PostRecv, or a Request's Test: all three return immediately, and
// progress is made by the caller testing the returned Request on
// subsequent ticks.
type Transport interface {
	// Rank returns this process's rank among its peers.
	Rank() int
	// Size returns the total number of peers, including self.
	Size() int
	// PostSend posts a non-blocking send of buf to dest and returns
	// immediately with a Request tracking its completion. tag is
	// transport-defined and may be ignored by implementations that don't
	// need it.
	PostSend(buf []byte, dest, tag int) (Request, error)
	// PostRecv posts a non-blocking receive from any source, any tag, into
	// buf, and returns immediately with a Request tracking its completion.
	PostRecv(buf []byte) (Request, error)
}

// Request is an opaque handle to a posted non-blocking transport
// operation. It has three observable states from the caller's point of
// view: none (no request outstanding, i.e. no Request value held),
// pending (Test returns false, nil), and complete (Test returns true).
type Request interface {
	// Test reports whether the operation has completed. It never blocks.
	Test() (complete bool, err error)
}
