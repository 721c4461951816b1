package migration

import "math/rand/v2"

const boatTag = 1

type slotState int

const (
	slotNone slotState = iota
	slotPending
)

// OnDeparture fills an outbound boat from the local population, ahead of
// a send.
type OnDeparture func(buf Buffer)

// OnArrival integrates a just-received boat into the local population.
type OnArrival func(buf Buffer)

// Engine runs the single-slot, non-blocking emigration and immigration
// state machines for one island. One Engine serves one process: it holds
// exactly one outstanding send and one outstanding receive at a time,
// dropping a would-be second send if the slot is still busy.
type Engine struct {
	transport Transport

	onDeparture OnDeparture
	onArrival   OnArrival

	outBuf   Buffer
	outRaw   []byte
	outReq   Request
	outState slotState

	inBuf   Buffer
	inRaw   []byte
	inReq   Request
	inState slotState

	// Sent and Received count completed emigrations/immigrations, for
	// diagnostics and tests.
	Sent     int
	Received int
}

// NewEngine builds a migration engine exchanging boats of k genomes of
// genomeLen genes each over transport.
func NewEngine(transport Transport, k, genomeLen int, onDeparture OnDeparture, onArrival OnArrival) *Engine {
	size := k * genomeLen

	return &Engine{
		transport:   transport,
		onDeparture: onDeparture,
		onArrival:   onArrival,
		outBuf:      NewBuffer(k, genomeLen),
		outRaw:      make([]byte, size*4),
		inBuf:       NewBuffer(k, genomeLen),
		inRaw:       make([]byte, size*4),
	}
}

// EmigrationTick advances the emigration state machine by one step. If a
// previous boat is still in flight, it tests for completion and returns
// without posting a new send (the single-slot "drop if busy" policy).
// Once the slot is free, it picks a random peer, fills the boat via
// onDeparture, and posts a new send.
func (e *Engine) EmigrationTick() error {
	if e.outState == slotPending {
		done, err := e.outReq.Test()
		if err != nil {
			return err
		}

		if !done {
			return nil
		}

		e.outReq = nil
		e.outState = slotNone
		e.Sent++
	}

	dest := e.randomPeer()
	if dest < 0 {
		return nil // no peers to emigrate to
	}

	e.onDeparture(e.outBuf)
	e.outBuf.EncodeInto(e.outRaw)

	req, err := e.transport.PostSend(e.outRaw, dest, boatTag)
	if err != nil {
		return err
	}

	e.outReq = req
	e.outState = slotPending

	return nil
}

// ImmigrationTick advances the immigration state machine by one step.
// With no receive outstanding, it zeroes the receive buffer and posts a
// new one. With a receive outstanding, it tests for completion; once
// complete, it decodes the boat and integrates it via onArrival exactly
// once, then returns to the none state so the next tick posts a fresh
// receive.
func (e *Engine) ImmigrationTick() error {
	switch e.inState {
	case slotNone:
		e.inBuf.Zero()
		clear(e.inRaw)

		req, err := e.transport.PostRecv(e.inRaw)
		if err != nil {
			return err
		}

		e.inReq = req
		e.inState = slotPending

	case slotPending:
		done, err := e.inReq.Test()
		if err != nil {
			return err
		}

		if !done {
			return nil
		}

		e.inBuf.Decode(e.inRaw)
		e.onArrival(e.inBuf)

		e.inReq = nil
		e.inState = slotNone
		e.Received++
	}

	return nil
}

// randomPeer picks a rank other than our own, uniformly at random, or -1
// if there are no peers (a single-process run).
func (e *Engine) randomPeer() int {
	size := e.transport.Size()
	if size <= 1 {
		return -1
	}

	self := e.transport.Rank()

	idx := rand.IntN(size - 1)
	if idx >= self {
		idx++
	}

	return idx
}
