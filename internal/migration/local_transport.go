package migration

import "fmt"

// LocalHub wires a fixed number of LocalTransport endpoints together
// in-process, for running multiple islands inside one test binary or one
// demo process without any real networking.
type LocalHub struct {
	inboxes []chan []byte
}

// NewLocalHub allocates a hub for size islands, ranked 0..size-1.
func NewLocalHub(size int) *LocalHub {
	h := &LocalHub{inboxes: make([]chan []byte, size)}

	for i := range h.inboxes {
		h.inboxes[i] = make(chan []byte, 4)
	}

	return h
}

// Transport returns the Transport endpoint for the given rank.
func (h *LocalHub) Transport(rank int) *LocalTransport {
	return &LocalTransport{rank: rank, hub: h}
}

// LocalTransport is a Transport over Go channels. Each send copies its
// payload and hands it to the destination's inbox on a background
// goroutine, so PostSend/PostRecv never block their caller.
type LocalTransport struct {
	rank int
	hub  *LocalHub
}

func (t *LocalTransport) Rank() int { return t.rank }
func (t *LocalTransport) Size() int { return len(t.hub.inboxes) }

func (t *LocalTransport) PostSend(buf []byte, dest, tag int) (Request, error) {
	if dest < 0 || dest >= len(t.hub.inboxes) {
		return nil, fmt.Errorf("migration: local transport: rank %d out of range", dest)
	}

	cp := append([]byte(nil), buf...)
	req := &asyncRequest{}

	go func() {
		t.hub.inboxes[dest] <- cp
		req.complete(nil)
	}()

	return req, nil
}

func (t *LocalTransport) PostRecv(buf []byte) (Request, error) {
	req := &asyncRequest{}

	go func() {
		msg := <-t.hub.inboxes[t.rank]
		copy(buf, msg)
		req.complete(nil)
	}()

	return req, nil
}
