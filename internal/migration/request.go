package migration

import "sync/atomic"

// asyncRequest is a Request backed by a background goroutine that
// reports completion through an atomic flag. Both LocalTransport and
// WSTransport use it: the actual channel or network work happens on the
// goroutine, and Test never blocks.
type asyncRequest struct {
	done atomic.Bool
	err  atomic.Value
}

func (r *asyncRequest) Test() (bool, error) {
	if !r.done.Load() {
		return false, nil
	}

	if e, ok := r.err.Load().(error); ok {
		return true, e
	}

	return true, nil
}

func (r *asyncRequest) complete(err error) {
	if err != nil {
		r.err.Store(err)
	}

	r.done.Store(true)
}
