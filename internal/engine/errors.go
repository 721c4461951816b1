package engine

import "errors"

// ErrNoObjective is returned by Run when no objective function has been
// registered via SetObjective.
var ErrNoObjective = errors.New("engine: no objective function registered")
