package risk

import "errors"

var (
	// ErrWouldExtend: the order would grow |position| while reduce-only.
	ErrWouldExtend = errors.New("order would extend position in dump state")
	// ErrWorstCase: position plus every resting same-side order could breach the dump level.
	ErrWorstCase = errors.New("worst-case position exceeds dump level")
	// ErrPositionLimit: the order alone could breach the exchange position limit.
	ErrPositionLimit = errors.New("position limit exceeded")
)
