package sim

import "errors"

// ErrInvalidWorld is returned by World.Validate.
var ErrInvalidWorld = errors.New("invalid world")
