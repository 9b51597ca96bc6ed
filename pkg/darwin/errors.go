package darwin

import "errors"

var (
	ErrEmptyPopulation = errors.New("population is empty")
	ErrUnscored        = errors.New("population is not scored")
	ErrInvalidParams   = errors.New("invalid evolution parameters")
)
