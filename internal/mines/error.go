package mines

import "errors"

var (
	ErrOutOfBounds       = errors.New("cell position out of bounds")
	ErrInvalidMineCount  = errors.New("invalid mine count")
	ErrInvalidDimensions = errors.New("invalid board dimensions")
)
