package game

import "errors"

var (
	ErrInvalidSize   = errors.New("invalid board size")
	ErrOutOfBounds   = errors.New("coordinate out of bounds")
	ErrInvalidMarker = errors.New("invalid marker")
	ErrCellOccupied  = errors.New("cell already occupied")
)
