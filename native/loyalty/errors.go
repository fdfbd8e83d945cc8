package loyalty

import "errors"

var (
	ErrNilProgram      = errors.New("loyalty: nil program")
	ErrNilPass         = errors.New("loyalty: nil pass")
	ErrNoPointsTable   = errors.New("loyalty: program has no points-per-action table")
	ErrZeroPointsTable = errors.New("loyalty: points-per-action table has no positive entries")
)
