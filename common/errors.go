package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// fewer than two usable samples in the regression window
	ErrorInsufficientData = errors.New("insufficient data")
	// non-positive lookback or horizon
	ErrorInvalidInterval = errors.New("invalid interval")
	// flat line, no crossing can be solved for. never returned to callers of the solver
	ErrorDegenerateModel = errors.New("degenerate model")
)
