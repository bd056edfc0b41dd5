package params

import "errors"

var (
	ErrAlreadyInitialized = errors.New("params: platform already initialized")
	ErrNotInitialized     = errors.New("params: platform not initialized")
	ErrUnauthorized       = errors.New("params: admin authority required")
	ErrInvalidFeeRatio    = errors.New("params: fee numerator must not exceed denominator and denominator must be positive")
	ErrInvalidBounds      = errors.New("params: minimum investment must not exceed maximum")
)
