package kyc

import "errors"

var (
	ErrAlreadyRegistered = errors.New("kyc: record already exists for user")
	ErrNotRegistered     = errors.New("kyc: no record exists for user")
	ErrUnauthorized      = errors.New("kyc: admin authority required")
	ErrInvalidLevel      = errors.New("kyc: verification level must be between 1 and 3")
	ErrInvalidMethod     = errors.New("kyc: unknown verification method")
)
