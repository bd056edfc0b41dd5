package fraction

import "errors"

var (
	// Validation errors: the caller must correct the input and retry.
	ErrInvalidTotalFractions = errors.New("fraction: total fractions must be greater than zero")
	ErrInvalidPrice          = errors.New("fraction: price per fraction must be greater than zero")
	ErrInvalidAmount         = errors.New("fraction: amount must be greater than zero")
	ErrInvestmentOutOfBounds = errors.New("fraction: payment amount outside configured investment bounds")

	// Authorization errors: the caller must obtain the credential first.
	ErrKycNotVerified = errors.New("fraction: kyc verification required")

	// State errors.
	ErrVaultExists           = errors.New("fraction: vault already exists for asset")
	ErrVaultNotFound         = errors.New("fraction: vault not found")
	ErrShareLineExists       = errors.New("fraction: share line already exists")
	ErrSaleNotActive         = errors.New("fraction: sale is not active")
	ErrInsufficientFractions = errors.New("fraction: insufficient fractions available")
	ErrInsufficientTokens    = errors.New("fraction: redeemer must hold the full share supply")
	ErrMathOverflow          = errors.New("fraction: arithmetic overflow")
	ErrPlatformInactive      = errors.New("fraction: platform is not active")
	ErrPlatformNotReady      = errors.New("fraction: platform not initialized")

	// Consistency errors: the request references accounts that do not line up.
	ErrNotAnNFT      = errors.New("fraction: asset is not a single-unit token")
	ErrOwnerMismatch = errors.New("fraction: caller does not hold the asset")
)
