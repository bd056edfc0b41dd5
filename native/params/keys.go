package params

// ParamsKeyPlatform is the canonical parameter-store key holding the platform
// configuration singleton.
const ParamsKeyPlatform = "platform/config"

// Default values applied when the platform is initialised. The fee defaults to
// 5% expressed as 500/10000 so governance can later tune it at basis-point
// granularity without changing the denominator.
const (
	DefaultFeeNumerator   uint64 = 500
	DefaultFeeDenominator uint64 = 10_000
	DefaultMinInvestment  uint64 = 1
	DefaultMaxInvestment  uint64 = 10_000_000
)
