package params

// PlatformConfig is the global configuration singleton. It is created once by
// the initialize instruction and mutated only through admin-authorised
// updates. Admin and Treasury are immutable after initialisation.
type PlatformConfig struct {
	Admin          [20]byte `json:"admin"`
	Treasury       [20]byte `json:"treasury"`
	FeeNumerator   uint64   `json:"feeNumerator"`
	FeeDenominator uint64   `json:"feeDenominator"`
	MinInvestment  uint64   `json:"minInvestment"`
	MaxInvestment  uint64   `json:"maxInvestment"`
	Active         bool     `json:"active"`
	CreatedAt      uint64   `json:"createdAt"`
	UpdatedAt      uint64   `json:"updatedAt"`
}

// Clone returns a copy of the configuration so callers can mutate the copy
// without affecting the stored instance.
func (c *PlatformConfig) Clone() *PlatformConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ValidateFeeRatio reports whether the supplied fee fraction is well formed.
func ValidateFeeRatio(numerator, denominator uint64) bool {
	return denominator > 0 && numerator <= denominator
}
