package fraction

import (
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Vault captures the record for one fractionalized asset: the locked asset,
// the share line minted for it, and the sale accounting. Creator, asset and
// share identifiers are immutable after creation.
type Vault struct {
	Creator          [20]byte
	AssetID          string
	ShareLineID      string
	TotalFractions   uint64
	PricePerFraction uint64
	FractionsSold    uint64
	SaleActive       bool
	CreatorPayment   [20]byte
	CreatedAt        uint64
	SaleEndedAt      uint64
}

// Clone returns a copy of the vault so callers can safely mutate the copy
// without affecting the stored instance.
func (v *Vault) Clone() *Vault {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// IsFullySold reports whether every fraction has been purchased.
func (v *Vault) IsFullySold() bool {
	return v != nil && v.FractionsSold >= v.TotalFractions
}

// RemainingFractions returns the number of fractions still available for sale.
func (v *Vault) RemainingFractions() uint64 {
	if v == nil || v.FractionsSold >= v.TotalFractions {
		return 0
	}
	return v.TotalFractions - v.FractionsSold
}

// TotalValue returns the payment value of the full share supply with checked
// arithmetic.
func (v *Vault) TotalValue() (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("fraction: nil vault")
	}
	return checkedMul(v.TotalFractions, v.PricePerFraction)
}

// SoldValue returns the payment value of the fractions sold so far with
// checked arithmetic.
func (v *Vault) SoldValue() (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("fraction: nil vault")
	}
	return checkedMul(v.FractionsSold, v.PricePerFraction)
}

// NormalizeAssetID canonicalises asset identifiers for storage lookups.
func NormalizeAssetID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("fraction: asset id must not be empty")
	}
	return trimmed, nil
}

// ShareLineID derives the fungible share line identifier for an asset. The
// derivation is a pure function of the asset id so any caller can compute it
// without an index.
func ShareLineID(assetID string) string {
	return "FRAC:" + strings.TrimSpace(assetID)
}

// CustodyAddress derives the vault custody address holding the locked asset
// and the unsold share supply. The address is the trailing twenty bytes of
// keccak256 over a fixed tag and the asset id, matching how other program
// accounts are addressed deterministically.
func CustodyAddress(assetID string) [20]byte {
	hash := ethcrypto.Keccak256([]byte("fraction/vault-custody:"), []byte(strings.TrimSpace(assetID)))
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}

// SanitizeVault validates the supplied vault definition and returns a clone
// safe for persistence. The sold counter must never exceed the total supply.
func SanitizeVault(v *Vault) (*Vault, error) {
	if v == nil {
		return nil, fmt.Errorf("fraction: nil vault")
	}
	clone := v.Clone()
	assetID, err := NormalizeAssetID(clone.AssetID)
	if err != nil {
		return nil, err
	}
	clone.AssetID = assetID
	if strings.TrimSpace(clone.ShareLineID) == "" {
		return nil, fmt.Errorf("fraction: share line id must not be empty")
	}
	if clone.TotalFractions == 0 {
		return nil, fmt.Errorf("fraction: total fractions must be positive")
	}
	if clone.PricePerFraction == 0 {
		return nil, fmt.Errorf("fraction: price per fraction must be positive")
	}
	if clone.FractionsSold > clone.TotalFractions {
		return nil, fmt.Errorf("fraction: fractions sold %d exceeds total %d", clone.FractionsSold, clone.TotalFractions)
	}
	return clone, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrMathOverflow
	}
	return product, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrMathOverflow
	}
	return sum, nil
}
