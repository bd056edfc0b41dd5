package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"rwachain/core"
	"rwachain/core/state"
	"rwachain/native/fraction"
	"rwachain/native/kyc"
	"rwachain/native/params"
)

// vaultJSON is the wire representation of a vault record.
type vaultJSON struct {
	AssetID          string `json:"assetId"`
	ShareLineID      string `json:"shareLineId"`
	Creator          string `json:"creator"`
	CreatorPayment   string `json:"creatorPayment"`
	CustodyAddress   string `json:"custodyAddress"`
	TotalFractions   uint64 `json:"totalFractions"`
	PricePerFraction uint64 `json:"pricePerFraction"`
	FractionsSold    uint64 `json:"fractionsSold"`
	Remaining        uint64 `json:"remainingFractions"`
	SaleActive       bool   `json:"saleActive"`
	CreatedAt        uint64 `json:"createdAt"`
	SaleEndedAt      uint64 `json:"saleEndedAt,omitempty"`
}

func newVaultJSON(v *fraction.Vault) vaultJSON {
	custody := fraction.CustodyAddress(v.AssetID)
	return vaultJSON{
		AssetID:          v.AssetID,
		ShareLineID:      v.ShareLineID,
		Creator:          formatAddress(v.Creator),
		CreatorPayment:   formatAddress(v.CreatorPayment),
		CustodyAddress:   formatAddress(custody),
		TotalFractions:   v.TotalFractions,
		PricePerFraction: v.PricePerFraction,
		FractionsSold:    v.FractionsSold,
		Remaining:        v.RemainingFractions(),
		SaleActive:       v.SaleActive,
		CreatedAt:        v.CreatedAt,
		SaleEndedAt:      v.SaleEndedAt,
	}
}

// kycJSON is the wire representation of a compliance record.
type kycJSON struct {
	User         string `json:"user"`
	Verified     bool   `json:"verified"`
	Method       string `json:"method"`
	Level        uint8  `json:"level,omitempty"`
	RegisteredAt uint64 `json:"registeredAt"`
	VerifiedAt   uint64 `json:"verifiedAt,omitempty"`
	Email        string `json:"email,omitempty"`
	Country      string `json:"country,omitempty"`
}

func newKycJSON(r *kyc.Record) kycJSON {
	return kycJSON{
		User:         formatAddress(r.User),
		Verified:     r.Verified,
		Method:       r.Method.String(),
		Level:        r.Level,
		RegisteredAt: r.RegisteredAt,
		VerifiedAt:   r.VerifiedAt,
		Email:        r.Email,
		Country:      r.Country,
	}
}

// configJSON is the wire representation of the platform configuration.
type configJSON struct {
	Admin          string `json:"admin"`
	Treasury       string `json:"treasury"`
	FeeNumerator   uint64 `json:"feeNumerator"`
	FeeDenominator uint64 `json:"feeDenominator"`
	MinInvestment  uint64 `json:"minInvestment"`
	MaxInvestment  uint64 `json:"maxInvestment"`
	Active         bool   `json:"active"`
	CreatedAt      uint64 `json:"createdAt"`
	UpdatedAt      uint64 `json:"updatedAt"`
}

func newConfigJSON(c *params.PlatformConfig) configJSON {
	return configJSON{
		Admin:          formatAddress(c.Admin),
		Treasury:       formatAddress(c.Treasury),
		FeeNumerator:   c.FeeNumerator,
		FeeDenominator: c.FeeDenominator,
		MinInvestment:  c.MinInvestment,
		MaxInvestment:  c.MaxInvestment,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// purchaseJSON is the wire representation of a completed buy.
type purchaseJSON struct {
	Buyer        string `json:"buyer"`
	AssetID      string `json:"assetId"`
	NumFractions uint64 `json:"numFractions"`
	Gross        uint64 `json:"gross"`
	Fee          uint64 `json:"fee"`
	NetToCreator uint64 `json:"netToCreator"`
}

func newPurchaseJSON(p *fraction.Purchase) purchaseJSON {
	return purchaseJSON{
		Buyer:        formatAddress(p.Buyer),
		AssetID:      p.AssetID,
		NumFractions: p.NumFractions,
		Gross:        p.Gross,
		Fee:          p.Fee,
		NetToCreator: p.NetToCreator,
	}
}

func formatAddress(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func parseAddress(value string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "0x"))
	if len(trimmed) != 40 {
		return addr, fmt.Errorf("address must be 20 hex-encoded bytes")
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("invalid address encoding")
	}
	copy(addr[:], decoded)
	return addr, nil
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be a positive decimal integer")
	}
	return amount, nil
}

// mapError translates engine sentinel errors into JSON-RPC status, code and
// message. Unknown errors surface as internal server errors without leaking
// internals.
func mapError(err error) (int, int, string) {
	switch {
	case errors.Is(err, fraction.ErrInvalidTotalFractions),
		errors.Is(err, fraction.ErrInvalidPrice),
		errors.Is(err, fraction.ErrInvalidAmount),
		errors.Is(err, fraction.ErrInvestmentOutOfBounds),
		errors.Is(err, fraction.ErrMathOverflow),
		errors.Is(err, kyc.ErrInvalidLevel),
		errors.Is(err, kyc.ErrInvalidMethod),
		errors.Is(err, params.ErrInvalidFeeRatio),
		errors.Is(err, params.ErrInvalidBounds),
		errors.Is(err, state.ErrInvalidAmount):
		return http.StatusBadRequest, codeRwaValidation, err.Error()
	case errors.Is(err, fraction.ErrKycNotVerified),
		errors.Is(err, kyc.ErrUnauthorized),
		errors.Is(err, params.ErrUnauthorized),
		errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden, codeRwaForbidden, err.Error()
	case errors.Is(err, fraction.ErrVaultNotFound),
		errors.Is(err, kyc.ErrNotRegistered),
		errors.Is(err, params.ErrNotInitialized),
		errors.Is(err, core.ErrNotInitialized),
		errors.Is(err, state.ErrTokenLineNotFound):
		return http.StatusNotFound, codeRwaNotFound, err.Error()
	case errors.Is(err, fraction.ErrVaultExists),
		errors.Is(err, fraction.ErrShareLineExists),
		errors.Is(err, fraction.ErrSaleNotActive),
		errors.Is(err, fraction.ErrInsufficientFractions),
		errors.Is(err, fraction.ErrInsufficientTokens),
		errors.Is(err, fraction.ErrPlatformInactive),
		errors.Is(err, fraction.ErrPlatformNotReady),
		errors.Is(err, fraction.ErrNotAnNFT),
		errors.Is(err, fraction.ErrOwnerMismatch),
		errors.Is(err, kyc.ErrAlreadyRegistered),
		errors.Is(err, params.ErrAlreadyInitialized),
		errors.Is(err, state.ErrTokenLineExists),
		errors.Is(err, state.ErrInsufficientFunds):
		return http.StatusConflict, codeRwaConflict, err.Error()
	default:
		return http.StatusInternalServerError, codeServerError, "internal error"
	}
}
