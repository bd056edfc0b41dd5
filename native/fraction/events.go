package fraction

import (
	"encoding/hex"
	"strconv"

	"rwachain/core/types"
)

const (
	EventTypeVaultCreated   = "fraction.vault.created"
	EventTypeVaultPurchased = "fraction.vault.purchased"
	EventTypeVaultSoldOut   = "fraction.vault.sold_out"
	EventTypeVaultRedeemed  = "fraction.vault.redeemed"
)

// NewCreatedEvent returns the canonical event payload for a newly
// fractionalized asset.
func NewCreatedEvent(v *Vault) *types.Event { return newVaultEvent(EventTypeVaultCreated, v) }

// NewSoldOutEvent returns the canonical event payload emitted when the final
// fraction is sold and the sale closes.
func NewSoldOutEvent(v *Vault) *types.Event { return newVaultEvent(EventTypeVaultSoldOut, v) }

// NewPurchasedEvent returns the canonical event payload for a share purchase,
// including the fee split applied to the payment.
func NewPurchasedEvent(v *Vault, p *Purchase) *types.Event {
	evt := newVaultEvent(EventTypeVaultPurchased, v)
	if p == nil {
		return evt
	}
	evt.Attributes["buyer"] = hex.EncodeToString(p.Buyer[:])
	evt.Attributes["numFractions"] = strconv.FormatUint(p.NumFractions, 10)
	evt.Attributes["gross"] = strconv.FormatUint(p.Gross, 10)
	evt.Attributes["fee"] = strconv.FormatUint(p.Fee, 10)
	evt.Attributes["netToCreator"] = strconv.FormatUint(p.NetToCreator, 10)
	return evt
}

// NewRedeemedEvent returns the canonical event payload emitted when the full
// share supply is burned and the locked asset released.
func NewRedeemedEvent(v *Vault, redeemer [20]byte) *types.Event {
	evt := newVaultEvent(EventTypeVaultRedeemed, v)
	evt.Attributes["redeemer"] = hex.EncodeToString(redeemer[:])
	return evt
}

func newVaultEvent(eventType string, v *Vault) *types.Event {
	attrs := make(map[string]string)
	if v == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	sanitized, err := SanitizeVault(v)
	if err != nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["assetId"] = sanitized.AssetID
	attrs["shareLineId"] = sanitized.ShareLineID
	attrs["creator"] = hex.EncodeToString(sanitized.Creator[:])
	attrs["totalFractions"] = strconv.FormatUint(sanitized.TotalFractions, 10)
	attrs["pricePerFraction"] = strconv.FormatUint(sanitized.PricePerFraction, 10)
	attrs["fractionsSold"] = strconv.FormatUint(sanitized.FractionsSold, 10)
	attrs["saleActive"] = strconv.FormatBool(sanitized.SaleActive)
	attrs["createdAt"] = strconv.FormatUint(sanitized.CreatedAt, 10)
	if sanitized.SaleEndedAt > 0 {
		attrs["saleEndedAt"] = strconv.FormatUint(sanitized.SaleEndedAt, 10)
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
