package params

import (
	"encoding/hex"
	"strconv"

	"rwachain/core/types"
)

const (
	EventTypePlatformInitialized = "platform.initialized"
	EventTypePlatformUpdated     = "platform.updated"
)

// NewInitializedEvent returns the canonical event payload for platform
// creation.
func NewInitializedEvent(cfg *PlatformConfig) *types.Event {
	return newPlatformEvent(EventTypePlatformInitialized, cfg)
}

// NewUpdatedEvent returns the canonical event payload for an admin
// configuration update.
func NewUpdatedEvent(cfg *PlatformConfig) *types.Event {
	return newPlatformEvent(EventTypePlatformUpdated, cfg)
}

func newPlatformEvent(eventType string, cfg *PlatformConfig) *types.Event {
	attrs := make(map[string]string)
	if cfg == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["admin"] = hex.EncodeToString(cfg.Admin[:])
	attrs["treasury"] = hex.EncodeToString(cfg.Treasury[:])
	attrs["feeNumerator"] = strconv.FormatUint(cfg.FeeNumerator, 10)
	attrs["feeDenominator"] = strconv.FormatUint(cfg.FeeDenominator, 10)
	attrs["minInvestment"] = strconv.FormatUint(cfg.MinInvestment, 10)
	attrs["maxInvestment"] = strconv.FormatUint(cfg.MaxInvestment, 10)
	attrs["active"] = strconv.FormatBool(cfg.Active)
	attrs["updatedAt"] = strconv.FormatUint(cfg.UpdatedAt, 10)
	return &types.Event{Type: eventType, Attributes: attrs}
}
