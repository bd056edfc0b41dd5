package kyc

import (
	"encoding/hex"
	"strconv"

	"rwachain/core/types"
)

const (
	EventTypeRegistered = "kyc.registered"
	EventTypeVerified   = "kyc.verified"
)

// NewRegisteredEvent returns the canonical event payload for a newly created
// KYC record.
func NewRegisteredEvent(r *Record) *types.Event { return newKycEvent(EventTypeRegistered, r) }

// NewVerifiedEvent returns the canonical event payload emitted when an admin
// verifies a user.
func NewVerifiedEvent(r *Record) *types.Event { return newKycEvent(EventTypeVerified, r) }

func newKycEvent(eventType string, r *Record) *types.Event {
	attrs := make(map[string]string)
	if r == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	sanitized, err := SanitizeRecord(r)
	if err != nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["user"] = hex.EncodeToString(sanitized.User[:])
	attrs["verified"] = strconv.FormatBool(sanitized.Verified)
	attrs["method"] = sanitized.Method.String()
	attrs["registeredAt"] = strconv.FormatUint(sanitized.RegisteredAt, 10)
	if sanitized.Verified {
		attrs["level"] = strconv.FormatUint(uint64(sanitized.Level), 10)
		attrs["verifiedAt"] = strconv.FormatUint(sanitized.VerifiedAt, 10)
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
