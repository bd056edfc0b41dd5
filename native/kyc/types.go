package kyc

import "fmt"

// Method identifies how a user's identity was verified. The method carries no
// behavioural difference today; it is stored for audit purposes.
type Method uint8

const (
	MethodAdminApproval Method = iota
	MethodEmailVerification
	MethodSocialVerification
	MethodDocumentUpload
	MethodPhoneVerification
)

// Verification levels accepted by the registry.
const (
	MinLevel uint8 = 1
	MaxLevel uint8 = 3
)

// Valid reports whether the method value is within the supported range.
func (m Method) Valid() bool {
	switch m {
	case MethodAdminApproval, MethodEmailVerification, MethodSocialVerification, MethodDocumentUpload, MethodPhoneVerification:
		return true
	default:
		return false
	}
}

// String returns the canonical label for the method.
func (m Method) String() string {
	switch m {
	case MethodAdminApproval:
		return "admin_approval"
	case MethodEmailVerification:
		return "email_verification"
	case MethodSocialVerification:
		return "social_verification"
	case MethodDocumentUpload:
		return "document_upload"
	case MethodPhoneVerification:
		return "phone_verification"
	default:
		return fmt.Sprintf("method(%d)", uint8(m))
	}
}

// ParseMethod resolves a method label back into its enum value.
func ParseMethod(label string) (Method, error) {
	switch label {
	case "admin_approval":
		return MethodAdminApproval, nil
	case "email_verification":
		return MethodEmailVerification, nil
	case "social_verification":
		return MethodSocialVerification, nil
	case "document_upload":
		return MethodDocumentUpload, nil
	case "phone_verification":
		return MethodPhoneVerification, nil
	default:
		return 0, fmt.Errorf("kyc: unknown verification method %q", label)
	}
}

// Record stores the compliance state for a single user identity. Email and
// country are informational only and never validated by the program.
type Record struct {
	User         [20]byte
	Verified     bool
	Method       Method
	Level        uint8
	RegisteredAt uint64
	VerifiedAt   uint64
	Email        string
	Country      string
}

// Clone returns a copy of the record so callers can safely mutate the copy
// without affecting the stored instance.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// SanitizeRecord validates the supplied record and returns a clone safe for
// persistence. A verified record must carry a verification timestamp and a
// level in the accepted range.
func SanitizeRecord(r *Record) (*Record, error) {
	if r == nil {
		return nil, fmt.Errorf("kyc: nil record")
	}
	clone := r.Clone()
	if !clone.Method.Valid() {
		return nil, fmt.Errorf("kyc: invalid verification method %d", clone.Method)
	}
	if clone.Verified {
		if clone.VerifiedAt == 0 {
			return nil, fmt.Errorf("kyc: verified record missing timestamp")
		}
		if clone.Level < MinLevel || clone.Level > MaxLevel {
			return nil, fmt.Errorf("kyc: verification level out of range: %d", clone.Level)
		}
	}
	return clone, nil
}
