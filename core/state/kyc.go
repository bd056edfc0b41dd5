package state

import (
	"rwachain/native/kyc"
	"rwachain/native/params"
)

// KYCGet loads the compliance record for the user. A missing record returns
// (nil, false, nil).
func (m *Manager) KYCGet(user [20]byte) (*kyc.Record, bool, error) {
	stored := new(kyc.Record)
	ok, err := m.KVGet(kycKey(user), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored, true, nil
}

// KYCPut validates and persists the compliance record.
func (m *Manager) KYCPut(record *kyc.Record) error {
	sanitized, err := kyc.SanitizeRecord(record)
	if err != nil {
		return err
	}
	return m.KVPut(kycKey(sanitized.User), sanitized)
}

// KYCVerified reports whether the user holds a verified compliance record.
func (m *Manager) KYCVerified(user [20]byte) (bool, error) {
	record, ok, err := m.KYCGet(user)
	if err != nil || !ok {
		return false, err
	}
	return record.Verified, nil
}

// PlatformConfig loads the platform configuration singleton through the
// parameter store.
func (m *Manager) PlatformConfig() (*params.PlatformConfig, bool, error) {
	return params.NewStore(m).Platform()
}

// PlatformAdmin returns the admin identity recorded at platform
// initialisation.
func (m *Manager) PlatformAdmin() ([20]byte, bool, error) {
	cfg, ok, err := m.PlatformConfig()
	if err != nil || !ok {
		return [20]byte{}, ok, err
	}
	return cfg.Admin, true, nil
}
