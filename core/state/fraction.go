package state

import (
	"sort"

	"rwachain/native/fraction"
)

// VaultGet loads the vault record associated with the asset id. A missing
// record returns (nil, false, nil).
func (m *Manager) VaultGet(assetID string) (*fraction.Vault, bool, error) {
	normalized, err := fraction.NormalizeAssetID(assetID)
	if err != nil {
		return nil, false, err
	}
	stored := new(fraction.Vault)
	ok, err := m.KVGet(vaultKey(normalized), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored, true, nil
}

// VaultPut validates and persists the vault record, recording the asset id in
// the vault index.
func (m *Manager) VaultPut(vault *fraction.Vault) error {
	sanitized, err := fraction.SanitizeVault(vault)
	if err != nil {
		return err
	}
	if err := m.KVPut(vaultKey(sanitized.AssetID), sanitized); err != nil {
		return err
	}
	list, err := m.loadVaultList()
	if err != nil {
		return err
	}
	for _, id := range list {
		if id == sanitized.AssetID {
			return nil
		}
	}
	list = append(list, sanitized.AssetID)
	sort.Strings(list)
	return m.writeVaultList(list)
}

// VaultDelete removes the vault record and its index entry. Deleting an
// unknown vault is a no-op.
func (m *Manager) VaultDelete(assetID string) error {
	normalized, err := fraction.NormalizeAssetID(assetID)
	if err != nil {
		return err
	}
	if err := m.KVDelete(vaultKey(normalized)); err != nil {
		return err
	}
	list, err := m.loadVaultList()
	if err != nil {
		return err
	}
	filtered := list[:0]
	for _, id := range list {
		if id != normalized {
			filtered = append(filtered, id)
		}
	}
	return m.writeVaultList(filtered)
}

// VaultList returns the asset ids of all open vaults in sorted order.
func (m *Manager) VaultList() ([]string, error) {
	return m.loadVaultList()
}

// Vaults loads every open vault record.
func (m *Manager) Vaults() ([]*fraction.Vault, error) {
	list, err := m.loadVaultList()
	if err != nil {
		return nil, err
	}
	vaults := make([]*fraction.Vault, 0, len(list))
	for _, id := range list {
		vault, ok, err := m.VaultGet(id)
		if err != nil {
			return nil, err
		}
		if ok {
			vaults = append(vaults, vault)
		}
	}
	return vaults, nil
}

func (m *Manager) loadVaultList() ([]string, error) {
	var list []string
	ok, err := m.KVGet(vaultListKey, &list)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return list, nil
}

func (m *Manager) writeVaultList(list []string) error {
	return m.KVPut(vaultListKey, list)
}
