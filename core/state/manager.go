package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"rwachain/storage"
)

// Manager provides typed access to program state stored in the key-value
// backend. Records are RLP-encoded under keccak-hashed prefixed keys so any
// caller can compute an account's address without an index.
//
// Writes can be staged in an overlay: between Begin and Commit all mutations
// land in memory only, and Abort discards them. The dispatcher wraps every
// instruction in an overlay so a failed instruction leaves no partial state.
//
// Manager is not safe for concurrent use; the dispatcher serializes access.
type Manager struct {
	db      storage.Database
	inTx    bool
	pending map[string]pendingWrite
}

type pendingWrite struct {
	value   []byte
	deleted bool
}

var errTxInProgress = errors.New("state: transaction already in progress")

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Begin starts staging writes in the overlay.
func (m *Manager) Begin() error {
	if m.inTx {
		return errTxInProgress
	}
	m.inTx = true
	m.pending = make(map[string]pendingWrite)
	return nil
}

// Commit flushes staged writes to the backing database and closes the
// overlay.
func (m *Manager) Commit() error {
	if !m.inTx {
		return errors.New("state: no transaction to commit")
	}
	for key, write := range m.pending {
		if write.deleted {
			if err := m.db.Delete([]byte(key)); err != nil {
				return fmt.Errorf("state: commit delete: %w", err)
			}
			continue
		}
		if err := m.db.Put([]byte(key), write.value); err != nil {
			return fmt.Errorf("state: commit put: %w", err)
		}
	}
	m.inTx = false
	m.pending = nil
	return nil
}

// Abort discards staged writes and closes the overlay.
func (m *Manager) Abort() {
	m.inTx = false
	m.pending = nil
}

// InTransaction reports whether an overlay is currently open.
func (m *Manager) InTransaction() bool { return m.inTx }

func (m *Manager) getRaw(key []byte) ([]byte, bool, error) {
	if m.inTx {
		if write, ok := m.pending[string(key)]; ok {
			if write.deleted {
				return nil, false, nil
			}
			return write.value, true, nil
		}
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (m *Manager) putRaw(key, value []byte) error {
	if m.inTx {
		m.pending[string(key)] = pendingWrite{value: append([]byte(nil), value...)}
		return nil
	}
	return m.db.Put(key, value)
}

func (m *Manager) deleteRaw(key []byte) error {
	if m.inTx {
		m.pending[string(key)] = pendingWrite{deleted: true}
		return nil
	}
	return m.db.Delete(key)
}

// KVGet decodes the RLP record stored under key into out. The boolean reports
// whether a record existed.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	raw, ok, err := m.getRaw(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := rlp.DecodeBytes(raw, out); err != nil {
		return false, fmt.Errorf("state: decode record: %w", err)
	}
	return true, nil
}

// KVPut RLP-encodes the value and stores it under key.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode record: %w", err)
	}
	return m.putRaw(key, encoded)
}

// KVDelete removes the record stored under key.
func (m *Manager) KVDelete(key []byte) error {
	return m.deleteRaw(key)
}

// ParamStoreSet persists a raw parameter payload under its canonical name.
func (m *Manager) ParamStoreSet(name string, value []byte) error {
	return m.putRaw(paramKey(name), value)
}

// ParamStoreGet loads a raw parameter payload by name.
func (m *Manager) ParamStoreGet(name string) ([]byte, bool, error) {
	return m.getRaw(paramKey(name))
}
