package state

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
)

// TokenKind distinguishes the three ledger line categories: single-unit asset
// lines, fungible share lines minted per vault, and the stable payment line.
type TokenKind uint8

const (
	TokenKindAsset TokenKind = iota
	TokenKindShare
	TokenKindPayment
)

// TokenLine describes a mint line tracked by the ledger.
type TokenLine struct {
	ID       string
	Kind     uint8
	Decimals uint8
}

var (
	ErrTokenLineExists   = errors.New("state: token line already registered")
	ErrTokenLineNotFound = errors.New("state: token line not registered")
	ErrInsufficientFunds = errors.New("state: insufficient balance")
	ErrInvalidAmount     = errors.New("state: amount must be positive")
)

// Valid reports whether the kind value is within the supported range.
func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindAsset, TokenKindShare, TokenKindPayment:
		return true
	default:
		return false
	}
}

func normalizeLineID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errors.New("state: token line id must not be empty")
	}
	return trimmed, nil
}

// RegisterTokenLine stores the metadata for a new mint line. Registering an
// existing line fails so share lines can never collide.
func (m *Manager) RegisterTokenLine(id string, kind TokenKind, decimals uint8) error {
	normalized, err := normalizeLineID(id)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return errors.New("state: invalid token kind")
	}
	if exists, err := m.TokenLineExists(normalized); err != nil {
		return err
	} else if exists {
		return ErrTokenLineExists
	}
	return m.KVPut(tokenLineKey(normalized), &TokenLine{ID: normalized, Kind: uint8(kind), Decimals: decimals})
}

// RegisterShareLine registers a fungible share line with zero decimals.
func (m *Manager) RegisterShareLine(id string) error {
	return m.RegisterTokenLine(id, TokenKindShare, 0)
}

// RemoveTokenLine deletes the metadata for a mint line, retiring its id for
// re-registration. Removing an unknown line is a no-op.
func (m *Manager) RemoveTokenLine(id string) error {
	normalized, err := normalizeLineID(id)
	if err != nil {
		return err
	}
	return m.KVDelete(tokenLineKey(normalized))
}

// TokenLineExists reports whether a mint line is registered.
func (m *Manager) TokenLineExists(id string) (bool, error) {
	normalized, err := normalizeLineID(id)
	if err != nil {
		return false, err
	}
	var line TokenLine
	return m.KVGet(tokenLineKey(normalized), &line)
}

// GetTokenLine loads the metadata for a mint line.
func (m *Manager) GetTokenLine(id string) (*TokenLine, bool, error) {
	normalized, err := normalizeLineID(id)
	if err != nil {
		return nil, false, err
	}
	line := new(TokenLine)
	ok, err := m.KVGet(tokenLineKey(normalized), line)
	if err != nil || !ok {
		return nil, ok, err
	}
	return line, true, nil
}

// Balance returns the holder's balance on the given line. Unknown lines and
// holders simply report zero.
func (m *Manager) Balance(line string, addr [20]byte) (*big.Int, error) {
	normalized, err := normalizeLineID(line)
	if err != nil {
		return nil, err
	}
	raw, ok, err := m.getRaw(balanceKey(normalized, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	amount := new(big.Int)
	if err := rlp.DecodeBytes(raw, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (m *Manager) writeBalance(line string, addr [20]byte, amount *big.Int) error {
	encoded, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return err
	}
	return m.putRaw(balanceKey(line, addr), encoded)
}

func (m *Manager) requireLine(id string) (string, error) {
	normalized, err := normalizeLineID(id)
	if err != nil {
		return "", err
	}
	exists, err := m.TokenLineExists(normalized)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrTokenLineNotFound
	}
	return normalized, nil
}

func requirePositive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Mint credits freshly created units of a registered line to the holder.
func (m *Manager) Mint(line string, to [20]byte, amount *big.Int) error {
	normalized, err := m.requireLine(line)
	if err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	balance, err := m.Balance(normalized, to)
	if err != nil {
		return err
	}
	return m.writeBalance(normalized, to, new(big.Int).Add(balance, amount))
}

// Transfer moves units between holders on the same line.
func (m *Manager) Transfer(line string, from, to [20]byte, amount *big.Int) error {
	normalized, err := m.requireLine(line)
	if err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	fromBalance, err := m.Balance(normalized, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	toBalance, err := m.Balance(normalized, to)
	if err != nil {
		return err
	}
	if err := m.writeBalance(normalized, from, new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return m.writeBalance(normalized, to, new(big.Int).Add(toBalance, amount))
}

// Burn destroys units held by the holder.
func (m *Manager) Burn(line string, from [20]byte, amount *big.Int) error {
	normalized, err := m.requireLine(line)
	if err != nil {
		return err
	}
	if err := requirePositive(amount); err != nil {
		return err
	}
	balance, err := m.Balance(normalized, from)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	return m.writeBalance(normalized, from, new(big.Int).Sub(balance, amount))
}
