package state

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"rwachain/native/fraction"
	"rwachain/native/kyc"
	"rwachain/storage"
)

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func newTestVault(assetID string) *fraction.Vault {
	return &fraction.Vault{
		Creator:          newTestAddress(0x10),
		AssetID:          assetID,
		ShareLineID:      fraction.ShareLineID(assetID),
		TotalFractions:   1000,
		PricePerFraction: 50,
		SaleActive:       true,
		CreatorPayment:   newTestAddress(0x10),
		CreatedAt:        1_700_000_000,
	}
}

func TestTokenLineRegistration(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	if err := manager.RegisterTokenLine("NFT-001", TokenKindAsset, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := manager.RegisterTokenLine("NFT-001", TokenKindAsset, 0); !errors.Is(err, ErrTokenLineExists) {
		t.Fatalf("expected ErrTokenLineExists, got %v", err)
	}

	exists, err := manager.TokenLineExists("NFT-001")
	if err != nil || !exists {
		t.Fatalf("line should exist: %v, %v", exists, err)
	}
	exists, err = manager.TokenLineExists("NFT-002")
	if err != nil || exists {
		t.Fatalf("unknown line must not exist: %v, %v", exists, err)
	}

	line, ok, err := manager.GetTokenLine("NFT-001")
	if err != nil || !ok {
		t.Fatalf("get line: %v, %v", ok, err)
	}
	if line.ID != "NFT-001" || TokenKind(line.Kind) != TokenKindAsset {
		t.Fatalf("unexpected line metadata: %+v", line)
	}

	// Removing retires the id so it can be registered again.
	if err := manager.RemoveTokenLine("NFT-001"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	exists, err = manager.TokenLineExists("NFT-001")
	if err != nil || exists {
		t.Fatalf("removed line must not exist: %v, %v", exists, err)
	}
	if err := manager.RemoveTokenLine("NFT-001"); err != nil {
		t.Fatalf("removing an unknown line must be a no-op: %v", err)
	}
	if err := manager.RegisterTokenLine("NFT-001", TokenKindShare, 0); err != nil {
		t.Fatalf("re-register after removal: %v", err)
	}
}

func TestLedgerMintTransferBurn(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	alice := newTestAddress(0xA1)
	bob := newTestAddress(0xB2)

	if err := manager.Mint("PAY", alice, big.NewInt(100)); !errors.Is(err, ErrTokenLineNotFound) {
		t.Fatalf("mint on unregistered line: got %v", err)
	}

	if err := manager.RegisterTokenLine("PAY", TokenKindPayment, 6); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := manager.Mint("PAY", alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := manager.Mint("PAY", alice, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero mint: got %v", err)
	}

	if err := manager.Transfer("PAY", alice, bob, big.NewInt(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := manager.Transfer("PAY", alice, bob, big.NewInt(61)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v", err)
	}

	if err := manager.Burn("PAY", bob, big.NewInt(15)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if err := manager.Burn("PAY", bob, big.NewInt(100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("over-burn: got %v", err)
	}

	aliceBal, err := manager.Balance("PAY", alice)
	if err != nil || aliceBal.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("alice balance = %s, %v", aliceBal, err)
	}
	bobBal, err := manager.Balance("PAY", bob)
	if err != nil || bobBal.Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("bob balance = %s, %v", bobBal, err)
	}

	unknown, err := manager.Balance("OTHER", alice)
	if err != nil || unknown.Sign() != 0 {
		t.Fatalf("unknown line balance = %s, %v", unknown, err)
	}
}

func TestOverlayCommitAndAbort(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	alice := newTestAddress(0xA1)

	if err := manager.RegisterTokenLine("PAY", TokenKindPayment, 6); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := manager.Mint("PAY", alice, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Aborted overlay leaves no trace.
	if err := manager.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := manager.Mint("PAY", alice, big.NewInt(50)); err != nil {
		t.Fatalf("staged mint: %v", err)
	}
	staged, err := manager.Balance("PAY", alice)
	if err != nil || staged.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("staged balance = %s, %v", staged, err)
	}
	manager.Abort()
	balance, err := manager.Balance("PAY", alice)
	if err != nil || balance.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("balance after abort = %s, %v", balance, err)
	}

	// Committed overlay persists, including deletes.
	if err := manager.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := manager.VaultPut(newTestVault("NFT-001")); err != nil {
		t.Fatalf("vault put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if manager.InTransaction() {
		t.Fatalf("commit must close the overlay")
	}
	if _, ok, err := manager.VaultGet("NFT-001"); err != nil || !ok {
		t.Fatalf("vault should persist after commit: %v, %v", ok, err)
	}

	// A reopened manager over the same backend sees the committed state.
	reopened := NewManager(db)
	if _, ok, err := reopened.VaultGet("NFT-001"); err != nil || !ok {
		t.Fatalf("vault should be visible from a fresh manager: %v, %v", ok, err)
	}

	if err := manager.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := manager.Begin(); err == nil {
		t.Fatalf("nested begin must fail")
	}
	manager.Abort()
}

func TestOverlayStagesDeletes(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	if err := manager.VaultPut(newTestVault("NFT-001")); err != nil {
		t.Fatalf("vault put: %v", err)
	}

	if err := manager.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := manager.VaultDelete("NFT-001"); err != nil {
		t.Fatalf("staged delete: %v", err)
	}
	if _, ok, err := manager.VaultGet("NFT-001"); err != nil || ok {
		t.Fatalf("staged delete should hide the record: %v, %v", ok, err)
	}
	manager.Abort()
	if _, ok, err := manager.VaultGet("NFT-001"); err != nil || !ok {
		t.Fatalf("aborted delete should restore visibility: %v, %v", ok, err)
	}

	if err := manager.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := manager.VaultDelete("NFT-001"); err != nil {
		t.Fatalf("staged delete: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok, err := manager.VaultGet("NFT-001"); err != nil || ok {
		t.Fatalf("committed delete should remove the record: %v, %v", ok, err)
	}
}

func TestVaultIndex(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	for _, id := range []string{"NFT-002", "NFT-001", "NFT-003"} {
		if err := manager.VaultPut(newTestVault(id)); err != nil {
			t.Fatalf("vault put %s: %v", id, err)
		}
	}
	// Re-putting must not duplicate the index entry.
	if err := manager.VaultPut(newTestVault("NFT-002")); err != nil {
		t.Fatalf("vault re-put: %v", err)
	}

	list, err := manager.VaultList()
	if err != nil {
		t.Fatalf("vault list: %v", err)
	}
	want := []string{"NFT-001", "NFT-002", "NFT-003"}
	if len(list) != len(want) {
		t.Fatalf("vault list = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Fatalf("vault list = %v, want %v", list, want)
		}
	}

	vaults, err := manager.Vaults()
	if err != nil || len(vaults) != 3 {
		t.Fatalf("vaults = %d records, %v", len(vaults), err)
	}

	if err := manager.VaultDelete("NFT-002"); err != nil {
		t.Fatalf("vault delete: %v", err)
	}
	list, err = manager.VaultList()
	if err != nil || len(list) != 2 {
		t.Fatalf("vault list after delete = %v, %v", list, err)
	}
	for _, id := range list {
		if id == "NFT-002" {
			t.Fatalf("deleted vault still indexed: %v", list)
		}
	}
}

func TestVaultPutRejectsInvalidRecords(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	vault := newTestVault("NFT-001")
	vault.FractionsSold = vault.TotalFractions + 1
	if err := manager.VaultPut(vault); err == nil {
		t.Fatalf("oversold vault must be rejected")
	}
}

func TestParamStoreRoundTrip(t *testing.T) {
	manager := NewManager(storage.NewMemDB())

	if _, ok, err := manager.ParamStoreGet("platform/config"); err != nil || ok {
		t.Fatalf("empty store should report missing: %v, %v", ok, err)
	}
	payload := []byte(`{"active":true}`)
	if err := manager.ParamStoreSet("platform/config", payload); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, ok, err := manager.ParamStoreGet("platform/config")
	if err != nil || !ok {
		t.Fatalf("get: %v, %v", ok, err)
	}
	if !bytes.Equal(raw, payload) {
		t.Fatalf("payload mismatch: %s", raw)
	}
}

func TestKYCRecords(t *testing.T) {
	manager := NewManager(storage.NewMemDB())
	user := newTestAddress(0x10)

	verified, err := manager.KYCVerified(user)
	if err != nil || verified {
		t.Fatalf("unknown user must not be verified: %v, %v", verified, err)
	}

	record := &kyc.Record{
		User:         user,
		Verified:     true,
		Method:       kyc.MethodDocumentUpload,
		Level:        2,
		RegisteredAt: 1_700_000_000,
		VerifiedAt:   1_700_000_100,
		Email:        "user@example.com",
		Country:      "DE",
	}
	if err := manager.KYCPut(record); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, ok, err := manager.KYCGet(user)
	if err != nil || !ok {
		t.Fatalf("get: %v, %v", ok, err)
	}
	if *loaded != *record {
		t.Fatalf("record mismatch: %+v vs %+v", loaded, record)
	}
	verified, err = manager.KYCVerified(user)
	if err != nil || !verified {
		t.Fatalf("user should be verified: %v, %v", verified, err)
	}

	invalid := record.Clone()
	invalid.Level = 9
	if err := manager.KYCPut(invalid); err == nil {
		t.Fatalf("out-of-range level must be rejected")
	}
}
