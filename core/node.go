package core

import (
	"errors"
	"log/slog"
	"math/big"
	"sync"

	"rwachain/core/events"
	"rwachain/core/state"
	"rwachain/core/types"
	"rwachain/native/fraction"
	"rwachain/native/kyc"
	"rwachain/native/params"
	"rwachain/observability/metrics"
	"rwachain/storage"
)

var (
	ErrUnauthorized   = errors.New("core: admin authority required")
	ErrNotInitialized = errors.New("core: platform not initialized")
)

// Node is the program dispatcher. It owns the state manager and the native
// engines, routes each operation to the right component after validating
// caller authority, and executes every operation as one atomic transaction:
// writes are staged in the state overlay and either committed together or
// discarded together with any buffered events.
//
// Conflicting writes serialize behind the node mutex, which is the
// transaction-scheduler contract the engines rely on: the read-modify-write
// on a vault's sale counter always happens inside one committed overlay.
type Node struct {
	mu sync.Mutex

	db        storage.Database
	state     *state.Manager
	fraction  *fraction.Engine
	kyc       *kyc.Registry
	params    *params.Store
	collector *events.Collector
	emitter   events.Emitter
	logger    *slog.Logger
	metrics   *metrics.ProgramMetrics
}

// NewNode wires the engines against a state manager on the provided database.
func NewNode(db storage.Database, logger *slog.Logger) *Node {
	if logger == nil {
		logger = slog.Default()
	}
	manager := state.NewManager(db)
	collector := &events.Collector{}

	fractionEngine := fraction.NewEngine()
	fractionEngine.SetState(manager)
	fractionEngine.SetEmitter(collector)

	kycRegistry := kyc.NewRegistry()
	kycRegistry.SetState(manager)
	kycRegistry.SetEmitter(collector)

	return &Node{
		db:        db,
		state:     manager,
		fraction:  fractionEngine,
		kyc:       kycRegistry,
		params:    params.NewStore(manager),
		collector: collector,
		logger:    logger,
		metrics:   metrics.Program(),
	}
}

// SetEmitter registers a downstream subscriber receiving events from
// committed operations only.
func (n *Node) SetEmitter(emitter events.Emitter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emitter = emitter
}

// SetNowFunc overrides the time source of every component. Primarily intended
// for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fraction.SetNowFunc(now)
	n.kyc.SetNowFunc(now)
	n.params.SetNowFunc(now)
}

func (n *Node) execute(op string, fn func() error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.state.Begin(); err != nil {
		n.metrics.ObserveInstruction(op, err)
		return err
	}
	if err := fn(); err != nil {
		n.state.Abort()
		n.collector.Reset()
		n.metrics.ObserveInstruction(op, err)
		n.logger.Info("instruction rejected", "op", op, "err", err)
		return err
	}
	if err := n.state.Commit(); err != nil {
		n.collector.Reset()
		n.metrics.ObserveInstruction(op, err)
		n.logger.Error("instruction commit failed", "op", op, "err", err)
		return err
	}
	for _, evt := range n.collector.Drain() {
		if n.emitter != nil {
			n.emitter.Emit(evt)
		}
		n.logger.Info("event emitted", "op", op, "type", evt.EventType())
	}
	n.metrics.ObserveInstruction(op, nil)
	return nil
}

type platformEvent struct {
	evt *types.Event
}

func (e platformEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e platformEvent) Event() *types.Event { return e.evt }

func (n *Node) requireAdmin(caller [20]byte) error {
	admin, ok, err := n.state.PlatformAdmin()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotInitialized
	}
	if caller != admin {
		return ErrUnauthorized
	}
	return nil
}

// InitializePlatform creates the platform configuration singleton with the
// caller as admin and registers the payment line the share sales settle in.
func (n *Node) InitializePlatform(caller, treasury [20]byte) (*params.PlatformConfig, error) {
	var cfg *params.PlatformConfig
	err := n.execute("initialize", func() error {
		created, err := n.params.Initialize(caller, treasury)
		if err != nil {
			return err
		}
		if exists, err := n.state.TokenLineExists(fraction.PaymentLineID); err != nil {
			return err
		} else if !exists {
			if err := n.state.RegisterTokenLine(fraction.PaymentLineID, state.TokenKindPayment, 6); err != nil {
				return err
			}
		}
		n.collector.Emit(platformEvent{evt: params.NewInitializedEvent(created)})
		cfg = created
		return nil
	})
	return cfg, err
}

// UpdatePlatformConfig persists new fee and investment parameters. Admin only.
func (n *Node) UpdatePlatformConfig(caller [20]byte, feeNumerator, feeDenominator, minInvestment, maxInvestment uint64, active bool) (*params.PlatformConfig, error) {
	var cfg *params.PlatformConfig
	err := n.execute("update_config", func() error {
		updated, err := n.params.Update(caller, feeNumerator, feeDenominator, minInvestment, maxInvestment, active)
		if err != nil {
			return err
		}
		n.collector.Emit(platformEvent{evt: params.NewUpdatedEvent(updated)})
		cfg = updated
		return nil
	})
	return cfg, err
}

// RegisterKYC creates an unverified compliance record for the user.
func (n *Node) RegisterKYC(user [20]byte, email, country string) (*kyc.Record, error) {
	var record *kyc.Record
	err := n.execute("register_kyc", func() error {
		created, err := n.kyc.Register(user, email, country)
		if err != nil {
			return err
		}
		record = created
		return nil
	})
	return record, err
}

// VerifyKYC marks the user as verified. The registry enforces that the caller
// is the platform admin.
func (n *Node) VerifyKYC(caller, user [20]byte, method kyc.Method, level uint8) (*kyc.Record, error) {
	var record *kyc.Record
	err := n.execute("verify_kyc", func() error {
		verified, err := n.kyc.Verify(caller, user, method, level)
		if err != nil {
			return err
		}
		record = verified
		return nil
	})
	return record, err
}

// MintAsset registers a new single-unit asset line and credits it to the
// owner. Admin only; production assets originate outside the program, this is
// the issuance path for operators and tests.
func (n *Node) MintAsset(caller [20]byte, assetID string, owner [20]byte) error {
	return n.execute("mint_asset", func() error {
		if err := n.requireAdmin(caller); err != nil {
			return err
		}
		normalized, err := fraction.NormalizeAssetID(assetID)
		if err != nil {
			return err
		}
		if err := n.state.RegisterTokenLine(normalized, state.TokenKindAsset, 0); err != nil {
			return err
		}
		return n.state.Mint(normalized, owner, big.NewInt(1))
	})
}

// MintPayment credits payment-token units to the holder. Admin only.
func (n *Node) MintPayment(caller, to [20]byte, amount *big.Int) error {
	return n.execute("mint_payment", func() error {
		if err := n.requireAdmin(caller); err != nil {
			return err
		}
		return n.state.Mint(fraction.PaymentLineID, to, amount)
	})
}

// Fractionalize locks the asset and opens its share sale.
func (n *Node) Fractionalize(creator [20]byte, assetID string, totalFractions, pricePerFraction uint64, paymentDest [20]byte) (*fraction.Vault, error) {
	var vault *fraction.Vault
	err := n.execute("fractionalize", func() error {
		created, err := n.fraction.Fractionalize(creator, assetID, totalFractions, pricePerFraction, paymentDest)
		if err != nil {
			return err
		}
		vault = created
		return nil
	})
	n.observeVaults()
	return vault, err
}

// BuyFractions purchases shares from the vault's open sale.
func (n *Node) BuyFractions(buyer [20]byte, assetID string, numFractions uint64) (*fraction.Purchase, error) {
	var purchase *fraction.Purchase
	err := n.execute("buy", func() error {
		bought, err := n.fraction.Buy(buyer, assetID, numFractions)
		if err != nil {
			return err
		}
		purchase = bought
		return nil
	})
	return purchase, err
}

// Redeem burns the full share supply held by the redeemer and releases the
// locked asset.
func (n *Node) Redeem(redeemer [20]byte, assetID string) (*fraction.Vault, error) {
	var vault *fraction.Vault
	err := n.execute("redeem", func() error {
		closed, err := n.fraction.Redeem(redeemer, assetID)
		if err != nil {
			return err
		}
		vault = closed
		return nil
	})
	n.observeVaults()
	return vault, err
}

func (n *Node) observeVaults() {
	n.mu.Lock()
	defer n.mu.Unlock()
	list, err := n.state.VaultList()
	if err != nil {
		return
	}
	n.metrics.SetVaultsOpen(len(list))
}

// --- read queries ---

// Vault returns the vault record for the asset id.
func (n *Node) Vault(assetID string) (*fraction.Vault, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.VaultGet(assetID)
}

// Vaults returns every open vault record.
func (n *Node) Vaults() ([]*fraction.Vault, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Vaults()
}

// KYCRecord returns the compliance record for the user.
func (n *Node) KYCRecord(user [20]byte) (*kyc.Record, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.KYCGet(user)
}

// PlatformConfig returns the platform configuration singleton.
func (n *Node) PlatformConfig() (*params.PlatformConfig, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.PlatformConfig()
}

// Balance returns the holder's balance on a ledger line.
func (n *Node) Balance(line string, addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Balance(line, addr)
}

// StateManager exposes the underlying state manager for genesis seeding and
// tests.
func (n *Node) StateManager() *state.Manager {
	return n.state
}
