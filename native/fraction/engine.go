package fraction

import (
	"errors"
	"math/big"
	"time"

	"rwachain/core/events"
	"rwachain/core/types"
	"rwachain/native/params"
)

// PaymentLineID is the ledger line holding stable payment-token balances.
const PaymentLineID = "PAY"

var errNilState = errors.New("fraction engine: state not configured")

type engineState interface {
	VaultPut(*Vault) error
	VaultGet(assetID string) (*Vault, bool, error)
	VaultDelete(assetID string) error
	TokenLineExists(id string) (bool, error)
	RegisterShareLine(id string) error
	RemoveTokenLine(id string) error
	Mint(line string, to [20]byte, amount *big.Int) error
	Transfer(line string, from, to [20]byte, amount *big.Int) error
	Burn(line string, from [20]byte, amount *big.Int) error
	Balance(line string, addr [20]byte) (*big.Int, error)
	KYCVerified(user [20]byte) (bool, error)
	PlatformConfig() (*params.PlatformConfig, bool, error)
}

type vaultEvent struct {
	evt *types.Event
}

func (e vaultEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e vaultEvent) Event() *types.Event { return e.evt }

// Purchase summarises the accounting of a single buy: the gross payment and
// how it was split between the creator and the platform treasury.
type Purchase struct {
	Buyer        [20]byte
	AssetID      string
	NumFractions uint64
	Gross        uint64
	Fee          uint64
	NetToCreator uint64
}

// Engine owns the fractionalization lifecycle: locking an asset into vault
// custody, selling the minted shares, and redeeming the asset once a single
// holder has accumulated the full supply. Every operation validates all
// preconditions before touching state; the dispatcher additionally stages
// writes so a failed instruction leaves no partial effects.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a fraction engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(vaultEvent{evt: event})
}

func (e *Engine) now() uint64 {
	if e == nil || e.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	ts := e.nowFn()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func (e *Engine) activeConfig() (*params.PlatformConfig, error) {
	cfg, ok, err := e.state.PlatformConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPlatformNotReady
	}
	if !cfg.Active {
		return nil, ErrPlatformInactive
	}
	return cfg, nil
}

func (e *Engine) requireEligible(user [20]byte) error {
	verified, err := e.state.KYCVerified(user)
	if err != nil {
		return err
	}
	if !verified {
		return ErrKycNotVerified
	}
	return nil
}

// Fractionalize locks the single unit of assetID held by the creator into
// vault custody, mints the full share supply into custody, and records the
// sale parameters. The step is irreversible; there is no un-fractionalize.
func (e *Engine) Fractionalize(creator [20]byte, assetID string, totalFractions, pricePerFraction uint64, paymentDest [20]byte) (*Vault, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if totalFractions == 0 {
		return nil, ErrInvalidTotalFractions
	}
	if pricePerFraction == 0 {
		return nil, ErrInvalidPrice
	}
	if _, err := e.activeConfig(); err != nil {
		return nil, err
	}
	normalized, err := NormalizeAssetID(assetID)
	if err != nil {
		return nil, err
	}
	if _, ok, err := e.state.VaultGet(normalized); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrVaultExists
	}
	held, err := e.state.Balance(normalized, creator)
	if err != nil {
		return nil, err
	}
	switch {
	case held.Sign() == 0:
		return nil, ErrOwnerMismatch
	case held.Cmp(big.NewInt(1)) != 0:
		return nil, ErrNotAnNFT
	}
	shareLine := ShareLineID(normalized)
	if exists, err := e.state.TokenLineExists(shareLine); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrShareLineExists
	}

	custody := CustodyAddress(normalized)
	if err := e.state.Transfer(normalized, creator, custody, big.NewInt(1)); err != nil {
		return nil, err
	}
	if err := e.state.RegisterShareLine(shareLine); err != nil {
		return nil, err
	}
	if err := e.state.Mint(shareLine, custody, new(big.Int).SetUint64(totalFractions)); err != nil {
		return nil, err
	}
	vault := &Vault{
		Creator:          creator,
		AssetID:          normalized,
		ShareLineID:      shareLine,
		TotalFractions:   totalFractions,
		PricePerFraction: pricePerFraction,
		FractionsSold:    0,
		SaleActive:       true,
		CreatorPayment:   paymentDest,
		CreatedAt:        e.now(),
	}
	if err := e.state.VaultPut(vault); err != nil {
		return nil, err
	}
	e.emit(NewCreatedEvent(vault))
	return vault.Clone(), nil
}

// Buy transfers numFractions shares from vault custody to a KYC-verified
// buyer against a gross payment split between the creator and the platform
// treasury. The fee is floor(gross * feeNumerator / feeDenominator).
func (e *Engine) Buy(buyer [20]byte, assetID string, numFractions uint64) (*Purchase, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cfg, err := e.activeConfig()
	if err != nil {
		return nil, err
	}
	normalized, err := NormalizeAssetID(assetID)
	if err != nil {
		return nil, err
	}
	vault, ok, err := e.state.VaultGet(normalized)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVaultNotFound
	}
	if !vault.SaleActive {
		return nil, ErrSaleNotActive
	}
	if numFractions == 0 {
		return nil, ErrInvalidAmount
	}
	if numFractions > vault.RemainingFractions() {
		return nil, ErrInsufficientFractions
	}
	if err := e.requireEligible(buyer); err != nil {
		return nil, err
	}
	gross, err := checkedMul(numFractions, vault.PricePerFraction)
	if err != nil {
		return nil, err
	}
	if gross < cfg.MinInvestment || gross > cfg.MaxInvestment {
		return nil, ErrInvestmentOutOfBounds
	}
	sold, err := checkedAdd(vault.FractionsSold, numFractions)
	if err != nil {
		return nil, err
	}

	// fee <= gross always holds because numerator <= denominator, so the
	// split fits back into uint64.
	feeBig := new(big.Int).Mul(new(big.Int).SetUint64(gross), new(big.Int).SetUint64(cfg.FeeNumerator))
	feeBig.Div(feeBig, new(big.Int).SetUint64(cfg.FeeDenominator))
	fee := feeBig.Uint64()
	net := gross - fee

	if net > 0 {
		if err := e.state.Transfer(PaymentLineID, buyer, vault.CreatorPayment, new(big.Int).SetUint64(net)); err != nil {
			return nil, err
		}
	}
	if fee > 0 {
		if err := e.state.Transfer(PaymentLineID, buyer, cfg.Treasury, new(big.Int).SetUint64(fee)); err != nil {
			return nil, err
		}
	}
	custody := CustodyAddress(normalized)
	if err := e.state.Transfer(vault.ShareLineID, custody, buyer, new(big.Int).SetUint64(numFractions)); err != nil {
		return nil, err
	}

	vault.FractionsSold = sold
	soldOut := vault.IsFullySold()
	if soldOut {
		vault.SaleActive = false
		vault.SaleEndedAt = e.now()
	}
	if err := e.state.VaultPut(vault); err != nil {
		return nil, err
	}
	purchase := &Purchase{
		Buyer:        buyer,
		AssetID:      normalized,
		NumFractions: numFractions,
		Gross:        gross,
		Fee:          fee,
		NetToCreator: net,
	}
	e.emit(NewPurchasedEvent(vault, purchase))
	if soldOut {
		e.emit(NewSoldOutEvent(vault))
	}
	return purchase, nil
}

// Redeem burns the redeemer's full share supply, releases the locked asset
// from custody, and deletes the vault record together with its share line so
// the asset can be fractionalized afresh. Eligibility is determined solely
// from the redeemer's live share balance: exactly the total supply, however
// it was accumulated.
func (e *Engine) Redeem(redeemer [20]byte, assetID string) (*Vault, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	normalized, err := NormalizeAssetID(assetID)
	if err != nil {
		return nil, err
	}
	vault, ok, err := e.state.VaultGet(normalized)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVaultNotFound
	}
	if err := e.requireEligible(redeemer); err != nil {
		return nil, err
	}
	held, err := e.state.Balance(vault.ShareLineID, redeemer)
	if err != nil {
		return nil, err
	}
	if held.Cmp(new(big.Int).SetUint64(vault.TotalFractions)) != 0 {
		return nil, ErrInsufficientTokens
	}

	if err := e.state.Burn(vault.ShareLineID, redeemer, new(big.Int).SetUint64(vault.TotalFractions)); err != nil {
		return nil, err
	}
	custody := CustodyAddress(normalized)
	if err := e.state.Transfer(normalized, custody, redeemer, big.NewInt(1)); err != nil {
		return nil, err
	}
	if err := e.state.VaultDelete(normalized); err != nil {
		return nil, err
	}
	// The supply is fully burned at this point; retiring the line keeps the
	// share id free for a future fractionalization of the same asset.
	if err := e.state.RemoveTokenLine(vault.ShareLineID); err != nil {
		return nil, err
	}
	closed := vault.Clone()
	closed.SaleActive = false
	if closed.SaleEndedAt == 0 {
		closed.SaleEndedAt = e.now()
	}
	e.emit(NewRedeemedEvent(closed, redeemer))
	return closed, nil
}
