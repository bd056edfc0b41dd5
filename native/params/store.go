package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// StoreState captures the subset of state manager capabilities required by the
// parameter helpers.
type StoreState interface {
	ParamStoreSet(name string, value []byte) error
	ParamStoreGet(name string) ([]byte, bool, error)
}

// Store provides typed accessors for the platform configuration singleton.
// Values are marshalled as JSON to keep the stored payload inspectable by
// operational tooling.
type Store struct {
	state StoreState
	nowFn func() int64
}

// NewStore constructs a parameter store wrapper using the supplied state
// backend.
func NewStore(state StoreState) *Store {
	return &Store{state: state, nowFn: func() int64 { return time.Now().Unix() }}
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (s *Store) SetNowFunc(now func() int64) {
	if now == nil {
		s.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	s.nowFn = now
}

func (s *Store) withState() (StoreState, error) {
	if s == nil || s.state == nil {
		return nil, fmt.Errorf("params: state not configured")
	}
	return s.state, nil
}

func (s *Store) now() uint64 {
	if s == nil || s.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	ts := s.nowFn()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

// Platform loads the persisted platform configuration. The boolean reports
// whether the singleton has been initialised.
func (s *Store) Platform() (*PlatformConfig, bool, error) {
	state, err := s.withState()
	if err != nil {
		return nil, false, err
	}
	raw, ok, err := state.ParamStoreGet(ParamsKeyPlatform)
	if err != nil {
		return nil, false, err
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, nil
	}
	cfg := new(PlatformConfig)
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, false, fmt.Errorf("params: decode platform config: %w", err)
	}
	return cfg, true, nil
}

func (s *Store) write(cfg *PlatformConfig) error {
	state, err := s.withState()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("params: encode platform config: %w", err)
	}
	return state.ParamStoreSet(ParamsKeyPlatform, encoded)
}

// Initialize creates the platform configuration singleton with the caller as
// admin and the default fee and investment bounds. It fails if the singleton
// already exists.
func (s *Store) Initialize(admin, treasury [20]byte) (*PlatformConfig, error) {
	if _, ok, err := s.Platform(); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyInitialized
	}
	now := s.now()
	cfg := &PlatformConfig{
		Admin:          admin,
		Treasury:       treasury,
		FeeNumerator:   DefaultFeeNumerator,
		FeeDenominator: DefaultFeeDenominator,
		MinInvestment:  DefaultMinInvestment,
		MaxInvestment:  DefaultMaxInvestment,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.write(cfg); err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

// Update persists new fee and investment parameters. Only the admin recorded
// at initialisation may update; admin and treasury identities are immutable.
func (s *Store) Update(caller [20]byte, feeNumerator, feeDenominator, minInvestment, maxInvestment uint64, active bool) (*PlatformConfig, error) {
	cfg, ok, err := s.Platform()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	if caller != cfg.Admin {
		return nil, ErrUnauthorized
	}
	if !ValidateFeeRatio(feeNumerator, feeDenominator) {
		return nil, ErrInvalidFeeRatio
	}
	if minInvestment > maxInvestment {
		return nil, ErrInvalidBounds
	}
	cfg.FeeNumerator = feeNumerator
	cfg.FeeDenominator = feeDenominator
	cfg.MinInvestment = minInvestment
	cfg.MaxInvestment = maxInvestment
	cfg.Active = active
	cfg.UpdatedAt = s.now()
	if err := s.write(cfg); err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}
