package kyc

import (
	"errors"
	"time"

	"rwachain/core/events"
	"rwachain/core/types"
)

var errNilState = errors.New("kyc registry: state not configured")

type registryState interface {
	KYCPut(*Record) error
	KYCGet(user [20]byte) (*Record, bool, error)
	PlatformAdmin() ([20]byte, bool, error)
}

type kycEvent struct {
	evt *types.Event
}

func (e kycEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e kycEvent) Event() *types.Event { return e.evt }

// Registry owns per-user verification records. Registration is self-service;
// verification requires the platform admin.
type Registry struct {
	state   registryState
	emitter events.Emitter
	nowFn   func() int64
}

// NewRegistry creates a KYC registry with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewRegistry() *Registry {
	return &Registry{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state registryState) { r.state = state }

// SetNowFunc overrides the time source used by the registry. Primarily
// intended for tests to provide deterministic timestamps.
func (r *Registry) SetNowFunc(now func() int64) {
	if now == nil {
		r.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	r.nowFn = now
}

// SetEmitter configures the event emitter used by the registry. Passing nil
// resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

func (r *Registry) emit(event *types.Event) {
	if r == nil || r.emitter == nil || event == nil {
		return
	}
	r.emitter.Emit(kycEvent{evt: event})
}

func (r *Registry) now() uint64 {
	if r == nil || r.nowFn == nil {
		return uint64(time.Now().Unix())
	}
	ts := r.nowFn()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

// Register creates an unverified record for the user. Email and country are
// stored uninterpreted. Fails if a record already exists.
func (r *Registry) Register(user [20]byte, email, country string) (*Record, error) {
	if r == nil || r.state == nil {
		return nil, errNilState
	}
	if _, ok, err := r.state.KYCGet(user); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyRegistered
	}
	record := &Record{
		User:         user,
		Verified:     false,
		Method:       MethodAdminApproval,
		RegisteredAt: r.now(),
		Email:        email,
		Country:      country,
	}
	if err := r.state.KYCPut(record); err != nil {
		return nil, err
	}
	r.emit(NewRegisteredEvent(record))
	return record.Clone(), nil
}

// Verify marks the user's record as verified, storing the method and level
// used. Only the platform admin may verify. Re-verifying an already verified
// user overwrites method, level and timestamp without error.
func (r *Registry) Verify(caller, user [20]byte, method Method, level uint8) (*Record, error) {
	if r == nil || r.state == nil {
		return nil, errNilState
	}
	admin, ok, err := r.state.PlatformAdmin()
	if err != nil {
		return nil, err
	}
	if !ok || caller != admin {
		return nil, ErrUnauthorized
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if level < MinLevel || level > MaxLevel {
		return nil, ErrInvalidLevel
	}
	record, ok, err := r.state.KYCGet(user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotRegistered
	}
	record.Verified = true
	record.Method = method
	record.Level = level
	record.VerifiedAt = r.now()
	if err := r.state.KYCPut(record); err != nil {
		return nil, err
	}
	r.emit(NewVerifiedEvent(record))
	return record.Clone(), nil
}

// IsEligible reports whether the user holds a verified record. Unregistered
// users are simply ineligible; no error is returned for a missing record.
func (r *Registry) IsEligible(user [20]byte) (bool, error) {
	if r == nil || r.state == nil {
		return false, errNilState
	}
	record, ok, err := r.state.KYCGet(user)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return record.Verified, nil
}
