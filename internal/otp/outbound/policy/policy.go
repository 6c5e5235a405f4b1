// Package policy keeps the runtime-mutable code policy behind an atomic
// snapshot: reads are lock-free, updates write through to the database and
// swap the snapshot so the new value is immediately visible.
package policy

import (
	"context"
	"errors"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"go.uber.org/atomic"
)

type policyDB interface {
	GetPolicy(ctx context.Context) (*entity.Policy, error)
	UpsertPolicy(ctx context.Context, in entity.Policy) error
}

// Store is the process-wide policy singleton.
type Store struct {
	db   policyDB
	snap atomic.Pointer[entity.Policy]
}

// NewStore constructs the policy store. Call Load before first use.
func NewStore(db policyDB) *Store {
	return &Store{db: db}
}

// Load reads the policy row into the snapshot, seeding the default policy
// when no row exists yet.
func (s *Store) Load(ctx context.Context) error {
	current, err := s.db.GetPolicy(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		seed := entity.DefaultPolicy
		if err := s.db.UpsertPolicy(ctx, seed); err != nil {
			return err
		}
		s.snap.Store(&seed)
		return nil
	}
	if err != nil {
		return err
	}

	s.snap.Store(current)
	return nil
}

// Get returns the current policy snapshot. Reads are not synchronized
// against concurrent updates; callers may observe either side of an
// in-flight Update.
func (s *Store) Get() entity.Policy {
	p := s.snap.Load()
	if p == nil {
		return entity.DefaultPolicy
	}
	return *p
}

// Update persists the new policy and swaps the snapshot. Last write wins.
func (s *Store) Update(ctx context.Context, in entity.Policy) error {
	if err := s.db.UpsertPolicy(ctx, in); err != nil {
		return err
	}

	s.snap.Store(&in)
	return nil
}
