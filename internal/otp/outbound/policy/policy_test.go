package policy

import (
	"context"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type fakePolicyDB struct {
	row       *entity.Policy
	getErr    error
	upsertErr error
	upserts   []entity.Policy
}

func (f *fakePolicyDB) GetPolicy(_ context.Context) (*entity.Policy, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.row == nil {
		return nil, goerror.ErrNotFound
	}
	return f.row, nil
}

func (f *fakePolicyDB) UpsertPolicy(_ context.Context, in entity.Policy) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, in)
	f.row = &in
	return nil
}

func TestStore_LoadExisting(t *testing.T) {
	db := &fakePolicyDB{row: &entity.Policy{Length: 8, TTLSeconds: 120}}
	store := NewStore(db)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := store.Get()
	if got.Length != 8 || got.TTLSeconds != 120 {
		t.Errorf("Get() = %+v, want {8 120}", got)
	}
	if len(db.upserts) != 0 {
		t.Errorf("upserts = %d, want 0 for existing row", len(db.upserts))
	}
}

func TestStore_LoadSeedsDefault(t *testing.T) {
	db := &fakePolicyDB{}
	store := NewStore(db)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := store.Get(); got != entity.DefaultPolicy {
		t.Errorf("Get() = %+v, want default %+v", got, entity.DefaultPolicy)
	}
	if len(db.upserts) != 1 {
		t.Errorf("upserts = %d, want 1 seed write", len(db.upserts))
	}
}

func TestStore_UpdateVisibleImmediately(t *testing.T) {
	db := &fakePolicyDB{row: &entity.Policy{Length: 6, TTLSeconds: 300}}
	store := NewStore(db)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	next := entity.Policy{Length: 4, TTLSeconds: 60}
	if err := store.Update(context.Background(), next); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := store.Get(); got != next {
		t.Errorf("Get() = %+v, want %+v", got, next)
	}
}

func TestStore_UpdateFailureKeepsSnapshot(t *testing.T) {
	db := &fakePolicyDB{row: &entity.Policy{Length: 6, TTLSeconds: 300}}
	store := NewStore(db)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	db.upsertErr = goerror.ErrConflict
	if err := store.Update(context.Background(), entity.Policy{Length: 9, TTLSeconds: 9}); err == nil {
		t.Fatal("Update() expected error")
	}

	if got := store.Get(); got.Length != 6 || got.TTLSeconds != 300 {
		t.Errorf("Get() = %+v, want prior {6 300}", got)
	}
}
