package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type memoryRecords struct {
	mu   sync.Mutex
	ttls map[string]time.Duration
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{ttls: make(map[string]time.Duration)}
}

func (m *memoryRecords) Save(_ context.Context, tokenID string, _ int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[tokenID] = ttl
	return nil
}

func (m *memoryRecords) Exists(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ttls[tokenID]
	return ok, nil
}

func (m *memoryRecords) Delete(_ context.Context, tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ttls, tokenID)
	return nil
}

type seqUUID struct{ n int }

func (s *seqUUID) Generate() string {
	s.n++
	return "jti-" + string(rune('0'+s.n))
}

func newTestStore(t *testing.T, now time.Time, ttl time.Duration) (*Store, *memoryRecords) {
	t.Helper()

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate-api"},
		TTL:       ttl,
		Clock:     &clock.Static{At: now},
		UUID:      &seqUUID{},
	})
	if err != nil {
		t.Fatalf("jwt.NewHS512() error = %v", err)
	}

	records := newMemoryRecords()
	return New(signer, records, &clock.Static{At: now}, instrument.NewNoop()), records
}

func TestStore_IssueResolve(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	store, records := newTestStore(t, now, 30*time.Minute)

	user := entity.User{ID: 7, Username: "alice", Role: role.Admin}

	token, err := store.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := store.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != "ADMIN" {
		t.Errorf("Resolve() claims = %+v, want user 7 alice ADMIN", claims)
	}

	ttl, ok := records.ttls[claims.ID]
	if !ok {
		t.Fatalf("record for %q not saved", claims.ID)
	}
	if ttl != 30*time.Minute {
		t.Errorf("record TTL = %v, want 30m", ttl)
	}
}

func TestStore_ResolveRevoked(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	store, _ := newTestStore(t, now, 30*time.Minute)

	token, err := store.Issue(context.Background(), entity.User{ID: 1, Username: "bob", Role: role.User})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := store.Revoke(context.Background(), token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}

	if _, err := store.Resolve(context.Background(), token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("Resolve() error = %v, want ErrSessionRevoked", err)
	}
}

func TestStore_ResolveMalformed(t *testing.T) {
	store, _ := newTestStore(t, time.Now(), time.Minute)

	if _, err := store.Resolve(context.Background(), "not-a-token"); err == nil {
		t.Fatal("Resolve() expected error for malformed token")
	}
}

func TestStore_RevokeMalformedNoop(t *testing.T) {
	store, _ := newTestStore(t, time.Now(), time.Minute)

	if err := store.Revoke(context.Background(), "not-a-token"); err != nil {
		t.Fatalf("Revoke() error = %v, want nil for unverifiable token", err)
	}
}
