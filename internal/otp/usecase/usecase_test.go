package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

// ledgerFake is an in-memory ledger with the same compare-and-set semantics
// as the SQL adapter.
type ledgerFake struct {
	codes      map[int64]*entity.Code
	recipients map[int64]string
	saveErrs   []error // consumed per SaveCode call before the default path
	markErr    error
	markRaced  bool
	sweeps     int
}

func newLedgerFake() *ledgerFake {
	return &ledgerFake{
		codes:      make(map[int64]*entity.Code),
		recipients: make(map[int64]string),
	}
}

func (f *ledgerFake) SaveCode(_ context.Context, in entity.Code) error {
	if len(f.saveErrs) > 0 {
		err := f.saveErrs[0]
		f.saveErrs = f.saveErrs[1:]
		if err != nil {
			return err
		}
	}

	for _, c := range f.codes {
		if c.Value == in.Value && c.Status == entity.StatusActive {
			return goerror.ErrConflict
		}
	}

	stored := in
	f.codes[in.ID] = &stored
	return nil
}

func (f *ledgerFake) FindByCode(_ context.Context, value string) (*entity.Code, error) {
	for _, c := range f.codes {
		if c.Value == value {
			found := *c
			return &found, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *ledgerFake) FindAllByUser(_ context.Context, userID int64) ([]entity.Code, error) {
	var out []entity.Code
	for _, c := range f.codes {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *ledgerFake) MarkUsed(_ context.Context, id int64) (bool, error) {
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.markRaced {
		// Pretend a concurrent caller won the compare-and-set.
		f.markRaced = false
		f.codes[id].Status = entity.StatusUsed
		return false, nil
	}
	c, ok := f.codes[id]
	if !ok || c.Status != entity.StatusActive {
		return false, nil
	}
	c.Status = entity.StatusUsed
	return true, nil
}

func (f *ledgerFake) MarkExpiredOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.sweeps++
	var n int64
	for _, c := range f.codes {
		if c.Status == entity.StatusActive && c.CreatedAt.Before(cutoff) {
			c.Status = entity.StatusExpired
			n++
		}
	}
	return n, nil
}

func (f *ledgerFake) GetRecipient(_ context.Context, userID int64) (string, error) {
	addr, ok := f.recipients[userID]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return addr, nil
}

type policyFake struct {
	current   entity.Policy
	updateErr error
}

func (f *policyFake) Get() entity.Policy { return f.current }

func (f *policyFake) Update(_ context.Context, in entity.Policy) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.current = in
	return nil
}

type publisherFake struct {
	published []OTPIssuedEvent
	err       error
}

func (f *publisherFake) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type seqNumberID struct{ next int64 }

func (f *seqNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fixture struct {
	uc     *Usecase
	ledger *ledgerFake
	policy *policyFake
	pub    *publisherFake
	clock  *clock.Static
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator.NewV10Validator() error = %v", err)
	}

	ledger := newLedgerFake()
	pol := &policyFake{current: entity.Policy{Length: 6, TTLSeconds: 60}}
	pub := &publisherFake{}
	clk := &clock.Static{At: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}

	uc := New(Dependency{
		RepoDB:        ledger,
		Policy:        pol,
		RepoMessaging: pub,
		Validator:     v10,
		UID:           &seqNumberID{},
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     goroutine.NewManager(4),
	})

	return &fixture{uc: uc, ledger: ledger, policy: pol, pub: pub, clock: clk}
}

func userCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 1, Username: "alice", Role: "USER"})
}

func adminCtx() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 9, Username: "boss", Role: "ADMIN"})
}

func wantCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v", gerr.Code(), want)
	}
}

func TestUsecase_Generate(t *testing.T) {
	t.Run("emits digits of policy length", func(t *testing.T) {
		fx := newFixture(t)

		out, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1, OperationID: "op1"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(out.Code) != 6 {
			t.Fatalf("len(Code) = %d, want 6", len(out.Code))
		}
		for _, r := range out.Code {
			if r < '0' || r > '9' {
				t.Fatalf("Code = %q, want digits only", out.Code)
			}
		}
		if want := fx.clock.At.Add(60 * time.Second); !out.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", out.ExpiresAt, want)
		}
	})

	t.Run("length follows updated policy", func(t *testing.T) {
		fx := newFixture(t)
		fx.policy.current = entity.Policy{Length: 8, TTLSeconds: 60}

		out, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(out.Code) != 8 {
			t.Errorf("len(Code) = %d, want 8", len(out.Code))
		}
	})

	t.Run("retries on live value collision", func(t *testing.T) {
		fx := newFixture(t)
		fx.ledger.saveErrs = []error{goerror.ErrConflict, goerror.ErrConflict}

		out, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if out.Code == "" {
			t.Error("Code is empty after retried save")
		}
	})

	t.Run("gives up after exhausted collisions", func(t *testing.T) {
		fx := newFixture(t)
		fx.ledger.saveErrs = []error{goerror.ErrConflict, goerror.ErrConflict, goerror.ErrConflict}

		_, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		wantCode(t, err, goerror.CodeInternal)
	})

	t.Run("invalid input", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 0})
		wantCode(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecase_Validate(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.uc.Validate(context.Background(), ValidateInput{Code: "123456"})
		wantCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("single use", func(t *testing.T) {
		fx := newFixture(t)

		gen, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		out, err := fx.uc.Validate(userCtx(), ValidateInput{Code: gen.Code})
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if !out.Valid {
			t.Fatal("first Validate() = false, want true")
		}

		out, err = fx.uc.Validate(userCtx(), ValidateInput{Code: gen.Code})
		if err != nil {
			t.Fatalf("second Validate() error = %v", err)
		}
		if out.Valid {
			t.Fatal("second Validate() = true, want false")
		}

		if got := fx.ledger.codes[gen.CodeID].Status; got != entity.StatusUsed {
			t.Errorf("stored status = %q, want USED", got)
		}
	})

	t.Run("absent code is invalid", func(t *testing.T) {
		fx := newFixture(t)

		out, err := fx.uc.Validate(userCtx(), ValidateInput{Code: "000000"})
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if out.Valid {
			t.Error("Validate() = true for absent code, want false")
		}
	})

	t.Run("expired code sweeps and is invalid", func(t *testing.T) {
		fx := newFixture(t)

		gen, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		fx.clock.At = fx.clock.At.Add(61 * time.Second)

		out, err := fx.uc.Validate(userCtx(), ValidateInput{Code: gen.Code})
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if out.Valid {
			t.Fatal("Validate() = true after TTL elapsed, want false")
		}
		if fx.ledger.sweeps != 1 {
			t.Errorf("sweeps = %d, want 1 triggered by stale validate", fx.ledger.sweeps)
		}
		if got := fx.ledger.codes[gen.CodeID].Status; got != entity.StatusExpired {
			t.Errorf("stored status = %q, want EXPIRED", got)
		}
	})

	t.Run("ttl change retroactively expires codes", func(t *testing.T) {
		fx := newFixture(t)

		gen, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// 30s elapsed is inside the original 60s window but outside the
		// shrunk 10s one.
		fx.clock.At = fx.clock.At.Add(30 * time.Second)
		fx.policy.current = entity.Policy{Length: 6, TTLSeconds: 10}

		out, err := fx.uc.Validate(userCtx(), ValidateInput{Code: gen.Code})
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if out.Valid {
			t.Error("Validate() = true under shrunk TTL, want false")
		}
	})

	t.Run("race loser is invalid", func(t *testing.T) {
		fx := newFixture(t)

		gen, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// A concurrent validate consumes the code between lookup and mark.
		fx.ledger.markRaced = true

		out, err := fx.uc.Validate(userCtx(), ValidateInput{Code: gen.Code})
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if out.Valid {
			t.Error("Validate() = true for already-consumed code, want false")
		}
	})
}

func TestUsecase_SweepExpired(t *testing.T) {
	fx := newFixture(t)

	for i := 0; i < 3; i++ {
		if _, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1}); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
	}

	fx.clock.At = fx.clock.At.Add(2 * time.Minute)

	n, err := fx.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if n != 3 {
		t.Errorf("SweepExpired() = %d, want 3", n)
	}

	// Idempotent: a second run changes nothing.
	n, err = fx.uc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("second SweepExpired() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second SweepExpired() = %d, want 0", n)
	}
}

func TestUsecase_Send(t *testing.T) {
	t.Run("unknown channel", func(t *testing.T) {
		fx := newFixture(t)
		fx.ledger.recipients[1] = "alice@example.com"

		_, err := fx.uc.Send(userCtx(), SendInput{UserID: 1, Channel: "PIGEON"})
		wantCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.uc.Send(userCtx(), SendInput{UserID: 42, Channel: "EMAIL"})
		wantCode(t, err, goerror.CodeNotFound)
	})

	t.Run("publishes issued event", func(t *testing.T) {
		fx := newFixture(t)
		fx.ledger.recipients[1] = "alice@example.com"

		out, err := fx.uc.Send(userCtx(), SendInput{UserID: 1, OperationID: "op1", Channel: "EMAIL"})
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if len(fx.pub.published) != 1 {
			t.Fatalf("published = %d events, want 1", len(fx.pub.published))
		}

		evt := fx.pub.published[0]
		if evt.Recipient != "alice@example.com" || evt.Channel != "EMAIL" || evt.CodeID != out.CodeID {
			t.Errorf("event = %+v, want recipient/channel/code id to match", evt)
		}
	})

	t.Run("publish failure keeps code usable", func(t *testing.T) {
		fx := newFixture(t)
		fx.ledger.recipients[1] = "alice@example.com"
		fx.pub.err = errors.New("broker down")

		out, err := fx.uc.Send(userCtx(), SendInput{UserID: 1, Channel: "SMS"})
		if err != nil {
			t.Fatalf("Send() error = %v, want success despite publish failure", err)
		}
		if got := fx.ledger.codes[out.CodeID].Status; got != entity.StatusActive {
			t.Errorf("stored status = %q, want ACTIVE", got)
		}
	})
}

func TestUsecase_Policy(t *testing.T) {
	t.Run("get requires admin", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.uc.GetPolicy(userCtx())
		wantCode(t, err, goerror.CodeForbidden)
	})

	t.Run("update rejects non-positive values", func(t *testing.T) {
		fx := newFixture(t)
		prior := fx.policy.current

		_, err := fx.uc.UpdatePolicy(adminCtx(), UpdatePolicyInput{Length: 0, TTLSeconds: 300})
		wantCode(t, err, goerror.CodeInvalidInput)

		_, err = fx.uc.UpdatePolicy(adminCtx(), UpdatePolicyInput{Length: 6, TTLSeconds: -1})
		wantCode(t, err, goerror.CodeInvalidInput)

		if fx.policy.current != prior {
			t.Errorf("policy = %+v, want prior %+v untouched", fx.policy.current, prior)
		}
	})

	t.Run("update is immediately visible to generate", func(t *testing.T) {
		fx := newFixture(t)

		if _, err := fx.uc.UpdatePolicy(adminCtx(), UpdatePolicyInput{Length: 4, TTLSeconds: 300}); err != nil {
			t.Fatalf("UpdatePolicy() error = %v", err)
		}

		out, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(out.Code) != 4 {
			t.Errorf("len(Code) = %d, want 4 after policy update", len(out.Code))
		}
	})

	t.Run("update requires authentication", func(t *testing.T) {
		fx := newFixture(t)

		_, err := fx.uc.UpdatePolicy(context.Background(), UpdatePolicyInput{Length: 6, TTLSeconds: 300})
		wantCode(t, err, goerror.CodeUnauthenticated)
	})
}

func TestUsecase_CodeList(t *testing.T) {
	fx := newFixture(t)

	if _, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 1, OperationID: "op1"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if _, err := fx.uc.Generate(context.Background(), GenerateInput{UserID: 2}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	out, err := fx.uc.CodeList(userCtx())
	if err != nil {
		t.Fatalf("CodeList() error = %v", err)
	}
	if len(out.Codes) != 1 {
		t.Fatalf("len(Codes) = %d, want only caller's codes", len(out.Codes))
	}
	if out.Codes[0].OperationID != "op1" {
		t.Errorf("OperationID = %q, want op1", out.Codes[0].OperationID)
	}
}
