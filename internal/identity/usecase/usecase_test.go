package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type fakeRepoDB struct {
	createErr    error
	created      []entity.User
	userByName   map[string]*entity.User
	adminCount   int64
	countErr     error
	listUsers    []entity.User
	listErr      error
	deleteErr    error
	deletedIDs   []int64
	userByID     map[int64]*entity.User
	getByIDErr   error
	getByNameErr error
}

func (f *fakeRepoDB) CreateUser(_ context.Context, in entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeRepoDB) GetUserByUsername(_ context.Context, username string) (*entity.User, error) {
	if f.getByNameErr != nil {
		return nil, f.getByNameErr
	}
	u, ok := f.userByName[username]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepoDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.userByID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepoDB) CountUsersByRole(_ context.Context, _ role.Role) (int64, error) {
	return f.adminCount, f.countErr
}

func (f *fakeRepoDB) ListUsersExcludingRole(_ context.Context, _ role.Role) ([]entity.User, error) {
	return f.listUsers, f.listErr
}

func (f *fakeRepoDB) DeleteUserCascade(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeSessions struct {
	token     string
	issueErr  error
	revoked   []string
	revokeErr error
}

func (f *fakeSessions) Issue(_ context.Context, _ entity.User) (string, error) {
	return f.token, f.issueErr
}

func (f *fakeSessions) Revoke(_ context.Context, token string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	f.revoked = append(f.revoked, token)
	return nil
}

type fakeHash struct {
	hashErr error
	match   bool
}

func (f *fakeHash) Hash(plaintext string) ([]byte, error) {
	if f.hashErr != nil {
		return nil, f.hashErr
	}
	return []byte("hashed:" + plaintext), nil
}

func (f *fakeHash) Verify(_, _ string) bool { return f.match }

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

func newTestUsecase(t *testing.T, db *fakeRepoDB, ses *fakeSessions, h *fakeHash) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator.NewV10Validator() error = %v", err)
	}

	return New(Dependency{
		RepoDB:     db,
		Sessions:   ses,
		Validator:  v10,
		Bcrypt:     h,
		UID:        &fakeNumberID{},
		Clock:      &clock.Static{At: time.Now()},
		Instrument: instrument.NewNoop(),
	})
}

func ctxWithRole(name string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: 99, Username: "caller", Role: name})
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v", gerr.Code(), want)
	}
}

func TestUsecase_Register(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		_, err := uc.Register(context.Background(), RegisterInput{Username: "ab", Password: "short", Role: "USER"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("unrecognized role", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		_, err := uc.Register(context.Background(), RegisterInput{Username: "alice", Password: "password1", Role: "ROOT"})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("second admin rejected", func(t *testing.T) {
		db := &fakeRepoDB{adminCount: 1}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		_, err := uc.Register(context.Background(), RegisterInput{Username: "boss", Password: "password1", Role: "ADMIN"})
		assertCode(t, err, goerror.CodeConflict)
		if len(db.created) != 0 {
			t.Errorf("created = %d users, want 0", len(db.created))
		}
	})

	t.Run("username taken", func(t *testing.T) {
		db := &fakeRepoDB{createErr: goerror.ErrConflict}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		_, err := uc.Register(context.Background(), RegisterInput{Username: "alice", Password: "password1", Role: "USER"})
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("success", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		out, err := uc.Register(context.Background(), RegisterInput{Username: " alice ", Password: "password1", Role: "USER"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if out.Username != "alice" {
			t.Errorf("Username = %q, want alice", out.Username)
		}
		if out.Role != "USER" {
			t.Errorf("Role = %q, want USER", out.Role)
		}
		if len(db.created) != 1 || db.created[0].Password != "hashed:password1" {
			t.Errorf("created user = %+v, want bcrypt-hashed password stored", db.created)
		}
	})

	t.Run("first admin allowed", func(t *testing.T) {
		db := &fakeRepoDB{adminCount: 0}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		out, err := uc.Register(context.Background(), RegisterInput{Username: "boss", Password: "password1", Role: "ADMIN"})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if out.Role != "ADMIN" {
			t.Errorf("Role = %q, want ADMIN", out.Role)
		}
	})
}

func TestUsecase_Login(t *testing.T) {
	t.Run("unknown username", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{userByName: map[string]*entity.User{}}, &fakeSessions{}, &fakeHash{})

		_, err := uc.Login(context.Background(), LoginInput{Username: "ghost", Password: "whatever1"})
		assertCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("wrong password", func(t *testing.T) {
		db := &fakeRepoDB{userByName: map[string]*entity.User{
			"alice": {ID: 1, Username: "alice", Password: "stored", Role: role.User},
		}}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{match: false})

		_, err := uc.Login(context.Background(), LoginInput{Username: "alice", Password: "wrong-pass"})
		assertCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("success", func(t *testing.T) {
		db := &fakeRepoDB{userByName: map[string]*entity.User{
			"alice": {ID: 1, Username: "alice", Password: "stored", Role: role.User},
		}}
		ses := &fakeSessions{token: "signed-token"}
		uc := newTestUsecase(t, db, ses, &fakeHash{match: true})

		out, err := uc.Login(context.Background(), LoginInput{Username: "alice", Password: "password1"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if out.AccessToken != "signed-token" {
			t.Errorf("AccessToken = %q, want signed-token", out.AccessToken)
		}
	})
}

func TestUsecase_Logout(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		err := uc.Logout(context.Background(), LogoutInput{Token: "tok"})
		assertCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("success", func(t *testing.T) {
		ses := &fakeSessions{}
		uc := newTestUsecase(t, &fakeRepoDB{}, ses, &fakeHash{})

		if err := uc.Logout(ctxWithRole("USER"), LogoutInput{Token: "tok"}); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if len(ses.revoked) != 1 || ses.revoked[0] != "tok" {
			t.Errorf("revoked = %v, want [tok]", ses.revoked)
		}
	})
}

func TestUsecase_UserList(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		_, err := uc.UserList(context.Background())
		assertCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("forbidden for user role", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		_, err := uc.UserList(ctxWithRole("USER"))
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("success", func(t *testing.T) {
		db := &fakeRepoDB{listUsers: []entity.User{
			{ID: 1, Username: "alice", Role: role.User},
			{ID: 2, Username: "bob", Role: role.User},
		}}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		out, err := uc.UserList(ctxWithRole("ADMIN"))
		if err != nil {
			t.Fatalf("UserList() error = %v", err)
		}
		if len(out.Users) != 2 {
			t.Fatalf("len(Users) = %d, want 2", len(out.Users))
		}
		if out.Users[0].Username != "alice" || out.Users[1].Username != "bob" {
			t.Errorf("Users = %+v, want alice then bob", out.Users)
		}
	})
}

func TestUsecase_UserDelete(t *testing.T) {
	t.Run("unauthenticated with bad id", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		err := uc.UserDelete(context.Background(), UserDeleteInput{ID: 0})
		assertCode(t, err, goerror.CodeUnauthenticated)
	})

	t.Run("forbidden for user role", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		err := uc.UserDelete(ctxWithRole("USER"), UserDeleteInput{ID: 5})
		assertCode(t, err, goerror.CodeForbidden)
	})

	t.Run("invalid id", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeSessions{}, &fakeHash{})

		err := uc.UserDelete(ctxWithRole("ADMIN"), UserDeleteInput{ID: 0})
		assertCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		db := &fakeRepoDB{deleteErr: goerror.ErrNotFound}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		err := uc.UserDelete(ctxWithRole("ADMIN"), UserDeleteInput{ID: 5})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("success", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeSessions{}, &fakeHash{})

		if err := uc.UserDelete(ctxWithRole("ADMIN"), UserDeleteInput{ID: 5}); err != nil {
			t.Fatalf("UserDelete() error = %v", err)
		}
		if len(db.deletedIDs) != 1 || db.deletedIDs[0] != 5 {
			t.Errorf("deletedIDs = %v, want [5]", db.deletedIDs)
		}
	})
}
