package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/services"
	"backend/testutil"
	"backend/utils"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*services.AuthService, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	return services.NewAuthService(store, testSecret, time.Hour), store
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected assigned user id")
	}
	if user.Password == "hunter22" {
		t.Error("password stored in the clear")
	}

	token, err := auth.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" {
		t.Errorf("claims = %+v, want user %d alice", claims, user.ID)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	auth, store := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "bob", "bob@example.com", "pw123456"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Register(ctx, "bob", "other@example.com", "pw123456"); !services.IsValidationError(err) {
		t.Errorf("duplicate username err = %v, want validation error", err)
	}
	if _, err := auth.Register(ctx, "bobby", "bob@example.com", "pw123456"); !services.IsValidationError(err) {
		t.Errorf("duplicate email err = %v, want validation error", err)
	}

	// Failed registrations leave no extra rows behind.
	if u, _ := store.GetUserByUsername(ctx, "bobby"); u != nil {
		t.Error("rejected registration persisted a user")
	}
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "carol", "carol@example.com", "correct-horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := auth.Login(ctx, "carol", "wrong-horse"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := auth.Login(ctx, "nobody", "whatever"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestGetProfile(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "dave", "dave@example.com", "pw123456")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := auth.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Username != "dave" {
		t.Errorf("username = %q, want dave", got.Username)
	}

	if _, err := auth.GetProfile(ctx, 9999); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("absent profile err = %v, want ErrNotFound", err)
	}
}
