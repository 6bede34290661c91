package credentials_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/pkg/repository/mock"
)

const secret = "test-secret"

func newStore(t *testing.T, now func() time.Time) (*credentials.Store, *mock.Store) {
	t.Helper()
	users := mock.NewStore()
	s, err := credentials.New(credentials.Config{Secret: secret, BcryptCost: bcrypt.MinCost, Now: now}, users)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, users
}

func register(t *testing.T, s *credentials.Store, username, email string) int64 {
	t.Helper()
	id, err := s.Register(context.Background(), credentials.RegisterInput{Username: username, Email: email, Password: "pw-" + username, Name: username})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return id
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := credentials.New(credentials.Config{}, mock.NewStore()); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestRegister(t *testing.T) {
	s, users := newStore(t, nil)
	ctx := context.Background()

	id := register(t, s, "alice", "alice@example.com")
	u := users.Users[id]
	if u == nil || u.PasswordHash == "pw-alice" || !u.IsPublic || u.IsAdmin {
		t.Fatalf("unexpected stored user: %#v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw-alice")) != nil {
		t.Fatalf("stored hash does not match password")
	}

	if _, err := s.Register(ctx, credentials.RegisterInput{Username: "max", Email: "max@e", Password: strings.Repeat("x", credentials.MaxPasswordBytes), Name: "n"}); err != nil {
		t.Fatalf("72-byte password should register: %v", err)
	}

	tests := []struct {
		name string
		in   credentials.RegisterInput
		kind apperr.Kind
	}{
		{"missing email", credentials.RegisterInput{Username: "x", Password: "p", Name: "n"}, apperr.KindValidation},
		{"missing password", credentials.RegisterInput{Username: "x", Email: "x@e", Name: "n"}, apperr.KindValidation},
		{"blank name", credentials.RegisterInput{Username: "x", Email: "x@e", Password: "p", Name: "  "}, apperr.KindValidation},
		{"duplicate username", credentials.RegisterInput{Username: "alice", Email: "other@example.com", Password: "p", Name: "n"}, apperr.KindConflict},
		{"duplicate email", credentials.RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "p", Name: "n"}, apperr.KindConflict},
		{"password over 72 bytes", credentials.RegisterInput{Username: "long", Email: "long@e", Password: strings.Repeat("x", 73), Name: "n"}, apperr.KindValidation},
		{"multibyte password over 72 bytes", credentials.RegisterInput{Username: "wide", Email: "wide@e", Password: strings.Repeat("é", 37), Name: "n"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.in)
			if got := apperr.KindOf(err); err == nil || got != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	s, users := newStore(t, nil)
	users.Err = errors.New("db down")
	_, err := s.Register(context.Background(), credentials.RegisterInput{Username: "a", Email: "a@e", Password: "p", Name: "A"})
	if apperr.KindOf(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s, users := newStore(t, nil)
	ctx := context.Background()
	id := register(t, s, "alice", "alice@example.com")
	banned := register(t, s, "bob", "bob@example.com")
	users.Users[banned].IsBanned = true

	u, err := s.Authenticate(ctx, "alice", "pw-alice")
	if err != nil || u.ID != id {
		t.Fatalf("Authenticate: %v %v", u, err)
	}

	failures := []struct {
		name, username, password string
	}{
		{"unknown user", "nobody", "pw"},
		{"wrong password", "alice", "nope"},
		{"banned user with correct password", "bob", "pw-bob"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, credentials.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestSession_RoundTrip(t *testing.T) {
	s, _ := newStore(t, nil)
	tok, err := s.IssueSession(42)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	id, err := s.VerifySession(tok)
	if err != nil || id != 42 {
		t.Fatalf("VerifySession: %d %v", id, err)
	}
}

func TestSession_Expired(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	old, _ := newStore(t, past)
	tok, err := old.IssueSession(1)
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}

	s, _ := newStore(t, nil)
	if _, err := s.VerifySession(tok); !errors.Is(err, credentials.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession for expired token, got %v", err)
	}
}

func TestSession_Invalid(t *testing.T) {
	s, _ := newStore(t, nil)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}

	valid, _ := s.IssueSession(5)
	tampered := valid[:len(valid)-2] + "xx"

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"tampered signature", tampered},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "5", ExpiresAt: exp})},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte(secret), jwt.RegisteredClaims{Subject: "5", ExpiresAt: exp})},
		{"alg none", sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "5", ExpiresAt: exp})},
		{"missing expiry", sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "5"})},
		{"missing subject", sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{ExpiresAt: exp})},
		{"non numeric subject", sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "abc", ExpiresAt: exp})},
		{"zero subject", sign(jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "0", ExpiresAt: exp})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if strings.Contains(tt.name, "tampered") && tt.token == valid {
				t.Skip("tampering produced the same token")
			}
			_, err := s.VerifySession(tt.token)
			if !errors.Is(err, credentials.ErrInvalidSession) {
				t.Fatalf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}
