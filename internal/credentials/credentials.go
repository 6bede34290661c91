// Package credentials registers and authenticates users and issues the signed session tokens
// that identify them on later requests.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

var (
	// ErrInvalidCredentials covers unknown usernames, wrong passwords and banned accounts alike.
	ErrInvalidCredentials = apperr.Unauthenticated("invalid credentials or banned user")
	// ErrInvalidSession covers every token verification failure.
	ErrInvalidSession = apperr.Unauthenticated("invalid or expired token")

	errPasswordTooLong = apperr.Validation("password must be at most 72 bytes")
)

const DefaultTokenDuration = 7 * 24 * time.Hour

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Config is built once at startup and handed to New.
type Config struct {
	Secret        string
	TokenDuration time.Duration
	BcryptCost    int
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// UserStore is the slice of the user repository the store needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type Store struct {
	users     UserStore
	secret    []byte
	duration  time.Duration
	cost      int
	now       func() time.Time
	dummyHash []byte
}

func New(cfg Config, users UserStore) (*Store, error) {
	if cfg.Secret == "" {
		return nil, errors.New("credentials: empty signing secret")
	}
	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = DefaultTokenDuration
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("skillswap-dummy-password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return &Store{
		users:     users,
		secret:    []byte(cfg.Secret),
		duration:  cfg.TokenDuration,
		cost:      cfg.BcryptCost,
		now:       cfg.Now,
		dummyHash: dummy,
	}, nil
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Location string
}

// Register stores a new public, non-admin user and returns its id.
func (s *Store) Register(ctx context.Context, in RegisterInput) (int64, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return 0, apperr.Validation("missing required fields")
	}
	if len(in.Password) > MaxPasswordBytes {
		return 0, errPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, errPasswordTooLong
		}
		return 0, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	id, err := s.users.CreateUser(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Location:     in.Location,
		IsPublic:     true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperr.Conflict("username or email already exists")
		}
		return 0, apperr.Internal(err)
	}
	return id, nil
}

// Authenticate returns the user for a valid username/password pair.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBanned {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueSession signs an HS256 token whose subject is the user id.
func (s *Store) IssueSession(userID int64) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// VerifySession returns the user id carried by a valid token.
func (s *Store) VerifySession(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidSession
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSession
	}
	return id, nil
}
