// Package guard resolves the principal of a request through an explicit, ordered list of stages.
package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
)

// Stage inspects a request and returns the context for the next stage, or an error to stop.
type Stage func(ctx context.Context, r *http.Request) (context.Context, error)

// Pipeline runs stages in order and stops at the first error.
type Pipeline []Stage

func (p Pipeline) Run(ctx context.Context, r *http.Request) (context.Context, error) {
	for _, stage := range p {
		var err error
		if ctx, err = stage(ctx, r); err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

// Then returns a new pipeline with more stages appended.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal binds the authenticated user id to ctx.
func WithPrincipal(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, principalKey, userID)
}

// PrincipalFrom returns the user id bound by WithPrincipal.
func PrincipalFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(principalKey).(int64)
	return id, ok && id > 0
}

// SessionVerifier turns a session token into a user id.
type SessionVerifier interface {
	VerifySession(token string) (int64, error)
}

// UserLoader loads a user by id; (nil, nil) means not found.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// BearerToken extracts the token from an Authorization header value.
// The "Bearer " prefix is optional and matched case-insensitively.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Authenticate verifies the Authorization header and binds the principal.
func Authenticate(v SessionVerifier) Stage {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		token := BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			return ctx, apperr.Unauthenticated("token is missing")
		}
		id, err := v.VerifySession(token)
		if err != nil {
			return ctx, apperr.Unauthenticated("token is invalid")
		}
		return WithPrincipal(ctx, id), nil
	}
}

// RequireAdmin loads the principal's user on every call and rejects non-admins.
func RequireAdmin(users UserLoader) Stage {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		id, ok := PrincipalFrom(ctx)
		if !ok {
			return ctx, apperr.Unauthenticated("token is missing")
		}
		u, err := users.GetUserByID(ctx, id)
		if err != nil {
			return ctx, apperr.Internal(err)
		}
		if u == nil || !u.IsAdmin {
			return ctx, apperr.Forbidden("admin access required")
		}
		return ctx, nil
	}
}
