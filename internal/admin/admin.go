// Package admin implements moderation: user listing, ban and admin flags, and broadcast messages.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

type Service struct {
	users    repository.UserRepo
	messages repository.MessageRepo
	logger   *slog.Logger
}

func NewService(users repository.UserRepo, messages repository.MessageRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, messages: messages, logger: logger}
}

type UserPage struct {
	Users   []models.User `json:"users"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// ListUsers returns every user, newest first.
func (s *Service) ListUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	users, err := s.users.ListUsers(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &UserPage{Users: users, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) error {
	ok, err := s.users.SetBanned(ctx, userID, banned)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("user")
	}
	s.logger.Info("user ban status changed", slog.Int64("user_id", userID), slog.Bool("is_banned", banned))
	return nil
}

func (s *Service) SetAdmin(ctx context.Context, userID int64, admin bool) error {
	ok, err := s.users.SetAdmin(ctx, userID, admin)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("user")
	}
	s.logger.Info("user admin flag changed", slog.Int64("user_id", userID), slog.Bool("is_admin", admin))
	return nil
}

func (s *Service) PostMessage(ctx context.Context, title, message string) (int64, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return 0, apperr.Validation("title and message are required")
	}
	id, err := s.messages.CreateMessage(ctx, &models.AdminMessage{Title: title, Message: message})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return id, nil
}

// Messages lists broadcasts newest first.
func (s *Service) Messages(ctx context.Context) ([]models.AdminMessage, error) {
	msgs, err := s.messages.ListMessages(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msgs, nil
}

// Registrar is implemented by *credentials.Store.
type Registrar interface {
	Register(ctx context.Context, in credentials.RegisterInput) (int64, error)
}

// EnsureAdmin registers the account if needed and grants it the admin flag.
func (s *Service) EnsureAdmin(ctx context.Context, reg Registrar, in credentials.RegisterInput) (int64, error) {
	id, err := reg.Register(ctx, in)
	switch {
	case err == nil:
	case apperr.Is(err, apperr.KindConflict):
		u, lookupErr := s.users.GetUserByUsername(ctx, in.Username)
		if lookupErr != nil {
			return 0, apperr.Internal(lookupErr)
		}
		if u == nil {
			return 0, fmt.Errorf("admin %q: email already used by another account: %w", in.Username, err)
		}
		id = u.ID
	default:
		return 0, err
	}

	if err := s.SetAdmin(ctx, id, true); err != nil {
		return 0, err
	}
	return id, nil
}
