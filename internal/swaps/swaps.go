// Package swaps implements the swap request state machine.
//
// A swap starts pending and moves once to accepted or rejected, only by its provider.
// The requester may delete it while it is still pending.
package swaps

import (
	"context"
	"log/slog"
	"strings"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type Manager struct {
	swaps  repository.SwapRepo
	users  UserLoader
	logger *slog.Logger
}

func NewManager(swaps repository.SwapRepo, users UserLoader, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{swaps: swaps, users: users, logger: logger}
}

type CreateInput struct {
	RequesterID  int64
	ProviderID   int64
	SkillOffered string
	SkillWanted  string
	Message      string
}

// Create opens a pending swap request from the requester to the provider.
func (m *Manager) Create(ctx context.Context, in CreateInput) (int64, error) {
	if in.ProviderID <= 0 || strings.TrimSpace(in.SkillOffered) == "" || strings.TrimSpace(in.SkillWanted) == "" {
		return 0, apperr.Validation("missing required fields")
	}
	if in.ProviderID == in.RequesterID {
		return 0, apperr.Validation("cannot request a swap with yourself")
	}

	provider, err := m.users.GetUserByID(ctx, in.ProviderID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if provider == nil || provider.IsBanned {
		return 0, apperr.NotFound("provider")
	}

	id, err := m.swaps.CreateSwap(ctx, &models.SwapRequest{
		RequesterID:  in.RequesterID,
		ProviderID:   in.ProviderID,
		SkillOffered: in.SkillOffered,
		SkillWanted:  in.SkillWanted,
		Message:      in.Message,
	})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	m.logger.Info("swap request created", slog.Int64("swap_id", id), slog.Int64("requester_id", in.RequesterID), slog.Int64("provider_id", in.ProviderID))
	return id, nil
}

// Transition accepts or rejects a pending swap on behalf of its provider.
func (m *Manager) Transition(ctx context.Context, swapID int64, status models.SwapStatus, actingUserID int64) error {
	if !status.Terminal() {
		return apperr.Validation("invalid status")
	}

	ok, err := m.swaps.TransitionSwap(ctx, swapID, actingUserID, status)
	if err != nil {
		return apperr.Internal(err)
	}
	if ok {
		m.logger.Info("swap request transitioned", slog.Int64("swap_id", swapID), slog.String("status", string(status)))
		return nil
	}

	s, err := m.swaps.GetSwap(ctx, swapID)
	if err != nil {
		return apperr.Internal(err)
	}
	switch {
	case s == nil:
		return apperr.NotFound("swap request")
	case s.ProviderID != actingUserID:
		return apperr.Forbidden("only the provider can change the status")
	default:
		return apperr.InvalidState("swap request is already " + string(s.Status))
	}
}

// Delete removes a pending swap owned by the requester and reports whether a row went away.
// Any other case is a silent no-op.
func (m *Manager) Delete(ctx context.Context, swapID, actingUserID int64) (bool, error) {
	removed, err := m.swaps.DeletePendingSwap(ctx, swapID, actingUserID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	if removed {
		m.logger.Info("swap request deleted", slog.Int64("swap_id", swapID))
	}
	return removed, nil
}

// List returns the swaps the user sent and received, newest first.
func (m *Manager) List(ctx context.Context, userID int64) (*models.SwapLists, error) {
	sent, err := m.swaps.ListSentSwaps(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	received, err := m.swaps.ListReceivedSwaps(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.SwapLists{Sent: sent, Received: received}, nil
}

// Get returns a swap visible to one of its parties. Others get NotFound.
func (m *Manager) Get(ctx context.Context, swapID, actingUserID int64) (*models.SwapRequest, error) {
	s, err := m.swaps.GetSwap(ctx, swapID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if s == nil || !s.HasParty(actingUserID) {
		return nil, apperr.NotFound("swap request")
	}
	return s, nil
}
