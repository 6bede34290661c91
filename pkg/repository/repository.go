package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/skillswap/pkg/models"
)

// ErrDuplicate is returned (wrapped) when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error
	SetProfilePhoto(ctx context.Context, id int64, filename string) error
	SetBanned(ctx context.Context, id int64, banned bool) (bool, error)
	SetAdmin(ctx context.Context, id int64, admin bool) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
	SearchUsers(ctx context.Context, q string, limit, offset int) ([]models.User, error)
}

type SkillRepo interface {
	AddSkill(ctx context.Context, kind models.SkillKind, s *models.Skill) (int64, error)
	DeleteSkill(ctx context.Context, kind models.SkillKind, id, userID int64) error
	ListSkills(ctx context.Context, userID int64) (*models.SkillSet, error)
}

type SwapRepo interface {
	CreateSwap(ctx context.Context, s *models.SwapRequest) (int64, error)
	GetSwap(ctx context.Context, id int64) (*models.SwapRequest, error)
	// TransitionSwap moves a pending swap owned by providerID to status.
	// It reports whether a row changed.
	TransitionSwap(ctx context.Context, id, providerID int64, status models.SwapStatus) (bool, error)
	// DeletePendingSwap removes a pending swap owned by requesterID.
	// It reports whether a row was removed.
	DeletePendingSwap(ctx context.Context, id, requesterID int64) (bool, error)
	ListSentSwaps(ctx context.Context, userID int64) ([]models.SwapView, error)
	ListReceivedSwaps(ctx context.Context, userID int64) ([]models.SwapView, error)
}

type RatingRepo interface {
	CreateRating(ctx context.Context, r *models.Rating) (int64, error)
	AverageRating(ctx context.Context, userID int64) (*models.RatingSummary, error)
	ListRatingsFor(ctx context.Context, userID int64) ([]models.RatingView, error)
}

type MessageRepo interface {
	CreateMessage(ctx context.Context, m *models.AdminMessage) (int64, error)
	ListMessages(ctx context.Context) ([]models.AdminMessage, error)
}
