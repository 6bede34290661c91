// Package ratings records ratings between the parties of accepted swaps.
package ratings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

const (
	MinScore = 1
	MaxScore = 5
)

type SwapLoader interface {
	GetSwap(ctx context.Context, id int64) (*models.SwapRequest, error)
}

type Ledger struct {
	ratings repository.RatingRepo
	swaps   SwapLoader
	logger  *slog.Logger
}

func NewLedger(ratings repository.RatingRepo, swaps SwapLoader, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{ratings: ratings, swaps: swaps, logger: logger}
}

type AddInput struct {
	SwapRequestID int64
	RaterID       int64
	RatedID       int64
	Score         int
	Feedback      string
}

// Add records the rater's rating of the other party of an accepted swap.
// The checks and the insert are not atomic.
func (l *Ledger) Add(ctx context.Context, in AddInput) (int64, error) {
	if in.Score < MinScore || in.Score > MaxScore {
		return 0, apperr.Validation("rating must be between 1 and 5")
	}

	s, err := l.swaps.GetSwap(ctx, in.SwapRequestID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	if s == nil {
		return 0, apperr.NotFound("swap request")
	}
	if !s.HasParty(in.RaterID) {
		return 0, apperr.Forbidden("only swap participants can rate")
	}
	if in.RatedID != s.Counterparty(in.RaterID) {
		return 0, apperr.Validation("rated user must be the other participant")
	}
	if s.Status != models.SwapAccepted {
		return 0, apperr.InvalidState("only accepted swaps can be rated")
	}

	id, err := l.ratings.CreateRating(ctx, &models.Rating{
		SwapRequestID: in.SwapRequestID,
		RaterID:       in.RaterID,
		RatedID:       in.RatedID,
		Rating:        in.Score,
		Feedback:      in.Feedback,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperr.Conflict("swap already rated")
		}
		return 0, apperr.Internal(err)
	}
	l.logger.Info("rating added", slog.Int64("rating_id", id), slog.Int64("swap_id", in.SwapRequestID))
	return id, nil
}

// AverageFor returns the mean score and count of ratings received; (0, 0) when none.
func (l *Ledger) AverageFor(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	s, err := l.ratings.AverageRating(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s, nil
}

// ListFor returns ratings received by the user, newest first.
func (l *Ledger) ListFor(ctx context.Context, userID int64) ([]models.RatingView, error) {
	list, err := l.ratings.ListRatingsFor(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return list, nil
}
