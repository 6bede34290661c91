// Package profiles assembles read views over users, skills and ratings.
package profiles

import (
	"context"
	"strings"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

// RatingReader is implemented by *ratings.Ledger.
type RatingReader interface {
	AverageFor(ctx context.Context, userID int64) (*models.RatingSummary, error)
	ListFor(ctx context.Context, userID int64) ([]models.RatingView, error)
}

type Facade struct {
	users   repository.UserRepo
	skills  repository.SkillRepo
	ratings RatingReader
}

func NewFacade(users repository.UserRepo, skills repository.SkillRepo, ratings RatingReader) *Facade {
	return &Facade{users: users, skills: skills, ratings: ratings}
}

type Profile struct {
	User          *models.User          `json:"user"`
	Skills        *models.SkillSet      `json:"skills"`
	Ratings       []models.RatingView   `json:"ratings"`
	AverageRating *models.RatingSummary `json:"average_rating"`
}

// SearchResult is the public projection of a user returned by Search.
type SearchResult struct {
	ID            int64                 `json:"id"`
	Username      string                `json:"username"`
	Name          string                `json:"name"`
	Location      string                `json:"location,omitempty"`
	ProfilePhoto  string                `json:"profile_photo,omitempty"`
	Bio           string                `json:"bio,omitempty"`
	Availability  string                `json:"availability,omitempty"`
	Skills        *models.SkillSet      `json:"skills"`
	AverageRating *models.RatingSummary `json:"average_rating"`
}

type SearchPage struct {
	Users   []SearchResult `json:"users"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func (f *Facade) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := f.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	skills, err := f.skills.ListSkills(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	list, err := f.ratings.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, err := f.ratings.AverageFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, Skills: skills, Ratings: list, AverageRating: avg}, nil
}

// Update applies the provided profile fields; an empty update is a no-op.
func (f *Facade) Update(ctx context.Context, userID int64, upd models.ProfileUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return apperr.Validation("name must not be empty")
	}
	if err := f.users.UpdateProfile(ctx, userID, upd); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Search finds public, non-banned users and enriches each with skills and average rating.
func (f *Facade) Search(ctx context.Context, q string, page, perPage int) (*SearchPage, error) {
	users, err := f.users.SearchUsers(ctx, strings.TrimSpace(q), perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	results := make([]SearchResult, 0, len(users))
	for _, u := range users {
		skills, err := f.skills.ListSkills(ctx, u.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		avg, err := f.ratings.AverageFor(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{
			ID:            u.ID,
			Username:      u.Username,
			Name:          u.Name,
			Location:      u.Location,
			ProfilePhoto:  u.ProfilePhoto,
			Bio:           u.Bio,
			Availability:  u.Availability,
			Skills:        skills,
			AverageRating: avg,
		})
	}
	return &SearchPage{Users: results, Page: page, PerPage: perPage}, nil
}
