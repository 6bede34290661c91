// Package seed fills a database with fake users, skills and swaps for demos and local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/credentials"
	"github.com/garnizeh/skillswap/internal/swaps"
	"github.com/garnizeh/skillswap/pkg/models"
)

var skillNames = []string{
	"Guitar", "Piano", "Spanish", "French", "Go programming", "Python", "Photography",
	"Cooking", "Baking", "Yoga", "Drawing", "Woodworking", "Gardening", "Chess", "Public speaking",
}

var availabilities = []string{"weekends", "evenings", "weekday mornings", "flexible"}

type Registrar interface {
	Register(ctx context.Context, in credentials.RegisterInput) (int64, error)
}

type SkillAdder interface {
	Add(ctx context.Context, kind models.SkillKind, userID int64, name, description string) (int64, error)
}

type ProfileUpdater interface {
	Update(ctx context.Context, userID int64, upd models.ProfileUpdate) error
}

type SwapOpener interface {
	Create(ctx context.Context, in swaps.CreateInput) (int64, error)
	Transition(ctx context.Context, swapID int64, status models.SwapStatus, actingUserID int64) error
}

type Options struct {
	Users    int
	Password string
	Seed     int64
}

type Result struct {
	UserIDs []int64
	Swaps   int
}

// Factory builds demo data through the same services the API uses.
type Factory struct {
	creds    Registrar
	skills   SkillAdder
	profiles ProfileUpdater
	swaps    SwapOpener
	logger   *slog.Logger
}

func NewFactory(creds Registrar, skills SkillAdder, profiles ProfileUpdater, swaps SwapOpener, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{creds: creds, skills: skills, profiles: profiles, swaps: swaps, logger: logger}
}

// Run creates opts.Users users, each with skills, then chains swap requests between
// neighbours and accepts every third one.
func (f *Factory) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Users <= 0 {
		return nil, apperr.Validation("users must be positive")
	}
	if opts.Password == "" {
		opts.Password = "password123"
	}
	faker := gofakeit.New(opts.Seed)

	res := &Result{}
	for i := 0; i < opts.Users; i++ {
		id, err := f.createUser(ctx, faker, opts.Password)
		if err != nil {
			return res, err
		}
		res.UserIDs = append(res.UserIDs, id)
	}

	n := len(res.UserIDs)
	if n < 2 {
		return res, nil
	}
	for i, requester := range res.UserIDs {
		provider := res.UserIDs[(i+1)%n]
		swapID, err := f.swaps.Create(ctx, swaps.CreateInput{
			RequesterID:  requester,
			ProviderID:   provider,
			SkillOffered: faker.RandomString(skillNames),
			SkillWanted:  faker.RandomString(skillNames),
			Message:      faker.Sentence(8),
		})
		if err != nil {
			return res, fmt.Errorf("seed swap: %w", err)
		}
		res.Swaps++
		if i%3 == 0 {
			if err := f.swaps.Transition(ctx, swapID, models.SwapAccepted, provider); err != nil {
				return res, fmt.Errorf("seed accept swap: %w", err)
			}
		}
	}
	f.logger.Info("demo data seeded", slog.Int("users", n), slog.Int("swaps", res.Swaps))
	return res, nil
}

func (f *Factory) createUser(ctx context.Context, faker *gofakeit.Faker, password string) (int64, error) {
	const attempts = 5
	for try := 0; try < attempts; try++ {
		username := fmt.Sprintf("%s%d", faker.Username(), faker.Number(100, 999))
		id, err := f.creds.Register(ctx, credentials.RegisterInput{
			Username: username,
			Email:    username + "@example.com",
			Password: password,
			Name:     faker.Name(),
			Location: faker.City(),
		})
		if apperr.Is(err, apperr.KindConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("seed user: %w", err)
		}

		bio := faker.Sentence(10)
		availability := faker.RandomString(availabilities)
		if err := f.profiles.Update(ctx, id, models.ProfileUpdate{Bio: &bio, Availability: &availability}); err != nil {
			return 0, fmt.Errorf("seed profile: %w", err)
		}
		for k := 0; k < faker.Number(1, 3); k++ {
			if _, err := f.skills.Add(ctx, models.SkillOffered, id, faker.RandomString(skillNames), faker.Sentence(6)); err != nil {
				return 0, fmt.Errorf("seed skill: %w", err)
			}
		}
		if _, err := f.skills.Add(ctx, models.SkillWanted, id, faker.RandomString(skillNames), ""); err != nil {
			return 0, fmt.Errorf("seed skill: %w", err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("seed user: no free username after %d attempts", attempts)
}
