package profiles_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/profiles"
	"github.com/garnizeh/skillswap/internal/ratings"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository/mock"
)

func setup(t *testing.T) (*profiles.Facade, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	return profiles.NewFacade(store, store, ratings.NewLedger(store, store, nil)), store
}

func TestProfile(t *testing.T) {
	f, store := setup(t)
	ctx := context.Background()

	alice, _ := store.CreateUser(ctx, &models.User{Username: "alice", Email: "a@e", Name: "Alice", PasswordHash: "secret-hash", IsPublic: true})
	bob, _ := store.CreateUser(ctx, &models.User{Username: "bob", Email: "b@e", Name: "Bob", IsPublic: true})
	_, err := store.AddSkill(ctx, models.SkillOffered, &models.Skill{UserID: alice, SkillName: "Go"})
	require.NoError(t, err)
	sw, _ := store.CreateSwap(ctx, &models.SwapRequest{RequesterID: bob, ProviderID: alice, SkillOffered: "x", SkillWanted: "Go"})
	_, _ = store.TransitionSwap(ctx, sw, alice, models.SwapAccepted)
	_, err = store.CreateRating(ctx, &models.Rating{SwapRequestID: sw, RaterID: bob, RatedID: alice, Rating: 4})
	require.NoError(t, err)

	p, err := f.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.User.Username)
	assert.Len(t, p.Skills.Offered, 1)
	require.Len(t, p.Ratings, 1)
	assert.Equal(t, "Bob", p.Ratings[0].RaterName)
	assert.Equal(t, int64(1), p.AverageRating.Count)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "secret-hash"), "password hash leaked: %s", raw)
	assert.Contains(t, string(raw), `"avg_rating":4`)

	_, err = f.Profile(ctx, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdate(t *testing.T) {
	f, store := setup(t)
	ctx := context.Background()
	id, _ := store.CreateUser(ctx, &models.User{Username: "alice", Email: "a@e", Name: "Alice", Location: "Porto", IsPublic: true})

	bio := "hello"
	private := false
	require.NoError(t, f.Update(ctx, id, models.ProfileUpdate{Bio: &bio, IsPublic: &private}))
	require.NoError(t, f.Update(ctx, id, models.ProfileUpdate{}))

	u := store.Users[id]
	assert.Equal(t, "hello", u.Bio)
	assert.False(t, u.IsPublic)
	assert.Equal(t, "Porto", u.Location)
	assert.Equal(t, "Alice", u.Name)

	blank := " "
	err := f.Update(ctx, id, models.ProfileUpdate{Name: &blank})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSearch(t *testing.T) {
	f, store := setup(t)
	ctx := context.Background()
	a, _ := store.CreateUser(ctx, &models.User{Username: "a", Email: "a@e", Name: "Ana", IsPublic: true})
	b, _ := store.CreateUser(ctx, &models.User{Username: "b", Email: "b@e", Name: "Bruno", IsPublic: true})
	_, _ = store.CreateUser(ctx, &models.User{Username: "c", Email: "c@e", Name: "Carla", IsPublic: false})
	_, _ = store.AddSkill(ctx, models.SkillWanted, &models.Skill{UserID: b, SkillName: "Cooking"})
	_, _ = store.AddSkill(ctx, models.SkillOffered, &models.Skill{UserID: a, SkillName: "cooking"})

	res, err := f.Search(ctx, "cook", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Users, 2)
	assert.Equal(t, a, res.Users[0].ID)
	assert.Len(t, res.Users[0].Skills.Offered, 1)
	assert.NotNil(t, res.Users[1].AverageRating)

	res, err = f.Search(ctx, "", 2, 1)
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, b, res.Users[0].ID)
	assert.Equal(t, 2, res.Page)

	store.Err = errors.New("db down")
	_, err = f.Search(ctx, "", 1, 10)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
