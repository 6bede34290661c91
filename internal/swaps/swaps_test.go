package swaps_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/internal/swaps"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	store                    *mock.Store
	mgr                      *swaps.Manager
	alice, bob, carol, trent int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := mock.NewStore()
	f := &fixture{store: store, mgr: swaps.NewManager(store, store, nil)}
	var err error
	f.alice, err = store.CreateUser(ctx, &models.User{Username: "alice", Email: "a@e", Name: "Alice"})
	require.NoError(t, err)
	f.bob, err = store.CreateUser(ctx, &models.User{Username: "bob", Email: "b@e", Name: "Bob"})
	require.NoError(t, err)
	f.carol, err = store.CreateUser(ctx, &models.User{Username: "carol", Email: "c@e", Name: "Carol"})
	require.NoError(t, err)
	f.trent, err = store.CreateUser(ctx, &models.User{Username: "trent", Email: "t@e", Name: "Trent", IsBanned: true})
	require.NoError(t, err)
	return f
}

func (f *fixture) create(t *testing.T, requester, provider int64) int64 {
	t.Helper()
	id, err := f.mgr.Create(context.Background(), swaps.CreateInput{RequesterID: requester, ProviderID: provider, SkillOffered: "Go", SkillWanted: "Piano"})
	require.NoError(t, err)
	return id
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.create(t, f.alice, f.bob)
	s, err := f.mgr.Get(ctx, id, f.alice)
	require.NoError(t, err)
	assert.Equal(t, models.SwapPending, s.Status)
	assert.Equal(t, f.bob, s.ProviderID)

	tests := []struct {
		name string
		in   swaps.CreateInput
		kind apperr.Kind
	}{
		{"missing provider", swaps.CreateInput{RequesterID: f.alice, SkillOffered: "a", SkillWanted: "b"}, apperr.KindValidation},
		{"missing skill offered", swaps.CreateInput{RequesterID: f.alice, ProviderID: f.bob, SkillWanted: "b"}, apperr.KindValidation},
		{"blank skill wanted", swaps.CreateInput{RequesterID: f.alice, ProviderID: f.bob, SkillOffered: "a", SkillWanted: " "}, apperr.KindValidation},
		{"self swap", swaps.CreateInput{RequesterID: f.alice, ProviderID: f.alice, SkillOffered: "a", SkillWanted: "b"}, apperr.KindValidation},
		{"unknown provider", swaps.CreateInput{RequesterID: f.alice, ProviderID: 999, SkillOffered: "a", SkillWanted: "b"}, apperr.KindNotFound},
		{"banned provider", swaps.CreateInput{RequesterID: f.alice, ProviderID: f.trent, SkillOffered: "a", SkillWanted: "b"}, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.mgr.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
	assert.Len(t, f.store.Swaps, 1)
}

func TestTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, f.alice, f.bob)

	err := f.mgr.Transition(ctx, id, models.SwapStatus("done"), f.bob)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	err = f.mgr.Transition(ctx, id, models.SwapPending, f.bob)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = f.mgr.Transition(ctx, id, models.SwapAccepted, f.alice)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	err = f.mgr.Transition(ctx, id, models.SwapAccepted, f.carol)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	err = f.mgr.Transition(ctx, 999, models.SwapAccepted, f.bob)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, models.SwapPending, f.store.Swaps[id].Status)

	require.NoError(t, f.mgr.Transition(ctx, id, models.SwapAccepted, f.bob))
	assert.Equal(t, models.SwapAccepted, f.store.Swaps[id].Status)

	err = f.mgr.Transition(ctx, id, models.SwapRejected, f.bob)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
	assert.Equal(t, models.SwapAccepted, f.store.Swaps[id].Status)
}

func TestTransition_ConcurrentFirstWins(t *testing.T) {
	f := newFixture(t)
	id := f.create(t, f.alice, f.bob)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, status := range []models.SwapStatus{models.SwapAccepted, models.SwapRejected} {
		wg.Add(1)
		go func(i int, status models.SwapStatus) {
			defer wg.Done()
			results[i] = f.mgr.Transition(context.Background(), id, status, f.bob)
		}(i, status)
	}
	wg.Wait()

	var ok, invalid int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) == apperr.KindInvalidState:
			invalid++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, invalid)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.create(t, f.alice, f.bob)
	accepted := f.create(t, f.alice, f.bob)
	require.NoError(t, f.mgr.Transition(ctx, accepted, models.SwapAccepted, f.bob))

	cases := []struct {
		name    string
		swapID  int64
		actor   int64
		removed bool
	}{
		{name: "non-requester is a no-op", swapID: pending, actor: f.bob},
		{name: "not pending is a no-op", swapID: accepted, actor: f.alice},
		{name: "missing is a no-op", swapID: 999, actor: f.alice},
		{name: "requester removes pending", swapID: pending, actor: f.alice, removed: true},
		{name: "second delete is a no-op", swapID: pending, actor: f.alice},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			removed, err := f.mgr.Delete(ctx, c.swapID, c.actor)
			require.NoError(t, err)
			assert.Equal(t, c.removed, removed)
		})
	}
	assert.NotContains(t, f.store.Swaps, pending)
	assert.Contains(t, f.store.Swaps, accepted)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.create(t, f.alice, f.bob)
	s2 := f.create(t, f.alice, f.carol)
	r1 := f.create(t, f.carol, f.alice)
	f.create(t, f.bob, f.carol)

	lists, err := f.mgr.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, lists.Sent, 2)
	require.Len(t, lists.Received, 1)
	assert.Equal(t, s2, lists.Sent[0].ID)
	assert.Equal(t, s1, lists.Sent[1].ID)
	assert.Equal(t, r1, lists.Received[0].ID)
	assert.Equal(t, "carol", lists.Received[0].RequesterUsername)

	seen := map[int64]bool{}
	for _, v := range append(lists.Sent, lists.Received...) {
		assert.False(t, seen[v.ID], "swap %d listed twice", v.ID)
		seen[v.ID] = true
	}
}

func TestGet_HidesFromOutsiders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, f.alice, f.bob)

	_, err := f.mgr.Get(ctx, id, f.bob)
	require.NoError(t, err)
	_, err = f.mgr.Get(ctx, id, f.carol)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStoreFailuresAreInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.create(t, f.alice, f.bob)
	f.store.Err = errors.New("db down")

	_, err := f.mgr.Create(ctx, swaps.CreateInput{RequesterID: f.alice, ProviderID: f.bob, SkillOffered: "a", SkillWanted: "b"})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(f.mgr.Transition(ctx, id, models.SwapAccepted, f.bob)))
	_, err = f.mgr.Delete(ctx, id, f.alice)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	_, err = f.mgr.List(ctx, f.alice)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
