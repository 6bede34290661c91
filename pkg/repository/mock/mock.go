// Package mock provides an in-memory implementation of the repository interfaces for tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

var (
	_ repository.UserRepo    = (*Store)(nil)
	_ repository.SkillRepo   = (*Store)(nil)
	_ repository.SwapRepo    = (*Store)(nil)
	_ repository.RatingRepo  = (*Store)(nil)
	_ repository.MessageRepo = (*Store)(nil)
)

// Store keeps every aggregate in maps. Setting Err makes every call fail with it.
type Store struct {
	mu sync.Mutex

	Err error

	nextID   int64
	clock    int64
	Users    map[int64]*models.User
	Skills   map[models.SkillKind]map[int64]*models.Skill
	Swaps    map[int64]*models.SwapRequest
	Ratings  map[int64]*models.Rating
	Messages map[int64]*models.AdminMessage
}

func NewStore() *Store {
	return &Store{
		Users: map[int64]*models.User{},
		Skills: map[models.SkillKind]map[int64]*models.Skill{
			models.SkillOffered: {},
			models.SkillWanted:  {},
		},
		Swaps:    map[int64]*models.SwapRequest{},
		Ratings:  map[int64]*models.Rating{},
		Messages: map[int64]*models.AdminMessage{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// tick returns a strictly increasing fake timestamp.
func (s *Store) tick() int64 {
	s.clock++
	return s.clock
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, existing := range s.Users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return 0, fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	c := *u
	c.ID = s.id()
	c.Created = s.tick()
	s.Users[c.ID] = &c
	return c.ID, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if u, ok := s.Users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.Users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	u, ok := s.Users[id]
	if !ok {
		return nil
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Availability != nil {
		u.Availability = *upd.Availability
	}
	if upd.IsPublic != nil {
		u.IsPublic = *upd.IsPublic
	}
	return nil
}

func (s *Store) SetProfilePhoto(ctx context.Context, id int64, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if u, ok := s.Users[id]; ok {
		u.ProfilePhoto = filename
	}
	return nil
}

func (s *Store) SetBanned(ctx context.Context, id int64, banned bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	u, ok := s.Users[id]
	if ok {
		u.IsBanned = banned
	}
	return ok, nil
}

func (s *Store) SetAdmin(ctx context.Context, id int64, admin bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	u, ok := s.Users[id]
	if ok {
		u.IsAdmin = admin
	}
	return ok, nil
}

func (s *Store) sortedUsers(desc bool) []models.User {
	out := make([]models.User, 0, len(s.Users))
	for _, u := range s.Users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return page(s.sortedUsers(true), limit, offset), nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.Users)), nil
}

func (s *Store) SearchUsers(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q = strings.ToLower(q)
	match := func(v string) bool { return strings.Contains(strings.ToLower(v), q) }

	var out []models.User
	for _, u := range s.sortedUsers(false) {
		if !u.IsPublic || u.IsBanned {
			continue
		}
		hit := match(u.Name) || (u.Location != "" && match(u.Location))
		for _, skills := range s.Skills {
			for _, sk := range skills {
				if sk.UserID == u.ID && match(sk.SkillName) {
					hit = true
				}
			}
		}
		if hit {
			out = append(out, u)
		}
	}
	return page(out, limit, offset), nil
}

func (s *Store) AddSkill(ctx context.Context, kind models.SkillKind, sk *models.Skill) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown skill kind %q", kind)
	}
	c := *sk
	c.ID = s.id()
	s.Skills[kind][c.ID] = &c
	return c.ID, nil
}

func (s *Store) DeleteSkill(ctx context.Context, kind models.SkillKind, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if sk, ok := s.Skills[kind][id]; ok && sk.UserID == userID {
		delete(s.Skills[kind], id)
	}
	return nil
}

func (s *Store) ListSkills(ctx context.Context, userID int64) (*models.SkillSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	collect := func(kind models.SkillKind) []models.Skill {
		out := []models.Skill{}
		for _, sk := range s.Skills[kind] {
			if sk.UserID == userID {
				out = append(out, *sk)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}
	return &models.SkillSet{Offered: collect(models.SkillOffered), Wanted: collect(models.SkillWanted)}, nil
}

func (s *Store) CreateSwap(ctx context.Context, sw *models.SwapRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	c := *sw
	c.ID = s.id()
	c.Status = models.SwapPending
	c.Created = s.tick()
	c.Updated = c.Created
	s.Swaps[c.ID] = &c
	return c.ID, nil
}

func (s *Store) GetSwap(ctx context.Context, id int64) (*models.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if sw, ok := s.Swaps[id]; ok {
		c := *sw
		return &c, nil
	}
	return nil, nil
}

func (s *Store) TransitionSwap(ctx context.Context, id, providerID int64, status models.SwapStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	sw, ok := s.Swaps[id]
	if !ok || sw.ProviderID != providerID || sw.Status != models.SwapPending {
		return false, nil
	}
	sw.Status = status
	sw.Updated = s.tick()
	return true, nil
}

func (s *Store) DeletePendingSwap(ctx context.Context, id, requesterID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	sw, ok := s.Swaps[id]
	if !ok || sw.RequesterID != requesterID || sw.Status != models.SwapPending {
		return false, nil
	}
	delete(s.Swaps, id)
	return true, nil
}

func (s *Store) ListSentSwaps(ctx context.Context, userID int64) ([]models.SwapView, error) {
	return s.listSwaps(func(sw *models.SwapRequest) bool { return sw.RequesterID == userID })
}

func (s *Store) ListReceivedSwaps(ctx context.Context, userID int64) ([]models.SwapView, error) {
	return s.listSwaps(func(sw *models.SwapRequest) bool { return sw.ProviderID == userID })
}

func (s *Store) listSwaps(keep func(*models.SwapRequest) bool) ([]models.SwapView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.SwapView{}
	for _, sw := range s.Swaps {
		if !keep(sw) {
			continue
		}
		v := models.SwapView{SwapRequest: *sw}
		if u, ok := s.Users[sw.RequesterID]; ok {
			v.RequesterName, v.RequesterUsername = u.Name, u.Username
		}
		if u, ok := s.Users[sw.ProviderID]; ok {
			v.ProviderName, v.ProviderUsername = u.Name, u.Username
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateRating(ctx context.Context, r *models.Rating) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	for _, existing := range s.Ratings {
		if existing.SwapRequestID == r.SwapRequestID && existing.RaterID == r.RaterID {
			return 0, fmt.Errorf("create rating: %w", repository.ErrDuplicate)
		}
	}
	c := *r
	c.ID = s.id()
	c.Created = s.tick()
	s.Ratings[c.ID] = &c
	return c.ID, nil
}

func (s *Store) AverageRating(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var sum models.RatingSummary
	var total int
	for _, r := range s.Ratings {
		if r.RatedID == userID {
			total += r.Rating
			sum.Count++
		}
	}
	if sum.Count > 0 {
		sum.Average = float64(total) / float64(sum.Count)
	}
	return &sum, nil
}

func (s *Store) ListRatingsFor(ctx context.Context, userID int64) ([]models.RatingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.RatingView{}
	for _, r := range s.Ratings {
		if r.RatedID != userID {
			continue
		}
		v := models.RatingView{Rating: *r}
		if u, ok := s.Users[r.RaterID]; ok {
			v.RaterName = u.Name
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) CreateMessage(ctx context.Context, m *models.AdminMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	c := *m
	c.ID = s.id()
	c.Created = s.tick()
	s.Messages[c.ID] = &c
	return c.ID, nil
}

func (s *Store) ListMessages(ctx context.Context) ([]models.AdminMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.AdminMessage{}
	for _, m := range s.Messages {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
