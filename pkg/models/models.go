package models

// Domain models matching the database schema in db/migrations.
// Timestamps are unix milliseconds.

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Name         string `json:"name" db:"name"`
	Location     string `json:"location,omitempty" db:"location"`
	ProfilePhoto string `json:"profile_photo,omitempty" db:"profile_photo"`
	Bio          string `json:"bio,omitempty" db:"bio"`
	Availability string `json:"availability,omitempty" db:"availability"`
	IsPublic     bool   `json:"is_public" db:"is_public"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
	IsBanned     bool   `json:"is_banned" db:"is_banned"`
	Created      int64  `json:"created" db:"created"`
}

// ProfileUpdate carries the self-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio"`
	Availability *string `json:"availability"`
	IsPublic     *bool   `json:"is_public"`
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Bio == nil && p.Availability == nil && p.IsPublic == nil
}

type SkillKind string

const (
	SkillOffered SkillKind = "offered"
	SkillWanted  SkillKind = "wanted"
)

func (k SkillKind) Valid() bool {
	return k == SkillOffered || k == SkillWanted
}

type Skill struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	SkillName   string `json:"skill_name" db:"skill_name"`
	Description string `json:"description" db:"description"`
}

type SkillSet struct {
	Offered []Skill `json:"offered"`
	Wanted  []Skill `json:"wanted"`
}

type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapAccepted SwapStatus = "accepted"
	SwapRejected SwapStatus = "rejected"
)

// Terminal reports whether s is a status a pending swap may move to.
func (s SwapStatus) Terminal() bool {
	return s == SwapAccepted || s == SwapRejected
}

type SwapRequest struct {
	ID           int64      `json:"id" db:"id"`
	RequesterID  int64      `json:"requester_id" db:"requester_id"`
	ProviderID   int64      `json:"provider_id" db:"provider_id"`
	SkillOffered string     `json:"skill_offered" db:"skill_offered"`
	SkillWanted  string     `json:"skill_wanted" db:"skill_wanted"`
	Message      string     `json:"message" db:"message"`
	Status       SwapStatus `json:"status" db:"status"`
	Created      int64      `json:"created" db:"created"`
	Updated      int64      `json:"updated" db:"updated"`
}

// HasParty reports whether userID is the requester or the provider.
func (s *SwapRequest) HasParty(userID int64) bool {
	return s.RequesterID == userID || s.ProviderID == userID
}

// Counterparty returns the other party of the swap for userID.
func (s *SwapRequest) Counterparty(userID int64) int64 {
	if s.RequesterID == userID {
		return s.ProviderID
	}
	return s.RequesterID
}

// SwapView is a swap request enriched with both parties' display names.
type SwapView struct {
	SwapRequest
	RequesterName     string `json:"requester_name"`
	RequesterUsername string `json:"requester_username"`
	ProviderName      string `json:"provider_name"`
	ProviderUsername  string `json:"provider_username"`
}

type SwapLists struct {
	Sent     []SwapView `json:"sent"`
	Received []SwapView `json:"received"`
}

type Rating struct {
	ID            int64  `json:"id" db:"id"`
	SwapRequestID int64  `json:"swap_request_id" db:"swap_request_id"`
	RaterID       int64  `json:"rater_id" db:"rater_id"`
	RatedID       int64  `json:"rated_id" db:"rated_id"`
	Rating        int    `json:"rating" db:"rating"`
	Feedback      string `json:"feedback" db:"feedback"`
	Created       int64  `json:"created" db:"created"`
}

type RatingView struct {
	Rating
	RaterName string `json:"rater_name"`
}

type RatingSummary struct {
	Average float64 `json:"avg_rating"`
	Count   int64   `json:"count"`
}

type AdminMessage struct {
	ID      int64  `json:"id" db:"id"`
	Title   string `json:"title" db:"title"`
	Message string `json:"message" db:"message"`
	Created int64  `json:"created" db:"created"`
}
