// Package skills manages the skills a user offers and wants.
package skills

import (
	"context"
	"strings"

	"github.com/garnizeh/skillswap/internal/apperr"
	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

type Service struct {
	repo repository.SkillRepo
}

func NewService(repo repository.SkillRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Add(ctx context.Context, kind models.SkillKind, userID int64, name, description string) (int64, error) {
	if !kind.Valid() {
		return 0, apperr.Validation("unknown skill kind")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperr.Validation("skill name required")
	}
	id, err := s.repo.AddSkill(ctx, kind, &models.Skill{UserID: userID, SkillName: name, Description: description})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return id, nil
}

// Remove deletes the skill when userID owns it and does nothing otherwise.
func (s *Service) Remove(ctx context.Context, kind models.SkillKind, userID, skillID int64) error {
	if !kind.Valid() {
		return apperr.Validation("unknown skill kind")
	}
	if err := s.repo.DeleteSkill(ctx, kind, skillID, userID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
