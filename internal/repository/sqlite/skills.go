package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/skillswap/pkg/models"
)

func skillTable(kind models.SkillKind) (string, error) {
	switch kind {
	case models.SkillOffered:
		return "skills_offered", nil
	case models.SkillWanted:
		return "skills_wanted", nil
	}
	return "", fmt.Errorf("unknown skill kind %q", kind)
}

func (r *SQLiteRepo) AddSkill(ctx context.Context, kind models.SkillKind, s *models.Skill) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("skill is nil")
	}
	table, err := skillTable(kind)
	if err != nil {
		return 0, err
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO `+table+` (user_id, skill_name, description) VALUES (?, ?, ?)`, s.UserID, s.SkillName, s.Description)
	if err != nil {
		return 0, fmt.Errorf("add %s skill: %w", kind, err)
	}
	return res.LastInsertId()
}

// DeleteSkill removes the skill only when it belongs to userID.
func (r *SQLiteRepo) DeleteSkill(ctx context.Context, kind models.SkillKind, id, userID int64) error {
	table, err := skillTable(kind)
	if err != nil {
		return err
	}
	if _, err := r.conn.Exec(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("delete %s skill %d: %w", kind, id, err)
	}
	return nil
}

func (r *SQLiteRepo) ListSkills(ctx context.Context, userID int64) (*models.SkillSet, error) {
	offered, err := r.listSkills(ctx, "skills_offered", userID)
	if err != nil {
		return nil, err
	}
	wanted, err := r.listSkills(ctx, "skills_wanted", userID)
	if err != nil {
		return nil, err
	}
	return &models.SkillSet{Offered: offered, Wanted: wanted}, nil
}

func (r *SQLiteRepo) listSkills(ctx context.Context, table string, userID int64) ([]models.Skill, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, skill_name, description FROM `+table+` WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.SkillName, &s.Description); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}
