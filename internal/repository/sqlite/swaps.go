package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/skillswap/pkg/models"
)

const swapColumns = `sr.id, sr.requester_id, sr.provider_id, sr.skill_offered, sr.skill_wanted, sr.message, sr.status, sr.created, sr.updated`

func (r *SQLiteRepo) CreateSwap(ctx context.Context, s *models.SwapRequest) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("swap request is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO swap_requests (requester_id, provider_id, skill_offered, skill_wanted, message, status, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RequesterID, s.ProviderID, s.SkillOffered, s.SkillWanted, s.Message, models.SwapPending, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("create swap request: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSwap(ctx context.Context, id int64) (*models.SwapRequest, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests sr WHERE sr.id = ?`, id)
	var s models.SwapRequest
	if err := row.Scan(&s.ID, &s.RequesterID, &s.ProviderID, &s.SkillOffered, &s.SkillWanted, &s.Message, &s.Status, &s.Created, &s.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get swap request %d: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteRepo) TransitionSwap(ctx context.Context, id, providerID int64, status models.SwapStatus) (bool, error) {
	res, err := r.conn.Exec(ctx, `UPDATE swap_requests SET status = ?, updated = ? WHERE id = ? AND provider_id = ? AND status = ?`,
		status, now(), id, providerID, models.SwapPending)
	if err != nil {
		return false, fmt.Errorf("transition swap request %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) DeletePendingSwap(ctx context.Context, id, requesterID int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM swap_requests WHERE id = ? AND requester_id = ? AND status = ?`, id, requesterID, models.SwapPending)
	if err != nil {
		return false, fmt.Errorf("delete swap request %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) ListSentSwaps(ctx context.Context, userID int64) ([]models.SwapView, error) {
	return r.listSwaps(ctx, "sr.requester_id", userID)
}

func (r *SQLiteRepo) ListReceivedSwaps(ctx context.Context, userID int64) ([]models.SwapView, error) {
	return r.listSwaps(ctx, "sr.provider_id", userID)
}

func (r *SQLiteRepo) listSwaps(ctx context.Context, ownerColumn string, userID int64) ([]models.SwapView, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+swapColumns+`, rq.name, rq.username, pv.name, pv.username
		FROM swap_requests sr
		JOIN users rq ON rq.id = sr.requester_id
		JOIN users pv ON pv.id = sr.provider_id
		WHERE `+ownerColumn+` = ?
		ORDER BY sr.created DESC, sr.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list swap requests: %w", err)
	}
	defer rows.Close()

	views := []models.SwapView{}
	for rows.Next() {
		var v models.SwapView
		if err := rows.Scan(&v.ID, &v.RequesterID, &v.ProviderID, &v.SkillOffered, &v.SkillWanted, &v.Message, &v.Status, &v.Created, &v.Updated,
			&v.RequesterName, &v.RequesterUsername, &v.ProviderName, &v.ProviderUsername); err != nil {
			return nil, fmt.Errorf("scan swap request: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
