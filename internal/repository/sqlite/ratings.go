package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/skillswap/pkg/models"
	"github.com/garnizeh/skillswap/pkg/repository"
)

func (r *SQLiteRepo) CreateRating(ctx context.Context, rt *models.Rating) (int64, error) {
	if rt == nil {
		return 0, fmt.Errorf("rating is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO ratings (swap_request_id, rater_id, rated_id, rating, feedback, created) VALUES (?, ?, ?, ?, ?, ?)`,
		rt.SwapRequestID, rt.RaterID, rt.RatedID, rt.Rating, rt.Feedback, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create rating for swap %d: %w", rt.SwapRequestID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("create rating: %w", err)
	}
	return res.LastInsertId()
}

// AverageRating returns (0, 0) for a user nobody has rated.
func (r *SQLiteRepo) AverageRating(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	var s models.RatingSummary
	row := r.conn.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0.0), COUNT(1) FROM ratings WHERE rated_id = ?`, userID)
	if err := row.Scan(&s.Average, &s.Count); err != nil {
		return nil, fmt.Errorf("average rating for user %d: %w", userID, err)
	}
	return &s, nil
}

func (r *SQLiteRepo) ListRatingsFor(ctx context.Context, userID int64) ([]models.RatingView, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT r.id, r.swap_request_id, r.rater_id, r.rated_id, r.rating, r.feedback, r.created, u.name
		FROM ratings r
		JOIN users u ON u.id = r.rater_id
		WHERE r.rated_id = ?
		ORDER BY r.created DESC, r.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	views := []models.RatingView{}
	for rows.Next() {
		var v models.RatingView
		if err := rows.Scan(&v.ID, &v.SwapRequestID, &v.RaterID, &v.RatedID, &v.Rating.Rating, &v.Feedback, &v.Created, &v.RaterName); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
