package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/skillswap/pkg/models"
)

func (r *SQLiteRepo) CreateMessage(ctx context.Context, m *models.AdminMessage) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("message is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO admin_messages (title, message, created) VALUES (?, ?, ?)`, m.Title, m.Message, now())
	if err != nil {
		return 0, fmt.Errorf("create admin message: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) ListMessages(ctx context.Context) ([]models.AdminMessage, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, title, message, created FROM admin_messages ORDER BY created DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list admin messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.AdminMessage{}
	for rows.Next() {
		var m models.AdminMessage
		if err := rows.Scan(&m.ID, &m.Title, &m.Message, &m.Created); err != nil {
			return nil, fmt.Errorf("scan admin message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
