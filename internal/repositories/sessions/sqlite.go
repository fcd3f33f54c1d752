package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tiadocs/tia/internal/dbx"
	"github.com/tiadocs/tia/internal/models"
)

// ErrNotFound is returned by Get for an unknown session id.
var ErrNotFound = errors.New("saved session not found")

// SQLiteRepository implements Repository over a DBTX. Message logs are
// stored as a JSON blob per session.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, s models.SavedSession) error {
	blob, err := json.Marshal(s.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode session messages: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_sessions (id, name, created_at, messages) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, messages = excluded.messages
	`, s.ID, s.Name, s.CreatedAt, blob)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.SavedSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, messages FROM saved_sessions WHERE id = ?`, id)

	var s models.SavedSession
	var blob []byte
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if err := json.Unmarshal(blob, &s.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.SavedSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM saved_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SavedSession
	for rows.Next() {
		var s models.SavedSession
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}
