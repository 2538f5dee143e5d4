package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

// LevelRepository manages persistence for levels (niveaux).
type LevelRepository struct {
	db *sqlx.DB
}

// NewLevelRepository constructs a LevelRepository.
func NewLevelRepository(db *sqlx.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// levelSelect resolves the owning session through sqlx dotted aliases.
const levelSelect = `SELECT l.id, l.name, l.session_id, l.created_at, l.updated_at,
        s.id AS "session.id", s.name AS "session.name", s.start_date AS "session.start_date",
        s.end_date AS "session.end_date", s.state AS "session.state",
        s.created_at AS "session.created_at", s.updated_at AS "session.updated_at"
        FROM niveaux l JOIN sessions s ON s.id = l.session_id`

// List returns all levels with their session, newest first.
func (r *LevelRepository) List(ctx context.Context) ([]models.LevelWithSession, error) {
	levels := []models.LevelWithSession{}
	if err := r.db.SelectContext(ctx, &levels, levelSelect+` ORDER BY l.created_at DESC`); err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	return levels, nil
}

// FindByID fetches a level with its session.
func (r *LevelRepository) FindByID(ctx context.Context, id int64) (*models.LevelWithSession, error) {
	var level models.LevelWithSession
	if err := r.db.GetContext(ctx, &level, levelSelect+` WHERE l.id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find level: %w", err)
	}
	return &level, nil
}

// Create inserts a new level and fills in the generated id.
func (r *LevelRepository) Create(ctx context.Context, level *models.Level) error {
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now
	const query = `INSERT INTO niveaux (name, session_id, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &level.ID, query, level.Name, level.SessionID, level.CreatedAt, level.UpdatedAt); err != nil {
		return fmt.Errorf("create level: %w", err)
	}
	return nil
}

// Update modifies an existing level. Returns sql.ErrNoRows when missing.
func (r *LevelRepository) Update(ctx context.Context, level *models.Level) error {
	level.UpdatedAt = time.Now().UTC()
	const query = `UPDATE niveaux SET name = $2, session_id = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, level.ID, level.Name, level.SessionID, level.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update level: %w", err)
	}
	return requireRow(res, "update level")
}

// Delete removes a level. Returns sql.ErrNoRows when nothing matched.
func (r *LevelRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM niveaux WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete level: %w", err)
	}
	return requireRow(res, "delete level")
}
