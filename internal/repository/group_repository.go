package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

// GroupRepository manages persistence for groups (groupes).
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// groupSelect resolves the full level → session chain.
const groupSelect = `SELECT g.id, g.name, g.capacity, g.delivery_type, g.level_id, g.created_at, g.updated_at,
        l.id AS "level.id", l.name AS "level.name", l.session_id AS "level.session_id",
        l.created_at AS "level.created_at", l.updated_at AS "level.updated_at",
        s.id AS "level.session.id", s.name AS "level.session.name", s.start_date AS "level.session.start_date",
        s.end_date AS "level.session.end_date", s.state AS "level.session.state",
        s.created_at AS "level.session.created_at", s.updated_at AS "level.session.updated_at"
        FROM groupes g
        JOIN niveaux l ON l.id = g.level_id
        JOIN sessions s ON s.id = l.session_id`

// List returns all groups with their level and session, newest first.
func (r *GroupRepository) List(ctx context.Context) ([]models.GroupWithLevel, error) {
	groups := []models.GroupWithLevel{}
	if err := r.db.SelectContext(ctx, &groups, groupSelect+` ORDER BY g.created_at DESC`); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// FindByID fetches a group with its level → session chain resolved. The
// enrollment code generator depends on this chain.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.GroupWithLevel, error) {
	var group models.GroupWithLevel
	if err := r.db.GetContext(ctx, &group, groupSelect+` WHERE g.id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &group, nil
}

// Create inserts a new group and fills in the generated id.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	const query = `INSERT INTO groupes (name, capacity, delivery_type, level_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &group.ID, query,
		group.Name, group.Capacity, group.DeliveryType, group.LevelID, group.CreatedAt, group.UpdatedAt); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// Update modifies an existing group. Returns sql.ErrNoRows when missing.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE groupes SET name = $2, capacity = $3, delivery_type = $4, level_id = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, group.ID, group.Name, group.Capacity, group.DeliveryType, group.LevelID, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	return requireRow(res, "update group")
}

// Delete removes a group. Returns sql.ErrNoRows when nothing matched.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groupes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return requireRow(res, "delete group")
}
