package repository

import (
	"context"
	"fmt"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MomentRepository handles Postgres operations for moments
type MomentRepository struct {
	db *pgxpool.Pool
}

// NewMomentRepository creates a new moment repository
func NewMomentRepository(db *pgxpool.Pool) *MomentRepository {
	return &MomentRepository{db: db}
}

// Create creates a new moment
func (r *MomentRepository) Create(ctx context.Context, m *models.Moment) error {
	query := `
		INSERT INTO moments (id, owner_id, content, image_ref, format, width, height, byte_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.OwnerID, m.Content, m.ImageRef, m.Format, m.Width, m.Height, m.ByteSize, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create moment: %w", err)
	}
	return nil
}

// ListForUser retrieves the moments of a user and their partner, newest first.
// An empty partnerID limits the result to the user's own moments.
func (r *MomentRepository) ListForUser(ctx context.Context, userID, partnerID string, limit, offset int) ([]*models.Moment, error) {
	query := `
		SELECT id, owner_id, content, image_ref, format, width, height, byte_size, created_at
		FROM moments
		WHERE owner_id = $1 OR owner_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list moments: %w", err)
	}
	defer rows.Close()

	var moments []*models.Moment
	for rows.Next() {
		var m models.Moment
		err := rows.Scan(
			&m.ID, &m.OwnerID, &m.Content, &m.ImageRef, &m.Format,
			&m.Width, &m.Height, &m.ByteSize, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan moment: %w", err)
		}
		moments = append(moments, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moments: %w", err)
	}
	return moments, nil
}

// UpdateContent updates the text of a user's own moment
func (r *MomentRepository) UpdateContent(ctx context.Context, id, ownerID, content string) error {
	query := `UPDATE moments SET content = $1 WHERE id = $2 AND owner_id = $3`
	result, err := r.db.Exec(ctx, query, content, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update moment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a user's own moment
func (r *MomentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM moments WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete moment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
