package repository

import (
	"context"
	"errors"
	"fmt"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couplePhotoColumns = `id, owner_id, caption, memory, location, image_ref, format,
		width, height, byte_size, taken_date, is_favorite, is_private, created_at, updated_at`

// CouplePhotoRepository handles Postgres operations for the couple photo wall
type CouplePhotoRepository struct {
	db *pgxpool.Pool
}

// NewCouplePhotoRepository creates a new couple photo repository
func NewCouplePhotoRepository(db *pgxpool.Pool) *CouplePhotoRepository {
	return &CouplePhotoRepository{db: db}
}

func scanCouplePhoto(row pgx.Row) (*models.CouplePhoto, error) {
	var p models.CouplePhoto
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Caption, &p.Memory, &p.Location, &p.ImageRef, &p.Format,
		&p.Width, &p.Height, &p.ByteSize, &p.TakenDate, &p.IsFavorite, &p.IsPrivate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new couple photo
func (r *CouplePhotoRepository) Create(ctx context.Context, p *models.CouplePhoto) error {
	query := `
		INSERT INTO couple_photos (` + couplePhotoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Caption, p.Memory, p.Location, p.ImageRef, p.Format,
		p.Width, p.Height, p.ByteSize, p.TakenDate, p.IsFavorite, p.IsPrivate,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create couple photo: %w", err)
	}
	return nil
}

// GetByID retrieves a couple photo scoped to its owner
func (r *CouplePhotoRepository) GetByID(ctx context.Context, id, ownerID string) (*models.CouplePhoto, error) {
	query := `
		SELECT ` + couplePhotoColumns + `
		FROM couple_photos
		WHERE id = $1 AND owner_id = $2
	`
	p, err := scanCouplePhoto(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get couple photo: %w", err)
	}
	return p, nil
}

// List retrieves a user's couple photos with pagination and returns the total
// count matching the filter. OnlyFavorites restricts the result to favorites.
func (r *CouplePhotoRepository) List(ctx context.Context, ownerID string, onlyFavorites bool, limit, offset int) ([]*models.CouplePhoto, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM couple_photos
		WHERE owner_id = $1 AND (NOT $2 OR is_favorite)
	`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, ownerID, onlyFavorites).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count couple photos: %w", err)
	}

	query := `
		SELECT ` + couplePhotoColumns + `
		FROM couple_photos
		WHERE owner_id = $1 AND (NOT $2 OR is_favorite)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, ownerID, onlyFavorites, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list couple photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.CouplePhoto
	for rows.Next() {
		p, err := scanCouplePhoto(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan couple photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating couple photos: %w", err)
	}
	return photos, total, nil
}

// ListByMonthDay retrieves a user's photos taken on a given month and day of
// any past year.
func (r *CouplePhotoRepository) ListByMonthDay(ctx context.Context, ownerID string, month, day int) ([]*models.CouplePhoto, error) {
	query := `
		SELECT ` + couplePhotoColumns + `
		FROM couple_photos
		WHERE owner_id = $1
			AND EXTRACT(MONTH FROM taken_date) = $2
			AND EXTRACT(DAY FROM taken_date) = $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, month, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list couple photos by date: %w", err)
	}
	defer rows.Close()

	var photos []*models.CouplePhoto
	for rows.Next() {
		p, err := scanCouplePhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan couple photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating couple photos: %w", err)
	}
	return photos, nil
}

// SetFavorite updates the favorite flag of a user's own photo
func (r *CouplePhotoRepository) SetFavorite(ctx context.Context, id, ownerID string, favorite bool) error {
	query := `
		UPDATE couple_photos
		SET is_favorite = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`
	result, err := r.db.Exec(ctx, query, favorite, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update couple photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a user's own couple photo
func (r *CouplePhotoRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM couple_photos WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete couple photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
