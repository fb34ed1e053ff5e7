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

// AlbumRepository handles Postgres operations for album photos and comments
type AlbumRepository struct {
	db *pgxpool.Pool
}

// NewAlbumRepository creates a new album repository
func NewAlbumRepository(db *pgxpool.Pool) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// CreatePhoto creates a new album photo
func (r *AlbumRepository) CreatePhoto(ctx context.Context, p *models.AlbumPhoto) error {
	query := `
		INSERT INTO album_photos (id, owner_id, memory, location, shoot_date, image_ref, format, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Memory, p.Location, p.ShootDate, p.ImageRef, p.Format, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create album photo: %w", err)
	}
	return nil
}

// GetPhotoByID retrieves an album photo visible to the given user or their partner
func (r *AlbumRepository) GetPhotoByID(ctx context.Context, id, userID, partnerID string) (*models.AlbumPhoto, error) {
	query := `
		SELECT id, owner_id, memory, location, shoot_date, image_ref, format, created_at
		FROM album_photos
		WHERE id = $1 AND (owner_id = $2 OR owner_id = $3)
	`
	var p models.AlbumPhoto
	err := r.db.QueryRow(ctx, query, id, userID, partnerID).Scan(
		&p.ID, &p.OwnerID, &p.Memory, &p.Location, &p.ShootDate, &p.ImageRef, &p.Format, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album photo: %w", err)
	}
	return &p, nil
}

// ListPhotosForUser retrieves the album photos of a user and their partner,
// ordered by shoot date descending.
func (r *AlbumRepository) ListPhotosForUser(ctx context.Context, userID, partnerID string, limit, offset int) ([]*models.AlbumPhoto, error) {
	query := `
		SELECT id, owner_id, memory, location, shoot_date, image_ref, format, created_at
		FROM album_photos
		WHERE owner_id = $1 OR owner_id = $2
		ORDER BY shoot_date DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, userID, partnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list album photos: %w", err)
	}
	defer rows.Close()

	var photos []*models.AlbumPhoto
	for rows.Next() {
		var p models.AlbumPhoto
		err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Memory, &p.Location, &p.ShootDate, &p.ImageRef, &p.Format, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album photo: %w", err)
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album photos: %w", err)
	}
	return photos, nil
}

// DeletePhoto deletes a user's own album photo; comments go with it via
// ON DELETE CASCADE.
func (r *AlbumRepository) DeletePhoto(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM album_photos WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete album photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateComment creates a new comment on an album photo
func (r *AlbumRepository) CreateComment(ctx context.Context, c *models.AlbumComment) error {
	query := `
		INSERT INTO album_comments (id, photo_id, owner_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, c.ID, c.PhotoID, c.OwnerID, c.Content, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create album comment: %w", err)
	}
	return nil
}

// ListCommentsByPhoto retrieves comments for a photo, oldest first
func (r *AlbumRepository) ListCommentsByPhoto(ctx context.Context, photoID string) ([]*models.AlbumComment, error) {
	query := `
		SELECT id, photo_id, owner_id, content, created_at
		FROM album_comments
		WHERE photo_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list album comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.AlbumComment
	for rows.Next() {
		var c models.AlbumComment
		if err := rows.Scan(&c.ID, &c.PhotoID, &c.OwnerID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album comment: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating album comments: %w", err)
	}
	return comments, nil
}

// DeleteComment deletes a user's own comment
func (r *AlbumRepository) DeleteComment(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM album_comments WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete album comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
