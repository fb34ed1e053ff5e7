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

const anniversaryColumns = `id, owner_id, title, date, category, description, icon, color,
		is_recurring, is_public, created_at, updated_at`

// AnniversaryRepository handles Postgres operations for anniversaries
type AnniversaryRepository struct {
	db *pgxpool.Pool
}

// NewAnniversaryRepository creates a new anniversary repository
func NewAnniversaryRepository(db *pgxpool.Pool) *AnniversaryRepository {
	return &AnniversaryRepository{db: db}
}

func scanAnniversary(row pgx.Row) (*models.Anniversary, error) {
	var a models.Anniversary
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.Date, &a.Category, &a.Description,
		&a.Icon, &a.Color, &a.IsRecurring, &a.IsPublic, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates a new anniversary
func (r *AnniversaryRepository) Create(ctx context.Context, a *models.Anniversary) error {
	query := `
		INSERT INTO anniversaries (` + anniversaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.OwnerID, a.Title, a.Date, a.Category, a.Description,
		a.Icon, a.Color, a.IsRecurring, a.IsPublic, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create anniversary: %w", err)
	}
	return nil
}

// GetByID retrieves an anniversary scoped to its owner. A row owned by
// someone else is reported as shared.ErrNotFound.
func (r *AnniversaryRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE id = $1 AND owner_id = $2
	`
	a, err := scanAnniversary(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get anniversary: %w", err)
	}
	return a, nil
}

// ListByOwner retrieves all anniversaries for a user, optionally filtered by
// category. Results are returned in anchor-date order; calendar-order sorting
// is done by the caller.
func (r *AnniversaryRepository) ListByOwner(ctx context.Context, ownerID string, category models.Category) ([]*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE owner_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, ownerID, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list anniversaries: %w", err)
	}
	defer rows.Close()

	var result []*models.Anniversary
	for rows.Next() {
		a, err := scanAnniversary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan anniversary: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anniversaries: %w", err)
	}
	return result, nil
}

// Update persists all mutable fields of an anniversary
func (r *AnniversaryRepository) Update(ctx context.Context, a *models.Anniversary) error {
	query := `
		UPDATE anniversaries
		SET title = $1, date = $2, category = $3, description = $4, icon = $5,
			color = $6, is_recurring = $7, is_public = $8, updated_at = $9
		WHERE id = $10 AND owner_id = $11
	`
	result, err := r.db.Exec(ctx, query,
		a.Title, a.Date, a.Category, a.Description, a.Icon, a.Color,
		a.IsRecurring, a.IsPublic, a.UpdatedAt, a.ID, a.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update anniversary: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an anniversary; snapshots go with it via ON DELETE CASCADE
func (r *AnniversaryRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM anniversaries WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete anniversary: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOwner returns the number of anniversaries a user owns
func (r *AnniversaryRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM anniversaries WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count anniversaries: %w", err)
	}
	return total, nil
}

// CountByCategory returns per-category anniversary counts for a user
func (r *AnniversaryRepository) CountByCategory(ctx context.Context, ownerID string) (map[models.Category]int, error) {
	query := `
		SELECT category, COUNT(*)
		FROM anniversaries
		WHERE owner_id = $1
		GROUP BY category
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var category models.Category
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}
	return counts, nil
}

// Earliest returns the anniversary with the oldest anchor date, or nil when
// the user has none.
func (r *AnniversaryRepository) Earliest(ctx context.Context, ownerID string) (*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE owner_id = $1
		ORDER BY date ASC
		LIMIT 1
	`
	a, err := scanAnniversary(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get earliest anniversary: %w", err)
	}
	return a, nil
}
