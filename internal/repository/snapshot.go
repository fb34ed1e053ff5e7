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

const snapshotColumns = `id, anniversary_id, year, note, image_ref, weather, mood, location,
		created_by, created_at`

// SnapshotRepository handles Postgres operations for anniversary snapshots
type SnapshotRepository struct {
	db *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func scanSnapshot(row pgx.Row) (*models.Snapshot, error) {
	var s models.Snapshot
	err := row.Scan(
		&s.ID, &s.AnniversaryID, &s.Year, &s.Note, &s.ImageRef,
		&s.Weather, &s.Mood, &s.Location, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert inserts a snapshot, or overwrites the mutable fields of the existing
// row for the same (anniversary, year). The UNIQUE (anniversary_id, year)
// constraint is the authoritative guard against duplicates; identity fields
// of an existing row are preserved.
func (r *SnapshotRepository) Upsert(ctx context.Context, s *models.Snapshot) error {
	query := `
		INSERT INTO anniversary_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (anniversary_id, year)
		DO UPDATE SET
			note = EXCLUDED.note,
			image_ref = EXCLUDED.image_ref,
			weather = EXCLUDED.weather,
			mood = EXCLUDED.mood,
			location = EXCLUDED.location
	`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.AnniversaryID, s.Year, s.Note, s.ImageRef,
		s.Weather, s.Mood, s.Location, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// GetByYear retrieves the snapshot for a given anniversary and year
func (r *SnapshotRepository) GetByYear(ctx context.Context, anniversaryID string, year int) (*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM anniversary_snapshots
		WHERE anniversary_id = $1 AND year = $2
	`
	s, err := scanSnapshot(r.db.QueryRow(ctx, query, anniversaryID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s, nil
}

// ListByAnniversary retrieves all snapshots for an anniversary, newest year first
func (r *SnapshotRepository) ListByAnniversary(ctx context.Context, anniversaryID string) ([]*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM anniversary_snapshots
		WHERE anniversary_id = $1
		ORDER BY year DESC
	`
	rows, err := r.db.Query(ctx, query, anniversaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var result []*models.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return result, nil
}

// Delete deletes a snapshot, checking ownership through its parent anniversary
func (r *SnapshotRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM anniversary_snapshots s
		USING anniversaries a
		WHERE s.anniversary_id = a.id AND s.id = $1 AND a.owner_id = $2
	`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOwner returns the number of snapshots across all of a user's anniversaries
func (r *SnapshotRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM anniversary_snapshots s
		JOIN anniversaries a ON a.id = s.anniversary_id
		WHERE a.owner_id = $1
	`
	var total int
	if err := r.db.QueryRow(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return total, nil
}
