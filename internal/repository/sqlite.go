package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) the local SQLite database used in place of
// Postgres when running without a server, and bootstraps the anniversary
// schema. Only the anniversary engine is served by this backend.
func OpenSQLite(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serializes writes anyway, and pragmas apply per connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS anniversaries (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			title TEXT NOT NULL,
			date DATE NOT NULL,
			category TEXT NOT NULL DEFAULT 'love',
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			is_recurring BOOLEAN NOT NULL DEFAULT TRUE,
			is_public BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS anniversary_snapshots (
			id TEXT PRIMARY KEY,
			anniversary_id TEXT NOT NULL,
			year INTEGER NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			image_ref TEXT NOT NULL DEFAULT '',
			weather TEXT NOT NULL DEFAULT '',
			mood TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (anniversary_id) REFERENCES anniversaries(id) ON DELETE CASCADE,
			UNIQUE(anniversary_id, year)
		)`,
	}
	for _, q := range queries {
		if _, err := conn.Exec(q); err != nil {
			return nil, fmt.Errorf("failed to execute query: %w", err)
		}
	}

	log.Info().Str("path", path).Msg("SQLite database ready")
	return conn, nil
}

// SQLiteAnniversaryRepository handles SQLite operations for anniversaries
type SQLiteAnniversaryRepository struct {
	db *sql.DB
}

// NewSQLiteAnniversaryRepository creates a new SQLite anniversary repository
func NewSQLiteAnniversaryRepository(db *sql.DB) *SQLiteAnniversaryRepository {
	return &SQLiteAnniversaryRepository{db: db}
}

type sqlRow interface {
	Scan(dest ...any) error
}

func scanSQLiteAnniversary(row sqlRow) (*models.Anniversary, error) {
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
func (r *SQLiteAnniversaryRepository) Create(ctx context.Context, a *models.Anniversary) error {
	query := `
		INSERT INTO anniversaries (` + anniversaryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.OwnerID, a.Title, a.Date, a.Category, a.Description,
		a.Icon, a.Color, a.IsRecurring, a.IsPublic, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create anniversary: %w", err)
	}
	return nil
}

// GetByID retrieves an anniversary scoped to its owner
func (r *SQLiteAnniversaryRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE id = ? AND owner_id = ?
	`
	a, err := scanSQLiteAnniversary(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get anniversary: %w", err)
	}
	return a, nil
}

// ListByOwner retrieves all anniversaries for a user, optionally filtered by category
func (r *SQLiteAnniversaryRepository) ListByOwner(ctx context.Context, ownerID string, category models.Category) ([]*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE owner_id = ? AND (? = '' OR category = ?)
		ORDER BY date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, string(category), string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list anniversaries: %w", err)
	}
	defer rows.Close()

	var result []*models.Anniversary
	for rows.Next() {
		a, err := scanSQLiteAnniversary(rows)
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
func (r *SQLiteAnniversaryRepository) Update(ctx context.Context, a *models.Anniversary) error {
	query := `
		UPDATE anniversaries
		SET title = ?, date = ?, category = ?, description = ?, icon = ?,
			color = ?, is_recurring = ?, is_public = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		a.Title, a.Date, a.Category, a.Description, a.Icon, a.Color,
		a.IsRecurring, a.IsPublic, a.UpdatedAt, a.ID, a.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update anniversary: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an anniversary and, via the cascade, its snapshots
func (r *SQLiteAnniversaryRepository) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM anniversaries WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete anniversary: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOwner returns the number of anniversaries a user owns
func (r *SQLiteAnniversaryRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM anniversaries WHERE owner_id = ?`, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count anniversaries: %w", err)
	}
	return total, nil
}

// CountByCategory returns per-category anniversary counts for a user
func (r *SQLiteAnniversaryRepository) CountByCategory(ctx context.Context, ownerID string) (map[models.Category]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM anniversaries WHERE owner_id = ? GROUP BY category`, ownerID)
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
func (r *SQLiteAnniversaryRepository) Earliest(ctx context.Context, ownerID string) (*models.Anniversary, error) {
	query := `
		SELECT ` + anniversaryColumns + `
		FROM anniversaries
		WHERE owner_id = ?
		ORDER BY date ASC
		LIMIT 1
	`
	a, err := scanSQLiteAnniversary(r.db.QueryRowContext(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get earliest anniversary: %w", err)
	}
	return a, nil
}

// SQLiteSnapshotRepository handles SQLite operations for anniversary snapshots
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository creates a new SQLite snapshot repository
func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func scanSQLiteSnapshot(row sqlRow) (*models.Snapshot, error) {
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

// Upsert inserts a snapshot or overwrites the mutable fields of the existing
// row for the same (anniversary, year).
func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, s *models.Snapshot) error {
	query := `
		INSERT INTO anniversary_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(anniversary_id, year)
		DO UPDATE SET
			note = excluded.note,
			image_ref = excluded.image_ref,
			weather = excluded.weather,
			mood = excluded.mood,
			location = excluded.location
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.AnniversaryID, s.Year, s.Note, s.ImageRef,
		s.Weather, s.Mood, s.Location, s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// GetByYear retrieves the snapshot for a given anniversary and year
func (r *SQLiteSnapshotRepository) GetByYear(ctx context.Context, anniversaryID string, year int) (*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM anniversary_snapshots
		WHERE anniversary_id = ? AND year = ?
	`
	s, err := scanSQLiteSnapshot(r.db.QueryRowContext(ctx, query, anniversaryID, year))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return s, nil
}

// ListByAnniversary retrieves all snapshots for an anniversary, newest year first
func (r *SQLiteSnapshotRepository) ListByAnniversary(ctx context.Context, anniversaryID string) ([]*models.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM anniversary_snapshots
		WHERE anniversary_id = ?
		ORDER BY year DESC
	`
	rows, err := r.db.QueryContext(ctx, query, anniversaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var result []*models.Snapshot
	for rows.Next() {
		s, err := scanSQLiteSnapshot(rows)
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
func (r *SQLiteSnapshotRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM anniversary_snapshots
		WHERE id = ? AND anniversary_id IN (
			SELECT id FROM anniversaries WHERE owner_id = ?
		)
	`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByOwner returns the number of snapshots across all of a user's anniversaries
func (r *SQLiteSnapshotRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM anniversary_snapshots s
		JOIN anniversaries a ON a.id = s.anniversary_id
		WHERE a.owner_id = ?
	`
	var total int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return total, nil
}
