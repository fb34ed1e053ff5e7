package repository

import (
	"context"
	"fmt"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoRepository handles Postgres operations for todos
type TodoRepository struct {
	db *pgxpool.Pool
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

// Create creates a new todo
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) error {
	query := `
		INSERT INTO todos (id, owner_id, title, shared, done, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, t.ID, t.OwnerID, t.Title, t.Shared, t.Done, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// ListForUser retrieves a user's own todos plus the partner's shared ones.
// An empty partnerID limits the result to the user's own todos.
func (r *TodoRepository) ListForUser(ctx context.Context, userID, partnerID string) ([]*models.Todo, error) {
	query := `
		SELECT id, owner_id, title, shared, done, created_at
		FROM todos
		WHERE owner_id = $1 OR (owner_id = $2 AND shared)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Shared, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// SetDone updates the done flag of a user's own todo
func (r *TodoRepository) SetDone(ctx context.Context, id, ownerID string, done bool) error {
	query := `UPDATE todos SET done = $1 WHERE id = $2 AND owner_id = $3`
	result, err := r.db.Exec(ctx, query, done, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a user's own todo
func (r *TodoRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `DELETE FROM todos WHERE id = $1 AND owner_id = $2`
	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
