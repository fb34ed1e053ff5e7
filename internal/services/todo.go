package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/google/uuid"
)

// TodoStore is the storage contract for todos.
type TodoStore interface {
	Create(ctx context.Context, t *models.Todo) error
	ListForUser(ctx context.Context, userID, partnerID string) ([]*models.Todo, error)
	SetDone(ctx context.Context, id, ownerID string, done bool) error
	Delete(ctx context.Context, id, ownerID string) error
}

// TodoService handles the shared to-do list.
type TodoService struct {
	todoRepo TodoStore
	couples  *CoupleService
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo TodoStore, couples *CoupleService) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		couples:  couples,
	}
}

// Create adds a todo for the user. Shared todos are visible to the partner.
func (s *TodoService) Create(ctx context.Context, ownerID, title string, sharedWithPartner bool) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", shared.ErrValidation)
	}

	t := &models.Todo{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     title,
		Shared:    sharedWithPartner,
		Done:      false,
		CreatedAt: time.Now(),
	}
	if err := s.todoRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the user's todos plus the partner's shared ones. An unpaired
// user sees only their own.
func (s *TodoService) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	partnerID, err := s.couples.PartnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.todoRepo.ListForUser(ctx, userID, partnerID)
}

// MarkDone marks a user's own todo as done
func (s *TodoService) MarkDone(ctx context.Context, id, ownerID string) error {
	return s.todoRepo.SetDone(ctx, id, ownerID, true)
}

// MarkUndone reopens a user's own todo
func (s *TodoService) MarkUndone(ctx context.Context, id, ownerID string) error {
	return s.todoRepo.SetDone(ctx, id, ownerID, false)
}

// Delete removes a user's own todo
func (s *TodoService) Delete(ctx context.Context, id, ownerID string) error {
	return s.todoRepo.Delete(ctx, id, ownerID)
}
