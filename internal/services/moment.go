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

// MomentStore is the storage contract for moments.
type MomentStore interface {
	Create(ctx context.Context, m *models.Moment) error
	ListForUser(ctx context.Context, userID, partnerID string, limit, offset int) ([]*models.Moment, error)
	UpdateContent(ctx context.Context, id, ownerID, content string) error
	Delete(ctx context.Context, id, ownerID string) error
}

// MomentService handles the shared photo/text timeline.
type MomentService struct {
	momentRepo MomentStore
	couples    *CoupleService
}

// NewMomentService creates a new moment service
func NewMomentService(momentRepo MomentStore, couples *CoupleService) *MomentService {
	return &MomentService{
		momentRepo: momentRepo,
		couples:    couples,
	}
}

// ImageMeta is the metadata reported by the external upload service for an
// already uploaded image.
type ImageMeta struct {
	Ref      string
	Format   string
	Width    int
	Height   int
	ByteSize int
}

// Create posts a moment: text, an image, or both.
func (s *MomentService) Create(ctx context.Context, ownerID, content string, image *ImageMeta) (*models.Moment, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, fmt.Errorf("%w: a moment needs text or an image", shared.ErrValidation)
	}

	m := &models.Moment{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if image != nil {
		m.ImageRef = image.Ref
		m.Format = image.Format
		m.Width = image.Width
		m.Height = image.Height
		m.ByteSize = image.ByteSize
	}
	if err := s.momentRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the couple's timeline, newest first
func (s *MomentService) List(ctx context.Context, userID string, limit, offset int) ([]*models.Moment, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	partnerID, err := s.couples.PartnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.momentRepo.ListForUser(ctx, userID, partnerID, limit, offset)
}

// UpdateContent edits the text of a user's own moment
func (s *MomentService) UpdateContent(ctx context.Context, id, ownerID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: content must not be empty", shared.ErrValidation)
	}
	return s.momentRepo.UpdateContent(ctx, id, ownerID, content)
}

// Delete removes a user's own moment
func (s *MomentService) Delete(ctx context.Context, id, ownerID string) error {
	return s.momentRepo.Delete(ctx, id, ownerID)
}
