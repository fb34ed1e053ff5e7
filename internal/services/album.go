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

// AlbumStore is the storage contract for album photos and their comments.
type AlbumStore interface {
	CreatePhoto(ctx context.Context, p *models.AlbumPhoto) error
	GetPhotoByID(ctx context.Context, id, userID, partnerID string) (*models.AlbumPhoto, error)
	ListPhotosForUser(ctx context.Context, userID, partnerID string, limit, offset int) ([]*models.AlbumPhoto, error)
	DeletePhoto(ctx context.Context, id, ownerID string) error
	CreateComment(ctx context.Context, c *models.AlbumComment) error
	ListCommentsByPhoto(ctx context.Context, photoID string) ([]*models.AlbumComment, error)
	DeleteComment(ctx context.Context, id, ownerID string) error
}

// AlbumService handles the photo album and its comments.
type AlbumService struct {
	albumRepo AlbumStore
	couples   *CoupleService
}

// NewAlbumService creates a new album service
func NewAlbumService(albumRepo AlbumStore, couples *CoupleService) *AlbumService {
	return &AlbumService{
		albumRepo: albumRepo,
		couples:   couples,
	}
}

// AddPhotoParams holds the fields of a new album photo.
type AddPhotoParams struct {
	Memory    string
	Location  string
	ShootDate time.Time
	ImageRef  string
	Format    string
}

// AddPhoto records a photo in the album. The one-line memory is required;
// the image itself has already been stored by the external upload service.
func (s *AlbumService) AddPhoto(ctx context.Context, ownerID string, p AddPhotoParams) (*models.AlbumPhoto, error) {
	memory := strings.TrimSpace(p.Memory)
	if memory == "" {
		return nil, fmt.Errorf("%w: memory must not be empty", shared.ErrValidation)
	}
	if p.ShootDate.IsZero() {
		return nil, fmt.Errorf("%w: shoot date is required", shared.ErrValidation)
	}

	photo := &models.AlbumPhoto{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Memory:    memory,
		Location:  p.Location,
		ShootDate: dateOnly(p.ShootDate),
		ImageRef:  p.ImageRef,
		Format:    p.Format,
		CreatedAt: time.Now(),
	}
	if err := s.albumRepo.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Timeline returns the couple's album, most recent shoot date first
func (s *AlbumService) Timeline(ctx context.Context, userID string, limit, offset int) ([]*models.AlbumPhoto, error) {
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
	return s.albumRepo.ListPhotosForUser(ctx, userID, partnerID, limit, offset)
}

// DeletePhoto removes a user's own album photo together with its comments
func (s *AlbumService) DeletePhoto(ctx context.Context, id, ownerID string) error {
	return s.albumRepo.DeletePhoto(ctx, id, ownerID)
}

// AddComment comments on a photo visible to the user (their own or the
// partner's).
func (s *AlbumService) AddComment(ctx context.Context, photoID, userID, content string) (*models.AlbumComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content must not be empty", shared.ErrValidation)
	}

	partnerID, err := s.couples.PartnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.albumRepo.GetPhotoByID(ctx, photoID, userID, partnerID); err != nil {
		return nil, err
	}

	c := &models.AlbumComment{
		ID:        uuid.New().String(),
		PhotoID:   photoID,
		OwnerID:   userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.albumRepo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Comments returns a photo's comments, oldest first
func (s *AlbumService) Comments(ctx context.Context, photoID, userID string) ([]*models.AlbumComment, error) {
	partnerID, err := s.couples.PartnerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.albumRepo.GetPhotoByID(ctx, photoID, userID, partnerID); err != nil {
		return nil, err
	}
	return s.albumRepo.ListCommentsByPhoto(ctx, photoID)
}

// DeleteComment removes a user's own comment
func (s *AlbumService) DeleteComment(ctx context.Context, id, ownerID string) error {
	return s.albumRepo.DeleteComment(ctx, id, ownerID)
}
