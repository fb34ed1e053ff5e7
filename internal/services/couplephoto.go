package services

import (
	"context"
	"math/rand"
	"time"

	"memory-lane-backend/internal/models"

	"github.com/google/uuid"
)

// CouplePhotoStore is the storage contract for the couple photo wall.
type CouplePhotoStore interface {
	Create(ctx context.Context, p *models.CouplePhoto) error
	GetByID(ctx context.Context, id, ownerID string) (*models.CouplePhoto, error)
	List(ctx context.Context, ownerID string, onlyFavorites bool, limit, offset int) ([]*models.CouplePhoto, int, error)
	ListByMonthDay(ctx context.Context, ownerID string, month, day int) ([]*models.CouplePhoto, error)
	SetFavorite(ctx context.Context, id, ownerID string, favorite bool) error
	Delete(ctx context.Context, id, ownerID string) error
}

// CouplePhotoService handles the couple photo wall.
type CouplePhotoService struct {
	photoRepo CouplePhotoStore
	today     func() time.Time
	pick      func(n int) int
}

// NewCouplePhotoService creates a new couple photo service
func NewCouplePhotoService(photoRepo CouplePhotoStore) *CouplePhotoService {
	return &CouplePhotoService{
		photoRepo: photoRepo,
		today:     time.Now,
		pick:      rand.Intn,
	}
}

// AddCouplePhotoParams holds the fields of a new wall photo.
type AddCouplePhotoParams struct {
	Caption   string
	Memory    string
	Location  string
	TakenDate time.Time
	IsPrivate bool
	Image     ImageMeta
}

// Add puts a photo on the wall. TakenDate defaults to today.
func (s *CouplePhotoService) Add(ctx context.Context, ownerID string, p AddCouplePhotoParams) (*models.CouplePhoto, error) {
	takenDate := p.TakenDate
	if takenDate.IsZero() {
		takenDate = s.today()
	}

	now := s.today()
	photo := &models.CouplePhoto{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Caption:   p.Caption,
		Memory:    p.Memory,
		Location:  p.Location,
		ImageRef:  p.Image.Ref,
		Format:    p.Image.Format,
		Width:     p.Image.Width,
		Height:    p.Image.Height,
		ByteSize:  p.Image.ByteSize,
		TakenDate: dateOnly(takenDate),
		IsPrivate: p.IsPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// List returns a page of the user's wall photos and the total count.
// OnlyFavorites restricts the result to favorites.
func (s *CouplePhotoService) List(ctx context.Context, ownerID string, onlyFavorites bool, page, perPage int) ([]*models.CouplePhoto, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	return s.photoRepo.List(ctx, ownerID, onlyFavorites, perPage, offset)
}

// ToggleFavorite flips the favorite flag of a user's own photo and returns
// the new value.
func (s *CouplePhotoService) ToggleFavorite(ctx context.Context, id, ownerID string) (bool, error) {
	photo, err := s.photoRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return false, err
	}
	favorite := !photo.IsFavorite
	if err := s.photoRepo.SetFavorite(ctx, id, ownerID, favorite); err != nil {
		return false, err
	}
	return favorite, nil
}

// TodayMemory returns a photo taken on today's month and day in a past year,
// randomly chosen among candidates, or nil when there is none.
func (s *CouplePhotoService) TodayMemory(ctx context.Context, ownerID string) (*models.CouplePhoto, error) {
	today := s.today()
	photos, err := s.photoRepo.ListByMonthDay(ctx, ownerID, int(today.Month()), today.Day())
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, nil
	}
	return photos[s.pick(len(photos))], nil
}

// Delete removes a user's own wall photo
func (s *CouplePhotoService) Delete(ctx context.Context, id, ownerID string) error {
	return s.photoRepo.Delete(ctx, id, ownerID)
}
