package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/google/uuid"
)

// CoupleStore is the storage contract for couples.
type CoupleStore interface {
	Create(ctx context.Context, c *models.Couple) error
	GetByUserID(ctx context.Context, userID string) (*models.Couple, error)
	UserHasCouple(ctx context.Context, userID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// CoupleService handles couple pairing and relationship-age queries.
type CoupleService struct {
	coupleRepo CoupleStore
	today      func() time.Time
}

// NewCoupleService creates a new couple service
func NewCoupleService(coupleRepo CoupleStore) *CoupleService {
	return &CoupleService{
		coupleRepo: coupleRepo,
		today:      time.Now,
	}
}

// Pair joins two users as a couple with the given relationship start date.
// Both users must be unpaired, and the start date must not be in the future.
func (s *CoupleService) Pair(ctx context.Context, userAID, userBID string, startDate time.Time) (*models.Couple, error) {
	if userAID == userBID {
		return nil, fmt.Errorf("%w: cannot pair a user with themselves", shared.ErrValidation)
	}
	start := dateOnly(startDate)
	if start.After(dateOnly(s.today())) {
		return nil, fmt.Errorf("%w: start date must not be in the future", shared.ErrValidation)
	}

	for _, userID := range []string{userAID, userBID} {
		hasCouple, err := s.coupleRepo.UserHasCouple(ctx, userID)
		if err != nil {
			return nil, err
		}
		if hasCouple {
			return nil, fmt.Errorf("%w: user %s is already in a couple", shared.ErrValidation, userID)
		}
	}

	c := &models.Couple{
		ID:        uuid.New().String(),
		UserAID:   userAID,
		UserBID:   userBID,
		StartDate: start,
		CreatedAt: s.today(),
	}
	if err := s.coupleRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetByUser returns the couple a user belongs to
func (s *CoupleService) GetByUser(ctx context.Context, userID string) (*models.Couple, error) {
	return s.coupleRepo.GetByUserID(ctx, userID)
}

// PartnerID returns the other member of the user's couple, or an empty string
// when the user is unpaired.
func (s *CoupleService) PartnerID(ctx context.Context, userID string) (string, error) {
	c, err := s.coupleRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if c.UserAID == userID {
		return c.UserBID, nil
	}
	return c.UserAID, nil
}

// DaysTogether returns the number of days since the relationship started
func (s *CoupleService) DaysTogether(ctx context.Context, userID string) (int, error) {
	c, err := s.coupleRepo.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return DaysSince(c.StartDate, dateOnly(s.today())), nil
}
