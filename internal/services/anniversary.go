package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	maxNoteLen        = 1000
	minSnapshotYear   = 2000

	upcomingWindowDays = 30
	statsUpcomingLimit = 5

	defaultIcon  = "❤️"
	defaultColor = "#ff6b6b"
)

// AnniversaryStore is the storage contract for anniversaries. Lookups are
// owner-scoped: a row owned by another user behaves as if it did not exist.
type AnniversaryStore interface {
	Create(ctx context.Context, a *models.Anniversary) error
	GetByID(ctx context.Context, id, ownerID string) (*models.Anniversary, error)
	ListByOwner(ctx context.Context, ownerID string, category models.Category) ([]*models.Anniversary, error)
	Update(ctx context.Context, a *models.Anniversary) error
	Delete(ctx context.Context, id, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountByCategory(ctx context.Context, ownerID string) (map[models.Category]int, error)
	Earliest(ctx context.Context, ownerID string) (*models.Anniversary, error)
}

// SnapshotStore is the storage contract for anniversary snapshots. Upsert is
// backed by a uniqueness constraint on (anniversary, year); the service's
// read-before-write is only an optimization.
type SnapshotStore interface {
	Upsert(ctx context.Context, s *models.Snapshot) error
	GetByYear(ctx context.Context, anniversaryID string, year int) (*models.Snapshot, error)
	ListByAnniversary(ctx context.Context, anniversaryID string) ([]*models.Snapshot, error)
	Delete(ctx context.Context, id, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

// AnniversaryService handles anniversary business logic: validated CRUD,
// yearly snapshots, and the derived date views.
type AnniversaryService struct {
	annRepo  AnniversaryStore
	snapRepo SnapshotStore
	today    func() time.Time
}

// NewAnniversaryService creates a new anniversary service
func NewAnniversaryService(annRepo AnniversaryStore, snapRepo SnapshotStore) *AnniversaryService {
	return &AnniversaryService{
		annRepo:  annRepo,
		snapRepo: snapRepo,
		today:    time.Now,
	}
}

// AnniversaryView is an anniversary with its derived date fields. NextDate
// and DaysToNext are only set for recurring anniversaries.
type AnniversaryView struct {
	*models.Anniversary
	DaysSince  int        `json:"days_since"`
	YearsSince int        `json:"years_since"`
	NextDate   *time.Time `json:"next_anniversary_date,omitempty"`
	DaysToNext *int       `json:"days_to_next_anniversary,omitempty"`
}

func (s *AnniversaryService) enrich(a *models.Anniversary) *AnniversaryView {
	today := dateOnly(s.today())
	v := &AnniversaryView{
		Anniversary: a,
		DaysSince:   DaysSince(a.Date, today),
		YearsSince:  YearsSince(a.Date, today),
	}
	if a.IsRecurring {
		next := NextAnniversary(a.Date, today)
		days := DaysToNextAnniversary(a.Date, today)
		v.NextDate = &next
		v.DaysToNext = &days
	}
	return v
}

// CreateAnniversaryParams holds the fields for a new anniversary. Category,
// Icon and Color fall back to defaults when empty.
type CreateAnniversaryParams struct {
	Title       string
	Date        time.Time
	Category    models.Category
	Description string
	Icon        string
	Color       string
	IsRecurring bool
	IsPublic    bool
}

// Create validates and persists a new anniversary and returns it with
// derived fields computed.
func (s *AnniversaryService) Create(ctx context.Context, ownerID string, p CreateAnniversaryParams) (*AnniversaryView, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", shared.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title exceeds %d characters", shared.ErrValidation, maxTitleLen)
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description exceeds %d characters", shared.ErrValidation, maxDescriptionLen)
	}

	now := s.today()
	anchor := dateOnly(p.Date)
	if anchor.After(dateOnly(now)) {
		return nil, fmt.Errorf("%w: date must not be in the future", shared.ErrValidation)
	}

	category := p.Category
	if category == "" {
		category = models.CategoryLove
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", shared.ErrValidation, category)
	}

	a := &models.Anniversary{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Date:        anchor,
		Category:    category,
		Description: p.Description,
		Icon:        orDefault(p.Icon, defaultIcon),
		Color:       orDefault(p.Color, defaultColor),
		IsRecurring: p.IsRecurring,
		IsPublic:    p.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.annRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.enrich(a), nil
}

// UpdateAnniversaryParams holds a partial update: nil fields are left untouched.
type UpdateAnniversaryParams struct {
	Title       *string
	Date        *time.Time
	Category    *models.Category
	Description *string
	Icon        *string
	Color       *string
	IsRecurring *bool
	IsPublic    *bool
}

// Update applies the supplied fields to an owned anniversary. Validation runs
// before anything is persisted; the update is all-or-nothing.
func (s *AnniversaryService) Update(ctx context.Context, id, ownerID string, p UpdateAnniversaryParams) (*AnniversaryView, error) {
	a, err := s.annRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", shared.ErrValidation)
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return nil, fmt.Errorf("%w: title exceeds %d characters", shared.ErrValidation, maxTitleLen)
		}
		a.Title = title
	}
	if p.Date != nil {
		anchor := dateOnly(*p.Date)
		if anchor.After(dateOnly(s.today())) {
			return nil, fmt.Errorf("%w: date must not be in the future", shared.ErrValidation)
		}
		a.Date = anchor
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", shared.ErrValidation, *p.Category)
		}
		a.Category = *p.Category
	}
	if p.Description != nil {
		if utf8.RuneCountInString(*p.Description) > maxDescriptionLen {
			return nil, fmt.Errorf("%w: description exceeds %d characters", shared.ErrValidation, maxDescriptionLen)
		}
		a.Description = *p.Description
	}
	if p.Icon != nil {
		a.Icon = *p.Icon
	}
	if p.Color != nil {
		a.Color = *p.Color
	}
	if p.IsRecurring != nil {
		a.IsRecurring = *p.IsRecurring
	}
	if p.IsPublic != nil {
		a.IsPublic = *p.IsPublic
	}

	a.UpdatedAt = s.today()
	if err := s.annRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return s.enrich(a), nil
}

// Delete removes an owned anniversary and, through the storage cascade, all
// of its snapshots.
func (s *AnniversaryService) Delete(ctx context.Context, id, ownerID string) error {
	return s.annRepo.Delete(ctx, id, ownerID)
}

// ListAnniversariesOptions filters and truncates a listing.
type ListAnniversariesOptions struct {
	Category     models.Category
	OnlyUpcoming bool
	Limit        int
}

// List returns a user's anniversaries in calendar order (month, day of the
// anchor date). OnlyUpcoming keeps recurring anniversaries whose next
// occurrence is within 30 days. Limit truncates after sorting.
func (s *AnniversaryService) List(ctx context.Context, ownerID string, opts ListAnniversariesOptions) ([]*AnniversaryView, error) {
	items, err := s.annRepo.ListByOwner(ctx, ownerID, opts.Category)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.today())
	views := make([]*AnniversaryView, 0, len(items))
	for _, a := range items {
		if opts.OnlyUpcoming {
			if !a.IsRecurring {
				continue
			}
			if DaysToNextAnniversary(a.Date, today) > upcomingWindowDays {
				continue
			}
		}
		views = append(views, s.enrich(a))
	}

	sort.SliceStable(views, func(i, j int) bool {
		mi, di := views[i].Date.Month(), views[i].Date.Day()
		mj, dj := views[j].Date.Month(), views[j].Date.Day()
		if mi != mj {
			return mi < mj
		}
		return di < dj
	})

	if opts.Limit > 0 && len(views) > opts.Limit {
		views = views[:opts.Limit]
	}
	return views, nil
}

// SnapshotParams holds the mutable snapshot fields; nil fields are left
// untouched when the year already has a snapshot.
type SnapshotParams struct {
	Note     *string
	ImageRef *string
	Weather  *string
	Mood     *string
	Location *string
}

// UpsertSnapshot records the given year for an owned anniversary. A year that
// already has a snapshot is updated in place with the supplied fields; the
// storage uniqueness constraint on (anniversary, year) guarantees a single
// row even under concurrent calls.
func (s *AnniversaryService) UpsertSnapshot(ctx context.Context, anniversaryID, ownerID string, year int, createdBy string, p SnapshotParams) (*models.Snapshot, error) {
	currentYear := s.today().Year()
	if year < minSnapshotYear || year > currentYear {
		return nil, fmt.Errorf("%w: year must be between %d and %d", shared.ErrValidation, minSnapshotYear, currentYear)
	}
	if p.Note != nil && utf8.RuneCountInString(*p.Note) > maxNoteLen {
		return nil, fmt.Errorf("%w: note exceeds %d characters", shared.ErrValidation, maxNoteLen)
	}

	if _, err := s.annRepo.GetByID(ctx, anniversaryID, ownerID); err != nil {
		return nil, err
	}

	snap, err := s.snapRepo.GetByYear(ctx, anniversaryID, year)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		snap = &models.Snapshot{
			ID:            uuid.New().String(),
			AnniversaryID: anniversaryID,
			Year:          year,
			CreatedBy:     createdBy,
			CreatedAt:     s.today(),
		}
	}

	if p.Note != nil {
		snap.Note = *p.Note
	}
	if p.ImageRef != nil {
		snap.ImageRef = *p.ImageRef
	}
	if p.Weather != nil {
		snap.Weather = *p.Weather
	}
	if p.Mood != nil {
		snap.Mood = *p.Mood
	}
	if p.Location != nil {
		snap.Location = *p.Location
	}

	if err := s.snapRepo.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	// Re-read: when a concurrent upsert won the insert race, the persisted
	// row keeps that row's identity fields.
	return s.snapRepo.GetByYear(ctx, anniversaryID, year)
}

// ListSnapshots returns the snapshots of an owned anniversary, newest year
// first. A missing or foreign anniversary is an error, not an empty list.
func (s *AnniversaryService) ListSnapshots(ctx context.Context, anniversaryID, ownerID string) ([]*models.Snapshot, error) {
	if _, err := s.annRepo.GetByID(ctx, anniversaryID, ownerID); err != nil {
		return nil, err
	}
	return s.snapRepo.ListByAnniversary(ctx, anniversaryID)
}

// DeleteSnapshot removes a snapshot whose parent anniversary the caller owns
func (s *AnniversaryService) DeleteSnapshot(ctx context.Context, snapshotID, ownerID string) error {
	return s.snapRepo.Delete(ctx, snapshotID, ownerID)
}

// UpcomingAnniversary is a recurring anniversary together with its next
// occurrence.
type UpcomingAnniversary struct {
	Anniversary *models.Anniversary `json:"anniversary"`
	Date        time.Time           `json:"date"`
	DaysUntil   int                 `json:"days_until"`
}

// Upcoming returns the recurring anniversaries whose next occurrence falls
// within windowDays from today, soonest first.
func (s *AnniversaryService) Upcoming(ctx context.Context, ownerID string, windowDays int) ([]UpcomingAnniversary, error) {
	items, err := s.annRepo.ListByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.today())
	var result []UpcomingAnniversary
	for _, a := range items {
		if !a.IsRecurring {
			continue
		}
		days := DaysToNextAnniversary(a.Date, today)
		if days > windowDays {
			continue
		}
		result = append(result, UpcomingAnniversary{
			Anniversary: a,
			Date:        NextAnniversary(a.Date, today),
			DaysUntil:   days,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DaysUntil < result[j].DaysUntil
	})
	return result, nil
}

// AnniversaryStats summarizes a user's anniversaries.
type AnniversaryStats struct {
	TotalAnniversaries int                     `json:"total_anniversaries"`
	TotalSnapshots     int                     `json:"total_snapshots"`
	ByCategory         map[models.Category]int `json:"by_category"`
	YearsTogether      int                     `json:"years_together"`
	UpcomingCount      int                     `json:"upcoming_count"`
	Upcoming           []UpcomingAnniversary   `json:"upcoming"`
}

// Stats returns totals, per-category counts, the years elapsed since the
// earliest anchor, and up to five anniversaries coming up within 30 days.
func (s *AnniversaryService) Stats(ctx context.Context, ownerID string) (*AnniversaryStats, error) {
	total, err := s.annRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.snapRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.annRepo.CountByCategory(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	yearsTogether := 0
	earliest, err := s.annRepo.Earliest(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if earliest != nil {
		yearsTogether = YearsSince(earliest.Date, dateOnly(s.today()))
	}

	upcoming, err := s.Upcoming(ctx, ownerID, upcomingWindowDays)
	if err != nil {
		return nil, err
	}
	upcomingCount := len(upcoming)
	if len(upcoming) > statsUpcomingLimit {
		upcoming = upcoming[:statsUpcomingLimit]
	}

	return &AnniversaryStats{
		TotalAnniversaries: total,
		TotalSnapshots:     snapshots,
		ByCategory:         byCategory,
		YearsTogether:      yearsTogether,
		UpcomingCount:      upcomingCount,
		Upcoming:           upcoming,
	}, nil
}

// TimelineEntry is one yearly occurrence of a recurring anniversary, with the
// snapshot recorded for that year when one exists.
type TimelineEntry struct {
	Date        time.Time           `json:"date"`
	Year        int                 `json:"year"`
	IsOriginal  bool                `json:"is_original"`
	Anniversary *models.Anniversary `json:"anniversary"`
	Snapshot    *models.Snapshot    `json:"snapshot,omitempty"`
}

// Timeline enumerates, for every recurring anniversary, one entry per elapsed
// year from the anchor through today, most recent first.
func (s *AnniversaryService) Timeline(ctx context.Context, ownerID string) ([]TimelineEntry, error) {
	items, err := s.annRepo.ListByOwner(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.today())
	var entries []TimelineEntry
	for _, a := range items {
		if !a.IsRecurring {
			continue
		}
		snaps, err := s.snapRepo.ListByAnniversary(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		byYear := make(map[int]*models.Snapshot, len(snaps))
		for _, snap := range snaps {
			byYear[snap.Year] = snap
		}

		years := YearsSince(a.Date, today)
		for offset := 0; offset <= years; offset++ {
			targetYear := a.Date.Year() + offset
			entries = append(entries, TimelineEntry{
				Date:        occurrenceInYear(a.Date, targetYear),
				Year:        targetYear,
				IsOriginal:  offset == 0,
				Anniversary: a,
				Snapshot:    byYear[targetYear],
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// AnniversaryDetailStats is the stats block of a detail view.
type AnniversaryDetailStats struct {
	DaysSince       int                      `json:"days_since"`
	YearsSince      int                      `json:"years_since"`
	TotalSnapshots  int                      `json:"total_snapshots"`
	SnapshotsByYear map[int]*models.Snapshot `json:"snapshots_by_year"`
}

// AnniversaryDetail is an anniversary with its snapshots and stats.
type AnniversaryDetail struct {
	Anniversary *AnniversaryView       `json:"anniversary"`
	Snapshots   []*models.Snapshot     `json:"snapshots"`
	Stats       AnniversaryDetailStats `json:"stats"`
}

// Detail returns an owned anniversary, its full snapshot list, and stats.
func (s *AnniversaryService) Detail(ctx context.Context, id, ownerID string) (*AnniversaryDetail, error) {
	a, err := s.annRepo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapRepo.ListByAnniversary(ctx, id)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*models.Snapshot, len(snaps))
	for _, snap := range snaps {
		byYear[snap.Year] = snap
	}

	today := dateOnly(s.today())
	return &AnniversaryDetail{
		Anniversary: s.enrich(a),
		Snapshots:   snaps,
		Stats: AnniversaryDetailStats{
			DaysSince:       DaysSince(a.Date, today),
			YearsSince:      YearsSince(a.Date, today),
			TotalSnapshots:  len(snaps),
			SnapshotsByYear: byYear,
		},
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
