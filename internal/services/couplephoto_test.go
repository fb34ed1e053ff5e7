package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCouplePhotoStore struct {
	items map[string]*models.CouplePhoto
}

func newFakeCouplePhotoStore() *fakeCouplePhotoStore {
	return &fakeCouplePhotoStore{items: make(map[string]*models.CouplePhoto)}
}

func (f *fakeCouplePhotoStore) Create(_ context.Context, p *models.CouplePhoto) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeCouplePhotoStore) GetByID(_ context.Context, id, ownerID string) (*models.CouplePhoto, error) {
	p, ok := f.items[id]
	if !ok || p.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCouplePhotoStore) List(_ context.Context, ownerID string, onlyFavorites bool, limit, offset int) ([]*models.CouplePhoto, int, error) {
	var all []*models.CouplePhoto
	for _, p := range f.items {
		if p.OwnerID != ownerID {
			continue
		}
		if onlyFavorites && !p.IsFavorite {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TakenDate.After(all[j].TakenDate) })
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (f *fakeCouplePhotoStore) ListByMonthDay(_ context.Context, ownerID string, month, day int) ([]*models.CouplePhoto, error) {
	var result []*models.CouplePhoto
	for _, p := range f.items {
		if p.OwnerID == ownerID && int(p.TakenDate.Month()) == month && p.TakenDate.Day() == day {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (f *fakeCouplePhotoStore) SetFavorite(_ context.Context, id, ownerID string, favorite bool) error {
	p, ok := f.items[id]
	if !ok || p.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	p.IsFavorite = favorite
	return nil
}

func (f *fakeCouplePhotoStore) Delete(_ context.Context, id, ownerID string) error {
	p, ok := f.items[id]
	if !ok || p.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func newTestCouplePhotoService(today time.Time) (*CouplePhotoService, *fakeCouplePhotoStore) {
	store := newFakeCouplePhotoStore()
	s := NewCouplePhotoService(store)
	s.today = func() time.Time { return today }
	return s, store
}

func TestCouplePhotoAdd(t *testing.T) {
	today := date(2025, time.June, 1)
	s, store := newTestCouplePhotoService(today)
	ctx := context.Background()

	photo, err := s.Add(ctx, "alice", AddCouplePhotoParams{
		Caption:   "Beach day",
		TakenDate: date(2024, time.August, 10),
		Image:     ImageMeta{Ref: "photos/beach.jpg", Format: "jpeg", Width: 800, Height: 600, ByteSize: 12345},
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.August, 10), photo.TakenDate)
	assert.Equal(t, "photos/beach.jpg", photo.ImageRef)
	assert.False(t, photo.IsFavorite)
	assert.Len(t, store.items, 1)

	// Zero taken date falls back to today.
	photo, err = s.Add(ctx, "alice", AddCouplePhotoParams{Image: ImageMeta{Ref: "photos/x.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, today, photo.TakenDate)
}

func TestCouplePhotoListPaging(t *testing.T) {
	today := date(2025, time.June, 1)
	s, _ := newTestCouplePhotoService(today)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		_, err := s.Add(ctx, "alice", AddCouplePhotoParams{
			TakenDate: date(2024, time.March, day),
			Image:     ImageMeta{Ref: "photos/p.jpg"},
		})
		require.NoError(t, err)
	}

	page1, total, err := s.List(ctx, "alice", false, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, date(2024, time.March, 5), page1[0].TakenDate)

	page3, total, err := s.List(ctx, "alice", false, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page3, 1)

	// Out-of-range page and clamped inputs still behave.
	empty, total, err := s.List(ctx, "alice", false, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, empty)

	defaulted, _, err := s.List(ctx, "alice", false, 0, 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, 5)
}

func TestToggleFavorite(t *testing.T) {
	today := date(2025, time.June, 1)
	s, store := newTestCouplePhotoService(today)
	ctx := context.Background()

	photo, err := s.Add(ctx, "alice", AddCouplePhotoParams{Image: ImageMeta{Ref: "photos/p.jpg"}})
	require.NoError(t, err)

	favorite, err := s.ToggleFavorite(ctx, photo.ID, "alice")
	require.NoError(t, err)
	assert.True(t, favorite)
	assert.True(t, store.items[photo.ID].IsFavorite)

	favorite, err = s.ToggleFavorite(ctx, photo.ID, "alice")
	require.NoError(t, err)
	assert.False(t, favorite)

	_, err = s.ToggleFavorite(ctx, photo.ID, "bob")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	favorites, total, err := s.List(ctx, "alice", true, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, favorites)
}

func TestTodayMemory(t *testing.T) {
	today := date(2025, time.June, 1)
	s, _ := newTestCouplePhotoService(today)
	s.pick = func(n int) int { return n - 1 }
	ctx := context.Background()

	memory, err := s.TodayMemory(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, memory, "no candidates means no memory, not an error")

	_, err = s.Add(ctx, "alice", AddCouplePhotoParams{
		Caption:   "Two years ago",
		TakenDate: date(2023, time.June, 1),
		Image:     ImageMeta{Ref: "photos/a.jpg"},
	})
	require.NoError(t, err)
	_, err = s.Add(ctx, "alice", AddCouplePhotoParams{
		Caption:   "Wrong day",
		TakenDate: date(2023, time.June, 2),
		Image:     ImageMeta{Ref: "photos/b.jpg"},
	})
	require.NoError(t, err)

	memory, err = s.TodayMemory(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, memory)
	assert.Equal(t, "Two years ago", memory.Caption)
}
