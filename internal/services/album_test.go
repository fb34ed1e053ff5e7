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

type fakeAlbumStore struct {
	photos   map[string]*models.AlbumPhoto
	comments map[string]*models.AlbumComment
}

func newFakeAlbumStore() *fakeAlbumStore {
	return &fakeAlbumStore{
		photos:   make(map[string]*models.AlbumPhoto),
		comments: make(map[string]*models.AlbumComment),
	}
}

func (f *fakeAlbumStore) CreatePhoto(_ context.Context, p *models.AlbumPhoto) error {
	cp := *p
	f.photos[p.ID] = &cp
	return nil
}

func (f *fakeAlbumStore) GetPhotoByID(_ context.Context, id, userID, partnerID string) (*models.AlbumPhoto, error) {
	p, ok := f.photos[id]
	if !ok || (p.OwnerID != userID && (partnerID == "" || p.OwnerID != partnerID)) {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeAlbumStore) ListPhotosForUser(_ context.Context, userID, partnerID string, limit, offset int) ([]*models.AlbumPhoto, error) {
	var result []*models.AlbumPhoto
	for _, p := range f.photos {
		if p.OwnerID == userID || (partnerID != "" && p.OwnerID == partnerID) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShootDate.After(result[j].ShootDate) })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeAlbumStore) DeletePhoto(_ context.Context, id, ownerID string) error {
	p, ok := f.photos[id]
	if !ok || p.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(f.photos, id)
	for cid, c := range f.comments {
		if c.PhotoID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

func (f *fakeAlbumStore) CreateComment(_ context.Context, c *models.AlbumComment) error {
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeAlbumStore) ListCommentsByPhoto(_ context.Context, photoID string) ([]*models.AlbumComment, error) {
	var result []*models.AlbumComment
	for _, c := range f.comments {
		if c.PhotoID == photoID {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeAlbumStore) DeleteComment(_ context.Context, id, ownerID string) error {
	c, ok := f.comments[id]
	if !ok || c.OwnerID != ownerID {
		return shared.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func newTestAlbumService(t *testing.T) (*AlbumService, *fakeAlbumStore) {
	t.Helper()
	couples, _ := newTestCoupleService(date(2025, time.June, 1))
	_, err := couples.Pair(context.Background(), "alice", "bob", date(2020, time.January, 1))
	require.NoError(t, err)
	store := newFakeAlbumStore()
	return NewAlbumService(store, couples), store
}

func TestAddPhoto(t *testing.T) {
	s, store := newTestAlbumService(t)
	ctx := context.Background()

	photo, err := s.AddPhoto(ctx, "alice", AddPhotoParams{
		Memory:    "  Our first trip  ",
		ShootDate: date(2023, time.May, 5),
		ImageRef:  "album/trip.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Our first trip", photo.Memory)
	assert.Equal(t, date(2023, time.May, 5), photo.ShootDate)
	assert.Len(t, store.photos, 1)

	_, err = s.AddPhoto(ctx, "alice", AddPhotoParams{ShootDate: date(2023, time.May, 5)})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = s.AddPhoto(ctx, "alice", AddPhotoParams{Memory: "No date"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAlbumTimeline(t *testing.T) {
	s, _ := newTestAlbumService(t)
	ctx := context.Background()

	_, err := s.AddPhoto(ctx, "alice", AddPhotoParams{Memory: "Older", ShootDate: date(2022, time.May, 5)})
	require.NoError(t, err)
	_, err = s.AddPhoto(ctx, "bob", AddPhotoParams{Memory: "Newer", ShootDate: date(2024, time.May, 5)})
	require.NoError(t, err)

	// Both partners see the combined album, most recent shoot first.
	timeline, err := s.Timeline(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "Newer", timeline[0].Memory)
	assert.Equal(t, "Older", timeline[1].Memory)

	other, err := s.Timeline(ctx, "carol", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAlbumComments(t *testing.T) {
	s, store := newTestAlbumService(t)
	ctx := context.Background()

	photo, err := s.AddPhoto(ctx, "alice", AddPhotoParams{Memory: "Picnic", ShootDate: date(2024, time.May, 5)})
	require.NoError(t, err)

	// The partner can comment on the owner's photo.
	comment, err := s.AddComment(ctx, photo.ID, "bob", "lovely!")
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.OwnerID)

	_, err = s.AddComment(ctx, photo.ID, "carol", "who are you")
	assert.ErrorIs(t, err, shared.ErrNotFound, "outsiders cannot see the photo")

	_, err = s.AddComment(ctx, photo.ID, "alice", "   ")
	assert.ErrorIs(t, err, shared.ErrValidation)

	comments, err := s.Comments(ctx, photo.ID, "alice")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "lovely!", comments[0].Content)

	_, err = s.Comments(ctx, photo.ID, "carol")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, s.DeleteComment(ctx, comment.ID, "alice"), shared.ErrNotFound, "only the author may delete a comment")
	require.NoError(t, s.DeleteComment(ctx, comment.ID, "bob"))

	// Deleting the photo removes its remaining comments.
	_, err = s.AddComment(ctx, photo.ID, "alice", "again")
	require.NoError(t, err)
	require.NoError(t, s.DeletePhoto(ctx, photo.ID, "alice"))
	assert.Empty(t, store.comments)
}
