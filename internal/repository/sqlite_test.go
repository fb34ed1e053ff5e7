package repository

import (
	"context"
	"testing"
	"time"

	"memory-lane-backend/internal/models"
	"memory-lane-backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepos(t *testing.T) (*SQLiteAnniversaryRepository, *SQLiteSnapshotRepository) {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteAnniversaryRepository(db), NewSQLiteSnapshotRepository(db)
}

func testAnniversary(ownerID string, anchor time.Time) *models.Anniversary {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	return &models.Anniversary{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       "First date",
		Date:        anchor,
		Category:    models.CategoryLove,
		Icon:        "❤️",
		Color:       "#ff6b6b",
		IsRecurring: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSQLiteAnniversaryCRUD(t *testing.T) {
	anns, _ := newSQLiteRepos(t)
	ctx := context.Background()

	anchor := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	a := testAnniversary("alice", anchor)
	require.NoError(t, anns.Create(ctx, a))

	got, err := anns.GetByID(ctx, a.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
	assert.Equal(t, a.Category, got.Category)
	assert.True(t, got.Date.Equal(anchor))

	_, err = anns.GetByID(ctx, a.ID, "bob")
	assert.ErrorIs(t, err, shared.ErrNotFound, "owner scoping hides foreign rows")

	got.Title = "Renamed"
	require.NoError(t, anns.Update(ctx, got))
	got, err = anns.GetByID(ctx, a.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	foreign := *got
	foreign.OwnerID = "bob"
	assert.ErrorIs(t, anns.Update(ctx, &foreign), shared.ErrNotFound)

	require.NoError(t, anns.Delete(ctx, a.ID, "alice"))
	assert.ErrorIs(t, anns.Delete(ctx, a.ID, "alice"), shared.ErrNotFound)
}

func TestSQLiteListAndCounts(t *testing.T) {
	anns, _ := newSQLiteRepos(t)
	ctx := context.Background()

	first := testAnniversary("alice", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, anns.Create(ctx, first))

	trip := testAnniversary("alice", time.Date(2023, time.June, 10, 0, 0, 0, 0, time.UTC))
	trip.Title = "Trip"
	trip.Category = models.CategoryTravel
	require.NoError(t, anns.Create(ctx, trip))

	other := testAnniversary("bob", time.Date(2021, time.March, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, anns.Create(ctx, other))

	all, err := anns.ListByOwner(ctx, "alice", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "First date", all[0].Title, "listing is ordered by anchor date")

	travel, err := anns.ListByOwner(ctx, "alice", models.CategoryTravel)
	require.NoError(t, err)
	require.Len(t, travel, 1)
	assert.Equal(t, "Trip", travel[0].Title)

	total, err := anns.CountByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	byCategory, err := anns.CountByCategory(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, map[models.Category]int{models.CategoryLove: 1, models.CategoryTravel: 1}, byCategory)

	earliest, err := anns.Earliest(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, earliest)
	assert.Equal(t, first.ID, earliest.ID)

	earliest, err = anns.Earliest(ctx, "carol")
	require.NoError(t, err)
	assert.Nil(t, earliest)
}

func TestSQLiteSnapshotUpsert(t *testing.T) {
	anns, snaps := newSQLiteRepos(t)
	ctx := context.Background()

	a := testAnniversary("alice", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, anns.Create(ctx, a))

	snap := &models.Snapshot{
		ID:            uuid.New().String(),
		AnniversaryID: a.ID,
		Year:          2023,
		Note:          "great year",
		Mood:          "happy",
		CreatedBy:     "alice",
		CreatedAt:     time.Date(2023, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, snaps.Upsert(ctx, snap))

	// Second upsert for the same year keeps the original row identity and
	// overwrites the mutable fields.
	again := &models.Snapshot{
		ID:            uuid.New().String(),
		AnniversaryID: a.ID,
		Year:          2023,
		Note:          "even better",
		Mood:          "thrilled",
		CreatedBy:     "bob",
		CreatedAt:     time.Date(2023, time.June, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, snaps.Upsert(ctx, again))

	got, err := snaps.GetByYear(ctx, a.ID, 2023)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, "alice", got.CreatedBy)
	assert.Equal(t, "even better", got.Note)
	assert.Equal(t, "thrilled", got.Mood)

	total, err := snaps.CountByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, total, "the year stays unique")

	_, err = snaps.GetByYear(ctx, a.ID, 2022)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSQLiteSnapshotListAndDelete(t *testing.T) {
	anns, snaps := newSQLiteRepos(t)
	ctx := context.Background()

	a := testAnniversary("alice", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, anns.Create(ctx, a))

	for _, year := range []int{2021, 2023, 2022} {
		snap := &models.Snapshot{
			ID:            uuid.New().String(),
			AnniversaryID: a.ID,
			Year:          year,
			CreatedBy:     "alice",
			CreatedAt:     time.Date(year, time.January, 1, 9, 0, 0, 0, time.UTC),
		}
		require.NoError(t, snaps.Upsert(ctx, snap))
	}

	list, err := snaps.ListByAnniversary(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int{2023, 2022, 2021}, []int{list[0].Year, list[1].Year, list[2].Year})

	assert.ErrorIs(t, snaps.Delete(ctx, list[0].ID, "bob"), shared.ErrNotFound,
		"ownership is checked through the parent anniversary")
	require.NoError(t, snaps.Delete(ctx, list[0].ID, "alice"))

	total, err := snaps.CountByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSQLiteCascadeDelete(t *testing.T) {
	anns, snaps := newSQLiteRepos(t)
	ctx := context.Background()

	a := testAnniversary("alice", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, anns.Create(ctx, a))
	snap := &models.Snapshot{
		ID:            uuid.New().String(),
		AnniversaryID: a.ID,
		Year:          2023,
		CreatedBy:     "alice",
		CreatedAt:     time.Date(2023, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, snaps.Upsert(ctx, snap))

	require.NoError(t, anns.Delete(ctx, a.ID, "alice"))

	total, err := snaps.CountByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, total, "deleting the anniversary removes its snapshots")
}
