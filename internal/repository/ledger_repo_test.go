package repository

import (
	"context"
	"testing"
	"time"

	"GameDealSync/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestAppendSkipsDuplicateObservation(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	makeObs := func() *model.GogObservation {
		return &model.GogObservation{ObservationCore: model.ObservationCore{
			Name: "Foo", ScrapedAt: ts, ListPrice: 19.99, DiscountPrice: 9.99,
		}}
	}

	inserted, err := repo.Append(ctx, makeObs())
	require.NoError(t, err)
	require.True(t, inserted)

	// 同店同 (name, list_price, discount_price, scraped_at) 判重
	inserted, err = repo.Append(ctx, makeObs())
	require.NoError(t, err)
	require.False(t, inserted)

	total, err := repo.Count(ctx, model.StoreGog)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// 任一维度不同都不算重复：换个抓取时间就是新观测
	later := makeObs()
	later.ScrapedAt = ts.Add(24 * time.Hour)
	inserted, err = repo.Append(ctx, later)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestAppendDedupIsPerStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	core := model.ObservationCore{Name: "Foo", ScrapedAt: ts, ListPrice: 19.99, DiscountPrice: 9.99}

	inserted, err := repo.Append(ctx, &model.GogObservation{ObservationCore: core})
	require.NoError(t, err)
	require.True(t, inserted)

	// 另一家店的同名同价观测互不判重
	inserted, err = repo.Append(ctx, &model.WgsObservation{ObservationCore: core})
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestOrphanListAndRelink(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	identityID := uuid.NewString()

	inserted, err := repo.Append(ctx, &model.GogObservation{ObservationCore: model.ObservationCore{
		Name: "Orphan Game", ScrapedAt: ts, DiscountPrice: 4.99,
	}})
	require.NoError(t, err)
	require.True(t, inserted)
	inserted, err = repo.Append(ctx, &model.GogObservation{ObservationCore: model.ObservationCore{
		Name: "Linked Game", ScrapedAt: ts, DiscountPrice: 5.99, IdentityID: &identityID,
	}})
	require.NoError(t, err)
	require.True(t, inserted)

	orphans, err := repo.ListOrphans(ctx, model.StoreGog)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	require.Equal(t, "Orphan Game", orphans[0].Name)

	require.NoError(t, repo.LinkIdentity(ctx, model.StoreGog, orphans[0].RowID, identityID))

	orphans, err = repo.ListOrphans(ctx, model.StoreGog)
	require.NoError(t, err)
	require.Empty(t, orphans)

	linked, err := repo.ListLinked(ctx, model.StoreGog)
	require.NoError(t, err)
	require.Len(t, linked, 2)
}

func TestListLinkedOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	identityID := uuid.NewString()
	t1 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// 乱序插入，读出来必须按 (scraped_at, id) 升序
	for _, obs := range []*model.WgsObservation{
		{ObservationCore: model.ObservationCore{Name: "Foo", ScrapedAt: t2, DiscountPrice: 8, IdentityID: &identityID}},
		{ObservationCore: model.ObservationCore{Name: "Foo", ScrapedAt: t1, DiscountPrice: 10, IdentityID: &identityID}},
	} {
		inserted, err := repo.Append(ctx, obs)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	linked, err := repo.ListLinked(ctx, model.StoreWgs)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	require.True(t, linked[0].ScrapedAt.Before(linked[1].ScrapedAt))
	require.Equal(t, 10.0, linked[0].DiscountPrice)
	require.Equal(t, 8.0, linked[1].DiscountPrice)
}
