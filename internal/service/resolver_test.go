package service

import (
	"context"
	"testing"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesThenMatchesByCName(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewIdentityRepository(db)
	resolver := NewIdentityResolver(repo, newTestLogger())
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "Foo: Deluxe Edition", nil)
	require.NoError(t, err)
	require.Equal(t, "Foo: Deluxe Edition", first.Name)
	require.Equal(t, "foo", first.CName)

	// 另一家店报的裸名规范化后相同，归到同一身份
	second, err := resolver.Resolve(ctx, "Foo", nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestResolveAppIDTakesPriority(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewIdentityRepository(db)
	resolver := NewIdentityResolver(repo, newTestLogger())
	ctx := context.Background()

	appID := int64(440)
	created, err := resolver.Resolve(ctx, "Team Fortress 2", &appID)
	require.NoError(t, err)
	require.NotNil(t, created.AppID)

	// 名字完全对不上，但 appid 相同，仍然归到同一身份
	matched, err := resolver.Resolve(ctx, "TF2 (Steam)", &appID)
	require.NoError(t, err)
	require.Equal(t, created.ID, matched.ID)
}

func TestResolveBackfillsAppID(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewIdentityRepository(db)
	resolver := NewIdentityResolver(repo, newTestLogger())
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "Foo", nil)
	require.NoError(t, err)
	require.Nil(t, first.AppID)

	appID := int64(570)
	second, err := resolver.Resolve(ctx, "Foo!", &appID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	reloaded, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AppID)
	require.Equal(t, appID, *reloaded.AppID)
}

func TestResolveAmbiguousIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewIdentityRepository(db)
	resolver := NewIdentityResolver(repo, newTestLogger())
	ctx := context.Background()

	// 两个展示名不同但规范化名相同的身份（唯一约束是 (name, cname) 对，允许共存）
	require.NoError(t, repo.Create(ctx, &model.GameIdentity{
		ID: uuid.NewString(), Name: "Foo", CName: "foo",
	}))
	require.NoError(t, repo.Create(ctx, &model.GameIdentity{
		ID: uuid.NewString(), Name: "Foo!", CName: "foo",
	}))

	_, err := resolver.Resolve(ctx, "FOO", nil)
	require.ErrorIs(t, err, ErrAmbiguousIdentity)
}
