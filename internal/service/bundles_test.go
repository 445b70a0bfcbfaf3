package service

import (
	"context"
	"testing"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestExpandKeepsAmbiguousMemberAsOrphan(t *testing.T) {
	db := newTestDB(t)
	identityRepo := repository.NewIdentityRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	resolver := NewIdentityResolver(identityRepo, newTestLogger())
	expander := NewBundleExpander(bundleRepo, resolver, newTestLogger())
	ctx := context.Background()

	// 制造冲突：两个身份共享规范化名 "foo"
	require.NoError(t, identityRepo.Create(ctx, &model.GameIdentity{
		ID: uuid.NewString(), Name: "Foo", CName: "foo",
	}))
	require.NoError(t, identityRepo.Create(ctx, &model.GameIdentity{
		ID: uuid.NewString(), Name: "Foo!", CName: "foo",
	}))

	draft := &model.BundleDraft{
		Offer: &model.BundleOffer{
			Name:          "Mystery Bundle",
			ScrapedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			ListPrice:     29.99,
			DiscountPrice: 9.99,
		},
		Members: []model.BundleMemberDraft{
			{Name: "Foo"}, // 冲突成员
			{Name: "Bar"}, // 可解析（不存在则新建身份）
		},
	}

	resolved, err := expander.Expand(ctx, model.StoreFanatical, draft)
	require.NoError(t, err)
	require.Equal(t, 1, resolved)

	// 成员行数恒等于成员数，失配成员留空引用
	members, err := bundleRepo.ListMembers(ctx, draft.Offer.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	byName := make(map[string]*model.BundleMember)
	for _, m := range members {
		byName[m.Name] = m
	}
	require.Nil(t, byName["Foo"].IdentityID)
	require.NotNil(t, byName["Bar"].IdentityID)
}

func TestExpandResolvesMemberByAppID(t *testing.T) {
	db := newTestDB(t)
	identityRepo := repository.NewIdentityRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	resolver := NewIdentityResolver(identityRepo, newTestLogger())
	expander := NewBundleExpander(bundleRepo, resolver, newTestLogger())
	ctx := context.Background()

	// 规范化名冲突，但其中一个身份记了 appid
	appID := int64(440)
	target := &model.GameIdentity{ID: uuid.NewString(), Name: "Foo", CName: "foo", AppID: &appID}
	require.NoError(t, identityRepo.Create(ctx, target))
	require.NoError(t, identityRepo.Create(ctx, &model.GameIdentity{
		ID: uuid.NewString(), Name: "Foo!", CName: "foo",
	}))

	// 成员自带 appid（steam 捆绑包），编号权威直接命中，不吃名字冲突
	draft := &model.BundleDraft{
		Offer: &model.BundleOffer{
			Name: "Foo Collection", ScrapedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Members: []model.BundleMemberDraft{{Name: "Foo", AppID: &appID}},
	}

	resolved, err := expander.Expand(ctx, model.StoreSteam, draft)
	require.NoError(t, err)
	require.Equal(t, 1, resolved)

	members, err := bundleRepo.ListMembers(ctx, draft.Offer.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].IdentityID)
	require.Equal(t, target.ID, *members[0].IdentityID)
}

func TestExpandSkipsDuplicateOffer(t *testing.T) {
	db := newTestDB(t)
	identityRepo := repository.NewIdentityRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	resolver := NewIdentityResolver(identityRepo, newTestLogger())
	expander := NewBundleExpander(bundleRepo, resolver, newTestLogger())
	ctx := context.Background()

	scrapedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	makeDraft := func() *model.BundleDraft {
		return &model.BundleDraft{
			Offer: &model.BundleOffer{
				Name: "Build Your Own Bundle", ScrapedAt: scrapedAt, DiscountPrice: 4.99,
			},
			Members: []model.BundleMemberDraft{{Name: "Foo"}},
		}
	}

	_, err := expander.Expand(ctx, model.StoreIndiegala, makeDraft())
	require.NoError(t, err)

	// 同店同名同抓取时间 = 重复文件，整包跳过
	_, err = expander.Expand(ctx, model.StoreIndiegala, makeDraft())
	require.NoError(t, err)

	offers, err := bundleRepo.ListOffers(ctx, model.StoreIndiegala, 10)
	require.NoError(t, err)
	require.Len(t, offers, 1)
}
