package service

import (
	"context"
	"errors"
	"fmt"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// BundleExpander 把一条原始捆绑包报价展开成成员行：每个成员各自走身份解析，
// 解析不动的成员留空 identity_id 照样落行——捆绑包从不因为个别成员失配整包丢弃。
type BundleExpander struct {
	bundleRepo repository.BundleRepository
	resolver   *IdentityResolver
	logger     *logrus.Logger
}

func NewBundleExpander(bundleRepo repository.BundleRepository, resolver *IdentityResolver, logger *logrus.Logger) *BundleExpander {
	return &BundleExpander{
		bundleRepo: bundleRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// Expand 落库一个捆绑包。返回成功解析的成员数（日志用），成员行数恒等于成员数。
func (s *BundleExpander) Expand(ctx context.Context, store model.StoreType, draft *model.BundleDraft) (int, error) {
	offer := draft.Offer
	offer.Store = store

	// 重复文件防护：同店同名同抓取时间视为已入库，整包跳过
	exists, err := s.bundleRepo.ExistsOffer(ctx, store, offer.Name, offer)
	if err != nil {
		return 0, fmt.Errorf("查捆绑包是否已入库失败: %w", err)
	}
	if exists {
		return 0, nil
	}

	if err := s.bundleRepo.CreateOffer(ctx, offer); err != nil {
		return 0, fmt.Errorf("写入捆绑包报价失败: %w", err)
	}

	resolved := 0
	for _, member := range draft.Members {
		row := &model.BundleMember{
			OfferID:       offer.ID,
			Name:          member.Name,
			ListPrice:     member.ListPrice,
			DiscountPrice: member.DiscountPrice,
		}
		identity, err := s.resolver.Resolve(ctx, member.Name, member.AppID)
		switch {
		case errors.Is(err, ErrAmbiguousIdentity):
			// 留空引用，下轮重试
			s.logger.WithFields(logrus.Fields{
				"store":  store,
				"bundle": offer.Name,
				"member": member.Name,
			}).Warn("捆绑包成员身份冲突，按孤儿记录")
		case err != nil:
			return resolved, fmt.Errorf("解析捆绑包成员失败: %w", err)
		default:
			row.IdentityID = &identity.ID
			resolved++
		}
		if err := s.bundleRepo.CreateMember(ctx, row); err != nil {
			return resolved, fmt.Errorf("写入捆绑包成员失败: %w", err)
		}
	}
	return resolved, nil
}

// WithRepos 返回绑定到事务内仓储的副本
func (s *BundleExpander) WithRepos(bundleRepo repository.BundleRepository, resolver *IdentityResolver) *BundleExpander {
	return &BundleExpander{bundleRepo: bundleRepo, resolver: resolver, logger: s.logger}
}
