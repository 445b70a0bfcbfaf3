package service

import (
	"context"
	"errors"
	"fmt"

	"GameDealSync/internal/canonical"
	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrAmbiguousIdentity 规范化名撞到了多个身份。不自动挑一个：
// 把两款不同的游戏静默并成一款，比两边都挂起严重得多。
var ErrAmbiguousIdentity = errors.New("规范化名冲突，无法唯一归属")

// IdentityResolver 身份解析：把商店上报的展示名（可带 appid）归到聚合身份，
// 没有匹配就新建。appid 精确匹配优先于名字——名字会漂，编号不会。
type IdentityResolver struct {
	identityRepo repository.IdentityRepository
	logger       *logrus.Logger
}

func NewIdentityResolver(identityRepo repository.IdentityRepository, logger *logrus.Logger) *IdentityResolver {
	return &IdentityResolver{
		identityRepo: identityRepo,
		logger:       logger,
	}
}

// Resolve 解析一个观测名。返回 ErrAmbiguousIdentity 时调用方应把该条观测
// 作为孤儿写入流水（identity_id 为空），留待后续轮次重试。
func (s *IdentityResolver) Resolve(ctx context.Context, name string, appID *int64) (*model.GameIdentity, error) {
	// 1. appid 精确匹配（权威路径）
	if appID != nil {
		identity, err := s.identityRepo.GetByAppID(ctx, *appID)
		if err != nil {
			return nil, fmt.Errorf("按appid查身份失败: %w", err)
		}
		if identity != nil {
			return identity, nil
		}
	}

	// 2. 规范化名匹配
	cname := canonical.Canonicalize(name)
	matches, err := s.identityRepo.ListByCName(ctx, cname)
	if err != nil {
		return nil, fmt.Errorf("按规范化名查身份失败: %w", err)
	}
	switch len(matches) {
	case 0:
		// 3. 没有匹配，新建身份；元数据留给 MetadataMerger 填
	case 1:
		identity := matches[0]
		// 带 appid 来的观测命中了还没记 appid 的身份，补记上（编号权威）
		if appID != nil && identity.AppID == nil {
			if err := s.identityRepo.SetAppID(ctx, identity.ID, *appID); err != nil {
				return nil, fmt.Errorf("补记appid失败: %w", err)
			}
			identity.AppID = appID
		}
		return identity, nil
	default:
		s.logger.WithFields(logrus.Fields{
			"name":    name,
			"cname":   cname,
			"matches": len(matches),
		}).Warn("规范化名命中多个身份，拒绝归并")
		return nil, ErrAmbiguousIdentity
	}

	identity := &model.GameIdentity{
		ID:    uuid.NewString(),
		Name:  name,
		CName: cname,
		AppID: appID,
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("新建身份失败: %w", err)
	}
	return identity, nil
}

// WithRepo 返回绑定到另一套仓储（通常是事务内仓储）的解析器副本
func (s *IdentityResolver) WithRepo(identityRepo repository.IdentityRepository) *IdentityResolver {
	return &IdentityResolver{identityRepo: identityRepo, logger: s.logger}
}
