package service

import (
	"context"
	"encoding/json"
	"fmt"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// storePrecedence 元数据字段归属的商店优先级，大者为强。
// Steam 目录最全（tags/评测/平台标记/DLC标记都有），做最高权威；
// GOG 有开发商/发行商等较全的目录字段；其余按字段丰富度递减。
// 高优先级后写覆盖低优先级，低优先级只能填空，缺失字段永不落笔。
var storePrecedence = map[model.StoreType]int{
	model.StoreSteam:       70,
	model.StoreGog:         60,
	model.StoreGmg:         50,
	model.StoreWgs:         40,
	model.StoreIndiegala:   30,
	model.StoreFanatical:   20,
	model.StoreGamebillet:  10,
	model.StoreGamesplanet: 5,
}

// MetadataMerger 把单店上报的目录属性合并进聚合身份
type MetadataMerger struct {
	identityRepo repository.IdentityRepository
	logger       *logrus.Logger
}

func NewMetadataMerger(identityRepo repository.IdentityRepository, logger *logrus.Logger) *MetadataMerger {
	return &MetadataMerger{
		identityRepo: identityRepo,
		logger:       logger,
	}
}

// Merge 按字段级优先级合并。每个字段记着最近一次写它的商店（field_sources），
// 本次来源优先级不低于记录值才允许覆盖；没人写过的字段谁都能填。
func (s *MetadataMerger) Merge(ctx context.Context, identity *model.GameIdentity, store model.StoreType, patch *model.MetadataPatch) error {
	if patch == nil || patch.IsEmpty() {
		return nil
	}

	sources := make(map[string]string)
	if len(identity.FieldSources) > 0 {
		if err := json.Unmarshal(identity.FieldSources, &sources); err != nil {
			return fmt.Errorf("解析field_sources失败: %w", err)
		}
	}

	incoming := storePrecedence[store]
	updates := make(map[string]interface{})
	for field, value := range patch.Fields() {
		recorded, written := sources[field]
		if written && incoming < storePrecedence[model.StoreType(recorded)] {
			continue // 已有更高权威的值，低优先级不许覆盖
		}
		updates[field] = value
		sources[field] = string(store)
	}
	if len(updates) == 0 {
		return nil
	}

	encoded, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("序列化field_sources失败: %w", err)
	}
	updates["field_sources"] = encoded

	if err := s.identityRepo.UpdateFields(ctx, identity.ID, updates); err != nil {
		return fmt.Errorf("写入元数据失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"identity": identity.ID,
		"store":    store,
		"fields":   len(updates) - 1,
	}).Debug("元数据合并完成")
	return nil
}

// WithRepo 返回绑定到事务内仓储的副本
func (s *MetadataMerger) WithRepo(identityRepo repository.IdentityRepository) *MetadataMerger {
	return &MetadataMerger{identityRepo: identityRepo, logger: s.logger}
}
