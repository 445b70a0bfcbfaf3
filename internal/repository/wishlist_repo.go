package repository

import (
	"context"

	"GameDealSync/internal/model"

	"gorm.io/gorm"
)

// WishlistRepository 愿望单仓储。整表替换式导入（先清后写），
// 核心流程只拿它过滤快照，从不改它。
type WishlistRepository interface {
	WithTx(tx *gorm.DB) WishlistRepository
	ReplaceAll(ctx context.Context, appIDs []int64) error
	ListAppIDs(ctx context.Context) ([]int64, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) WithTx(tx *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: tx}
}

func (r *wishlistRepository) ReplaceAll(ctx context.Context, appIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.WishlistEntry{}).Error; err != nil {
			return err
		}
		// 同一份愿望单里 appid 可能重复，入库前去重
		seen := make(map[int64]struct{}, len(appIDs))
		for _, appID := range appIDs {
			if _, ok := seen[appID]; ok {
				continue
			}
			seen[appID] = struct{}{}
			if err := tx.Create(&model.WishlistEntry{AppID: appID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *wishlistRepository) ListAppIDs(ctx context.Context) ([]int64, error) {
	var appIDs []int64
	err := r.db.WithContext(ctx).Model(&model.WishlistEntry{}).
		Order("app_id ASC").Pluck("app_id", &appIDs).Error
	if err != nil {
		return nil, err
	}
	return appIDs, nil
}
