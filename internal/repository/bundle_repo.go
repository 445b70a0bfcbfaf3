package repository

import (
	"context"

	"GameDealSync/internal/model"

	"gorm.io/gorm"
)

// BundleRepository 捆绑包报价与成员仓储
type BundleRepository interface {
	WithTx(tx *gorm.DB) BundleRepository
	CreateOffer(ctx context.Context, offer *model.BundleOffer) error
	CreateMember(ctx context.Context, member *model.BundleMember) error
	// ExistsOffer 同店同名同抓取时间的捆绑包是否已入库（重复文件防护）
	ExistsOffer(ctx context.Context, store model.StoreType, name string, offer *model.BundleOffer) (bool, error)
	ListOffers(ctx context.Context, store model.StoreType, limit int) ([]*model.BundleOffer, error)
	ListMembers(ctx context.Context, offerID uint64) ([]*model.BundleMember, error)
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) WithTx(tx *gorm.DB) BundleRepository {
	return &bundleRepository{db: tx}
}

func (r *bundleRepository) CreateOffer(ctx context.Context, offer *model.BundleOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *bundleRepository) CreateMember(ctx context.Context, member *model.BundleMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *bundleRepository) ExistsOffer(ctx context.Context, store model.StoreType, name string, offer *model.BundleOffer) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.BundleOffer{}).
		Where("store = ? AND name = ? AND scraped_at = ?", store, name, offer.ScrapedAt).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *bundleRepository) ListOffers(ctx context.Context, store model.StoreType, limit int) ([]*model.BundleOffer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.db.WithContext(ctx).Model(&model.BundleOffer{})
	if store != "" {
		db = db.Where("store = ?", store)
	}
	var offers []*model.BundleOffer
	if err := db.Order("scraped_at DESC, id DESC").Limit(limit).Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *bundleRepository) ListMembers(ctx context.Context, offerID uint64) ([]*model.BundleMember, error) {
	var members []*model.BundleMember
	if err := r.db.WithContext(ctx).Where("offer_id = ?", offerID).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
