package repository

import (
	"context"

	"GameDealSync/internal/model"

	"gorm.io/gorm"
)

// SnapshotRepository 跨店对比快照仓储。快照是纯投影，
// 重建采用先清后写整表替换，不做增量。
type SnapshotRepository interface {
	WithTx(tx *gorm.DB) SnapshotRepository
	ReplaceAll(ctx context.Context, rows []*model.ComparisonRow) error
	// List 读取快照行；appIDs 非空时只返回 app_id 在集合内的行（愿望单投影）
	List(ctx context.Context, appIDs []int64) ([]*model.ComparisonRow, error)
	Get(ctx context.Context, identityID string) (*model.ComparisonRow, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) WithTx(tx *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: tx}
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, rows []*model.ComparisonRow) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.ComparisonRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}

func (r *snapshotRepository) List(ctx context.Context, appIDs []int64) ([]*model.ComparisonRow, error) {
	db := r.db.WithContext(ctx).Model(&model.ComparisonRow{})
	if len(appIDs) > 0 {
		db = db.Where("app_id IN ?", appIDs)
	}
	var rows []*model.ComparisonRow
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *snapshotRepository) Get(ctx context.Context, identityID string) (*model.ComparisonRow, error) {
	var row model.ComparisonRow
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
