package repository

import (
	"context"
	"time"

	"GameDealSync/internal/model"

	"gorm.io/gorm"
)

// LedgerEntry 只暴露给 service 的轻量视图行，快照重建按它扫流水
type LedgerEntry struct {
	RowID         uint64    `gorm:"column:id"`
	IdentityID    string    `gorm:"column:identity_id"`
	DiscountPrice float64   `gorm:"column:discount_price"`
	ScrapedAt     time.Time `gorm:"column:scraped_at"`
}

// OrphanEntry 尚未归属身份的流水行（补挂时只需要行号和名字）
type OrphanEntry struct {
	RowID uint64 `gorm:"column:id"`
	Name  string `gorm:"column:name"`
}

// LedgerRepository 各商店价格流水仓储。流水只追加：
// 唯一允许的更新是给孤儿行补挂 identity_id。
type LedgerRepository interface {
	WithTx(tx *gorm.DB) LedgerRepository
	// Append 追加一条流水；同店同 (name, list_price, discount_price, scraped_at)
	// 已存在则判定为重复，静默跳过并返回 false
	Append(ctx context.Context, obs model.Observation) (bool, error)
	// ListOrphans 某店全部孤儿行，按插入序
	ListOrphans(ctx context.Context, store model.StoreType) ([]*OrphanEntry, error)
	// LinkIdentity 给孤儿行补挂身份引用
	LinkIdentity(ctx context.Context, store model.StoreType, rowID uint64, identityID string) error
	// ListLinked 某店全部已归属流水，按 (scraped_at, id) 升序，快照重建用
	ListLinked(ctx context.Context, store model.StoreType) ([]*LedgerEntry, error)
	Count(ctx context.Context, store model.StoreType) (int64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: tx}
}

func (r *ledgerRepository) Append(ctx context.Context, obs model.Observation) (bool, error) {
	core := obs.Core()
	var dup int64
	err := r.db.WithContext(ctx).Table(obs.TableName()).
		Where("name = ? AND list_price = ? AND discount_price = ? AND scraped_at = ?",
			core.Name, core.ListPrice, core.DiscountPrice, core.ScrapedAt).
		Count(&dup).Error
	if err != nil {
		return false, err
	}
	if dup > 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Create(obs).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *ledgerRepository) ListOrphans(ctx context.Context, store model.StoreType) ([]*OrphanEntry, error) {
	var rows []*OrphanEntry
	err := r.db.WithContext(ctx).Table(model.TableFor(store)).
		Select("id, name").
		Where("identity_id IS NULL").
		Order("id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ledgerRepository) LinkIdentity(ctx context.Context, store model.StoreType, rowID uint64, identityID string) error {
	return r.db.WithContext(ctx).Table(model.TableFor(store)).
		Where("id = ?", rowID).
		Update("identity_id", identityID).Error
}

func (r *ledgerRepository) ListLinked(ctx context.Context, store model.StoreType) ([]*LedgerEntry, error) {
	var rows []*LedgerEntry
	err := r.db.WithContext(ctx).Table(model.TableFor(store)).
		Select("id, identity_id, discount_price, scraped_at").
		Where("identity_id IS NOT NULL").
		Order("scraped_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ledgerRepository) Count(ctx context.Context, store model.StoreType) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table(model.TableFor(store)).Count(&total).Error
	return total, err
}
