package repository

import (
	"context"
	"errors"

	"GameDealSync/internal/model"

	"gorm.io/gorm"
)

// IdentityRepository 聚合游戏身份仓储
type IdentityRepository interface {
	// WithTx 返回绑定到指定事务的仓储副本（单文件事务用）
	WithTx(tx *gorm.DB) IdentityRepository
	// GetByAppID 按 Steam appid 精确查身份，查不到返回 (nil, nil)
	GetByAppID(ctx context.Context, appID int64) (*model.GameIdentity, error)
	// ListByCName 按规范化名查身份（唯一性约束下最多一条，多条即冲突）
	ListByCName(ctx context.Context, cname string) ([]*model.GameIdentity, error)
	Create(ctx context.Context, identity *model.GameIdentity) error
	Get(ctx context.Context, id string) (*model.GameIdentity, error)
	ListAll(ctx context.Context) ([]*model.GameIdentity, error)
	// SetAppID 给已存在的身份补记 appid（另一家店先见过这个名字的情况）
	SetAppID(ctx context.Context, id string, appID int64) error
	// UpdateFields 元数据合并的落库入口，只写 updates 里出现的列
	UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) WithTx(tx *gorm.DB) IdentityRepository {
	return &identityRepository{db: tx}
}

func (r *identityRepository) GetByAppID(ctx context.Context, appID int64) (*model.GameIdentity, error) {
	var identity model.GameIdentity
	err := r.db.WithContext(ctx).Where("app_id = ?", appID).First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) ListByCName(ctx context.Context, cname string) ([]*model.GameIdentity, error) {
	var list []*model.GameIdentity
	if err := r.db.WithContext(ctx).Where("cname = ?", cname).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *identityRepository) Create(ctx context.Context, identity *model.GameIdentity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *identityRepository) Get(ctx context.Context, id string) (*model.GameIdentity, error) {
	var identity model.GameIdentity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&identity).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) ListAll(ctx context.Context) ([]*model.GameIdentity, error) {
	var list []*model.GameIdentity
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *identityRepository) SetAppID(ctx context.Context, id string, appID int64) error {
	return r.db.WithContext(ctx).Model(&model.GameIdentity{}).
		Where("id = ?", id).Update("app_id", appID).Error
}

func (r *identityRepository) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.GameIdentity{}).
		Where("id = ?", id).Updates(updates).Error
}
