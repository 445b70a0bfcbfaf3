package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"

	"github.com/sirupsen/logrus"
)

// SnapshotService 跨店对比快照的重建与查询。
// 重建是对不可变流水的纯投影：流水只会增长，同样的流水+身份重算永远得到同样的快照。
// 同一时刻只允许一次重建在跑，且必须等一轮摄入全部提交后再跑，
// 否则扫到半轮数据会出现部分商店新、部分商店旧的歪快照。
type SnapshotService struct {
	identityRepo repository.IdentityRepository
	ledgerRepo   repository.LedgerRepository
	snapshotRepo repository.SnapshotRepository
	wishlistRepo repository.WishlistRepository
	logger       *logrus.Logger

	mu sync.Mutex // 串行化重建
}

func NewSnapshotService(
	identityRepo repository.IdentityRepository,
	ledgerRepo repository.LedgerRepository,
	snapshotRepo repository.SnapshotRepository,
	wishlistRepo repository.WishlistRepository,
	logger *logrus.Logger,
) *SnapshotService {
	return &SnapshotService{
		identityRepo: identityRepo,
		ledgerRepo:   ledgerRepo,
		snapshotRepo: snapshotRepo,
		wishlistRepo: wishlistRepo,
		logger:       logger,
	}
}

// Rebuild 全量重建：每个身份一条宽行，各店取该身份时间戳最大的一条流水的折后价，
// 时间戳打平按插入序最新者胜。先清后写，幂等。
func (s *SnapshotService) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identities, err := s.identityRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("拉取身份列表失败: %w", err)
	}

	// 每店一张 身份 → 最新流水 的映射
	latestByStore := make(map[model.StoreType]map[string]*repository.LedgerEntry, len(model.AllStores))
	for _, store := range model.AllStores {
		entries, err := s.ledgerRepo.ListLinked(ctx, store)
		if err != nil {
			return fmt.Errorf("拉取%s流水失败: %w", store, err)
		}
		latestByStore[store] = latestPerIdentity(entries)
	}

	rebuiltAt := time.Now()
	rows := make([]*model.ComparisonRow, 0, len(identities))
	for _, identity := range identities {
		row := &model.ComparisonRow{
			IdentityID:        identity.ID,
			Name:              identity.Name,
			CName:             identity.CName,
			AppID:             identity.AppID,
			IsDLC:             identity.IsDLC,
			Tags:              identity.Tags,
			ShortDesc:         identity.ShortDesc,
			Developers:        identity.Developers,
			Publishers:        identity.Publishers,
			Franchises:        identity.Franchises,
			ReviewCount:       identity.ReviewCount,
			ReviewPctPositive: identity.ReviewPctPositive,
			ReleaseDate:       identity.ReleaseDate,
			Windows:           identity.Windows,
			Mac:               identity.Mac,
			Linux:             identity.Linux,
			SteamDeckCompat:   identity.SteamDeckCompat,
			RebuiltAt:         rebuiltAt,
		}
		for _, store := range model.AllStores {
			if entry, ok := latestByStore[store][identity.ID]; ok {
				price := entry.DiscountPrice
				row.SetStorePrice(store, &price)
			}
		}
		rows = append(rows, row)
	}

	if err := s.snapshotRepo.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("替换快照表失败: %w", err)
	}
	s.logger.Infof("快照重建完成：%d 个身份", len(rows))
	return nil
}

// latestPerIdentity 从 (scraped_at, id) 升序的流水里取每个身份的最新一条。
// 升序扫过去直接覆盖即可：时间戳相同由更大的行号（后插入者）胜出。
func latestPerIdentity(entries []*repository.LedgerEntry) map[string]*repository.LedgerEntry {
	latest := make(map[string]*repository.LedgerEntry)
	for _, entry := range entries {
		if best, ok := latest[entry.IdentityID]; ok {
			if entry.ScrapedAt.Before(best.ScrapedAt) {
				continue
			}
			if entry.ScrapedAt.Equal(best.ScrapedAt) && entry.RowID < best.RowID {
				continue
			}
		}
		latest[entry.IdentityID] = entry
	}
	return latest
}

// ListComparison 读取快照。wishlistOnly 时按愿望单 appid 集合做读时投影
func (s *SnapshotService) ListComparison(ctx context.Context, wishlistOnly bool) ([]*model.ComparisonRow, error) {
	var appIDs []int64
	if wishlistOnly {
		var err error
		appIDs, err = s.wishlistRepo.ListAppIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("读取愿望单失败: %w", err)
		}
		if len(appIDs) == 0 {
			return []*model.ComparisonRow{}, nil
		}
	}
	return s.snapshotRepo.List(ctx, appIDs)
}

// GetComparison 单个身份的快照行
func (s *SnapshotService) GetComparison(ctx context.Context, identityID string) (*model.ComparisonRow, error) {
	return s.snapshotRepo.Get(ctx, identityID)
}
