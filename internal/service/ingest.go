package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"GameDealSync/internal/canonical"
	"GameDealSync/internal/config"
	"GameDealSync/internal/interfaces"
	"GameDealSync/internal/model"
	"GameDealSync/internal/repository"
	"GameDealSync/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fileKind 待摄入文件的种类
type fileKind string

const (
	kindPrice    fileKind = "price"    // 价格快照
	kindBundle   fileKind = "bundle"   // 捆绑包快照
	kindCatalog  fileKind = "catalog"  // 目录元数据（steam appinfo）
	kindWishlist fileKind = "wishlist" // 愿望单
)

// ingestJob 一个待处理文件及其归属
type ingestJob struct {
	store model.StoreType
	kind  fileKind
	file  utils.PendingFile
}

// PassReport 一轮摄入的结果统计
type PassReport struct {
	FilesConsumed int // 完整提交并归档的文件数
	FilesFailed   int // 整体回滚、留在原地重试的文件数
	Observations  int // 新写入的流水行数
	Duplicates    int // 判重跳过的流水行数
	Orphans       int // 以孤儿身份落库的流水行数
	Relinked      int // 本轮补挂上身份的历史孤儿行数
	Bundles       int // 新写入的捆绑包数
}

// IngestService 摄入管线：逐文件 解析→解析身份→写流水→并元数据→展开捆绑包，
// 单文件一个事务，要么整文件提交要么整文件回滚。管线必须单写者：
// 流水判重是查后插，身份解析是查后建，两轮并跑都会写出重行，
// 所以整轮摄入持管线互斥锁，HTTP 层并发触发也只会排队不会并跑。
type IngestService struct {
	db      *gorm.DB
	logger  *logrus.Logger
	cfg     *config.Config
	readers map[model.StoreType]interfaces.StoreReader

	mu sync.Mutex // 管线级串行化：摄入轮次之间、摄入与手动重建之间互斥

	identityRepo repository.IdentityRepository
	ledgerRepo   repository.LedgerRepository
	bundleRepo   repository.BundleRepository
	wishlistRepo repository.WishlistRepository

	resolver *IdentityResolver
	merger   *MetadataMerger
	snapshot *SnapshotService
}

func NewIngestService(
	db *gorm.DB,
	logger *logrus.Logger,
	cfg *config.Config,
	readers map[model.StoreType]interfaces.StoreReader,
	snapshot *SnapshotService,
) *IngestService {
	identityRepo := repository.NewIdentityRepository(db)
	return &IngestService{
		db:           db,
		logger:       logger,
		cfg:          cfg,
		readers:      readers,
		identityRepo: identityRepo,
		ledgerRepo:   repository.NewLedgerRepository(db),
		bundleRepo:   repository.NewBundleRepository(db),
		wishlistRepo: repository.NewWishlistRepository(db),
		resolver:     NewIdentityResolver(identityRepo, logger),
		merger:       NewMetadataMerger(identityRepo, logger),
		snapshot:     snapshot,
	}
}

// RunPass 跑一轮完整摄入：先补挂历史孤儿，再按最老在前处理全部待处理文件，
// 全部提交后统一重建对比快照。整轮持锁，快照绝不和摄入并跑。
func (s *IngestService) RunPass(ctx context.Context) (*PassReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &PassReport{}

	// 1. 孤儿重试：上几轮没解析出身份的流水，可能已被别的店种出了身份
	if err := s.relinkOrphans(ctx, report); err != nil {
		return report, fmt.Errorf("补挂孤儿流水失败: %w", err)
	}

	// 2. 收集所有商店的待处理文件，跨店统一按修改时间排序
	jobs, err := s.pendingJobs()
	if err != nil {
		return report, err
	}

	// 3. 逐文件处理：成功即归档（告知文件发现方可以收走），失败整文件留在原地
	for _, job := range jobs {
		logEntry := s.logger.WithFields(logrus.Fields{
			"store": job.store,
			"kind":  job.kind,
			"file":  filepath.Base(job.file.Path),
		})
		if err := s.ingestOne(ctx, job, report); err != nil {
			report.FilesFailed++
			logEntry.WithError(err).Error("文件摄入失败，保留待重试")
			continue
		}
		if err := utils.ArchiveFile(job.file.Path, s.cfg.Ingest.BackupDir, string(job.store)); err != nil {
			// 数据已提交，归档失败只记日志；下次重跑会被判重挡住
			logEntry.WithError(err).Warn("归档已消费文件失败")
		}
		report.FilesConsumed++
		logEntry.Info("文件摄入完成")
	}

	// 4. 本轮全部落定后重建快照
	if err := s.snapshot.Rebuild(ctx); err != nil {
		return report, fmt.Errorf("重建快照失败: %w", err)
	}
	return report, nil
}

// RebuildSnapshot 手动重建入口。走同一把管线锁：摄入轮次进行中触发重建，
// 只会排在轮次后面，扫不到半轮数据。
func (s *IngestService) RebuildSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Rebuild(ctx)
}

// pendingJobs 扫描各店输入目录，产出跨店的待处理文件队列（最老在前）
func (s *IngestService) pendingJobs() ([]ingestJob, error) {
	var jobs []ingestJob
	for _, store := range model.AllStores {
		storeCfg, ok := s.cfg.Stores[string(store)]
		if !ok || !storeCfg.Enabled {
			continue
		}
		if _, ok := s.readers[store]; !ok {
			s.logger.WithField("store", store).Error("商店已启用但没有注册Reader")
			continue
		}

		inputDir := storeCfg.InputDir
		if inputDir == "" {
			inputDir = string(store)
		}
		dir := filepath.Join(s.cfg.Ingest.OutputDir, inputDir)

		prefixes := []struct {
			prefix string
			kind   fileKind
		}{
			{storeCfg.PricePrefix, kindPrice},
			{storeCfg.BundlePrefix, kindBundle},
			{storeCfg.CatalogPrefix, kindCatalog},
			{storeCfg.WishlistPrefix, kindWishlist},
		}
		for _, p := range prefixes {
			if p.prefix == "" {
				continue
			}
			files, err := utils.PendingFiles(dir, p.prefix)
			if err != nil {
				return nil, fmt.Errorf("扫描%s待处理文件失败: %w", store, err)
			}
			for _, f := range files {
				jobs = append(jobs, ingestJob{store: store, kind: p.kind, file: f})
			}
		}
	}
	// 跨店按修改时间重排，最老的文件先进管线
	for i := 1; i < len(jobs); i++ {
		for j := i; j > 0 && earlier(jobs[j].file, jobs[j-1].file); j-- {
			jobs[j], jobs[j-1] = jobs[j-1], jobs[j]
		}
	}
	return jobs, nil
}

func earlier(a, b utils.PendingFile) bool {
	if a.ModTime.Equal(b.ModTime) {
		return a.Path < b.Path
	}
	return a.ModTime.Before(b.ModTime)
}

// ingestOne 单文件摄入：解析在事务外（纯函数，失败即整文件拒收），
// 落库在一个事务内，任何约束冲突整体回滚、先前状态不动。
func (s *IngestService) ingestOne(ctx context.Context, job ingestJob, report *PassReport) error {
	raw, err := os.ReadFile(job.file.Path)
	if err != nil {
		return fmt.Errorf("读取文件失败: %w", err)
	}
	reader := s.readers[job.store]

	switch job.kind {
	case kindPrice:
		observations, err := reader.ParsePrices(raw, job.file.ModTime)
		if err != nil {
			return fmt.Errorf("解析价格快照失败: %w", err)
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.commitPrices(ctx, tx, job.store, observations, report)
		})

	case kindBundle:
		bundleReader, ok := reader.(interfaces.BundleReader)
		if !ok {
			return fmt.Errorf("商店%s不支持捆绑包", job.store)
		}
		drafts, err := bundleReader.ParseBundles(raw, job.file.ModTime)
		if err != nil {
			return fmt.Errorf("解析捆绑包快照失败: %w", err)
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.commitBundles(ctx, tx, job.store, drafts, report)
		})

	case kindCatalog:
		catalogReader, ok := reader.(interfaces.CatalogReader)
		if !ok {
			return fmt.Errorf("商店%s不支持目录元数据", job.store)
		}
		entries, err := catalogReader.ParseCatalog(raw)
		if err != nil {
			return fmt.Errorf("解析目录元数据失败: %w", err)
		}
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.commitCatalog(ctx, tx, job.store, entries)
		})

	case kindWishlist:
		wishlistReader, ok := reader.(interfaces.WishlistReader)
		if !ok {
			return fmt.Errorf("商店%s不支持愿望单", job.store)
		}
		appIDs, err := wishlistReader.ParseWishlist(raw)
		if err != nil {
			return fmt.Errorf("解析愿望单失败: %w", err)
		}
		return s.wishlistRepo.ReplaceAll(ctx, appIDs)
	}
	return fmt.Errorf("未知文件种类: %s", job.kind)
}

// commitPrices 价格快照落库：逐条 解析身份→判重追加→并元数据。
// 身份冲突不阻塞摄入：该条按孤儿落流水，留待后续轮次补挂。
func (s *IngestService) commitPrices(ctx context.Context, tx *gorm.DB, store model.StoreType, observations []model.Observation, report *PassReport) error {
	resolver := s.resolver.WithRepo(s.identityRepo.WithTx(tx))
	merger := s.merger.WithRepo(s.identityRepo.WithTx(tx))
	ledger := s.ledgerRepo.WithTx(tx)

	for _, obs := range observations {
		core := obs.Core()
		identity, err := resolver.Resolve(ctx, core.Name, obs.AppIDHint())
		switch {
		case errors.Is(err, ErrAmbiguousIdentity):
			core.IdentityID = nil
		case err != nil:
			return err
		default:
			core.IdentityID = &identity.ID
		}

		inserted, err := ledger.Append(ctx, obs)
		if err != nil {
			return fmt.Errorf("追加流水失败: %w", err)
		}
		if !inserted {
			report.Duplicates++
			continue // 重复观测静默跳过，元数据也不再重复合并
		}
		report.Observations++
		if identity == nil {
			report.Orphans++
		}

		if identity != nil {
			if err := merger.Merge(ctx, identity, store, obs.Patch()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *IngestService) commitBundles(ctx context.Context, tx *gorm.DB, store model.StoreType, drafts []*model.BundleDraft, report *PassReport) error {
	resolver := s.resolver.WithRepo(s.identityRepo.WithTx(tx))
	expander := NewBundleExpander(s.bundleRepo.WithTx(tx), resolver, s.logger)
	for _, draft := range drafts {
		if _, err := expander.Expand(ctx, store, draft); err != nil {
			return err
		}
		report.Bundles++
	}
	return nil
}

// commitCatalog 目录元数据事件：只建/找身份并合并元数据，不产生价格流水。
// 身份冲突的条目记日志跳过，不拖垮整个文件。
func (s *IngestService) commitCatalog(ctx context.Context, tx *gorm.DB, store model.StoreType, entries []*model.CatalogEntry) error {
	resolver := s.resolver.WithRepo(s.identityRepo.WithTx(tx))
	merger := s.merger.WithRepo(s.identityRepo.WithTx(tx))
	for _, entry := range entries {
		appID := entry.AppID
		identity, err := resolver.Resolve(ctx, entry.Name, &appID)
		if errors.Is(err, ErrAmbiguousIdentity) {
			s.logger.WithFields(logrus.Fields{
				"store": store,
				"name":  entry.Name,
				"appid": entry.AppID,
			}).Warn("目录条目身份冲突，跳过")
			continue
		}
		if err != nil {
			return err
		}
		if err := merger.Merge(ctx, identity, store, entry.Patch); err != nil {
			return err
		}
	}
	return nil
}

// relinkOrphans 孤儿重试：逐店扫 identity_id 为空的流水行重新解析。
// 依然解析不动的继续留着，每轮都会再试。
func (s *IngestService) relinkOrphans(ctx context.Context, report *PassReport) error {
	for _, store := range model.AllStores {
		orphans, err := s.ledgerRepo.ListOrphans(ctx, store)
		if err != nil {
			return err
		}
		for _, orphan := range orphans {
			cname := canonical.Canonicalize(orphan.Name)
			matches, err := s.identityRepo.ListByCName(ctx, cname)
			if err != nil {
				return err
			}
			if len(matches) != 1 {
				continue // 还是没有唯一归属，下轮再说
			}
			if err := s.ledgerRepo.LinkIdentity(ctx, store, orphan.RowID, matches[0].ID); err != nil {
				return err
			}
			report.Relinked++
		}
	}
	return nil
}
