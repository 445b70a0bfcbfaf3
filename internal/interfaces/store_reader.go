package interfaces

import (
	"time"

	"GameDealSync/internal/model"
)

// StoreReader 每家商店的快照解析器必须实现的核心接口。
// Reader 纯函数、无状态：一份原始快照字节进，一串类型化流水出，
// 不碰网络也不碰数据库。
type StoreReader interface {
	Store() model.StoreType
	// ParsePrices 解析该店原生格式的价格快照；格式坏了返回 ParseError（整文件拒收）
	ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error)
}

// BundleReader 支持捆绑包的商店（steam/fanatical/indiegala）额外实现
type BundleReader interface {
	ParseBundles(raw []byte, scrapedAt time.Time) ([]*model.BundleDraft, error)
}

// CatalogReader 能产出目录元数据事件的商店（目前只有 steam 的 appinfo）额外实现
type CatalogReader interface {
	ParseCatalog(raw []byte) ([]*model.CatalogEntry, error)
}

// WishlistReader 能产出愿望单（外部目录号集合）的商店额外实现
type WishlistReader interface {
	ParseWishlist(raw []byte) ([]int64, error)
}
