package model

import (
	"strconv"
)

// 每家商店一张流水表。店专属列来自各店快照里实际提供的字段，
// 没有的字段不建列，避免一张万能宽表塞满空值。

// SteamObservation Steam 价格流水（按 purchase option 记录，带 package/bundle id）
type SteamObservation struct {
	ObservationCore
	PackageID      *int32 `gorm:"column:package_id"`
	BundleID       *int32 `gorm:"column:bundle_id"`
	AvailableUntil int64  `gorm:"column:available_until"` // 折扣截止（unix秒）
}

func (SteamObservation) TableName() string { return "steam_prices" }
func (o *SteamObservation) Core() *ObservationCore { return &o.ObservationCore }
func (SteamObservation) Store() StoreType { return StoreSteam }

// Steam 的目录元数据走 appinfo 事件单独合并，价格流水本身不贡献元数据
func (o *SteamObservation) Patch() *MetadataPatch { return &MetadataPatch{} }

// FanaticalObservation Fanatical 价格流水
type FanaticalObservation struct {
	ObservationCore
	BestEver    bool   `gorm:"column:best_ever"`  // 史低标记
	FlashSale   bool   `gorm:"column:flash_sale"` // 限时闪购
	OS          string `gorm:"column:os;type:varchar(64)"`
	ReleaseDate int64  `gorm:"column:release_date"`
	ValidFrom   int64  `gorm:"column:valid_from"`
	ValidUntil  int64  `gorm:"column:valid_until"`
}

func (FanaticalObservation) TableName() string { return "fanatical_prices" }
func (o *FanaticalObservation) Core() *ObservationCore { return &o.ObservationCore }
func (FanaticalObservation) Store() StoreType { return StoreFanatical }

func (o *FanaticalObservation) Patch() *MetadataPatch {
	p := &MetadataPatch{}
	p.SetPlatformsFromOS(o.OS)
	if o.ReleaseDate > 0 {
		p.ReleaseDate = &o.ReleaseDate
	}
	return p
}

// GogObservation GOG 价格流水
type GogObservation struct {
	ObservationCore
	ReleaseDate int64  `gorm:"column:release_date"`
	Developer   string `gorm:"column:developer;type:varchar(256)"`
	Publisher   string `gorm:"column:publisher;type:varchar(256)"`
	ProductType string `gorm:"column:product_type;type:varchar(32)"`
}

func (GogObservation) TableName() string { return "gog_prices" }
func (o *GogObservation) Core() *ObservationCore { return &o.ObservationCore }
func (GogObservation) Store() StoreType { return StoreGog }

func (o *GogObservation) Patch() *MetadataPatch {
	p := &MetadataPatch{}
	if o.Developer != "" {
		p.Developers = &o.Developer
	}
	if o.Publisher != "" {
		p.Publishers = &o.Publisher
	}
	if o.ReleaseDate > 0 {
		p.ReleaseDate = &o.ReleaseDate
	}
	if o.ProductType != "" {
		isDLC := o.ProductType == "dlc"
		p.IsDLC = &isDLC
	}
	return p
}

// GmgObservation GreenManGaming 价格流水
type GmgObservation struct {
	ObservationCore
	SteamAppID string `gorm:"column:steam_app_id;type:varchar(32)"` // GMG 自带的 steam appid（可能为空串）
	IsDLC      bool   `gorm:"column:is_dlc"`
	Franchise  string `gorm:"column:franchise;type:varchar(256)"`
	Publisher  string `gorm:"column:publisher;type:varchar(256)"`
}

func (GmgObservation) TableName() string { return "gmg_prices" }
func (o *GmgObservation) Core() *ObservationCore { return &o.ObservationCore }
func (GmgObservation) Store() StoreType { return StoreGmg }

func (o *GmgObservation) Patch() *MetadataPatch {
	p := &MetadataPatch{IsDLC: &o.IsDLC}
	if o.Franchise != "" {
		p.Franchises = &o.Franchise
	}
	if o.Publisher != "" {
		p.Publishers = &o.Publisher
	}
	return p
}

// IndiegalaObservation IndieGala 价格流水（只收 Steam key 类 DRM 的商品）
type IndiegalaObservation struct {
	ObservationCore
	ValidFrom   int64  `gorm:"column:valid_from"`
	ValidUntil  int64  `gorm:"column:valid_until"`
	OS          string `gorm:"column:os;type:varchar(64)"`
	ReleaseDate int64  `gorm:"column:release_date"`
	Publisher   string `gorm:"column:publisher;type:varchar(256)"`
}

func (IndiegalaObservation) TableName() string { return "indiegala_prices" }
func (o *IndiegalaObservation) Core() *ObservationCore { return &o.ObservationCore }
func (IndiegalaObservation) Store() StoreType { return StoreIndiegala }

func (o *IndiegalaObservation) Patch() *MetadataPatch {
	p := &MetadataPatch{}
	p.SetPlatformsFromOS(o.OS)
	if o.Publisher != "" {
		p.Publishers = &o.Publisher
	}
	if o.ReleaseDate > 0 {
		p.ReleaseDate = &o.ReleaseDate
	}
	return p
}

// WgsObservation WinGameStore 价格流水（只收 Steam DRM 的商品）
type WgsObservation struct {
	ObservationCore
	IsDLC     bool   `gorm:"column:is_dlc"`
	Publisher string `gorm:"column:publisher;type:varchar(256)"`
}

func (WgsObservation) TableName() string { return "wingamestore_prices" }
func (o *WgsObservation) Core() *ObservationCore { return &o.ObservationCore }
func (WgsObservation) Store() StoreType { return StoreWgs }

func (o *WgsObservation) Patch() *MetadataPatch {
	p := &MetadataPatch{IsDLC: &o.IsDLC}
	if o.Publisher != "" {
		p.Publishers = &o.Publisher
	}
	return p
}

// GamebilletObservation GameBillet 价格流水（快照里只有名字和价格）
type GamebilletObservation struct {
	ObservationCore
}

func (GamebilletObservation) TableName() string { return "gamebillet_prices" }
func (o *GamebilletObservation) Core() *ObservationCore { return &o.ObservationCore }
func (GamebilletObservation) Store() StoreType { return StoreGamebillet }
func (o *GamebilletObservation) Patch() *MetadataPatch { return &MetadataPatch{} }

// GamesplanetObservation Gamesplanet 价格流水（同 gamebillet：只有名字和价格）
type GamesplanetObservation struct {
	ObservationCore
}

func (GamesplanetObservation) TableName() string { return "gamesplanet_prices" }
func (o *GamesplanetObservation) Core() *ObservationCore { return &o.ObservationCore }
func (GamesplanetObservation) Store() StoreType { return StoreGamesplanet }
func (o *GamesplanetObservation) Patch() *MetadataPatch { return &MetadataPatch{} }

// AppIDHint GMG 的快照自带 steam appid；其余商店的价格流水没有编号线索
func (o *GmgObservation) AppIDHint() *int64 {
	if o.SteamAppID == "" {
		return nil
	}
	appID, err := strconv.ParseInt(o.SteamAppID, 10, 64)
	if err != nil || appID <= 0 {
		return nil
	}
	return &appID
}

func (o *SteamObservation) AppIDHint() *int64 { return nil }
func (o *FanaticalObservation) AppIDHint() *int64 { return nil }
func (o *GogObservation) AppIDHint() *int64 { return nil }
func (o *IndiegalaObservation) AppIDHint() *int64 { return nil }
func (o *WgsObservation) AppIDHint() *int64 { return nil }
func (o *GamebilletObservation) AppIDHint() *int64 { return nil }
func (o *GamesplanetObservation) AppIDHint() *int64 { return nil }
