package model

import (
	"time"
)

// ComparisonRow 跨店对比快照：每个聚合身份一条宽行，带各店最新折后价。
// 全量重建（先清后写），可随时由流水+身份重算，算不出别的结果。
type ComparisonRow struct {
	IdentityID string `gorm:"column:identity_id;primaryKey;type:varchar(36)"`
	Name       string `gorm:"column:name;type:varchar(256);not null"`
	CName      string `gorm:"column:cname;type:varchar(256);index"`
	AppID      *int64 `gorm:"column:app_id;index"`

	SteamPrice       *float64 `gorm:"column:steam_price;type:numeric(10,2)"`
	FanaticalPrice   *float64 `gorm:"column:fanatical_price;type:numeric(10,2)"`
	GogPrice         *float64 `gorm:"column:gog_price;type:numeric(10,2)"`
	GmgPrice         *float64 `gorm:"column:gmg_price;type:numeric(10,2)"`
	IndiegalaPrice   *float64 `gorm:"column:indiegala_price;type:numeric(10,2)"`
	WgsPrice         *float64 `gorm:"column:wingamestore_price;type:numeric(10,2)"`
	GamebilletPrice  *float64 `gorm:"column:gamebillet_price;type:numeric(10,2)"`
	GamesplanetPrice *float64 `gorm:"column:gamesplanet_price;type:numeric(10,2)"`

	IsDLC             *bool   `gorm:"column:is_dlc"`
	Tags              *string `gorm:"column:tags;type:text"`
	ShortDesc         *string `gorm:"column:short_desc;type:text"`
	Developers        *string `gorm:"column:developers;type:varchar(256)"`
	Publishers        *string `gorm:"column:publishers;type:varchar(256)"`
	Franchises        *string `gorm:"column:franchises;type:varchar(256)"`
	ReviewCount       *int64  `gorm:"column:review_count"`
	ReviewPctPositive *int64  `gorm:"column:review_pct_positive"`
	ReleaseDate       *int64  `gorm:"column:release_date"`
	Windows           *bool   `gorm:"column:windows"`
	Mac               *bool   `gorm:"column:mac"`
	Linux             *bool   `gorm:"column:linux"`
	SteamDeckCompat   *int64  `gorm:"column:steam_deck_compat"`

	RebuiltAt time.Time `gorm:"column:rebuilt_at;type:timestamp;not null"`
}

func (ComparisonRow) TableName() string { return "comparison_snapshots" }

// SetStorePrice 按商店写入对应价格列
func (r *ComparisonRow) SetStorePrice(store StoreType, price *float64) {
	switch store {
	case StoreSteam:
		r.SteamPrice = price
	case StoreFanatical:
		r.FanaticalPrice = price
	case StoreGog:
		r.GogPrice = price
	case StoreGmg:
		r.GmgPrice = price
	case StoreIndiegala:
		r.IndiegalaPrice = price
	case StoreWgs:
		r.WgsPrice = price
	case StoreGamebillet:
		r.GamebilletPrice = price
	case StoreGamesplanet:
		r.GamesplanetPrice = price
	}
}

// StorePrice 按商店读取价格列（测试与断言用）
func (r *ComparisonRow) StorePrice(store StoreType) *float64 {
	switch store {
	case StoreSteam:
		return r.SteamPrice
	case StoreFanatical:
		return r.FanaticalPrice
	case StoreGog:
		return r.GogPrice
	case StoreGmg:
		return r.GmgPrice
	case StoreIndiegala:
		return r.IndiegalaPrice
	case StoreWgs:
		return r.WgsPrice
	case StoreGamebillet:
		return r.GamebilletPrice
	case StoreGamesplanet:
		return r.GamesplanetPrice
	}
	return nil
}
