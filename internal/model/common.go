package model

import (
	"time"
)

// StoreType 商店类型枚举
type StoreType string

const (
	StoreSteam       StoreType = "steam"
	StoreFanatical   StoreType = "fanatical"
	StoreGog         StoreType = "gog"
	StoreGmg         StoreType = "gmg"
	StoreIndiegala   StoreType = "indiegala"
	StoreWgs         StoreType = "wingamestore"
	StoreGamebillet  StoreType = "gamebillet"
	StoreGamesplanet StoreType = "gamesplanet"
)

// AllStores 全部商店，顺序固定（对比快照的列顺序与各处遍历顺序都依赖它）
var AllStores = []StoreType{
	StoreSteam,
	StoreFanatical,
	StoreGog,
	StoreGmg,
	StoreIndiegala,
	StoreWgs,
	StoreGamebillet,
	StoreGamesplanet,
}

// ObservationCore 各商店价格流水表共有的核心列。
// 每家店各有一张 append-only 流水表，店专属列挂在各自结构体上，核心列统一嵌入。
// 流水行一经写入不再修改（改价即新行），唯一的例外是孤儿行补挂 identity_id。
type ObservationCore struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string    `gorm:"column:name;type:varchar(256);not null"`    // 商店展示名（原样保留）
	ScrapedAt       time.Time `gorm:"column:scraped_at;type:timestamp;not null"` // 抓取时间（取快照文件的修改时间）
	ListPrice       float64   `gorm:"column:list_price;type:numeric(10,2)"`      // 原价
	DiscountPrice   float64   `gorm:"column:discount_price;type:numeric(10,2)"`  // 折后价
	DiscountPercent int64     `gorm:"column:discount_percent"`                   // 折扣百分比
	IdentityID      *string   `gorm:"column:identity_id;type:varchar(36);index"` // 归属的聚合游戏ID，解析失败时为空（孤儿行）
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;autoCreateTime"`
}

// Observation 价格流水行的统一接口：核心列统一处理，店专属列由各自结构体携带
type Observation interface {
	Core() *ObservationCore
	Store() StoreType
	TableName() string
	// Patch 该条流水可贡献给聚合元数据的字段（没有可贡献的则返回空Patch）
	Patch() *MetadataPatch
	// AppIDHint 该条流水自带的 Steam appid 线索（多数店没有，返回 nil）
	AppIDHint() *int64
}

// ObservationFor 返回指定商店流水表的空模型实例（供迁移与按表查询用）
func ObservationFor(store StoreType) Observation {
	switch store {
	case StoreSteam:
		return &SteamObservation{}
	case StoreFanatical:
		return &FanaticalObservation{}
	case StoreGog:
		return &GogObservation{}
	case StoreGmg:
		return &GmgObservation{}
	case StoreIndiegala:
		return &IndiegalaObservation{}
	case StoreWgs:
		return &WgsObservation{}
	case StoreGamebillet:
		return &GamebilletObservation{}
	case StoreGamesplanet:
		return &GamesplanetObservation{}
	}
	return nil
}

// TableFor 商店 → 流水表名
func TableFor(store StoreType) string {
	obs := ObservationFor(store)
	if obs == nil {
		return ""
	}
	return obs.TableName()
}
