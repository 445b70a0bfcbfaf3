package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// GameIdentity 聚合游戏主表（同一款游戏多商店归并后一条）。
// (name, cname) 对唯一；cname 由 name 规范化推导，不能独立赋值。
// 身份行只增不删，历史流水要一直能归属回来。
type GameIdentity struct {
	ID    string `gorm:"column:id;primaryKey;type:varchar(36)"` // uuid
	Name  string `gorm:"column:name;type:varchar(256);uniqueIndex:uq_identity_name;not null"`
	CName string `gorm:"column:cname;type:varchar(256);uniqueIndex:uq_identity_name;index:idx_identity_cname;not null"`
	AppID *int64 `gorm:"column:app_id;index"` // Steam appid（外部目录号），可空

	// 以下元数据字段由 MetadataMerger 按商店优先级填充，指针为空表示尚未写过
	IsDLC             *bool   `gorm:"column:is_dlc"`
	ShortDesc         *string `gorm:"column:short_desc;type:text"`
	Developers        *string `gorm:"column:developers;type:varchar(512)"`
	Publishers        *string `gorm:"column:publishers;type:varchar(512)"`
	Franchises        *string `gorm:"column:franchises;type:varchar(512)"`
	Tags              *string `gorm:"column:tags;type:text"`
	ReviewCount       *int64  `gorm:"column:review_count"`
	ReviewPctPositive *int64  `gorm:"column:review_pct_positive"`
	ReleaseDate       *int64  `gorm:"column:release_date"` // unix秒
	Windows           *bool   `gorm:"column:windows"`
	Mac               *bool   `gorm:"column:mac"`
	Linux             *bool   `gorm:"column:linux"`
	SteamDeckCompat   *int64  `gorm:"column:steam_deck_compat"`

	// FieldSources 记录每个元数据字段最近一次由哪家商店写入，{"publishers":"gog",...}
	FieldSources datatypes.JSON `gorm:"column:field_sources"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;autoUpdateTime"`
}

func (GameIdentity) TableName() string { return "game_identities" }

// 元数据字段名（与 game_identities 列名一致，也用作 field_sources 的键）
const (
	FieldIsDLC             = "is_dlc"
	FieldShortDesc         = "short_desc"
	FieldDevelopers        = "developers"
	FieldPublishers        = "publishers"
	FieldFranchises        = "franchises"
	FieldTags              = "tags"
	FieldReviewCount       = "review_count"
	FieldReviewPctPositive = "review_pct_positive"
	FieldReleaseDate       = "release_date"
	FieldWindows           = "windows"
	FieldMac               = "mac"
	FieldLinux             = "linux"
	FieldSteamDeckCompat   = "steam_deck_compat"
)

// MetadataPatch 一家商店对聚合元数据的一次贡献。指针为空表示该店没报这个字段，
// 缺失永远不等于清空。
type MetadataPatch struct {
	AppID             *int64
	IsDLC             *bool
	ShortDesc         *string
	Developers        *string
	Publishers        *string
	Franchises        *string
	Tags              *string
	ReviewCount       *int64
	ReviewPctPositive *int64
	ReleaseDate       *int64
	Windows           *bool
	Mac               *bool
	Linux             *bool
	SteamDeckCompat   *int64
}

// Fields 返回本次实际携带的字段（列名 → 值），缺失字段不出现
func (p *MetadataPatch) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	if p.IsDLC != nil {
		out[FieldIsDLC] = *p.IsDLC
	}
	if p.ShortDesc != nil {
		out[FieldShortDesc] = *p.ShortDesc
	}
	if p.Developers != nil {
		out[FieldDevelopers] = *p.Developers
	}
	if p.Publishers != nil {
		out[FieldPublishers] = *p.Publishers
	}
	if p.Franchises != nil {
		out[FieldFranchises] = *p.Franchises
	}
	if p.Tags != nil {
		out[FieldTags] = *p.Tags
	}
	if p.ReviewCount != nil {
		out[FieldReviewCount] = *p.ReviewCount
	}
	if p.ReviewPctPositive != nil {
		out[FieldReviewPctPositive] = *p.ReviewPctPositive
	}
	if p.ReleaseDate != nil {
		out[FieldReleaseDate] = *p.ReleaseDate
	}
	if p.Windows != nil {
		out[FieldWindows] = *p.Windows
	}
	if p.Mac != nil {
		out[FieldMac] = *p.Mac
	}
	if p.Linux != nil {
		out[FieldLinux] = *p.Linux
	}
	if p.SteamDeckCompat != nil {
		out[FieldSteamDeckCompat] = *p.SteamDeckCompat
	}
	return out
}

// IsEmpty 是否一个字段都没带（appid 除外，appid 走身份解析不走元数据合并）
func (p *MetadataPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// SetPlatformsFromOS 从 "windows,mac,linux" 这类 os 串填平台支持标记。
// 空串表示商店没报，保持缺失。
func (p *MetadataPatch) SetPlatformsFromOS(os string) {
	if os == "" {
		return
	}
	lower := strings.ToLower(os)
	windows := strings.Contains(lower, "windows")
	mac := strings.Contains(lower, "mac")
	linux := strings.Contains(lower, "linux")
	p.Windows = &windows
	p.Mac = &mac
	p.Linux = &linux
}

// CatalogEntry 目录元数据事件（目前只有 Steam appinfo 会产生）：
// 不带价格，只带身份线索（名字+appid）和一份元数据补丁
type CatalogEntry struct {
	Name  string
	AppID int64
	Patch *MetadataPatch
}

// WishlistEntry 愿望单（Steam appid 集合），整表替换式导入，核心流程只读它
type WishlistEntry struct {
	AppID int64 `gorm:"column:app_id;primaryKey;autoIncrement:false"`
}

func (WishlistEntry) TableName() string { return "steam_wishlist" }
