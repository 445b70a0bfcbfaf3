package model

import (
	"time"

	"gorm.io/datatypes"
)

// BundleOffer 捆绑包报价（商店+抓取时间一条）。捆绑包不并入单品价格流水，
// 是独立的可比对实体，成员通过 bundle_members 展开到聚合身份空间。
type BundleOffer struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	Store         StoreType      `gorm:"column:store;type:varchar(32);index;not null"`
	ScrapedAt     time.Time      `gorm:"column:scraped_at;type:timestamp;not null"`
	Name          string         `gorm:"column:name;type:varchar(256);not null"`
	ListPrice     float64        `gorm:"column:list_price;type:numeric(10,2)"`
	DiscountPrice float64        `gorm:"column:discount_price;type:numeric(10,2)"`
	ValidFrom     *time.Time     `gorm:"column:valid_from;type:timestamp"`
	ValidUntil    *time.Time     `gorm:"column:valid_until;type:timestamp"`
	Tiers         datatypes.JSON `gorm:"column:tiers"` // fanatical pick-and-mix 的 数量→价格 档位
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamp;autoCreateTime"`
}

func (BundleOffer) TableName() string { return "bundle_offers" }

// BundleMember 捆绑包成员行。解析不到身份的成员保留空 identity_id，
// 行数始终等于成员数，不因部分失配丢行。
type BundleMember struct {
	ID            uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	OfferID       uint64   `gorm:"column:offer_id;index;not null"`
	Name          string   `gorm:"column:name;type:varchar(256);not null"`
	IdentityID    *string  `gorm:"column:identity_id;type:varchar(36);index"`
	ListPrice     *float64 `gorm:"column:list_price;type:numeric(10,2)"`     // steam 捆绑包内单品原价
	DiscountPrice *float64 `gorm:"column:discount_price;type:numeric(10,2)"` // steam 捆绑包内单品现价
}

func (BundleMember) TableName() string { return "bundle_members" }

// BundleTier fanatical pick-and-mix 档位
type BundleTier struct {
	Quantity uint32  `json:"quantity"`
	Price    float64 `json:"price"`
}

// BundleMemberDraft Reader 解析出的成员（尚未解析身份）。
// AppID 是成员自带的 Steam appid 线索（目前只有 steam 捆绑包给），解析时优先按它归属
type BundleMemberDraft struct {
	Name          string
	AppID         *int64
	ListPrice     *float64
	DiscountPrice *float64
}

// BundleDraft Reader 解析出的完整捆绑包，交给 BundleExpander 落库
type BundleDraft struct {
	Offer   *BundleOffer
	Members []BundleMemberDraft
}
