// Package gmg 解析 GreenManGaming 的 Algolia 价格快照。
// GMG 是唯一在价格快照里自带 steam appid 的商店，身份解析走编号权威路径。
package gmg

import (
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
	"GameDealSync/internal/store/algolia"
)

type priceHit struct {
	DisplayName   string     `json:"display_name"`
	IsDLC         bool       `json:"is_dlc"`
	Franchise     string     `json:"franchise"`
	PublisherName string     `json:"publisher_name"`
	Regions       regionInfo `json:"regions"`
	SteamAppID    string     `json:"steam_app_id"` // 可能为空串
}

type regionInfo struct {
	US usInfo `json:"US"`
}

// GMG 的区域价：Drp 折后、Rrp 原价
type usInfo struct {
	Price           float64 `json:"Drp"`
	DiscountPercent int64   `json:"DrpDiscountPercentage"`
	OriginalPrice   float64 `json:"Rrp"`
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreGmg }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	hits, err := algolia.DecodeHits[priceHit](raw)
	if err != nil {
		return nil, store.NewParseError(model.StoreGmg, err)
	}

	observations := make([]model.Observation, 0, len(hits))
	for _, hit := range hits {
		obs := &model.GmgObservation{
			ObservationCore: model.ObservationCore{
				Name:            hit.DisplayName,
				ScrapedAt:       scrapedAt,
				ListPrice:       hit.Regions.US.OriginalPrice,
				DiscountPrice:   hit.Regions.US.Price,
				DiscountPercent: hit.Regions.US.DiscountPercent,
			},
			SteamAppID: hit.SteamAppID,
			IsDLC:      hit.IsDLC,
			Franchise:  hit.Franchise,
			Publisher:  hit.PublisherName,
		}
		observations = append(observations, obs)
	}
	return store.CollapseLowest(observations), nil
}
