// Package fanatical 解析 Fanatical 的 Algolia 价格快照与 pick-and-mix 捆绑包快照。
package fanatical

import (
	"encoding/json"
	"strings"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
	"GameDealSync/internal/store/algolia"

	"gorm.io/datatypes"
)

// priceHit Algolia 命中行（game/dlc 两个索引共用同一形状）
type priceHit struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	DiscountPercent int64    `json:"discount_percent"`
	BestEver        bool     `json:"best_ever"`
	FlashSale       bool     `json:"flash_sale"`
	Price           usdPrice `json:"price"`
	FullPrice       usdPrice `json:"fullPrice"`
	ValidFrom       int64    `json:"available_valid_from"`
	ValidUntil      int64    `json:"available_valid_until"`
	OS              []string `json:"operating_systems"`
	ReleaseDate     int64    `json:"release_date"`
}

type usdPrice struct {
	USD float64 `json:"USD"`
}

// bundleFile pick-and-mix 接口的整包快照
type bundleFile struct {
	PickAndMix []bundleInfo `json:"pickandmix"`
}

type bundleInfo struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Products   []bundleProduct `json:"products"`
	Tiers      []bundleTier    `json:"tiers"`
	ValidFrom  *time.Time      `json:"valid_from"`
	ValidUntil *time.Time      `json:"valid_until"`
}

type bundleProduct struct {
	Name string `json:"name"`
}

// 层级价是 国家码→分 的映射，只取 USD
type bundleTier struct {
	Quantity uint32             `json:"quantity"`
	Price    map[string]float64 `json:"price"`
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreFanatical }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	hits, err := algolia.DecodeHits[priceHit](raw)
	if err != nil {
		return nil, store.NewParseError(model.StoreFanatical, err)
	}

	observations := make([]model.Observation, 0, len(hits))
	for _, hit := range hits {
		obs := &model.FanaticalObservation{
			ObservationCore: model.ObservationCore{
				Name:            hit.Name,
				ScrapedAt:       scrapedAt,
				ListPrice:       hit.FullPrice.USD,
				DiscountPrice:   hit.Price.USD,
				DiscountPercent: hit.DiscountPercent,
			},
			BestEver:    hit.BestEver,
			FlashSale:   hit.FlashSale,
			OS:          joinOS(hit.OS),
			ReleaseDate: hit.ReleaseDate,
			ValidFrom:   hit.ValidFrom,
			ValidUntil:  hit.ValidUntil,
		}
		observations = append(observations, obs)
	}
	return store.CollapseLowest(observations), nil
}

// ParseBundles 只收游戏类捆绑包（书籍、课程、软件包不是游戏身份能承接的东西）。
// 层级价用 USD 分计价，接口偶尔返回重复成员，按名字去重。
func (r *Reader) ParseBundles(raw []byte, scrapedAt time.Time) ([]*model.BundleDraft, error) {
	var file bundleFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, store.NewParseError(model.StoreFanatical, err)
	}

	drafts := make([]*model.BundleDraft, 0, len(file.PickAndMix))
	for _, info := range file.PickAndMix {
		if info.Type != "bundle" {
			continue
		}

		tiers := make([]model.BundleTier, 0, len(info.Tiers))
		lowest := 0.0
		for i, tier := range info.Tiers {
			price := tier.Price["USD"] / 100
			if i == 0 || price < lowest {
				lowest = price
			}
			tiers = append(tiers, model.BundleTier{Quantity: tier.Quantity, Price: price})
		}
		encodedTiers, err := json.Marshal(tiers)
		if err != nil {
			return nil, store.NewParseError(model.StoreFanatical, err)
		}

		draft := &model.BundleDraft{
			Offer: &model.BundleOffer{
				Name:          info.Name,
				ScrapedAt:     scrapedAt,
				ListPrice:     lowest,
				DiscountPrice: lowest,
				ValidFrom:     info.ValidFrom,
				ValidUntil:    info.ValidUntil,
				Tiers:         datatypes.JSON(encodedTiers),
			},
		}

		seen := make(map[string]struct{}, len(info.Products))
		for _, product := range info.Products {
			if _, ok := seen[product.Name]; ok {
				continue
			}
			seen[product.Name] = struct{}{}
			draft.Members = append(draft.Members, model.BundleMemberDraft{Name: product.Name})
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

func joinOS(os []string) string {
	return strings.Join(os, ",")
}
