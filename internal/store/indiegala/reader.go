// Package indiegala 解析 IndieGala 的价格快照与捆绑包快照。
// 价格快照是 JSON 数组；只收 Steam key 类 DRM 的商品，DRM-free 商品
// 不是同一个可比对物（激活不进同一套库）。
package indiegala

import (
	"encoding/json"
	"strings"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"

	"gorm.io/datatypes"
)

const drmSteamKey = "SteamKey"

type priceInfo struct {
	Title              string   `json:"title"`
	Platforms          []string `json:"platforms"`
	Publisher          string   `json:"publisher"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	DiscountStart      string   `json:"discount_start"`
	DiscountEnd        string   `json:"discount_end"`
	DiscountPrice      float64  `json:"discount_price"`
	ReleaseDate        string   `json:"release_date"`
	DrmInfo            string   `json:"drm_info"`
}

type bundleInfo struct {
	Name        string       `json:"name"`
	Price       float64      `json:"price"`
	Games       []bundleGame `json:"games"`
	ActiveUntil string       `json:"active_until"`
}

type bundleGame struct {
	Name      string `json:"name"`
	Developer string `json:"developer"`
}

// active_until 的时间格式
const bundleDeadlineLayout = "2006/01/02 15:04:05"

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreIndiegala }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	var rows []priceInfo
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, store.NewParseError(model.StoreIndiegala, err)
	}

	observations := make([]model.Observation, 0, len(rows))
	for _, row := range rows {
		if row.DrmInfo != drmSteamKey {
			continue
		}
		obs := &model.IndiegalaObservation{
			ObservationCore: model.ObservationCore{
				Name:            row.Title,
				ScrapedAt:       scrapedAt,
				ListPrice:       row.Price,
				DiscountPrice:   row.DiscountPrice,
				DiscountPercent: int64(row.DiscountPercentage),
			},
			ValidFrom:   parseTimestamp(row.DiscountStart),
			ValidUntil:  parseTimestamp(row.DiscountEnd),
			OS:          strings.Join(row.Platforms, ","),
			ReleaseDate: parseTimestamp(row.ReleaseDate),
			Publisher:   row.Publisher,
		}
		observations = append(observations, obs)
	}
	return store.CollapseLowest(observations), nil
}

// ParseBundles 捆绑包只有一档总价，成员不带单价
func (r *Reader) ParseBundles(raw []byte, scrapedAt time.Time) ([]*model.BundleDraft, error) {
	var bundles []bundleInfo
	if err := json.Unmarshal(raw, &bundles); err != nil {
		return nil, store.NewParseError(model.StoreIndiegala, err)
	}

	drafts := make([]*model.BundleDraft, 0, len(bundles))
	for _, info := range bundles {
		offer := &model.BundleOffer{
			Name:          info.Name,
			ScrapedAt:     scrapedAt,
			ListPrice:     info.Price,
			DiscountPrice: info.Price,
			Tiers:         datatypes.JSON(nil),
		}
		if deadline, err := time.Parse(bundleDeadlineLayout, info.ActiveUntil); err == nil {
			offer.ValidUntil = &deadline
		}

		draft := &model.BundleDraft{Offer: offer}
		for _, game := range info.Games {
			draft.Members = append(draft.Members, model.BundleMemberDraft{Name: game.Name})
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// parseTimestamp 多格式容错：接口对日期字段给过 RFC3339 和 "2006-01-02 15:04:05"
// 两种样式，解析不动按缺失处理（0）
func parseTimestamp(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}
