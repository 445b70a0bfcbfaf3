// Package wgs 解析 WinGameStore 的价格快照（JSON 数组）。
// 只收 Steam DRM 的商品，与其他店的 Steam key 口径保持一致。
package wgs

import (
	"encoding/json"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
)

type priceInfo struct {
	Genre           string  `json:"genre"`
	Publisher       string  `json:"publisher"`
	Name            string  `json:"name"`
	IsDLC           bool    `json:"is_dlc"`
	IsSteamDrm      bool    `json:"is_steam_drm"`
	DiscountPercent int64   `json:"discount_percent"`
	DiscountPrice   float64 `json:"discount_price"`
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreWgs }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	var rows []priceInfo
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, store.NewParseError(model.StoreWgs, err)
	}

	observations := make([]model.Observation, 0, len(rows))
	for _, row := range rows {
		if !row.IsSteamDrm {
			continue
		}
		obs := &model.WgsObservation{
			ObservationCore: model.ObservationCore{
				Name:      row.Name,
				ScrapedAt: scrapedAt,
				// 店面不公示原价，原价位记折后价，判重口径不受影响
				ListPrice:       row.DiscountPrice,
				DiscountPrice:   row.DiscountPrice,
				DiscountPercent: row.DiscountPercent,
			},
			IsDLC:     row.IsDLC,
			Publisher: row.Publisher,
		}
		observations = append(observations, obs)
	}
	return store.CollapseLowest(observations), nil
}
