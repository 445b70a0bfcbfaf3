// Package gamebillet 解析 GameBillet 的价格快照（JSON 数组）。
// 这家店的快照最瘦：名字、折后价、折扣百分比，没有任何目录字段。
package gamebillet

import (
	"encoding/json"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
)

type priceInfo struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	PercentDiscount int64   `json:"percent_discount"`
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreGamebillet }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	var rows []priceInfo
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, store.NewParseError(model.StoreGamebillet, err)
	}

	observations := make([]model.Observation, 0, len(rows))
	for _, row := range rows {
		obs := &model.GamebilletObservation{
			ObservationCore: model.ObservationCore{
				Name:      row.Name,
				ScrapedAt: scrapedAt,
				// 同 wgs：店面只报折后价
				ListPrice:       row.Price,
				DiscountPrice:   row.Price,
				DiscountPercent: row.PercentDiscount,
			},
		}
		observations = append(observations, obs)
	}
	return store.CollapseLowest(observations), nil
}
