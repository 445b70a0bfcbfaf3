// Package gamesplanet 解析 Gamesplanet 的价格快照。
// 快照是 JSONL，但每行不是一页对象而是一个 JSON 数组（每行一批促销条目）。
// 条目只有名字和三个价格字段；未打折的商品原价可能报 0，原样入库。
package gamesplanet

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
)

type priceInfo struct {
	Name          string  `json:"name"`
	OriginalPrice float64 `json:"original_price"`
	Discount      int64   `json:"discount"`
	Price         float64 `json:"price"`
}

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreGamesplanet }

func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	observations := make([]model.Observation, 0, 256)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64<<10), 16<<20)

	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rows []priceInfo
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, store.NewParseError(model.StoreGamesplanet, fmt.Errorf("第%d行: %w", line, err))
		}

		for _, row := range rows {
			obs := &model.GamesplanetObservation{
				ObservationCore: model.ObservationCore{
					Name:            row.Name,
					ScrapedAt:       scrapedAt,
					ListPrice:       row.OriginalPrice,
					DiscountPrice:   row.Price,
					DiscountPercent: row.Discount,
				},
			}
			observations = append(observations, obs)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, store.NewParseError(model.StoreGamesplanet, err)
	}
	return store.CollapseLowest(observations), nil
}
