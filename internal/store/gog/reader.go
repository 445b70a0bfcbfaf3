// Package gog 解析 GOG 目录接口的价格快照。
// 快照是 JSONL：每行一页目录应答；价格是 "$1,234.56" 样式的展示串，
// 折扣是 "-50%" 样式，发售日是 "2020.04.09" 样式。
package gog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"GameDealSync/internal/model"
	"GameDealSync/internal/store"
)

type catalogPage struct {
	Products []product `json:"products"`
}

type product struct {
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"releaseDate"`
	ProductType string   `json:"productType"`
	Developers  []string `json:"developers"`
	Publishers  []string `json:"publishers"`
	Price       price    `json:"price"`
}

type price struct {
	Final    string `json:"final"`
	Base     string `json:"base"`
	Discount string `json:"discount"`
}

const releaseDateLayout = "2006.01.02"

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreGog }

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
		var page catalogPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, store.NewParseError(model.StoreGog, fmt.Errorf("第%d行: %w", line, err))
		}

		for _, p := range page.Products {
			listPrice, err := parseMoney(p.Price.Base)
			if err != nil {
				return nil, store.NewParseError(model.StoreGog, fmt.Errorf("%q原价: %w", p.Title, err))
			}
			discountPrice, err := parseMoney(p.Price.Final)
			if err != nil {
				return nil, store.NewParseError(model.StoreGog, fmt.Errorf("%q折后价: %w", p.Title, err))
			}

			obs := &model.GogObservation{
				ObservationCore: model.ObservationCore{
					Name:            p.Title,
					ScrapedAt:       scrapedAt,
					ListPrice:       listPrice,
					DiscountPrice:   discountPrice,
					DiscountPercent: parseDiscount(p.Price.Discount),
				},
				ReleaseDate: parseReleaseDate(p.ReleaseDate),
				Developer:   strings.Join(p.Developers, ","),
				Publisher:   strings.Join(p.Publishers, ","),
				ProductType: strings.ToLower(p.ProductType),
			}
			observations = append(observations, obs)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, store.NewParseError(model.StoreGog, err)
	}
	return store.CollapseLowest(observations), nil
}

// parseMoney "$1,234.56" → 1234.56
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("价格串为空")
	}
	return strconv.ParseFloat(s, 64)
}

// parseDiscount "-50%" → 50；没打折的商品该字段是空串
func parseDiscount(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0
	}
	pct, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return pct
}

func parseReleaseDate(s *string) int64 {
	if s == nil || *s == "" {
		return 0
	}
	t, err := time.Parse(releaseDateLayout, *s)
	if err != nil {
		return 0
	}
	return t.Unix()
}
