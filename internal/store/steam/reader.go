// Package steam 解析 Steam 商店接口的四类快照：
// 价格（StoreQuery 应答 JSONL，分计价）、目录元数据（appinfo JSONL）、
// 捆绑包（预处理后的 JSON 数组）、愿望单（JSON 数组）。
package steam

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

// queryPage 价格快照的一行：一页 StoreQuery 应答
type queryPage struct {
	StoreItems []queryItem `json:"store_items"`
}

type queryItem struct {
	PurchaseOptions []purchaseOption `json:"purchase_options"`
}

type purchaseOption struct {
	Name            *string          `json:"purchase_option_name"`
	PackageID       *int32           `json:"packageid"`
	BundleID        *int32           `json:"bundleid"`
	OriginalCents   *int64           `json:"original_price_in_cents"`
	FinalCents      *int64           `json:"final_price_in_cents"`
	DiscountPct     int64            `json:"discount_pct"`
	ActiveDiscounts []activeDiscount `json:"active_discounts"`
}

type activeDiscount struct {
	DiscountEndDate int64 `json:"discount_end_date"`
}

// catalogPage 目录快照的一行：一页 appinfo 应答
type catalogPage struct {
	StoreItems []catalogItem `json:"store_items"`
}

type catalogItem struct {
	Name      *string        `json:"name"`
	AppID     *int64         `json:"appid"`
	Type      *int64         `json:"type"` // 0 游戏，4 DLC
	TagIDs    []int64        `json:"tagids"`
	Reviews   *reviewInfo    `json:"reviews"`
	BasicInfo *basicInfo     `json:"basic_info"`
	Release   *releaseInfo   `json:"release"`
	Platforms *platformsInfo `json:"platforms"`
}

type reviewInfo struct {
	SummaryFiltered *reviewSummary `json:"summary_filtered"`
}

type reviewSummary struct {
	ReviewCount     int64 `json:"review_count"`
	PercentPositive int64 `json:"percent_positive"`
}

type basicInfo struct {
	ShortDescription *string     `json:"short_description"`
	Publishers       []namedLink `json:"publishers"`
	Developers       []namedLink `json:"developers"`
	Franchises       []namedLink `json:"franchises"`
}

type namedLink struct {
	Name *string `json:"name"`
}

type releaseInfo struct {
	SteamReleaseDate *int64 `json:"steam_release_date"`
}

type platformsInfo struct {
	Windows         *bool  `json:"windows"`
	Mac             *bool  `json:"mac"`
	Linux           *bool  `json:"linux"`
	SteamDeckCompat *int64 `json:"steam_deck_compat_category"`
}

// bundleInfo 捆绑包快照行（已由抓取方从 appinfo 预展开为带单品价的形状）
type bundleInfo struct {
	BundleID      int32        `json:"bundleid"`
	Name          string       `json:"name"`
	IncludedItems []bundleItem `json:"included_items"`
	OriginalPrice float64      `json:"original_price"`
	DiscountPrice float64      `json:"discount_price"`
}

type bundleItem struct {
	Name          string  `json:"name"`
	AppID         int64   `json:"appid"`
	OriginalPrice float64 `json:"original_price"`
	FinalPrice    float64 `json:"final_price"`
}

// wishlistItem 愿望单行，只关心目录号
type wishlistItem struct {
	AppID int64 `json:"appid"`
}

const maxLineBytes = 16 << 20

type Reader struct{}

func NewReader() *Reader { return &Reader{} }

func (Reader) Store() model.StoreType { return model.StoreSteam }

// ParsePrices 只收带生效折扣的 purchase option（原始接口把全价商品也混在应答里）。
// 同一文件内 packageid/bundleid 各自去重：同一个包挂在多个商品下只记一次。
func (r *Reader) ParsePrices(raw []byte, scrapedAt time.Time) ([]model.Observation, error) {
	observations := make([]model.Observation, 0, 256)
	seenPackages := make(map[int32]struct{})
	seenBundles := make(map[int32]struct{})

	err := scanLines(raw, func(line int, data []byte) error {
		var page queryPage
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("第%d行: %w", line, err)
		}
		for _, item := range page.StoreItems {
			for _, opt := range item.PurchaseOptions {
				if opt.Name == nil || len(opt.ActiveDiscounts) == 0 {
					continue
				}
				if opt.PackageID != nil {
					if _, ok := seenPackages[*opt.PackageID]; ok {
						continue
					}
					seenPackages[*opt.PackageID] = struct{}{}
				}
				if opt.BundleID != nil {
					if _, ok := seenBundles[*opt.BundleID]; ok {
						continue
					}
					seenBundles[*opt.BundleID] = struct{}{}
				}
				if opt.OriginalCents == nil || opt.FinalCents == nil {
					return fmt.Errorf("第%d行: %q 缺价格字段", line, *opt.Name)
				}

				obs := &model.SteamObservation{
					ObservationCore: model.ObservationCore{
						Name:            *opt.Name,
						ScrapedAt:       scrapedAt,
						ListPrice:       float64(*opt.OriginalCents) / 100,
						DiscountPrice:   float64(*opt.FinalCents) / 100,
						DiscountPercent: opt.DiscountPct,
					},
					PackageID:      opt.PackageID,
					BundleID:       opt.BundleID,
					AvailableUntil: opt.ActiveDiscounts[0].DiscountEndDate,
				}
				observations = append(observations, obs)
			}
		}
		return nil
	})
	if err != nil {
		return nil, store.NewParseError(model.StoreSteam, err)
	}
	return store.CollapseLowest(observations), nil
}

// ParseCatalog 把 appinfo 快照转成目录元数据事件，没名字或没 appid 的条目跳过。
// 同一文件里同一 appid 只取第一条（接口翻页会重复吐）。
func (r *Reader) ParseCatalog(raw []byte) ([]*model.CatalogEntry, error) {
	entries := make([]*model.CatalogEntry, 0, 256)
	seen := make(map[int64]struct{})

	err := scanLines(raw, func(line int, data []byte) error {
		var page catalogPage
		if err := json.Unmarshal(data, &page); err != nil {
			return fmt.Errorf("第%d行: %w", line, err)
		}
		for _, item := range page.StoreItems {
			if item.Name == nil || item.AppID == nil {
				continue
			}
			if _, ok := seen[*item.AppID]; ok {
				continue
			}
			seen[*item.AppID] = struct{}{}
			entries = append(entries, &model.CatalogEntry{
				Name:  *item.Name,
				AppID: *item.AppID,
				Patch: catalogPatch(item),
			})
		}
		return nil
	})
	if err != nil {
		return nil, store.NewParseError(model.StoreSteam, err)
	}
	return entries, nil
}

func catalogPatch(item catalogItem) *model.MetadataPatch {
	p := &model.MetadataPatch{}

	isDLC := item.Type != nil && *item.Type == 4
	p.IsDLC = &isDLC

	if len(item.TagIDs) > 0 {
		tags := make([]string, len(item.TagIDs))
		for i, id := range item.TagIDs {
			tags[i] = strconv.FormatInt(id, 10)
		}
		joined := strings.Join(tags, ",")
		p.Tags = &joined
	}
	if item.Reviews != nil && item.Reviews.SummaryFiltered != nil {
		p.ReviewCount = &item.Reviews.SummaryFiltered.ReviewCount
		p.ReviewPctPositive = &item.Reviews.SummaryFiltered.PercentPositive
	}
	if info := item.BasicInfo; info != nil {
		if info.ShortDescription != nil {
			p.ShortDesc = info.ShortDescription
		}
		if s := joinNames(info.Publishers); s != "" {
			p.Publishers = &s
		}
		if s := joinNames(info.Developers); s != "" {
			p.Developers = &s
		}
		if s := joinNames(info.Franchises); s != "" {
			p.Franchises = &s
		}
	}
	if item.Release != nil && item.Release.SteamReleaseDate != nil {
		p.ReleaseDate = item.Release.SteamReleaseDate
	}
	if pf := item.Platforms; pf != nil {
		windows := pf.Windows != nil && *pf.Windows
		mac := pf.Mac != nil && *pf.Mac
		linux := pf.Linux != nil && *pf.Linux
		p.Windows = &windows
		p.Mac = &mac
		p.Linux = &linux
		if pf.SteamDeckCompat != nil {
			p.SteamDeckCompat = pf.SteamDeckCompat
		}
	}
	return p
}

func joinNames(links []namedLink) string {
	names := make([]string, 0, len(links))
	for _, link := range links {
		if link.Name != nil && *link.Name != "" {
			names = append(names, *link.Name)
		}
	}
	return strings.Join(names, ",")
}

// ParseBundles 捆绑包带单品行：每个成员带自己的原价和现价
func (r *Reader) ParseBundles(raw []byte, scrapedAt time.Time) ([]*model.BundleDraft, error) {
	var bundles []bundleInfo
	if err := json.Unmarshal(raw, &bundles); err != nil {
		return nil, store.NewParseError(model.StoreSteam, err)
	}

	drafts := make([]*model.BundleDraft, 0, len(bundles))
	for _, info := range bundles {
		draft := &model.BundleDraft{
			Offer: &model.BundleOffer{
				Name:          info.Name,
				ScrapedAt:     scrapedAt,
				ListPrice:     info.OriginalPrice,
				DiscountPrice: info.DiscountPrice,
			},
		}
		for _, item := range info.IncludedItems {
			listPrice := item.OriginalPrice
			discountPrice := item.FinalPrice
			member := model.BundleMemberDraft{
				Name:          item.Name,
				ListPrice:     &listPrice,
				DiscountPrice: &discountPrice,
			}
			if item.AppID > 0 {
				appID := item.AppID
				member.AppID = &appID
			}
			draft.Members = append(draft.Members, member)
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// ParseWishlist 愿望单快照：只取 appid，去重交给仓储
func (r *Reader) ParseWishlist(raw []byte) ([]int64, error) {
	var items []wishlistItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, store.NewParseError(model.StoreSteam, err)
	}
	appIDs := make([]int64, 0, len(items))
	for _, item := range items {
		if item.AppID > 0 {
			appIDs = append(appIDs, item.AppID)
		}
	}
	return appIDs, nil
}

func scanLines(raw []byte, fn func(line int, data []byte) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	return scanner.Err()
}
