package fanatical

import (
	"testing"
	"time"

	"GameDealSync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestParsePrices(t *testing.T) {
	// 两个 Algolia 应答行（game/dlc 两个索引各一行），外加一个空行
	raw := []byte(`{"results":[{"hits":[{"name":"Foo","type":"game","discount_percent":50,"best_ever":true,"flash_sale":false,"price":{"USD":9.99},"fullPrice":{"USD":19.99},"available_valid_from":1700000000,"available_valid_until":1700600000,"operating_systems":["windows","linux"],"release_date":1600000000}],"nbHits":1,"page":0,"nbPages":1,"hitsPerPage":40}]}

{"results":[{"hits":[{"name":"Foo DLC","type":"dlc","discount_percent":20,"price":{"USD":4.0},"fullPrice":{"USD":5.0}}],"nbHits":1,"page":0,"nbPages":1,"hitsPerPage":40}]}
`)

	scrapedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	reader := NewReader()
	observations, err := reader.ParsePrices(raw, scrapedAt)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	obs, ok := observations[0].(*model.FanaticalObservation)
	require.True(t, ok)
	require.Equal(t, "Foo", obs.Name)
	require.Equal(t, 19.99, obs.ListPrice)
	require.Equal(t, 9.99, obs.DiscountPrice)
	require.Equal(t, int64(50), obs.DiscountPercent)
	require.True(t, obs.BestEver)
	require.Equal(t, "windows,linux", obs.OS)
	require.Equal(t, int64(1700600000), obs.ValidUntil)
	require.Equal(t, scrapedAt, obs.ScrapedAt)
}

func TestParsePricesCollapsesSameGame(t *testing.T) {
	// 同一款游戏（标准版/豪华版规范化同名）同文件出现两次，只留折后价更低的那条
	raw := []byte(`{"results":[{"hits":[` +
		`{"name":"Foo: Deluxe Edition","type":"game","discount_percent":50,"price":{"USD":14.99},"fullPrice":{"USD":29.99}},` +
		`{"name":"Foo","type":"game","discount_percent":50,"price":{"USD":9.99},"fullPrice":{"USD":19.99}}` +
		`],"nbHits":2,"page":0,"nbPages":1,"hitsPerPage":40}]}`)

	observations, err := NewReader().ParsePrices(raw, time.Now())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	require.Equal(t, 9.99, observations[0].Core().DiscountPrice)
}

func TestParsePricesRejectsBrokenLine(t *testing.T) {
	_, err := NewReader().ParsePrices([]byte(`{"results":[`), time.Now())
	require.Error(t, err)
}

func TestParseBundles(t *testing.T) {
	validFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	raw := []byte(`{"pickandmix":[
		{"name":"Build Your Own Play Bundle","type":"bundle",
		 "products":[{"name":"Foo"},{"name":"Bar"},{"name":"Foo"}],
		 "tiers":[{"quantity":3,"price":{"USD":999,"EUR":899}},{"quantity":5,"price":{"USD":1499}}],
		 "valid_from":"2026-08-01T00:00:00Z"},
		{"name":"Learn To Code Bundle","type":"book","products":[{"name":"Some Book"}],"tiers":[]}
	]}`)

	drafts, err := NewReader().ParseBundles(raw, time.Now())
	require.NoError(t, err)
	// 非游戏类（book）整包丢弃
	require.Len(t, drafts, 1)

	draft := drafts[0]
	require.Equal(t, "Build Your Own Play Bundle", draft.Offer.Name)
	// 最低档位价做包价，USD 分转元
	require.Equal(t, 9.99, draft.Offer.DiscountPrice)
	require.NotNil(t, draft.Offer.ValidFrom)
	require.True(t, draft.Offer.ValidFrom.Equal(validFrom))

	// 接口重复吐的成员按名字去重
	require.Len(t, draft.Members, 2)
	require.Equal(t, "Foo", draft.Members[0].Name)
	require.Equal(t, "Bar", draft.Members[1].Name)
}
