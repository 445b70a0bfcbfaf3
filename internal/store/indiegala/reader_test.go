package indiegala

import (
	"testing"
	"time"

	"GameDealSync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestParsePricesFiltersDrm(t *testing.T) {
	// Steam key 商品收，DRM-free 商品丢
	raw := []byte(`[
		{"title":"Foo","platforms":["win","lin"],"publisher":"FooSoft","price":19.99,"discount_percentage":50.0,"discount_start":"2026-08-01T00:00:00Z","discount_end":"2026-08-08 00:00:00","discount_price":9.99,"release_date":"2020-04-09","drm_info":"SteamKey"},
		{"title":"Bar","price":4.99,"discount_price":2.49,"drm_info":"DRM Free"}
	]`)

	scrapedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	observations, err := NewReader().ParsePrices(raw, scrapedAt)
	require.NoError(t, err)
	require.Len(t, observations, 1)

	obs := observations[0].(*model.IndiegalaObservation)
	require.Equal(t, "Foo", obs.Name)
	require.Equal(t, 19.99, obs.ListPrice)
	require.Equal(t, 9.99, obs.DiscountPrice)
	require.Equal(t, int64(50), obs.DiscountPercent)
	require.Equal(t, "win,lin", obs.OS)
	require.Equal(t, "FooSoft", obs.Publisher)
	// 三种日期样式都要认：RFC3339、空格分隔、纯日期
	require.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Unix(), obs.ValidFrom)
	require.Equal(t, time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC).Unix(), obs.ValidUntil)
	require.Equal(t, time.Date(2020, 4, 9, 0, 0, 0, 0, time.UTC).Unix(), obs.ReleaseDate)
}

func TestParsePricesBadDateIsMissing(t *testing.T) {
	raw := []byte(`[{"title":"Foo","price":9.99,"discount_price":9.99,"release_date":"soon","drm_info":"SteamKey"}]`)
	observations, err := NewReader().ParsePrices(raw, time.Now())
	require.NoError(t, err)
	require.Len(t, observations, 1)
	require.Equal(t, int64(0), observations[0].(*model.IndiegalaObservation).ReleaseDate)
}

func TestParseBundles(t *testing.T) {
	raw := []byte(`[{"name":"Monday Motivation Bundle","price":4.99,"active_until":"2026/08/08 23:59:59","games":[{"name":"Foo","developer":"FooSoft"},{"name":"Bar","developer":"BarSoft"}]}]`)

	drafts, err := NewReader().ParseBundles(raw, time.Now())
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	draft := drafts[0]
	require.Equal(t, "Monday Motivation Bundle", draft.Offer.Name)
	// 单档总价：原价位和折后价位都记它
	require.Equal(t, 4.99, draft.Offer.ListPrice)
	require.Equal(t, 4.99, draft.Offer.DiscountPrice)
	require.NotNil(t, draft.Offer.ValidUntil)
	require.True(t, draft.Offer.ValidUntil.Equal(time.Date(2026, 8, 8, 23, 59, 59, 0, time.UTC)))
	require.Len(t, draft.Members, 2)
	require.Equal(t, "Foo", draft.Members[0].Name)
}
