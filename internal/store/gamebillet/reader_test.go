package gamebillet

import (
	"testing"
	"time"

	"GameDealSync/internal/model"

	"github.com/stretchr/testify/require"
)

func TestParsePrices(t *testing.T) {
	raw := []byte(`[
		{"name":"Foo","price":9.99,"percent_discount":50},
		{"name":"Foo: Deluxe Edition","price":14.99,"percent_discount":50}
	]`)

	scrapedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	observations, err := NewReader().ParsePrices(raw, scrapedAt)
	require.NoError(t, err)
	// 标准版/豪华版规范化同名，留折后价更低的那条
	require.Len(t, observations, 1)

	obs := observations[0].(*model.GamebilletObservation)
	require.Equal(t, "Foo", obs.Name)
	require.Equal(t, 9.99, obs.ListPrice)
	require.Equal(t, 9.99, obs.DiscountPrice)
	require.Equal(t, int64(50), obs.DiscountPercent)
	require.Equal(t, scrapedAt, obs.ScrapedAt)
}

func TestParsePricesRejectsBrokenFile(t *testing.T) {
	_, err := NewReader().ParsePrices([]byte(`{`), time.Now())
	require.Error(t, err)
}
