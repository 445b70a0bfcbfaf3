package store

import (
	"errors"
	"testing"
	"time"

	"GameDealSync/internal/model"

	"github.com/stretchr/testify/require"
)

func obs(name string, discountPrice float64) model.Observation {
	return &model.GamebilletObservation{ObservationCore: model.ObservationCore{
		Name:          name,
		ScrapedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		ListPrice:     discountPrice,
		DiscountPrice: discountPrice,
	}}
}

func TestCollapseLowest(t *testing.T) {
	in := []model.Observation{
		obs("Foo: Deluxe Edition", 14.99), // 规范化名 foo
		obs("Bar", 4.99),
		obs("Foo", 9.99), // 也是 foo，价更低，顶掉豪华版
		obs("Foo!", 19.99),
	}

	out := CollapseLowest(in)
	require.Len(t, out, 2)
	// 首见位置保留，行内容换成最低价那条
	require.Equal(t, "Foo", out[0].Core().Name)
	require.Equal(t, 9.99, out[0].Core().DiscountPrice)
	require.Equal(t, "Bar", out[1].Core().Name)
}

func TestCollapseLowestEmpty(t *testing.T) {
	require.Empty(t, CollapseLowest(nil))
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewParseError(model.StoreGog, cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "gog")
}
