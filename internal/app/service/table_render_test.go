package service

import (
	"fmt"
	"testing"

	"balance_dashboard/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(assets ...string) []entity.RenderedRow {
	records := make([]entity.BalanceRecord, 0, len(assets))
	for _, a := range assets {
		records = append(records, entity.BalanceRecord{Asset: a, Free: decimal.NewFromInt(1), Locked: decimal.Zero})
	}
	return BuildRows(records)
}

func visibleAssets(rows []entity.RenderedRow) []string {
	out := []string{}
	for _, r := range rows {
		if r.Visible {
			out = append(out, r.Asset)
		}
	}
	return out
}

func TestBuildRows_FormatsEightDecimals(t *testing.T) {
	rows := BuildRows([]entity.BalanceRecord{
		{Asset: "BTC", Free: decimal.RequireFromString("0.5"), Locked: decimal.RequireFromString("0.123456789")},
		{Asset: "USDT", Free: decimal.NewFromInt(1500), Locked: decimal.Zero},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, entity.RenderedRow{Asset: "BTC", Free: "0.50000000", Locked: "0.12345679", Visible: true}, rows[0])
	assert.Equal(t, "1500.00000000", rows[1].Free)
	assert.Equal(t, "0.00000000", rows[1].Locked)
}

func TestBuildRows_RoundsShortestDecimalOfWireFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.000000005, "1.00000001"},
		{0.123456785, "0.12345679"},
		{0.1, "0.10000000"},
		{2.999999994, "2.99999999"},
	}
	for _, tt := range tests {
		rows := BuildRows([]entity.BalanceRecord{entity.BalanceWire{Asset: "BTC", Free: tt.in}.ToRecord()})
		assert.Equal(t, tt.want, rows[0].Free, "in=%v", tt.in)
	}
}

func TestPaginateRows_ControlCount(t *testing.T) {
	for n := 0; n <= 23; n++ {
		rows := makeRows(make([]string, n)...)
		controls := PaginateRows(rows, 1)
		assert.Len(t, controls, (n+entity.RowsPerPage-1)/entity.RowsPerPage, "n=%d", n)
	}
}

func TestPaginateRows_VisibleWindow(t *testing.T) {
	assets := make([]string, 13)
	for i := range assets {
		assets[i] = fmt.Sprintf("A%02d", i)
	}
	for page := 1; page <= 3; page++ {
		rows := makeRows(assets...)
		controls := PaginateRows(rows, page)

		for i, r := range rows {
			want := i >= (page-1)*5 && i < min(page*5, len(rows))
			assert.Equal(t, want, r.Visible, "page=%d index=%d", page, i)
		}
		for _, c := range controls {
			assert.Equal(t, c.Page == page, c.Active)
		}
	}
}

func TestPaginateRows_PagePastEndShowsNothing(t *testing.T) {
	rows := makeRows("BTC", "ETH")
	controls := PaginateRows(rows, 4)

	assert.Empty(t, visibleAssets(rows))
	require.Len(t, controls, 1)
	assert.False(t, controls[0].Active)
}

func TestPaginateRows_ReshowsFilteredRows(t *testing.T) {
	rows := makeRows("BTC", "ETH")
	FilterRows(rows, "btc")
	PaginateRows(rows, 1)

	assert.Equal(t, []string{"BTC", "ETH"}, visibleAssets(rows))
}

func TestFilterRows(t *testing.T) {
	rows := makeRows("BTC", "ETH", "WBTC")

	FilterRows(rows, "")
	assert.Equal(t, []string{"BTC", "ETH", "WBTC"}, visibleAssets(rows))

	FilterRows(rows, "btc")
	assert.Equal(t, []string{"BTC", "WBTC"}, visibleAssets(rows))

	FilterRows(rows, "doge")
	assert.Empty(t, visibleAssets(rows))
	assert.Len(t, rows, 3)
}

func TestRender_Scenario(t *testing.T) {
	rows := makeRows("BTC", "ETH", "SOL", "ADA", "DOT", "XRP")

	view := Render(rows, entity.ViewState{Page: 1})
	assert.Equal(t, []string{"BTC", "ETH", "SOL", "ADA", "DOT"}, visibleAssets(view.Rows))
	assert.Len(t, view.Controls, 2)
	assert.Equal(t, 2, view.TotalPages)
	assert.Equal(t, 1, view.ActivePage())

	view = Render(rows, entity.ViewState{Page: 2})
	assert.Equal(t, []string{"XRP"}, visibleAssets(view.Rows))
	assert.Equal(t, 2, view.ActivePage())
	assert.Equal(t, 1, view.VisibleCount)
}

func TestRender_FilterAndPageIntersect(t *testing.T) {
	rows := makeRows("BTC", "ETH", "SOL", "ADA", "DOT", "WBTC")

	view := Render(rows, entity.ViewState{Page: 1, Query: "BTC"})
	assert.Equal(t, []string{"BTC"}, visibleAssets(view.Rows))
	assert.Equal(t, "btc", view.Query)

	view = Render(rows, entity.ViewState{Page: 2, Query: "btc"})
	assert.Equal(t, []string{"WBTC"}, visibleAssets(view.Rows))
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	rows := makeRows("BTC", "ETH")
	_ = Render(rows, entity.ViewState{Page: 1, Query: "eth"})

	assert.True(t, rows[0].Visible)
	assert.True(t, rows[1].Visible)
}

func TestRender_Empty(t *testing.T) {
	view := Render(nil, entity.ViewState{Page: 3})

	assert.Empty(t, view.Rows)
	assert.Empty(t, view.Controls)
	assert.Equal(t, 0, view.TotalPages)
	assert.Equal(t, 0, view.ActivePage())
}
