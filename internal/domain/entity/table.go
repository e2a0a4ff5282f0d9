package entity

import "time"

// RowsPerPage is the fixed page size of the balances table.
const RowsPerPage = 5

// RenderedRow is the visual projection of one BalanceRecord.
type RenderedRow struct {
	Asset   string `json:"asset"`
	Free    string `json:"free"`
	Locked  string `json:"locked"`
	Visible bool   `json:"visible"`
}

// ViewState is the user-controlled part of the table: the selected page and the filter text.
type ViewState struct {
	Page  int    `json:"page"`
	Query string `json:"query"`
}

// PageControl is one entry of the pagination list.
type PageControl struct {
	Page   int  `json:"page"`
	Active bool `json:"active"`
}

// TableView is the complete result of one render pass.
type TableView struct {
	Rows         []RenderedRow `json:"rows"`
	Controls     []PageControl `json:"controls"`
	Page         int           `json:"page"`
	Query        string        `json:"query"`
	TotalPages   int           `json:"totalPages"`
	VisibleCount int           `json:"visibleCount"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ActivePage returns the page of the highlighted control, or 0 when none is active.
func (v TableView) ActivePage() int {
	for _, c := range v.Controls {
		if c.Active {
			return c.Page
		}
	}
	return 0
}
