package service

import (
	"strings"

	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/pkg/utils"
)

const amountDecimals = 8

// BuildRows projects records into table rows. Amounts are formatted with 8 decimal places.
// All rows start visible.
func BuildRows(records []entity.BalanceRecord) []entity.RenderedRow {
	rows := make([]entity.RenderedRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, entity.RenderedRow{
			Asset:   r.Asset,
			Free:    r.Free.StringFixed(amountDecimals),
			Locked:  r.Locked.StringFixed(amountDecimals),
			Visible: true,
		})
	}
	return rows
}

func matchesQuery(row entity.RenderedRow, query string) bool {
	return strings.Contains(strings.ToLower(row.Asset), query)
}

// FilterRows marks each row visible iff its asset contains query (already lowercase).
// An empty query matches every row. Page state is not considered.
func FilterRows(rows []entity.RenderedRow, query string) {
	for i := range rows {
		rows[i].Visible = matchesQuery(rows[i], query)
	}
}

// PaginateRows marks visible exactly the rows inside the page window and returns
// the rebuilt page controls. It overwrites any earlier filter result.
// A page past the last one is accepted and leaves no row visible.
func PaginateRows(rows []entity.RenderedRow, page int) []entity.PageControl {
	start, end := utils.PageWindow(page, entity.RowsPerPage)
	for i := range rows {
		rows[i].Visible = i >= start && i < end
	}
	return pageControls(len(rows), page)
}

func pageControls(total, page int) []entity.PageControl {
	totalPages := utils.TotalPages(total, entity.RowsPerPage)
	controls := make([]entity.PageControl, 0, totalPages)
	for i := 1; i <= totalPages; i++ {
		controls = append(controls, entity.PageControl{Page: i, Active: i == page})
	}
	return controls
}

// Render computes the table for state: a row is visible only when it matches the
// query and falls inside the page window. rows is not modified.
func Render(rows []entity.RenderedRow, state entity.ViewState) entity.TableView {
	page := state.Page
	if page < 1 {
		page = 1
	}
	query := strings.ToLower(state.Query)
	start, end := utils.PageWindow(page, entity.RowsPerPage)

	out := make([]entity.RenderedRow, len(rows))
	visible := 0
	for i, row := range rows {
		row.Visible = i >= start && i < end && matchesQuery(row, query)
		if row.Visible {
			visible++
		}
		out[i] = row
	}

	return entity.TableView{
		Rows:         out,
		Controls:     pageControls(len(rows), page),
		Page:         page,
		Query:        query,
		TotalPages:   utils.TotalPages(len(rows), entity.RowsPerPage),
		VisibleCount: visible,
	}
}
