package restapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/app/service"
	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the balances table as HTML and JSON.
type DashboardHandler struct {
	table  port.TableController
	logger port.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(table port.TableController, l port.Logger) *DashboardHandler {
	return &DashboardHandler{table: table, logger: l}
}

// applyParams updates the table state from ?page= and ?q= when present.
func (h *DashboardHandler) applyParams(c *gin.Context) entity.TableView {
	if q, ok := c.GetQuery("q"); ok {
		h.table.SetQuery(q)
	}
	if p, ok := c.GetQuery("page"); ok {
		return h.table.SetPage(utils.ParsePage(p))
	}
	return h.table.View()
}

// Index renders the dashboard page.
func (h *DashboardHandler) Index(c *gin.Context) {
	view := h.applyParams(c)
	c.HTML(http.StatusOK, dashboardTemplateName, gin.H{
		"View":        view,
		"LastSuccess": h.table.LastSuccess(),
	})
}

// GetTable returns the current table view as JSON.
func (h *DashboardHandler) GetTable(c *gin.Context) {
	c.JSON(http.StatusOK, h.applyParams(c))
}

// Refresh triggers an immediate refresh of the table.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	// detached from the request so a client disconnect does not abort the fetch
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), time.Minute)
	defer cancel()

	err := h.table.Refresh(ctx)
	switch {
	case errors.Is(err, service.ErrRefreshInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "refresh failed"})
	default:
		c.JSON(http.StatusAccepted, h.table.View())
	}
}

// Health reports liveness and the time of the last successful refresh.
func (h *DashboardHandler) Health(c *gin.Context) {
	last := h.table.LastSuccess()
	body := gin.H{"status": "ok"}
	if !last.IsZero() {
		body["lastRefresh"] = last.UTC().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, body)
}
