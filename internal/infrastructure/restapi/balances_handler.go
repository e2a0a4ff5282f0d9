package restapi

import (
	"net/http"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// BalancesHandler serves GET /api/balances/.
type BalancesHandler struct {
	balanceService port.BalanceService
	logger         port.Logger
}

// NewBalancesHandler creates a new BalancesHandler.
func NewBalancesHandler(bs port.BalanceService, l port.Logger) *BalancesHandler {
	return &BalancesHandler{balanceService: bs, logger: l}
}

// GetBalancesHandler returns the account balances as {"balances":[...]}.
func (h *BalancesHandler) GetBalancesHandler(c *gin.Context) {
	records, err := h.balanceService.GetBalances(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to serve balances", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "balances unavailable"})
		return
	}

	resp := entity.BalancesResponse{Balances: make([]entity.BalanceWire, 0, len(records))}
	for _, r := range records {
		resp.Balances = append(resp.Balances, r.ToWire())
	}
	c.JSON(http.StatusOK, resp)
}
