package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"balance_dashboard/internal/app/service"
	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/infrastructure/exchange"
	"balance_dashboard/internal/pkg/logger"
	"balance_dashboard/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func scenarioRecords() []entity.BalanceRecord {
	out := []entity.BalanceRecord{}
	for _, a := range []string{"BTC", "ETH", "SOL", "ADA", "DOT", "XRP"} {
		out = append(out, entity.BalanceRecord{Asset: a, Free: decimal.RequireFromString("1.25"), Locked: decimal.Zero})
	}
	return out
}

type failingService struct{}

func (failingService) GetBalances(context.Context) ([]entity.BalanceRecord, error) {
	return nil, errors.New("exchange down")
}

type busyTable struct{ *service.BalanceTableController }

func (busyTable) Refresh(context.Context) error { return service.ErrRefreshInProgress }

func newTestRouter(t *testing.T) (*gin.Engine, *service.BalanceTableController) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	src := exchange.NewStaticSource(scenarioRecords())
	svc := service.NewBalanceService(src, nil, logger.Nop(), m, service.BalanceServiceConfig{SourceName: exchange.StaticSourceName})
	table := service.NewBalanceTableController(src, logger.Nop(), m, service.TableControllerConfig{RefreshInterval: time.Hour})

	r := SetupRouter(RouterDeps{
		Balances:  NewBalancesHandler(svc, logger.Nop()),
		Dashboard: NewDashboardHandler(table, logger.Nop()),
		Gatherer:  reg,
	})
	return r, table
}

func doRequest(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestGetBalances(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/balances/")
	require.Equal(t, http.StatusOK, w.Code)

	var body entity.BalancesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Balances, 6)
	assert.Equal(t, entity.BalanceWire{Asset: "BTC", Free: 1.25, Locked: 0}, body.Balances[0])
}

func TestGetBalances_ServiceError(t *testing.T) {
	r := SetupRouter(RouterDeps{Balances: NewBalancesHandler(failingService{}, logger.Nop())})

	w := doRequest(r, http.MethodGet, "/api/balances/")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "balances unavailable")
}

func TestDashboardIndex(t *testing.T) {
	r, table := newTestRouter(t)
	require.NoError(t, table.Refresh(context.Background()))

	w := doRequest(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()

	assert.Contains(t, html, `id="balances-table"`)
	assert.Contains(t, html, `id="search-bar"`)
	assert.Contains(t, html, `<td>1.25000000</td>`)
	assert.Equal(t, 6, strings.Count(html, "<tr><td>")+strings.Count(html, `<tr class="hidden">`))
	assert.Equal(t, 1, strings.Count(html, `<tr class="hidden">`))
	assert.Equal(t, 2, strings.Count(html, `class="page-item`))
	assert.Contains(t, html, `<li class="page-item active"><a class="page-link" href="/?page=1">1</a></li>`)
}

func TestGetTable_PageAndQuery(t *testing.T) {
	r, table := newTestRouter(t)
	require.NoError(t, table.Refresh(context.Background()))

	var view entity.TableView
	w := doRequest(r, http.MethodGet, "/api/table?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 1, view.VisibleCount)
	assert.True(t, view.Rows[5].Visible)

	w = doRequest(r, http.MethodGet, "/api/table?page=abc&q=ETH")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, "eth", view.Query)
	assert.Equal(t, 1, view.VisibleCount)
	assert.True(t, view.Rows[1].Visible)
}

func TestRefreshEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/table/refresh")
	require.Equal(t, http.StatusAccepted, w.Code)

	var view entity.TableView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Rows, 6)
}

func TestRefreshEndpoint_Conflict(t *testing.T) {
	table := service.NewBalanceTableController(exchange.NewStaticSource(nil), logger.Nop(), nil, service.TableControllerConfig{})
	r := SetupRouter(RouterDeps{Dashboard: NewDashboardHandler(busyTable{table}, logger.Nop())})

	w := doRequest(r, http.MethodPost, "/api/table/refresh")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r, table := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "lastRefresh")

	require.NoError(t, table.Refresh(context.Background()))
	w = doRequest(r, http.MethodGet, "/healthz")
	assert.Contains(t, w.Body.String(), "lastRefresh")

	w = doRequest(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "balance_dashboard_table_refresh_total")
}
