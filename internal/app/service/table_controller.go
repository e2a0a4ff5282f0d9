package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/domain/entity"
	"balance_dashboard/internal/pkg/metrics"
)

// DefaultRefreshInterval is how often the table refetches balances.
const DefaultRefreshInterval = 300000 * time.Millisecond

// ErrRefreshInProgress is returned when a refresh is requested while another one is running.
var ErrRefreshInProgress = errors.New("balances refresh already in progress")

// TableControllerConfig configures a BalanceTableController.
type TableControllerConfig struct {
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
}

// BalanceTableController keeps the rendered balances table in sync with a BalanceSource.
type BalanceTableController struct {
	source  port.BalanceSource
	logger  port.Logger
	metrics *metrics.Metrics
	cfg     TableControllerConfig
	now     func() time.Time

	inFlight atomic.Bool

	mu          sync.RWMutex
	rows        []entity.RenderedRow
	state       entity.ViewState
	view        entity.TableView
	lastSuccess time.Time
}

// NewBalanceTableController creates a controller with an empty table on page 1.
func NewBalanceTableController(source port.BalanceSource, l port.Logger, m *metrics.Metrics, cfg TableControllerConfig) *BalanceTableController {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	c := &BalanceTableController{
		source:  source,
		logger:  l,
		metrics: m,
		cfg:     cfg,
		now:     time.Now,
		state:   entity.ViewState{Page: 1},
	}
	c.view = Render(nil, c.state)
	return c
}

// Run refreshes immediately and then on every interval tick until ctx is done.
// Refresh errors are logged and never stop the loop.
func (c *BalanceTableController) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.RefreshInterval)
	defer ticker.Stop()

	c.logger.Info("Balances table refresh loop started", "interval", c.cfg.RefreshInterval.String())
	_ = c.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Balances table refresh loop stopped")
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

// Refresh fetches the balances and rebuilds the table, keeping the current filter and
// the highlighted page. On failure the previous rows stay untouched.
func (c *BalanceTableController) Refresh(ctx context.Context) error {
	started := c.now()
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("Skipping balances refresh, previous one still running")
		c.metrics.ObserveRefresh(metrics.ResultSkipped, started, 0)
		return ErrRefreshInProgress
	}
	defer c.inFlight.Store(false)

	fetchCtx := ctx
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	records, err := c.source.FetchBalances(fetchCtx)
	if err != nil {
		c.logger.Error("Error fetching balances", "error", err)
		c.metrics.ObserveRefresh(metrics.ResultFailure, started, 0)
		return fmt.Errorf("refresh balances: %w", err)
	}

	rows := BuildRows(records)

	c.mu.Lock()
	page := c.view.ActivePage()
	if page == 0 {
		page = 1
	}
	c.rows = rows
	c.state.Page = page
	c.lastSuccess = c.now()
	c.renderLocked()
	c.mu.Unlock()

	c.logger.Debug("Balances table refreshed", "rows", len(rows), "page", page)
	c.metrics.ObserveRefresh(metrics.ResultSuccess, started, len(rows))
	return nil
}

// SetPage selects a page. Values below 1 select page 1; pages past the end are kept as-is.
func (c *BalanceTableController) SetPage(page int) entity.TableView {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = page
	c.renderLocked()
	return c.copyViewLocked()
}

// SetQuery changes the filter text. The page is left unchanged.
func (c *BalanceTableController) SetQuery(query string) entity.TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	c.renderLocked()
	return c.copyViewLocked()
}

// View returns a copy of the current table.
func (c *BalanceTableController) View() entity.TableView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyViewLocked()
}

// State returns the current page and query.
func (c *BalanceTableController) State() entity.ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastSuccess is the time of the last successful refresh, zero if none.
func (c *BalanceTableController) LastSuccess() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

func (c *BalanceTableController) renderLocked() {
	c.view = Render(c.rows, c.state)
	c.view.UpdatedAt = c.lastSuccess
	c.state.Query = c.view.Query
}

func (c *BalanceTableController) copyViewLocked() entity.TableView {
	v := c.view
	v.Rows = make([]entity.RenderedRow, len(c.view.Rows))
	copy(v.Rows, c.view.Rows)
	v.Controls = make([]entity.PageControl, len(c.view.Controls))
	copy(v.Controls, c.view.Controls)
	return v
}
