package exchange

import (
	"context"
	"sort"

	"balance_dashboard/internal/app/port"
	"balance_dashboard/internal/domain/entity"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// BinanceSourceName labels the Binance source in logs and metrics.
const BinanceSourceName = "binance"

const binanceTestnetBaseURL = "https://testnet.binance.vision"

// BinanceConfig holds what the account source needs to reach Binance.
type BinanceConfig struct {
	APIKey            string
	APISecret         string
	BaseURL           string
	Testnet           bool
	RequestsPerSecond float64
	Burst             int
	HideZeroBalances  bool
}

type accountFetcher func(ctx context.Context) (*binance.Account, error)

// BinanceSource reads spot balances of a Binance account.
type BinanceSource struct {
	fetch    accountFetcher
	limiter  *rate.Limiter
	hideZero bool
	logger   port.Logger
}

// NewBinanceSource builds a source backed by the Binance REST API.
func NewBinanceSource(cfg BinanceConfig, l port.Logger) *BinanceSource {
	client := binance.NewClient(cfg.APIKey, cfg.APISecret)
	switch {
	case cfg.BaseURL != "":
		client.BaseURL = cfg.BaseURL
	case cfg.Testnet:
		client.BaseURL = binanceTestnetBaseURL
	}
	l.Info("Binance account source configured", "baseURL", client.BaseURL, "testnet", cfg.Testnet)

	return newBinanceSource(func(ctx context.Context) (*binance.Account, error) {
		return client.NewGetAccountService().Do(ctx)
	}, cfg, l)
}

func newBinanceSource(fetch accountFetcher, cfg BinanceConfig, l port.Logger) *BinanceSource {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &BinanceSource{
		fetch:    fetch,
		limiter:  rate.NewLimiter(limit, burst),
		hideZero: cfg.HideZeroBalances,
		logger:   l,
	}
}

// FetchBalances implements port.BalanceSource.
func (s *BinanceSource) FetchBalances(ctx context.Context) ([]entity.BalanceRecord, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "binance rate limiter")
	}

	account, err := s.fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account balance")
	}
	if account == nil {
		return []entity.BalanceRecord{}, nil
	}

	records := make([]entity.BalanceRecord, 0, len(account.Balances))
	for _, b := range account.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse free balance of %s", b.Asset)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse locked balance of %s", b.Asset)
		}
		if s.hideZero && free.IsZero() && locked.IsZero() {
			continue
		}
		records = append(records, entity.BalanceRecord{Asset: b.Asset, Free: free, Locked: locked})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Asset < records[j].Asset })

	s.logger.Debug("Binance balances parsed", "assets", len(account.Balances), "kept", len(records))
	return records, nil
}
