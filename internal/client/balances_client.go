package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"balance_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BalancesPath is the path of the balances endpoint.
const BalancesPath = "/api/balances/"

// BalancesClient fetches the balances collection from a balances endpoint.
// It implements port.BalanceSource.
type BalancesClient struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewBalancesClient creates a client for baseURL + BalancesPath.
func NewBalancesClient(baseURL string, timeout time.Duration, logger *zap.Logger) *BalancesClient {
	return &BalancesClient{
		client:  &fasthttp.Client{Name: "balance-dashboard"},
		url:     strings.TrimRight(baseURL, "/") + BalancesPath,
		timeout: timeout,
		logger:  logger.Named("BalancesClient"),
	}
}

// FetchBalances implements port.BalanceSource.
func (c *BalancesClient) FetchBalances(ctx context.Context) ([]entity.BalanceRecord, error) {
	c.logger.Debug("Requesting balances", zap.String("url", c.url))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("request %s: %w", c.url, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			return nil, fmt.Errorf("request %s with default timeout: %w", c.url, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Warn("Balances endpoint returned non-200",
			zap.String("url", c.url),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("balances request to %s failed with status %d", c.url, resp.StatusCode())
	}

	var body entity.BalancesResponse
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, fmt.Errorf("decode balances response from %s: %w", c.url, err)
	}

	records := make([]entity.BalanceRecord, 0, len(body.Balances))
	for _, w := range body.Balances {
		records = append(records, w.ToRecord())
	}
	c.logger.Debug("Balances received", zap.Int("count", len(records)))
	return records, nil
}
