package exchange

import (
	"context"

	"balance_dashboard/internal/domain/entity"
)

// StaticSourceName labels the static source in logs and metrics.
const StaticSourceName = "static"

// StaticSource serves a fixed list of balances, in configuration order.
type StaticSource struct {
	records []entity.BalanceRecord
}

func NewStaticSource(records []entity.BalanceRecord) *StaticSource {
	cp := make([]entity.BalanceRecord, len(records))
	copy(cp, records)
	return &StaticSource{records: cp}
}

// FetchBalances implements port.BalanceSource.
func (s *StaticSource) FetchBalances(ctx context.Context) ([]entity.BalanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]entity.BalanceRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
