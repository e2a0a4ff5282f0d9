package port

import (
	"context"
	"time"

	"balance_dashboard/internal/domain/entity"
)

// BalanceSource provides the full balances collection of an account.
// Implementations: the exchange account adapter, the static config source and
// the HTTP client of the balances endpoint.
type BalanceSource interface {
	FetchBalances(ctx context.Context) ([]entity.BalanceRecord, error)
}

// SnapshotStore keeps the last successfully fetched balances so the API can
// answer while the exchange is unreachable.
type SnapshotStore interface {
	Save(ctx context.Context, records []entity.BalanceRecord, ttl time.Duration) error
	// Load returns nil, nil when no snapshot exists.
	Load(ctx context.Context) ([]entity.BalanceRecord, error)
}

// BalanceService serves balances to the API layer.
type BalanceService interface {
	GetBalances(ctx context.Context) ([]entity.BalanceRecord, error)
}

// TableController is the dashboard-side view of the balances table.
type TableController interface {
	Refresh(ctx context.Context) error
	SetPage(page int) entity.TableView
	SetQuery(query string) entity.TableView
	View() entity.TableView
	LastSuccess() time.Time
}
