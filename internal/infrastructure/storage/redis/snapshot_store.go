package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balance_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	goredis "github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotKey is the Redis key holding the last balances snapshot.
const SnapshotKey = "balances:snapshot"

// NewClient creates a Redis client and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// SnapshotStore implements port.SnapshotStore with a single JSON value in Redis.
type SnapshotStore struct {
	client *goredis.Client
	key    string
}

func NewSnapshotStore(client *goredis.Client) *SnapshotStore {
	return &SnapshotStore{client: client, key: SnapshotKey}
}

// Save overwrites the snapshot. A ttl of 0 keeps it until the next save.
func (s *SnapshotStore) Save(ctx context.Context, records []entity.BalanceRecord, ttl time.Duration) error {
	// amounts are stored as decimal strings so the snapshot round-trips exactly
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil, nil when there is none.
func (s *SnapshotStore) Load(ctx context.Context) ([]entity.BalanceRecord, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var records []entity.BalanceRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if records == nil {
		records = []entity.BalanceRecord{}
	}
	return records, nil
}
