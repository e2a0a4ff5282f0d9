package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_StaticDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
source:
  kind: static
  static:
    - asset: BTC
      free: 0.5
      locked: 0.1
    - asset: ETH
      free: 2
      locked: 0
`))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 300000*time.Millisecond, cfg.RefreshInterval())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Dashboard.BalancesBaseURL)
	require.NotNil(t, cfg.Binance.HideZeroBalances)
	assert.True(t, *cfg.Binance.HideZeroBalances)

	require.Len(t, cfg.Source.Static, 2)
	assert.Equal(t, "0.50000000", cfg.Source.Static[0].Free.StringFixed(8))
	assert.Equal(t, "0.10000000", cfg.Source.Static[0].Locked.StringFixed(8))
}

func TestParse_BinanceRequiresKeys(t *testing.T) {
	t.Setenv("BINANCE_TESTNET_API_KEY", "")
	t.Setenv("BINANCE_TESTNET_API_SECRET", "")

	_, err := Parse([]byte(`source: {kind: binance}`))
	assert.Error(t, err)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("BINANCE_TESTNET_API_KEY", "key")
	t.Setenv("BINANCE_TESTNET_API_SECRET", "secret")
	t.Setenv("TESTNET_BASE_URL", "https://testnet.example")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Parse([]byte(`
server:
  port: ":9090"
binance:
  apiKey: from-file
`))
	require.NoError(t, err)
	assert.Equal(t, SourceBinance, cfg.Source.Kind)
	assert.Equal(t, "key", cfg.Binance.APIKey)
	assert.Equal(t, "secret", cfg.Binance.APISecret)
	assert.Equal(t, "https://testnet.example", cfg.Binance.BaseURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "http://127.0.0.1:9090", cfg.Dashboard.BalancesBaseURL)
}

func TestParse_RejectsBadStaticBalances(t *testing.T) {
	tests := map[string]string{
		"unknown kind": `source: {kind: kraken}`,
		"no asset":     "source:\n  kind: static\n  static:\n    - free: 1\n",
		"duplicate":    "source:\n  kind: static\n  static:\n    - asset: BTC\n    - asset: BTC\n",
		"negative":     "source:\n  kind: static\n  static:\n    - asset: BTC\n      free: -1\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("source: {kind: static}\ndashboard: {refreshIntervalMillis: 1000}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.RefreshInterval())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
