package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	holder, err := Load("")
	require.NoError(t, err)

	cf := holder.Get()
	require.Equal(t, "https://fakestoreapi.com", cf.APIBaseURL)
	require.Equal(t, 30*time.Second, cf.RequestTimeout)
	require.Equal(t, "shopflow.db", cf.CartDBPath)
	require.Empty(t, cf.RedisAddr)
	require.Equal(t, 5*time.Minute, cf.CacheTTL)
	require.Equal(t, 2*time.Second, cf.CheckoutDelay)
	require.Equal(t, "info", cf.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:9999")
	t.Setenv("CHECKOUT_DELAY", "10ms")

	holder, err := Load("")
	require.NoError(t, err)

	cf := holder.Get()
	require.Equal(t, "http://localhost:9999", cf.APIBaseURL)
	require.Equal(t, 10*time.Millisecond, cf.CheckoutDelay)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"CART_DB_PATH=/tmp/shopflow-test.db\nLOG_LEVEL=debug\n"), 0o644))

	holder, err := Load(path)
	require.NoError(t, err)

	cf := holder.Get()
	require.Equal(t, "/tmp/shopflow-test.db", cf.CartDBPath)
	require.Equal(t, "debug", cf.LogLevel)
	// 未設定的欄位維持預設值
	require.Equal(t, "https://fakestoreapi.com", cf.APIBaseURL)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
}
