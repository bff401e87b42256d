package config_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicoin/imaging-client/internal/config"
)

func TestConfigUnmarshal(t *testing.T) {
	raw := `
auth:
  baseURL: https://auth.medicoin.example
  timeout: 10s
processing:
  baseURL: https://processing.medicoin.example
store:
  backend: valkey
  valkey:
    host:
      source: embedded
      value: localhost:6379
    prefix: imaging
`

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, "https://auth.medicoin.example", cfg.Auth.BaseURL)
	assert.Equal(t, "10s", cfg.Auth.Timeout.String())
	assert.Equal(t, "https://processing.medicoin.example", cfg.Processing.BaseURL)
	assert.Equal(t, config.StoreBackendValKey, cfg.Store.Backend)
	assert.Equal(t, "imaging", cfg.Store.ValKey.Prefix)
	assert.EqualValues(t, "embedded", cfg.Store.ValKey.Host.Source)
	assert.Equal(t, "localhost:6379", cfg.Store.ValKey.Host.Value)
}

func TestConfigZeroValue(t *testing.T) {
	var cfg config.Config

	// Defaults are applied by the loader, not the type; the zero value only
	// guarantees an unselected backend.
	assert.Empty(t, cfg.Store.Backend)
	assert.Empty(t, cfg.Auth.BaseURL)
}
