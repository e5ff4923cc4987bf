package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopConfig struct {
	Port       int           `env:"SHOP_PORT" envDefault:"8080"`
	SessionTTL time.Duration `env:"SHOP_SESSION_TTL" envDefault:"720h"`
	Origins    []string      `env:"SHOP_ORIGINS" envSeparator:","`
	Currency   string        `env:"SHOP_CURRENCY" envDefault:"BDT"`
	Kafka      bool          `env:"SHOP_KAFKA" envDefault:"false"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg shopConfig
	require.NoError(t, Load(&cfg, WithEnvironment(map[string]string{})))

	assert.Equal(t, shopConfig{Port: 8080, SessionTTL: 720 * time.Hour, Currency: "BDT"}, cfg)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("SHOP_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHOP_KAFKA", "true")

	var cfg shopConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	assert.True(t, cfg.Kafka)
}

func TestLoad_Options(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want func(*testing.T, shopConfig)
	}{
		{
			name: "explicit environment",
			opts: []Option{WithEnvironment(map[string]string{"SHOP_SESSION_TTL": "30m"})},
			want: func(t *testing.T, c shopConfig) { assert.Equal(t, 30*time.Minute, c.SessionTTL) },
		},
		{
			name: "prefix",
			opts: []Option{
				WithPrefix("SANSLI_"),
				WithEnvironment(map[string]string{"SANSLI_SHOP_CURRENCY": "USD", "SHOP_CURRENCY": "EUR"}),
			},
			want: func(t *testing.T, c shopConfig) { assert.Equal(t, "USD", c.Currency) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg shopConfig
			require.NoError(t, Load(&cfg, tt.opts...))
			tt.want(t, cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	type required struct {
		Addr string `env:"SHOP_REDIS_ADDR,required"`
	}

	var r required
	err := Load(&r, WithEnvironment(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	var cfg shopConfig
	err = Load(&cfg, WithEnvironment(map[string]string{"SHOP_SESSION_TTL": "a month"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
