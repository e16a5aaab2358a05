package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/calcbot/core/config"
	"github.com/m3rciful/calcbot/core/history"
)

func noopLogger(*coreconfig.Config) error { return nil }

func TestRunMemoryHistory(t *testing.T) {
	cfg := &coreconfig.Config{Calc: coreconfig.CalcConfig{HistorySize: 3}}
	res, err := Run(context.Background(), Options{
		Config:     cfg,
		LoggerInit: noopLogger,
		Connect: func(context.Context, coreconfig.DatabaseConfig) (*sqlx.DB, error) {
			t.Fatal("database must not be touched when disabled")
			return nil, nil
		},
	})
	require.NoError(t, err)
	assert.Nil(t, res.DB)
	assert.IsType(t, &history.MemoryStore{}, res.History)
	assert.NoError(t, res.Close())
}

func TestRunFailures(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = Run(context.Background(), Options{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return boom },
	})
	assert.ErrorIs(t, err, boom)

	_, err = Run(context.Background(), Options{
		Config:     &coreconfig.Config{Database: coreconfig.DatabaseConfig{Enabled: true}},
		LoggerInit: noopLogger,
		Connect: func(context.Context, coreconfig.DatabaseConfig) (*sqlx.DB, error) {
			return nil, boom
		},
	})
	assert.ErrorIs(t, err, boom)
}
