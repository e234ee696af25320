package container

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-rental-dashboard/config"
)

func TestNewContainerWithoutSnapshotStore(t *testing.T) {
	cfg := &config.Config{}
	cfg.Dataset = config.DatasetConfig{
		City:          "Paris",
		ListingsURL:   "http://127.0.0.1:1/listings.csv",
		BoundariesURL: "http://127.0.0.1:1/neighbourhoods.geojson",
		Retries:       1,
		CacheTTL:      time.Minute,
	}
	cfg.Dashboard.PriceQuantile = 0.9

	c, err := NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Pool)
	assert.NotNil(t, c.Cache)
	assert.NotNil(t, c.DashboardService)
	assert.NotNil(t, c.DashboardHandler)
}
