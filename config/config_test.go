package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "Paris", cfg.Dataset.City)
	assert.Contains(t, cfg.Dataset.ListingsURL, "listings.csv")
	assert.Equal(t, time.Hour, cfg.Dataset.CacheTTL)
	assert.Equal(t, 0.9, cfg.Dashboard.PriceQuantile)
	assert.Equal(t, 50, cfg.Dashboard.DefaultMapPoints)
	assert.Equal(t, 5, cfg.Dashboard.MinCountStep)
	assert.Len(t, cfg.Dashboard.MapStyles, 2)
	assert.False(t, cfg.Repositories.Postgres.Enabled)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("DASHBOARD_DATASET_CITY", "Lyon")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "Lyon", cfg.Dataset.City)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Dataset.ListingsURL = "http://example.test/listings.csv"
		c.Dataset.BoundariesURL = "http://example.test/neighbourhoods.geojson"
		c.Dashboard.PriceQuantile = 0.9
		c.Dashboard.MapStyles = []MapStyle{{Key: "osm"}}
		return c
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.Dataset.ListingsURL = ""
	assert.ErrorContains(t, c.Validate(), "listingsURL")

	c = valid()
	c.Dashboard.PriceQuantile = 1.5
	assert.ErrorContains(t, c.Validate(), "priceQuantile")

	c = valid()
	c.Dashboard.MapStyles = nil
	assert.ErrorContains(t, c.Validate(), "mapStyles")
}

func TestMapStyle(t *testing.T) {
	d := DashboardConfig{MapStyles: []MapStyle{{Key: "carto-positron"}, {Key: "open-street-map"}}}
	assert.Equal(t, "open-street-map", d.MapStyle("open-street-map").Key)
	assert.Equal(t, "carto-positron", d.MapStyle("satellite").Key)
}
