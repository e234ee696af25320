package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Enabled bool   `mapstructure:"enabled"`
			Path    string `mapstructure:"path"`
		} `mapstructure:"prometheus"`
		Swagger struct {
			Enabled bool `mapstructure:"enabled"`
		} `mapstructure:"swagger"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Enabled  bool   `mapstructure:"enabled"`
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
			MaxConns int32  `mapstructure:"maxConns"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// DatasetConfig locates and caches the remote snapshot.
type DatasetConfig struct {
	City           string        `mapstructure:"city"`
	ListingsURL    string        `mapstructure:"listingsURL"`
	BoundariesURL  string        `mapstructure:"boundariesURL"`
	FetchTimeout   time.Duration `mapstructure:"fetchTimeout"`
	Retries        int           `mapstructure:"retries"`
	RetryBaseDelay time.Duration `mapstructure:"retryBaseDelay"`
	CacheTTL       time.Duration `mapstructure:"cacheTTL"`
}

// DashboardConfig holds the widget defaults.
type DashboardConfig struct {
	DefaultMapPoints int        `mapstructure:"defaultMapPoints"`
	PriceQuantile    float64    `mapstructure:"priceQuantile"`
	MinCountStep     int        `mapstructure:"minCountStep"`
	CenterLat        float64    `mapstructure:"centerLat"`
	CenterLon        float64    `mapstructure:"centerLon"`
	ChoroplethZoom   int        `mapstructure:"choroplethZoom"`
	PointsZoom       int        `mapstructure:"pointsZoom"`
	MapStyles        []MapStyle `mapstructure:"mapStyles"`
}

// MapStyle is a selectable tile layer.
type MapStyle struct {
	Key         string `mapstructure:"key"`
	Name        string `mapstructure:"name"`
	TileURL     string `mapstructure:"tileURL"`
	Attribution string `mapstructure:"attribution"`
}

// InitConfig reads config.yml from the usual locations, falling back to the embedded copy.
// Any key can be overridden with a DASHBOARD_ prefixed environment variable, e.g.
// DASHBOARD_DATASET_CITY.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/etc/rental-dashboard")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks the values the dashboard cannot work without.
func (c Config) Validate() error {
	switch {
	case c.Dataset.ListingsURL == "":
		return fmt.Errorf("config: dataset.listingsURL is required")
	case c.Dataset.BoundariesURL == "":
		return fmt.Errorf("config: dataset.boundariesURL is required")
	case c.Dashboard.PriceQuantile <= 0 || c.Dashboard.PriceQuantile > 1:
		return fmt.Errorf("config: dashboard.priceQuantile must be in (0, 1], got %v", c.Dashboard.PriceQuantile)
	case len(c.Dashboard.MapStyles) == 0:
		return fmt.Errorf("config: dashboard.mapStyles must list at least one style")
	}
	return nil
}

// MapStyle returns the style with the given key, or the first style when key is unknown.
func (d DashboardConfig) MapStyle(key string) MapStyle {
	for _, s := range d.MapStyles {
		if s.Key == key {
			return s
		}
	}
	return d.MapStyles[0]
}
