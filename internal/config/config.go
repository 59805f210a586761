package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"dayahead-procurement/internal/schedule"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Data        DataConfig        `yaml:"data"`
	Preprocess  PreprocessConfig  `yaml:"preprocess"`
	Procurement ProcurementConfig `yaml:"procurement"`
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// DataConfig covers the ENTSO-E client and the local price store.
type DataConfig struct {
	// APIKey is the ENTSO-E Transparency Platform security token. If empty,
	// the ENTSOE_API_KEY environment variable is used.
	APIKey       string   `yaml:"api_key"`
	BaseURL      string   `yaml:"base_url"`
	DatabasePath string   `yaml:"database_path"`
	Zones        []string `yaml:"zones"`
	// ZonesFile optionally overrides the built-in bidding-zone registry.
	ZonesFile   string `yaml:"zones_file"`
	StartDate   string `yaml:"start_date"`   // YYYY-MM-DD, first day ever downloaded
	RefreshCron string `yaml:"refresh_cron"` // empty disables the periodic refresh
}

type PreprocessConfig struct {
	// WindowSize is the block size (sample count) for the downsampling
	// average, e.g. 24 to reduce hourly prices to daily averages.
	WindowSize int `yaml:"window_size"`
}

type ProcurementConfig struct {
	TotalVolumeMWh float64 `yaml:"total_volume_mwh"`
	Limit          float64 `yaml:"limit"`
	PartsList      []int   `yaml:"parts_list"`
	Fallback       string  `yaml:"fallback"` // forfeit | close | carry
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level            string   `yaml:"level"`
	Encoding         string   `yaml:"encoding"`
	Development      bool     `yaml:"development"`
	OutputPaths      []string `yaml:"output_paths"`
	ErrorOutputPaths []string `yaml:"error_output_paths"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config and applies defaults, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if c.Data.APIKey == "" {
		c.Data.APIKey = os.Getenv("ENTSOE_API_KEY")
	}
	return c, nil
}

// Default mirrors the analysis defaults of the toolkit: hourly prices reduced
// to daily averages, a 1000 MWh budget split over the classic divisor ladder.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			BaseURL:      "https://web-api.tp.entsoe.eu/api",
			DatabasePath: "data/prices.db",
			Zones:        []string{"DK_1", "DK_2"},
			StartDate:    "2025-01-01",
		},
		Preprocess: PreprocessConfig{WindowSize: 24},
		Procurement: ProcurementConfig{
			TotalVolumeMWh: 1000,
			Limit:          10,
			PartsList:      []int{1, 2, 3, 4, 6, 12, 24},
			Fallback:       string(schedule.FallbackForfeit),
		},
		Server: ServerConfig{Port: 8080},
		Logging: LoggingConfig{
			Level:            "info",
			Encoding:         "console",
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		},
	}
}

func (c *Config) Validate() error {
	var err error

	if c.Preprocess.WindowSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("preprocess.window_size must be > 0, got %d", c.Preprocess.WindowSize))
	}
	if c.Procurement.TotalVolumeMWh <= 0 {
		err = multierr.Append(err, fmt.Errorf("procurement.total_volume_mwh must be > 0, got %g", c.Procurement.TotalVolumeMWh))
	}
	if len(c.Procurement.PartsList) == 0 {
		err = multierr.Append(err, fmt.Errorf("procurement.parts_list must not be empty"))
	}
	for _, n := range c.Procurement.PartsList {
		if n <= 0 {
			err = multierr.Append(err, fmt.Errorf("procurement.parts_list entries must be >= 1, got %d", n))
		}
	}
	if _, perr := schedule.ParseFallbackPolicy(c.Procurement.Fallback); perr != nil {
		err = multierr.Append(err, perr)
	}
	if len(c.Data.Zones) == 0 {
		err = multierr.Append(err, fmt.Errorf("data.zones must not be empty"))
	}
	if _, terr := c.Start(); terr != nil {
		err = multierr.Append(err, terr)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port))
	}
	return err
}

// Start returns the configured download start date at midnight UTC.
func (c *Config) Start() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Data.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("data.start_date: want YYYY-MM-DD, got %q", c.Data.StartDate)
	}
	return t.UTC(), nil
}

// FallbackPolicy returns the parsed no-trigger fallback policy. Validate
// must have accepted the config first.
func (c *Config) FallbackPolicy() schedule.FallbackPolicy {
	p, err := schedule.ParseFallbackPolicy(c.Procurement.Fallback)
	if err != nil {
		return schedule.FallbackForfeit
	}
	return p
}
