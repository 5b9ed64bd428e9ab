package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/peso-dashboard/internal/config"
	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server. Every field can be
// overridden from the environment with the PESO_ prefix, e.g. PESO_ADDRESS.
type Config struct {
	Address         string               `yaml:"address" envconfig:"ADDRESS"`
	Watch           bool                 `yaml:"watch" envconfig:"WATCH"`
	RefreshSchedule string               `yaml:"refreshSchedule" envconfig:"REFRESH_SCHEDULE"`
	MaxOverlays     int                  `yaml:"maxOverlays" envconfig:"MAX_OVERLAYS"`
	ReadTimeout     string               `yaml:"readTimeout" envconfig:"READ_TIMEOUT"`
	InvalidateRate  float64              `yaml:"invalidateRate" envconfig:"INVALIDATE_RATE"`
	InvalidateBurst int                  `yaml:"invalidateBurst" envconfig:"INVALIDATE_BURST"`
	Logging         config.LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	readTimeout     time.Duration
}

// LoadConfig loads the server configuration from YAML, then applies environment
// overrides. If the file does not exist, defaults are used without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:         constants.DefaultServerAddress,
		MaxOverlays:     constants.DefaultMaxOverlays,
		ReadTimeout:     constants.DefaultReadTimeout.String(),
		InvalidateRate:  constants.DefaultInvalidateRate,
		InvalidateBurst: constants.DefaultInvalidateBurst,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := envconfig.Process(constants.EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read server config from environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadTimeoutDuration returns the configured request read timeout.
func (c *Config) ReadTimeoutDuration() time.Duration {
	if c.readTimeout <= 0 {
		return constants.DefaultReadTimeout
	}
	return c.readTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MaxOverlays <= 0 {
		c.MaxOverlays = constants.DefaultMaxOverlays
	}
	if c.InvalidateRate <= 0 {
		c.InvalidateRate = constants.DefaultInvalidateRate
	}
	if c.InvalidateBurst <= 0 {
		c.InvalidateBurst = constants.DefaultInvalidateBurst
	}

	c.RefreshSchedule = strings.TrimSpace(c.RefreshSchedule)
	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("invalid refreshSchedule %q: %w", c.RefreshSchedule, err)
		}
	}

	timeout := strings.TrimSpace(c.ReadTimeout)
	if timeout == "" {
		c.readTimeout = constants.DefaultReadTimeout
		c.ReadTimeout = constants.DefaultReadTimeout.String()
		return nil
	}

	d, err := time.ParseDuration(timeout)
	if err != nil {
		return fmt.Errorf("invalid readTimeout %q: %w", c.ReadTimeout, err)
	}
	if d <= 0 {
		d = constants.DefaultReadTimeout
	}
	c.readTimeout = d
	return nil
}
