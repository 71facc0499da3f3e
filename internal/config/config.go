package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API       *APIConfig       `mapstructure:"api"`
	Gin       *GinConfig       `mapstructure:"gin"`
	Postgres  *PostgresConfig  `mapstructure:"postgres"`
	Vendor    *VendorConfig    `mapstructure:"vendor"`
	Firebase  *FirebaseConfig  `mapstructure:"firebase"`
	Draw      *DrawConfig      `mapstructure:"draw"`
	Scheduler *SchedulerConfig `mapstructure:"scheduler"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type VendorConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c *VendorConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	// CredentialsJSON is normally injected through the FIREBASE_KEY
	// environment variable rather than the config file.
	CredentialsJSON string `mapstructure:"credentials_json"`
}

type SchedulerConfig struct {
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
	LeaseSeconds         int `mapstructure:"lease_seconds"`
}

func (c *SchedulerConfig) SweepEvery() time.Duration {
	if c.SweepIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (c *SchedulerConfig) Lease() time.Duration {
	if c.LeaseSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.LeaseSeconds) * time.Second
}

// PublishTime is a lottery region's fixed publish time of day.
type PublishTime struct {
	Hour   int `mapstructure:"hour"`
	Minute int `mapstructure:"minute"`
}

// DrawConfig holds the per-region publish times. Reads go through
// PublishTimeFor because the table can be swapped by a config reload.
type DrawConfig struct {
	Timezone string                 `mapstructure:"timezone"`
	Times    map[string]PublishTime `mapstructure:"times"`

	mu  sync.RWMutex
	loc *time.Location
}

func (c *DrawConfig) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.loc != nil {
		return c.loc
	}
	return time.Local
}

func (c *DrawConfig) PublishTimeFor(region string) (PublishTime, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.Times[strings.ToLower(region)]
	return t, ok
}

func (c *DrawConfig) resolveLocation() error {
	if c.Timezone == "" {
		c.Timezone = "Asia/Ho_Chi_Minh"
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("time.LoadLocation(%q) -> %w", c.Timezone, err)
	}

	c.mu.Lock()
	c.loc = loc
	c.mu.Unlock()

	return nil
}

func (c *DrawConfig) replaceTimes(times map[string]PublishTime) {
	c.mu.Lock()
	c.Times = times
	c.mu.Unlock()
}

// NewDrawConfig builds a DrawConfig without going through viper.
func NewDrawConfig(timezone string, times map[string]PublishTime) (*DrawConfig, error) {
	conf := &DrawConfig{
		Timezone: timezone,
		Times:    times,
	}
	if err := conf.resolveLocation(); err != nil {
		return nil, err
	}

	return conf, nil
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	viper.SetDefault("draw.timezone", "Asia/Ho_Chi_Minh")
	viper.SetDefault("draw.times.north", map[string]any{"hour": 18, "minute": 35})
	viper.SetDefault("draw.times.central", map[string]any{"hour": 17, "minute": 35})
	viper.SetDefault("draw.times.south", map[string]any{"hour": 16, "minute": 35})
	viper.SetDefault("vendor.base_url", "https://xoso188.net")
	viper.SetDefault("vendor.timeout_seconds", 10)
	viper.SetDefault("scheduler.sweep_interval_seconds", 60)
	viper.SetDefault("scheduler.lease_seconds", 120)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	if err := conf.Draw.resolveLocation(); err != nil {
		return nil, err
	}

	// Publish times are operator data, not code. Pick up edits to the
	// config file without a restart.
	viper.OnConfigChange(func(e fsnotify.Event) {
		var next AppConfig
		if err := viper.Unmarshal(&next); err != nil {
			zap.L().Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}

		conf.Draw.replaceTimes(next.Draw.Times)
		zap.L().Info("draw times reloaded", zap.String("file", e.Name))
	})
	viper.WatchConfig()

	return &conf, nil
}
