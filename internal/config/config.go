package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration (file + env overrides).
type Config struct {
	Server struct {
		Addr     string `mapstructure:"addr"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"server"`

	Promos struct {
		// DemoMode lets authors preview promos over normal gating.
		DemoMode bool `mapstructure:"demo_mode"`
		// Context names the window context promos anchor in.
		Context string `mapstructure:"context"`
		// DefaultTimeoutSeconds applies to specs without their own.
		DefaultTimeoutSeconds int `mapstructure:"default_timeout_seconds"`
		// MaxShowsPerSession caps tracker triggers per feature; 0 = off.
		MaxShowsPerSession int `mapstructure:"max_shows_per_session"`
		// EnabledFeatures gates promos; empty means everything enabled.
		EnabledFeatures []string `mapstructure:"enabled_features"`
		// ManualTrackerInit keeps the tracker uninitialized until the ops
		// surface fires it, for exercising startup queueing.
		ManualTrackerInit bool `mapstructure:"manual_tracker_init"`
	} `mapstructure:"promos"`

	// Definitions declares the promos registered at startup.
	Definitions []PromoDefinition `mapstructure:"definitions"`

	// Tutorials declares the walkthroughs tutorial promos hand off to.
	Tutorials []TutorialDefinition `mapstructure:"tutorials"`

	Storage struct {
		// Driver is "memory" or "postgres".
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`

	Postgres struct {
		Host         string `mapstructure:"host"`
		Port         int    `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		DBName       string `mapstructure:"db_name"`
		SSLMode      string `mapstructure:"ssl_mode"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"postgres"`

	Listener struct {
		Channel          string `mapstructure:"channel"`
		ReconnectSeconds int    `mapstructure:"reconnect_seconds"`
	} `mapstructure:"listener"`
}

// PromoDefinition is one promo spec as declared in config.
type PromoDefinition struct {
	Feature        string `mapstructure:"feature"`
	Kind           string `mapstructure:"kind"`
	Subtype        string `mapstructure:"subtype"`
	Anchor         string `mapstructure:"anchor"`
	Body           string `mapstructure:"body"`
	Title          string `mapstructure:"title"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxSnoozeCount int    `mapstructure:"max_snooze_count"`
	SnoozeHours    int    `mapstructure:"snooze_hours"`
	MaxShowCount   int    `mapstructure:"max_show_count"`
	TutorialID     string `mapstructure:"tutorial_id"`
}

// TutorialDefinition is one tutorial as declared in config.
type TutorialDefinition struct {
	ID    string         `mapstructure:"id"`
	Steps []TutorialStep `mapstructure:"steps"`
}

type TutorialStep struct {
	Title  string `mapstructure:"title"`
	Body   string `mapstructure:"body"`
	Anchor string `mapstructure:"anchor"`
}

func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Promos.Context == "" {
		c.Promos.Context = "main"
	}
	if c.Promos.DefaultTimeoutSeconds <= 0 {
		c.Promos.DefaultTimeoutSeconds = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}
	if c.Postgres.MaxOpenConns == 0 {
		c.Postgres.MaxOpenConns = 10
	}
	if c.Postgres.MaxIdleConns == 0 {
		c.Postgres.MaxIdleConns = 10
	}
	if c.Listener.ReconnectSeconds <= 0 {
		c.Listener.ReconnectSeconds = 5
	}
	if c.Listener.Channel == "" {
		c.Listener.Channel = "promo_history_change"
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

func (c Config) DefaultTimeout() time.Duration {
	return time.Duration(c.Promos.DefaultTimeoutSeconds) * time.Second
}

func (c Config) Backoff() time.Duration {
	return time.Duration(c.Listener.ReconnectSeconds) * time.Second
}
