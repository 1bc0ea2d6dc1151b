package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service
type Config struct {
	Port               string
	StorePath          string
	StaticDir          string
	LogLevel           string
	LogFormat          string
	MaxBodyBytes       int64
	HistoryLimit       int
	MaxHistoryLimit    int
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	TrustedProxies     []string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
}

var defaults = map[string]any{
	"port":                  "5000",
	"store_path":            "memory.json",
	"static_dir":            "public",
	"log_level":             "INFO",
	"log_format":            "text",
	"max_body_bytes":        1 << 20,
	"history_limit":         20,
	"max_history_limit":     500,
	"rate_limit_per_minute": 0,
	"rate_limit_burst":      10,
	"cors_allowed_origins":  "*",
	"trusted_proxies":       "",
	"request_timeout":       "30s",
	"shutdown_timeout":      "10s",
}

// Load reads the optional .env file into the environment and builds a Config
// from environment variables, falling back to defaults
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load the env vars: %w", err)
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("port"),
		StorePath:          v.GetString("store_path"),
		StaticDir:          v.GetString("static_dir"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
		MaxBodyBytes:       v.GetInt64("max_body_bytes"),
		HistoryLimit:       v.GetInt("history_limit"),
		MaxHistoryLimit:    v.GetInt("max_history_limit"),
		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		TrustedProxies:     splitList(v.GetString("trusted_proxies")),
		RequestTimeout:     v.GetDuration("request_timeout"),
		ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the config for values the service cannot run with
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Port) == "" {
		problems = append(problems, "PORT must not be empty")
	}
	if strings.TrimSpace(c.StorePath) == "" {
		problems = append(problems, "STORE_PATH must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		problems = append(problems, "MAX_BODY_BYTES must be positive")
	}
	if c.HistoryLimit <= 0 {
		problems = append(problems, "HISTORY_LIMIT must be positive")
	}
	if c.MaxHistoryLimit < c.HistoryLimit {
		problems = append(problems, "MAX_HISTORY_LIMIT must not be below HISTORY_LIMIT")
	}
	if c.RateLimitPerMinute < 0 {
		problems = append(problems, "RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.RateLimitPerMinute > 0 && c.RateLimitBurst <= 0 {
		problems = append(problems, "RATE_LIMIT_BURST must be positive when rate limiting is on")
	}
	for _, proxy := range c.TrustedProxies {
		if !validProxy(proxy) {
			problems = append(problems, fmt.Sprintf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
		}
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "REQUEST_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "SHUTDOWN_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// validProxy accepts a bare IP address or a CIDR block
func validProxy(proxy string) bool {
	if net.ParseIP(proxy) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(proxy)
	return err == nil
}

// splitList turns "a, b,,c" into [a b c]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
