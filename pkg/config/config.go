// Package config loads layered configuration for the fleetgraph
// services. Priority: flags > environment > config file > defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all configuration for the API server.
type Config struct {
	Port             int     `koanf:"port"`
	DataDir          string  `koanf:"data_dir"`
	Watch            bool    `koanf:"watch"`
	NATSURL          string  `koanf:"nats_url"`
	CORSOrigin       string  `koanf:"cors_origin"`
	LaborRate        float64 `koanf:"labor_rate"`
	RecentWorkOrders int     `koanf:"recent_work_orders"`
	FuelHistory      int     `koanf:"fuel_history"`
	RateLimitRPS     float64 `koanf:"rate_limit_rps"`
}

const (
	configFile = "fleetgraph.toml"
	envPrefix  = "FLEETGRAPH_"
)

// Load reads configuration from defaults, the optional fleetgraph.toml,
// FLEETGRAPH_* environment variables, and finally the given flag set.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"port":               8080,
		"data_dir":           "./data",
		"watch":              false,
		"nats_url":           "", // empty disables the NATS feed
		"cors_origin":        "*",
		"labor_rate":         85.0,
		"recent_work_orders": 5,
		"fuel_history":       10,
		"rate_limit_rps":     50.0,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Config file is optional; missing is fine.
	_ = k.Load(file.Provider(configFile), toml.Parser())

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// mapProvider serves an in-memory map as a koanf provider.
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
