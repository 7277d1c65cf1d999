package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.LaborRate != 85.0 {
		t.Fatalf("labor_rate = %v", cfg.LaborRate)
	}
	if cfg.RecentWorkOrders != 5 || cfg.FuelHistory != 10 {
		t.Fatalf("limits = %d/%d", cfg.RecentWorkOrders, cfg.FuelHistory)
	}
	if cfg.NATSURL != "" {
		t.Fatal("nats_url should default to disabled")
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("FLEETGRAPH_PORT", "9090")
	t.Setenv("FLEETGRAPH_LABOR_RATE", "120.5")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port = %d, want env override 9090", cfg.Port)
	}
	if cfg.LaborRate != 120.5 {
		t.Fatalf("labor_rate = %v, want 120.5", cfg.LaborRate)
	}
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	t.Setenv("FLEETGRAPH_PORT", "9090")

	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Int("port", 8080, "")
	if err := f.Parse([]string{"--port=7070"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Fatalf("port = %d, want flag override 7070", cfg.Port)
	}
}
