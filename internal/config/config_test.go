package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eugenenazirov/box-packer/internal/packing"
	"github.com/eugenenazirov/box-packer/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "CONTAINER_DIMENSIONS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BATCH_SIZE", "HISTORY_CAPACITY", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.DefaultContainer != storage.DefaultContainer() {
		t.Fatalf("expected default container, got %s", cfg.DefaultContainer)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.MaxBatchSize != defaultMaxBatchSize || cfg.LogLevel != defaultLogLevel {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("CONTAINER_DIMENSIONS", "10, 20 , 30")
	t.Setenv("MAX_BATCH_SIZE", "5")
	t.Setenv("HISTORY_CAPACITY", "32")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if want := packing.MustPrism(10, 20, 30); cfg.DefaultContainer != want {
		t.Fatalf("expected container %s, got %s", want, cfg.DefaultContainer)
	}
	if cfg.MaxBatchSize != 5 {
		t.Fatalf("expected max batch size 5, got %d", cfg.MaxBatchSize)
	}
	if cfg.HistoryCapacity != 32 {
		t.Fatalf("expected history capacity 32, got %d", cfg.HistoryCapacity)
	}
}

func TestLoadRejectsInvalidEnvContainer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		is   error
	}{
		{name: "Malformed", raw: "10,20"},
		{name: "NonPositive", raw: "10,0,30", is: packing.ErrInvalidDimension},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CONTAINER_DIMENSIONS", tc.raw)

			_, err := Load(nil)
			if err == nil {
				t.Fatalf("expected error for CONTAINER_DIMENSIONS=%q", tc.raw)
			}
			if !strings.Contains(err.Error(), "CONTAINER_DIMENSIONS") {
				t.Fatalf("expected error to name the variable, got %v", err)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestLoadYAMLAndCLIPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `port: "8500"
container:
  height: 40
  width: 50
  depth: 60
write_timeout: 3s
enable_request_logging: false
rate_limit:
  rps: 0
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8500" {
		t.Fatalf("expected YAML port to beat env, got %s", cfg.Port)
	}
	if want := packing.MustPrism(40, 50, 60); cfg.DefaultContainer != want {
		t.Fatalf("expected container %s, got %s", want, cfg.DefaultContainer)
	}
	if cfg.WriteTimeout != 3*time.Second || cfg.EnableRequestLogging {
		t.Fatalf("unexpected YAML settings: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != defaultRateLimitBurst {
		t.Fatalf("unexpected rate limit: rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}

	port := "9100"
	container := "1x2x3"
	cfg, err = Load(&CLIOverrides{ConfigFile: path, Port: &port, ContainerStr: &container})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("expected CLI port, got %s", cfg.Port)
	}
	if want := packing.MustPrism(1, 2, 3); cfg.DefaultContainer != want {
		t.Fatalf("expected CLI container %s, got %s", want, cfg.DefaultContainer)
	}
}

func TestLoadRejectsInvalidYAMLContainer(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("container:\n  height: 0\n  width: 1\n  depth: 1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(&CLIOverrides{ConfigFile: path})
	if !errors.Is(err, packing.ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}
}

func TestLoadRejectsInvalidCLIContainer(t *testing.T) {
	clearEnv(t)

	bad := "1,2"
	if _, err := Load(&CLIOverrides{ContainerStr: &bad}); err == nil {
		t.Fatalf("expected error for malformed container")
	}
}

func TestParsePrism(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, raw := range []string{"1,2,3", " 1 , 2 , 3 ", "1x2x3", "1X2X3"} {
			got, err := ParsePrism(raw)
			if err != nil {
				t.Fatalf("unexpected error for %q: %v", raw, err)
			}
			if got != packing.MustPrism(1, 2, 3) {
				t.Fatalf("unexpected prism for %q: %s", raw, got)
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParsePrism(" , "); err == nil {
			t.Fatalf("expected error for empty string")
		}
		if _, err := ParsePrism("1,a,3"); err == nil {
			t.Fatalf("expected error for invalid number")
		}
		if _, err := ParsePrism("0,1,1"); !errors.Is(err, packing.ErrInvalidDimension) {
			t.Fatalf("expected ErrInvalidDimension, got %v", err)
		}
	})
}
