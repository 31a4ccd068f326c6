package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Parsing.SkipRows != 12 || cfg.Parsing.DateLayout != "02/01/2006" {
		t.Errorf("parsing defaults = %+v", cfg.Parsing)
	}
	if Exists() {
		t.Error("Exists() = true with no file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.General.DataPaths = []string{"/data/meter.csv"}
	cfg.Parsing.Comma = ";"
	cfg.Tariff.Rates = []Rate{{EffectiveFrom: "2025-01-01", PricePerKWh: 0.6}}
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dir, "powerlytics", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perms = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.General.DataPaths) != 1 || got.General.DataPaths[0] != "/data/meter.csv" {
		t.Errorf("DataPaths = %v", got.General.DataPaths)
	}
	if got.Parsing.CommaRune() != ';' {
		t.Errorf("CommaRune = %q, want ';'", got.Parsing.CommaRune())
	}
	if len(got.Tariff.Rates) != 1 || got.Tariff.Rates[0].PricePerKWh != 0.6 {
		t.Errorf("Rates = %+v", got.Tariff.Rates)
	}
}

func TestLoad_BadTariff(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "powerlytics", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	data := "[[tariff.rates]]\neffective_from = \"soon\"\nprice_per_kwh = 1.0\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed effective_from")
	}
}

func TestInfluxToken_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Influx.Token = "from-file"
	t.Setenv("INFLUX_TOKEN", "")
	if got := InfluxToken(cfg); got != "from-file" {
		t.Errorf("InfluxToken = %q, want from-file", got)
	}
	t.Setenv("INFLUX_TOKEN", "from-env")
	if got := InfluxToken(cfg); got != "from-env" {
		t.Errorf("InfluxToken = %q, want from-env", got)
	}
}
