package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Addr != "127.0.0.1:5555" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.ClientTimeoutSec != 60 {
		t.Errorf("client_timeout_sec = %d", cfg.ClientTimeoutSec)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LOADPS_ADDR", ":9090")
	t.Setenv("LOADPS_LOOKUP_HOST", "http://127.0.0.1:1234")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.LookupHost != "http://127.0.0.1:1234" {
		t.Errorf("lookup_host = %q", cfg.LookupHost)
	}
	if cfg.TelemetryHost != "https://logs.korlark.com" {
		t.Errorf("telemetry_host = %q", cfg.TelemetryHost)
	}
}
