package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Load builds a Config. Precedence, low to high:
//  1. defaults
//  2. YAML file named by LOADPS_CONFIG, if set
//  3. environment variables (LOADPS_ADDR, LOADPS_LOOKUP_HOST, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("LOADPS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	envProvider := env.Provider("LOADPS_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "loadps_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.TelemetryHost == "" || cfg.LookupHost == "" {
		return nil, errors.New("telemetry_host and lookup_host must not be empty")
	}

	return cfg, nil
}
