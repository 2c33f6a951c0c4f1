package config

// Config holds process configuration. Values are layered from defaults,
// an optional YAML file and LOADPS_-prefixed environment variables.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `koanf:"addr"`

	// TelemetryHost is the base URL of the encounter telemetry service.
	TelemetryHost string `koanf:"telemetry_host"`

	// LookupHost is the base URL of the skill-name lookup service.
	LookupHost string `koanf:"lookup_host"`

	// CacheDir is where upstream payloads are cached as JSON files.
	CacheDir string `koanf:"cache_dir"`

	// SkillTablePath points at a local CSV of known skill names.
	// Missing file means every skill id is resolved upstream.
	SkillTablePath string `koanf:"skill_table"`

	// ClientTimeoutSec is the overall timeout for outbound HTTP calls.
	ClientTimeoutSec int `koanf:"client_timeout_sec"`
}

func defaults() *Config {
	return &Config{
		Addr:             "127.0.0.1:5555",
		TelemetryHost:    "https://logs.korlark.com",
		LookupHost:       "https://lostark.game.onstove.com",
		CacheDir:         "./cached-json",
		SkillTablePath:   "skilldb/skills.csv",
		ClientTimeoutSec: 60,
	}
}
