// Package config loads the tool configuration from YAML, with
// environment variable interpolation and a small search path.
package config

// Config is the complete tool configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Watch    WatchConfig    `yaml:"watch"`
	REPL     REPLConfig     `yaml:"repl"`
}

// REPLConfig holds interactive shell settings.
type REPLConfig struct {
	History string `yaml:"history"` // history file path; empty uses ~/.xpr_history
}

// DatabaseConfig holds the default connection for db.* native calls.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql or postgres
	DSN    string `yaml:"dsn"`    // driver-specific data source name
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	Format   string `yaml:"format"`   // text, json or yaml
	Locale   string `yaml:"locale"`   // BCP 47 tag for text output; empty for canonical
	Compress string `yaml:"compress"` // codec for --output files: none, gzip, snappy, s2, zstd
}

// LoggingConfig holds diagnostics settings.
type LoggingConfig struct {
	Trace  bool   `yaml:"trace"`  // print each step as it evaluates
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// WatchConfig holds file watching settings for --watch mode.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms"` // delay before re-running after a change
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		Output: OutputConfig{
			Format:   "text",
			Compress: "none",
		},
		Logging: LoggingConfig{
			Output: "stdout",
		},
		Watch: WatchConfig{
			DebounceMillis: 100,
		},
	}
}
