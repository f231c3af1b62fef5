package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

const fileName = "xpr.yaml"

// envPattern matches ${VAR} and ${VAR:-default} references.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// Load reads configuration from path. An empty path searches the
// working directory, then the user config directory; when no file is
// found the defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = find()
		if path == "" {
			return Defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(interpolate(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func find() string {
	if _, err := os.Stat(fileName); err == nil {
		return fileName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "xpr", fileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// interpolate expands ${VAR} and ${VAR:-default} from the environment.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		groups := envPattern.FindSubmatch(m)
		if v, ok := os.LookupEnv(string(groups[1])); ok {
			return []byte(v)
		}
		return groups[2]
	})
}

func (c *Config) validate() error {
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "mysql", "postgres", "postgresql", "pg":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}
