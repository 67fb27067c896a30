package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envRef matches ${VAR} or ${VAR:-default}
var envRef = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Loader handles configuration loading from YAML files
type Loader struct {
	// EnvFiles are loaded into the process environment before the YAML is
	// expanded. Missing files are ignored.
	EnvFiles []string
}

// NewLoader creates a new configuration loader that reads ./.env
func NewLoader() *Loader {
	return &Loader{EnvFiles: []string{".env"}}
}

// Load loads configuration from a YAML file with environment variable substitution.
// An empty configPath searches the default locations; when none exists the
// defaults are returned.
func (l *Loader) Load(configPath string) (*Config, error) {
	for _, f := range l.EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", f, err)
		}
	}

	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}

	defaults := []string{
		"reposcope.yaml",
		filepath.Join(os.Getenv("HOME"), ".reposcope", "config.yaml"),
	}

	for _, path := range defaults {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ExpandEnv replaces ${VAR} with the value of VAR (empty if unset) and
// ${VAR:-default} with VAR or default when VAR is unset.
func ExpandEnv(input string) string {
	return envRef.ReplaceAllStringFunc(input, func(match string) string {
		sub := envRef.FindStringSubmatch(match)
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return sub[2]
	})
}
