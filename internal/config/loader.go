package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix is the environment variable prefix this broker reads
// configuration overrides from.
const envPrefix = "SVB_"

// Loader is a lightweight wrapper around koanf for loading
// configuration from a file, environment variables, and CLI flags.
type Loader struct {
	k          *koanf.Koanf
	configPath string
}

// NewLoader creates a loader that reads configPath and overlays
// SVB_-prefixed environment variable overrides.
func NewLoader(configPath string) (*Loader, error) {
	return newLoader(configPath, nil)
}

// NewLoaderWithFlags creates a loader with command-line flag support.
//
// Configuration precedence (highest to lowest):
//  1. Command-line flags
//  2. Environment variables (SVB_*)
//  3. Configuration file
func NewLoaderWithFlags(configPath string, flags *pflag.FlagSet) (*Loader, error) {
	return newLoader(configPath, flags)
}

func newLoader(configPath string, flags *pflag.FlagSet) (*Loader, error) {
	k := koanf.New(".")

	parser, err := getParserForFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := k.Load(file.Provider(configPath), parser); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// SVB_VAULT__AUTH_MOUNT -> vault.auth_mount; single underscore is
	// part of the field name, double underscore nests.
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagToConfigKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load command-line flags: %w", err)
		}
	}

	return &Loader{k: k, configPath: configPath}, nil
}

// Get unmarshals the configuration into a Config struct, filling in
// DefaultConfig for any value the file, environment, and flags left
// unset.
func (l *Loader) Get() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// getParserForFile returns the koanf parser for configPath's extension.
func getParserForFile(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json, .toml)", filepath.Ext(path))
	}
}

// envTransform maps SVB_VAULT__AUTH_MOUNT to vault.auth_mount.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// flagToConfigKey maps a reflection-generated flag name (e.g.
// "vault-auth-mount") back to its dotted config key
// ("vault.auth_mount") using the same mapping RegisterFlags built.
func flagToConfigKey(flagName string) string {
	mapping := GetFlagMapping()
	if key, ok := mapping[flagName]; ok {
		return key
	}
	return strings.ReplaceAll(flagName, "-", "_")
}
