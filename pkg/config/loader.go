package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/logging"
)

// envPrefix is the prefix for environment variable overrides
const envPrefix = "PACKLIST_"

// rootConfigNames are tried in order at the project root; the first one
// that exists wins.
var rootConfigNames = []string{".packlist.toml", "packlist.toml"}

// Load builds the effective configuration for the project rooted at root.
//
// Precedence, lowest to highest: embedded defaults, the root config file,
// PACKLIST_* environment variables.
func Load(root string) (*Config, error) {
	return LoadWithOverrides(root, nil)
}

// LoadWithOverrides is Load with a final layer of explicit overrides on
// top, keyed by dotted config path ("match.mode"). The CLI feeds flag
// values through here so flags beat both file and environment.
func LoadWithOverrides(root string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}

	// 2. Load root config if it exists
	if root != "" {
		for _, name := range rootConfigNames {
			path := filepath.Join(root, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			logger.Debug().Str("path", path).Msg("loading root configuration")
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to parse %s", path).WithDetail("path", path)
			}
			break
		}
	}

	// 3. Load environment overrides
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Explicit overrides win over everything
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg := &Config{}
	if err := unmarshal(k, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDefaults decodes only the embedded defaults.
func loadDefaults() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default configuration")
	}
	cfg := &Config{}
	if err := unmarshal(k, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps PACKLIST_MATCH_CASE_INSENSITIVE to match.case_insensitive.
// Only the first underscore separates the section from the key, so key names
// may themselves contain underscores.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) < 2 {
		return s
	}
	return parts[0] + "." + parts[1]
}

func unmarshal(k *koanf.Koanf, cfg *Config) error {
	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result: cfg,
			// Environment values arrive as strings; convert them to the
			// field's type
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to decode configuration")
	}
	return nil
}
