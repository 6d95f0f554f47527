package config

import (
	"github.com/packlist/packlist/pkg/errors"
	"github.com/packlist/packlist/pkg/glob"
)

// Manifest holds manifest file settings
type Manifest struct {
	// File is the manifest filename, relative to the project root
	File string `koanf:"file" toml:"file"`
}

// Match holds pattern matching settings
type Match struct {
	// Mode controls how slashless global patterns match: "basename-only"
	// compares against the final path component, "path-component" matches
	// if any component of the path matches
	Mode string `koanf:"mode" toml:"mode"`
	// CaseInsensitive folds ASCII case when matching patterns
	CaseInsensitive bool `koanf:"case_insensitive" toml:"case_insensitive"`
}

// Output holds output formatting settings
type Output struct {
	// Format is the default output format: text, json or yaml
	Format string `koanf:"format" toml:"format"`
	// Color controls colorized text output: auto, always or never
	Color string `koanf:"color" toml:"color"`
}

// Archive holds archive creation settings
type Archive struct {
	// Format is the archive format: tar.gz or zip
	Format string `koanf:"format" toml:"format"`
	// Prefix is the directory prefix inside the archive. Empty means the
	// project directory's basename
	Prefix string `koanf:"prefix" toml:"prefix"`
}

// Config is the main configuration structure
type Config struct {
	Manifest Manifest `koanf:"manifest" toml:"manifest"`
	Match    Match    `koanf:"match" toml:"match"`
	Output   Output   `koanf:"output" toml:"output"`
	Archive  Archive  `koanf:"archive" toml:"archive"`
}

// Default returns the built-in configuration, without root config or
// environment overrides applied.
func Default() *Config {
	cfg, err := loadDefaults()
	if err != nil {
		// Fallback to a minimal config if the embedded defaults are
		// unreadable
		return &Config{
			Manifest: Manifest{File: "MANIFEST.in"},
			Match:    Match{Mode: string(glob.DefaultMode)},
			Output:   Output{Format: "text", Color: "auto"},
			Archive:  Archive{Format: "tar.gz"},
		}
	}
	return cfg
}

// MatchOptions returns the glob options implied by the [match] section.
func (c *Config) MatchOptions() (glob.Options, error) {
	mode, err := glob.ParseMode(c.Match.Mode)
	if err != nil {
		return glob.Options{}, errors.Wrapf(err, errors.ErrConfigParse,
			"invalid match.mode %q", c.Match.Mode)
	}
	return glob.Options{Mode: mode, CaseInsensitive: c.Match.CaseInsensitive}, nil
}

// Validate checks that every configured value is one packlist understands.
func (c *Config) Validate() error {
	if c.Manifest.File == "" {
		return errors.New(errors.ErrConfigParse, "manifest.file must not be empty")
	}
	if _, err := glob.ParseMode(c.Match.Mode); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse,
			"invalid match.mode %q", c.Match.Mode)
	}
	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return errors.Newf(errors.ErrConfigParse,
			"invalid output.format %q (expected text, json or yaml)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.Newf(errors.ErrConfigParse,
			"invalid output.color %q (expected auto, always or never)", c.Output.Color)
	}
	switch c.Archive.Format {
	case "tar.gz", "zip":
	default:
		return errors.Newf(errors.ErrConfigParse,
			"invalid archive.format %q (expected tar.gz or zip)", c.Archive.Format)
	}
	return nil
}
