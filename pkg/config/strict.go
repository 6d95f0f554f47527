package config

import (
	"bytes"
	stderrors "errors"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/packlist/packlist/pkg/errors"
)

// ValidateStrict decodes data as a root config file and rejects keys that
// packlist does not understand. The regular loader silently ignores unknown
// keys, so `packlist check` uses this to surface typos such as a misspelled
// section name.
func ValidateStrict(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if stderrors.As(err, &strict) {
			return errors.New(errors.ErrConfigParse, "unknown configuration keys").
				WithDetail("keys", strict.String())
		}
		var decodeErr *toml.DecodeError
		if stderrors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return errors.Wrap(err, errors.ErrConfigParse, "invalid configuration").
				WithDetails(map[string]interface{}{"row": row, "col": col})
		}
		return errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}

	// Reuse the loader's value checks, but only for keys the file actually
	// sets. A root config that only overrides [output] should not fail
	// because the file omits [match].
	merged := Default()
	mergeInto(merged, &cfg)
	return merged.Validate()
}

// mergeInto overlays the non-zero values of src onto dst.
func mergeInto(dst, src *Config) {
	if src.Manifest.File != "" {
		dst.Manifest.File = src.Manifest.File
	}
	if src.Match.Mode != "" {
		dst.Match.Mode = src.Match.Mode
	}
	if src.Match.CaseInsensitive {
		dst.Match.CaseInsensitive = true
	}
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Color != "" {
		dst.Output.Color = src.Output.Color
	}
	if src.Archive.Format != "" {
		dst.Archive.Format = src.Archive.Format
	}
	if src.Archive.Prefix != "" {
		dst.Archive.Prefix = src.Archive.Prefix
	}
}
