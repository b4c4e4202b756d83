// Package config loads codec settings from a TOML file.
//
//	[decoder]
//	max_depth = 10
//	max_tokens = 500
//
//	[encoder]
//	base_offset = 0
//
// Omitted keys keep their defaults.
package config

import (
	"io"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// Config holds the codec settings.
type Config struct {
	Decoder DecoderSection `toml:"decoder"`
	Encoder EncoderSection `toml:"encoder"`
}

// DecoderSection configures decoder guards.
type DecoderSection struct {
	MaxDepth  int `toml:"max_depth"`
	MaxTokens int `toml:"max_tokens"`
}

// EncoderSection configures resolution of encoded arguments.
type EncoderSection struct {
	// BaseOffset is the address the encoded arguments are resolved at.
	BaseOffset uint64 `toml:"base_offset"`
}

// Default returns the built-in settings.
func Default() Config {
	d := transcoder.DefaultDecoderConfig()
	return Config{
		Decoder: DecoderSection{MaxDepth: d.MaxDepth, MaxTokens: d.MaxTokens},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "open "+path)
	}
	defer f.Close()
	return Read(f)
}

// file mirrors Config with optional keys.
type file struct {
	Decoder struct {
		MaxDepth  *int `toml:"max_depth"`
		MaxTokens *int `toml:"max_tokens"`
	} `toml:"decoder"`
	Encoder struct {
		BaseOffset *uint64 `toml:"base_offset"`
	} `toml:"encoder"`
}

// Read decodes TOML from r over the defaults.
func Read(r io.Reader) (Config, error) {
	var raw file
	if err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "decode toml")
	}

	cfg := Default()
	if raw.Decoder.MaxDepth != nil {
		cfg.Decoder.MaxDepth = *raw.Decoder.MaxDepth
	}
	if raw.Decoder.MaxTokens != nil {
		cfg.Decoder.MaxTokens = *raw.Decoder.MaxTokens
	}
	if raw.Encoder.BaseOffset != nil {
		cfg.Encoder.BaseOffset = *raw.Encoder.BaseOffset
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	if c.Decoder.MaxDepth < 0 {
		return invalid("decoder.max_depth", c.Decoder.MaxDepth)
	}
	if c.Decoder.MaxTokens < 0 {
		return invalid("decoder.max_tokens", c.Decoder.MaxTokens)
	}
	return nil
}

// DecoderConfig returns the decoder limits. Zero limits fall back to the
// transcoder defaults.
func (c Config) DecoderConfig() transcoder.DecoderConfig {
	return transcoder.DecoderConfig{
		MaxDepth:  c.Decoder.MaxDepth,
		MaxTokens: c.Decoder.MaxTokens,
	}
}

func invalid(key string, v int) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidData).
		Path(key).
		Value(v).
		Detail("must not be negative, got %d", v).
		Build()
}
