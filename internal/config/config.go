// Package config loads irbuild.toml, the per-project builder settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"irbuild/internal/backend/llvm"
)

// FileName is the manifest irbuild looks for.
const FileName = "irbuild.toml"

// Config is the decoded manifest plus where it came from.
type Config struct {
	// Path is the manifest path, empty when defaults are in use.
	Path    string        `toml:"-"`
	Builder BuilderConfig `toml:"builder"`
	Target  TargetConfig  `toml:"target"`
}

type BuilderConfig struct {
	Comments bool   `toml:"comments"`
	IntBits  int    `toml:"int_bits"`
	CallConv string `toml:"call_conv"`
}

type TargetConfig struct {
	Triple string `toml:"triple"`
}

// Default returns the settings used when no manifest exists.
func Default() Config {
	return Config{
		Builder: BuilderConfig{
			Comments: false,
			IntBits:  64,
			CallConv: "c",
		},
		Target: TargetConfig{Triple: "x86_64-unknown-linux-gnu"},
	}
}

// CallConv returns the parsed [builder].call_conv.
func (c Config) CallConv() llvm.CallConv {
	cc, _ := llvm.ParseCallConv(c.Builder.CallConv)
	return cc
}

// Find walks up from startDir looking for irbuild.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Discover loads the nearest manifest above startDir, or Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid key.
func (c Config) Validate() error {
	switch c.Builder.IntBits {
	case 8, 16, 32, 64, 128:
	default:
		return fmt.Errorf("[builder].int_bits must be 8, 16, 32, 64 or 128, got %d", c.Builder.IntBits)
	}
	if _, ok := llvm.ParseCallConv(c.Builder.CallConv); !ok {
		return fmt.Errorf("[builder].call_conv must be c, fast, cold or default, got %q", c.Builder.CallConv)
	}
	if strings.TrimSpace(c.Target.Triple) == "" {
		return fmt.Errorf("[target].triple must not be empty")
	}
	return nil
}
