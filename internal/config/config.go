package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"

	"dream/internal/codegen"
)

// Color modes for diagnostics output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the compiler configuration, loaded from an optional TOML file
// and overridden by command line flags
type Config struct {
	Compiler CompilerConfig
	Output   OutputConfig
	LSP      LSPConfig
}

type CompilerConfig struct {
	ModuleID     string
	TargetTriple string `toml:",omitempty"`
	EmitWarnings bool
}

type OutputConfig struct {
	Color string
}

type LSPConfig struct {
	// CacheSize bounds the number of analyzed documents kept in memory
	CacheSize int
}

// Defaults contains the settings used when no file is given
var Defaults = Config{
	Compiler: CompilerConfig{
		ModuleID:     codegen.DefaultModuleID,
		EmitWarnings: true,
	},
	Output: OutputConfig{
		Color: ColorAuto,
	},
	LSP: LSPConfig{
		CacheSize: 64,
	},
}

// These settings keep TOML keys identical to the Go field names and
// reject unknown keys.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load reads file over a copy of the defaults
func Load(file string) (*Config, error) {
	cfg := Defaults

	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := decode(bufio.NewReader(f), &cfg); err != nil {
		// Add file name to errors that have a line number.
		if _, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("%s, %w", file, err)
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return &cfg, nil
}

// Parse decodes a TOML document over a copy of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := Defaults
	if err := decode(bytes.NewReader(data), &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	return tomlSettings.NewDecoder(r).Decode(cfg)
}

// Validate checks values that TOML decoding cannot
func (c *Config) Validate() error {
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid Output.Color %q, expected auto, always or never", c.Output.Color)
	}
	if c.LSP.CacheSize <= 0 {
		return fmt.Errorf("LSP.CacheSize must be positive, got %d", c.LSP.CacheSize)
	}
	if c.Compiler.ModuleID == "" {
		return fmt.Errorf("Compiler.ModuleID must not be empty")
	}
	return nil
}

// CodegenOptions returns the code generator settings for one source file
func (c *Config) CodegenOptions(sourceFilename string) codegen.Options {
	return codegen.Options{
		ModuleID:       c.Compiler.ModuleID,
		SourceFilename: sourceFilename,
		TargetTriple:   c.Compiler.TargetTriple,
	}
}

// Dump renders the configuration as TOML
func (c *Config) Dump() ([]byte, error) {
	return tomlSettings.Marshal(c)
}
