// Package config loads daogen's TOML configuration file, following the
// teacher project's own schema-loading convention
// (internal/parser/toml.Parser): one TOML-tagged struct decoded with
// github.com/BurntSushi/toml, plus a conversion step that applies
// defaults and validates glob patterns.
package config

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"

	"daogen/internal/core"
)

// Config is the fully-resolved configuration driving one generator run.
type Config struct {
	SchemaFile       string   `toml:"schema_file"`
	OutputStructsDir string   `toml:"output_structs_dir"`
	OutputDAODir     string   `toml:"output_dao_dir"`
	IncludeTables    []string `toml:"include_tables"`
	ExcludeTables    []string `toml:"exclude_tables"`
	GenerateStructs  bool     `toml:"generate_structs"`
	GenerateDAO      bool     `toml:"generate_dao"`
	StructsModule    string   `toml:"structs_module"`
	DAOModule        string   `toml:"dao_module"`
	Parallelism      int      `toml:"parallelism"`
}

// Defaults returns the built-in baseline every Config starts from before a
// TOML file or CLI flags are applied.
func Defaults() Config {
	return Config{
		OutputStructsDir: "models",
		OutputDAODir:     "dao",
		GenerateStructs:  true,
		GenerateDAO:      true,
		Parallelism:      1,
	}
}

// Load reads a TOML config file at path and merges it over Defaults().
// A missing file is not an error (precedence rules allow CLI-only runs);
// any other open failure is a core.KindIO error, and a file that does not
// decode is a core.KindInvalidSchema error (the configuration/parse exit
// code).
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, core.IOError(fmt.Sprintf("open config file %q", path), err)
	}
	defer f.Close()

	return decodeOver(cfg, f, path)
}

func decodeOver(cfg Config, r io.Reader, path string) (Config, error) {
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, core.InvalidSchema("", fmt.Sprintf("decode config file %q", path), err)
	}
	return cfg, nil
}

// ApplyFlags overlays CLI-sourced overrides onto cfg; an empty override
// leaves the existing field (TOML value, or default) untouched, matching
// the documented "CLI flags > TOML config file > built-in defaults"
// precedence.
func ApplyFlags(cfg Config, schema, output string) Config {
	if schema != "" {
		cfg.SchemaFile = schema
	}
	if output != "" {
		cfg.OutputStructsDir = path.Join(output, "models")
		cfg.OutputDAODir = path.Join(output, "dao")
	}
	return cfg
}

// FilterTables applies IncludeTables (if non-empty) then ExcludeTables, in
// that order, using path.Match glob semantics — the same pattern-matching
// convention the teacher project uses for
// ValidationRules.AllowedNamePattern.
func FilterTables(cfg Config, tableNames []string) ([]string, error) {
	included := tableNames
	if len(cfg.IncludeTables) > 0 {
		included = nil
		for _, name := range tableNames {
			ok, err := matchesAny(cfg.IncludeTables, name)
			if err != nil {
				return nil, err
			}
			if ok {
				included = append(included, name)
			}
		}
	}

	var out []string
	for _, name := range included {
		excluded, err := matchesAny(cfg.ExcludeTables, name)
		if err != nil {
			return nil, err
		}
		if !excluded {
			out = append(out, name)
		}
	}
	return out, nil
}

func matchesAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return false, core.InvalidSchema("", fmt.Sprintf("invalid table filter pattern %q", pattern), err)
		}
		if ok {
			return true, nil
		}
		if strings.EqualFold(pattern, name) {
			return true, nil
		}
	}
	return false, nil
}
