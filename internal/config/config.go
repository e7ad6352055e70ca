package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-pagesplice/internal/fileutil"
	"github.com/alnah/go-pagesplice/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field length limits.
const (
	MaxNameLength        = 100   // family, role, rule, marker names
	MaxPathLength        = 4096  // PATH_MAX on Linux
	MaxEncodingLength    = 40    // longest WHATWG label is ~25
	MaxLiteralLength     = 1024  // marker literals, substitution literals
	MaxPatternLength     = 4096  // regular expressions
	MaxPlaceholderLength = 65536 // placeholder templates and replacements
)

// Match modes accepted in rules.
const (
	ModeText       = "text"
	ModeStructural = "structural"
)

// Config is the document root and the families processed under it.
type Config struct {
	Root     string         `yaml:"root"`     // base directory for family dirs (default: ".")
	Encoding string         `yaml:"encoding"` // default document encoding (default: "utf-8")
	Families []FamilyConfig `yaml:"families"`
}

// FamilyConfig describes one document family.
type FamilyConfig struct {
	Name          string               `yaml:"name"`
	Dir           string               `yaml:"dir"`       // relative to root (empty = root)
	Encoding      string               `yaml:"encoding"`  // overrides Config.Encoding
	Canonical     []string             `yaml:"canonical"` // document-level signatures
	Documents     []DocumentConfig     `yaml:"documents"`
	Output        OutputConfig         `yaml:"output"`
	Rules         []RuleSetConfig      `yaml:"rules"`
	Reorder       *ReorderConfig       `yaml:"reorder"`
	Substitutions []SubstitutionConfig `yaml:"substitutions"`
}

// DocumentConfig is a document entry. In YAML it is either a bare path or
// a mapping with path and active.
type DocumentConfig struct {
	Path   string `yaml:"path"`
	Active string `yaml:"active"` // navigation key for placeholders
}

// UnmarshalYAML accepts "page.html" as shorthand for {path: page.html}.
func (d *DocumentConfig) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if s, ok := raw.(string); ok {
		*d = DocumentConfig{Path: s}
		return nil
	}

	type plain DocumentConfig
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*d = DocumentConfig(p)
	return nil
}

// OutputConfig selects in-place or sibling output.
type OutputConfig struct {
	Suffix string `yaml:"suffix"` // e.g. ".template.html"; empty = write in place
}

// RuleSetConfig groups the rules for one structural role.
type RuleSetConfig struct {
	Role      string       `yaml:"role"`
	Canonical []string     `yaml:"canonical"`
	Required  bool         `yaml:"required"`
	Rules     []RuleConfig `yaml:"rules"`
}

// RuleConfig identifies an element and its placeholder.
type RuleConfig struct {
	Name        string   `yaml:"name"`
	Tags        []string `yaml:"tags"`
	Attrs       []string `yaml:"attrs"`
	Tokens      []string `yaml:"tokens"`
	Pattern     string   `yaml:"pattern"`
	Mode        string   `yaml:"mode"` // "text" (default) or "structural"
	Placeholder string   `yaml:"placeholder"`
	Companion   string   `yaml:"companion"`
	Priority    int      `yaml:"priority"`
}

// ReorderConfig declares the marker catalog and the target order.
type ReorderConfig struct {
	Name    string         `yaml:"name"`
	Markers []MarkerConfig `yaml:"markers"`
	Order   []string       `yaml:"order"`
}

// MarkerConfig is one catalog entry.
type MarkerConfig struct {
	Name     string `yaml:"name"`
	Literal  string `yaml:"literal"`
	Required bool   `yaml:"required"`
}

// SubstitutionConfig is a replace-all edit.
type SubstitutionConfig struct {
	Name     string `yaml:"name"`
	Literal  string `yaml:"literal"`
	Pattern  string `yaml:"pattern"`
	Replace  string `yaml:"replace"`
	Unless   string `yaml:"unless"`
	Required bool   `yaml:"required"`
}

// Validate checks names, references between fields and field lengths.
// Rule semantics (patterns, templates, canonical signatures) are checked
// when a family is compiled into an engine.
// Called automatically by LoadConfig.
func (c *Config) Validate() error {
	if err := validateFieldLength("root", c.Root, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("encoding", c.Encoding, MaxEncodingLength); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Families))
	for i := range c.Families {
		f := &c.Families[i]
		field := fmt.Sprintf("families[%d]", i)
		if f.Name == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidConfig, field)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s.name: duplicate family %q", ErrInvalidConfig, field, f.Name)
		}
		seen[f.Name] = true
		if err := f.validate(field); err != nil {
			return err
		}
	}
	return nil
}

func (f *FamilyConfig) validate(field string) error {
	if err := validateFieldLength(field+".name", f.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".dir", f.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".encoding", f.Encoding, MaxEncodingLength); err != nil {
		return err
	}
	for i, sig := range f.Canonical {
		if err := validateFieldLength(fmt.Sprintf("%s.canonical[%d]", field, i), sig, MaxPlaceholderLength); err != nil {
			return err
		}
	}

	for i, d := range f.Documents {
		df := fmt.Sprintf("%s.documents[%d]", field, i)
		if d.Path == "" {
			return fmt.Errorf("%w: %s.path: required", ErrInvalidConfig, df)
		}
		if err := validateFieldLength(df+".path", d.Path, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(df+".active", d.Active, MaxNameLength); err != nil {
			return err
		}
	}

	if f.Output.Suffix != "" {
		if err := fileutil.ValidateSuffix(f.Output.Suffix); err != nil {
			return fmt.Errorf("%w: %s.output.suffix: %v", ErrInvalidConfig, field, err)
		}
	}

	for i := range f.Rules {
		if err := f.Rules[i].validate(fmt.Sprintf("%s.rules[%d]", field, i)); err != nil {
			return err
		}
	}
	if f.Reorder != nil {
		if err := f.Reorder.validate(field + ".reorder"); err != nil {
			return err
		}
	}
	for i, s := range f.Substitutions {
		sf := fmt.Sprintf("%s.substitutions[%d]", field, i)
		if s.Name == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidConfig, sf)
		}
		if err := validateFieldLength(sf+".literal", s.Literal, MaxLiteralLength); err != nil {
			return err
		}
		if err := validateFieldLength(sf+".pattern", s.Pattern, MaxPatternLength); err != nil {
			return err
		}
		if err := validateFieldLength(sf+".replace", s.Replace, MaxPlaceholderLength); err != nil {
			return err
		}
	}
	return nil
}

func (rs *RuleSetConfig) validate(field string) error {
	if rs.Role == "" {
		return fmt.Errorf("%w: %s.role: required", ErrInvalidConfig, field)
	}
	if err := validateFieldLength(field+".role", rs.Role, MaxNameLength); err != nil {
		return err
	}
	if len(rs.Rules) == 0 {
		return fmt.Errorf("%w: %s.rules: at least one rule is required", ErrInvalidConfig, field)
	}
	for i, r := range rs.Rules {
		rf := fmt.Sprintf("%s.rules[%d]", field, i)
		if r.Name == "" {
			return fmt.Errorf("%w: %s.name: required", ErrInvalidConfig, rf)
		}
		switch strings.ToLower(r.Mode) {
		case "", ModeText, ModeStructural:
			// valid
		default:
			return fmt.Errorf("%w: %s.mode: invalid value %q (must be text or structural)", ErrInvalidConfig, rf, r.Mode)
		}
		if err := validateFieldLength(rf+".pattern", r.Pattern, MaxPatternLength); err != nil {
			return err
		}
		if err := validateFieldLength(rf+".placeholder", r.Placeholder, MaxPlaceholderLength); err != nil {
			return err
		}
	}
	return nil
}

func (r *ReorderConfig) validate(field string) error {
	if len(r.Markers) == 0 {
		return fmt.Errorf("%w: %s.markers: at least one marker is required", ErrInvalidConfig, field)
	}
	known := make(map[string]bool, len(r.Markers))
	for i, m := range r.Markers {
		mf := fmt.Sprintf("%s.markers[%d]", field, i)
		if m.Name == "" || m.Literal == "" {
			return fmt.Errorf("%w: %s: name and literal are required", ErrInvalidConfig, mf)
		}
		if err := validateFieldLength(mf+".literal", m.Literal, MaxLiteralLength); err != nil {
			return err
		}
		known[m.Name] = true
	}
	for i, name := range r.Order {
		if !known[name] {
			return fmt.Errorf("%w: %s.order[%d]: unknown marker %q", ErrInvalidConfig, field, i, name)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with no families.
func DefaultConfig() *Config {
	return &Config{
		Root:     ".",
		Encoding: "utf-8",
	}
}

// FamilyNames returns the declared family names in order.
func (c *Config) FamilyNames() []string {
	names := make([]string, len(c.Families))
	for i, f := range c.Families {
		names[i] = f.Name
	}
	return names
}

// Family returns the family called name.
func (c *Config) Family(name string) (*FamilyConfig, bool) {
	for i := range c.Families {
		if c.Families[i].Name == name {
			return &c.Families[i], true
		}
	}
	return nil, false
}

// FamilyDir resolves the family directory against the root.
func (c *Config) FamilyDir(f *FamilyConfig) string {
	if filepath.IsAbs(f.Dir) {
		return f.Dir
	}
	return filepath.Join(c.Root, f.Dir)
}

// FamilyEncoding returns the family's encoding or the config default.
func (c *Config) FamilyEncoding(f *FamilyConfig) string {
	if f.Encoding != "" {
		return f.Encoding
	}
	return c.Encoding
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	configPath, err := ResolvePath(nameOrPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.Describe(err))
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "utf-8"
	}
	if !filepath.IsAbs(cfg.Root) {
		// Relative roots are relative to the config file, not the cwd.
		cfg.Root = filepath.Join(filepath.Dir(configPath), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolvePath returns the file LoadConfig would read for nameOrPath.
func ResolvePath(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", ErrEmptyConfigName
	}
	if fileutil.IsFilePath(nameOrPath) {
		return nameOrPath, nil
	}
	return resolveConfigPath(nameOrPath)
}

// SearchPaths lists the locations tried for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-pagesplice", name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries locations in order: current directory, ~/.config/go-pagesplice/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
