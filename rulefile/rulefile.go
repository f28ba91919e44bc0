// Package rulefile loads masking settings and custom rules from YAML.
//
// Parse reads a document held in memory. Load reads a file through viper,
// so every top-level setting can be overridden from the environment with
// the SCRUB_ prefix (SCRUB_ENABLED, SCRUB_MAX_BODY_LENGTH,
// SCRUB_INCLUDE_DEFAULTS).
//
//	enabled: true
//	max_body_length: 1000
//	include_defaults: true
//	rules:
//	  - name: card
//	    fields: [card, card_no]
//	    type: partial
//	    keep_prefix: 4
//	    keep_suffix: 4
//	    min_length: 8
package rulefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/scrub"
)

// EnvPrefix is the environment variable prefix used by Load.
const EnvPrefix = "SCRUB"

// File is the on-disk form of a scrub configuration.
type File struct {
	Enabled         bool       `yaml:"enabled" mapstructure:"enabled"`
	MaxBodyLength   int        `yaml:"max_body_length" mapstructure:"max_body_length"`
	IncludeDefaults bool       `yaml:"include_defaults" mapstructure:"include_defaults"`
	Rules           []RuleSpec `yaml:"rules" mapstructure:"rules"`
}

// RuleSpec describes one custom rule.
type RuleSpec struct {
	Name       string   `yaml:"name" mapstructure:"name"`
	Fields     []string `yaml:"fields" mapstructure:"fields"`
	Type       string   `yaml:"type" mapstructure:"type"`
	Kind       string   `yaml:"kind" mapstructure:"kind"`
	KeepPrefix int      `yaml:"keep_prefix" mapstructure:"keep_prefix"`
	KeepSuffix int      `yaml:"keep_suffix" mapstructure:"keep_suffix"`
	MaskChar   string   `yaml:"mask_char" mapstructure:"mask_char"`
	MinLength  int      `yaml:"min_length" mapstructure:"min_length"`
	DigestKey  string   `yaml:"digest_key" mapstructure:"digest_key"`
}

// DefaultFile returns the settings used for keys a document leaves out.
func DefaultFile() File {
	return File{
		Enabled:         true,
		MaxBodyLength:   scrub.DefaultMaxBodyLength,
		IncludeDefaults: true,
	}
}

// Parse decodes a YAML document and builds a Config from it.
func Parse(data []byte) (scrub.Config, error) {
	f, err := ParseFile(data)
	if err != nil {
		return scrub.Config{}, err
	}
	return f.Config()
}

// ParseFile decodes a YAML document over DefaultFile. Unknown keys are
// rejected. An empty document yields the defaults.
func ParseFile(data []byte) (File, error) {
	f := DefaultFile()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("failed to parse rule file: %w", err)
	}
	return f, nil
}

// Load reads a rule file with environment overrides and builds a Config.
func Load(path string) (scrub.Config, error) {
	f, err := LoadFile(path)
	if err != nil {
		return scrub.Config{}, err
	}
	return f.Config()
}

// LoadFile reads a rule file through viper. Environment variables take
// precedence over the file, and the file over DefaultFile. An empty path
// reads the environment only.
func LoadFile(path string) (File, error) {
	v := viper.New()

	def := DefaultFile()
	v.SetDefault("enabled", def.Enabled)
	v.SetDefault("max_body_length", def.MaxBodyLength)
	v.SetDefault("include_defaults", def.IncludeDefaults)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return File{}, fmt.Errorf("rule file not found: %s", path)
			}
			return File{}, fmt.Errorf("failed to read rule file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, fmt.Errorf("failed to unmarshal rule file: %w", err)
	}
	return f, nil
}

// Registry builds the rules in f, after the built-in rules when
// IncludeDefaults is set. Custom rules win alias collisions.
func (f File) Registry() (*scrub.Registry, error) {
	b := scrub.NewRegistryBuilder()
	if f.IncludeDefaults {
		b.AddDefaults()
	}
	for i, spec := range f.Rules {
		rule, err := spec.Build()
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		b.Add(rule)
	}
	return b.Build(), nil
}

// Config builds a scrub.Config from f.
func (f File) Config() (scrub.Config, error) {
	reg, err := f.Registry()
	if err != nil {
		return scrub.Config{}, err
	}
	return scrub.NewConfig(
		scrub.WithEnabled(f.Enabled),
		scrub.WithMaxBodyLength(f.MaxBodyLength),
		scrub.WithRegistry(reg),
	), nil
}

// Build converts the spec into a rule. Unknown types and kinds, and mask
// characters that are not exactly one character, fail with
// scrub.ErrInvalidRule.
func (s RuleSpec) Build() (*scrub.Rule, error) {
	mt, ok := scrub.ParseMaskType(s.Type)
	if !ok {
		return nil, &scrub.RuleError{Err: scrub.ErrInvalidRule, Rule: s.Name, Detail: fmt.Sprintf("mask type %q", s.Type)}
	}
	vk, ok := scrub.ParseValueKind(s.Kind)
	if !ok {
		return nil, &scrub.RuleError{Err: scrub.ErrInvalidRule, Rule: s.Name, Detail: fmt.Sprintf("value kind %q", s.Kind)}
	}

	b := scrub.NewRule(s.Name).
		Fields(s.Fields...).
		Type(mt).
		Kind(vk).
		KeepPrefix(s.KeepPrefix).
		KeepSuffix(s.KeepSuffix).
		MinLength(s.MinLength)

	if s.MaskChar != "" {
		if utf8.RuneCountInString(s.MaskChar) != 1 {
			return nil, &scrub.RuleError{Err: scrub.ErrInvalidRule, Rule: s.Name, Detail: fmt.Sprintf("mask_char %q", s.MaskChar)}
		}
		r, _ := utf8.DecodeRuneInString(s.MaskChar)
		b.MaskChar(r)
	}
	if s.DigestKey != "" {
		b.DigestKey([]byte(s.DigestKey))
	}

	return b.Build()
}
