package rulefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/scrub"
)

const sampleYAML = `
enabled: true
max_body_length: 2048
include_defaults: true
rules:
  - name: card
    fields: [card, Card_No]
    type: partial
    kind: generic
    keep_prefix: 4
    keep_suffix: 4
    mask_char: "#"
    min_length: 8
  - name: session
    fields: [session_id]
    type: digest
    digest_key: k1
  - name: phone-override
    fields: [phone]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, 2048, cfg.MaxBodyLength())

	reg := cfg.Registry()
	assert.Equal(t, 7, reg.Len())

	card := reg.FindRule("card_no")
	require.NotNil(t, card)
	assert.Equal(t, scrub.MaskPartial, card.Type())
	assert.Equal(t, '#', card.MaskChar())
	assert.Equal(t, "4111########1111", card.Apply("4111111111111111"))

	session := reg.FindRule("session_id")
	require.NotNil(t, session)
	assert.Equal(t, scrub.MaskDigest, session.Type())

	// Custom rules are added after the defaults and win the alias.
	phone := reg.FindRule("phone")
	require.NotNil(t, phone)
	assert.Equal(t, "phone-override", phone.Name())
	assert.Equal(t, scrub.Redacted, phone.Apply("13800138000"))
	assert.Equal(t, "phone", reg.FindRule("mobile").Name())
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled())
	assert.Equal(t, scrub.DefaultMaxBodyLength, cfg.MaxBodyLength())
	assert.Equal(t, scrub.DefaultRegistry().Len(), cfg.Registry().Len())
}

func TestParse_WithoutDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
include_defaults: false
rules:
  - name: tenant
    fields: [tenant]
`))
	require.NoError(t, err)

	reg := cfg.Registry()
	assert.Equal(t, 1, reg.Len())
	assert.False(t, reg.IsSensitive("password"))
	assert.True(t, reg.IsSensitive("Tenant"))
}

func TestParse_Disabled(t *testing.T) {
	cfg, err := Parse([]byte("enabled: false\nmax_body_length: 0\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Enabled())
	assert.Equal(t, 0, cfg.MaxBodyLength())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"missing name", "rules:\n  - fields: [a]\n", scrub.ErrMissingName},
		{"missing fields", "rules:\n  - name: a\n", scrub.ErrMissingFields},
		{"unknown type", "rules:\n  - name: a\n    fields: [a]\n    type: hash\n", scrub.ErrInvalidRule},
		{"unknown kind", "rules:\n  - name: a\n    fields: [a]\n    kind: iban\n", scrub.ErrInvalidRule},
		{"long mask char", "rules:\n  - name: a\n    fields: [a]\n    mask_char: \"##\"\n", scrub.ErrInvalidRule},
		{"negative prefix", "rules:\n  - name: a\n    fields: [a]\n    keep_prefix: -1\n", scrub.ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)

			var re *scrub.RuleError
			assert.ErrorAs(t, err, &re)
			assert.Contains(t, err.Error(), "rules[0]")
		})
	}
}

func TestParseFile_Malformed(t *testing.T) {
	_, err := ParseFile([]byte("enabled: [oops"))
	require.Error(t, err)

	_, err = ParseFile([]byte("unknown_key: 1\n"))
	require.Error(t, err, "unknown keys should be rejected")
}

func TestLoad(t *testing.T) {
	path := writeFile(t, sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.MaxBodyLength())
	assert.Equal(t, "4111########1111", cfg.Registry().FindRule("card").Apply("4111111111111111"))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeFile(t, sampleYAML)
	t.Setenv("SCRUB_MAX_BODY_LENGTH", "64")
	t.Setenv("SCRUB_ENABLED", "false")

	f, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 64, f.MaxBodyLength)
	assert.False(t, f.Enabled)
	assert.Len(t, f.Rules, 3)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("SCRUB_INCLUDE_DEFAULTS", "false")

	f, err := LoadFile("")
	require.NoError(t, err)

	assert.True(t, f.Enabled)
	assert.Equal(t, scrub.DefaultMaxBodyLength, f.MaxBodyLength)
	assert.False(t, f.IncludeDefaults)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRuleSpec_Build(t *testing.T) {
	rule, err := RuleSpec{
		Name:       "email-work",
		Fields:     []string{"work_email"},
		Type:       "Partial",
		Kind:       "email",
		KeepPrefix: 1,
		KeepSuffix: 1,
		MinLength:  3,
	}.Build()
	require.NoError(t, err)

	assert.Equal(t, scrub.KindEmail, rule.Kind())
	assert.Equal(t, "j**n@example.com", rule.Apply("john@example.com"))
	assert.Equal(t, '*', rule.MaskChar())
}
