package scrub

import (
	"regexp"
	"strings"
	"sync"
)

// Registry is an immutable set of rules with a case-insensitive
// field-name index. Registries are safe for concurrent use.
//
// When two rules share an alias, the rule added last wins the lookup.
type Registry struct {
	rules   []*Rule
	byField map[string]*Rule

	// Form patterns are compiled on first use; one per (rule, alias) pair.
	formOnce sync.Once
	form     []formPattern
}

// formPattern matches alias=value pairs for a single alias.
type formPattern struct {
	rule *Rule
	re   *regexp.Regexp
}

// NewRegistry builds a registry from rules. Nil rules are skipped.
func NewRegistry(rules ...*Rule) *Registry {
	r := &Registry{
		rules:   make([]*Rule, 0, len(rules)),
		byField: make(map[string]*Rule),
	}
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		r.rules = append(r.rules, rule)
		for _, f := range rule.aliases {
			r.byField[f] = rule
		}
	}
	return r
}

// FindRule returns the rule for fieldName, or nil if none matches.
func (r *Registry) FindRule(fieldName string) *Rule {
	if r == nil || fieldName == "" {
		return nil
	}
	if rule, ok := r.byField[fieldName]; ok {
		return rule
	}
	return r.byField[strings.ToLower(fieldName)]
}

// IsSensitive reports whether any rule matches fieldName.
func (r *Registry) IsSensitive(fieldName string) bool {
	return r.FindRule(fieldName) != nil
}

// Rules returns a copy of the rules in registration order.
func (r *Registry) Rules() []*Rule {
	if r == nil {
		return nil
	}
	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// formPatterns returns the compiled alias=value patterns.
//
// Patterns are compiled on first use. The form tokenizer makes one pass over
// the body per pattern.
func (r *Registry) formPatterns() []formPattern {
	r.formOnce.Do(func() {
		for _, rule := range r.rules {
			for _, alias := range rule.aliases {
				// Group 1: boundary, group 2: alias, group 3: value.
				re := regexp.MustCompile(`(?i)(^|[&?;\s])(` + regexp.QuoteMeta(alias) + `)=([^&\s]*)`)
				r.form = append(r.form, formPattern{rule: rule, re: re})
			}
		}
	})
	return r.form
}

// RegistryBuilder collects rules for a custom registry.
type RegistryBuilder struct {
	rules []*Rule
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// Add appends rules.
func (b *RegistryBuilder) Add(rules ...*Rule) *RegistryBuilder {
	b.rules = append(b.rules, rules...)
	return b
}

// AddDefaults appends the built-in rules.
func (b *RegistryBuilder) AddDefaults() *RegistryBuilder {
	b.rules = append(b.rules, DefaultRules()...)
	return b
}

// Build returns the registry.
func (b *RegistryBuilder) Build() *Registry {
	return NewRegistry(b.rules...)
}

// Built-in rules. Immutable, so they are shared by every default registry.
var phoneRule = NewRule("phone").
	Fields("phone", "mobile", "tel", "telephone").
	Type(MaskPartial).
	Kind(KindPhone).
	KeepPrefix(3).
	KeepSuffix(4).
	MinLength(7).
	MustBuild()

var idCardRule = NewRule("idcard").
	Fields("idcard", "id_card", "identity", "identity_no", "idnumber").
	Type(MaskPartial).
	Kind(KindIDCard).
	KeepPrefix(6).
	KeepSuffix(4).
	MinLength(10).
	MustBuild()

var emailRule = NewRule("email").
	Fields("email", "mail").
	Type(MaskPartial).
	Kind(KindEmail).
	KeepPrefix(2).
	KeepSuffix(1).
	MinLength(3).
	MustBuild()

var tokenRule = NewRule("token").
	Fields(
		"password", "token", "secret", "apikey", "api_key", "authorization", "credential",
		"x-api-key", "api-key", "x-auth-token", "cookie", "set-cookie",
		"access_token", "accessToken", "refresh_token", "refreshToken",
		"bearer_token", "bearerToken", "session_token", "sessionToken",
	).
	Type(MaskFull).
	Kind(KindToken).
	MustBuild()

var defaultRegistry = NewRegistry(DefaultRules()...)

// DefaultRules returns the built-in rules: phone, ID card, email and a
// token/secret group that is always fully masked.
//
// Partial rules reveal a value whole when its length equals prefix plus
// suffix: a 7-character phone ("1234567") or a 3-character email local
// part ("abc@x.io") passes through with no mask characters. Shorter values
// are fully redacted. Register a stricter rule under the same alias to
// change this.
func DefaultRules() []*Rule {
	return []*Rule{phoneRule, idCardRule, emailRule, tokenRule}
}

// DefaultRegistry returns the shared registry of built-in rules.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
