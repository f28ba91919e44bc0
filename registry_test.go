package scrub_test

import (
	"sync"
	"testing"

	"github.com/zoobzio/scrub"
)

func TestNewRegistry_FindRule(t *testing.T) {
	card := scrub.NewRule("card").Fields("card", "Card_No").MustBuild()
	reg := scrub.NewRegistry(card, nil)

	tests := []struct {
		field string
		want  *scrub.Rule
	}{
		{"card", card},
		{"CARD", card},
		{"card_no", card},
		{"Card_No", card},
		{"cardholder", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := reg.FindRule(tt.field); got != tt.want {
			t.Errorf("FindRule(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}

	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (nil rules skipped)", reg.Len())
	}
}

func TestRegistry_LastAliasWins(t *testing.T) {
	first := scrub.NewRule("first").Fields("shared", "only_first").MustBuild()
	second := scrub.NewRule("second").Fields("shared").MustBuild()
	reg := scrub.NewRegistry(first, second)

	if got := reg.FindRule("shared"); got != second {
		t.Errorf("FindRule(shared) = %v, want the rule added last", got)
	}
	if got := reg.FindRule("only_first"); got != first {
		t.Errorf("FindRule(only_first) = %v, want first", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var reg *scrub.Registry

	if reg.FindRule("password") != nil {
		t.Error("nil registry should find nothing")
	}
	if reg.IsSensitive("password") {
		t.Error("nil registry should report nothing sensitive")
	}
	if reg.Len() != 0 || reg.Rules() != nil {
		t.Error("nil registry should be empty")
	}
}

func TestRegistry_RulesIsCopy(t *testing.T) {
	reg := scrub.DefaultRegistry()
	rules := reg.Rules()
	rules[0] = nil

	if reg.Rules()[0] == nil {
		t.Error("Rules() should return a defensive copy")
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := scrub.DefaultRegistry()

	if reg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", reg.Len())
	}

	tests := []struct {
		field string
		rule  string
	}{
		{"phone", "phone"},
		{"Mobile", "phone"},
		{"tel", "phone"},
		{"idcard", "idcard"},
		{"id_card", "idcard"},
		{"email", "email"},
		{"password", "token"},
		{"Authorization", "token"},
		{"X-Api-Key", "token"},
		{"accessToken", "token"},
		{"Set-Cookie", "token"},
	}

	for _, tt := range tests {
		rule := reg.FindRule(tt.field)
		if rule == nil {
			t.Errorf("FindRule(%q) = nil, want %s", tt.field, tt.rule)
			continue
		}
		if rule.Name() != tt.rule {
			t.Errorf("FindRule(%q) = %s, want %s", tt.field, rule.Name(), tt.rule)
		}
	}

	for _, field := range []string{"name", "username", "hotel", "id"} {
		if reg.IsSensitive(field) {
			t.Errorf("IsSensitive(%q) = true, want false", field)
		}
	}
}

func TestDefaultRules_EqualLengthShownWhole(t *testing.T) {
	engine := scrub.Default()

	tests := []struct {
		field string
		value string
		want  string
	}{
		{"phone", "1234567", "1234567"},
		{"phone", "123456", scrub.Redacted},
		{"phone", "12345678", "123*5678"},
		{"email", "abc@x.io", "abc@x.io"},
		{"email", "ab@x.io", "**@x.io"},
	}

	for _, tt := range tests {
		if got := engine.MaskValue(tt.field, tt.value); got != tt.want {
			t.Errorf("MaskValue(%q, %q) = %q, want %q", tt.field, tt.value, got, tt.want)
		}
	}

	if got := engine.MaskBody(`{"phone":"1234567"}`); got != `{"phone":"1234567"}` {
		t.Errorf("MaskBody() = %q, want unchanged", got)
	}
}

func TestDefaultRegistry_Shared(t *testing.T) {
	if scrub.DefaultRegistry() != scrub.DefaultRegistry() {
		t.Error("DefaultRegistry() should return a shared instance")
	}
}

func TestRegistryBuilder(t *testing.T) {
	card := scrub.NewRule("card").Fields("card").MustBuild()
	override := scrub.NewRule("phone-full").Fields("phone").MustBuild()

	reg := scrub.NewRegistryBuilder().
		AddDefaults().
		Add(card, override).
		Build()

	if reg.Len() != 6 {
		t.Errorf("Len() = %d, want 6", reg.Len())
	}
	if reg.FindRule("card") != card {
		t.Error("custom rule should be registered")
	}
	if reg.FindRule("phone") != override {
		t.Error("rule added after defaults should win the alias")
	}
	if reg.FindRule("mobile").Name() != "phone" {
		t.Error("aliases not overridden should keep the default rule")
	}
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	reg := scrub.DefaultRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !reg.IsSensitive("Password") {
					t.Error("Password should be sensitive")
					return
				}
			}
		}()
	}
	wg.Wait()
}
