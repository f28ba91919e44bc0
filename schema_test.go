package scrub_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/scrub"
)

type schemaContact struct {
	Tel    string `json:"tel" scrub:"phone"`
	Secret string `json:"-" scrub:"token"`
}

type schemaProfile struct {
	Email string `json:"email_address" scrub:"email"`
	ID    string `json:"id_no" scrub:"idcard"`
}

type schemaSignup struct {
	Phone    string          `json:"phone" scrub:"phone"`
	Mobile   string          `json:"mobile_no,omitempty" scrub:"phone"`
	Password string          `json:"password" scrub:"full"`
	Card     string          `scrub:"digest"`
	Profile  schemaProfile   `json:"profile"`
	Contacts []schemaContact `json:"contacts"`
	Name     string          `json:"name"`
	Ignored  string          `json:"ignored" scrub:"-"`
}

type schemaVault struct {
	PIN    string `json:"pin" scrub:"digest"`
	secret string `scrub:"token"`
}

type schemaAccount struct {
	Vault  *schemaVault   `json:"vault"`
	Backup [2]schemaVault `json:"backup"`
	Self   *schemaAccount `json:"self"`
}

type schemaBadTag struct {
	SSN string `json:"ssn" scrub:"ssn"`
}

func TestRegistryFor(t *testing.T) {
	scrub.Reset()

	reg, err := scrub.RegistryFor[schemaSignup]()
	if err != nil {
		t.Fatalf("RegistryFor() error: %v", err)
	}

	if reg.Len() != 6 {
		t.Errorf("Len() = %d, want 6 (one rule per preset)", reg.Len())
	}

	tests := []struct {
		field string
		typ   scrub.MaskType
		kind  scrub.ValueKind
	}{
		{"phone", scrub.MaskPartial, scrub.KindPhone},
		{"mobile_no", scrub.MaskPartial, scrub.KindPhone},
		{"tel", scrub.MaskPartial, scrub.KindPhone},
		{"password", scrub.MaskFull, scrub.KindToken},
		{"card", scrub.MaskDigest, scrub.KindGeneric},
		{"email_address", scrub.MaskPartial, scrub.KindEmail},
		{"id_no", scrub.MaskPartial, scrub.KindIDCard},
		{"secret", scrub.MaskFull, scrub.KindToken},
	}

	for _, tt := range tests {
		rule := reg.FindRule(tt.field)
		if rule == nil {
			t.Errorf("FindRule(%q) = nil", tt.field)
			continue
		}
		if rule.Type() != tt.typ || rule.Kind() != tt.kind {
			t.Errorf("FindRule(%q) = %s/%s, want %s/%s", tt.field, rule.Type(), rule.Kind(), tt.typ, tt.kind)
		}
	}

	for _, field := range []string{"name", "ignored", "profile", "contacts"} {
		if reg.IsSensitive(field) {
			t.Errorf("IsSensitive(%q) = true, want false", field)
		}
	}

	phone := reg.FindRule("phone")
	if !strings.HasSuffix(phone.Name(), ".phone") {
		t.Errorf("rule name = %q, want <type>.phone", phone.Name())
	}
	if aliases := phone.Fields(); len(aliases) != 3 {
		t.Errorf("phone aliases = %v, want 3", aliases)
	}
}

func TestRegistryFor_Masking(t *testing.T) {
	scrub.Reset()

	reg, err := scrub.RegistryFor[schemaSignup]()
	if err != nil {
		t.Fatalf("RegistryFor() error: %v", err)
	}
	engine := scrub.New(scrub.NewConfig(scrub.WithRegistry(reg)))

	in := `{"mobile_no":"13800138000","name":"bob","profile":{"email_address":"john@example.com"},"contacts":[{"tel":"13912345678"}]}`
	want := `{"mobile_no":"138****8000","name":"bob","profile":{"email_address":"jo*n@example.com"},"contacts":[{"tel":"139****5678"}]}`
	if got := engine.MaskBody(in); got != want {
		t.Errorf("MaskBody() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestRegistryFor_Caching(t *testing.T) {
	scrub.Reset()

	r1, err := scrub.RegistryFor[schemaSignup]()
	if err != nil {
		t.Fatalf("RegistryFor() error: %v", err)
	}
	r2, _ := scrub.RegistryFor[schemaSignup]()
	if r1 != r2 {
		t.Error("RegistryFor() should return cached registry")
	}

	scrub.Reset()

	r3, _ := scrub.RegistryFor[schemaSignup]()
	if r1 == r3 {
		t.Error("Reset() should clear cache, new registry expected")
	}
}

func TestRegistryFor_InvalidTag(t *testing.T) {
	_, err := scrub.RegistryFor[schemaBadTag]()
	if !errors.Is(err, scrub.ErrInvalidTag) {
		t.Errorf("RegistryFor() error = %v, want ErrInvalidTag", err)
	}
}

func TestRegistryFor_NotStruct(t *testing.T) {
	_, err := scrub.RegistryFor[string]()
	if !errors.Is(err, scrub.ErrInvalidTag) {
		t.Errorf("RegistryFor[string]() error = %v, want ErrInvalidTag", err)
	}
}

func TestRegistryFor_NestedPointer(t *testing.T) {
	scrub.Reset()

	reg, err := scrub.RegistryFor[schemaAccount]()
	if err != nil {
		t.Fatalf("RegistryFor() error: %v", err)
	}

	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (unexported fields are skipped)", reg.Len())
	}
	rule := reg.FindRule("pin")
	if rule == nil || rule.Type() != scrub.MaskDigest {
		t.Fatalf("FindRule(pin) = %v, want digest rule", rule)
	}
	if reg.IsSensitive("secret") {
		t.Error("IsSensitive(secret) = true, want false for an unexported field")
	}
	if got := rule.Name(); got != "schemaAccount.digest" {
		t.Errorf("Name() = %q, want schemaAccount.digest", got)
	}
}
