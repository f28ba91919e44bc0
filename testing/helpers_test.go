package testing

import (
	"strings"
	"testing"

	"github.com/zoobzio/scrub"
)

func TestJSONRecords(t *testing.T) {
	body, masked := JSONRecords(3)

	if !strings.HasPrefix(body, "[") || !strings.HasSuffix(body, "]") {
		t.Errorf("JSONRecords() body is not an array: %q", body)
	}
	if strings.Count(body, Phone) != 3 {
		t.Errorf("body should hold 3 phone numbers")
	}
	if strings.Contains(masked, Phone) || strings.Contains(masked, "pw1") {
		t.Error("masked form should not contain raw values")
	}
	if strings.Count(masked, scrub.Redacted) != 3 {
		t.Errorf("masked form should redact 3 passwords")
	}
}

func TestFormPairs(t *testing.T) {
	body, masked := FormPairs(2)

	if strings.Count(body, "&") != 7 {
		t.Errorf("FormPairs(2) = %q, want 8 pairs", body)
	}
	if strings.Contains(masked, Card) {
		t.Error("masked form should not contain the card number")
	}
}

func TestEngine(t *testing.T) {
	e := Engine(t)
	if e.Config().MaxBodyLength() != 0 {
		t.Errorf("MaxBodyLength() = %d, want 0", e.Config().MaxBodyLength())
	}
	if got := e.MaskValue("card", Card); got != MaskedCard {
		t.Errorf("MaskValue(card) = %q, want %q", got, MaskedCard)
	}

	limited := Engine(t, scrub.WithMaxBodyLength(10))
	if limited.Config().MaxBodyLength() != 10 {
		t.Error("options should apply after the defaults")
	}
}

func TestHeaders(t *testing.T) {
	h := Headers()
	if len(h) != 4 {
		t.Errorf("Headers() has %d entries, want 4", len(h))
	}
}
