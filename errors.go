package scrub

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingName indicates a rule was built without a name.
	ErrMissingName = errors.New("rule name is required")

	// ErrMissingFields indicates a rule was built without any field alias.
	ErrMissingFields = errors.New("at least one field name is required")

	// ErrInvalidRule indicates a rule parameter is out of range or unknown.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrParse indicates a tokenizer found a structural problem in a body.
	ErrParse = errors.New("parse failed")

	// ErrUnsupportedFormat indicates a tokenizer was handed a body it cannot scan.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// RuleError represents a rule configuration error.
// It wraps a sentinel error with the rule and parameter that caused it.
type RuleError struct {
	Err    error  // Underlying sentinel error (ErrMissingName, ErrInvalidRule, ...)
	Rule   string // Rule name, empty when the name itself is missing
	Detail string // Offending parameter or value
}

func (e *RuleError) Error() string {
	if e.Rule != "" && e.Detail != "" {
		return fmt.Sprintf("%s: %s (rule %s)", e.Err.Error(), e.Detail, e.Rule)
	}
	if e.Rule != "" {
		return fmt.Sprintf("%s (rule %s)", e.Err.Error(), e.Rule)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
	}
	return e.Err.Error()
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ParseError reports where a tokenizer gave up on a body.
// The engine never returns it to callers; it is surfaced through the
// degraded signal before the original body is used.
type ParseError struct {
	Err       error  // Underlying sentinel error (ErrParse, ErrUnsupportedFormat)
	Tokenizer string // Tokenizer name
	Offset    int    // Byte offset in the body
	Reason    string // Short description
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %s at offset %d", e.Tokenizer, e.Err.Error(), e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s: %s at offset %d", e.Tokenizer, e.Err.Error(), e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// newRuleError creates a RuleError for construction failures.
func newRuleError(sentinel error, rule, detail string) error {
	return &RuleError{
		Err:    sentinel,
		Rule:   rule,
		Detail: detail,
	}
}

// newFormatError creates a ParseError for bodies outside a tokenizer's format.
func newFormatError(tokenizer string, offset int, reason string) error {
	return &ParseError{
		Err:       ErrUnsupportedFormat,
		Tokenizer: tokenizer,
		Offset:    offset,
		Reason:    reason,
	}
}

// newParseError creates a ParseError for tokenizer failures.
func newParseError(tokenizer string, offset int, reason string) error {
	return &ParseError{
		Err:       ErrParse,
		Tokenizer: tokenizer,
		Offset:    offset,
		Reason:    reason,
	}
}
