package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// DiagnosticCode categorizes compilation diagnostics.
type DiagnosticCode string

const (
	// DiagUnknownToken indicates a token that resolves to nothing: not an
	// operator, parenthesis, item, event, option flag, or counted item.
	DiagUnknownToken DiagnosticCode = "UNKNOWN_TOKEN"

	// DiagBadCount indicates a counted name with a malformed or
	// non-positive count.
	DiagBadCount DiagnosticCode = "BAD_COUNT"

	// DiagMixedOperators indicates '+' and '|' mixed at one nesting level
	// without parenthesization. The grammar defines no precedence between
	// them, so such rules are data-authoring errors.
	DiagMixedOperators DiagnosticCode = "MIXED_OPERATORS"

	// DiagUnbalancedParens indicates a missing or stray parenthesis.
	DiagUnbalancedParens DiagnosticCode = "UNBALANCED_PARENS"

	// DiagEmptyGroup indicates a parenthesized group containing no
	// expression at all. Only empty rule TEXT means "no predicate"; an
	// empty group inside a rule is malformed.
	DiagEmptyGroup DiagnosticCode = "EMPTY_GROUP"

	// DiagDanglingOperator indicates an operator with no left operand.
	DiagDanglingOperator DiagnosticCode = "DANGLING_OPERATOR"

	// DiagMissingOperator indicates two operands with no operator between.
	DiagMissingOperator DiagnosticCode = "MISSING_OPERATOR"
)

// Diagnostic is one non-fatal condition recorded while compiling a rule.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code"`
	Token   string         `json:"token,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Token != "" {
		return fmt.Sprintf("%s: %s (token %q)", d.Code, d.Message, d.Token)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Error is returned by strict-mode compilation when a rule produced any
// diagnostic. It carries the offending rule text and all diagnostics.
type Error struct {
	Rule        string
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}
	return fmt.Sprintf("rule %q: %s", e.Rule, strings.Join(msgs, "; "))
}

// HasCode reports whether any diagnostic carries the given code.
func (e *Error) HasCode(code DiagnosticCode) bool {
	for _, d := range e.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// IsUnknownToken reports whether err is a compile error containing an
// unknown-token diagnostic. Uses errors.As to handle wrapped errors.
func IsUnknownToken(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.HasCode(DiagUnknownToken)
	}
	return false
}
