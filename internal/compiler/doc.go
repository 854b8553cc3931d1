// Package compiler turns textual access rules into compiled logic
// expressions.
//
// The rule grammar is a small infix boolean language over item, event, and
// option-flag names:
//
//	expr  := term | expr '+' expr | expr '|' expr | '(' expr ')'
//	term  := itemName | itemName '{' count '}' | optionFlag | eventName
//
// '+' is logical AND, '|' is logical OR. There is NO derived precedence
// between the two operators: grouping is parentheses-only, and a rule that
// mixes '+' and '|' at one nesting level is a data-authoring error. The
// compiler flags it and, outside strict mode, associates left-to-right.
//
// Empty rule text compiles to no predicate at all (Rule.Expr == nil),
// which callers treat as unconditionally accessible. This is distinct
// from an expression that always evaluates true.
//
// Unknown tokens are non-fatal by default: the compiler records a
// diagnostic, logs it, drops the token, and keeps going, matching the
// log-and-continue policy of the logic tables this package consumes.
// Strict mode turns every diagnostic into a hard compile error for
// builds that must not mask table bugs.
package compiler
