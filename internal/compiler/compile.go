package compiler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/mossgen/internal/logic"
)

// Rule is a compiled access rule.
type Rule struct {
	// Text is the original rule source.
	Text string

	// Expr is the compiled expression, or nil when the rule text was
	// empty. A nil Expr means "no predicate": the guarded edge or
	// location is unconditionally accessible and callers skip evaluation
	// entirely rather than evaluate an always-true expression.
	Expr logic.Expr

	// Diagnostics are the non-fatal conditions recorded while compiling.
	// Always empty in strict mode (strict compilation fails instead).
	Diagnostics []Diagnostic
}

// Unconditional reports whether the rule carries no predicate.
func (r *Rule) Unconditional() bool { return r.Expr == nil }

// Allows reports whether state satisfies the rule, applying the
// no-predicate fast path for unconditional rules.
func (r *Rule) Allows(state logic.InventoryState) bool {
	if r.Expr == nil {
		return true
	}
	return r.Expr.Eval(state)
}

// Compiler compiles rule text against a fixed environment.
//
// A Compiler is constructed once per generation run and is safe for
// repeated use; compilation is deterministic, so compiling the same text
// twice yields structurally identical expressions.
type Compiler struct {
	env    Env
	strict bool
	logger *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithStrict makes every diagnostic a hard compile error instead of a
// log-and-continue condition. Use for builds that must not mask
// logic-table bugs behind incomplete predicates.
func WithStrict() CompilerOption {
	return func(c *Compiler) {
		c.strict = true
	}
}

// WithLogger sets the logger used for diagnostic reporting.
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// New creates a Compiler for the given environment.
func New(env Env, opts ...CompilerOption) *Compiler {
	c := &Compiler{env: env}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Compile compiles one rule string.
//
// Empty (or all-whitespace) text compiles to an unconditional rule with a
// nil expression. Outside strict mode diagnostics never fail compilation:
// they are logged, recorded on the returned rule, and the offending tokens
// dropped, which can yield an incomplete predicate. In strict mode any
// diagnostic returns a *Error and no rule.
func (c *Compiler) Compile(text string) (*Rule, error) {
	if strings.TrimSpace(text) == "" {
		return &Rule{Text: text}, nil
	}

	p := &parser{comp: c, toks: tokenize(text)}
	expr := p.parseExpr(0)

	if len(p.diags) > 0 {
		if c.strict {
			return nil, &Error{Rule: text, Diagnostics: p.diags}
		}
		for _, d := range p.diags {
			c.logger.Warn("unexpected part of rule",
				"rule", text,
				"code", string(d.Code),
				"token", d.Token,
				"detail", d.Message)
		}
	}

	return &Rule{Text: text, Expr: expr, Diagnostics: p.diags}, nil
}

// opNone marks the absence of a pending operator.
const opNone tokenKind = -1

// parser is a single-use recursive-descent parser over a token stream.
type parser struct {
	comp  *Compiler
	toks  []token
	pos   int
	diags []Diagnostic
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) diag(code DiagnosticCode, tok, msg string) {
	p.diags = append(p.diags, Diagnostic{Code: code, Token: tok, Message: msg})
}

// parseExpr parses operands and operators left-to-right until end of input
// (depth 0) or a closing parenthesis (depth > 0). Mixing '+' and '|' at
// one depth is flagged once per level; association stays left-to-right.
//
// A skipped operand (unknown token, empty group) also silently drops its
// adjoining operator, so "A + Junk" degrades to "A" rather than a parse
// failure.
func (p *parser) parseExpr(depth int) logic.Expr {
	var acc logic.Expr
	pending := opNone
	var seenAnd, seenOr, mixedFlagged, skippedLast bool

	finish := func() logic.Expr {
		if pending != opNone {
			p.diag(DiagDanglingOperator, "", "operator with no right operand")
		}
		return acc
	}

	for {
		t, ok := p.peek()
		if !ok {
			if depth > 0 {
				p.diag(DiagUnbalancedParens, "", "missing closing parenthesis")
			}
			return finish()
		}

		switch t.kind {
		case tokRParen:
			if depth == 0 {
				p.pos++
				p.diag(DiagUnbalancedParens, ")", "stray closing parenthesis")
				continue
			}
			return finish()

		case tokAnd, tokOr:
			p.pos++
			if acc == nil || pending != opNone {
				// The operator lost its operand. If the operand was an
				// already-diagnosed skip, absorb the operator quietly.
				if !skippedLast {
					p.diag(DiagDanglingOperator, t.text, "operator with no left operand")
				}
				continue
			}
			if t.kind == tokAnd {
				seenAnd = true
			} else {
				seenOr = true
			}
			if seenAnd && seenOr && !mixedFlagged {
				p.diag(DiagMixedOperators, t.text,
					"'+' and '|' mixed without parentheses; associating left-to-right")
				mixedFlagged = true
			}
			pending = t.kind
			skippedLast = false
			continue
		}

		// Operand: a parenthesized group or a name.
		var operand logic.Expr
		if t.kind == tokLParen {
			p.pos++
			before := len(p.diags)
			operand = p.parseExpr(depth + 1)
			if nxt, ok := p.peek(); ok && nxt.kind == tokRParen {
				p.pos++
			}
			// A group that produced nothing and was not already diagnosed
			// (e.g. an unknown token inside it) is itself malformed.
			if operand == nil && len(p.diags) == before {
				p.diag(DiagEmptyGroup, "()", "parenthesized group contains no expression")
			}
		} else {
			p.pos++
			operand = p.bind(t.text)
		}

		if operand == nil {
			pending = opNone
			skippedLast = true
			continue
		}

		switch {
		case acc == nil:
			acc = operand
		case pending == opNone:
			p.diag(DiagMissingOperator, t.text, "operand with no operator before it")
		case pending == tokAnd:
			acc = logic.And{Left: acc, Right: operand}
			pending = opNone
		default:
			acc = logic.Or{Left: acc, Right: operand}
			pending = opNone
		}
		skippedLast = false
	}
}

// bind resolves a name token to an expression, or nil with a diagnostic
// when the name resolves to nothing.
func (p *parser) bind(name string) logic.Expr {
	env := p.comp.env

	if env.Events[name] {
		return logic.HasItem{Item: name, Count: 1}
	}
	if v, ok := env.Flags[name]; ok {
		return logic.Const{Flag: name, Value: v}
	}
	if alias, ok := reservedAliases[name]; ok {
		return alias
	}
	if env.Catalog != nil && env.Catalog.HasItem(name) {
		return logic.HasItem{Item: name, Count: 1}
	}

	// Counted form: name{count}.
	if base, rest, found := strings.Cut(name, "{"); found {
		countStr, closed := strings.CutSuffix(rest, "}")
		if !closed {
			p.diag(DiagBadCount, name, "counted name missing closing brace")
			return nil
		}
		if env.Catalog == nil || !env.Catalog.HasItem(base) {
			p.diag(DiagUnknownToken, name, "counted name does not reference a catalog item")
			return nil
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 1 {
			p.diag(DiagBadCount, name, "count must be a positive integer")
			return nil
		}
		return logic.HasItem{Item: base, Count: count}
	}

	p.diag(DiagUnknownToken, name, "not an item, event, or option flag")
	return nil
}
