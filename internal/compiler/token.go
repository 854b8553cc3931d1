package compiler

import "strings"

// tokenKind classifies a scanned token.
type tokenKind int

const (
	tokName tokenKind = iota
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

// token is one scanned unit of rule text.
type token struct {
	kind tokenKind
	text string
}

// tokenize splits rule text into tokens. Parentheses are padded with
// surrounding spaces first, so tokens are exactly the whitespace-separated
// fields: '(', ')', '+', '|', or a bare name (possibly in counted
// name{count} form, resolved later during binding).
func tokenize(rule string) []token {
	padded := strings.ReplaceAll(rule, "(", " ( ")
	padded = strings.ReplaceAll(padded, ")", " ) ")

	fields := strings.Fields(padded)
	toks := make([]token, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "(":
			toks = append(toks, token{kind: tokLParen, text: f})
		case ")":
			toks = append(toks, token{kind: tokRParen, text: f})
		case "+":
			toks = append(toks, token{kind: tokAnd, text: f})
		case "|":
			toks = append(toks, token{kind: tokOr, text: f})
		default:
			toks = append(toks, token{kind: tokName, text: f})
		}
	}
	return toks
}
