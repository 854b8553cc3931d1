package logic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainExpr  = "mossgen/expr/v1"
	DomainGraph = "mossgen/graph/v1"
	DomainRun   = "mossgen/run/v1"
)

// HashCanonical computes a SHA-256 hash of the canonical JSON form of v
// with domain separation. Format: SHA256(domain + 0x00 + canonicalJSON).
// The null byte separator prevents domain/data boundary ambiguity.
func HashCanonical(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("HashCanonical: failed to marshal: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ExprHash computes the content-addressed identity of a compiled expression.
// Two expressions with identical structure hash identically regardless of
// the rule text they were compiled from.
func ExprHash(e Expr) (string, error) {
	return HashCanonical(DomainExpr, e.Canonical())
}

// MustExprHash is like ExprHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustExprHash(e Expr) string {
	h, err := ExprHash(e)
	if err != nil {
		panic(err)
	}
	return h
}
