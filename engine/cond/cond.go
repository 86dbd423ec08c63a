// Package cond parses and evaluates textual flag predicates. The grammar is
// two whitespace-separated tokens: a flag name and a boolean word
// ("find_key true"). The same grammar gates interactions and dialogues and
// expresses dialogue option effects.
package cond

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/clickcore/engine/state"
	"github.com/nathoo/clickcore/types"
)

// ErrMalformedPredicate is returned when a predicate string does not split
// into exactly two tokens.
var ErrMalformedPredicate = errors.New("malformed predicate")

// Parse compiles a predicate string. The second token matches "true"
// case-insensitively; any other token means false. That permissive reading
// is carried over from the original data files on purpose: "find_key yes"
// compiles to false rather than failing. Canonical() lets loaders surface
// such tokens without changing evaluation.
func Parse(raw string) (types.Predicate, error) {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return types.Predicate{}, fmt.Errorf("%w: %q", ErrMalformedPredicate, raw)
	}
	return types.Predicate{
		Flag:  parts[0],
		Value: strings.EqualFold(parts[1], "true"),
	}, nil
}

// ParseAll compiles a list of predicate strings in order.
func ParseAll(raws []string) ([]types.Predicate, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	preds := make([]types.Predicate, 0, len(raws))
	for _, raw := range raws {
		p, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// Canonical reports whether a predicate string's boolean token is exactly
// "true" or "false" (case-insensitive). Non-canonical tokens still parse.
func Canonical(raw string) bool {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return false
	}
	return strings.EqualFold(parts[1], "true") || strings.EqualFold(parts[1], "false")
}

// Eval checks a compiled predicate against the flag store. An undeclared
// flag name yields state.ErrUnknownFlag.
func Eval(p types.Predicate, flags *state.Flags) (bool, error) {
	v, err := flags.Get(p.Flag)
	if err != nil {
		return false, err
	}
	return v == p.Value, nil
}

// EvalString parses and evaluates a predicate string in one step.
func EvalString(raw string, flags *state.Flags) (bool, error) {
	p, err := Parse(raw)
	if err != nil {
		return false, err
	}
	return Eval(p, flags)
}

// EvalAll is a logical AND over the predicates. An empty or nil list is
// vacuously true. The first failing or erroring predicate short-circuits.
func EvalAll(preds []types.Predicate, flags *state.Flags) (bool, error) {
	for _, p := range preds {
		ok, err := Eval(p, flags)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
