// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownName is returned by [ResolveName] when the token matches no
// registered name, exactly or by abbreviation. Dispatch treats it as
// "fall through to the unknown-command error"; it carries no message of
// its own.
var ErrUnknownName = errors.New("unknown name")

// AmbiguousError is returned by [ResolveName] when an abbreviated token
// matches more than one registered name. The candidate list is sorted
// for stable display.
type AmbiguousError struct {
	// Token is the abbreviation the user typed.
	Token string

	// Candidates are the registered names the token matches, in sorted
	// lexical order.
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("'%s' is ambiguous: %s", e.Token, strings.Join(e.Candidates, ", "))
}

// ResolveName resolves a user-typed token against a set of registered
// names, accepting unique abbreviations.
//
// An exact match wins immediately, with no ambiguity check: a name that
// happens to abbreviate a longer sibling ("log" next to "logout") must
// stay reachable by its own name. Otherwise a name is a candidate when
// the token is non-empty, starts with the name's first character, and
// is an ordered subsequence of the name — each token character found
// by a single forward scan through the name. Subsequence, not prefix
// and not substring: "lst" matches both "list" and "last" (and is
// therefore ambiguous between them) but never "start", whose first
// character differs.
//
// Exactly one candidate resolves to that name. No candidates returns
// [ErrUnknownName]. Several candidates return an [*AmbiguousError]
// carrying the sorted candidate list.
//
// ResolveName is a pure function over its arguments: it knows nothing
// about handlers, prints nothing, and never exits. Callers own the
// name-to-command lookup and the decision of how to surface the errors.
// Names are ASCII by construction, so matching is byte-wise.
func ResolveName(token string, names []string) (string, error) {
	for _, name := range names {
		if name == token {
			return name, nil
		}
	}

	var candidates []string
	for _, name := range names {
		if abbreviates(token, name) {
			candidates = append(candidates, name)
		}
	}

	switch len(candidates) {
	case 0:
		return "", ErrUnknownName
	case 1:
		return candidates[0], nil
	}
	sort.Strings(candidates)
	return "", &AmbiguousError{Token: token, Candidates: candidates}
}

// abbreviates reports whether token is an acceptable abbreviation of
// name: non-empty, first characters equal, and the whole token an
// ordered subsequence of the name. The scan walks name once; each
// token character must be found after the previous match's position.
func abbreviates(token, name string) bool {
	if len(token) == 0 || len(name) == 0 || token[0] != name[0] {
		return false
	}
	position := 0
	for i := 0; i < len(token); i++ {
		for position < len(name) && name[position] != token[i] {
			position++
		}
		if position == len(name) {
			return false
		}
		position++
	}
	return true
}
