// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection parses the user's selection expression against a
// catalog of a known size.
//
// Grammar, tried in order: "q" or "Q" quits; "*" selects everything; any
// input containing '-' is a single inclusive range "start-end"; anything
// else is a whitespace-separated list of 1-based indices.
package selection

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidRange is wrapped by SelectionError for rejected range input.
var ErrInvalidRange = errors.New("invalid range")

// SelectionError reports a selection expression that was rejected as a
// whole. Nothing is selected when it is returned.
type SelectionError struct {
	Input  string
	Reason string
	Err    error
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection %q: %s", e.Input, e.Reason)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// Warning describes a list token that was skipped.
type Warning struct {
	Token  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("ignoring %q: %s", w.Token, w.Reason)
}

// Selection is the outcome of parsing a selection expression.
type Selection struct {
	// Quit is set when the user asked to leave without converting.
	Quit bool

	// All is set for the "*" expression.
	All bool

	// Indices are the selected 1-based indices, ascending and unique.
	Indices []int

	// Warnings lists skipped list tokens.
	Warnings []Warning
}

// Empty reports whether nothing was selected.
func (s Selection) Empty() bool { return len(s.Indices) == 0 }

// Parse interprets input against a catalog of size entries.
func Parse(input string, size int) (Selection, error) {
	in := strings.TrimSpace(input)

	switch {
	case in == "q" || in == "Q":
		return Selection{Quit: true}, nil
	case in == "*":
		return Selection{All: true, Indices: span(1, size)}, nil
	case strings.Contains(in, "-"):
		return parseRange(in, size)
	default:
		return parseList(in, size), nil
	}
}

func parseRange(in string, size int) (Selection, error) {
	lo, hi, _ := strings.Cut(in, "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Selection{}, rangeError(in, "start is not a number")
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return Selection{}, rangeError(in, "end is not a number")
	}
	if start < 1 || end > size || start > end {
		return Selection{}, rangeError(in, fmt.Sprintf("want 1 <= start <= end <= %d", size))
	}
	return Selection{Indices: span(start, end)}, nil
}

func rangeError(in, reason string) error {
	return &SelectionError{Input: in, Reason: reason, Err: ErrInvalidRange}
}

func parseList(in string, size int) Selection {
	var sel Selection
	seen := make(map[int]bool)
	for _, tok := range strings.Fields(in) {
		idx, err := strconv.Atoi(tok)
		if err != nil {
			sel.Warnings = append(sel.Warnings, Warning{Token: tok, Reason: "not a number"})
			continue
		}
		if idx < 1 || idx > size {
			sel.Warnings = append(sel.Warnings, Warning{
				Token:  tok,
				Reason: fmt.Sprintf("out of range 1-%d", size),
			})
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			sel.Indices = append(sel.Indices, idx)
		}
	}
	sort.Ints(sel.Indices)
	return sel
}

// span returns lo..hi inclusive, or nil when the span is empty.
func span(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
