// Package filter decides which input lines are forwarded to the sink.
package filter

import (
	"strings"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

// Filter determines whether a LogEntry should be forwarded.
type Filter interface {
	Match(e *entry.LogEntry) bool
	Name() string
}

// MatchMode controls how a Chain combines its filters.
type MatchMode int

const (
	// MatchAny passes if any filter matches.
	MatchAny MatchMode = iota
	// MatchAll passes only if every filter matches.
	MatchAll
)

// Chain combines filters. Exclusions are applied separately and always
// veto, whatever the mode.
type Chain struct {
	filters  []Filter
	excludes []Filter
	mode     MatchMode
}

// NewChain creates a chain with the given mode.
func NewChain(mode MatchMode, filters ...Filter) *Chain {
	return &Chain{filters: filters, mode: mode}
}

// Add appends a filter.
func (c *Chain) Add(f Filter) { c.filters = append(c.filters, f) }

// Exclude appends a veto filter: a matching entry is always dropped.
func (c *Chain) Exclude(f Filter) { c.excludes = append(c.excludes, f) }

// Match reports whether e passes the chain. An empty chain passes everything.
func (c *Chain) Match(e *entry.LogEntry) bool {
	for _, f := range c.excludes {
		if f.Match(e) {
			return false
		}
	}
	if len(c.filters) == 0 {
		return true
	}
	if c.mode == MatchAll {
		for _, f := range c.filters {
			if !f.Match(e) {
				return false
			}
		}
		return true
	}
	for _, f := range c.filters {
		if f.Match(e) {
			return true
		}
	}
	return false
}

// Name describes the chain, e.g. "all(keyword:a, regex:b) !exclude:c".
func (c *Chain) Name() string {
	mode := "any"
	if c.mode == MatchAll {
		mode = "all"
	}
	names := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		names = append(names, f.Name())
	}
	s := mode + "(" + strings.Join(names, ", ") + ")"
	for _, f := range c.excludes {
		s += " !" + f.Name()
	}
	return s
}

// Len returns the number of filters, not counting exclusions.
func (c *Chain) Len() int { return len(c.filters) }
