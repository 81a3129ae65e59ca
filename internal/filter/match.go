package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

// Keyword matches messages containing a substring.
type Keyword string

func (k Keyword) Match(e *entry.LogEntry) bool { return strings.Contains(e.Message, string(k)) }
func (k Keyword) Name() string                 { return "keyword:" + string(k) }

// Regex matches messages against a compiled expression.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles pattern once for all later matches.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return &Regex{re: re}, nil
}

func (r *Regex) Match(e *entry.LogEntry) bool { return r.re.MatchString(e.Message) }
func (r *Regex) Name() string                 { return "regex:" + r.re.String() }

// Build assembles a chain from keyword, regex and exclude settings.
func Build(keywords []string, regex string, excludes []string, matchAll bool) (*Chain, error) {
	mode := MatchAny
	if matchAll {
		mode = MatchAll
	}
	c := NewChain(mode)
	for _, k := range keywords {
		if k != "" {
			c.Add(Keyword(k))
		}
	}
	if regex != "" {
		re, err := NewRegex(regex)
		if err != nil {
			return nil, err
		}
		c.Add(re)
	}
	for _, x := range excludes {
		if x != "" {
			c.Exclude(Keyword(x))
		}
	}
	return c, nil
}
