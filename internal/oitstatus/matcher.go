// Package oitstatus implements the per-process status line matcher (spec
// §4.11): an ordered table of regexes that, on first match, overrides the
// process panel's displayed label/color until the next match supersedes
// it.
//
// Grounded on original_source/src/status_matcher.rs: the same ordered,
// first-match-wins transition table and default/reset semantics.
package oitstatus

import "regexp"

// Transition is one configured status rule: when Pattern matches a line
// of output, the process's displayed status becomes Label/Color.
type Transition struct {
	Pattern string
	Label   string
	Color   string
}

type compiledTransition struct {
	re    *regexp.Regexp
	label string
	color string
}

// Config is the status-matching configuration for one process (spec §6's
// [processes.<name>.status] table).
type Config struct {
	Default     string
	DefaultColor string
	Transitions []Transition
}

// Matcher tracks the live display status for a single process, updated
// line by line as output arrives.
type Matcher struct {
	defaultLabel string
	defaultColor string
	transitions  []compiledTransition

	currentLabel string
	currentColor string
}

// New compiles cfg into a Matcher initialized to its default status.
// Transitions with an unparseable regex are skipped rather than causing
// a startup failure, since a status table is a display nicety, not a
// safety property.
func New(cfg Config) *Matcher {
	m := &Matcher{
		defaultLabel: cfg.Default,
		defaultColor: cfg.DefaultColor,
	}
	for _, t := range cfg.Transitions {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			continue
		}
		m.transitions = append(m.transitions, compiledTransition{re: re, label: t.Label, color: t.Color})
	}
	m.Reset()
	return m
}

// CheckLine evaluates line against the transition table in order and, on
// the first match, updates the current display status. Returns whether a
// transition matched.
func (m *Matcher) CheckLine(line string) bool {
	for _, t := range m.transitions {
		if t.re.MatchString(line) {
			m.currentLabel = t.label
			m.currentColor = t.color
			return true
		}
	}
	return false
}

// GetDisplayStatus returns the current label/color to render on the
// process panel.
func (m *Matcher) GetDisplayStatus() (label, color string) {
	return m.currentLabel, m.currentColor
}

// Reset returns the matcher to its configured default status, e.g. when
// a process restarts.
func (m *Matcher) Reset() {
	m.currentLabel = m.defaultLabel
	m.currentColor = m.defaultColor
}
