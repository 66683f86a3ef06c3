// Package oitfilter implements the include/exclude substring filters,
// search-as-filter, process visibility, and trace-window filtering
// described in spec §4.3. Matching is case-insensitive substring only
// (spec Non-goals explicitly rule out regex filtering).
package oitfilter

import (
	"strings"
	"time"

	"github.com/overitall/overitall/internal/logrecord"
)

// Kind distinguishes an include filter (only matching lines survive,
// unless there are no include filters at all) from an exclude filter
// (any match drops the line).
type Kind int

const (
	Include Kind = iota
	Exclude
)

// Filter is one configured substring pattern.
type Filter struct {
	Pattern string
	Kind    Kind
}

// Matches reports whether content contains Pattern, case-insensitively.
func (f Filter) Matches(content string) bool {
	return strings.Contains(strings.ToLower(content), strings.ToLower(f.Pattern))
}

// TraceFilter narrows the view to records correlated with a single trace
// token (spec §4.10), optionally expanding the window by a time margin on
// either side so surrounding context is visible.
type TraceFilter struct {
	Active       bool
	Token        string
	Start        time.Time
	End          time.Time
	ExpandBefore time.Duration
	ExpandAfter  time.Duration
}

// Input bundles everything the evaluator needs per spec §4.3's contract:
// apply(records, filters, search_pattern, hidden_processes, trace_filter).
type Input struct {
	Filters           []Filter
	SearchPattern     string
	HiddenProcesses   map[string]struct{}
	Trace             TraceFilter
	FrozenAt          *time.Time // non-nil iff frozen with no snapshot (freeze guard, spec §4.3)
}

// Apply evaluates every record against in.Filters, the search pattern,
// process visibility, the freeze guard, and the trace filter, in the
// order spec §4.3 specifies, returning the surviving records in order.
func Apply(records []logrecord.LogRecord, in Input) []logrecord.LogRecord {
	out := make([]logrecord.LogRecord, 0, len(records))
	searchLower := strings.ToLower(in.SearchPattern)

	var includeFilters, excludeFilters []Filter
	for _, f := range in.Filters {
		switch f.Kind {
		case Include:
			includeFilters = append(includeFilters, f)
		case Exclude:
			excludeFilters = append(excludeFilters, f)
		}
	}

	for _, r := range records {
		if in.FrozenAt != nil && r.OriginTimestamp.After(*in.FrozenAt) {
			continue
		}

		excluded := false
		for _, f := range excludeFilters {
			if f.Matches(r.Content) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		if len(includeFilters) > 0 {
			matched := false
			for _, f := range includeFilters {
				if f.Matches(r.Content) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}

		if in.HiddenProcesses != nil {
			if _, hidden := in.HiddenProcesses[r.Source.ProcessName()]; hidden {
				continue
			}
		}

		if searchLower != "" && !strings.Contains(r.Lowercase(), searchLower) {
			continue
		}

		if in.Trace.Active {
			if !traceKeep(r, in.Trace) {
				continue
			}
		}

		out = append(out, r)
	}

	return out
}

func traceKeep(r logrecord.LogRecord, tf TraceFilter) bool {
	if strings.Contains(r.Content, tf.Token) {
		return true
	}
	if tf.ExpandBefore > 0 || tf.ExpandAfter > 0 {
		windowStart := tf.Start.Add(-tf.ExpandBefore)
		windowEnd := tf.End.Add(tf.ExpandAfter)
		if !r.ArrivalTimestamp.Before(windowStart) && !r.ArrivalTimestamp.After(windowEnd) {
			return true
		}
	}
	return false
}
