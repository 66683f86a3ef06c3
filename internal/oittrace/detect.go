// Package oittrace detects correlation/trace tokens shared across log
// lines (spec §4.10) so an operator can pivot from one line to every
// other line carrying the same request/trace id.
//
// Grounded on original_source/src/traces/detection.rs: the same four
// token classes, tried in the same order, the same burstiness rejection,
// and the same minimum-occurrence threshold.
package oittrace

import (
	"regexp"
	"sort"
	"time"

	"github.com/overitall/overitall/internal/logrecord"
)

var (
	uuidRegex            = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	longNumericRegex      = regexp.MustCompile(`\b\d{15,}\b`)
	longHexRegex          = regexp.MustCompile(`\b[0-9a-fA-F]{20,}\b`)
	longAlphanumericRegex = regexp.MustCompile(`\b[a-zA-Z0-9]{16,}\b`)

	tokenClasses = []*regexp.Regexp{uuidRegex, longNumericRegex, longHexRegex, longAlphanumericRegex}

	// minOccurrences is the minimum number of lines a token must appear in
	// to be considered a trace candidate at all.
	minOccurrences = 3

	// burstyRejectRatio: a token whose first/last occurrence span covers
	// more than this fraction of the whole buffer's time span is treated
	// as an ambient constant (build id, host id, ...) rather than a trace
	// correlating one request, and is rejected.
	burstyRejectRatio = 0.8
)

// extractTokens returns every distinct token found in content, trying
// token classes in order (UUID, long numeric, long hex, long
// alphanumeric) and skipping any token string already seen in an
// earlier, more specific class.
func extractTokens(content string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, re := range tokenClasses {
		for _, match := range re.FindAllString(content, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			tokens = append(tokens, match)
		}
	}
	return tokens
}

// Candidate is a detected trace token with its occurrence statistics and
// a preview of the first line it was seen in (spec §3 TraceCandidate,
// §4.10), matching original_source/src/traces/detection.rs's
// context_preview.
type Candidate struct {
	Token           string
	Count           int
	FirstOccurrence time.Time
	LastOccurrence  time.Time
	Preview         string
}

// Detect scans records and returns surviving trace candidates, sorted by
// FirstOccurrence descending (most recently started trace first).
//
// Aggregation keys on ArrivalTimestamp rather than OriginTimestamp: a
// parsing stage may rewrite OriginTimestamp from line content (spec §3),
// which would let unrelated upstream clock skew distort the burstiness
// span; ArrivalTimestamp is always this process's own monotonic capture
// time, matching the original's arrival_time.
func Detect(records []logrecord.LogRecord) []Candidate {
	if len(records) == 0 {
		return nil
	}

	type agg struct {
		count   int
		first   time.Time
		last    time.Time
		preview string
	}
	byToken := make(map[string]*agg)

	bufferStart := records[0].ArrivalTimestamp
	bufferEnd := records[0].ArrivalTimestamp
	for _, r := range records {
		if r.ArrivalTimestamp.Before(bufferStart) {
			bufferStart = r.ArrivalTimestamp
		}
		if r.ArrivalTimestamp.After(bufferEnd) {
			bufferEnd = r.ArrivalTimestamp
		}

		for _, tok := range extractTokens(r.Content) {
			a, ok := byToken[tok]
			if !ok {
				a = &agg{count: 0, first: r.ArrivalTimestamp, last: r.ArrivalTimestamp, preview: r.Content}
				byToken[tok] = a
			}
			a.count++
			if r.ArrivalTimestamp.Before(a.first) {
				a.first = r.ArrivalTimestamp
				a.preview = r.Content
			}
			if r.ArrivalTimestamp.After(a.last) {
				a.last = r.ArrivalTimestamp
			}
		}
	}

	totalSpan := bufferEnd.Sub(bufferStart)

	var out []Candidate
	for tok, a := range byToken {
		if a.count < minOccurrences {
			continue
		}
		if isBursty(a.first, a.last, totalSpan) {
			continue
		}
		out = append(out, Candidate{
			Token:           tok,
			Count:           a.count,
			FirstOccurrence: a.first,
			LastOccurrence:  a.last,
			Preview:         a.preview,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].FirstOccurrence.After(out[j].FirstOccurrence)
	})

	return out
}

// isBursty rejects tokens whose occurrence span covers too much of the
// buffer's own time span to plausibly be a single request/trace id.
func isBursty(first, last time.Time, totalSpan time.Duration) bool {
	if totalSpan <= 0 {
		return false
	}
	spanRatio := float64(last.Sub(first)) / float64(totalSpan)
	return spanRatio > burstyRejectRatio
}
