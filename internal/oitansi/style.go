// Package oitansi caches the parse of ANSI/SGR-styled log content into
// reusable styled spans, so the render pipeline pays the parsing cost
// once per record instead of once per frame (spec §4.6).
//
// Grounded on original_source/src/ui/ansi_cache.rs: the same
// (log_id, compact_mode) cache key, the same half-eviction policy at the
// size cap, and the same get_or_parse/apply_overrides contract. Escape
// stripping in Parse's fallback path uses charmbracelet/x/ansi's Strip (an
// indirect dependency of the pack's ehrlich-b-wingthing, which pulls it
// in via charmbracelet/x/vt's terminal emulation); the run-by-run SGR
// decomposition itself has no ready-made library entry point at this
// cache's granularity, so it's hand-rolled, same as the original's own
// permissive parser.
package oitansi

// Style is the subset of SGR attributes the render pipeline needs.
type Style struct {
	Fg        string
	Bg        string
	Bold      bool
	Italic    bool
	Underline bool
}

// Span is one run of text sharing a single Style.
type Span struct {
	Text  string
	Style Style
}

// CachedSpans is the parse result for one record's content.
type CachedSpans struct {
	Spans []Span
}

// ApplyOverrides materializes a render-ready set of spans from cached,
// optionally overriding every span's background and/or foreground (used
// for selection highlight and search-match highlight). An empty override
// string leaves that channel untouched.
func ApplyOverrides(cached CachedSpans, bg, fg string) []Span {
	if bg == "" && fg == "" {
		out := make([]Span, len(cached.Spans))
		copy(out, cached.Spans)
		return out
	}
	out := make([]Span, len(cached.Spans))
	for i, sp := range cached.Spans {
		style := sp.Style
		if bg != "" {
			style.Bg = bg
		}
		if fg != "" {
			style.Fg = fg
		}
		out[i] = Span{Text: sp.Text, Style: style}
	}
	return out
}
