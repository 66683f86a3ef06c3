package oitansi

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var sgrRe = regexp.MustCompile("\x1b\\[([0-9;]*)m")

var fgColors = map[int]string{
	30: "black", 31: "red", 32: "green", 33: "yellow",
	34: "blue", 35: "magenta", 36: "cyan", 37: "white",
	90: "bright-black", 91: "bright-red", 92: "bright-green", 93: "bright-yellow",
	94: "bright-blue", 95: "bright-magenta", 96: "bright-cyan", 97: "bright-white",
}

var bgColors = map[int]string{
	40: "black", 41: "red", 42: "green", 43: "yellow",
	44: "blue", 45: "magenta", 46: "cyan", 47: "white",
	100: "bright-black", 101: "bright-red", 102: "bright-green", 103: "bright-yellow",
	104: "bright-blue", 105: "bright-magenta", 106: "bright-cyan", 107: "bright-white",
}

// Parse converts text, which may contain SGR escape sequences, into a
// sequence of (run, style) spans. It is permissive: any unexpected
// failure falls back to a single plain span carrying the original text
// unmodified (spec §4.6 Parse).
func Parse(text string) (result CachedSpans) {
	defer func() {
		if recover() != nil {
			result = CachedSpans{Spans: []Span{{Text: text}}}
		}
	}()

	matches := sgrRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if !strings.ContainsRune(text, '\x1b') {
			return CachedSpans{Spans: []Span{{Text: text}}}
		}
		// Contains escape sequences our SGR regexp didn't recognize
		// (cursor movement, OSC, etc.) — strip them rather than leak
		// control bytes into the terminal grid.
		return CachedSpans{Spans: []Span{{Text: ansi.Strip(text)}}}
	}

	var spans []Span
	var current Style
	pos := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		paramStart, paramEnd := m[2], m[3]

		if start > pos {
			spans = append(spans, Span{Text: text[pos:start], Style: current})
		}

		applySGR(&current, text[paramStart:paramEnd])
		pos = end
	}
	if pos < len(text) {
		spans = append(spans, Span{Text: text[pos:], Style: current})
	}
	if len(spans) == 0 {
		spans = append(spans, Span{Text: ""})
	}

	return CachedSpans{Spans: spans}
}

func applySGR(style *Style, params string) {
	if params == "" {
		*style = Style{}
		return
	}
	for _, p := range strings.Split(params, ";") {
		code, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch {
		case code == 0:
			*style = Style{}
		case code == 1:
			style.Bold = true
		case code == 3:
			style.Italic = true
		case code == 4:
			style.Underline = true
		case code == 22:
			style.Bold = false
		case code == 23:
			style.Italic = false
		case code == 24:
			style.Underline = false
		case code == 39:
			style.Fg = ""
		case code == 49:
			style.Bg = ""
		default:
			if name, ok := fgColors[code]; ok {
				style.Fg = name
			} else if name, ok := bgColors[code]; ok {
				style.Bg = name
			}
		}
	}
}
