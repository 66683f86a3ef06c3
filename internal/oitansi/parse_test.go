package oitansi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_PlainTextSingleSpan(t *testing.T) {
	result := Parse("hello world")
	assert.Len(t, result.Spans, 1)
	assert.Equal(t, "hello world", result.Spans[0].Text)
	assert.Equal(t, Style{}, result.Spans[0].Style)
}

func TestParse_SingleColorRun(t *testing.T) {
	result := Parse("\x1b[31merror\x1b[0m plain")
	assert.Len(t, result.Spans, 2)
	assert.Equal(t, "error", result.Spans[0].Text)
	assert.Equal(t, "red", result.Spans[0].Style.Fg)
	assert.Equal(t, " plain", result.Spans[1].Text)
	assert.Equal(t, Style{}, result.Spans[1].Style)
}

func TestParse_CombinedBoldAndColor(t *testing.T) {
	result := Parse("\x1b[1;32mok\x1b[0m")
	assert.Len(t, result.Spans, 1)
	assert.Equal(t, "ok", result.Spans[0].Text)
	assert.True(t, result.Spans[0].Style.Bold)
	assert.Equal(t, "green", result.Spans[0].Style.Fg)
}

func TestParse_StyleCarriesAcrossMultipleRunsUntilReset(t *testing.T) {
	result := Parse("\x1b[34mfirst second\x1b[0mthird")
	require := assert.New(t)
	require.Len(result.Spans, 2)
	require.Equal("first second", result.Spans[0].Text)
	require.Equal("blue", result.Spans[0].Style.Fg)
	require.Equal("third", result.Spans[1].Text)
	require.Equal("", result.Spans[1].Style.Fg)
}

func TestParse_BackgroundAndForegroundTogether(t *testing.T) {
	result := Parse("\x1b[41;37mbanner\x1b[0m")
	assert.Equal(t, "white", result.Spans[0].Style.Fg)
	assert.Equal(t, "red", result.Spans[0].Style.Bg)
}

func TestParse_UnrecognizedEscapeFallsBackToStripped(t *testing.T) {
	result := Parse("\x1b[2Jcleared")
	assert.Len(t, result.Spans, 1)
	assert.Equal(t, "cleared", result.Spans[0].Text)
}

func TestParse_EmptyString(t *testing.T) {
	result := Parse("")
	assert.Len(t, result.Spans, 1)
	assert.Equal(t, "", result.Spans[0].Text)
}

func TestApplyOverrides_OverridesOnlyNonEmptyChannels(t *testing.T) {
	cached := CachedSpans{Spans: []Span{{Text: "x", Style: Style{Fg: "red", Bg: "black"}}}}

	out := ApplyOverrides(cached, "", "yellow")
	assert.Equal(t, "yellow", out[0].Style.Fg)
	assert.Equal(t, "black", out[0].Style.Bg, "bg left untouched when override is empty")

	untouched := ApplyOverrides(cached, "", "")
	assert.Equal(t, cached.Spans[0].Style, untouched[0].Style)
}
