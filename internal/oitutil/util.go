// Package oitutil holds small formatting and string helpers shared across
// overitall's packages, in the spirit of lazydocker's pkg/utils.
package oitutil

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/jesseduffield/gocui"
	"github.com/mattn/go-runewidth"
)

var ansiRe = regexp.MustCompile(`\x1B\[([0-9]{1,2}(;[0-9]{1,2})*)?[mK]`)

// Decolorise strips SGR/erase escape sequences from a string.
func Decolorise(str string) string {
	return ansiRe.ReplaceAllString(str, "")
}

// WithPadding pads str with spaces up to the given display width, measuring
// width on the decolorised string so ANSI-styled content still aligns.
func WithPadding(str string, padding int) string {
	uncolored := Decolorise(str)
	w := runewidth.StringWidth(uncolored)
	if padding < w {
		return str
	}
	return str + strings.Repeat(" ", padding-w)
}

// SafeTruncate truncates str to at most limit bytes.
func SafeTruncate(str string, limit int) string {
	if len(str) > limit {
		return str[:limit]
	}
	return str
}

// TruncateToWidth truncates str to at most width terminal cells, accounting
// for double-width runes, appending suffix when truncation occurred.
func TruncateToWidth(str string, width int, suffix string) string {
	if runewidth.StringWidth(str) <= width {
		return str
	}
	avail := width - runewidth.StringWidth(suffix)
	if avail < 0 {
		avail = 0
	}
	return runewidth.Truncate(str, avail, "") + suffix
}

// ColoredString renders str with the given fatih/color attribute.
func ColoredString(str string, attr color.Attribute) string {
	if attr == color.FgWhite {
		return str
	}
	return color.New(attr).SprintFunc()(str)
}

// FormatBinaryBytes renders a byte count using binary (1024-based) units, as
// used for ring-buffer usage reporting.
func FormatBinaryBytes(b int) string {
	n := float64(b)
	units := []string{"B", "kiB", "MiB", "GiB", "TiB"}
	for _, unit := range units {
		if n > math.Pow(2, 10) {
			n /= math.Pow(2, 10)
		} else {
			val := fmt.Sprintf("%.2f%s", n, unit)
			if val == "0.00B" {
				return "0B"
			}
			return val
		}
	}
	return "a lot"
}

// GetGocuiAttribute maps a named color from config into a gocui attribute.
func GetGocuiAttribute(key string) gocui.Attribute {
	colorMap := map[string]gocui.Attribute{
		"default":   gocui.ColorDefault,
		"black":     gocui.ColorBlack,
		"red":       gocui.ColorRed,
		"green":     gocui.ColorGreen,
		"yellow":    gocui.ColorYellow,
		"blue":      gocui.ColorBlue,
		"magenta":   gocui.ColorMagenta,
		"cyan":      gocui.ColorCyan,
		"white":     gocui.ColorWhite,
		"gray":      gocui.ColorWhite,
		"grey":      gocui.ColorWhite,
		"bold":      gocui.AttrBold,
		"reverse":   gocui.AttrReverse,
		"underline": gocui.AttrUnderline,
	}
	lower := strings.ToLower(key)
	if base, ok := strings.CutPrefix(lower, "bright-"); ok {
		if v, ok := colorMap[base]; ok {
			return v | gocui.AttrBold
		}
	}
	if v, ok := colorMap[lower]; ok {
		return v
	}
	return gocui.ColorDefault
}

// GetColorAttribute maps a named color into a fatih/color attribute, used
// for log-span foreground colors and process-panel status dots.
func GetColorAttribute(key string) color.Attribute {
	colorMap := map[string]color.Attribute{
		"default": color.FgWhite,
		"black":   color.FgBlack,
		"red":     color.FgRed,
		"green":   color.FgGreen,
		"yellow":  color.FgYellow,
		"blue":    color.FgBlue,
		"magenta": color.FgMagenta,
		"cyan":    color.FgCyan,
		"white":   color.FgWhite,
	}
	if v, ok := colorMap[strings.ToLower(key)]; ok {
		return v
	}
	return color.FgWhite
}

// SplitLines splits a multiline string into lines, normalizing CRLF and
// dropping a single trailing empty line.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
