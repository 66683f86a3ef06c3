// Package oitclipboard copies rendered log text to the system clipboard.
//
// Grounded on original_source/src/clipboard.rs, which wraps a clipboard
// crate in three lines; no pack repo imports an equivalent Go clipboard
// library, so this shells out to whichever platform clipboard tool is on
// PATH, the same approach the original's own crate takes one layer down.
package oitclipboard

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"
)

// candidate is one clipboard command to try, in preference order for its
// platform.
type candidate struct {
	name string
	args []string
}

func candidatesFor(goos string) []candidate {
	switch goos {
	case "darwin":
		return []candidate{{"pbcopy", nil}}
	case "windows":
		return []candidate{{"clip", nil}}
	default:
		return []candidate{
			{"wl-copy", nil},
			{"xclip", []string{"-selection", "clipboard"}},
			{"xsel", []string{"--clipboard", "--input"}},
		}
	}
}

// Copy writes text to the system clipboard by shelling out to the first
// available platform tool. Returns an error naming every tool tried if
// none are on PATH or all fail.
func Copy(text string) error {
	candidates := candidatesFor(runtime.GOOS)

	var tried []string
	for _, c := range candidates {
		path, err := exec.LookPath(c.name)
		if err != nil {
			continue
		}
		tried = append(tried, c.name)

		cmd := exec.Command(path, c.args...)
		cmd.Stdin = bytes.NewReader([]byte(text))
		if err := cmd.Run(); err != nil {
			continue
		}
		return nil
	}

	if len(tried) == 0 {
		return fmt.Errorf("oitclipboard: no clipboard tool found on PATH for %s", runtime.GOOS)
	}
	return fmt.Errorf("oitclipboard: all candidate clipboard tools failed: %v", tried)
}
