package oitproc

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/overitall/overitall/internal/logrecord"
)

// FileTailer streams the lines of a configured log file into the ingest
// channel: the content already present when the file is first opened,
// then each newly appended line. It watches the file's parent directory
// so a file that does not exist yet is picked up the moment it appears.
//
// Grounded on fsnotify's event-loop usage in kdlbs-kandev's
// workspace_monitor.go, adapted from directory-change debouncing to
// line-level tailing.
type FileTailer struct {
	Name string
	Path string

	ingest chan<- logrecord.LogRecord
}

// NewFileTailer returns a tailer for path, tagging every emitted record
// with name as its display source.
func NewFileTailer(name, path string, ingest chan<- logrecord.LogRecord) *FileTailer {
	return &FileTailer{Name: name, Path: path, ingest: ingest}
}

// Run watches Path and emits a LogRecord per line, starting with the
// file's existing content, until ctx is cancelled. It tolerates the file
// not existing yet; while its parent directory does not exist either, it
// polls for the directory every 500ms. It tolerates truncation (e.g. log
// rotation) by reopening from the start.
func (t *FileTailer) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(t.Path)
	for {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	var (
		f      *os.File
		reader *bufio.Reader
		offset int64
	)

	openIfPresent := func() {
		if f != nil {
			return
		}
		opened, err := os.Open(t.Path)
		if err != nil {
			return
		}
		f = opened
		reader = bufio.NewReader(f)
		offset = 0
	}

	drain := func() {
		openIfPresent()
		if f == nil {
			return
		}

		info, err := f.Stat()
		if err == nil && info.Size() < offset {
			// Truncated or rotated: reopen from the start.
			f.Close()
			f = nil
			reader = nil
			openIfPresent()
		}
		if f == nil {
			return
		}

		for {
			line, err := reader.ReadString('\n')
			if len(line) > 0 {
				offset += int64(len(line))
				content := line
				if n := len(content); n > 0 && content[n-1] == '\n' {
					content = content[:n-1]
				}
				t.ingest <- logrecord.New(
					logrecord.Source{Kind: logrecord.SourceTailedFile, Name: t.Name, Path: t.Path},
					content,
				)
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				return
			}
		}
	}

	drain()

	for {
		select {
		case <-ctx.Done():
			if f != nil {
				f.Close()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != t.Path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				drain()
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
