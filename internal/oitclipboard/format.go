package oitclipboard

import (
	"fmt"
	"strings"

	"github.com/overitall/overitall/internal/logrecord"
)

const timestampLayout = "2006-01-02 15:04:05"

// FormatRecord renders one record in the clipboard copy shape from
// spec §6: "[YYYY-MM-DD HH:MM:SS] <process>: <content>".
func FormatRecord(r logrecord.LogRecord) string {
	return fmt.Sprintf("[%s] %s: %s", r.OriginTimestamp.Format(timestampLayout), r.Source.ProcessName(), r.Content)
}

// FormatRecords joins each record's formatted line, one per line.
func FormatRecords(records []logrecord.LogRecord) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = FormatRecord(r)
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatBatch renders a batch's "contextual copy" text: a header line
// naming the batch and line count, followed by every record in it.
func FormatBatch(batchNumber int, records []logrecord.LogRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Batch %d (%d lines) ===\n", batchNumber, len(records))
	b.WriteString(FormatRecords(records))
	return b.String()
}
