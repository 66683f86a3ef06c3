package logrecord

// RingBuffer is a bounded FIFO of LogRecord with two independent caps: a
// max record count and a max total content byte count (spec §3, §4.2).
// IDs are assigned at construction time (logrecord.New), outside the
// buffer, so eviction never causes renumbering (spec §4.2 invariant).
type RingBuffer struct {
	records    []LogRecord
	maxRecords int
	maxBytes   int
	totalBytes int
}

// NewRingBuffer constructs a buffer bounded by maxRecords and maxBytes.
// maxRecords == 0 is treated as "keep exactly the most recent record"
// rather than "always empty" (decided Open Question, SPEC_FULL.md §14):
// a ring buffer than can never hold anything would make live-tail
// permanently blank.
func NewRingBuffer(maxRecords, maxBytes int) *RingBuffer {
	return &RingBuffer{
		maxRecords: maxRecords,
		maxBytes:   maxBytes,
	}
}

// Push appends a record, evicting from the head until both caps hold.
func (b *RingBuffer) Push(r LogRecord) {
	b.records = append(b.records, r)
	b.totalBytes += len(r.Content)
	b.evict()
}

func (b *RingBuffer) evict() {
	effectiveMax := b.maxRecords
	if effectiveMax == 0 {
		effectiveMax = 1
	}
	for len(b.records) > 0 && (len(b.records) > effectiveMax || (b.maxBytes > 0 && b.totalBytes > b.maxBytes)) {
		head := b.records[0]
		b.records = b.records[1:]
		b.totalBytes -= len(head.Content)
	}
}

// GetAll returns every retained record, oldest first. The returned slice
// is a fresh copy so callers (e.g. a view snapshot) are immune to
// subsequent evictions.
func (b *RingBuffer) GetAll() []LogRecord {
	out := make([]LogRecord, len(b.records))
	copy(out, b.records)
	return out
}

// GetLast returns the most recent n records, oldest first.
func (b *RingBuffer) GetLast(n int) []LogRecord {
	if n <= 0 || len(b.records) == 0 {
		return nil
	}
	if n >= len(b.records) {
		return b.GetAll()
	}
	start := len(b.records) - n
	out := make([]LogRecord, n)
	copy(out, b.records[start:])
	return out
}

// ByteTotal returns the sum of content bytes currently retained.
func (b *RingBuffer) ByteTotal() int { return b.totalBytes }

// RecordCount returns the number of records currently retained.
func (b *RingBuffer) RecordCount() int { return len(b.records) }

// Limits returns the configured (maxRecords, maxBytes) caps.
func (b *RingBuffer) Limits() (int, int) { return b.maxRecords, b.maxBytes }
