package oitipc

// StateSnapshot is the read-only view of the running supervisor that the
// handler consults to answer introspection commands. The event loop
// builds one fresh snapshot per IPC tick; the handler never mutates it.
type StateSnapshot struct {
	Processes        []ProcessInfo
	LogFiles         []string
	FilterCount      int
	ActiveFilters    []FilterInfo
	SearchPattern    string
	HasSearchPattern bool
	ViewMode         ViewModeInfo
	AutoScroll       bool
	LogCount         int
	BufferStats      BufferStats
	TraceRecording   bool
	ActiveTraceID    string
	RecentLogs       []LogLineInfo
	TotalLogLines    int
	HiddenProcesses  []string
	Groups           map[string][]string
}

// ProcessInfo describes one supervised process for IPC responses.
type ProcessInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// FilterInfo describes one active include/exclude filter.
type FilterInfo struct {
	Pattern    string `json:"pattern"`
	FilterType string `json:"filter_type"`
}

// ViewModeInfo mirrors the view-state flags a CLI client cares about.
type ViewModeInfo struct {
	Frozen         bool `json:"frozen"`
	BatchView      bool `json:"batch_view"`
	TraceFilter    bool `json:"trace_filter"`
	TraceSelection bool `json:"trace_selection"`
	Compact        bool `json:"compact"`
}

// LogLineInfo is one record as surfaced over IPC.
type LogLineInfo struct {
	ID        uint64 `json:"id"`
	Process   string `json:"process"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	BatchID   *int   `json:"batch_id,omitempty"`
	Level     string `json:"level,omitempty"`
}

// BufferStats reports ring-buffer occupancy for the status command.
type BufferStats struct {
	BufferBytes    int     `json:"buffer_bytes"`
	MaxBufferBytes int     `json:"max_buffer_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
}
