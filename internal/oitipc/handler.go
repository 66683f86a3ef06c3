package oitipc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Handler answers IPC commands. It is a pure function of
// (Request, *StateSnapshot): given the same inputs it always returns the
// same Result, so it never touches the supervisor or view state directly
// — mutation happens later, when the event loop applies the returned
// Actions (spec §4.8 Handler semantics).
type Handler struct {
	Version string
}

// NewHandler builds a Handler that reports version in status responses.
func NewHandler(version string) *Handler {
	return &Handler{Version: version}
}

// Handle dispatches request against snapshot (nil if no supervisor is
// running yet) and returns the response plus any deferred actions.
func (h *Handler) Handle(req Request, snapshot *StateSnapshot) Result {
	switch req.Command {
	case "ping":
		return responseOnly(OK(map[string]any{"pong": true}))
	case "status":
		return responseOnly(h.handleStatus(snapshot))
	case "processes":
		return responseOnly(h.handleProcesses(snapshot))
	case "logs":
		return responseOnly(h.handleLogs(req, snapshot))
	case "search":
		return h.handleSearch(req, snapshot)
	case "select":
		return h.handleSelect(req)
	case "context":
		return responseOnly(h.handleContext(req, snapshot))
	case "goto":
		return h.handleGoto(req, snapshot)
	case "scroll":
		return h.handleScroll(req)
	case "freeze":
		return h.handleFreeze(req)
	case "filters":
		return responseOnly(h.handleFilters(snapshot))
	case "filter_add":
		return h.handleFilterAdd(req)
	case "filter_remove":
		return h.handleFilterRemove(req)
	case "filter_clear":
		return withActions(OKEmpty(), Action{Kind: ActionFilterClear})
	case "visibility":
		return responseOnly(h.handleVisibility(snapshot))
	case "hide":
		return h.handleHide(req)
	case "show":
		return h.handleShow(req)
	case "restart":
		return h.handleProcessControl(req, ActionRestartProcess)
	case "kill":
		return h.handleProcessControl(req, ActionKillProcess)
	case "start":
		return h.handleProcessControl(req, ActionStartProcess)
	case "errors":
		return responseOnly(h.handleErrors(req, snapshot))
	case "summary":
		return responseOnly(h.handleSummary(snapshot))
	case "batch":
		return h.handleBatch(req)
	case "trace":
		return responseOnly(h.handleTrace(snapshot))
	case "help":
		return responseOnly(OK(map[string]any{"commands": commandList}))
	default:
		return responseOnly(Err(fmt.Sprintf("unknown command: %s", req.Command)))
	}
}

var commandList = []string{
	"ping", "status", "processes", "logs", "search", "select", "context",
	"goto", "scroll", "freeze", "filters", "filter_add", "filter_remove",
	"filter_clear", "visibility", "hide", "show", "restart", "kill",
	"start", "errors", "summary", "batch", "trace", "help",
}

func (h *Handler) handleStatus(snapshot *StateSnapshot) Response {
	if snapshot == nil {
		return OK(map[string]any{"version": h.Version, "running": true})
	}
	return OK(map[string]any{
		"version":         h.Version,
		"running":         true,
		"process_count":   len(snapshot.Processes),
		"filter_count":    snapshot.FilterCount,
		"log_count":       snapshot.LogCount,
		"auto_scroll":     snapshot.AutoScroll,
		"trace_recording": snapshot.TraceRecording,
		"view_mode": map[string]any{
			"frozen":       snapshot.ViewMode.Frozen,
			"batch_view":   snapshot.ViewMode.BatchView,
			"trace_filter": snapshot.ViewMode.TraceFilter,
			"compact":      snapshot.ViewMode.Compact,
		},
		"buffer": map[string]any{
			"bytes":          snapshot.BufferStats.BufferBytes,
			"max_bytes":      snapshot.BufferStats.MaxBufferBytes,
			"usage_percent":  snapshot.BufferStats.UsagePercent,
		},
	})
}

func (h *Handler) handleProcesses(snapshot *StateSnapshot) Response {
	if snapshot == nil {
		return OK(map[string]any{"processes": []ProcessInfo{}})
	}
	return OK(map[string]any{"processes": snapshot.Processes})
}

type logsArgs struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

func (h *Handler) handleLogs(req Request, snapshot *StateSnapshot) Response {
	args := logsArgs{Limit: 100}
	decodeArgs(req.Args, &args)
	if snapshot == nil {
		return OK(map[string]any{"logs": []LogLineInfo{}, "total": 0})
	}
	page := paginate(snapshot.RecentLogs, args.Offset, args.Limit)
	return OK(map[string]any{"logs": page, "total": snapshot.TotalLogLines})
}

type searchArgs struct {
	Pattern       string `json:"pattern"`
	Limit         int    `json:"limit,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
}

func (h *Handler) handleSearch(req Request, snapshot *StateSnapshot) Result {
	var args searchArgs
	decodeArgs(req.Args, &args)
	if args.Pattern == "" {
		return responseOnly(Err("search requires a pattern"))
	}

	var matches []LogLineInfo
	if snapshot != nil {
		needle := args.Pattern
		for _, line := range snapshot.RecentLogs {
			haystack := line.Content
			if !args.CaseSensitive {
				haystack = strings.ToLower(haystack)
				needle = strings.ToLower(args.Pattern)
			}
			if strings.Contains(haystack, needle) {
				matches = append(matches, line)
				if args.Limit > 0 && len(matches) >= args.Limit {
					break
				}
			}
		}
	}

	resp := OK(map[string]any{"matches": matches, "count": len(matches)})
	return withActions(resp, Action{Kind: ActionSetSearch, Pattern: args.Pattern})
}

type idArgs struct {
	ID uint64 `json:"id"`
}

func (h *Handler) handleSelect(req Request) Result {
	var args idArgs
	if err := decodeArgs(req.Args, &args); err != nil {
		return responseOnly(Err("select requires an id"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionSelectAndExpand, ID: args.ID, HasID: true})
}

type contextArgs struct {
	ID     uint64 `json:"id"`
	Before int    `json:"before,omitempty"`
	After  int    `json:"after,omitempty"`
}

func (h *Handler) handleContext(req Request, snapshot *StateSnapshot) Response {
	var args contextArgs
	args.Before, args.After = 5, 5
	if err := decodeArgs(req.Args, &args); err != nil {
		return Err("context requires an id")
	}
	if snapshot == nil {
		return OK(map[string]any{"lines": []LogLineInfo{}})
	}
	idx := -1
	for i, l := range snapshot.RecentLogs {
		if l.ID == args.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Err(fmt.Sprintf("no log line with id %d in the retained window", args.ID))
	}
	start := idx - args.Before
	if start < 0 {
		start = 0
	}
	end := idx + args.After + 1
	if end > len(snapshot.RecentLogs) {
		end = len(snapshot.RecentLogs)
	}
	return OK(map[string]any{"lines": snapshot.RecentLogs[start:end]})
}

type gotoArgs struct {
	Target string `json:"target"`
}

// handleGoto mirrors the original's goto_timestamp: a numeric target that
// names no retained log line is an error, and the view does not move (spec
// §8 Boundary behaviors). A non-numeric target (e.g. a time) is not
// checked: it gets a success response and its action leaves the view
// unmoved, since applyGoto resolves numeric IDs only.
func (h *Handler) handleGoto(req Request, snapshot *StateSnapshot) Result {
	var args gotoArgs
	if err := decodeArgs(req.Args, &args); err != nil || args.Target == "" {
		return responseOnly(Err("goto requires an id or timestamp"))
	}
	action := Action{Kind: ActionGoto, TargetRaw: args.Target}
	if id, err := strconv.ParseUint(args.Target, 10, 64); err == nil {
		found := false
		if snapshot != nil {
			for _, l := range snapshot.RecentLogs {
				if l.ID == id {
					found = true
					break
				}
			}
		}
		if !found {
			return responseOnly(Err(fmt.Sprintf("no log line with id %d in the current view", id)))
		}
		action.ID = id
		action.HasID = true
	}
	return withActions(OKEmpty(), action)
}

type scrollArgs struct {
	Direction string `json:"direction"`
	Lines     int    `json:"lines,omitempty"`
}

var validScrollDirections = map[string]bool{"up": true, "down": true, "top": true, "bottom": true}

func (h *Handler) handleScroll(req Request) Result {
	args := scrollArgs{Lines: 1}
	if err := decodeArgs(req.Args, &args); err != nil || !validScrollDirections[args.Direction] {
		return responseOnly(Err("scroll requires direction: up|down|top|bottom"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionScroll, Direction: args.Direction, Lines: args.Lines})
}

type freezeArgs struct {
	Mode string `json:"mode,omitempty"`
}

func (h *Handler) handleFreeze(req Request) Result {
	args := freezeArgs{Mode: "toggle"}
	decodeArgs(req.Args, &args)
	if args.Mode != "on" && args.Mode != "off" && args.Mode != "toggle" {
		return responseOnly(Err("freeze mode must be on, off, or toggle"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionFreeze, FreezeMode: args.Mode})
}

func (h *Handler) handleFilters(snapshot *StateSnapshot) Response {
	if snapshot == nil {
		return OK(map[string]any{"filters": []FilterInfo{}})
	}
	return OK(map[string]any{"filters": snapshot.ActiveFilters})
}

type filterAddArgs struct {
	Pattern string `json:"pattern"`
	Exclude bool   `json:"exclude"`
}

func (h *Handler) handleFilterAdd(req Request) Result {
	var args filterAddArgs
	if err := decodeArgs(req.Args, &args); err != nil || args.Pattern == "" {
		return responseOnly(Err("filter_add requires a pattern"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionFilterAdd, Pattern: args.Pattern, Exclude: args.Exclude})
}

type patternArgs struct {
	Pattern string `json:"pattern"`
}

func (h *Handler) handleFilterRemove(req Request) Result {
	var args patternArgs
	if err := decodeArgs(req.Args, &args); err != nil || args.Pattern == "" {
		return responseOnly(Err("filter_remove requires a pattern"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionFilterRemove, Pattern: args.Pattern})
}

func (h *Handler) handleVisibility(snapshot *StateSnapshot) Response {
	if snapshot == nil {
		return OK(map[string]any{"hidden": []string{}})
	}
	return OK(map[string]any{"hidden": snapshot.HiddenProcesses})
}

type nameArgs struct {
	Name string `json:"name"`
}

func (h *Handler) handleHide(req Request) Result {
	var args nameArgs
	if err := decodeArgs(req.Args, &args); err != nil || args.Name == "" {
		return responseOnly(Err("hide requires a process name"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionHideProcess, Name: args.Name})
}

func (h *Handler) handleShow(req Request) Result {
	var args nameArgs
	if err := decodeArgs(req.Args, &args); err != nil || args.Name == "" {
		return responseOnly(Err("show requires a process name"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionShowProcess, Name: args.Name})
}

func (h *Handler) handleProcessControl(req Request, kind ActionKind) Result {
	var args nameArgs
	decodeArgs(req.Args, &args)
	if args.Name == "" {
		args.Name = "all"
	}
	return withActions(OKEmpty(), Action{Kind: kind, Name: args.Name})
}

type errorsArgs struct {
	Limit   int    `json:"limit,omitempty"`
	Level   string `json:"level,omitempty"`
	Process string `json:"process,omitempty"`
}

func (h *Handler) handleErrors(req Request, snapshot *StateSnapshot) Response {
	args := errorsArgs{Limit: 50, Level: "error_or_warning"}
	decodeArgs(req.Args, &args)
	if snapshot == nil {
		return OK(map[string]any{"lines": []LogLineInfo{}})
	}
	var matches []LogLineInfo
	for _, l := range snapshot.RecentLogs {
		if args.Process != "" && l.Process != args.Process {
			continue
		}
		if !matchesErrorLevel(l, args.Level) {
			continue
		}
		matches = append(matches, l)
		if len(matches) >= args.Limit {
			break
		}
	}
	return OK(map[string]any{"lines": matches})
}

func matchesErrorLevel(l LogLineInfo, level string) bool {
	lower := strings.ToLower(l.Content)
	hasError := strings.Contains(lower, "error") || strings.Contains(lower, "panic") || strings.Contains(lower, "fatal")
	hasWarning := strings.Contains(lower, "warn")
	switch level {
	case "error":
		return hasError
	case "warning":
		return hasWarning
	default:
		return hasError || hasWarning
	}
}

func (h *Handler) handleSummary(snapshot *StateSnapshot) Response {
	if snapshot == nil {
		return OK(map[string]any{"processes": 0, "logs": 0})
	}
	running, failed := 0, 0
	for _, p := range snapshot.Processes {
		switch p.Status {
		case "running":
			running++
		case "failed":
			failed++
		}
	}
	return OK(map[string]any{
		"processes":      len(snapshot.Processes),
		"running":        running,
		"failed":         failed,
		"logs":           snapshot.TotalLogLines,
		"filters":        snapshot.FilterCount,
		"hidden":         len(snapshot.HiddenProcesses),
		"trace_recording": snapshot.TraceRecording,
	})
}

type batchArgs struct {
	ID     int  `json:"id"`
	Scroll bool `json:"scroll"`
}

func (h *Handler) handleBatch(req Request) Result {
	var args batchArgs
	if err := decodeArgs(req.Args, &args); err != nil {
		return responseOnly(Err("batch requires an id"))
	}
	return withActions(OKEmpty(), Action{Kind: ActionBatchSelect, BatchID: args.ID, BatchScroll: args.Scroll})
}

func (h *Handler) handleTrace(snapshot *StateSnapshot) Response {
	if snapshot == nil || !snapshot.TraceRecording {
		return OK(map[string]any{"recording": false})
	}
	return OK(map[string]any{"recording": true, "trace_id": snapshot.ActiveTraceID})
}

func paginate(lines []LogLineInfo, offset, limit int) []LogLineInfo {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(lines) {
		return []LogLineInfo{}
	}
	end := len(lines)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return lines[offset:end]
}

func decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
