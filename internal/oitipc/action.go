package oitipc

// ActionKind names one way a handled command can mutate live state once
// its response has already been flushed to the client (spec §4.8:
// "Actions ... are applied to the live ViewState and supervisor by the
// event loop after the response is sent").
type ActionKind string

const (
	ActionSetSearch        ActionKind = "set_search"
	ActionClearSearch      ActionKind = "clear_search"
	ActionSetAutoScroll    ActionKind = "set_auto_scroll"
	ActionSelectAndExpand  ActionKind = "select_and_expand"
	ActionGoto             ActionKind = "goto"
	ActionScroll           ActionKind = "scroll"
	ActionFreeze           ActionKind = "freeze"
	ActionFilterAdd        ActionKind = "filter_add"
	ActionFilterRemove     ActionKind = "filter_remove"
	ActionFilterClear      ActionKind = "filter_clear"
	ActionHideProcess      ActionKind = "hide"
	ActionShowProcess      ActionKind = "show"
	ActionRestartProcess   ActionKind = "restart"
	ActionKillProcess      ActionKind = "kill"
	ActionStartProcess     ActionKind = "start"
	ActionBatchSelect      ActionKind = "batch_select"
	ActionSetTraceFilter   ActionKind = "set_trace_filter"
	ActionClearTraceFilter ActionKind = "clear_trace_filter"
)

// Action is one deferred state mutation. Only the fields relevant to
// Kind are populated; the rest carry zero values.
type Action struct {
	Kind ActionKind

	Pattern string
	Exclude bool

	Enabled bool

	ID        uint64
	HasID     bool
	TargetRaw string // goto <id|time>: raw argument, resolved by the applier

	Name string // process name, for process-control and visibility actions

	Direction string // "up" | "down" | "top" | "bottom"
	Lines     int

	FreezeMode string // "on" | "off" | "toggle"

	BatchID     int
	BatchScroll bool
}

// Result is what a handler returns: the response to send immediately,
// plus any actions for the event loop to apply afterward.
type Result struct {
	Response Response
	Actions  []Action
}

func responseOnly(r Response) Result { return Result{Response: r} }

func withActions(r Response, actions ...Action) Result {
	return Result{Response: r, Actions: actions}
}
