// Package oitipc implements the local control-plane socket: a
// newline-delimited JSON request/response protocol that lets a second
// invocation of the binary (the CLI side) inspect and drive a running
// supervisor (the TUI side) without attaching to its terminal.
//
// Grounded on original_source/src/ipc/{protocol,action,state,server,handler}.rs
// for the message grammar, the pure-handler/action-application split, and
// the StateSnapshot shape; unix-socket lifecycle (stale-socket removal,
// shutdown via Close) grounded on ehrlich-b-wingthing's
// internal/transport/server.go. The original polls a synchronous
// non-blocking socket each event-loop tick from a single-threaded runtime;
// Go's goroutine-per-connection model covers the same suspension points
// (spec §5) more directly, so accept/read happen on background goroutines
// that feed a channel the event loop drains non-blockingly once per tick
// — same external poll-per-tick contract, idiomatic concurrency underneath.
package oitipc

import "encoding/json"

// Request is one line of client input: a command name plus optional
// arguments.
type Request struct {
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is one line of server output. At most one of Result or Error
// is set: a failure carries Error, and a success carries Result or, when
// built by OKEmpty, neither.
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK builds a successful response carrying result.
func OK(result interface{}) Response {
	return Response{Success: true, Result: result}
}

// OKEmpty builds a successful response with no payload.
func OKEmpty() Response {
	return Response{Success: true}
}

// Err builds a failure response carrying message.
func Err(message string) Response {
	return Response{Success: false, Error: message}
}
