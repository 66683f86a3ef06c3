package oitipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const defaultPingTimeout = 500 * time.Millisecond

// Send connects to socketPath, writes req as one JSON line, reads back
// exactly one response line, and closes the connection. This is the CLI
// side of the control plane: each subcommand is a single request/response
// round trip.
func Send(socketPath string, req Request, timeout time.Duration) (Response, error) {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	encoded, err := json.Marshal(req)
	if err != nil {
		return Response{}, err
	}
	encoded = append(encoded, '\n')
	if _, err := conn.Write(encoded); err != nil {
		return Response{}, err
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return Response{}, err
		}
		return Response{}, fmt.Errorf("ipc: server closed connection without a response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// AnotherInstanceOwnsSocket implements the startup-contention check
// (spec §4.8): before binding, try a quick ping against any existing
// socket. A successful pong means another instance already owns it and
// this process should exit rather than bind. Any failure (no socket,
// refused connection, timeout) means the socket, if present, is stale
// and safe to remove.
func AnotherInstanceOwnsSocket(socketPath string) bool {
	resp, err := Send(socketPath, Request{Command: "ping"}, defaultPingTimeout)
	if err != nil {
		return false
	}
	return resp.Success
}
