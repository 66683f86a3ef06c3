package oitipc

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "oit.sock")
}

func discardLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(nopWriter{})
	return logrus.NewEntry(logger)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.True(t, cond(), "condition not met within %s", timeout)
}

func TestServer_RemovesStaleSocketOnBind(t *testing.T) {
	path := testSocketPath(t)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	s, err := NewServer(path, discardLog())
	require.NoError(t, err)
	defer s.Close()

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestServer_AcceptsConnectionAndReceivesRequest(t *testing.T) {
	path := testSocketPath(t)
	s, err := NewServer(path, discardLog())
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(`{"command":"ping"}` + "\n"))
	require.NoError(t, err)

	var envs []Envelope
	waitUntil(t, time.Second, func() bool {
		envs = append(envs, s.PollRequests()...)
		return len(envs) > 0
	})
	require.Len(t, envs, 1)
	assert.Equal(t, "ping", envs[0].Request.Command)
}

func TestServer_FullRoundTripWithHandler(t *testing.T) {
	path := testSocketPath(t)
	s, err := NewServer(path, discardLog())
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	h := NewHandler("test")
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, e := range s.PollRequests() {
				result := h.Handle(e.Request, nil)
				s.SendResponse(e.Conn, result.Response)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	resp, err := Send(path, Request{Command: "ping"}, time.Second)
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestAnotherInstanceOwnsSocket_FalseWhenNothingListening(t *testing.T) {
	path := testSocketPath(t)
	assert.False(t, AnotherInstanceOwnsSocket(path))
}

func TestAnotherInstanceOwnsSocket_TrueWhenServerResponds(t *testing.T) {
	path := testSocketPath(t)
	s, err := NewServer(path, discardLog())
	require.NoError(t, err)
	go s.Serve()
	defer s.Close()

	h := NewHandler("test")
	go func() {
		for i := 0; i < 200; i++ {
			for _, e := range s.PollRequests() {
				result := h.Handle(e.Request, nil)
				s.SendResponse(e.Conn, result.Response)
			}
			time.Sleep(2 * time.Millisecond)
		}
	}()

	assert.True(t, AnotherInstanceOwnsSocket(path))
}
