package oitipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConnID identifies one accepted client connection for the lifetime of
// that connection.
type ConnID uint64

// Envelope pairs a decoded request with the connection it arrived on.
type Envelope struct {
	Conn    ConnID
	Request Request
}

type client struct {
	id         ConnID
	correlation string
	conn       net.Conn
	writeMu    sync.Mutex
}

// Server accepts client connections on a unix socket and exposes a
// non-blocking per-tick poll of the requests that arrived since the last
// call, matching spec §4.8's accept_pending/poll_commands contract.
type Server struct {
	socketPath string
	listener   net.Listener
	log        *logrus.Entry

	mu      sync.Mutex
	clients map[ConnID]*client
	nextID  uint64

	requests chan Envelope
	done     chan struct{}
}

// NewServer removes any stale socket at socketPath and binds a fresh
// listener.
func NewServer(socketPath string, log *logrus.Entry) (*Server, error) {
	if err := removeStaleSocket(socketPath); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		socketPath: socketPath,
		listener:   ln,
		log:        log,
		clients:    make(map[ConnID]*client),
		requests:   make(chan Envelope, 256),
		done:       make(chan struct{}),
	}, nil
}

func removeStaleSocket(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SocketPath returns the bound socket's filesystem path.
func (s *Server) SocketPath() string { return s.socketPath }

// Serve accepts connections until the listener is closed. Run it in its
// own goroutine; each accepted connection gets its own reader goroutine.
func (s *Server) Serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.log.WithError(err).Debug("ipc accept failed")
				return
			}
		}
		id := ConnID(atomic.AddUint64(&s.nextID, 1))
		c := &client{id: id, correlation: uuid.NewString(), conn: conn}

		s.mu.Lock()
		s.clients[id] = c
		s.mu.Unlock()

		go s.readLoop(c)
	}
}

func (s *Server) readLoop(c *client) {
	defer s.disconnect(c.id)

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.log.WithField("connection", c.correlation).Debug("ipc: malformed request line")
			continue
		}
		select {
		case s.requests <- Envelope{Conn: c.id, Request: req}:
		case <-s.done:
			return
		}
	}
}

func (s *Server) disconnect(id ConnID) {
	s.mu.Lock()
	c, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	s.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// PollRequests drains every request received since the last call,
// without blocking.
func (s *Server) PollRequests() []Envelope {
	var out []Envelope
	for {
		select {
		case e := <-s.requests:
			out = append(out, e)
		default:
			return out
		}
	}
}

// SendResponse writes response as one JSON line to the named connection.
// Returns an error if the connection no longer exists.
func (s *Server) SendResponse(id ConnID, resp Response) error {
	s.mu.Lock()
	c, ok := s.clients[id]
	s.mu.Unlock()
	if !ok {
		return errors.New("ipc: connection not found")
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.conn.Write(encoded)
	return err
}

// ConnectionCount reports the number of currently connected clients.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close stops accepting connections, closes every client, and unlinks
// the socket file. Safe to call once on clean shutdown.
func (s *Server) Close() error {
	close(s.done)
	err := s.listener.Close()

	s.mu.Lock()
	for id, c := range s.clients {
		c.conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
		if err == nil {
			err = removeErr
		}
	}
	return err
}
