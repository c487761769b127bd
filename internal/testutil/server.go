// Package testutil provides a mock clamd daemon for client tests.
package testutil

import (
	"encoding/binary"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Config controls how the mock daemon behaves.
type Config struct {
	// PingReply is the reply to the PING command. Defaults to "PONG".
	PingReply string
	// VersionReply is the reply to the VERSION command.
	// Defaults to a plausible ClamAV version banner.
	VersionReply string
	// Verdict is the reply sent after the INSTREAM terminator frame.
	// Defaults to "stream: OK".
	Verdict string
	// EarlyReply, when non-empty, is sent as soon as EarlyReplyAfter payload
	// bytes have arrived, without waiting for the terminator frame.
	EarlyReply string
	// EarlyReplyAfter is the payload byte threshold for EarlyReply.
	EarlyReplyAfter int
	// SplitReplies makes command replies arrive in two bursts with a pause
	// between them, exercising reply accumulation in the client.
	SplitReplies bool
}

// Server is a mock clamd daemon listening on a loopback TCP port.
type Server struct {
	ln  net.Listener
	cfg Config

	mu         sync.Mutex
	commands   []string
	frames     [][]byte
	terminated bool
}

// NewServer starts a mock daemon and registers its shutdown with t.Cleanup.
func NewServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.PingReply == "" {
		cfg.PingReply = "PONG"
	}
	if cfg.VersionReply == "" {
		cfg.VersionReply = "ClamAV 1.3.0/27253/Mon Apr 15 08:23:11 2024"
	}
	if cfg.Verdict == "" {
		cfg.Verdict = "stream: OK"
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start mock daemon: %v", err)
	}

	s := &Server{ln: ln, cfg: cfg}
	go s.acceptLoop()
	t.Cleanup(s.Close)

	return s
}

// Close stops the listener. In-flight connections finish on their own.
func (s *Server) Close() {
	s.ln.Close()
}

// Host returns the listening host.
func (s *Server) Host() string {
	host, _, _ := net.SplitHostPort(s.ln.Addr().String())
	return host
}

// Port returns the listening port.
func (s *Server) Port() int {
	_, portStr, _ := net.SplitHostPort(s.ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return port
}

// Commands returns the commands received so far, in order, without their
// z prefix and NUL terminator.
func (s *Server) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

// Frames returns the INSTREAM chunk payloads received so far.
func (s *Server) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := make([][]byte, len(s.frames))
	for i, f := range s.frames {
		frames[i] = append([]byte(nil), f...)
	}
	return frames
}

// TerminatorReceived reports whether a zero-length frame arrived.
func (s *Server) TerminatorReceived() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	command, err := readCommand(conn)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.commands = append(s.commands, command)
	s.mu.Unlock()

	switch command {
	case "PING":
		s.reply(conn, s.cfg.PingReply)
	case "VERSION":
		s.reply(conn, s.cfg.VersionReply)
	case "INSTREAM":
		s.handleInstream(conn)
	default:
		s.reply(conn, "UNKNOWN COMMAND")
	}
}

// readCommand consumes one command delimited by NUL or newline and strips
// the z prefix used for NUL-terminated commands.
func readCommand(conn net.Conn) (string, error) {
	var sb strings.Builder
	one := make([]byte, 1)
	for {
		if _, err := conn.Read(one); err != nil {
			return "", err
		}
		if one[0] == 0 || one[0] == '\n' {
			break
		}
		sb.WriteByte(one[0])
	}
	return strings.TrimPrefix(sb.String(), "z"), nil
}

func (s *Server) reply(conn net.Conn, text string) {
	if s.cfg.SplitReplies && len(text) > 1 {
		half := len(text) / 2
		io.WriteString(conn, text[:half]) //nolint:errcheck
		time.Sleep(20 * time.Millisecond)
		io.WriteString(conn, text[half:]+"\n") //nolint:errcheck
		return
	}
	io.WriteString(conn, text+"\n") //nolint:errcheck
}

func (s *Server) handleInstream(conn net.Conn) {
	lenBuf := make([]byte, 4)
	total := 0

	for {
		if _, err := io.ReadFull(conn, lenBuf); err != nil {
			return
		}
		size := binary.BigEndian.Uint32(lenBuf)
		if size == 0 {
			s.mu.Lock()
			s.terminated = true
			s.mu.Unlock()
			s.reply(conn, s.cfg.Verdict)
			return
		}

		payload := make([]byte, size)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}

		s.mu.Lock()
		s.frames = append(s.frames, payload)
		s.mu.Unlock()

		total += int(size)
		if s.cfg.EarlyReply != "" && total >= s.cfg.EarlyReplyAfter {
			io.WriteString(conn, s.cfg.EarlyReply+"\n") //nolint:errcheck
			// Half-close so the client's drain sees EOF, and keep reading so
			// in-flight chunk writes do not fail before the client notices
			// the reply.
			if tc, ok := conn.(*net.TCPConn); ok {
				tc.CloseWrite() //nolint:errcheck
			}
			io.Copy(io.Discard, conn) //nolint:errcheck
			return
		}
	}
}
