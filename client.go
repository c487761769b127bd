package clamav

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	defaultConnectTimeout = 3 * time.Second
	defaultReadTimeout    = 15 * time.Second
	defaultChunkSize      = 2048

	cmdPing     = "zPING\x00"
	cmdVersion  = "zVERSION\x00"
	cmdInstream = "zINSTREAM\x00"

	responsePong           = "PONG"
	responseUnknownCommand = "UNKNOWN COMMAND"
)

// Client is a TCP client for the clamd daemon protocol.
// It is immutable after construction and safe for concurrent use from
// multiple goroutines; every operation owns one dedicated connection.
type Client struct {
	host           string
	port           int
	connectTimeout time.Duration
	readTimeout    time.Duration
	chunkSize      int
	dialer         DialContextFunc
	logger         *slog.Logger
}

// NewClient creates a client for the clamd daemon at host:port.
func NewClient(host string, port int, opts ...ClientOption) (*Client, error) {
	if host == "" {
		return nil, NewTransportError("host must not be empty", nil)
	}
	if port < 1 || port > 65535 {
		return nil, NewTransportError(fmt.Sprintf("port out of range: %d", port), nil)
	}

	c := &Client{
		host:           host,
		port:           port,
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
		chunkSize:      defaultChunkSize,
		dialer:         (&net.Dialer{}).DialContext,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Address returns the daemon endpoint as host:port.
func (c *Client) Address() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// SendCommand sends a single command over a fresh connection and returns the
// daemon's reply with surrounding whitespace trimmed.
//
// The command bytes are written verbatim; prefix the command with "z" and
// terminate it with a NUL byte so the daemon treats it as NUL-delimited,
// e.g. "zPING\x00".
//
// The reply is accumulated until the daemon closes the connection. A reply
// that trims to "UNKNOWN COMMAND" is returned as an unknown-command error;
// connect, write, and read failures are returned as transport errors.
func (c *Client) SendCommand(ctx context.Context, command string) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command)); err != nil {
		return "", NewTransportError("failed to send command", err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return "", NewTransportError("failed to read command reply", err)
	}

	result := strings.TrimSpace(string(reply))
	c.logger.Debug("received command reply", "address", c.Address(), "reply", result)

	if result == responseUnknownCommand {
		return "", NewUnknownCommandError(command)
	}

	return result, nil
}

// Ping checks whether the daemon is reachable and responsive. It returns
// true iff the daemon answers the PING command with PONG (case-insensitive).
// Every failure, including timeouts and refused connections, yields false;
// Ping never returns an error.
func (c *Client) Ping(ctx context.Context) bool {
	reply, err := c.SendCommand(ctx, cmdPing)
	if err != nil {
		return false
	}
	return strings.EqualFold(reply, responsePong)
}

// Version returns the daemon's version string, e.g.
// "ClamAV 1.3.0/27253/Mon Apr 15 08:23:11 2024".
// Any failure is wrapped into an unreachable-daemon error carrying the cause.
func (c *Client) Version(ctx context.Context) (string, error) {
	reply, err := c.SendCommand(ctx, cmdVersion)
	if err != nil {
		return "", NewUnreachableError("failed to retrieve ClamAV version", err)
	}
	return reply, nil
}

// dial opens a fresh connection bounded by the connect timeout and arms the
// read deadline for the whole exchange.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	conn, err := c.dialer(dialCtx, "tcp", c.Address())
	if err != nil {
		return nil, NewTransportError(fmt.Sprintf("failed to connect to %s", c.Address()), err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		conn.Close()
		return nil, NewTransportError("failed to set read deadline", err)
	}

	return conn, nil
}
