package clamav

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// DialContextFunc opens a connection to the daemon. It matches the signature
// of net.Dialer.DialContext.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithConnectTimeout bounds how long a single dial may take.
// Non-positive durations are ignored (no-op).
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithReadTimeout bounds how long a single read from the daemon may block.
// Non-positive durations are ignored (no-op).
func WithReadTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// WithChunkSize sets the maximum payload size of one INSTREAM frame.
// Non-positive sizes are ignored (no-op).
func WithChunkSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithDialer sets a custom dial function. This allows connecting through a
// unix socket, a proxy, or an in-memory pipe in tests.
func WithDialer(dial DialContextFunc) ClientOption {
	return func(c *Client) {
		if dial != nil {
			c.dialer = dial
		}
	}
}

// WithLogger sets the structured logger used for debug and error events.
// By default the client logs nothing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
