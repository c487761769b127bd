package clamav

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

const (
	// earlyReplyPeekSize bounds the first read of an unexpected daemon reply.
	earlyReplyPeekSize = 512
	// earlyReplyPollTimeout is how long the between-chunks poll waits for a
	// daemon reply. It must be in the future: a read whose deadline has
	// already passed fails without ever attempting the socket, so an
	// already-expired deadline would never see buffered reply bytes.
	earlyReplyPollTimeout = time.Millisecond
)

// Scan streams the content of src to the daemon using the INSTREAM protocol
// and returns the classified verdict.
//
// A liveness probe runs first; if the daemon does not answer it, the result
// has StatusConnectionError and no scan connection is opened. Transport
// failures, daemon ERROR verdicts, and premature daemon replies are all
// encoded in the returned result with StatusError. The only error Scan
// returns is the daemon reporting its stream size limit exceeded, which is a
// deployment mismatch rather than a scan verdict.
func (c *Client) Scan(ctx context.Context, src io.Reader) (*ScanResult, error) {
	if !c.Ping(ctx) {
		return &ScanResult{
			Status: StatusConnectionError,
			Result: "ClamAV did not respond to ping request",
		}, nil
	}

	result, err := c.streamScan(ctx, src)
	if err != nil {
		if IsSizeLimitError(err) {
			return nil, err
		}
		c.logger.Error("scan failed", "address", c.Address(), "error", err)
		return &ScanResult{Status: StatusError, Result: err.Error()}, nil
	}

	return result, nil
}

// ScanBytes scans in-memory content. See Scan.
func (c *Client) ScanBytes(ctx context.Context, data []byte) (*ScanResult, error) {
	return c.Scan(ctx, bytes.NewReader(data))
}

// ScanFile scans the file at path. It returns an error if the file cannot be
// opened; otherwise it behaves like Scan.
func (c *Client) ScanFile(ctx context.Context, path string) (*ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for scanning: %w", err)
	}
	defer f.Close()

	return c.Scan(ctx, f)
}

// streamScan runs the INSTREAM exchange over a fresh connection: the command,
// a sequence of length-prefixed chunks, the zero-length terminator, and the
// daemon's single-line verdict.
func (c *Client) streamScan(ctx context.Context, src io.Reader) (*ScanResult, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmdInstream)); err != nil {
		return nil, NewTransportError("failed to start INSTREAM command", err)
	}

	buf := make([]byte, c.chunkSize)
	var prefix [4]byte

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(prefix[:], uint32(n))
			if _, err := conn.Write(prefix[:]); err != nil {
				return nil, NewTransportError("failed to write chunk length", err)
			}
			if _, err := conn.Write(buf[:n]); err != nil {
				return nil, NewTransportError("failed to write chunk payload", err)
			}
			if err := c.checkEarlyReply(conn); err != nil {
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, NewTransportError("failed to read scan source", readErr)
		}
	}

	// A zero-length frame terminates the stream.
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return nil, NewTransportError("failed to terminate stream", err)
	}

	reply, err := io.ReadAll(conn)
	if err != nil {
		return nil, NewTransportError("failed to read scan verdict", err)
	}

	verdict := strings.TrimSpace(string(reply))
	c.logger.Debug("received scan verdict", "address", c.Address(), "verdict", verdict)

	return parseVerdict(verdict)
}

// checkEarlyReply polls the connection between chunks with a near-immediate
// read deadline. Pending daemon bytes mean the exchange was terminated before
// the stream completed, commonly because a size limit was hit or the stream
// was malformed; the daemon's full reply is drained and embedded in the error.
func (c *Client) checkEarlyReply(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(earlyReplyPollTimeout)); err != nil {
		return NewTransportError("failed to set read deadline", err)
	}

	peek := make([]byte, earlyReplyPeekSize)
	n, readErr := conn.Read(peek)

	if err := conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return NewTransportError("failed to reset read deadline", err)
	}

	if n == 0 {
		var netErr net.Error
		if errors.As(readErr, &netErr) && netErr.Timeout() {
			// Nothing pending, keep streaming.
			return nil
		}
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return NewTransportError("failed to poll for daemon reply", readErr)
		}
	}

	rest, _ := io.ReadAll(conn)
	reply := strings.TrimSpace(string(peek[:n]) + string(rest))
	if reply == "" {
		return NewProtocolError("daemon closed connection before stream completed", readErr)
	}
	return NewProtocolError("scan terminated by daemon, reply: "+reply, nil)
}
