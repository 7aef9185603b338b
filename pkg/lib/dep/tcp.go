package dep

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// TCP waits for a TCP endpoint to accept connections.
type TCP struct {
	tag     string
	host    string
	port    string
	timeout time.Duration
	warmUp  time.Duration
}

// NewTCP constructs a TCP dependency. A zero timeout means wait forever; a
// non-zero warmUp adds a fixed delay after the first successful connection,
// for services that accept connections before they are actually ready.
func NewTCP(tag, host, port string, timeout, warmUp time.Duration) *TCP {
	return &TCP{tag: tag, host: host, port: port, timeout: timeout, warmUp: warmUp}
}

// Tag identifies the dependency in pool output.
func (t *TCP) Tag() string { return t.tag }

func (t *TCP) addr() (string, error) {
	if t.host == "" {
		return "", fmt.Errorf("empty host")
	}
	if _, err := strconv.ParseUint(t.port, 10, 16); err != nil {
		return "", fmt.Errorf("invalid port %q", t.port)
	}
	return net.JoinHostPort(t.host, t.port), nil
}

// Check attempts one connection and closes it immediately.
func (t *TCP) Check(ctx context.Context) error {
	addr, err := t.addr()
	if err != nil {
		return err
	}
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Wait polls the endpoint until a connection succeeds or the timeout
// expires. The successful connection is closed right away; its only purpose
// is proving reachability.
func (t *TCP) Wait(ctx context.Context) error {
	addr, err := t.addr()
	if err != nil {
		return &WaitError{Kind: InvalidTarget, Err: err}
	}

	deadline := deadlineFrom(t.timeout)
	var dialer net.Dialer

	for {
		attemptCtx := ctx
		cancel := func() {}
		if !deadline.IsZero() {
			attemptCtx, cancel = context.WithDeadline(ctx, deadline)
		}
		conn, err := dialer.DialContext(attemptCtx, "tcp", addr)
		cancel()

		if err == nil {
			if closeErr := conn.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Failed to close socket: %v\n", closeErr)
			}
			if t.warmUp > 0 {
				warm := time.NewTimer(t.warmUp)
				defer warm.Stop()
				select {
				case <-warm.C:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
		if err := sleepGap(ctx); err != nil {
			return err
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
	}
}
