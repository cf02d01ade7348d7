package udp

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"github.com/danmuck/animus/internal/protocol"
)

var (
	ErrNoReply          = errors.New("udp: ignore commands are never answered")
	ErrMismatchedReport = errors.New("udp: report does not echo the command action")
)

const DefaultTimeout = 2 * time.Second

// Client sends one Command per exchange. The zero value uses the current
// revision and DefaultTimeout and never resends.
type Client struct {
	Timeout time.Duration
	Codec   protocol.Codec
	// Retries is the number of resends after an unanswered attempt.
	Retries int
	Backoff Backoff
}

func (c Client) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Send writes cmd to addr and waits for the matching Report.
// Datagrams that do not decode as a Report echoing cmd's action are skipped
// until the deadline. Timed-out attempts are resent up to c.Retries times.
func (c Client) Send(ctx context.Context, addr string, cmd protocol.Command) (protocol.Report, error) {
	if cmd.IsIgnore() {
		return protocol.Report{}, ErrNoReply
	}
	backoff := c.Backoff
	if backoff == (Backoff{}) {
		backoff = DefaultBackoff
	}
	var rng *rand.Rand
	for attempt := 0; ; attempt++ {
		report, err := c.exchange(ctx, addr, cmd)
		if err == nil || attempt >= c.Retries || !isTimeout(err) {
			return report, err
		}
		if rng == nil {
			rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(attempt)))
		}
		timer := time.NewTimer(backoff.Delay(attempt+1, rng))
		select {
		case <-ctx.Done():
			timer.Stop()
			return protocol.Report{}, ctx.Err()
		case <-timer.C:
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (c Client) exchange(ctx context.Context, addr string, cmd protocol.Command) (protocol.Report, error) {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return protocol.Report{}, err
	}
	defer conn.Close()

	if err := c.write(conn, cmd); err != nil {
		return protocol.Report{}, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(c.timeout())); err != nil {
		return protocol.Report{}, protocol.IoError(err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, protocol.MaxMessageSize)
	var lastErr error
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return protocol.Report{}, ctx.Err()
			}
			if lastErr != nil {
				return protocol.Report{}, fmt.Errorf("%w (last: %w)", protocol.IoError(err), lastErr)
			}
			return protocol.Report{}, protocol.IoError(err)
		}
		report, err := protocol.DecodeReport(buf[:n])
		if err != nil {
			lastErr = err
			continue
		}
		if report.Action != cmd.Action {
			lastErr = fmt.Errorf("%w: sent %s, got %s", ErrMismatchedReport, cmd.Action, report.Action)
			continue
		}
		return report, nil
	}
}

// Notify writes cmd to addr without waiting for a reply.
func (c Client) Notify(ctx context.Context, addr string, cmd protocol.Command) error {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	return c.write(conn, cmd)
}

func (c Client) dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, protocol.IoError(err)
	}
	return conn, nil
}

func (c Client) write(conn net.Conn, cmd protocol.Command) error {
	b, err := c.Codec.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(c.timeout())); err != nil {
		return protocol.IoError(err)
	}
	if _, err := conn.Write(b); err != nil {
		return protocol.IoError(err)
	}
	return nil
}
