// Package connection provides the RESP client for voltkv-cli.
package connection

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds dialing and each request/reply round trip.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned when a request is made on a closed client.
var ErrClosed = errors.New("connection: client closed")

// Client is a RESP client for a single server connection.
type Client struct {
	addr    string
	timeout time.Duration
	tlsCfg  *tls.Config

	conn   net.Conn
	br     *bufio.Reader
	bw     *bufio.Writer
	closed bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the dial and per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTLS makes the client dial with the given TLS configuration.
func WithTLS(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsCfg = cfg
	}
}

// New creates a client for addr. The connection is established lazily
// on the first request.
func New(addr string, opts ...Option) *Client {
	c := &Client{
		addr:    addr,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the connection.
func (c *Client) Connect() error {
	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: c.timeout}
	var (
		conn net.Conn
		err  error
	)
	if c.tlsCfg != nil {
		conn, err = tls.DialWithDialer(dialer, "tcp", c.addr, c.tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", c.addr)
	}
	if err != nil {
		return fmt.Errorf("connection: dial %s: %w", c.addr, err)
	}

	c.conn = conn
	c.br = bufio.NewReader(conn)
	c.bw = bufio.NewWriter(conn)
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.closed = true
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Do sends one command and reads its reply. An error reply from the
// server comes back as a Value with IsError() true, not as a Go error;
// Go errors indicate transport or protocol failures.
func (c *Client) Do(args ...string) (Value, error) {
	return c.DoWithTimeout(c.timeout, args...)
}

// DoWithTimeout is Do with an explicit round-trip deadline. A zero
// timeout waits indefinitely; blocking commands like BLPOP need this.
func (c *Client) DoWithTimeout(timeout time.Duration, args ...string) (Value, error) {
	if len(args) == 0 {
		return Value{}, errors.New("connection: empty command")
	}
	if err := c.Connect(); err != nil {
		return Value{}, err
	}

	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return Value{}, err
	}

	c.bw.WriteString("*" + strconv.Itoa(len(args)) + "\r\n")
	for _, a := range args {
		c.bw.WriteString("$" + strconv.Itoa(len(a)) + "\r\n")
		c.bw.WriteString(a)
		c.bw.WriteString("\r\n")
	}
	if err := c.bw.Flush(); err != nil {
		return Value{}, fmt.Errorf("connection: write: %w", err)
	}

	v, err := readValue(c.br)
	if err != nil {
		return Value{}, fmt.Errorf("connection: read reply: %w", err)
	}
	return v, nil
}

// Value is one decoded RESP reply.
type Value struct {
	// Kind is the RESP type byte: '+', '-', ':', '$', or '*'.
	Kind byte
	// Str holds simple strings, error lines, and bulk payloads.
	Str string
	// Int holds integer replies.
	Int int64
	// Null marks the null bulk ($-1) and null array (*-1).
	Null bool
	// Elems holds array elements.
	Elems []Value
}

// IsError reports whether the reply is a RESP error.
func (v Value) IsError() bool {
	return v.Kind == '-'
}

// Format renders the value the way an interactive client would print
// it.
func (v Value) Format() string {
	var b strings.Builder
	v.format(&b, "", 0)
	return b.String()
}

func (v Value) format(b *strings.Builder, prefix string, depth int) {
	switch {
	case v.Null && v.Kind == '$':
		b.WriteString(prefix + "(nil)")
	case v.Null:
		b.WriteString(prefix + "(nil array)")
	case v.Kind == '+':
		b.WriteString(prefix + v.Str)
	case v.Kind == '-':
		b.WriteString(prefix + "(error) " + v.Str)
	case v.Kind == ':':
		b.WriteString(prefix + "(integer) " + strconv.FormatInt(v.Int, 10))
	case v.Kind == '$':
		b.WriteString(prefix + strconv.Quote(v.Str))
	case v.Kind == '*':
		if len(v.Elems) == 0 {
			b.WriteString(prefix + "(empty array)")
			return
		}
		indent := strings.Repeat("  ", depth)
		for i, el := range v.Elems {
			if i > 0 {
				b.WriteString("\n")
			}
			el.format(b, fmt.Sprintf("%s%s%d) ", prefix, indent, i+1), depth+1)
			// Only the first line carries the caller's prefix.
			prefix = ""
		}
	}
}

func readValue(r *bufio.Reader) (Value, error) {
	line, err := readLine(r)
	if err != nil {
		return Value{}, err
	}
	if len(line) < 1 {
		return Value{}, errors.New("empty reply line")
	}

	kind, rest := line[0], line[1:]
	switch kind {
	case '+', '-':
		return Value{Kind: kind, Str: rest}, nil
	case ':':
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("bad integer reply %q", rest)
		}
		return Value{Kind: kind, Int: n}, nil
	case '$':
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Value{}, fmt.Errorf("bad bulk length %q", rest)
		}
		if n == -1 {
			return Value{Kind: kind, Null: true}, nil
		}
		if n < 0 {
			return Value{}, fmt.Errorf("bad bulk length %d", n)
		}
		buf := make([]byte, n+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Value{}, err
		}
		if buf[n] != '\r' || buf[n+1] != '\n' {
			return Value{}, errors.New("bulk reply missing CRLF")
		}
		return Value{Kind: kind, Str: string(buf[:n])}, nil
	case '*':
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Value{}, fmt.Errorf("bad array length %q", rest)
		}
		if n == -1 {
			return Value{Kind: kind, Null: true}, nil
		}
		if n < 0 {
			return Value{}, fmt.Errorf("bad array length %d", n)
		}
		elems := make([]Value, 0, n)
		for i := 0; i < n; i++ {
			el, err := readValue(r)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, el)
		}
		return Value{Kind: kind, Elems: elems}, nil
	default:
		return Value{}, fmt.Errorf("unknown reply type %q", kind)
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return "", errors.New("reply line missing CRLF")
	}
	return line[:len(line)-2], nil
}
