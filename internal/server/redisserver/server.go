package redisserver

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/voltkv-go/internal/store"
	"github.com/yndnr/voltkv-go/internal/telemetry/metric"
)

// Config holds the server configuration.
type Config struct {
	// PlainEnabled enables the plaintext port.
	PlainEnabled bool
	// PlainAddress is the address for the plaintext port.
	PlainAddress string
	// TLSEnabled enables the TLS port.
	TLSEnabled bool
	// TLSAddress is the address for the TLS port.
	TLSAddress string
	// TLSConfig is the TLS configuration (required if TLSEnabled is true).
	TLSConfig *tls.Config
	// ReadTimeout is the timeout for reading a command (default: 30s).
	// Helps prevent slowloris attacks. It does not apply while a
	// connection is suspended in BLPOP.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout is the timeout for idle connections (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per IP
	// (default: 1000). Set to 0 to disable rate limiting.
	RateLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PlainEnabled: true,
		PlainAddress: "127.0.0.1:6379",
		TLSEnabled:   false,
		TLSAddress:   "127.0.0.1:6380",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    1000,
	}
}

// Server accepts client connections and drives one serving goroutine
// per connection. All connections share one store; the store's own
// locking keeps every command atomic against it.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	logger  *slog.Logger
	metrics *metric.Registry
	plainLn net.Listener
	tlsLn   net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	connMu sync.Mutex
	conns  map[*Conn]struct{}
}

// Conn represents a single client connection.
type Conn struct {
	id      string
	netConn net.Conn
	br      *bufio.Reader
	bw      *bufio.Writer

	closed atomic.Bool
}

func newConn(c net.Conn) *Conn {
	return &Conn{
		id:      ulid.Make().String(),
		netConn: c,
		br:      bufio.NewReader(c),
		bw:      bufio.NewWriter(c),
	}
}

func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// ID returns the connection's session identifier, assigned at accept
// time and used to correlate log lines.
func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) remoteIP() string {
	host, _, err := net.SplitHostPort(c.netConn.RemoteAddr().String())
	if err != nil {
		return c.netConn.RemoteAddr().String()
	}
	return host
}

// disconnectPollInterval paces the socket probe while pipelined bytes
// are already buffered ahead of a suspended command.
const disconnectPollInterval = 100 * time.Millisecond

// watchDisconnect reports, on the returned channel, a client that went
// away while the connection is suspended in a blocking command. It
// clears any pending read deadline and peeks the reader from a monitor
// goroutine: EOF or a reset closes the channel. When pipelined bytes
// are already buffered the peek cannot block, so the monitor switches
// to a periodic non-consuming socket probe until the wait is stopped.
// The returned stop function interrupts a pending peek with an
// immediate read deadline and waits for the monitor to finish; the
// interrupted peek consumes the deadline error, so the reader is clean
// for the next command.
func (c *Conn) watchDisconnect() (<-chan struct{}, func()) {
	disconnected := make(chan struct{})
	finished := make(chan struct{})
	stopCh := make(chan struct{})
	var stopping atomic.Bool

	_ = c.netConn.SetReadDeadline(time.Time{})

	go func() {
		defer close(finished)
		_, err := c.br.Peek(1)
		if err == nil {
			// Buffered pipelined bytes satisfy the peek without
			// touching the socket; probe the socket itself so a client
			// that pipelined a command and then vanished still cancels
			// the wait.
			ticker := time.NewTicker(disconnectPollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-stopCh:
					return
				case <-ticker.C:
					if peerClosed(c.netConn) {
						if !stopping.Load() {
							close(disconnected)
						}
						return
					}
				}
			}
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return
		}
		if !stopping.Load() {
			close(disconnected)
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			stopping.Store(true)
			close(stopCh)
			_ = c.netConn.SetReadDeadline(time.Now())
			<-finished
			_ = c.netConn.SetReadDeadline(time.Time{})
		})
	}
	return disconnected, stop
}

// New creates a new server around the given store.
func New(cfg *Config, st *store.Store, metrics *metric.Registry, terminate func(), logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		conns:   make(map[*Conn]struct{}),
	}

	s.handler = NewCommandHandler(st, metrics, terminate, cfg.RateLimit, logger)

	return s
}

// Start starts the server listeners.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.PlainEnabled && !s.cfg.TLSEnabled {
		s.logger.Info("server disabled (both plain and TLS are disabled)")
		return nil
	}

	s.running.Store(true)

	if s.cfg.PlainEnabled {
		ln, err := net.Listen("tcp", s.cfg.PlainAddress)
		if err != nil {
			return err
		}
		s.plainLn = ln
		s.logger.Info("listening", "address", ln.Addr().String())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
				s.logger.Error("accept loop error", "error", err)
			}
		}()
	}

	if s.cfg.TLSEnabled {
		if s.cfg.TLSConfig == nil {
			return errors.New("redisserver: TLS enabled without TLS config")
		}
		ln, err := tls.Listen("tcp", s.cfg.TLSAddress, s.cfg.TLSConfig)
		if err != nil {
			return err
		}
		s.tlsLn = ln
		s.logger.Info("listening (tls)", "address", ln.Addr().String())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
				s.logger.Error("tls accept loop error", "error", err)
			}
		}()
	}

	return nil
}

// Addr returns the plaintext listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.plainLn == nil {
		return ""
	}
	return s.plainLn.Addr().String()
}

// Shutdown stops the server: it closes the listeners, force-closes
// every active connection (including ones suspended in BLPOP or idle
// between commands), and waits for the serving goroutines to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	// Close listeners to break accept loops.
	if s.plainLn != nil {
		if err := s.plainLn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.tlsLn != nil {
		if err := s.tlsLn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Force-close active connections so suspended or idle clients do
	// not hold the drain open.
	s.connMu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.connMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, newConn(c))
		}()
	}
}

func (s *Server) trackConn(c *Conn) {
	s.connMu.Lock()
	s.conns[c] = struct{}{}
	s.connMu.Unlock()
}

func (s *Server) untrackConn(c *Conn) {
	s.connMu.Lock()
	delete(s.conns, c)
	s.connMu.Unlock()
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	s.trackConn(c)
	defer s.untrackConn(c)

	// A connection accepted while Shutdown runs may miss the
	// force-close sweep; drop it instead of serving it.
	if !s.running.Load() {
		return
	}

	if s.metrics != nil {
		s.metrics.ConnectionsTotal.Inc()
		s.metrics.ConnectionsActive.Inc()
		defer s.metrics.ConnectionsActive.Dec()
	}
	s.logger.Debug("connection opened", "session", c.ID(), "remote", c.RemoteAddr())

	readTimeout := s.cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := s.cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}
	idleTimeout := s.cfg.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 5 * time.Minute
	}

	for {
		// First byte: allow idle timeout (connection can stay idle
		// between commands).
		if err := c.netConn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}
		if _, err := c.br.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("connection closed", "session", c.ID())
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Debug("connection idle timeout", "session", c.ID())
				return
			}
			s.logger.Debug("connection read error", "session", c.ID(), "error", err)
			return
		}

		// After first byte: tighten to per-command read timeout
		// (slowloris protection).
		if err := c.netConn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return
		}

		args, err := ReadCommand(c.br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Debug("command read timeout", "session", c.ID())
				return
			}
			// Limit violations and malformed frames both close the
			// connection: the read position is no longer trustworthy.
			if errors.Is(err, ErrLimitExceeded) {
				s.logger.Warn("protocol limit exceeded", "session", c.ID(), "remote", c.RemoteAddr(), "error", err)
				_ = c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
				_ = WriteError(c.bw, "ERR protocol limit exceeded")
				_ = c.bw.Flush()
				return
			}
			_ = c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = WriteError(c.bw, "ERR protocol error: "+err.Error())
			_ = c.bw.Flush()
			return
		}

		// Blank inline line; ignore it.
		if len(args) == 0 {
			continue
		}

		s.handler.Handle(c, args)

		// QUIT, SHUTDOWN, or a disconnect during BLPOP already closed
		// and flushed the connection.
		if c.closed.Load() {
			return
		}

		if err := c.netConn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}
		if err := c.bw.Flush(); err != nil {
			return
		}
	}
}
