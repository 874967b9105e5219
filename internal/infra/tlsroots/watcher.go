package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a server certificate pair loaded and swaps it in place
// when the files change on disk, so certificate rotation needs no
// listener restart. The TLS listener consumes it through
// GetCertificate.
type Watcher struct {
	certFile string
	keyFile  string
	cert     *tls.Certificate
	mu       sync.RWMutex
	done     chan struct{}
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Editors and rotation tooling emit bursts of events per swap;
	// reloads within the debounce window collapse into one.
	debounce     time.Duration
	lastReload   time.Time
	reloadMu     sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger routes watcher diagnostics to the given logger.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce overrides the reload-collapse window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher loads the pair once and prepares the watch; a pair that
// fails to load up front is an error rather than a later surprise.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		done:     make(chan struct{}),
		logger:   slog.Default(),
		debounce: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}

	return w, nil
}

// Start watches the certificate files until Stop is called, reloading
// the pair on writes. It blocks; StartAsync runs it in a goroutine.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	w.watcher = watcher

	// Watching the parent directories instead of the files survives the
	// rename-over-the-top pattern most rotation tools use.
	certDir := filepath.Dir(w.certFile)
	keyDir := filepath.Dir(w.keyFile)

	if err := watcher.Add(certDir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("tlsroots: watch cert dir %s: %w", certDir, err)
	}

	if keyDir != certDir {
		if err := watcher.Add(keyDir); err != nil {
			w.watcher.Close()
			return fmt.Errorf("tlsroots: watch key dir %s: %w", keyDir, err)
		}
	}

	w.logger.Info("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile,
	)

	certBase := filepath.Base(w.certFile)
	keyBase := filepath.Base(w.keyFile)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			changedBase := filepath.Base(event.Name)
			if changedBase != certBase && changedBase != keyBase {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.Debug("certificate file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)

			if err := w.debouncedReload(); err != nil {
				w.logger.Error("certificate reload failed",
					"error", err,
					"cert_file", w.certFile,
					"key_file", w.keyFile,
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("certificate watcher error",
				"error", err,
				"cert_file", w.certFile,
			)

		case <-w.done:
			return watcher.Close()
		}
	}
}

// StartAsync runs Start in a goroutine, logging a watch that ends in
// error.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("certificate watcher stopped with error",
				"error", err,
			)
		}
	}()
}

// Stop ends the watch. The last loaded certificate stays served.
func (w *Watcher) Stop() {
	close(w.done)
}

// GetCertificate hands the current pair to a TLS handshake; it is the
// value for tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// GetClientCertificate is the client-auth counterpart, for
// tls.Config.GetClientCertificate.
func (w *Watcher) GetClientCertificate(*tls.CertificateRequestInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// debouncedReload collapses event bursts into a single reload.
func (w *Watcher) debouncedReload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(w.lastReload) < w.debounce {
		return nil
	}
	w.lastReload = now

	// The write that triggered the event may still be in progress.
	time.Sleep(100 * time.Millisecond)

	return w.reload()
}

func (w *Watcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.logger.Info("certificate reloaded",
		"cert_file", w.certFile,
	)

	return nil
}
