package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeServerPair drops a fresh self-signed pair at the given paths,
// reusing the roots_test helpers.
func writeServerPair(t *testing.T, dir string) (certFile, keyFile string) {
	t.Helper()
	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	writeKeyPair(t, certFile, keyFile)
	return certFile, keyFile
}

func TestNewCertWatcher(t *testing.T) {
	certFile, keyFile := writeServerPair(t, t.TempDir())

	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	cert, err := w.GetCertificate(nil)
	if err != nil || cert == nil {
		t.Fatalf("GetCertificate = %v, %v; want the loaded pair", cert, err)
	}
	if cc, err := w.GetClientCertificate(nil); err != nil || cc == nil {
		t.Fatalf("GetClientCertificate = %v, %v; want the loaded pair", cc, err)
	}
}

func TestNewCertWatcherBadInput(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	_ = os.WriteFile(certFile, []byte("not a cert"), 0644)
	_ = os.WriteFile(keyFile, []byte("not a key"), 0600)

	if _, err := NewWatcher(certFile, keyFile); err == nil {
		t.Error("NewWatcher accepted an unparseable pair")
	}
	if _, err := NewWatcher("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("NewWatcher accepted missing files")
	}
}

func TestCertWatcherOptions(t *testing.T) {
	certFile, keyFile := writeServerPair(t, t.TempDir())

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := NewWatcher(certFile, keyFile,
		WithLogger(logger),
		WithDebounce(200*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	if w.logger != logger {
		t.Error("WithLogger not applied")
	}
	if w.debounce != 200*time.Millisecond {
		t.Errorf("debounce = %v, want 200ms", w.debounce)
	}
}

func TestCertWatcherReload(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeServerPair(t, dir)

	w, err := NewWatcher(certFile, keyFile, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	before, _ := w.GetCertificate(nil)
	beforeLeaf := leafOf(t, before)

	w.StartAsync()
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	// Rotate the pair in place; the watcher should pick up the new
	// certificate without a restart.
	writeKeyPair(t, certFile, keyFile)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		after, _ := w.GetCertificate(nil)
		if after != nil && !leafOf(t, after).Equal(beforeLeaf) {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Error("certificate not reloaded after rotation")
}

func TestCertWatcherServesTLSConfig(t *testing.T) {
	certFile, keyFile := writeServerPair(t, t.TempDir())

	w, err := NewWatcher(certFile, keyFile)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	// The shape the server listener uses.
	cfg := &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
	cert, err := cfg.GetCertificate(&tls.ClientHelloInfo{})
	if err != nil || cert == nil {
		t.Fatalf("handshake certificate = %v, %v", cert, err)
	}
}

func leafOf(t *testing.T, cert *tls.Certificate) *x509.Certificate {
	t.Helper()
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("parse leaf: %v", err)
	}
	return leaf
}
