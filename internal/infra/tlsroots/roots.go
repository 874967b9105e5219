// Package tlsroots assembles the certificate trust used on VoltKV's
// TLS surfaces: the CA pool behind voltkv-cli's --tls-ca flag and the
// hot-reloading server certificate for the TLS listener.
package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound reports PEM input that decoded without yielding
	// a single certificate.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

	// ErrInvalidPEM reports undecodable PEM input.
	ErrInvalidPEM = errors.New("tlsroots: invalid PEM data")
)

// Pool accumulates trusted root certificates for client-side dials.
type Pool struct {
	certPool *x509.CertPool
}

// NewPool seeds a pool with the system roots, falling back to an empty
// pool on hosts without an accessible system store.
func NewPool() (*Pool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}, nil
}

// NewEmptyPool creates a pool that trusts nothing until certificates
// are added, for deployments pinning a private CA.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// AddCertFile loads every certificate from a PEM file into the pool.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read cert file %s: %w", path, err)
	}

	return p.AddCertPEM(data)
}

// AddCertPEM adds each CERTIFICATE block found in the PEM data,
// skipping blocks of other types.
func (p *Pool) AddCertPEM(pemData []byte) error {
	var certsAdded int

	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}

		p.certPool.AddCert(cert)
		certsAdded++
	}

	if certsAdded == 0 {
		return ErrNoCertsFound
	}

	return nil
}

// AddCert adds an already-parsed certificate.
func (p *Pool) AddCert(cert *x509.Certificate) {
	p.certPool.AddCert(cert)
}

// AddCertDir walks a directory and loads certificates from every file
// with a .pem, .crt, or .cer extension. Unreadable files are skipped.
func (p *Pool) AddCertDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("tlsroots: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := ""
		if len(name) > 4 {
			ext = name[len(name)-4:]
		}

		switch ext {
		case ".pem", ".crt", ".cer":
			if err := p.AddCertFile(dir + "/" + name); err != nil {
				continue
			}
		}
	}

	return nil
}

// Pool exposes the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// TLSConfig builds a client TLS config that verifies servers against
// the pool. voltkv-cli dials with this when --tls is set.
func (p *Pool) TLSConfig() *tls.Config {
	return &tls.Config{
		RootCAs:    p.certPool,
		MinVersion: tls.VersionTLS12,
	}
}

// MutualTLSConfig builds a config that both presents the given key
// pair and requires verified client certificates against the pool.
func (p *Pool) MutualTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: load key pair: %w", err)
	}

	return &tls.Config{
		RootCAs:      p.certPool,
		ClientCAs:    p.certPool,
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
