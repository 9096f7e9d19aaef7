package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every client operation
	DefaultTimeout = 30 * time.Second
	// DefaultQueryBatchSize is the cursor batch size for ad-hoc queries
	DefaultQueryBatchSize = 100
	// DefaultMaxQueryResults caps how many rows ExecuteQuery reads from a cursor
	DefaultMaxQueryResults = 1000
	// DefaultConcurrency bounds per-database and per-collection fan-out
	DefaultConcurrency = 4
)

// TLSOptions configures certificate handling for HTTPS endpoints
type TLSOptions struct {
	InsecureSkipVerify bool
	CAFile             string
	CertFile           string
	KeyFile            string
}

// Endpoint describes how to reach the cluster. It is built once at startup
// and never modified afterwards.
type Endpoint struct {
	BaseURL  string
	GAEURL   string
	Username string
	Password string
	TLS      TLSOptions

	Timeout         time.Duration
	QueryBatchSize  int
	MaxQueryResults int
	Concurrency     int
}

// withDefaults returns a copy with zero values replaced by defaults
func (e Endpoint) withDefaults() Endpoint {
	e.BaseURL = strings.TrimRight(e.BaseURL, "/")
	e.GAEURL = strings.TrimRight(e.GAEURL, "/")
	if e.Timeout <= 0 {
		e.Timeout = DefaultTimeout
	}
	if e.QueryBatchSize <= 0 {
		e.QueryBatchSize = DefaultQueryBatchSize
	}
	if e.MaxQueryResults <= 0 {
		e.MaxQueryResults = DefaultMaxQueryResults
	}
	if e.Concurrency <= 0 {
		e.Concurrency = DefaultConcurrency
	}
	return e
}

// Validate checks that the endpoint URLs are usable
func (e Endpoint) Validate() error {
	if err := validateURL(e.BaseURL); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if e.GAEURL != "" {
		if err := validateURL(e.GAEURL); err != nil {
			return fmt.Errorf("invalid GAE endpoint: %w", err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q (expected http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(opts TLSOptions) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg := &tls.Config{
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}

	// Load client certificate if provided (for mTLS)
	if opts.CertFile != "" && opts.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	// Load CA certificate if provided (for server verification)
	if opts.CAFile != "" {
		caCert, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		tlsCfg.RootCAs = caCertPool
	}

	transport.TLSClientConfig = tlsCfg

	// Operation timeouts come from the context, not the client
	return &http.Client{Transport: transport}, nil
}
