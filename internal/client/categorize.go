package client

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// categorizeRequestError analyzes error strings from HTTP requests and provides
// actionable, user-friendly error messages based on the error type.
func categorizeRequestError(errStr string) string {
	if errStr == "" {
		return ""
	}

	errLower := strings.ToLower(errStr)

	// Context cancellation (view left or timeout)
	if strings.Contains(errLower, "context canceled") ||
		strings.Contains(errLower, "context cancelled") {
		return "Request cancelled"
	}

	if strings.Contains(errLower, "context deadline exceeded") ||
		strings.Contains(errLower, "deadline exceeded") {
		return "Request timeout - the server did not answer in time, try increasing --timeout"
	}

	// Proxy errors (check before connection errors since proxy errors often contain "connection refused")
	if strings.Contains(errLower, "proxy") {
		return "Proxy connection failed - verify HTTP_PROXY/HTTPS_PROXY settings"
	}

	// DNS resolution errors
	if strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "dns") ||
		strings.Contains(errLower, "dial tcp: lookup") {
		return "DNS resolution failed - verify the endpoint hostname and network"
	}

	// Connection refused (server not running)
	if strings.Contains(errLower, "connection refused") {
		return "Connection refused - check that the server is running and the port is correct"
	}

	if strings.Contains(errLower, "connection reset") {
		return "Connection reset by server - the server may have crashed or a network issue occurred"
	}

	if strings.Contains(errLower, "network is unreachable") ||
		strings.Contains(errLower, "no route to host") {
		return "Network unreachable - check network connection and firewall settings"
	}

	// TLS/SSL errors
	if strings.Contains(errLower, "tls") ||
		strings.Contains(errLower, "ssl") ||
		strings.Contains(errLower, "certificate") ||
		strings.Contains(errLower, "x509") {
		return categorizeSSLError(errStr)
	}

	if strings.Contains(errLower, "invalid url") ||
		strings.Contains(errLower, "unsupported protocol") {
		return "Invalid URL - verify the endpoint format and protocol (http/https)"
	}

	// EOF errors (connection closed unexpectedly)
	if strings.Contains(errLower, "eof") {
		return "Connection closed unexpectedly - the server terminated the connection"
	}

	if strings.Contains(errLower, "timeout") ||
		strings.Contains(errLower, "timed out") {
		return "Connection timeout - the server took too long to respond"
	}

	return "Request failed: " + errStr
}

// categorizeSSLError provides specific guidance for TLS/SSL certificate errors
func categorizeSSLError(errStr string) string {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "unknown authority") ||
		strings.Contains(errLower, "certificate is not trusted") {
		return "TLS certificate verification failed - pass --ca-file or --insecure"
	}

	if strings.Contains(errLower, "expired") {
		return "TLS certificate has expired - contact the server administrator or pass --insecure"
	}

	if strings.Contains(errLower, "certificate is valid for") ||
		strings.Contains(errLower, "doesn't match") {
		return "TLS hostname mismatch - certificate doesn't match the endpoint hostname"
	}

	if strings.Contains(errLower, "handshake") {
		return "TLS handshake failed - check TLS version compatibility and the endpoint scheme"
	}

	if strings.Contains(errLower, "certificate required") {
		return "TLS client certificate required - configure cert_file and key_file"
	}

	return "TLS/SSL error - check certificate configuration: " + errStr
}

// categorizeError unwraps the error chain and picks a message for the root cause
func categorizeError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timeout - the server did not answer in time, try increasing --timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Request timeout - the server did not answer in time, try increasing --timeout"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return "Connection timeout - the server took too long to respond"
		}
		var errno syscall.Errno
		if errors.As(opErr.Err, &errno) {
			switch errno {
			case syscall.ECONNREFUSED:
				return "Connection refused - check that the server is running and the port is correct"
			case syscall.ECONNRESET:
				return "Connection reset by server - the server may have crashed or a network issue occurred"
			case syscall.ENETUNREACH:
				return "Network unreachable - check network connection and firewall settings"
			case syscall.EHOSTUNREACH:
				return "Host unreachable - check that the server is online and accessible"
			}
		}
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "TLS certificate verification failed - pass --ca-file or --insecure"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "TLS certificate is invalid: " + invalidCert.Error()
	}

	return categorizeRequestError(err.Error())
}
