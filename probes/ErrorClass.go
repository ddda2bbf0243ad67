package probes

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

const (
	ErrorClassTimeout           = "timeout"
	ErrorClassDNS               = "dns"
	ErrorClassTLS               = "tls"
	ErrorClassConnectionRefused = "connection-refused"
	ErrorClassConnectionReset   = "connection-reset"
	ErrorClassProxy             = "proxy"
	ErrorClassCanceled          = "canceled"
	ErrorClassTransport         = "transport"
	ErrorClassInvalidRequest    = "invalid-request"
)

// ClassifyError maps a transport failure to a short error class.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "proxyconnect" {
		return ErrorClassProxy
	}

	if errors.Is(err, context.Canceled) {
		return ErrorClassCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorClassDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrorClassConnectionRefused
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return ErrorClassConnectionReset
	}

	if isTLSError(err) {
		return ErrorClassTLS
	}

	return ErrorClassTransport
}

func isTLSError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
