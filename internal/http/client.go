// Package http builds the HTTP client shared by all cash register API calls.
package http

import (
	"crypto/tls"
	"net"
	nethttp "net/http"

	"golang.org/x/net/http2"

	"github.com/jtdman/CashRegister/internal/constants"
)

// NewClient creates the HTTP client used for all API calls.
//
// The client carries no overall timeout: every operation bounds itself with a
// context deadline instead (5s for the health probe, 30s for a submission).
// Connections are pooled so batch and watch modes reuse them across the many
// requests they issue against the same host.
//
// Proxy settings come from the environment (HTTP_PROXY, HTTPS_PROXY, NO_PROXY).
func NewClient() *nethttp.Client {
	transport := &nethttp.Transport{
		Proxy: nethttp.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   constants.MaxMaxConcurrent,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
	}

	// HTTP/2 for hosts that negotiate it; the local dev server stays on HTTP/1.1.
	_ = http2.ConfigureTransport(transport)

	return &nethttp.Client{
		Transport: transport,
	}
}
