// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License").
// You may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpclient provides the thin HTTP client handle injected into
// every network-backed credential provider. It carries the upstream
// connection pool, a logical service tag and an optional proxy field,
// and nothing else. It holds no static headers: every header is passed
// to Do by the caller. Signing, retries, and the shared *tls.Config for
// providers that need HTTPS are the caller's concern.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// Response is the minimal shape every provider needs from an HTTP
// round-trip: a status code and the response payload.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Doer is the HTTP client abstraction injected by the host. A *Client
// below is the default implementation; tests substitute a fake that
// records calls (see internal/awscreds/providers tests).
type Doer interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error)
}

// Client is the default Doer, a thin wrapper around net/http that
// enforces the caller's per-request deadline and TLS context on every
// round trip.
type Client struct {
	// Service is a logical tag (e.g. "imds", "sts") used only for
	// diagnostics; it never changes request behavior.
	Service string

	// Proxy is stored on the handle but Do does not consult it. Every
	// request, IMDS and container endpoint included, uses the proxy
	// settings of the transport cloned from http.DefaultTransport (the
	// HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment).
	Proxy func(*http.Request) (*http.Request, error)

	transport *http.Transport
}

// New builds a Client sharing the given TLS context and connection
// pool settings. tlsConfig may be nil for plain-HTTP clients (IMDS,
// container endpoint).
func New(service string, tlsConfig *tls.Config) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}
	return &Client{Service: service, transport: transport}
}

// Do issues a single HTTP request honoring ctx's deadline/cancellation.
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return Response{}, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpClient := &http.Client{Transport: c.transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	return Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: payload}, nil
}

// DefaultTimeout is a general-purpose deadline a caller can wrap around
// a Do call with context.WithTimeout. Do applies no deadline beyond the
// one on ctx, and no code in this module references DefaultTimeout.
const DefaultTimeout = 30 * time.Second
