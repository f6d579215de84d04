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

// Package imds implements the EC2 Instance Metadata Service v2
// protocol: token acquisition, role discovery, and role credential
// fetch. It is the lower layer the imds source provider wraps with the
// shared cache.
package imds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/retry"
	"github.com/logagent/awscreds-core/internal/httpclient"
	"github.com/logagent/awscreds-core/internal/log"
)

const (
	tokenPath          = "/latest/api/token"
	roleDiscoveryPath  = "/latest/meta-data/iam/security-credentials/"
	roleCredentialBase = "/latest/meta-data/iam/security-credentials/"

	tokenTTLHeader  = "X-aws-ec2-metadata-token-ttl-seconds"
	tokenHeader     = "X-aws-ec2-metadata-token"
	tokenTTLSeconds = "21600"

	TokenTTL = 21600 * time.Second
)

// Client drives the three-step IMDSv2 protocol against a single host.
// Its mutex serializes token acquisition and renewal only; role
// discovery and the credential fetch in Credentials run without it.
// Single-flight for the whole protocol comes from the imds source
// provider, which wraps Client in cache.Cached.
type Client struct {
	Host          string
	Doer          httpclient.Doer
	Timeout       time.Duration
	RefreshWindow time.Duration
	Log           log.T

	mu         sync.Mutex
	token      string
	tokenUntil time.Time
}

// New builds a Client with the given host (normally
// internal/awsconfig.DefaultIMDSHost) and Doer.
func New(host string, doer httpclient.Doer, timeout, refreshWindow time.Duration, logger log.T) *Client {
	return &Client{
		Host:          host,
		Doer:          doer,
		Timeout:       timeout,
		RefreshWindow: refreshWindow,
		Log:           logger,
	}
}

func (c *Client) url(path string) string {
	return "http://" + c.Host + path
}

// Token acquires (or returns the cached) IMDSv2 session token. The
// token is cached until issued_at + TTL - refresh window.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokenLocked(ctx)
}

// tokenLocked assumes c.mu is held.
func (c *Client) tokenLocked(ctx context.Context) (string, error) {
	if c.token != "" && time.Now().Before(c.tokenUntil) {
		return c.token, nil
	}

	c.Log.Debugf("[imds] requesting a new IMDSv2 token")

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.doWithRetry(reqCtx, http.MethodPut, c.url(tokenPath), map[string]string{
		tokenTTLHeader: tokenTTLSeconds,
	})
	if err != nil {
		return "", awscreds.WrapTransportErr(err, awscreds.ErrIMDSUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request returned status %d", awscreds.ErrIMDSUnavailable, resp.StatusCode)
	}

	c.token = strings.TrimSpace(string(resp.Body))
	c.tokenUntil = time.Now().Add(TokenTTL - c.RefreshWindow)

	return c.token, nil
}

// forceNewToken discards the cached token, used after a 401/403 from a
// downstream call signals the token is missing or expired.
func (c *Client) forceNewToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenUntil = time.Time{}
	return c.tokenLocked(ctx)
}

// Role discovers the name of the instance's attached IAM role. A 404
// means no role is attached and maps to ErrNotApplicable so the chain
// can silently move on.
func (c *Client) Role(ctx context.Context, token string) (string, error) {
	resp, err := c.getWithToken(ctx, roleDiscoveryPath, token)
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return strings.TrimSpace(string(resp.Body)), nil
	case http.StatusNotFound:
		return "", awscreds.ErrNotApplicable
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", errTokenRejected
	default:
		return "", fmt.Errorf("%w: role discovery returned status %d", awscreds.ErrIMDSUnavailable, resp.StatusCode)
	}
}

// RoleCredentials fetches the shared JSON credential envelope for the
// given role.
func (c *Client) RoleCredentials(ctx context.Context, token, role string) (awscreds.Credential, error) {
	resp, err := c.getWithToken(ctx, roleCredentialBase+role, token)
	if err != nil {
		return awscreds.Credential{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return awscreds.Credential{}, errTokenRejected
	default:
		return awscreds.Credential{}, fmt.Errorf("%w: credential fetch returned status %d", awscreds.ErrIMDSUnavailable, resp.StatusCode)
	}

	creds, err := awscreds.ParseEnvelope(resp.Body)
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: %v", awscreds.ErrIMDSUnavailable, err)
	}
	creds.Source = "imds"
	return creds, nil
}

// Credentials runs the full protocol: token -> role -> credentials,
// retrying once with a forced-fresh token if the server signals a
// missing/expired token via 401 or 403.
func (c *Client) Credentials(ctx context.Context) (awscreds.Credential, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return awscreds.Credential{}, err
	}

	role, err := c.Role(ctx, token)
	if errors.Is(err, errTokenRejected) {
		if token, err = c.forceNewToken(ctx); err != nil {
			return awscreds.Credential{}, err
		}
		role, err = c.Role(ctx, token)
	}
	if err != nil {
		return awscreds.Credential{}, err
	}

	c.Log.Debugf("[imds] requesting credentials for instance role %s", role)

	creds, err := c.RoleCredentials(ctx, token, role)
	if errors.Is(err, errTokenRejected) {
		if token, err = c.forceNewToken(ctx); err != nil {
			return awscreds.Credential{}, err
		}
		return c.RoleCredentials(ctx, token, role)
	}
	return creds, err
}

func (c *Client) getWithToken(ctx context.Context, path, token string) (httpclient.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.doWithRetry(reqCtx, http.MethodGet, c.url(path), map[string]string{
		tokenHeader: token,
	})
	if err != nil {
		return httpclient.Response{}, awscreds.WrapTransportErr(err, awscreds.ErrIMDSUnavailable)
	}
	return resp, nil
}

// doWithRetry retries a single round trip on transient (connection- or
// timeout-level) errors using the shared backoff policy; a response
// that comes back with a status code -- even an error status -- is not
// retried here, since 404/401/403 handling is the caller's job.
func (c *Client) doWithRetry(ctx context.Context, method, url string, headers map[string]string) (httpclient.Response, error) {
	var resp httpclient.Response
	operation := func() error {
		var err error
		resp, err = c.Doer.Do(ctx, method, url, headers, nil)
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(retry.Default(), ctx)); err != nil {
		return httpclient.Response{}, err
	}
	return resp, nil
}

// errTokenRejected signals a 401/403 from role discovery or credential
// fetch, which forces one token renewal and retry.
var errTokenRejected = errors.New("imds rejected the session token")
