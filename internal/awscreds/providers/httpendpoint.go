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

package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/cache"
	"github.com/logagent/awscreds-core/internal/httpclient"
)

const (
	httpEndpointProviderName = "http-endpoint"
	containerCredentialsHost = "169.254.170.2"

	envRelativeURI = "AWS_CONTAINER_CREDENTIALS_RELATIVE_URI"
	envFullURI     = "AWS_CONTAINER_CREDENTIALS_FULL_URI"
	envAuthToken   = "AWS_CONTAINER_AUTHORIZATION_TOKEN"
)

// HTTPEndpointProvider fetches credentials from the ECS/container
// credentials endpoint. It only participates in the chain when one of
// AWS_CONTAINER_CREDENTIALS_RELATIVE_URI or
// AWS_CONTAINER_CREDENTIALS_FULL_URI is set.
type HTTPEndpointProvider struct {
	getenv environmentVarGetter
	doer   httpclient.Doer

	cached cache.Cached
}

// NewHTTPEndpointProvider builds a provider issuing requests via doer.
func NewHTTPEndpointProvider(doer httpclient.Doer) *HTTPEndpointProvider {
	return &HTTPEndpointProvider{
		getenv: os.Getenv,
		doer:   doer,
		cached: cache.Cached{RefreshWindow: defaultRefreshWindow},
	}
}

// GetCredentials implements awscreds.Provider.
func (p *HTTPEndpointProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	endpoint, err := p.endpoint()
	if err != nil {
		return awscreds.Credential{}, err
	}

	return p.cached.Get(ctx, func(ctx context.Context) (awscreds.Credential, error) {
		return p.fetch(ctx, endpoint)
	})
}

func (p *HTTPEndpointProvider) endpoint() (string, error) {
	if full := p.getenv(envFullURI); full != "" {
		return full, nil
	}
	if relative := p.getenv(envRelativeURI); relative != "" {
		return fmt.Sprintf("http://%s%s", containerCredentialsHost, relative), nil
	}
	return "", awscreds.ErrNotApplicable
}

func (p *HTTPEndpointProvider) fetch(ctx context.Context, endpoint string) (awscreds.Credential, error) {
	headers := map[string]string{}
	if token := p.getenv(envAuthToken); token != "" {
		headers["Authorization"] = token
	}

	resp, err := p.doer.Do(ctx, http.MethodGet, endpoint, headers, nil)
	if err != nil {
		return awscreds.Credential{}, awscreds.WrapTransportErr(err, awscreds.ErrHTTPEndpointUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return awscreds.Credential{}, fmt.Errorf("%w: endpoint returned status %d", awscreds.ErrHTTPEndpointUnavailable, resp.StatusCode)
	}

	creds, err := awscreds.ParseEnvelope(resp.Body)
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: %v", awscreds.ErrHTTPEndpointUnavailable, err)
	}
	creds.Source = httpEndpointProviderName
	return creds, nil
}

// Refresh forces a fresh fetch.
func (p *HTTPEndpointProvider) Refresh(ctx context.Context) error {
	p.cached.Invalidate()
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *HTTPEndpointProvider) SyncModeHint()  {}
func (p *HTTPEndpointProvider) AsyncModeHint() {}
func (p *HTTPEndpointProvider) Close() error   { return nil }
