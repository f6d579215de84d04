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

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/cache"
	"github.com/logagent/awscreds-core/internal/awscreds/imds"
)

// IMDSProvider wraps an imds.Client with the shared cache.
type IMDSProvider struct {
	client *imds.Client
	cached cache.Cached
}

// NewIMDSProvider builds a provider fetching from client.
func NewIMDSProvider(client *imds.Client) *IMDSProvider {
	return &IMDSProvider{
		client: client,
		cached: cache.Cached{RefreshWindow: client.RefreshWindow},
	}
}

// GetCredentials implements awscreds.Provider.
func (p *IMDSProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	return p.cached.Get(ctx, p.client.Credentials)
}

// Refresh forces a fresh IMDS round trip.
func (p *IMDSProvider) Refresh(ctx context.Context) error {
	p.cached.Invalidate()
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *IMDSProvider) SyncModeHint()  {}
func (p *IMDSProvider) AsyncModeHint() {}
func (p *IMDSProvider) Close() error   { return nil }
