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
	"os"

	"github.com/logagent/awscreds-core/internal/awscreds"
)

const environmentProviderName = "environment"

// environmentVarGetter is overridden in tests to avoid contaminating
// the host process environment.
type environmentVarGetter func(string) string

// EnvironmentProvider resolves credentials from AWS_ACCESS_KEY_ID,
// AWS_SECRET_ACCESS_KEY and the optional AWS_SESSION_TOKEN.
type EnvironmentProvider struct {
	getenv environmentVarGetter
}

// NewEnvironmentProvider builds a provider reading from the real
// process environment.
func NewEnvironmentProvider() *EnvironmentProvider {
	return &EnvironmentProvider{getenv: os.Getenv}
}

// GetCredentials implements awscreds.Provider. Both AWS_ACCESS_KEY_ID
// and AWS_SECRET_ACCESS_KEY must be non-empty or the provider declines
// with ErrNotApplicable.
func (p *EnvironmentProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	accessKeyID := p.getenv("AWS_ACCESS_KEY_ID")
	secretAccessKey := p.getenv("AWS_SECRET_ACCESS_KEY")
	if accessKeyID == "" || secretAccessKey == "" {
		return awscreds.Credential{}, awscreds.ErrNotApplicable
	}

	return awscreds.Credential{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    p.getenv("AWS_SESSION_TOKEN"),
		Expiration:      awscreds.NeverExpires,
		Source:          environmentProviderName,
	}, nil
}

// Refresh re-reads the environment; there is nothing to cache.
func (p *EnvironmentProvider) Refresh(ctx context.Context) error {
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *EnvironmentProvider) SyncModeHint()  {}
func (p *EnvironmentProvider) AsyncModeHint() {}
func (p *EnvironmentProvider) Close() error   { return nil }
