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

// Package chain composes the source providers in a fixed precedence
// order, trying each in turn and logging non-fatal failures at debug
// level while continuing.
package chain

import (
	"context"
	"errors"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/log"
)

// Chain holds the ordered list of source providers and exclusively
// owns them.
type Chain struct {
	providers []awscreds.Provider
	log       log.T
}

// New builds a Chain evaluating providers in the given order. Callers
// are expected to pass environment, profile, web-identity, imds, and
// http-endpoint providers in that order; the Chain itself does not
// enforce which concrete providers are used, only their traversal
// order.
func New(logger log.T, providers ...awscreds.Provider) *Chain {
	return &Chain{providers: providers, log: logger.WithContext("chain")}
}

// GetCredentials returns the credential of the first provider that
// succeeds. A NotApplicable decline is silent; any other error is
// logged at debug level and the chain advances.
func (c *Chain) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	for _, p := range c.providers {
		creds, err := p.GetCredentials(ctx)
		if err == nil {
			return creds, nil
		}
		if errors.Is(err, awscreds.ErrNotApplicable) {
			continue
		}
		c.log.Debugf("credential source declined: %v", err)
	}
	return awscreds.Credential{}, awscreds.ErrNoCredentialsAvailable
}

// Refresh forwards to the first provider whose Refresh succeeds, in
// the same fixed order. A successful Refresh does not imply the result
// is usable -- callers must still call GetCredentials.
func (c *Chain) Refresh(ctx context.Context) error {
	for _, p := range c.providers {
		if err := p.Refresh(ctx); err == nil {
			return nil
		} else if !errors.Is(err, awscreds.ErrNotApplicable) {
			c.log.Debugf("credential source refresh failed: %v", err)
		}
	}
	return awscreds.ErrNoCredentialsAvailable
}

func (c *Chain) SyncModeHint() {
	for _, p := range c.providers {
		p.SyncModeHint()
	}
}

func (c *Chain) AsyncModeHint() {
	for _, p := range c.providers {
		p.AsyncModeHint()
	}
}

// Close releases every sub-provider, collecting (not stopping at) the
// first error encountered.
func (c *Chain) Close() error {
	var firstErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
