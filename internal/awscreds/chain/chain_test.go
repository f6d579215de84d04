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

package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/log"
)

type stubProvider struct {
	cred        awscreds.Credential
	err         error
	refreshErr  error
	calls       int
	refreshCall int
}

func (s *stubProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	s.calls++
	return s.cred, s.err
}
func (s *stubProvider) Refresh(ctx context.Context) error {
	s.refreshCall++
	return s.refreshErr
}
func (s *stubProvider) SyncModeHint()  {}
func (s *stubProvider) AsyncModeHint() {}
func (s *stubProvider) Close() error   { return nil }

func TestChain_ReturnsFirstSuccessfulProvider(t *testing.T) {
	env := &stubProvider{cred: awscreds.Credential{AccessKeyID: "A", Source: "environment"}}
	profile := &stubProvider{cred: awscreds.Credential{AccessKeyID: "B", Source: "profile"}}
	c := New(log.NewMockLog(), env, profile)

	creds, err := c.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "A", creds.AccessKeyID)
	assert.Equal(t, 0, profile.calls)
}

func TestChain_SilentlySkipsNotApplicable(t *testing.T) {
	env := &stubProvider{err: awscreds.ErrNotApplicable}
	profileProv := &stubProvider{err: awscreds.ErrNotApplicable}
	imds := &stubProvider{cred: awscreds.Credential{AccessKeyID: "C", Source: "imds"}}
	mockLog := log.NewMockLog()
	c := New(mockLog, env, profileProv, imds)

	creds, err := c.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "C", creds.AccessKeyID)
	assert.Equal(t, 1, env.calls)
	assert.Equal(t, 1, profileProv.calls)
	mockLog.AssertNumberOfCalls(t, "Debugf", 0)
}

func TestChain_LogsAndAdvancesOnOtherErrors(t *testing.T) {
	env := &stubProvider{err: errors.New("transient network error")}
	imds := &stubProvider{cred: awscreds.Credential{AccessKeyID: "D", Source: "imds"}}
	mockLog := log.NewMockLog()
	c := New(mockLog, env, imds)

	creds, err := c.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "D", creds.AccessKeyID)
	mockLog.AssertNumberOfCalls(t, "Debugf", 1)
}

func TestChain_ExhaustionReturnsNoCredentialsAvailable(t *testing.T) {
	env := &stubProvider{err: awscreds.ErrNotApplicable}
	profileProv := &stubProvider{err: awscreds.ErrNotApplicable}
	c := New(log.NewMockLog(), env, profileProv)

	_, err := c.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNoCredentialsAvailable)
}

func TestChain_RefreshForwardsToFirstSuccess(t *testing.T) {
	env := &stubProvider{refreshErr: awscreds.ErrNotApplicable}
	profileProv := &stubProvider{}
	imds := &stubProvider{}
	c := New(log.NewMockLog(), env, profileProv, imds)

	err := c.Refresh(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, env.refreshCall)
	assert.Equal(t, 1, profileProv.refreshCall)
	assert.Equal(t, 0, imds.refreshCall)
}
