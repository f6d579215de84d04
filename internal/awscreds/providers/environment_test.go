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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logagent/awscreds-core/internal/awscreds"
)

func fakeEnv(values map[string]string) environmentVarGetter {
	return func(key string) string { return values[key] }
}

func TestEnvironmentProvider_ReturnsCredentialsWhenSet(t *testing.T) {
	p := &EnvironmentProvider{getenv: fakeEnv(map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKIAEXAMPLE",
		"AWS_SECRET_ACCESS_KEY": "wJalrEXAMPLEKEY",
	})}

	creds, err := p.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "wJalrEXAMPLEKEY", creds.SecretAccessKey)
	assert.Equal(t, "", creds.SessionToken)
	assert.Equal(t, awscreds.NeverExpires, creds.Expiration)
}

func TestEnvironmentProvider_IncludesSessionTokenWhenPresent(t *testing.T) {
	p := &EnvironmentProvider{getenv: fakeEnv(map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKIAEXAMPLE",
		"AWS_SECRET_ACCESS_KEY": "wJalrEXAMPLEKEY",
		"AWS_SESSION_TOKEN":     "tok",
	})}

	creds, err := p.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "tok", creds.SessionToken)
}

func TestEnvironmentProvider_NotApplicableWhenUnset(t *testing.T) {
	p := &EnvironmentProvider{getenv: fakeEnv(nil)}

	_, err := p.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNotApplicable)
}

func TestEnvironmentProvider_NotApplicableWhenOnlyOneVarSet(t *testing.T) {
	p := &EnvironmentProvider{getenv: fakeEnv(map[string]string{
		"AWS_ACCESS_KEY_ID": "AKIAEXAMPLE",
	})}

	_, err := p.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNotApplicable)
}

func TestEnvironmentProvider_RefreshPropagatesNotApplicable(t *testing.T) {
	p := &EnvironmentProvider{getenv: fakeEnv(nil)}

	err := p.Refresh(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNotApplicable)
}
