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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/cache"
	"github.com/logagent/awscreds-core/internal/httpclient"
)

func TestHTTPEndpointProvider_NotApplicableWhenUnconfigured(t *testing.T) {
	p := &HTTPEndpointProvider{getenv: fakeEnv(nil), doer: &fakeDoer{}}

	_, err := p.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNotApplicable)
}

func TestHTTPEndpointProvider_UsesRelativeURIAgainstContainerHost(t *testing.T) {
	doer := &fakeDoer{responses: []httpclient.Response{
		{StatusCode: http.StatusOK, Body: []byte(`{"AccessKeyId":"A","SecretAccessKey":"B","Token":"C","Expiration":"2030-01-01T00:00:00Z"}`)},
	}}
	p := &HTTPEndpointProvider{
		getenv: fakeEnv(map[string]string{"AWS_CONTAINER_CREDENTIALS_RELATIVE_URI": "/v2/creds"}),
		doer:   doer,
		cached: cache.Cached{RefreshWindow: defaultRefreshWindow},
	}

	creds, err := p.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "A", creds.AccessKeyID)
	assert.Equal(t, "http-endpoint", creds.Source)
}

func TestHTTPEndpointProvider_NonOKStatusIsUnavailable(t *testing.T) {
	doer := &fakeDoer{responses: []httpclient.Response{{StatusCode: http.StatusInternalServerError}}}
	p := &HTTPEndpointProvider{
		getenv: fakeEnv(map[string]string{"AWS_CONTAINER_CREDENTIALS_FULL_URI": "http://example/creds"}),
		doer:   doer,
		cached: cache.Cached{RefreshWindow: defaultRefreshWindow},
	}

	_, err := p.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrHTTPEndpointUnavailable)
}
