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
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/imds"
	"github.com/logagent/awscreds-core/internal/httpclient"
	"github.com/logagent/awscreds-core/internal/log"
)

func TestIMDSProvider_CachesAcrossCalls(t *testing.T) {
	doer := &fakeDoer{responses: []httpclient.Response{
		{StatusCode: http.StatusOK, Body: []byte("AQAE...")},
		{StatusCode: http.StatusOK, Body: []byte("example-role")},
		{StatusCode: http.StatusOK, Body: []byte(`{"AccessKeyId":"A","SecretAccessKey":"B","Token":"C","Expiration":"2030-01-01T00:00:00Z"}`)},
	}}
	client := imds.New("169.254.169.254", doer, 5*time.Second, 5*time.Minute, log.NewMockLog())
	p := NewIMDSProvider(client)

	first, err := p.GetCredentials(context.Background())
	assert.NoError(t, err)

	second, err := p.GetCredentials(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3, doer.calls)
}

func TestIMDSProvider_RoleLessInstanceIsNotApplicable(t *testing.T) {
	doer := &fakeDoer{responses: []httpclient.Response{
		{StatusCode: http.StatusOK, Body: []byte("AQAE...")},
		{StatusCode: http.StatusNotFound},
	}}
	client := imds.New("169.254.169.254", doer, 5*time.Second, 5*time.Minute, log.NewMockLog())
	p := NewIMDSProvider(client)

	_, err := p.GetCredentials(context.Background())

	assert.ErrorIs(t, err, awscreds.ErrNotApplicable)
}
