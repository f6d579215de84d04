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

package stsassume

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/httpclient"
)

type staticProvider struct {
	cred awscreds.Credential
	err  error
}

func (s *staticProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	return s.cred, s.err
}
func (s *staticProvider) Refresh(ctx context.Context) error { return nil }
func (s *staticProvider) SyncModeHint()                     {}
func (s *staticProvider) AsyncModeHint()                    {}
func (s *staticProvider) Close() error                      { return nil }

type fakeDoer struct {
	responses []httpclient.Response
	calls     int
}

func (d *fakeDoer) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (httpclient.Response, error) {
	resp := d.responses[d.calls]
	d.calls++
	return resp, nil
}

func baseEnvProvider() *staticProvider {
	return &staticProvider{cred: awscreds.Credential{
		AccessKeyID:     "AKIABASE",
		SecretAccessKey: "basesecret",
		Expiration:      awscreds.NeverExpires,
		Source:          "environment",
	}}
}

func TestProvider_ReturnsAssumedRoleCredentialsNotBase(t *testing.T) {
	body := []byte(`<AssumeRoleResponse><AssumeRoleResult><Credentials>` +
		`<AccessKeyId>ASIAEXAMPLEY</AccessKeyId><SecretAccessKey>newsecret</SecretAccessKey>` +
		`<SessionToken>tok</SessionToken><Expiration>2030-01-01T00:00:00Z</Expiration>` +
		`</Credentials></AssumeRoleResult></AssumeRoleResponse>`)
	doer := &fakeDoer{responses: []httpclient.Response{{StatusCode: http.StatusOK, Body: body}}}

	p, err := New(baseEnvProvider(), "arn:aws:iam::123456789012:role/example", "", "us-east-1", "", 0, doer, 5*time.Minute)
	assert.NoError(t, err)

	creds, err := p.GetCredentials(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "ASIAEXAMPLEY", creds.AccessKeyID)
	assert.NotEqual(t, "AKIABASE", creds.AccessKeyID)
	assert.Equal(t, providerName, creds.Source)
}

func TestProvider_GeneratesSessionNameWhenUnset(t *testing.T) {
	doer := &fakeDoer{}
	p, err := New(baseEnvProvider(), "arn:aws:iam::123456789012:role/example", "", "us-east-1", "", 0, doer, 5*time.Minute)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(p.SessionName), 8)
}

func TestProvider_StsErrorSurfacesAsStsRejected(t *testing.T) {
	body := []byte(`<ErrorResponse><Error><Code>AccessDenied</Code><Message>not allowed</Message></Error></ErrorResponse>`)
	doer := &fakeDoer{responses: []httpclient.Response{{StatusCode: http.StatusForbidden, Body: body}}}

	p, err := New(baseEnvProvider(), "arn:aws:iam::123456789012:role/example", "fixed-session", "us-east-1", "", 0, doer, 5*time.Minute)
	assert.NoError(t, err)

	_, err = p.GetCredentials(context.Background())

	var rejected *awscreds.StsRejectedError
	assert.ErrorAs(t, err, &rejected)
	assert.Equal(t, "AccessDenied", rejected.Code)
}

func TestProvider_CachesAcrossCalls(t *testing.T) {
	body := []byte(`<AssumeRoleResponse><AssumeRoleResult><Credentials>` +
		`<AccessKeyId>ASIAEXAMPLEY</AccessKeyId><SecretAccessKey>newsecret</SecretAccessKey>` +
		`<SessionToken>tok</SessionToken><Expiration>2030-01-01T00:00:00Z</Expiration>` +
		`</Credentials></AssumeRoleResult></AssumeRoleResponse>`)
	doer := &fakeDoer{responses: []httpclient.Response{{StatusCode: http.StatusOK, Body: body}}}

	p, err := New(baseEnvProvider(), "arn:aws:iam::123456789012:role/example", "fixed-session", "us-east-1", "", 0, doer, 5*time.Minute)
	assert.NoError(t, err)

	first, err := p.GetCredentials(context.Background())
	assert.NoError(t, err)
	second, err := p.GetCredentials(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, doer.calls)
}
