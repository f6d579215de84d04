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
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/logagent/awscreds-core/internal/awsconfig"
	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/cache"
	"github.com/logagent/awscreds-core/internal/httpclient"
)

const (
	webIdentityProviderName = "web-identity"
	stsAPIVersion           = "2011-06-15"
	stsSessionNamePrefix    = "awscreds"
)

// assumeRoleWithWebIdentityResponse unmarshals either a successful
// AssumeRoleWithWebIdentityResponse or an ErrorResponse: encoding/xml
// matches child elements by tag regardless of the document's root
// element name when no XMLName field is present, so one struct covers
// both shapes STS returns.
type assumeRoleWithWebIdentityResponse struct {
	Result struct {
		Credentials struct {
			AccessKeyID     string `xml:"AccessKeyId"`
			SecretAccessKey string `xml:"SecretAccessKey"`
			SessionToken    string `xml:"SessionToken"`
			Expiration      string `xml:"Expiration"`
		} `xml:"Credentials"`
	} `xml:"AssumeRoleWithWebIdentityResult"`
	Error struct {
		Code    string `xml:"Code"`
		Message string `xml:"Message"`
	} `xml:"Error"`
}

// WebIdentityProvider exchanges an OIDC token (e.g. an IRSA-style
// Kubernetes service account token) for role credentials via STS's
// unsigned AssumeRoleWithWebIdentity call. It is active only when
// AWS_WEB_IDENTITY_TOKEN_FILE and AWS_ROLE_ARN are both set.
type WebIdentityProvider struct {
	getenv    environmentVarGetter
	readToken func(path string) ([]byte, error)
	doer      httpclient.Doer
	region    string

	cached cache.Cached
}

// NewWebIdentityProvider builds a provider reading the token file path
// and role ARN from the process environment, issuing STS calls via doer
// against the regional STS endpoint.
func NewWebIdentityProvider(doer httpclient.Doer, region string) *WebIdentityProvider {
	return &WebIdentityProvider{
		getenv:    os.Getenv,
		readToken: os.ReadFile,
		doer:      doer,
		region:    region,
		cached:    cache.Cached{RefreshWindow: defaultRefreshWindow},
	}
}

// GetCredentials implements awscreds.Provider.
func (p *WebIdentityProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	tokenFile := p.getenv("AWS_WEB_IDENTITY_TOKEN_FILE")
	roleArn := p.getenv("AWS_ROLE_ARN")
	if tokenFile == "" || roleArn == "" {
		return awscreds.Credential{}, awscreds.ErrNotApplicable
	}

	return p.cached.Get(ctx, func(ctx context.Context) (awscreds.Credential, error) {
		return p.assumeRoleWithWebIdentity(ctx, tokenFile, roleArn)
	})
}

func (p *WebIdentityProvider) assumeRoleWithWebIdentity(ctx context.Context, tokenFile, roleArn string) (awscreds.Credential, error) {
	token, err := p.readToken(tokenFile)
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: reading web identity token file %s: %v", awscreds.ErrConfiguration, tokenFile, err)
	}

	sessionName := p.getenv("AWS_ROLE_SESSION_NAME")
	if sessionName == "" {
		sessionName = stsSessionNamePrefix
	}

	query := url.Values{}
	query.Set("Action", "AssumeRoleWithWebIdentity")
	query.Set("Version", stsAPIVersion)
	query.Set("RoleArn", roleArn)
	query.Set("RoleSessionName", sessionName)
	query.Set("WebIdentityToken", string(token))

	endpoint := stsEndpoint(p.region) + "?" + query.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, awsconfig.DefaultSTSTimeout)
	defer cancel()

	resp, err := p.doer.Do(reqCtx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return awscreds.Credential{}, awscreds.WrapTransportErr(err, awscreds.ErrHTTPEndpointUnavailable)
	}

	var parsed assumeRoleWithWebIdentityResponse
	if xmlErr := xml.Unmarshal(resp.Body, &parsed); xmlErr != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: parsing STS response: %v", awscreds.ErrMalformed, xmlErr)
	}

	if resp.StatusCode != http.StatusOK {
		return awscreds.Credential{}, &awscreds.StsRejectedError{Code: parsed.Error.Code, Message: parsed.Error.Message}
	}

	envelope, err := awscreds.ParseEnvelope([]byte(fmt.Sprintf(
		`{"AccessKeyId":%q,"SecretAccessKey":%q,"Token":%q,"Expiration":%q}`,
		parsed.Result.Credentials.AccessKeyID,
		parsed.Result.Credentials.SecretAccessKey,
		parsed.Result.Credentials.SessionToken,
		parsed.Result.Credentials.Expiration,
	)))
	if err != nil {
		return awscreds.Credential{}, err
	}
	envelope.Source = webIdentityProviderName
	return envelope, nil
}

// Refresh forces a fresh assume-role exchange.
func (p *WebIdentityProvider) Refresh(ctx context.Context) error {
	p.cached.Invalidate()
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *WebIdentityProvider) SyncModeHint()  {}
func (p *WebIdentityProvider) AsyncModeHint() {}
func (p *WebIdentityProvider) Close() error   { return nil }

func stsEndpoint(region string) string {
	if region == "" {
		return "https://sts.amazonaws.com/"
	}
	return fmt.Sprintf("https://sts.%s.amazonaws.com/", region)
}
