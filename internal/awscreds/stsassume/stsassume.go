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

// Package stsassume wraps a base awscreds.Provider and exchanges its
// credentials for a role's short-lived ones via STS AssumeRole,
// signing the request with aws-sdk-go's SigV4 signer against the base
// credentials.
package stsassume

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	awssdkcreds "github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"

	"github.com/logagent/awscreds-core/internal/awsconfig"
	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/cache"
	"github.com/logagent/awscreds-core/internal/httpclient"
)

const (
	providerName        = "sts-assume-role"
	stsAPIVersion       = "2011-06-15"
	sessionNameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionNameLength   = 12
)

var errAssumeRoleFailed = errors.New("assume-role request failed")

type assumeRoleResponse struct {
	Result struct {
		Credentials struct {
			AccessKeyID     string `xml:"AccessKeyId"`
			SecretAccessKey string `xml:"SecretAccessKey"`
			SessionToken    string `xml:"SessionToken"`
			Expiration      string `xml:"Expiration"`
		} `xml:"Credentials"`
	} `xml:"AssumeRoleResult"`
	Error struct {
		Code    string `xml:"Code"`
		Message string `xml:"Message"`
	} `xml:"Error"`
}

// Provider wraps a base provider, signing an AssumeRole call with the
// base's credentials to exchange them for a role's own.
type Provider struct {
	Base        awscreds.Provider
	RoleArn     string
	SessionName string
	Region      string
	ExternalID  string
	Duration    time.Duration
	Doer        httpclient.Doer

	cached cache.Cached
}

// New builds a Provider. When sessionName is empty a random
// alphanumeric session name is generated once.
func New(base awscreds.Provider, roleArn, sessionName, region, externalID string, duration time.Duration, doer httpclient.Doer, refreshWindow time.Duration) (*Provider, error) {
	if sessionName == "" {
		generated, err := randomSessionName()
		if err != nil {
			return nil, fmt.Errorf("generating session name: %w", err)
		}
		sessionName = generated
	}

	return &Provider{
		Base:        base,
		RoleArn:     roleArn,
		SessionName: sessionName,
		Region:      region,
		ExternalID:  externalID,
		Duration:    duration,
		Doer:        doer,
		cached:      cache.Cached{RefreshWindow: refreshWindow},
	}, nil
}

// GetCredentials implements awscreds.Provider.
func (p *Provider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	return p.cached.Get(ctx, p.assumeRole)
}

func (p *Provider) assumeRole(ctx context.Context) (awscreds.Credential, error) {
	baseCreds, err := p.Base.GetCredentials(ctx)
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("obtaining base credentials for assume-role: %w", err)
	}

	form := url.Values{}
	form.Set("Action", "AssumeRole")
	form.Set("Version", stsAPIVersion)
	form.Set("RoleArn", p.RoleArn)
	form.Set("RoleSessionName", p.SessionName)
	if p.ExternalID != "" {
		form.Set("ExternalId", p.ExternalID)
	}
	if p.Duration > 0 {
		form.Set("DurationSeconds", fmt.Sprintf("%d", int(p.Duration.Seconds())))
	}
	payload := []byte(form.Encode())

	reqCtx, cancel := context.WithTimeout(ctx, awsconfig.DefaultSTSTimeout)
	defer cancel()

	endpoint := stsEndpoint(p.Region)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("building assume-role request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	signer := v4.NewSigner(awssdkcreds.NewStaticCredentials(baseCreds.AccessKeyID, baseCreds.SecretAccessKey, baseCreds.SessionToken))
	if _, err := signer.Sign(req, bytes.NewReader(payload), "sts", p.Region, time.Now()); err != nil {
		return awscreds.Credential{}, fmt.Errorf("signing assume-role request: %w", err)
	}

	headers := map[string]string{"Content-Type": req.Header.Get("Content-Type")}
	for key := range req.Header {
		headers[key] = req.Header.Get(key)
	}

	resp, err := p.Doer.Do(reqCtx, http.MethodPost, endpoint, headers, payload)
	if err != nil {
		return awscreds.Credential{}, awscreds.WrapTransportErr(err, errAssumeRoleFailed)
	}

	var parsed assumeRoleResponse
	if xmlErr := xml.Unmarshal(resp.Body, &parsed); xmlErr != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: parsing STS response: %v", awscreds.ErrMalformed, xmlErr)
	}

	if resp.StatusCode != http.StatusOK {
		return awscreds.Credential{}, &awscreds.StsRejectedError{Code: parsed.Error.Code, Message: parsed.Error.Message}
	}

	creds, err := awscreds.ParseEnvelope([]byte(fmt.Sprintf(
		`{"AccessKeyId":%q,"SecretAccessKey":%q,"Token":%q,"Expiration":%q}`,
		parsed.Result.Credentials.AccessKeyID,
		parsed.Result.Credentials.SecretAccessKey,
		parsed.Result.Credentials.SessionToken,
		parsed.Result.Credentials.Expiration,
	)))
	if err != nil {
		return awscreds.Credential{}, err
	}
	creds.Source = providerName
	return creds, nil
}

// Refresh forces a fresh AssumeRole exchange.
func (p *Provider) Refresh(ctx context.Context) error {
	p.cached.Invalidate()
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *Provider) SyncModeHint()  {}
func (p *Provider) AsyncModeHint() {}
func (p *Provider) Close() error   { return nil }

func stsEndpoint(region string) string {
	if region == "" {
		return "https://sts.amazonaws.com/"
	}
	return fmt.Sprintf("https://sts.%s.amazonaws.com/", region)
}

func randomSessionName() (string, error) {
	buf := make([]byte, sessionNameLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = sessionNameAlphabet[int(b)%len(sessionNameAlphabet)]
	}
	return string(buf), nil
}
