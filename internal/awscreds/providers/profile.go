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
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/logagent/awscreds-core/internal/awscreds"
)

const (
	profileProviderName = "profile"
	defaultProfileName  = "default"
	accessKeyIDKey      = "aws_access_key_id"
	secretAccessKeyKey  = "aws_secret_access_key"
	sessionTokenKey     = "aws_session_token"
)

// ProfileProvider resolves credentials from an INI-style shared
// credentials file. Malformed files surface as ErrConfiguration; an
// absent file or absent profile is NotApplicable.
type ProfileProvider struct {
	getenv environmentVarGetter
}

// NewProfileProvider builds a provider reading from the real process
// environment.
func NewProfileProvider() *ProfileProvider {
	return &ProfileProvider{getenv: os.Getenv}
}

// GetCredentials loads $AWS_SHARED_CREDENTIALS_FILE (default
// $HOME/.aws/credentials) and extracts the profile named by
// $AWS_PROFILE (default "default").
func (p *ProfileProvider) GetCredentials(ctx context.Context) (awscreds.Credential, error) {
	path, err := p.credentialsFilePath()
	if err != nil {
		return awscreds.Credential{}, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		return awscreds.Credential{}, awscreds.ErrNotApplicable
	}

	file, err := ini.Load(path)
	if err != nil {
		return awscreds.Credential{}, fmt.Errorf("%w: parsing shared credentials file %s: %v", awscreds.ErrConfiguration, path, err)
	}

	profileName := p.getenv("AWS_PROFILE")
	if profileName == "" {
		profileName = defaultProfileName
	}

	section, err := file.GetSection(profileName)
	if err != nil {
		return awscreds.Credential{}, awscreds.ErrNotApplicable
	}

	accessKeyID := section.Key(accessKeyIDKey).String()
	secretAccessKey := section.Key(secretAccessKeyKey).String()
	if accessKeyID == "" || secretAccessKey == "" {
		return awscreds.Credential{}, fmt.Errorf("%w: profile %q in %s is missing required keys", awscreds.ErrConfiguration, profileName, path)
	}

	return awscreds.Credential{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		SessionToken:    section.Key(sessionTokenKey).String(),
		Expiration:      awscreds.NeverExpires,
		Source:          profileProviderName,
	}, nil
}

// Refresh re-reads the credentials file; there is nothing cached
// between calls since profile credentials never expire.
func (p *ProfileProvider) Refresh(ctx context.Context) error {
	_, err := p.GetCredentials(ctx)
	return err
}

func (p *ProfileProvider) SyncModeHint()  {}
func (p *ProfileProvider) AsyncModeHint() {}
func (p *ProfileProvider) Close() error   { return nil }

func (p *ProfileProvider) credentialsFilePath() (string, error) {
	if path := p.getenv("AWS_SHARED_CREDENTIALS_FILE"); path != "" {
		return path, nil
	}

	home := p.getenv("HOME")
	if home == "" {
		return "", awscreds.ErrNotApplicable
	}
	return filepath.Join(home, ".aws", "credentials"), nil
}
