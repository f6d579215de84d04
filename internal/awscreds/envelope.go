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

package awscreds

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope mirrors the JSON shape shared by the IMDS role path and the
// container credentials endpoint:
//
//	{"AccessKeyId":"...","SecretAccessKey":"...","Token":"...","Expiration":"2019-12-18T21:27:58Z", ...}
//
// Extra vendor fields are ignored by encoding/json's default
// unmarshal-into-struct behavior. The Expiration field is kept as a
// string and parsed explicitly, rather than relying on time.Time's own
// RFC3339 unmarshalling, so a malformed timestamp surfaces as
// ErrBadExpiration rather than a generic json error.
type envelope struct {
	AccessKeyId     string
	SecretAccessKey string
	Token           string
	Expiration      string
}

const expirationLayout = "2006-01-02T15:04:05Z"

// ParseEnvelope parses body into a Credential. It fails with
// ErrMalformed when body is not valid JSON, ErrMissingField
// when any of the four required fields is absent, and ErrBadExpiration
// when Expiration cannot be parsed. A zero or past expiration is still
// accepted -- the resulting Credential will simply be immediately
// stale.
func ParseEnvelope(body []byte) (Credential, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if env.AccessKeyId == "" {
		return Credential{}, fmt.Errorf("%w: AccessKeyId", ErrMissingField)
	}
	if env.SecretAccessKey == "" {
		return Credential{}, fmt.Errorf("%w: SecretAccessKey", ErrMissingField)
	}
	if env.Token == "" {
		return Credential{}, fmt.Errorf("%w: Token", ErrMissingField)
	}
	if env.Expiration == "" {
		return Credential{}, fmt.Errorf("%w: Expiration", ErrMissingField)
	}

	expiration, err := time.Parse(expirationLayout, env.Expiration)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %q: %v", ErrBadExpiration, env.Expiration, err)
	}

	return Credential{
		AccessKeyID:     env.AccessKeyId,
		SecretAccessKey: env.SecretAccessKey,
		SessionToken:    env.Token,
		Expiration:      expiration.UTC(),
	}, nil
}
