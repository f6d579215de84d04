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
	"context"
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced by the core. Providers and the chain
// wrap these with fmt.Errorf("...: %w", ErrX) so callers can dispatch
// with errors.Is while still getting a useful message.
var (
	// ErrNotApplicable means a source declines to produce credentials
	// because its preconditions are not met (e.g. the env vars are
	// unset). The chain recovers from this silently.
	ErrNotApplicable = errors.New("credential source is not applicable")

	// ErrConfiguration means a source's configuration (a profile file,
	// an env var) is present but malformed.
	ErrConfiguration = errors.New("credential source misconfigured")

	// ErrIMDSUnavailable means the instance metadata service returned
	// an unexpected status or could not be reached.
	ErrIMDSUnavailable = errors.New("instance metadata service unavailable")

	// ErrHTTPEndpointUnavailable means the container/custom HTTP
	// credentials endpoint returned an unexpected status or could not
	// be reached.
	ErrHTTPEndpointUnavailable = errors.New("http credentials endpoint unavailable")

	// ErrMalformed means a credential response body was not valid JSON.
	ErrMalformed = errors.New("credential response is not valid JSON")

	// ErrMissingField means a required field was absent from an
	// otherwise well-formed credential response.
	ErrMissingField = errors.New("credential response is missing a required field")

	// ErrBadExpiration means the Expiration field could not be parsed
	// as an ISO-8601 UTC timestamp.
	ErrBadExpiration = errors.New("credential response expiration is unparsable")

	// ErrCancelled means the caller's context was cancelled mid-refresh.
	ErrCancelled = errors.New("credential refresh was cancelled")

	// ErrTimeout means a request deadline elapsed before a response
	// was received.
	ErrTimeout = errors.New("credential request timed out")

	// ErrNoCredentialsAvailable means every source in a chain declined
	// or failed.
	ErrNoCredentialsAvailable = errors.New("no credentials available from any source")
)

// StsRejectedError carries the error code and message STS returned in
// its <Error> element. It wraps neither sentinel above since STS's
// error vocabulary is open-ended; callers that want to branch on it
// should use errors.As.
type StsRejectedError struct {
	Code    string
	Message string
}

func (e *StsRejectedError) Error() string {
	return fmt.Sprintf("sts rejected the request: %s: %s", e.Code, e.Message)
}

// WrapTransportErr classifies a transport-level error: context
// cancellation and deadline errors become ErrCancelled/ErrTimeout so
// callers can dispatch on them with errors.Is, and anything else is
// wrapped with fallback.
func WrapTransportErr(err error, fallback error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}
