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

import "context"

// Provider is the uniform interface every credential source, the STS
// assume-role wrapper, and the chain all implement: get credentials,
// force a refresh, hint at blocking behavior, and release resources.
type Provider interface {
	// GetCredentials returns a fresh (non-stale) credential, refreshing
	// from the source if necessary. Returns ErrNotApplicable if this
	// source's preconditions are not met.
	GetCredentials(ctx context.Context) (Credential, error)

	// Refresh unconditionally re-fetches from the source. A successful
	// Refresh does not imply the result is usable -- callers must
	// still call GetCredentials.
	Refresh(ctx context.Context) error

	// SyncModeHint and AsyncModeHint select the provider's blocking
	// behavior prior to first use. Every provider here already uses
	// blocking I/O on the calling goroutine regardless of which hint is
	// given, so these are no-ops kept only to satisfy the interface.
	SyncModeHint()
	AsyncModeHint()

	// Close releases any resources (connections, file handles) the
	// provider holds. A provider may be used after Close returns an
	// error but must not be reused if Close succeeded.
	Close() error
}
