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

// Package awscreds is the AWS credential resolution core: it discovers
// signing credentials from a prioritized set of sources, caches them
// with time-based expiration, and refreshes them before they expire.
// Request signing itself is out of scope; downstream signing clients
// consume the Credential this package produces.
package awscreds

import "time"

// Credential is an immutable record of short-lived (or static) AWS
// signing material. Callers own the value returned to them and may
// hold on to it independently of the provider that produced it -- see
// Clone.
type Credential struct {
	AccessKeyID     string
	SecretAccessKey string
	// SessionToken is required for every source except environment and
	// profile (which may be long-lived, IAM-user style credentials).
	SessionToken string
	// Expiration is the absolute instant this credential becomes
	// unusable. The zero Time is the "never expires" sentinel used by
	// long-lived static sources.
	Expiration time.Time
	// Source names the provider that produced this credential, for
	// diagnostics only.
	Source string
}

// NeverExpires is the sentinel Expiration for long-lived credentials.
var NeverExpires = time.Time{}

// Empty reports whether c carries no usable material at all.
func (c Credential) Empty() bool {
	return c.AccessKeyID == "" || c.SecretAccessKey == ""
}

// IsStale reports whether c should be refreshed: now plus the refresh
// window has reached or passed the expiration. A credential with the
// NeverExpires sentinel is never stale.
func (c Credential) IsStale(now time.Time, refreshWindow time.Duration) bool {
	if c.Expiration.IsZero() {
		return false
	}
	return !now.Add(refreshWindow).Before(c.Expiration)
}

// Clone returns an independent copy of c. Credential has no pointer
// fields, so this is a plain value copy; it exists to make call sites
// that must not share mutable state explicit, and to give future
// non-trivial fields (e.g. a destructor) a single place to land.
func (c Credential) Clone() Credential {
	return c
}
