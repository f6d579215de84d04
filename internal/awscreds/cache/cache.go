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

// Package cache implements the per-provider credential cache and
// single-flight refresh policy shared by every network-backed
// provider. Each such provider holds one Cached value instead of
// hand-rolling its own mutex/double-checked-locking pair.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/logagent/awscreds-core/internal/awscreds"
)

// FetchFunc performs the actual network fetch for a provider. It is
// called at most once per concurrent wave of stale Get calls.
type FetchFunc func(ctx context.Context) (awscreds.Credential, error)

// Cached holds at most one credential, guarded by a single-flight group
// so concurrent callers that arrive while a refresh is in progress wait
// on that refresh instead of issuing parallel fetches. The zero value
// is ready to use.
type Cached struct {
	RefreshWindow time.Duration

	mu         sync.RWMutex
	credential awscreds.Credential
	have       bool

	group singleflight.Group
}

// Get returns the cached credential if fresh, otherwise calls fetch
// exactly once even if many goroutines call Get concurrently while it
// is stale. Every caller, including those that merely observed the
// single in-flight fetch, receives Clone()'d results so none of them
// share mutable state.
func (c *Cached) Get(ctx context.Context, fetch FetchFunc) (awscreds.Credential, error) {
	if cred, ok := c.freshSnapshot(); ok {
		return cred.Clone(), nil
	}

	v, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		// Double-checked: another goroutine may have refreshed while we
		// were waiting to enter the group.
		if cred, ok := c.freshSnapshot(); ok {
			return cred, nil
		}

		select {
		case <-ctx.Done():
			return awscreds.Credential{}, awscreds.WrapTransportErr(ctx.Err(), awscreds.ErrCancelled)
		default:
		}

		cred, err := fetch(ctx)
		if err != nil {
			return awscreds.Credential{}, err
		}

		c.mu.Lock()
		c.credential = cred
		c.have = true
		c.mu.Unlock()

		return cred, nil
	})
	if err != nil {
		return awscreds.Credential{}, err
	}

	return v.(awscreds.Credential).Clone(), nil
}

// Invalidate clears the cached credential, forcing the next Get to fetch.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.have = false
	c.credential = awscreds.Credential{}
}

func (c *Cached) freshSnapshot() (awscreds.Credential, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.have {
		return awscreds.Credential{}, false
	}
	if c.credential.IsStale(time.Now(), c.RefreshWindow) {
		return awscreds.Credential{}, false
	}
	return c.credential, true
}
