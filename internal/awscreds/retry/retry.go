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

// Package retry configures exponential backoff for transient failures
// on a single credential source. The chain provider does not use this
// directly -- a transient failure on one source simply advances to the
// next -- but a network-backed client such as internal/awscreds/imds
// may retry a single flaky round trip before surfacing an error,
// bounded by its own per-request deadline.
package retry

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMultiplier        = 2.0
	defaultMaxIntervalMillis = 2_000
	defaultJitterFactor      = 0.2
	defaultInitialInterval   = 100 * time.Millisecond
	defaultMaxRetries        = 3
)

// Default returns the backoff policy used by providers that retry a
// single failed round trip: a short exponential backoff bounded so the
// total retry time stays well under the per-request deadlines in
// internal/awsconfig.
func Default() *backoff.ExponentialBackOff {
	policy, err := New(defaultInitialInterval, defaultMaxRetries)
	if err != nil {
		// The constants above are always in range; this would only
		// fail if they were edited incorrectly.
		panic(err)
	}
	return policy
}

// New returns an ExponentialBackOff configured for the given initial
// interval and maximum number of retries, bounding MaxElapsedTime so
// the whole retry loop cannot run longer than a caller's deadline
// expects.
func New(initialInterval time.Duration, maxRetries int) (*backoff.ExponentialBackOff, error) {
	if initialInterval <= 0 {
		initialInterval = backoff.DefaultInitialInterval
	}

	maxRetries, err := bound(maxRetries, 1, 20)
	if err != nil {
		return nil, err
	}

	result := backoff.NewExponentialBackOff()
	result.InitialInterval = initialInterval
	result.MaxInterval = defaultMaxIntervalMillis * time.Millisecond
	result.Multiplier = defaultMultiplier
	result.RandomizationFactor = defaultJitterFactor
	result.MaxElapsedTime = maxElapsedTime(maxRetries, initialInterval, result.MaxInterval, defaultMultiplier)
	result.Reset()

	return result, nil
}

func bound(number, min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range: min (%d) is greater than max (%d)", min, max)
	}
	if number < min {
		return min, nil
	}
	if number > max {
		return max, nil
	}
	return number, nil
}

// maxElapsedTime returns the total wait time across maxRetries
// exponentially growing intervals capped at maxInterval.
func maxElapsedTime(maxRetries int, initialInterval, maxInterval time.Duration, growthFactor float64) time.Duration {
	interval := initialInterval
	total := interval

	for i := 1; i < maxRetries; i++ {
		next := time.Duration(float64(interval) * growthFactor)
		if next > maxInterval {
			next = maxInterval
		}
		interval = next
		total += interval
	}

	return total
}
