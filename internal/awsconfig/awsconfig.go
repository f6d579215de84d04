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

// Package awsconfig manages the configuration of the credential
// resolution core: the knobs every provider needs (refresh skew,
// timeouts, the IMDS host) but that the host agent's own configuration
// loader is responsible for surfacing to operators.
package awsconfig

import (
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultRefreshWindow is the skew subtracted from a credential's
	// expiration to decide it is stale.
	DefaultRefreshWindow = 5 * time.Minute

	// DefaultIMDSHost is the link-local instance metadata address.
	DefaultIMDSHost = "169.254.169.254"

	// DefaultIMDSTimeout is the per-request deadline for IMDS round trips.
	DefaultIMDSTimeout = 5 * time.Second

	// DefaultSTSTimeout is the per-request deadline for STS round trips.
	DefaultSTSTimeout = 30 * time.Second

	// DefaultIMDSTokenTTLSeconds is the TTL requested when an IMDSv2
	// session token is issued.
	DefaultIMDSTokenTTLSeconds = 21600

	envRefreshWindow = "AWS_CREDS_REFRESH_WINDOW_SECONDS"
	envIMDSHost      = "AWS_CREDS_IMDS_HOST"
	envIMDSTimeout   = "AWS_CREDS_IMDS_TIMEOUT_SECONDS"
	envSTSTimeout    = "AWS_CREDS_STS_TIMEOUT_SECONDS"
)

// Config holds the tunables shared by every provider in the chain.
type Config struct {
	RefreshWindow time.Duration
	IMDSHost      string
	IMDSTimeout   time.Duration
	STSTimeout    time.Duration
}

var (
	lock         sync.RWMutex
	loadedConfig *Config
)

// Default returns DefaultConfig overridden by any AWS_CREDS_* environment
// variables that are set. The result is computed on the first call and
// returned unchanged by every later call.
func Default() Config {
	lock.RLock()
	if loadedConfig != nil {
		defer lock.RUnlock()
		return *loadedConfig
	}
	lock.RUnlock()

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	lock.Lock()
	loadedConfig = &cfg
	lock.Unlock()
	return cfg
}

// DefaultConfig returns the built-in defaults with no environment overrides.
func DefaultConfig() Config {
	return Config{
		RefreshWindow: DefaultRefreshWindow,
		IMDSHost:      DefaultIMDSHost,
		IMDSTimeout:   DefaultIMDSTimeout,
		STSTimeout:    DefaultSTSTimeout,
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envRefreshWindow); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.RefreshWindow = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv(envIMDSHost); v != "" {
		cfg.IMDSHost = v
	}
	if v := os.Getenv(envIMDSTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.IMDSTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv(envSTSTimeout); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.STSTimeout = time.Duration(secs) * time.Second
		}
	}
}
