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

// credcheck is a self-check command that resolves a credential through
// the full chain and prints which source supplied it and when it
// expires. It never signs a request itself -- signing is out of scope.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/logagent/awscreds-core/internal/awscreds"
	"github.com/logagent/awscreds-core/internal/awscreds/chain"
	"github.com/logagent/awscreds-core/internal/awscreds/imds"
	"github.com/logagent/awscreds-core/internal/awscreds/providers"
	"github.com/logagent/awscreds-core/internal/awsconfig"
	"github.com/logagent/awscreds-core/internal/httpclient"
	"github.com/logagent/awscreds-core/internal/log"
)

func main() {
	region := flag.String("region", "us-east-1", "AWS region used for STS/web-identity calls")
	flag.Parse()

	if err := run(*region); err != nil {
		fmt.Fprintln(os.Stderr, "credcheck:", err)
		os.Exit(1)
	}
}

func run(region string) error {
	logger := log.Default()
	cfg := awsconfig.Default()

	imdsDoer := httpclient.New("imds", nil)
	sharedDoer := httpclient.New("sts", &tls.Config{MinVersion: tls.VersionTLS12})

	imdsClient := imds.New(cfg.IMDSHost, imdsDoer, cfg.IMDSTimeout, cfg.RefreshWindow, logger)

	c := chain.New(logger,
		providers.NewEnvironmentProvider(),
		providers.NewProfileProvider(),
		providers.NewWebIdentityProvider(sharedDoer, region),
		providers.NewIMDSProvider(imdsClient),
		providers.NewHTTPEndpointProvider(sharedDoer),
	)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	creds, err := c.GetCredentials(ctx)
	if err != nil {
		return err
	}

	expiration := "never"
	if creds.Expiration != awscreds.NeverExpires {
		expiration = creds.Expiration.Format(time.RFC3339)
	}

	fmt.Printf("source: %s\naccess key id: %s\nexpiration: %s\n", creds.Source, creds.AccessKeyID, expiration)
	return nil
}
