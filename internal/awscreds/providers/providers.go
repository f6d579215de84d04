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

// Package providers implements the five concrete credential sources:
// environment, shared-profile file, web-identity, IMDS, and the
// container/HTTP-endpoint. Each implements awscreds.Provider.
package providers

import "github.com/logagent/awscreds-core/internal/awsconfig"

const defaultRefreshWindow = awsconfig.DefaultRefreshWindow
