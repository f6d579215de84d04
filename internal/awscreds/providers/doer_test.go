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

	"github.com/logagent/awscreds-core/internal/httpclient"
)

// fakeDoer plays back a fixed sequence of responses and records how
// many times it was called, mirroring the scripted-mock style used
// throughout the imds package's own tests.
type fakeDoer struct {
	responses []httpclient.Response
	calls     int
}

func (d *fakeDoer) Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (httpclient.Response, error) {
	resp := d.responses[d.calls]
	d.calls++
	return resp, nil
}
