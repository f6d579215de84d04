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

package log

import (
	"strings"
	"sync"

	"github.com/cihub/seelog"
)

// seelogT adapts seelog.LoggerInterface to T, prefixing every message
// with an accumulated context (the way WithContext chains are expected
// to read in logs: "[chain] [imds] requesting credentials").
type seelogT struct {
	delegate seelog.LoggerInterface
	prefix   string
}

var (
	defaultOnce sync.Once
	defaultImpl *seelogT
)

// Default returns the process-wide logger, initializing it on first use
// with an adaptive seelog configuration using seelog's console writer,
// which prints to standard output.
func Default() T {
	defaultOnce.Do(func() {
		logger, err := seelog.LoggerFromConfigAsBytes(defaultSeelogConfig())
		if err != nil {
			logger = seelog.Disabled
		}
		defaultImpl = &seelogT{delegate: logger}
	})
	return defaultImpl
}

func defaultSeelogConfig() []byte {
	return []byte(`
<seelog type="adaptive" mininterval="2000000" maxinterval="100000000" critmsgcount="500" minlevel="debug">
    <outputs formatid="all">
        <console/>
    </outputs>
    <formats>
        <format id="all" format="%Date %Time %LEVEL [%FuncShort @ %File.%Line] %Msg%n"/>
    </formats>
</seelog>
`)
}

func (l *seelogT) withPrefix(msg string) string {
	if l.prefix == "" {
		return msg
	}
	return l.prefix + " " + msg
}

func (l *seelogT) Tracef(format string, params ...interface{}) {
	l.delegate.Tracef(l.withPrefix(format), params...)
}

func (l *seelogT) Debugf(format string, params ...interface{}) {
	l.delegate.Debugf(l.withPrefix(format), params...)
}

func (l *seelogT) Infof(format string, params ...interface{}) {
	l.delegate.Infof(l.withPrefix(format), params...)
}

func (l *seelogT) Warnf(format string, params ...interface{}) error {
	return l.delegate.Warnf(l.withPrefix(format), params...)
}

func (l *seelogT) Errorf(format string, params ...interface{}) error {
	return l.delegate.Errorf(l.withPrefix(format), params...)
}

func (l *seelogT) Trace(v ...interface{}) {
	l.delegate.Trace(l.prefixArgs(v...)...)
}

func (l *seelogT) Debug(v ...interface{}) {
	l.delegate.Debug(l.prefixArgs(v...)...)
}

func (l *seelogT) Info(v ...interface{}) {
	l.delegate.Info(l.prefixArgs(v...)...)
}

func (l *seelogT) Warn(v ...interface{}) error {
	return l.delegate.Warn(l.prefixArgs(v...)...)
}

func (l *seelogT) Error(v ...interface{}) error {
	return l.delegate.Error(l.prefixArgs(v...)...)
}

func (l *seelogT) Flush() {
	l.delegate.Flush()
}

func (l *seelogT) prefixArgs(v ...interface{}) []interface{} {
	if l.prefix == "" {
		return v
	}
	return append([]interface{}{l.prefix}, v...)
}

// WithContext returns a logger that prefixes every message with the
// given context tags, e.g. log.WithContext("chain", "imds").
func (l *seelogT) WithContext(context ...string) T {
	prefix := "[" + strings.Join(context, "] [") + "]"
	if l.prefix != "" {
		prefix = l.prefix + " " + prefix
	}
	return &seelogT{delegate: l.delegate, prefix: prefix}
}
