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

// Package log provides the structured logger used throughout the
// credential resolution core. It wraps github.com/cihub/seelog the
// same way the host agent does, so that callers can inject their own
// logger without this module pulling in a second logging stack.
package log

// BasicT represents structs capable of logging messages.
// This interface is a subset of seelog.LoggerInterface.
type BasicT interface {
	Tracef(format string, params ...interface{})
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{}) error
	Errorf(format string, params ...interface{}) error

	Trace(v ...interface{})
	Debug(v ...interface{})
	Info(v ...interface{})
	Warn(v ...interface{}) error
	Error(v ...interface{}) error

	// Flush flushes all the messages in the logger.
	Flush()
}

// T represents structs capable of logging messages, and context management.
type T interface {
	BasicT
	WithContext(context ...string) (contextLogger T)
}
