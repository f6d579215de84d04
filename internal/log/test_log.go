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
	"github.com/stretchr/testify/mock"
)

// Mock stands for a mocked logger, used by this module's tests so that
// assertions can be made on which messages (if any) were logged without
// wiring up a real seelog sink.
type Mock struct {
	mock.Mock
}

// NewMockLog returns an instance of Mock with default expectations set so
// that tests only need to assert on the calls they care about.
func NewMockLog() *Mock {
	l := new(Mock)
	l.On("Flush").Return()
	l.On("Debug", mock.Anything).Return()
	l.On("Error", mock.Anything).Return(nil)
	l.On("Trace", mock.Anything).Return()
	l.On("Info", mock.Anything).Return()
	l.On("Debugf", mock.Anything, mock.Anything).Return()
	l.On("Errorf", mock.Anything, mock.Anything).Return(nil)
	l.On("Tracef", mock.Anything, mock.Anything).Return()
	l.On("Infof", mock.Anything, mock.Anything).Return()
	l.On("Warnf", mock.Anything, mock.Anything).Return(nil)
	l.On("Warn", mock.Anything).Return(nil)
	return l
}

func (_m *Mock) Tracef(format string, params ...interface{}) {
	_m.Called(format, params)
}

func (_m *Mock) Debugf(format string, params ...interface{}) {
	_m.Called(format, params)
}

func (_m *Mock) Infof(format string, params ...interface{}) {
	_m.Called(format, params)
}

func (_m *Mock) Warnf(format string, params ...interface{}) error {
	ret := _m.Called(format, params)
	if rf, ok := ret.Get(0).(func(string, ...interface{}) error); ok {
		return rf(format, params...)
	}
	return ret.Error(0)
}

func (_m *Mock) Errorf(format string, params ...interface{}) error {
	ret := _m.Called(format, params)
	if rf, ok := ret.Get(0).(func(string, ...interface{}) error); ok {
		return rf(format, params...)
	}
	return ret.Error(0)
}

func (_m *Mock) Trace(v ...interface{}) {
	_m.Called(v)
}

func (_m *Mock) Debug(v ...interface{}) {
	_m.Called(v)
}

func (_m *Mock) Info(v ...interface{}) {
	_m.Called(v)
}

func (_m *Mock) Warn(v ...interface{}) error {
	ret := _m.Called(v)
	if rf, ok := ret.Get(0).(func(...interface{}) error); ok {
		return rf(v...)
	}
	return ret.Error(0)
}

func (_m *Mock) Error(v ...interface{}) error {
	ret := _m.Called(v)
	if rf, ok := ret.Get(0).(func(...interface{}) error); ok {
		return rf(v...)
	}
	return ret.Error(0)
}

func (_m *Mock) Flush() {
	_m.Called()
}

func (_m *Mock) WithContext(context ...string) T {
	return _m
}
