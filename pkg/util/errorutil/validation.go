// Copyright 2024 The TupleDB Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package errorutil holds small error-collection helpers shared by
// components that validate configuration before execution.
package errorutil

import "strings"

// ValidationErrors collects human-readable problems found during a
// single validation pass. The zero value is ready to use. A
// ValidationErrors is created for one pass, populated by the validation
// routines it is passed to, and then consumed; it is not safe for
// concurrent use.
type ValidationErrors struct {
	errors []string
}

// AddErrorMessage records a problem. An empty message is ignored so
// that callers can pass through the result of a conditional check
// without testing it first.
func (v *ValidationErrors) AddErrorMessage(msg string) {
	if msg == "" {
		return
	}
	v.errors = append(v.errors, msg)
}

// HasErrors returns true if any message has been recorded.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

// ErrorMessage returns all recorded messages joined by newlines. The
// second return value is false if no message was recorded.
func (v *ValidationErrors) ErrorMessage() (string, bool) {
	if len(v.errors) == 0 {
		return "", false
	}
	return strings.Join(v.errors, "\n"), true
}
