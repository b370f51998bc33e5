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

// Package pgerror decorates errors with SQLSTATE codes. Callers create
// errors with Newf/Wrapf, and the row-evaluation boundary recovers the
// code with GetPGCode.
package pgerror

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// withCode annotates an error with a SQLSTATE code. The code travels
// with the error through any number of additional wraps.
type withCode struct {
	cause error
	code  string
}

var _ error = (*withCode)(nil)
var _ fmt.Formatter = (*withCode)(nil)

func (w *withCode) Error() string { return w.cause.Error() }
func (w *withCode) Cause() error  { return w.cause }
func (w *withCode) Unwrap() error { return w.cause }

func (w *withCode) Format(s fmt.State, verb rune) { errors.FormatError(w, s, verb) }

// SafeFormatError implements errors.SafeFormatter.
func (w *withCode) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("code: %s", errors.Safe(w.code))
	}
	return w.cause
}

// New creates an error with a SQLSTATE code.
func New(code, msg string) error {
	return &withCode{cause: errors.NewWithDepth(1, msg), code: code}
}

// Newf creates a formatted error with a SQLSTATE code.
func Newf(code, format string, args ...interface{}) error {
	return &withCode{cause: errors.NewWithDepthf(1, format, args...), code: code}
}

// Wrapf wraps an error, adding a message prefix and a SQLSTATE code.
// The new code takes effect only if the original error carried none.
func Wrapf(err error, code, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &withCode{cause: errors.WrapWithDepthf(1, err, format, args...), code: code}
}

// WithCode annotates err with a SQLSTATE code without changing its
// message.
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &withCode{cause: err, code: code}
}

// GetPGCode returns the SQLSTATE code carried by err. The innermost
// code wins, matching the order in which the error was constructed.
// Errors without a code report CodeUncategorizedError, except assertion
// failures which report CodeInternalError.
func GetPGCode(err error) string {
	code := ""
	for c := err; c != nil; c = errors.UnwrapOnce(c) {
		if w, ok := c.(*withCode); ok {
			code = w.code
		}
	}
	if code != "" {
		return code
	}
	if errors.HasAssertionFailure(err) {
		return CodeInternalError
	}
	return CodeUncategorizedError
}

// HasCode returns true if err carries the given SQLSTATE code.
func HasCode(err error, code string) bool {
	return err != nil && GetPGCode(err) == code
}
