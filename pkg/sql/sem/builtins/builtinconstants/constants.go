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

// Package builtinconstants holds configuration constants shared by the
// builtin function implementations.
package builtinconstants

const (
	// DefaultForcedErrorCode is the error code used by sql_err when the
	// caller supplies no code (text-only or NULL-code invocations). It
	// is deliberately non-zero so that such invocations always raise.
	DefaultForcedErrorCode int64 = 99999

	// ForcedErrorMessage is the message used by sql_err when the caller
	// supplies only a code.
	ForcedErrorMessage = "error forced by client"
)
