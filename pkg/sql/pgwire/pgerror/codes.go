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

package pgerror

// SQLSTATE codes used by the expression engine. The constants follow
// the Postgres error code table; user-raised errors carry whatever code
// the user supplied and are not listed here.
const (
	// CodeNumericValueOutOfRangeError indicates a numeric value that
	// does not fit the target type.
	CodeNumericValueOutOfRangeError = "22003"
	// CodeSubstringError indicates an invalid substring bound.
	CodeSubstringError = "22011"
	// CodeDivisionByZeroError indicates division by zero.
	CodeDivisionByZeroError = "22012"
	// CodeInvalidParameterValueError indicates an argument value outside
	// a function's accepted domain.
	CodeInvalidParameterValueError = "22023"
	// CodeInvalidTextRepresentationError indicates text that cannot be
	// parsed as the requested type.
	CodeInvalidTextRepresentationError = "22P02"
	// CodeDatatypeMismatchError indicates operands of incompatible types.
	CodeDatatypeMismatchError = "42804"
	// CodeCannotCoerceError indicates a cast between types with no
	// defined conversion.
	CodeCannotCoerceError = "42846"
	// CodeUndefinedFunctionError indicates a function identity with no
	// implementation at the requested arity.
	CodeUndefinedFunctionError = "42883"
	// CodeInternalError indicates an invariant violation inside the
	// engine.
	CodeInternalError = "XX000"
	// CodeUncategorizedError is reported for errors that carry no code.
	CodeUncategorizedError = "XXUUU"
)
