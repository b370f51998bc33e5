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

// Package types defines the descriptors for the scalar SQL types
// understood by the expression evaluation engine.
package types

import (
	"github.com/cockroachdb/redact"
	"github.com/lib/pq/oid"
)

// Family classifies a scalar type by its value representation. Every
// type descriptor belongs to exactly one family.
type Family int

const (
	// UnknownFamily is the family of the NULL type.
	UnknownFamily Family = iota
	// BoolFamily is the family of boolean truth values. Booleans only
	// arise as comparison results; they are not part of the castable
	// scalar domain.
	BoolFamily
	// IntFamily is the family of 64-bit signed integers.
	IntFamily
	// FloatFamily is the family of 64-bit IEEE floating point numbers.
	FloatFamily
	// DecimalFamily is the family of arbitrary-precision fixed-point
	// decimals.
	DecimalFamily
	// StringFamily is the family of UTF-8 text values.
	StringFamily
	// BytesFamily is the family of raw byte values.
	BytesFamily
	// TimestampFamily is the family of timestamps without time zone.
	TimestampFamily
)

var familyNames = [...]string{
	UnknownFamily:   "unknown",
	BoolFamily:      "bool",
	IntFamily:       "int",
	FloatFamily:     "float",
	DecimalFamily:   "decimal",
	StringFamily:    "string",
	BytesFamily:     "bytes",
	TimestampFamily: "timestamp",
}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "invalid"
}

// SafeValue implements the redact.SafeValue interface.
func (f Family) SafeValue() {}

var _ redact.SafeValue = UnknownFamily

// T is an immutable descriptor of a scalar SQL type.
type T struct {
	family Family
	name   string
	oid    oid.Oid
}

// Pre-allocated descriptors for every supported scalar type.
var (
	// Unknown is the type of the NULL datum.
	Unknown = &T{family: UnknownFamily, name: "unknown", oid: oid.T_unknown}
	// Bool is the type of comparison results.
	Bool = &T{family: BoolFamily, name: "bool", oid: oid.T_bool}
	// Int is the type of 64-bit signed integers.
	Int = &T{family: IntFamily, name: "int", oid: oid.T_int8}
	// Float is the type of 64-bit floating point numbers.
	Float = &T{family: FloatFamily, name: "float", oid: oid.T_float8}
	// Decimal is the type of arbitrary-precision decimals.
	Decimal = &T{family: DecimalFamily, name: "decimal", oid: oid.T_numeric}
	// String is the type of UTF-8 text.
	String = &T{family: StringFamily, name: "string", oid: oid.T_text}
	// Bytes is the type of raw byte strings.
	Bytes = &T{family: BytesFamily, name: "bytes", oid: oid.T_bytea}
	// Timestamp is the type of timestamps without time zone.
	Timestamp = &T{family: TimestampFamily, name: "timestamp", oid: oid.T_timestamp}
)

// Family returns the family the type belongs to.
func (t *T) Family() Family { return t.family }

// Oid returns the Postgres object ID for the type.
func (t *T) Oid() oid.Oid { return t.oid }

// SQLString renders the type name as it appears in SQL text.
func (t *T) SQLString() string { return t.name }

func (t *T) String() string { return t.name }

// SafeValue implements the redact.SafeValue interface. Type names never
// contain user data.
func (t *T) SafeValue() {}

var _ redact.SafeValue = (*T)(nil)

// Identical returns true if the two descriptors are the same type.
func (t *T) Identical(other *T) bool { return t.family == other.family }

// IsNumeric returns true for the int, float and decimal families, the
// families subject to numeric promotion in mixed-type arithmetic.
func (t *T) IsNumeric() bool {
	switch t.family {
	case IntFamily, FloatFamily, DecimalFamily:
		return true
	}
	return false
}
