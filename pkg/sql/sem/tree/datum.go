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

package tree

import (
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	"github.com/tupledb/tupledb/pkg/sql/types"
)

// A Datum is an immutable scalar SQL value. Every Datum is also an
// Expr that evaluates to itself, so literals need no dedicated node
// kind. Operations on Datums never mutate their operands; they return
// new Datums or fail.
type Datum interface {
	Expr
	// ResolvedType returns the runtime type of the datum.
	ResolvedType() *types.T
	// Compare returns -1 if the receiver sorts before other, 0 if they
	// are equal and +1 if the receiver sorts after other. Datums of
	// different families compare only under numeric promotion; any
	// other mixed-family comparison is an error requiring an explicit
	// cast.
	Compare(other Datum) (int, error)
}

// Datums is a row of datums.
type Datums []Datum

var (
	// DNull is the NULL datum.
	DNull Datum = dNull{}
	// DBoolTrue and DBoolFalse are the two boolean datums.
	DBoolTrue  Datum = DBool(true)
	DBoolFalse Datum = DBool(false)
)

func makeUnsupportedComparisonError(left, right Datum) error {
	return pgerror.Newf(pgerror.CodeDatatypeMismatchError,
		"unsupported comparison: %s to %s",
		left.ResolvedType(), right.ResolvedType())
}

// DBool is the boolean datum. It arises only as a comparison result.
type DBool bool

// MakeDBool converts a bool to the canonical DBool datum.
func MakeDBool(b bool) Datum {
	if b {
		return DBoolTrue
	}
	return DBoolFalse
}

// ResolvedType implements the Datum interface.
func (d DBool) ResolvedType() *types.T { return types.Bool }

// Compare implements the Datum interface.
func (d DBool) Compare(other Datum) (int, error) {
	v, ok := other.(DBool)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	if d == v {
		return 0, nil
	}
	if !d {
		return -1, nil
	}
	return 1, nil
}

func (d DBool) String() string {
	if d {
		return "true"
	}
	return "false"
}

// DInt is the 64-bit signed integer datum.
type DInt int64

// NewDInt wraps an int64 as a datum.
func NewDInt(i int64) DInt { return DInt(i) }

// AsDInt returns the argument as a DInt if it is one.
func AsDInt(d Datum) (DInt, bool) {
	v, ok := d.(DInt)
	return v, ok
}

// MustBeDInt retrieves the underlying DInt or panics. For use on paths
// where construction-time checks already guarantee the type.
func MustBeDInt(d Datum) DInt {
	v, ok := d.(DInt)
	if !ok {
		panic(errAssertf("expected DInt, found %T", d))
	}
	return v
}

// ResolvedType implements the Datum interface.
func (d DInt) ResolvedType() *types.T { return types.Int }

// Compare implements the Datum interface.
func (d DInt) Compare(other Datum) (int, error) {
	switch v := other.(type) {
	case DInt:
		return compareOrdered(d, v), nil
	case DFloat:
		return compareOrdered(DFloat(d), v), nil
	case DDecimal:
		dec := apdFromInt(int64(d))
		return dec.Cmp(&v.Decimal), nil
	}
	return 0, makeUnsupportedComparisonError(d, other)
}

func (d DInt) String() string { return strconv.FormatInt(int64(d), 10) }

// DFloat is the 64-bit floating point datum.
type DFloat float64

// NewDFloat wraps a float64 as a datum.
func NewDFloat(f float64) DFloat { return DFloat(f) }

// ResolvedType implements the Datum interface.
func (d DFloat) ResolvedType() *types.T { return types.Float }

// Compare implements the Datum interface.
func (d DFloat) Compare(other Datum) (int, error) {
	switch v := other.(type) {
	case DInt:
		return compareOrdered(d, DFloat(v)), nil
	case DFloat:
		return compareOrdered(d, v), nil
	case DDecimal:
		dec, err := apdFromFloat(float64(d))
		if err != nil {
			return 0, err
		}
		return dec.Cmp(&v.Decimal), nil
	}
	return 0, makeUnsupportedComparisonError(d, other)
}

func (d DFloat) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}

// DDecimal is the arbitrary-precision decimal datum.
type DDecimal struct {
	apd.Decimal
}

// ParseDDecimal parses a decimal from its text representation.
func ParseDDecimal(s string) (DDecimal, error) {
	var d DDecimal
	if _, _, err := d.SetString(s); err != nil {
		return DDecimal{}, pgerror.Newf(pgerror.CodeInvalidTextRepresentationError,
			"could not parse %q as type decimal", s)
	}
	return d, nil
}

// ResolvedType implements the Datum interface.
func (d DDecimal) ResolvedType() *types.T { return types.Decimal }

// Compare implements the Datum interface.
func (d DDecimal) Compare(other Datum) (int, error) {
	switch v := other.(type) {
	case DInt:
		dec := apdFromInt(int64(v))
		return d.Cmp(dec), nil
	case DFloat:
		dec, err := apdFromFloat(float64(v))
		if err != nil {
			return 0, err
		}
		return d.Cmp(dec), nil
	case DDecimal:
		return d.Cmp(&v.Decimal), nil
	}
	return 0, makeUnsupportedComparisonError(d, other)
}

func (d DDecimal) String() string { return d.Decimal.String() }

// DString is the text datum.
type DString string

// NewDString wraps a string as a datum.
func NewDString(s string) DString { return DString(s) }

// AsDString returns the argument as a DString if it is one.
func AsDString(d Datum) (DString, bool) {
	v, ok := d.(DString)
	return v, ok
}

// ResolvedType implements the Datum interface.
func (d DString) ResolvedType() *types.T { return types.String }

// Compare implements the Datum interface.
func (d DString) Compare(other Datum) (int, error) {
	v, ok := other.(DString)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return compareOrdered(d, v), nil
}

func (d DString) String() string { return strconv.Quote(string(d)) }

// DBytes is the binary datum. The underlying string is an immutable
// byte container, not UTF-8 text.
type DBytes string

// NewDBytes wraps a byte string as a datum.
func NewDBytes(b []byte) DBytes { return DBytes(b) }

// ResolvedType implements the Datum interface.
func (d DBytes) ResolvedType() *types.T { return types.Bytes }

// Compare implements the Datum interface.
func (d DBytes) Compare(other Datum) (int, error) {
	v, ok := other.(DBytes)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return compareOrdered(d, v), nil
}

func (d DBytes) String() string { return strconv.Quote(string(d)) }

// DTimestamp is the timestamp-without-time-zone datum.
type DTimestamp struct {
	time.Time
}

// TimestampOutputFormat is the layout used to render timestamps as
// text; timestamps in this layout (or RFC 3339) also parse back.
const TimestampOutputFormat = "2006-01-02 15:04:05.999999-07"

// MakeDTimestamp wraps a time as a datum, rounded to microsecond
// precision like the rest of the engine.
func MakeDTimestamp(t time.Time) DTimestamp {
	return DTimestamp{Time: t.Round(time.Microsecond)}
}

// ResolvedType implements the Datum interface.
func (d DTimestamp) ResolvedType() *types.T { return types.Timestamp }

// Compare implements the Datum interface.
func (d DTimestamp) Compare(other Datum) (int, error) {
	v, ok := other.(DTimestamp)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return d.Time.Compare(v.Time), nil
}

func (d DTimestamp) String() string {
	return d.UTC().Format(TimestampOutputFormat)
}

// dNull is the NULL datum.
type dNull struct{}

// ResolvedType implements the Datum interface.
func (dNull) ResolvedType() *types.T { return types.Unknown }

// Compare implements the Datum interface. NULL is not comparable; the
// composing nodes short-circuit NULL operands before comparing.
func (n dNull) Compare(other Datum) (int, error) {
	return 0, makeUnsupportedComparisonError(n, other)
}

func (dNull) String() string { return "NULL" }

func compareOrdered[T DInt | DFloat | DString | DBytes](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func apdFromInt(i int64) *apd.Decimal {
	var d apd.Decimal
	d.SetInt64(i)
	return &d
}

func apdFromFloat(f float64) (*apd.Decimal, error) {
	var d apd.Decimal
	if _, err := d.SetFloat64(f); err != nil {
		return nil, pgerror.Wrapf(err, pgerror.CodeNumericValueOutOfRangeError,
			"float %g has no decimal representation", f)
	}
	return &d, nil
}
