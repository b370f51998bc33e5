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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	"github.com/tupledb/tupledb/pkg/sql/types"
)

func makeCannotCoerceError(d Datum, t *types.T) error {
	return pgerror.Newf(pgerror.CodeCannotCoerceError,
		"invalid cast: %s -> %s", d.ResolvedType(), t)
}

func makeParseError(s string, t *types.T) error {
	return pgerror.Newf(pgerror.CodeInvalidTextRepresentationError,
		"could not parse %q as type %s", s, t)
}

// PerformCast converts a datum to the requested type. The conversion
// fails with a CastFailure (SQLSTATE class 22 or 42846) when the source
// representation cannot be losslessly or well-definedly interpreted as
// the target. NULL casts to NULL for every target type.
func PerformCast(ctx *EvalContext, d Datum, t *types.T) (Datum, error) {
	if d == DNull {
		return DNull, nil
	}
	switch t.Family() {
	case types.IntFamily:
		return castToInt(d)
	case types.FloatFamily:
		return castToFloat(d)
	case types.DecimalFamily:
		return castToDecimal(d)
	case types.StringFamily:
		return castToString(d)
	case types.BytesFamily:
		return castToBytes(d)
	case types.TimestampFamily:
		return castToTimestamp(d)
	}
	return nil, makeCannotCoerceError(d, t)
}

func castToInt(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DInt:
		return v, nil
	case DFloat:
		f := math.RoundToEven(float64(v))
		if math.IsNaN(f) || f <= math.MinInt64 || f >= math.MaxInt64 {
			return nil, pgerror.New(pgerror.CodeNumericValueOutOfRangeError,
				"integer out of range")
		}
		return DInt(f), nil
	case DDecimal:
		var rounded DDecimal
		if _, err := DecimalCtx.RoundToIntegralValue(&rounded.Decimal, &v.Decimal); err != nil {
			return nil, pgerror.Wrapf(err, pgerror.CodeNumericValueOutOfRangeError,
				"integer out of range")
		}
		i, err := rounded.Int64()
		if err != nil {
			return nil, pgerror.New(pgerror.CodeNumericValueOutOfRangeError,
				"integer out of range")
		}
		return DInt(i), nil
	case DString:
		i, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, makeParseError(string(v), types.Int)
		}
		return DInt(i), nil
	}
	return nil, makeCannotCoerceError(d, types.Int)
}

func castToFloat(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DInt:
		return DFloat(v), nil
	case DFloat:
		return v, nil
	case DDecimal:
		f, err := v.Float64()
		if err != nil {
			return nil, pgerror.New(pgerror.CodeNumericValueOutOfRangeError,
				"float out of range")
		}
		return DFloat(f), nil
	case DString:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, makeParseError(string(v), types.Float)
		}
		return DFloat(f), nil
	}
	return nil, makeCannotCoerceError(d, types.Float)
}

func castToDecimal(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DInt:
		var res DDecimal
		res.SetInt64(int64(v))
		return res, nil
	case DFloat:
		var res DDecimal
		if _, err := res.SetFloat64(float64(v)); err != nil {
			return nil, pgerror.Wrapf(err, pgerror.CodeNumericValueOutOfRangeError,
				"decimal out of range")
		}
		return res, nil
	case DDecimal:
		return v, nil
	case DString:
		res, err := ParseDDecimal(strings.TrimSpace(string(v)))
		if err != nil {
			return nil, makeParseError(string(v), types.Decimal)
		}
		return res, nil
	}
	return nil, makeCannotCoerceError(d, types.Decimal)
}

func castToString(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DInt:
		return DString(strconv.FormatInt(int64(v), 10)), nil
	case DFloat:
		return DString(strconv.FormatFloat(float64(v), 'g', -1, 64)), nil
	case DDecimal:
		return DString(v.Decimal.String()), nil
	case DString:
		return v, nil
	case DBytes:
		return DString(v), nil
	case DTimestamp:
		return DString(v.UTC().Format(TimestampOutputFormat)), nil
	}
	return nil, makeCannotCoerceError(d, types.String)
}

func castToBytes(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DString:
		return DBytes(v), nil
	case DBytes:
		return v, nil
	}
	return nil, makeCannotCoerceError(d, types.Bytes)
}

// timestampFormats are tried in order when parsing text timestamps.
var timestampFormats = []string{
	TimestampOutputFormat,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func castToTimestamp(d Datum) (Datum, error) {
	switch v := d.(type) {
	case DString:
		s := strings.TrimSpace(string(v))
		for _, format := range timestampFormats {
			if ts, err := time.Parse(format, s); err == nil {
				return MakeDTimestamp(ts), nil
			}
		}
		return nil, makeParseError(string(v), types.Timestamp)
	case DTimestamp:
		return v, nil
	}
	return nil, makeCannotCoerceError(d, types.Timestamp)
}
