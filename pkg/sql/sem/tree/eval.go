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
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	"github.com/tupledb/tupledb/pkg/sql/types"
)

// DecimalCtx is the arithmetic context for decimal operations. Rounding
// is half-even, matching the float path's math.RoundToEven.
var DecimalCtx = &apd.Context{
	Precision:   20,
	Rounding:    apd.RoundHalfEven,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
	Traps:       apd.DefaultTraps,
}

var (
	// ErrIntOutOfRange is reported when integer arithmetic overflows.
	ErrIntOutOfRange = pgerror.New(pgerror.CodeNumericValueOutOfRangeError,
		"integer out of range")
	// ErrDivByZero is reported on division by zero.
	ErrDivByZero = pgerror.New(pgerror.CodeDivisionByZeroError,
		"division by zero")
)

// EvalContext carries the per-statement environment needed by
// evaluation: the statement timestamp for time-varying functions and a
// random source. It is read-only during evaluation and may be shared
// by the goroutines evaluating one statement.
type EvalContext struct {
	ctx context.Context

	// StmtTimestamp is the time the enclosing statement started. now()
	// returns it, so repeated calls within one statement agree.
	StmtTimestamp time.Time

	// RandFloat64 returns the next pseudo-random float in [0, 1). Tests
	// replace it to pin random().
	RandFloat64 func() float64
}

// NewEvalContext builds an evaluation context for one statement.
func NewEvalContext(ctx context.Context) *EvalContext {
	return &EvalContext{
		ctx:           logtags.AddTag(ctx, "eval", nil),
		StmtTimestamp: time.Now(),
		RandFloat64:   rand.Float64,
	}
}

// MakeTestingEvalContext returns a context with a fixed timestamp and
// a deterministic random source, for tests.
func MakeTestingEvalContext(stmtTime time.Time, seed int64) *EvalContext {
	rng := rand.New(rand.NewSource(seed))
	return &EvalContext{
		ctx:           logtags.AddTag(context.Background(), "eval", nil),
		StmtTimestamp: stmtTime,
		RandFloat64:   rng.Float64,
	}
}

// Ctx returns the context the evaluation runs under.
func (ctx *EvalContext) Ctx() context.Context {
	if ctx.ctx == nil {
		return context.Background()
	}
	return ctx.ctx
}

// BinaryOperator is an arithmetic operator over two datums.
type BinaryOperator int

// Binary operators.
const (
	Plus BinaryOperator = iota
	Minus
	Mult
	Div
)

var binaryOpNames = [...]string{
	Plus:  "+",
	Minus: "-",
	Mult:  "*",
	Div:   "/",
}

func (op BinaryOperator) String() string { return binaryOpNames[op] }

// SafeValue implements the redact.SafeValue interface.
func (op BinaryOperator) SafeValue() {}

var _ redact.SafeValue = Plus

// ComparisonOperator is a comparison operator over two datums.
type ComparisonOperator int

// Comparison operators.
const (
	EQ ComparisonOperator = iota
	NE
	LT
	LE
	GT
	GE
)

var comparisonOpNames = [...]string{
	EQ: "=",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",
}

func (op ComparisonOperator) String() string { return comparisonOpNames[op] }

// SafeValue implements the redact.SafeValue interface.
func (op ComparisonOperator) SafeValue() {}

var _ redact.SafeValue = EQ

// numericFamily returns the promoted family for a pair of numeric
// operands, following the fixed widening order int -> float -> decimal.
func numericFamily(left, right *types.T) (types.Family, bool) {
	if !left.IsNumeric() || !right.IsNumeric() {
		return types.UnknownFamily, false
	}
	l, r := left.Family(), right.Family()
	if l == types.DecimalFamily || r == types.DecimalFamily {
		return types.DecimalFamily, true
	}
	if l == types.FloatFamily || r == types.FloatFamily {
		return types.FloatFamily, true
	}
	return types.IntFamily, true
}

func asFloat(d Datum) DFloat {
	switch v := d.(type) {
	case DInt:
		return DFloat(v)
	case DFloat:
		return v
	}
	panic(errAssertf("expected numeric datum, found %T", d))
}

func asDecimal(d Datum) (*apd.Decimal, error) {
	switch v := d.(type) {
	case DInt:
		return apdFromInt(int64(v)), nil
	case DFloat:
		return apdFromFloat(float64(v))
	case DDecimal:
		return &v.Decimal, nil
	}
	panic(errAssertf("expected numeric datum, found %T", d))
}

// evalBinaryOp applies an arithmetic operator to two non-NULL datums,
// promoting mixed numeric operands. Non-numeric operands are rejected;
// they require an explicit cast.
func evalBinaryOp(ctx *EvalContext, op BinaryOperator, left, right Datum) (Datum, error) {
	family, ok := numericFamily(left.ResolvedType(), right.ResolvedType())
	if !ok {
		return nil, pgerror.Newf(pgerror.CodeDatatypeMismatchError,
			"unsupported binary operator: <%s> %s <%s>",
			left.ResolvedType(), op, right.ResolvedType())
	}

	// Division always produces an exact result, so integer operands
	// promote to decimal rather than truncating.
	if op == Div && family == types.IntFamily {
		family = types.DecimalFamily
	}

	switch family {
	case types.IntFamily:
		return evalIntOp(op, MustBeDInt(left), MustBeDInt(right))
	case types.FloatFamily:
		return evalFloatOp(op, asFloat(left), asFloat(right))
	default:
		l, err := asDecimal(left)
		if err != nil {
			return nil, err
		}
		r, err := asDecimal(right)
		if err != nil {
			return nil, err
		}
		return evalDecimalOp(op, l, r)
	}
}

func evalIntOp(op BinaryOperator, a, b DInt) (Datum, error) {
	switch op {
	case Plus:
		r := a + b
		if (r < a) != (b < 0) {
			return nil, ErrIntOutOfRange
		}
		return r, nil
	case Minus:
		r := a - b
		if (r < a) != (b > 0) {
			return nil, ErrIntOutOfRange
		}
		return r, nil
	case Mult:
		if a == 0 || b == 0 {
			return DInt(0), nil
		}
		r := a * b
		if r/b != a || (a == math.MinInt64 && b == -1) {
			return nil, ErrIntOutOfRange
		}
		return r, nil
	}
	return nil, errAssertf("unhandled int operator %s", op)
}

func evalFloatOp(op BinaryOperator, a, b DFloat) (Datum, error) {
	switch op {
	case Plus:
		return a + b, nil
	case Minus:
		return a - b, nil
	case Mult:
		return a * b, nil
	case Div:
		if b == 0 {
			return nil, ErrDivByZero
		}
		return a / b, nil
	}
	return nil, errAssertf("unhandled float operator %s", op)
}

func evalDecimalOp(op BinaryOperator, a, b *apd.Decimal) (Datum, error) {
	var res DDecimal
	var err error
	switch op {
	case Plus:
		_, err = DecimalCtx.Add(&res.Decimal, a, b)
	case Minus:
		_, err = DecimalCtx.Sub(&res.Decimal, a, b)
	case Mult:
		_, err = DecimalCtx.Mul(&res.Decimal, a, b)
	case Div:
		if b.IsZero() {
			return nil, ErrDivByZero
		}
		_, err = DecimalCtx.Quo(&res.Decimal, a, b)
	default:
		return nil, errAssertf("unhandled decimal operator %s", op)
	}
	if err != nil {
		return nil, pgerror.Wrapf(err, pgerror.CodeNumericValueOutOfRangeError,
			"decimal operation failed")
	}
	return res, nil
}

// evalComparisonOp compares two non-NULL datums. Datum.Compare rejects
// mixed-category comparisons beyond numeric promotion.
func evalComparisonOp(op ComparisonOperator, left, right Datum) (Datum, error) {
	c, err := left.Compare(right)
	if err != nil {
		return nil, err
	}
	switch op {
	case EQ:
		return MakeDBool(c == 0), nil
	case NE:
		return MakeDBool(c != 0), nil
	case LT:
		return MakeDBool(c < 0), nil
	case LE:
		return MakeDBool(c <= 0), nil
	case GT:
		return MakeDBool(c > 0), nil
	case GE:
		return MakeDBool(c >= 0), nil
	}
	return nil, errAssertf("unhandled comparison operator %s", op)
}
