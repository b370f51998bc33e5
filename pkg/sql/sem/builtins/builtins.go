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

// Package builtins implements the SQL function overloads dispatched by
// the expression tree. Importing the package populates the tree
// dispatch registry.
package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	"github.com/tupledb/tupledb/pkg/sql/sem/builtins/builtinconstants"
	"github.com/tupledb/tupledb/pkg/sql/sem/tree"
	"github.com/tupledb/tupledb/pkg/sql/types"
)

var constantBuiltins = map[tree.FunctionIdent]tree.ConstantOverload{
	tree.FuncNow: {
		Fn: func(ctx *tree.EvalContext) (tree.Datum, error) {
			return tree.MakeDTimestamp(ctx.StmtTimestamp), nil
		},
	},
	tree.FuncRandom: {
		Fn: func(ctx *tree.EvalContext) (tree.Datum, error) {
			return tree.NewDFloat(ctx.RandFloat64()), nil
		},
	},
	tree.FuncPi: {
		Fn: func(ctx *tree.EvalContext) (tree.Datum, error) {
			return tree.NewDFloat(math.Pi), nil
		},
	},
}

var unaryBuiltins = map[tree.FunctionIdent]tree.UnaryOverload{
	tree.FuncAbs: {
		Fn: absImpl,
	},
	tree.FuncUpper: {
		Fn: func(ctx *tree.EvalContext, d tree.Datum) (tree.Datum, error) {
			s, err := requireText(d)
			if err != nil {
				return nil, err
			}
			return tree.NewDString(strings.ToUpper(s)), nil
		},
	},
	tree.FuncLower: {
		Fn: func(ctx *tree.EvalContext, d tree.Datum) (tree.Datum, error) {
			s, err := requireText(d)
			if err != nil {
				return nil, err
			}
			return tree.NewDString(strings.ToLower(s)), nil
		},
	},
	tree.FuncSQLErr: {
		FunctionProperties: tree.FunctionProperties{CalledOnNullInput: true},
		Fn:                 sqlErrUnaryImpl,
	},
}

var naryBuiltins = map[tree.FunctionIdent]tree.NaryOverload{
	tree.FuncSubstringFrom: {
		Fn: substringFromImpl,
	},
	tree.FuncSubstringFromFor: {
		Fn: substringFromForImpl,
	},
	tree.FuncSQLErr: {
		FunctionProperties: tree.FunctionProperties{CalledOnNullInput: true},
		Fn:                 sqlErrNaryImpl,
	},
}

func requireText(d tree.Datum) (string, error) {
	s, ok := tree.AsDString(d)
	if !ok {
		return "", pgerror.Newf(pgerror.CodeCannotCoerceError,
			"invalid cast: %s -> %s", d.ResolvedType(), types.String)
	}
	return string(s), nil
}

func requireInt(ctx *tree.EvalContext, d tree.Datum) (int64, error) {
	i, err := tree.PerformCast(ctx, d, types.Int)
	if err != nil {
		return 0, err
	}
	return int64(tree.MustBeDInt(i)), nil
}

func absImpl(ctx *tree.EvalContext, d tree.Datum) (tree.Datum, error) {
	switch v := d.(type) {
	case tree.DInt:
		if v == math.MinInt64 {
			return nil, pgerror.Newf(pgerror.CodeNumericValueOutOfRangeError,
				"abs of min integer value (%d) not defined", int64(v))
		}
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case tree.DFloat:
		return tree.NewDFloat(math.Abs(float64(v))), nil
	case tree.DDecimal:
		var res tree.DDecimal
		res.Abs(&v.Decimal)
		return res, nil
	}
	return nil, pgerror.Newf(pgerror.CodeInvalidParameterValueError,
		"abs(): unsupported argument type %s", d.ResolvedType())
}

// substring with a FROM clause only: one-based start, clamped to the
// string bounds, operating on runes.
func substringFromImpl(ctx *tree.EvalContext, args tree.Datums) (tree.Datum, error) {
	if len(args) != 2 {
		return nil, errors.AssertionFailedf(
			"substring_from expects 2 arguments, got %d", len(args))
	}
	s, err := requireText(args[0])
	if err != nil {
		return nil, err
	}
	start, err := requireInt(ctx, args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	begin := int(start) - 1
	if begin < 0 {
		begin = 0
	}
	if begin > len(runes) {
		begin = len(runes)
	}
	return tree.NewDString(string(runes[begin:])), nil
}

// substring with FROM and FOR clauses: the selected range is the
// intersection of [start, start+length) with the string, still
// one-based. A negative length is an error.
func substringFromForImpl(ctx *tree.EvalContext, args tree.Datums) (tree.Datum, error) {
	if len(args) != 3 {
		return nil, errors.AssertionFailedf(
			"substring_from_for expects 3 arguments, got %d", len(args))
	}
	s, err := requireText(args[0])
	if err != nil {
		return nil, err
	}
	start, err := requireInt(ctx, args[1])
	if err != nil {
		return nil, err
	}
	length, err := requireInt(ctx, args[2])
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, pgerror.New(pgerror.CodeSubstringError,
			"negative substring length not allowed")
	}
	runes := []rune(s)
	begin, end := int(start)-1, int(start)-1+int(length)
	if begin < 0 {
		begin = 0
	}
	if begin > len(runes) {
		begin = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	if end < begin {
		end = begin
	}
	return tree.NewDString(string(runes[begin:end])), nil
}

// sql_err deliberately raises a statement-level error, for tests and
// diagnostics. The unary form takes either a message (text operand,
// default code) or a code (any other operand, cast to int, default
// message). A zero resolved code is a no-op returning the operand. A
// NULL operand resolves to the default code, and the default code is
// non-zero, so sql_err(NULL) always raises.
func sqlErrUnaryImpl(ctx *tree.EvalContext, d tree.Datum) (tree.Datum, error) {
	// -1 forces a raise on every path that does not parse an explicit
	// zero code.
	code := int64(-1)
	codeStr := strconv.FormatInt(builtinconstants.DefaultForcedErrorCode, 10)
	msg := builtinconstants.ForcedErrorMessage

	if s, ok := tree.AsDString(d); ok {
		msg = string(s)
	} else if d != tree.DNull {
		var err error
		if code, err = requireInt(ctx, d); err != nil {
			return nil, err
		}
		codeStr = strconv.FormatInt(code, 10)
	}
	if code != 0 {
		return nil, pgerror.New(codeStr, msg)
	}
	return d, nil
}

// The two-argument form takes (code, message), either of which may be
// NULL: a NULL code resolves to the default code, a NULL message to
// empty text. A non-NULL message must already be text-typed. On the
// no-error path the (possibly defaulted) code argument is returned.
func sqlErrNaryImpl(ctx *tree.EvalContext, args tree.Datums) (tree.Datum, error) {
	if len(args) != 2 {
		return nil, errors.AssertionFailedf(
			"sql_err expects 2 arguments, got %d", len(args))
	}
	code := int64(-1)
	codeStr := strconv.FormatInt(builtinconstants.DefaultForcedErrorCode, 10)
	if codeArg := args[0]; codeArg != tree.DNull {
		var err error
		if code, err = requireInt(ctx, codeArg); err != nil {
			return nil, err
		}
		codeStr = strconv.FormatInt(code, 10)
	}
	msg := ""
	if msgArg := args[1]; msgArg != tree.DNull {
		var err error
		if msg, err = requireText(msgArg); err != nil {
			return nil, err
		}
	}
	if code != 0 {
		return nil, pgerror.New(codeStr, msg)
	}
	return args[0], nil
}
