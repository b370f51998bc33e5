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
	"strings"

	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
)

// ConstFuncExpr calls a zero-argument function. Both input rows are
// ignored. The result is recomputed on every call: constant functions
// may be time-varying (now) or nondeterministic (random).
type ConstFuncExpr struct {
	Fn FunctionIdent
}

var _ Expr = &ConstFuncExpr{}

// Eval implements the Expr interface.
func (e *ConstFuncExpr) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	return CallConstant(ctx, e.Fn)
}

// Describe implements the Expr interface.
func (e *ConstFuncExpr) Describe(spacer string) string {
	return spacer + "ConstFuncExpr " + e.Fn.String()
}

// UnaryFuncExpr calls a one-argument function on its single child.
type UnaryFuncExpr struct {
	Fn FunctionIdent

	child Expr
}

var _ Expr = &UnaryFuncExpr{}

// Eval implements the Expr interface.
func (e *UnaryFuncExpr) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	d, err := e.child.Eval(ctx, left, right)
	if err != nil {
		return nil, err
	}
	return CallUnary(ctx, e.Fn, d)
}

// Describe implements the Expr interface.
func (e *UnaryFuncExpr) Describe(spacer string) string {
	return spacer + "UnaryFuncExpr " + e.Fn.String() + "\n" +
		e.child.Describe(spacer+describeIndent)
}

// NaryFuncExpr calls a function of two or more arguments. Children are
// evaluated left to right, exactly once per Eval call, into a fresh
// argument list.
type NaryFuncExpr struct {
	Fn FunctionIdent

	children Exprs
}

var _ Expr = &NaryFuncExpr{}

// Eval implements the Expr interface.
func (e *NaryFuncExpr) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	args := make(Datums, len(e.children))
	for i, child := range e.children {
		d, err := child.Eval(ctx, left, right)
		if err != nil {
			return nil, err
		}
		args[i] = d
	}
	return CallNary(ctx, e.Fn, args)
}

// Describe implements the Expr interface.
func (e *NaryFuncExpr) Describe(spacer string) string {
	var sb strings.Builder
	sb.WriteString(spacer)
	sb.WriteString("NaryFuncExpr ")
	sb.WriteString(e.Fn.String())
	for _, child := range e.children {
		sb.WriteString("\n")
		sb.WriteString(child.Describe(spacer + describeIndent))
	}
	return sb.String()
}

// NewFuncExpr builds the function node for an identity and an ordered
// list of already-built children, selecting the variant strictly by the
// argument count. Ownership of args transfers to the returned node. A
// (identity, arity) pair with no registered overload is a
// construction-time failure, reported to the plan compiler; it must
// never reach row evaluation.
func NewFuncExpr(fn FunctionIdent, args Exprs) (Expr, error) {
	switch len(args) {
	case 0:
		if !ConstantRegistered(fn) {
			return nil, makeUnknownSignatureError(fn, 0)
		}
		return &ConstFuncExpr{Fn: fn}, nil
	case 1:
		if !UnaryRegistered(fn) {
			return nil, makeUnknownSignatureError(fn, 1)
		}
		return &UnaryFuncExpr{Fn: fn, child: args[0]}, nil
	default:
		if !NaryRegistered(fn) {
			return nil, makeUnknownSignatureError(fn, len(args))
		}
		return &NaryFuncExpr{Fn: fn, children: args}, nil
	}
}

func makeUnknownSignatureError(fn FunctionIdent, arity int) error {
	return pgerror.Newf(pgerror.CodeUndefinedFunctionError,
		"unknown signature: %s with %d argument(s)", fn, arity)
}
