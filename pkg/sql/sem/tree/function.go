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

import "github.com/cockroachdb/redact"

// FunctionIdent names one specific SQL function or operator overload.
// Each identity belongs to one or more arity families (constant, unary,
// n-ary); the factory only builds nodes for registered (identity,
// family) pairs, so evaluation never sees an un-dispatchable node.
type FunctionIdent int

// The supported function identities. sql_err is registered in both the
// unary and the n-ary family, one identity per overload shape is not
// required.
const (
	_ FunctionIdent = iota
	FuncNow
	FuncRandom
	FuncPi
	FuncAbs
	FuncUpper
	FuncLower
	FuncSubstringFrom
	FuncSubstringFromFor
	FuncSQLErr
)

var functionIdentNames = [...]string{
	FuncNow:              "now",
	FuncRandom:           "random",
	FuncPi:               "pi",
	FuncAbs:              "abs",
	FuncUpper:            "upper",
	FuncLower:            "lower",
	FuncSubstringFrom:    "substring_from",
	FuncSubstringFromFor: "substring_from_for",
	FuncSQLErr:           "sql_err",
}

func (f FunctionIdent) String() string {
	if f > 0 && int(f) < len(functionIdentNames) {
		return functionIdentNames[f]
	}
	return "unknown"
}

// SafeValue implements the redact.SafeValue interface. Identity names
// never contain user data.
func (f FunctionIdent) SafeValue() {}

var _ redact.SafeValue = FunctionIdent(0)

// FunctionIdentByName resolves an identity from its name. Used by
// tooling; the plan compiler works with the enum directly.
func FunctionIdentByName(name string) (FunctionIdent, bool) {
	for f := FunctionIdent(1); int(f) < len(functionIdentNames); f++ {
		if functionIdentNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

// AllFunctionIdents lists every identity, for registry walks.
func AllFunctionIdents() []FunctionIdent {
	idents := make([]FunctionIdent, 0, len(functionIdentNames)-1)
	for f := FunctionIdent(1); int(f) < len(functionIdentNames); f++ {
		idents = append(idents, f)
	}
	return idents
}

// FunctionProperties qualifies a registered overload.
type FunctionProperties struct {
	// CalledOnNullInput governs NULL propagation: when false (the
	// default for SQL functions), a NULL argument short-circuits the
	// call to a NULL result without invoking the implementation.
	CalledOnNullInput bool
}

// ConstantOverload is a zero-argument function implementation. The
// results of constant overloads are intentionally never memoized:
// several of them are time-varying or nondeterministic.
type ConstantOverload struct {
	FunctionProperties
	Fn func(ctx *EvalContext) (Datum, error)
}

// UnaryOverload is a one-argument function implementation.
type UnaryOverload struct {
	FunctionProperties
	Fn func(ctx *EvalContext, d Datum) (Datum, error)
}

// NaryOverload is a two-or-more-argument function implementation. The
// implementation receives the arguments in declaration order, each
// evaluated exactly once.
type NaryOverload struct {
	FunctionProperties
	Fn func(ctx *EvalContext, args Datums) (Datum, error)
}

// The dispatch registry. Populated once by builtins.init() during
// process startup, strictly before any expression tree is built;
// read-only afterwards.
var (
	constantOverloads = map[FunctionIdent]ConstantOverload{}
	unaryOverloads    = map[FunctionIdent]UnaryOverload{}
	naryOverloads     = map[FunctionIdent]NaryOverload{}
)

// RegisterConstantOverload registers a zero-argument implementation.
func RegisterConstantOverload(f FunctionIdent, impl ConstantOverload) {
	if _, ok := constantOverloads[f]; ok {
		panic(errAssertf("duplicate constant overload for %s", f))
	}
	constantOverloads[f] = impl
}

// RegisterUnaryOverload registers a one-argument implementation.
func RegisterUnaryOverload(f FunctionIdent, impl UnaryOverload) {
	if _, ok := unaryOverloads[f]; ok {
		panic(errAssertf("duplicate unary overload for %s", f))
	}
	unaryOverloads[f] = impl
}

// RegisterNaryOverload registers a two-or-more-argument implementation.
func RegisterNaryOverload(f FunctionIdent, impl NaryOverload) {
	if _, ok := naryOverloads[f]; ok {
		panic(errAssertf("duplicate n-ary overload for %s", f))
	}
	naryOverloads[f] = impl
}

// ConstantRegistered reports whether f has a constant-family overload.
func ConstantRegistered(f FunctionIdent) bool {
	_, ok := constantOverloads[f]
	return ok
}

// UnaryRegistered reports whether f has a unary-family overload.
func UnaryRegistered(f FunctionIdent) bool {
	_, ok := unaryOverloads[f]
	return ok
}

// NaryRegistered reports whether f has an n-ary-family overload.
func NaryRegistered(f FunctionIdent) bool {
	_, ok := naryOverloads[f]
	return ok
}

// Registered reports whether f has an overload in any arity family.
func Registered(f FunctionIdent) bool {
	return ConstantRegistered(f) || UnaryRegistered(f) || NaryRegistered(f)
}

// CallConstant invokes the constant-family overload of f. Calling an
// identity outside its registered family is a programming error, not a
// recoverable SQL error: the factory is the sole gate that prevents it.
func CallConstant(ctx *EvalContext, f FunctionIdent) (Datum, error) {
	impl, ok := constantOverloads[f]
	if !ok {
		panic(errAssertf("no constant overload registered for %s", f))
	}
	return impl.Fn(ctx)
}

// CallUnary invokes the unary-family overload of f on d.
func CallUnary(ctx *EvalContext, f FunctionIdent, d Datum) (Datum, error) {
	impl, ok := unaryOverloads[f]
	if !ok {
		panic(errAssertf("no unary overload registered for %s", f))
	}
	if d == DNull && !impl.CalledOnNullInput {
		return DNull, nil
	}
	return impl.Fn(ctx, d)
}

// CallNary invokes the n-ary-family overload of f on args, in
// declaration order.
func CallNary(ctx *EvalContext, f FunctionIdent, args Datums) (Datum, error) {
	impl, ok := naryOverloads[f]
	if !ok {
		panic(errAssertf("no n-ary overload registered for %s", f))
	}
	if !impl.CalledOnNullInput {
		for _, d := range args {
			if d == DNull {
				return DNull, nil
			}
		}
	}
	return impl.Fn(ctx, args)
}
