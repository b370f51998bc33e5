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

// Package tree implements the scalar-expression tree evaluated by the
// row-processing runtime. A tree is built once by the plan compiler,
// is immutable afterwards, and may then be evaluated concurrently from
// many goroutines: every Eval call allocates its own intermediate
// Datums and touches no shared mutable state.
package tree

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Expr is a node in a compiled scalar expression. A node owns its
// children exclusively; children are never shared between parents and
// cannot be added, removed or replaced after construction.
type Expr interface {
	// Eval evaluates the subtree against a pair of input rows. The
	// right row may be nil for single-table expressions. Evaluation is
	// synchronous and side-effect free; errors unwind to the
	// row-evaluation caller, which aborts the enclosing statement.
	Eval(ctx *EvalContext, left, right Datums) (Datum, error)
	// Describe renders a stable debug label for the subtree, prefixing
	// every line with spacer. Used by plan-explain tooling.
	Describe(spacer string) string
}

// Exprs is an ordered list of expression nodes. When passed to a
// constructor, ownership of the nodes transfers to the new parent.
type Exprs []Expr

const describeIndent = "   "

func errAssertf(format string, args ...interface{}) error {
	return errors.AssertionFailedWithDepthf(1, format, args...)
}

// IndexedVar is a reference to a column of one of the two input rows.
type IndexedVar struct {
	// RowIdx selects the left (0) or right (1) input row.
	RowIdx int
	// ColIdx is the column ordinal within the selected row.
	ColIdx int
}

var _ Expr = &IndexedVar{}

// Eval implements the Expr interface.
func (v *IndexedVar) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	row := left
	if v.RowIdx == 1 {
		row = right
	}
	if v.ColIdx < 0 || v.ColIdx >= len(row) {
		return nil, errAssertf("column ordinal @%d.%d out of range (row has %d columns)",
			v.RowIdx, v.ColIdx, len(row))
	}
	return row[v.ColIdx], nil
}

// Describe implements the Expr interface.
func (v *IndexedVar) Describe(spacer string) string {
	return fmt.Sprintf("%sIndexedVar @%d.%d", spacer, v.RowIdx, v.ColIdx)
}

// BinaryExpr applies an arithmetic operator to two child expressions.
type BinaryExpr struct {
	Operator BinaryOperator

	left  Expr
	right Expr
}

var _ Expr = &BinaryExpr{}

// NewBinaryExpr wires two children under an arithmetic operator,
// taking ownership of both.
func NewBinaryExpr(op BinaryOperator, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Operator: op, left: left, right: right}
}

// Eval implements the Expr interface. A NULL operand yields NULL.
func (e *BinaryExpr) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	l, err := e.left.Eval(ctx, left, right)
	if err != nil {
		return nil, err
	}
	r, err := e.right.Eval(ctx, left, right)
	if err != nil {
		return nil, err
	}
	if l == DNull || r == DNull {
		return DNull, nil
	}
	return evalBinaryOp(ctx, e.Operator, l, r)
}

// Describe implements the Expr interface.
func (e *BinaryExpr) Describe(spacer string) string {
	return fmt.Sprintf("%sBinaryExpr %s\n%s\n%s",
		spacer, e.Operator,
		e.left.Describe(spacer+describeIndent),
		e.right.Describe(spacer+describeIndent))
}

// ComparisonExpr compares two child expressions.
type ComparisonExpr struct {
	Operator ComparisonOperator

	left  Expr
	right Expr
}

var _ Expr = &ComparisonExpr{}

// NewComparisonExpr wires two children under a comparison operator,
// taking ownership of both.
func NewComparisonExpr(op ComparisonOperator, left, right Expr) *ComparisonExpr {
	return &ComparisonExpr{Operator: op, left: left, right: right}
}

// Eval implements the Expr interface. A NULL operand yields NULL.
func (e *ComparisonExpr) Eval(ctx *EvalContext, left, right Datums) (Datum, error) {
	l, err := e.left.Eval(ctx, left, right)
	if err != nil {
		return nil, err
	}
	r, err := e.right.Eval(ctx, left, right)
	if err != nil {
		return nil, err
	}
	if l == DNull || r == DNull {
		return DNull, nil
	}
	return evalComparisonOp(e.Operator, l, r)
}

// Describe implements the Expr interface.
func (e *ComparisonExpr) Describe(spacer string) string {
	return fmt.Sprintf("%sComparisonExpr %s\n%s\n%s",
		spacer, e.Operator,
		e.left.Describe(spacer+describeIndent),
		e.right.Describe(spacer+describeIndent))
}

// Datums are their own literal nodes: they evaluate to themselves and
// ignore the input rows.

// Eval implements the Expr interface.
func (d DBool) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DInt) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DFloat) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DDecimal) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DString) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DBytes) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (d DTimestamp) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return d, nil }

// Eval implements the Expr interface.
func (n dNull) Eval(ctx *EvalContext, left, right Datums) (Datum, error) { return n, nil }

// Describe implements the Expr interface.
func (d DBool) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DInt) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DFloat) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DDecimal) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DString) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DBytes) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (d DTimestamp) Describe(spacer string) string { return spacer + "Const " + d.String() }

// Describe implements the Expr interface.
func (n dNull) Describe(spacer string) string { return spacer + "Const NULL" }
