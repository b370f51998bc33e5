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

package tree_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	_ "github.com/tupledb/tupledb/pkg/sql/sem/builtins" // register overloads
	"github.com/tupledb/tupledb/pkg/sql/sem/tree"
)

// countingExpr wraps a child and counts Eval calls, to observe
// evaluation order and multiplicity.
type countingExpr struct {
	child tree.Expr

	mu struct {
		sync.Mutex
		calls int
		order *[]int
		id    int
	}
}

func newCountingExpr(child tree.Expr, id int, order *[]int) *countingExpr {
	e := &countingExpr{child: child}
	e.mu.order = order
	e.mu.id = id
	return e
}

func (e *countingExpr) Eval(ctx *tree.EvalContext, left, right tree.Datums) (tree.Datum, error) {
	e.mu.Lock()
	e.mu.calls++
	*e.mu.order = append(*e.mu.order, e.mu.id)
	e.mu.Unlock()
	return e.child.Eval(ctx, left, right)
}

func (e *countingExpr) Describe(spacer string) string {
	return e.child.Describe(spacer)
}

func (e *countingExpr) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mu.calls
}

func TestNewFuncExprVariants(t *testing.T) {
	one := tree.NewDInt(1)
	str := tree.NewDString("s")
	testData := []struct {
		fn      tree.FunctionIdent
		args    tree.Exprs
		variant interface{}
	}{
		{tree.FuncNow, nil, &tree.ConstFuncExpr{}},
		{tree.FuncRandom, nil, &tree.ConstFuncExpr{}},
		{tree.FuncPi, nil, &tree.ConstFuncExpr{}},
		{tree.FuncAbs, tree.Exprs{one}, &tree.UnaryFuncExpr{}},
		{tree.FuncUpper, tree.Exprs{str}, &tree.UnaryFuncExpr{}},
		{tree.FuncLower, tree.Exprs{str}, &tree.UnaryFuncExpr{}},
		{tree.FuncSQLErr, tree.Exprs{one}, &tree.UnaryFuncExpr{}},
		{tree.FuncSubstringFrom, tree.Exprs{str, one}, &tree.NaryFuncExpr{}},
		{tree.FuncSubstringFromFor, tree.Exprs{str, one, one}, &tree.NaryFuncExpr{}},
		{tree.FuncSQLErr, tree.Exprs{one, str}, &tree.NaryFuncExpr{}},
	}
	for _, td := range testData {
		t.Run(fmt.Sprintf("%s/%d", td.fn, len(td.args)), func(t *testing.T) {
			expr, err := tree.NewFuncExpr(td.fn, td.args)
			require.NoError(t, err)
			require.IsType(t, td.variant, expr)
		})
	}
}

func TestNewFuncExprUnknownSignature(t *testing.T) {
	one := tree.NewDInt(1)
	str := tree.NewDString("s")
	testData := []struct {
		fn   tree.FunctionIdent
		args tree.Exprs
	}{
		// Registered identities at the wrong arity.
		{tree.FuncAbs, nil},
		{tree.FuncAbs, tree.Exprs{one, one}},
		{tree.FuncNow, tree.Exprs{one}},
		{tree.FuncSubstringFrom, tree.Exprs{str}},
		{tree.FuncSubstringFromFor, nil},
	}
	for _, td := range testData {
		t.Run(fmt.Sprintf("%s/%d", td.fn, len(td.args)), func(t *testing.T) {
			expr, err := tree.NewFuncExpr(td.fn, td.args)
			require.Nil(t, expr)
			require.Error(t, err)
			require.Equal(t, pgerror.CodeUndefinedFunctionError, pgerror.GetPGCode(err))
		})
	}
}

func TestConstFuncExprIgnoresRows(t *testing.T) {
	stmtTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctx := tree.MakeTestingEvalContext(stmtTime, 1)

	expr, err := tree.NewFuncExpr(tree.FuncNow, nil)
	require.NoError(t, err)

	res1, err := expr.Eval(ctx, tree.Datums{tree.NewDInt(1)}, nil)
	require.NoError(t, err)
	res2, err := expr.Eval(ctx, tree.Datums{tree.NewDString("other")}, tree.Datums{tree.NewDInt(9)})
	require.NoError(t, err)

	c, err := res1.Compare(res2)
	require.NoError(t, err)
	require.Zero(t, c, "now() must not depend on the input rows")
	require.Equal(t, tree.MakeDTimestamp(stmtTime), res1)
}

func TestConstFuncExprNotMemoized(t *testing.T) {
	ctx := tree.MakeTestingEvalContext(time.Unix(0, 0), 1)
	expr, err := tree.NewFuncExpr(tree.FuncRandom, nil)
	require.NoError(t, err)

	res1, err := expr.Eval(ctx, nil, nil)
	require.NoError(t, err)
	res2, err := expr.Eval(ctx, nil, nil)
	require.NoError(t, err)
	// A deterministic seeded source yields a different value on the
	// second draw; a memoizing node would repeat the first.
	require.NotEqual(t, res1, res2)
}

func TestUnaryFuncExprDispatch(t *testing.T) {
	ctx := tree.MakeTestingEvalContext(time.Unix(0, 0), 1)
	expr, err := tree.NewFuncExpr(tree.FuncAbs, tree.Exprs{tree.NewDInt(-5)})
	require.NoError(t, err)

	res, err := expr.Eval(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, tree.NewDInt(5), res)
}

func TestNaryFuncExprEvaluatesChildrenOnceInOrder(t *testing.T) {
	ctx := tree.MakeTestingEvalContext(time.Unix(0, 0), 1)
	var order []int
	children := tree.Exprs{
		newCountingExpr(tree.NewDString("hello world"), 0, &order),
		newCountingExpr(tree.NewDInt(7), 1, &order),
	}
	expr, err := tree.NewFuncExpr(tree.FuncSubstringFrom, children)
	require.NoError(t, err)

	res, err := expr.Eval(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, tree.NewDString("world"), res)
	require.Equal(t, []int{0, 1}, order)
	for i, child := range children {
		require.Equal(t, 1, child.(*countingExpr).calls(), "child %d", i)
	}

	// A second call evaluates every child exactly once more.
	order = order[:0]
	_, err = expr.Eval(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, order)
	for i, child := range children {
		require.Equal(t, 2, child.(*countingExpr).calls(), "child %d", i)
	}
}

func TestDescribeStable(t *testing.T) {
	testData := []struct {
		fn       tree.FunctionIdent
		args     tree.Exprs
		expected string
	}{
		{tree.FuncNow, nil, "ConstFuncExpr now"},
		{tree.FuncAbs, tree.Exprs{tree.NewDInt(-1)}, "UnaryFuncExpr abs\n   Const -1"},
		{tree.FuncSubstringFrom, tree.Exprs{tree.NewDString("ab"), tree.NewDInt(2)},
			"NaryFuncExpr substring_from\n   Const \"ab\"\n   Const 2"},
	}
	for _, td := range testData {
		expr, err := tree.NewFuncExpr(td.fn, td.args)
		require.NoError(t, err)
		require.Equal(t, td.expected, expr.Describe(""))
		// Repeated calls render identically.
		require.Equal(t, expr.Describe(""), expr.Describe(""))
	}
}

func TestConcurrentEval(t *testing.T) {
	// A published tree is immutable; many goroutines may evaluate it
	// against their own rows without synchronization.
	inner, err := tree.NewFuncExpr(tree.FuncAbs, tree.Exprs{
		&tree.IndexedVar{RowIdx: 0, ColIdx: 0},
	})
	require.NoError(t, err)
	expr, err := tree.NewFuncExpr(tree.FuncSubstringFrom, tree.Exprs{
		tree.NewDString("concurrent"), &tree.IndexedVar{RowIdx: 1, ColIdx: 0},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := tree.MakeTestingEvalContext(time.Unix(0, 0), int64(i))
			for j := 0; j < 100; j++ {
				res, err := inner.Eval(ctx, tree.Datums{tree.NewDInt(int64(-j))}, nil)
				assert.NoError(t, err)
				assert.Equal(t, tree.NewDInt(int64(j)), res)

				res, err = expr.Eval(ctx, nil, tree.Datums{tree.NewDInt(4)})
				assert.NoError(t, err)
				assert.Equal(t, tree.NewDString("current"), res)
			}
		}(i)
	}
	wg.Wait()
}

func TestIndexedVarOutOfRange(t *testing.T) {
	ctx := tree.MakeTestingEvalContext(time.Unix(0, 0), 1)
	v := &tree.IndexedVar{RowIdx: 1, ColIdx: 0}
	// The right row is absent for single-table expressions; referencing
	// it is an internal invariant violation.
	_, err := v.Eval(ctx, tree.Datums{tree.NewDInt(1)}, nil)
	require.Error(t, err)
	require.Equal(t, pgerror.CodeInternalError, pgerror.GetPGCode(err))
}
