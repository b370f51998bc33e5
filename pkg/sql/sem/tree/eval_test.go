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
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/datadriven"
	"github.com/tupledb/tupledb/pkg/sql/pgwire/pgerror"
	_ "github.com/tupledb/tupledb/pkg/sql/sem/builtins" // register overloads
	"github.com/tupledb/tupledb/pkg/sql/sem/tree"
	"github.com/tupledb/tupledb/pkg/sql/types"
)

// TestEval runs the datadriven scalar-evaluation tests. Each line of a
// directive holds one operation in prefix form over datum tokens:
//
//	arith:  <op> <datum> <datum>
//	cmp:    <op> <datum> <datum>
//	cast:   <datum> <type>
//	call:   <function> <datum>...
//
// Datum tokens are typed: i:5, f:2.5, d:1.25, s:text, b:bytes,
// ts:2024-05-01T12:00:00Z, null.
func TestEval(t *testing.T) {
	ctx := tree.MakeTestingEvalContext(
		time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), 1)

	datadriven.Walk(t, "testdata/eval", func(t *testing.T, path string) {
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			var out strings.Builder
			for _, line := range strings.Split(strings.TrimSpace(d.Input), "\n") {
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				res, err := evalLine(ctx, d.Cmd, fields)
				if err != nil {
					fmt.Fprintf(&out, "error (%s): %s\n", pgerror.GetPGCode(err), err)
					continue
				}
				fmt.Fprintf(&out, "%s\n", res)
			}
			return out.String()
		})
	})
}

func evalLine(ctx *tree.EvalContext, cmd string, fields []string) (tree.Datum, error) {
	switch cmd {
	case "arith":
		op, ok := parseBinaryOp(fields[0])
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", fields[0])
		}
		left, err := parseDatum(fields[1])
		if err != nil {
			return nil, err
		}
		right, err := parseDatum(fields[2])
		if err != nil {
			return nil, err
		}
		return tree.NewBinaryExpr(op, left, right).Eval(ctx, nil, nil)

	case "cmp":
		op, ok := parseComparisonOp(fields[0])
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", fields[0])
		}
		left, err := parseDatum(fields[1])
		if err != nil {
			return nil, err
		}
		right, err := parseDatum(fields[2])
		if err != nil {
			return nil, err
		}
		return tree.NewComparisonExpr(op, left, right).Eval(ctx, nil, nil)

	case "cast":
		d, err := parseDatum(fields[0])
		if err != nil {
			return nil, err
		}
		typ, err := parseType(fields[1])
		if err != nil {
			return nil, err
		}
		return tree.PerformCast(ctx, d, typ)

	case "call":
		fn, ok := tree.FunctionIdentByName(fields[0])
		if !ok {
			return nil, fmt.Errorf("unknown function %q", fields[0])
		}
		args := make(tree.Exprs, 0, len(fields)-1)
		for _, f := range fields[1:] {
			d, err := parseDatum(f)
			if err != nil {
				return nil, err
			}
			args = append(args, d)
		}
		expr, err := tree.NewFuncExpr(fn, args)
		if err != nil {
			return nil, err
		}
		return expr.Eval(ctx, nil, nil)
	}
	return nil, fmt.Errorf("unknown directive %q", cmd)
}

func parseDatum(token string) (tree.Datum, error) {
	if token == "null" {
		return tree.DNull, nil
	}
	kind, val, found := strings.Cut(token, ":")
	if !found {
		return nil, fmt.Errorf("malformed datum token %q", token)
	}
	switch kind {
	case "i":
		d, err := tree.PerformCast(nil, tree.NewDString(val), types.Int)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "f":
		d, err := tree.PerformCast(nil, tree.NewDString(val), types.Float)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "d":
		return tree.ParseDDecimal(val)
	case "s":
		return tree.NewDString(val), nil
	case "b":
		return tree.NewDBytes([]byte(val)), nil
	case "ts":
		ts, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, err
		}
		return tree.MakeDTimestamp(ts), nil
	}
	return nil, fmt.Errorf("unknown datum kind %q", kind)
}

func parseType(name string) (*types.T, error) {
	switch name {
	case "int":
		return types.Int, nil
	case "float":
		return types.Float, nil
	case "decimal":
		return types.Decimal, nil
	case "string":
		return types.String, nil
	case "bytes":
		return types.Bytes, nil
	case "timestamp":
		return types.Timestamp, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func parseBinaryOp(s string) (tree.BinaryOperator, bool) {
	switch s {
	case "+":
		return tree.Plus, true
	case "-":
		return tree.Minus, true
	case "*":
		return tree.Mult, true
	case "/":
		return tree.Div, true
	}
	return 0, false
}

func parseComparisonOp(s string) (tree.ComparisonOperator, bool) {
	switch s {
	case "=":
		return tree.EQ, true
	case "!=":
		return tree.NE, true
	case "<":
		return tree.LT, true
	case "<=":
		return tree.LE, true
	case ">":
		return tree.GT, true
	case ">=":
		return tree.GE, true
	}
	return 0, false
}
