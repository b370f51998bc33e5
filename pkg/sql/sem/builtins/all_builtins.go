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

package builtins

import (
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/tupledb/tupledb/pkg/sql/sem/tree"
)

// AllBuiltinNames contains every builtin function name, sorted, for
// deterministic walks over the function set.
var AllBuiltinNames []string

func init() {
	for f, impl := range constantBuiltins {
		tree.RegisterConstantOverload(f, impl)
	}
	for f, impl := range unaryBuiltins {
		tree.RegisterUnaryOverload(f, impl)
	}
	for f, impl := range naryBuiltins {
		tree.RegisterNaryOverload(f, impl)
	}

	// Every identity the factory can be asked for must have an
	// implementation before any tree is built. A miss here is a build
	// defect, not a runtime condition.
	seen := map[string]struct{}{}
	for _, f := range tree.AllFunctionIdents() {
		if !tree.Registered(f) {
			panic(errors.AssertionFailedf(
				"function identity %s has no registered overload", f))
		}
		seen[f.String()] = struct{}{}
	}

	AllBuiltinNames = make([]string, 0, len(seen))
	for name := range seen {
		AllBuiltinNames = append(AllBuiltinNames, name)
	}
	sort.Strings(AllBuiltinNames)
}
