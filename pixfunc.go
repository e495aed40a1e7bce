// Copyright 2021 Airbus Defence and Space
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package govrt

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/edisonguo/govaluate"
)

// The pixel function registry records the arity of every function the
// rendering backends are known to ship, so that derived band declarations
// can be validated at composition time. An arity of -1 marks a variadic
// function. Functions absent from the registry pass through unvalidated:
// the registry is advisory, the XML carries only the function name.

type pixelFunction struct {
	arity int
	expr  *govaluate.EvaluableExpression
}

var pixFuncs = struct {
	sync.Mutex
	byName map[string]pixelFunction
}{byName: map[string]pixelFunction{}}

func init() {
	for _, pf := range []struct {
		name  string
		arity int
	}{
		{"real", 1}, {"imag", 1}, {"mod", 1}, {"phase", 1}, {"conj", 1},
		{"sum", -1}, {"diff", 2}, {"mul", -1}, {"cmul", 2}, {"inv", 1},
		{"intensity", 1}, {"IntensityInt", 1}, {"sqrt", 1}, {"log10", 1},
		{"dB", 1}, {"dB2amp", 1}, {"dB2pow", 1},
		{"BetaSigmaToIncidence", 2},
		{"UVToMagnitude", 2}, {"UVToDirectionTo", 2}, {"UVToDirectionFrom", 2},
		{"Sigma0HHBetaToSigma0VV", 2}, {"Sigma0HHIncidenceToSigma0VV", 2},
		{"Sigma0NormalizedIce", 2}, {"Sigma0VVNormalizedIce", 2}, {"Sigma0HHNormalizedIce", 2},
		{"RawcountsIncidenceToSigma0", 2},
		{"RawcountsToSigma0_WVC_Fore", 2}, {"RawcountsToSigma0_WVC_Aft", 2},
		{"OnesPixelFunc", 0},
	} {
		pixFuncs.byName[pf.name] = pixelFunction{arity: pf.arity}
	}
}

// PixelFunctionArity returns the declared argument count of a registered
// pixel function. known is false for unregistered names; arity is -1 for
// variadic functions.
func PixelFunctionArity(name string) (arity int, known bool) {
	pixFuncs.Lock()
	defer pixFuncs.Unlock()
	pf, ok := pixFuncs.byName[name]
	return pf.arity, ok
}

// RegisterPixelFunction declares a backend-provided pixel function and its
// arity, -1 for variadic
func RegisterPixelFunction(name string, arity int) error {
	if name == "" {
		return fmt.Errorf("pixel function name must not be empty")
	}
	pixFuncs.Lock()
	defer pixFuncs.Unlock()
	if _, ok := pixFuncs.byName[name]; ok {
		return fmt.Errorf("pixel function %s already registered", name)
	}
	pixFuncs.byName[name] = pixelFunction{arity: arity}
	return nil
}

// RegisterPixelFunctionExpr declares a pixel function defined by an
// arithmetic expression over the variables b1..bN, N contiguous from 1. The
// arity is derived from the variables referenced. The parsed expression is
// kept so that EvalPixelFunction can compute sample values.
func RegisterPixelFunctionExpr(name, expression string) error {
	if name == "" {
		return fmt.Errorf("pixel function name must not be empty")
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return fmt.Errorf("pixel function %s: %w", name, err)
	}
	arity, err := exprArity(expr)
	if err != nil {
		return fmt.Errorf("pixel function %s: %w", name, err)
	}
	pixFuncs.Lock()
	defer pixFuncs.Unlock()
	if _, ok := pixFuncs.byName[name]; ok {
		return fmt.Errorf("pixel function %s already registered", name)
	}
	pixFuncs.byName[name] = pixelFunction{arity: arity, expr: expr}
	return nil
}

func exprArity(expr *govaluate.EvaluableExpression) (int, error) {
	seen := map[int]bool{}
	for _, token := range expr.Tokens() {
		if token.Kind != govaluate.VARIABLE {
			continue
		}
		varName, ok := token.Value.(string)
		if !ok || !strings.HasPrefix(varName, "b") {
			return 0, fmt.Errorf("variable %v: expected b<n>", token.Value)
		}
		n, err := strconv.Atoi(strings.TrimPrefix(varName, "b"))
		if err != nil || n < 1 {
			return 0, fmt.Errorf("variable %s: expected b<n> with n>=1", varName)
		}
		seen[n] = true
	}
	if len(seen) == 0 {
		return 0, fmt.Errorf("expression references no b<n> variables")
	}
	for i := 1; i <= len(seen); i++ {
		if !seen[i] {
			return 0, fmt.Errorf("expression variables not contiguous, b%d missing", i)
		}
	}
	return len(seen), nil
}

// EvalPixelFunction computes one sample of an expression-defined pixel
// function. Functions registered without an expression cannot be evaluated
// here, they live in the rendering backend.
func EvalPixelFunction(name string, args []float64) (float64, error) {
	pixFuncs.Lock()
	pf, ok := pixFuncs.byName[name]
	pixFuncs.Unlock()
	if !ok {
		return 0, fmt.Errorf("unknown pixel function %s", name)
	}
	if pf.expr == nil {
		return 0, fmt.Errorf("pixel function %s is backend-provided, not evaluable", name)
	}
	if len(args) != pf.arity {
		return 0, fmt.Errorf("pixel function %s takes %d sources, got %d", name, pf.arity, len(args))
	}
	// the govaluate fork evaluates band math over float32
	params := make(map[string]interface{}, len(args))
	for i, a := range args {
		params["b"+strconv.Itoa(i+1)] = float32(a)
	}
	res, err := pf.expr.Evaluate(params)
	if err != nil {
		return 0, err
	}
	switch f := res.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	default:
		return 0, fmt.Errorf("pixel function %s: non numeric result %v", name, res)
	}
}
