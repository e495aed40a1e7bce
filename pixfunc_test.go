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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelFunctionArity(t *testing.T) {
	ar, known := PixelFunctionArity("UVToMagnitude")
	assert.True(t, known)
	assert.Equal(t, 2, ar)

	ar, known = PixelFunctionArity("sum")
	assert.True(t, known)
	assert.Equal(t, -1, ar)

	_, known = PixelFunctionArity("NotAFunction")
	assert.False(t, known)
}

func TestRegisterPixelFunction(t *testing.T) {
	require.NoError(t, RegisterPixelFunction("MyBackendFunc", 3))
	ar, known := PixelFunctionArity("MyBackendFunc")
	assert.True(t, known)
	assert.Equal(t, 3, ar)

	assert.Error(t, RegisterPixelFunction("MyBackendFunc", 3))
	assert.Error(t, RegisterPixelFunction("", 1))
}

func TestRegisterPixelFunctionExpr(t *testing.T) {
	require.NoError(t, RegisterPixelFunctionExpr("amp_ratio", "b1 / b2"))
	ar, known := PixelFunctionArity("amp_ratio")
	assert.True(t, known)
	assert.Equal(t, 2, ar)

	v, err := EvalPixelFunction("amp_ratio", []float64{10, 4})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 1e-12)

	_, err = EvalPixelFunction("amp_ratio", []float64{10})
	assert.Error(t, err)
	_, err = EvalPixelFunction("NotAFunction", []float64{1})
	assert.Error(t, err)
	// builtin functions have no expression to evaluate
	_, err = EvalPixelFunction("UVToMagnitude", []float64{1, 2})
	assert.Error(t, err)

	// variables must be contiguous b1..bN
	assert.Error(t, RegisterPixelFunctionExpr("holes", "b1 + b3"))
	assert.Error(t, RegisterPixelFunctionExpr("novars", "1 + 2"))
	assert.Error(t, RegisterPixelFunctionExpr("badvar", "foo + b1"))
	assert.Error(t, RegisterPixelFunctionExpr("badsyntax", "b1 +"))
	assert.Error(t, RegisterPixelFunctionExpr("amp_ratio", "b1 * b2"))
}

func TestExprBackedDerivedBand(t *testing.T) {
	require.NoError(t, RegisterPixelFunctionExpr("square_sum", "b1 ** 2 + b2 ** 2"))
	v, err := EvalPixelFunction("square_sum", []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 25, v, 1e-6)

	src, err := Create(Memory, "exprsrc", 2, Float32, 10, 10)
	require.NoError(t, err)
	defer src.Close()
	vrt, err := NewVRT(10, 10)
	require.NoError(t, err)

	// the derived arity is enforced at composition time
	err = vrt.AddPixelFunctionBand("square_sum", []int{1}, "exprsrc", BandEntry{})
	assert.Error(t, err)
	require.NoError(t, vrt.AddPixelFunctionBand("square_sum", []int{1, 2}, "exprsrc", BandEntry{}))
	assert.Equal(t, "square_sum", vrt.Dataset().Bands()[0].PixelFunction())
}
