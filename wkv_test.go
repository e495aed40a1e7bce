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

func TestLookupWKV(t *testing.T) {
	w, err := LookupWKV("eastward_wind_velocity")
	require.NoError(t, err)
	assert.Equal(t, "east_wind", w.ShortName)
	assert.Equal(t, "m s-1", w.Units)

	_, err = LookupWKV("no_such_variable")
	assert.ErrorIs(t, err, ErrUnknownWKV)
	_, err = LookupWKV("")
	assert.ErrorIs(t, err, ErrUnknownWKV)
}

func TestRegisterWKV(t *testing.T) {
	require.NoError(t, RegisterWKV(WKV{
		StandardName: "sea_surface_salinity",
		ShortName:    "sss",
		LongName:     "Sea surface salinity",
		Units:        "1e-3",
	}))
	w, err := LookupWKV("sea_surface_salinity")
	require.NoError(t, err)
	assert.Equal(t, "sss", w.ShortName)

	// the registry is keyed: duplicates are rejected, not merged
	assert.Error(t, RegisterWKV(WKV{StandardName: "sea_surface_salinity", ShortName: "other"}))
	w, _ = LookupWKV("sea_surface_salinity")
	assert.Equal(t, "sss", w.ShortName)

	assert.Error(t, RegisterWKV(WKV{ShortName: "anon"}))
}
