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

package ncdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nansencenter/govrt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	drv := ncDriver{}
	assert.Equal(t, govrt.NetCDF, drv.Name())

	_, err := drv.Open("somefile.tif")
	assert.ErrorIs(t, err, govrt.ErrNotHandled)
	_, err = drv.Open("plainname")
	assert.ErrorIs(t, err, govrt.ErrNotHandled)

	// recognized suffix but unreadable file is a real error
	_, err = drv.Open("no-such-file.nc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, govrt.ErrNotHandled)

	junk := filepath.Join(t.TempDir(), "junk.nc")
	require.NoError(t, os.WriteFile(junk, []byte("not a netcdf file"), 0o644))
	_, err = drv.Open(junk)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, govrt.ErrNotHandled)
}

func TestDataTypeMapping(t *testing.T) {
	for goType, want := range map[string]govrt.DataType{
		"uint8":   govrt.Byte,
		"int8":    govrt.Byte,
		"int16":   govrt.Int16,
		"uint16":  govrt.UInt16,
		"int32":   govrt.Int32,
		"uint32":  govrt.UInt32,
		"float32": govrt.Float32,
		"float64": govrt.Float64,
	} {
		got, ok := dataType(goType)
		assert.True(t, ok, goType)
		assert.Equal(t, want, got, goType)
	}
	_, ok := dataType("string")
	assert.False(t, ok)
	_, ok = dataType("complex64")
	assert.False(t, ok)
}
