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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVSIMem(t *testing.T) {
	require.NoError(t, VSIWriteFile("/vsimem/t1.bin", []byte("payload")))
	data, err := VSIReadFile("/vsimem/t1.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	// overwrite is allowed
	require.NoError(t, VSIWriteFile("/vsimem/t1.bin", []byte("other")))
	data, err = VSIReadFile("/vsimem/t1.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), data)

	require.NoError(t, VSIUnlink("/vsimem/t1.bin"))
	_, err = VSIReadFile("/vsimem/t1.bin")
	assert.Error(t, err)
	assert.Error(t, VSIUnlink("/vsimem/t1.bin"))

	assert.Error(t, VSIWriteFile("/elsewhere/t1.bin", []byte("x")))
}

func TestVSIFile(t *testing.T) {
	require.NoError(t, VSIWriteFile("/vsimem/vf.bin", []byte("0123456789")))
	defer VSIUnlink("/vsimem/vf.bin")

	vf, err := VSIOpen("/vsimem/vf.bin")
	require.NoError(t, err)
	sz, err := vf.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 10, sz)
	content, err := io.ReadAll(vf)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))
	require.NoError(t, vf.Close())
	assert.Error(t, vf.Close())

	_, err = VSIOpen("/vsimem/absent.bin")
	assert.Error(t, err)
}

func TestSlotNaming(t *testing.T) {
	name := newVRTFilename()
	assert.True(t, strings.HasPrefix(name, VSIMemPrefix))
	assert.True(t, strings.HasSuffix(name, ".vrt"))
	base := strings.TrimSuffix(strings.TrimPrefix(name, VSIMemPrefix), ".vrt")
	assert.Len(t, base, 10)
	for _, c := range base {
		assert.Contains(t, slotAlphabet, string(c))
	}
	assert.NotEqual(t, name, newVRTFilename())
}

func TestClaimVSISlot(t *testing.T) {
	name := newVRTFilename()
	require.NoError(t, claimVSISlot(name))
	// a collision with a live slot is fatal, not retried
	assert.Error(t, claimVSISlot(name))
	require.NoError(t, VSIUnlink(name))
	assert.NoError(t, claimVSISlot(name))
	require.NoError(t, VSIUnlink(name))
}
