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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetMetadataDomains(t *testing.T) {
	ds, err := Create(Memory, "mddomains", 1, Byte, 4, 4)
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.SetMetadata("k1", "v1"))
	require.NoError(t, ds.SetMetadata("k2", "v2", Domain("acquisition")))
	require.NoError(t, ds.SetMetadata("k1", "v1b"))

	assert.Equal(t, "v1b", ds.Metadata("k1"))
	assert.Equal(t, "", ds.Metadata("k2"))
	assert.Equal(t, "v2", ds.Metadata("k2", Domain("acquisition")))
	assert.Equal(t, map[string]string{"k1": "v1b"}, ds.Metadatas())
	assert.Equal(t, []string{"", "acquisition"}, ds.MetadataDomains())
}

func TestBandSourceAttachViaMetadata(t *testing.T) {
	src, err := Create(Memory, "attachsrc", 2, Float32, 8, 8)
	require.NoError(t, err)
	defer src.Close()
	vrt, err := NewVRT(8, 8)
	require.NoError(t, err)
	require.NoError(t, vrt.AddBands([]int{1}, []BandEntry{{Source: "attachsrc", SourceBand: 1}}))
	band := vrt.Dataset().Bands()[0]

	// replace the attached source through the metadata interface
	snippet := band.Metadatas(Domain(NewVRTSourcesDomain))["source_0"]
	replaced := strings.Replace(snippet, "<SourceBand>1</SourceBand>", "<SourceBand>2</SourceBand>", 1)
	require.NoError(t, band.SetMetadata("source_0", replaced, Domain(NewVRTSourcesDomain)))
	assert.Equal(t, 2, band.Sources()[0].Band)

	// append a second one
	require.NoError(t, band.SetMetadata("source_1", snippet, Domain(NewVRTSourcesDomain)))
	assert.Len(t, band.Sources(), 2)

	// holes and junk are rejected
	assert.Error(t, band.SetMetadata("source_5", snippet, Domain(NewVRTSourcesDomain)))
	assert.Error(t, band.SetMetadata("source_x", snippet, Domain(NewVRTSourcesDomain)))
	assert.Error(t, band.SetMetadata("notasource", snippet, Domain(NewVRTSourcesDomain)))
	assert.Error(t, band.SetMetadata("source_0", "<Garbage/>", Domain(NewVRTSourcesDomain)))

	assert.Contains(t, band.MetadataDomains(), NewVRTSourcesDomain)
}

func TestDataTypes(t *testing.T) {
	assert.Equal(t, "Float32", Float32.String())
	assert.Equal(t, "Byte", Byte.String())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 1, Byte.Size())
	assert.Equal(t, 8, CFloat32.Size())

	dt, err := DataTypeFromName("Int16")
	require.NoError(t, err)
	assert.Equal(t, Int16, dt)
	_, err = DataTypeFromName("NotAType")
	assert.Error(t, err)
}

func TestBandStructureDefaults(t *testing.T) {
	src, err := Create(Memory, "structsrc", 1, Int16, 100, 30, BlockSize(64, 10))
	require.NoError(t, err)
	defer src.Close()
	vrt, err := NewVRT(100, 30)
	require.NoError(t, err)
	require.NoError(t, vrt.AddBands([]int{1}, []BandEntry{{Source: "structsrc", SourceBand: 1}}))

	// the virtual band declares no block size, it reports scanline blocks
	st := vrt.Dataset().Bands()[0].Structure()
	assert.Equal(t, 100, st.SizeX)
	assert.Equal(t, 30, st.SizeY)
	assert.Equal(t, 100, st.BlockSizeX)
	assert.Equal(t, 1, st.BlockSizeY)
	assert.Equal(t, Int16, st.DataType)

	// the source keeps the blocking of the file it was resolved from
	srcRef := vrt.Dataset().Bands()[0].Sources()[0]
	assert.Equal(t, 64, srcRef.BlockXSize)
	assert.Equal(t, 10, srcRef.BlockYSize)
}
