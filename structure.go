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

// BandStructure describes the shape of a single raster band: its pixel
// extent, the block size its backing storage is tiled with, and the sample
// data type. Virtual bands that declare no explicit block size report
// scanline blocks of SizeX by 1.
type BandStructure struct {
	SizeX, SizeY           int
	BlockSizeX, BlockSizeY int
	DataType               DataType
}

// DatasetStructure describes the shape of a whole dataset. The embedded
// BandStructure carries the extent and the block size and data type of the
// first band, which composed virtual datasets share across bands.
type DatasetStructure struct {
	BandStructure
	NBands int
}
