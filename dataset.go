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
)

// GCP is a ground control point tying a pixel/line position to a georeferenced
// coordinate
type GCP struct {
	ID, Info    string
	Pixel, Line float64
	X, Y, Z     float64
}

// Dataset is an in-memory description of a raster dataset: its extent,
// geo-reference, metadata and ordered band list. Datasets come out of Open
// (through a RasterDriver), Create (Memory driver) or the VRT composition
// engine. Bands may be appended but never reordered or removed.
type Dataset struct {
	driver        DriverName
	name          string
	width, height int
	gt            *[6]float64
	projection    string
	gcps          []GCP
	gcpProjection string
	nodata        *float64
	md            metadataStore
	bands         []*bandDesc
	closed        bool
}

type bandDesc struct {
	dtype                  DataType
	nodata                 *float64
	subClass               string
	pixelFunction          string
	sources                []Source
	md                     metadataStore
	blockXSize, blockYSize int
}

// Name returns the locator this dataset was opened or created under
func (ds *Dataset) Name() string {
	return ds.name
}

// Driver returns the name of the driver that produced this dataset
func (ds *Dataset) Driver() DriverName {
	return ds.driver
}

// Structure returns the dataset's Structure
func (ds *Dataset) Structure() DatasetStructure {
	st := DatasetStructure{
		BandStructure: BandStructure{
			SizeX: ds.width,
			SizeY: ds.height,
		},
		NBands: len(ds.bands),
	}
	if len(ds.bands) > 0 {
		bst := ds.band(0).Structure()
		st.BlockSizeX, st.BlockSizeY = bst.BlockSizeX, bst.BlockSizeY
		st.DataType = bst.DataType
	}
	return st
}

// Bands returns all dataset bands.
func (ds *Dataset) Bands() []Band {
	bands := make([]Band, len(ds.bands))
	for i := range ds.bands {
		bands[i] = ds.band(i)
	}
	return bands
}

func (ds *Dataset) band(i int) Band {
	return Band{ds: ds, index: i}
}

// GeoTransform returns the affine transformation coefficients
func (ds *Dataset) GeoTransform() ([6]float64, error) {
	if ds.gt == nil {
		return [6]float64{}, fmt.Errorf("dataset has no geotransform")
	}
	return *ds.gt, nil
}

// SetGeoTransform sets the affine transformation coefficients. The
// geo-reference of a dataset is set exactly once: overwriting an existing
// geotransform is an error.
func (ds *Dataset) SetGeoTransform(transform [6]float64) error {
	if ds.gt != nil {
		return fmt.Errorf("geotransform already set")
	}
	gt := transform
	ds.gt = &gt
	return nil
}

// Projection returns the WKT projection of the dataset. May be empty.
func (ds *Dataset) Projection() string {
	return ds.projection
}

// SetProjection sets the WKT projection of the dataset
func (ds *Dataset) SetProjection(wkt string) error {
	if ds.projection != "" && wkt != ds.projection {
		return fmt.Errorf("projection already set")
	}
	ds.projection = wkt
	return nil
}

// GCPs returns the dataset's ground control points and their projection
func (ds *Dataset) GCPs() ([]GCP, string) {
	return append([]GCP(nil), ds.gcps...), ds.gcpProjection
}

// SetGCPs attaches ground control points with their projection definition
func (ds *Dataset) SetGCPs(gcps []GCP, projection string) error {
	if len(ds.gcps) > 0 {
		return fmt.Errorf("gcps already set")
	}
	ds.gcps = append([]GCP(nil), gcps...)
	ds.gcpProjection = projection
	return nil
}

// SetNoData sets the nodata value shared by all bands of this dataset
func (ds *Dataset) SetNoData(nd float64) error {
	ds.nodata = &nd
	for _, b := range ds.bands {
		v := nd
		b.nodata = &v
	}
	return nil
}

// Metadata returns the metadata item stored under key
func (ds *Dataset) Metadata(key string, opts ...MetadataOption) string {
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	return ds.md.get(mo.domain, key)
}

// Metadatas returns all metadata items of a domain
func (ds *Dataset) Metadatas(opts ...MetadataOption) map[string]string {
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	return ds.md.all(mo.domain)
}

// SetMetadata stores value under key
func (ds *Dataset) SetMetadata(key, value string, opts ...MetadataOption) error {
	if ds.closed {
		return fmt.Errorf("dataset is closed")
	}
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	ds.md.set(mo.domain, key, value)
	return nil
}

// MetadataDomains returns the list of metadata domains that have been
// populated on this dataset
func (ds *Dataset) MetadataDomains() []string {
	return ds.md.domainNames()
}

// Close releases the dataset. A Memory dataset is unregistered from the
// process-wide table and its locator stops resolving; a VRT-backed dataset
// keeps its /vsimem/ slot until VSIUnlink.
func (ds *Dataset) Close() error {
	if ds.closed {
		return fmt.Errorf("close called more than once")
	}
	ds.closed = true
	if ds.driver == Memory {
		unregisterMemDataset(ds.name)
	}
	return nil
}

// NewDriverDataset assembles a bare dataset handle on behalf of an external
// format driver's Open implementation. Bands are appended with NewBand.
func NewDriverDataset(driver DriverName, name string, width, height int) (*Dataset, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	return &Dataset{driver: driver, name: name, width: width, height: height}, nil
}

// NewBand appends a band of the given element type and returns its view.
// Used by external format drivers; virtual datasets grow bands through
// AddBands and AddPixelFunctionBand only.
func (ds *Dataset) NewBand(dtype DataType, opts ...DatasetCreateOption) Band {
	co := dsCreateOpts{}
	for _, opt := range opts {
		opt.setDatasetCreateOpt(&co)
	}
	bd := ds.addBand(dtype)
	bd.blockXSize, bd.blockYSize = co.blockSizeX, co.blockSizeY
	return ds.band(len(ds.bands) - 1)
}

func (ds *Dataset) addBand(dtype DataType) *bandDesc {
	bd := &bandDesc{dtype: dtype}
	if ds.nodata != nil {
		v := *ds.nodata
		bd.nodata = &v
	}
	ds.bands = append(ds.bands, bd)
	return bd
}
