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
	"os"
	"sort"
	"strconv"
)

const derivedBandSubClass = "VRTDerivedRasterBand"

// VRT is a virtual dataset under composition, backed by a randomly named
// /vsimem/ slot holding its serialized XML form. The backing slot is claimed
// at construction and kept for the process lifetime.
type VRT struct {
	ds       *Dataset
	filename string
}

type vrtOpts struct {
	gt            *[6]float64
	projection    string
	gcps          []GCP
	gcpProjection string
	metadata      [][2]string
	errorHandler  ErrorHandler
}

// VRTOption is an option that can be passed to NewVRT and its companions
//
// Available VRTOptions are:
//
// • GeoTransform
//
// • Projection
//
// • GroundControlPoints
//
// • DatasetMetadata
//
// • ErrLogger
type VRTOption interface {
	setVRTOpt(o *vrtOpts)
}

type geoTransformOpt struct {
	gt [6]float64
}

// GeoTransform sets the affine geotransform of the created dataset
func GeoTransform(gt [6]float64) interface {
	VRTOption
} {
	return geoTransformOpt{gt}
}
func (gto geoTransformOpt) setVRTOpt(o *vrtOpts) {
	gt := gto.gt
	o.gt = &gt
}

type projectionOpt struct {
	wkt string
}

// Projection sets the projection definition of the created dataset
func Projection(wkt string) interface {
	VRTOption
} {
	return projectionOpt{wkt}
}
func (po projectionOpt) setVRTOpt(o *vrtOpts) {
	o.projection = po.wkt
}

type gcpsOpt struct {
	gcps       []GCP
	projection string
}

// GroundControlPoints sets the created dataset's GCPs and their projection
func GroundControlPoints(gcps []GCP, projection string) interface {
	VRTOption
} {
	return gcpsOpt{gcps, projection}
}
func (gco gcpsOpt) setVRTOpt(o *vrtOpts) {
	o.gcps = gco.gcps
	o.gcpProjection = gco.projection
}

type dsMetadataOpt struct {
	key, value string
}

// DatasetMetadata adds a dataset-level metadata item to the created dataset
func DatasetMetadata(key, value string) interface {
	VRTOption
} {
	return dsMetadataOpt{key, value}
}
func (mo dsMetadataOpt) setVRTOpt(o *vrtOpts) {
	o.metadata = append(o.metadata, [2]string{mo.key, mo.value})
}

func newVRT(width, height int, o vrtOpts) (*VRT, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	filename := newVRTFilename()
	if err := claimVSISlot(filename); err != nil {
		return nil, err
	}
	ds := &Dataset{
		driver:        VRTDrv,
		name:          filename,
		width:         width,
		height:        height,
		gt:            o.gt,
		projection:    o.projection,
		gcps:          append([]GCP(nil), o.gcps...),
		gcpProjection: o.gcpProjection,
	}
	for _, kv := range o.metadata {
		ds.md.set("", kv[0], kv[1])
	}
	v := &VRT{ds: ds, filename: filename}
	if err := v.Flush(); err != nil {
		return nil, err
	}
	return v, nil
}

// NewVRT creates a virtual dataset scaffold with zero bands from explicit
// geo-reference parameters. The dataset is flushed to its backing slot
// before being returned: no reader can observe an unflushed dataset.
func NewVRT(width, height int, opts ...VRTOption) (*VRT, error) {
	o := vrtOpts{}
	for _, opt := range opts {
		opt.setVRTOpt(&o)
	}
	return newVRT(width, height, o)
}

// NewVRTFromDataset creates a zero-band scaffold deriving raster extent,
// geo-reference and dataset metadata from ds
func NewVRTFromDataset(ds *Dataset, opts ...VRTOption) (*VRT, error) {
	o := vrtOpts{}
	for _, opt := range opts {
		opt.setVRTOpt(&o)
	}
	st := ds.Structure()
	if o.gt == nil {
		if gt, err := ds.GeoTransform(); err == nil {
			o.gt = &gt
		}
	}
	if o.projection == "" {
		o.projection = ds.Projection()
	}
	if len(o.gcps) == 0 {
		o.gcps, o.gcpProjection = ds.GCPs()
	}
	for _, k := range ds.md.keys("") {
		o.metadata = append(o.metadata, [2]string{k, ds.md.get("", k)})
	}
	return newVRT(st.SizeX, st.SizeY, o)
}

// CopyVRT creates a full copy of src: geo-reference plus every band
// descriptor. When any band's sources can no longer be resolved the copy
// degrades, by design, to a shallow scaffold holding only the geo-reference
// and zero bands; only that specific condition triggers the fallback, any
// other failure (such as the inability to claim a backing slot) is fatal.
func CopyVRT(src *VRT) (*VRT, error) {
	filename := newVRTFilename()
	if err := claimVSISlot(filename); err != nil {
		return nil, err
	}
	data, err := marshalDataset(src.ds)
	if err != nil {
		return nil, err
	}
	ds, err := unmarshalDataset(data, filename)
	if err != nil {
		return nil, err
	}
	if copyErr := checkSourcesResolvable(ds); copyErr != nil {
		// band copy unavailable: degrade to the geo-reference scaffold
		ds = &Dataset{
			driver:        VRTDrv,
			name:          filename,
			width:         src.ds.width,
			height:        src.ds.height,
			gt:            src.ds.gt,
			projection:    src.ds.projection,
			gcps:          append([]GCP(nil), src.ds.gcps...),
			gcpProjection: src.ds.gcpProjection,
			md:            src.ds.md.copy(),
		}
	}
	v := &VRT{ds: ds, filename: filename}
	if err := v.Flush(); err != nil {
		return nil, err
	}
	return v, nil
}

func checkSourcesResolvable(ds *Dataset) error {
	for i, bd := range ds.bands {
		for _, src := range bd.sources {
			sds, err := Open(src.Filename)
			if err != nil {
				return fmt.Errorf("band %d: %w", i+1, err)
			}
			if src.Band < 1 || src.Band > len(sds.Bands()) {
				return fmt.Errorf("band %d: source %s has no band %d", i+1, src.Filename, src.Band)
			}
		}
	}
	return nil
}

// Dataset returns the composed dataset
func (v *VRT) Dataset() *Dataset {
	return v.ds
}

// Filename returns the /vsimem/ path of the backing slot
func (v *VRT) Filename() string {
	return v.filename
}

// Flush serializes the dataset graph into the backing slot
func (v *VRT) Flush() error {
	data, err := marshalDataset(v.ds)
	if err != nil {
		return err
	}
	return VSIWriteFile(v.filename, data)
}

// BandEntry declares one band to be instantiated by AddBands, or the
// metadata of a pixel-function band. Scale and Offset only apply to complex
// sources; the zero value of Scale selects the identity ratio 1.
type BandEntry struct {
	Source     string
	SourceBand int
	WKV        string
	Scale      float64
	Offset     float64
	Parameters BandParameters
}

// BandParameters is the closed set of per-band parameters recognized by the
// composition engine. Recognized parameters are typed fields; anything else
// goes through Extra and is copied verbatim into the band metadata, caller
// values winning over WKV defaults on key collisions.
type BandParameters struct {
	BandName     string
	Height       string
	Polarization string
	Units        string
	DataType     DataType
	SimpleSource bool
	Extra        map[string]string
}

type addBandsOpts struct {
	errorHandler ErrorHandler
}

// AddBandsOption is an option that can be passed to VRT.AddBands()
//
// Available AddBandsOptions are:
//
// • ErrLogger
type AddBandsOption interface {
	setAddBandsOpt(o *addBandsOpts)
}

// AddBands instantiates bands from the declarative entries list. bandList
// holds the 1-based indices into entries to instantiate, in order: entries
// may be subsetted, reordered or duplicated. Band numbering in the dataset
// is the position in bandList, independent of the source band numbers
// referenced.
//
// An index outside [1,len(entries)] stops composition at that point with a
// CE_Warning: bands added so far are retained and the dataset stays valid.
// A source that cannot be opened or an unknown WKV name fails the call
// without appending the offending band.
func (v *VRT) AddBands(bandList []int, entries []BandEntry, opts ...AddBandsOption) error {
	o := addBandsOpts{}
	for _, opt := range opts {
		opt.setAddBandsOpt(&o)
	}
	for _, idx := range bandList {
		if idx < 1 || idx > len(entries) {
			err := emitErrorf(o.errorHandler, CE_Warning, codeIllegalArg,
				"addbands: band list index %d outside [1,%d]", idx, len(entries))
			if ferr := v.Flush(); ferr != nil {
				return ferr
			}
			return err
		}
		e := entries[idx-1]
		var wkv WKV
		if e.WKV != "" {
			var err error
			if wkv, err = LookupWKV(e.WKV); err != nil {
				return err
			}
		}
		kind := ComplexSourceKind
		if e.Parameters.SimpleSource {
			kind = SimpleSourceKind
		}
		scale := e.Scale
		if scale == 0 {
			scale = 1
		}
		src, err := resolveSource(e.Source, e.SourceBand, kind, scale, e.Offset)
		if err != nil {
			return err
		}
		dtype := Float32
		if e.Parameters.DataType != Unknown {
			dtype = e.Parameters.DataType
		}
		v.ds.addBand(dtype)
		band := v.ds.band(len(v.ds.bands) - 1)
		applyWKVMetadata(band, wkv)
		applyParameters(band, e.Parameters)
		if err := band.SetMetadata("source_0", renderSource(src, v.ds.width, v.ds.height),
			Domain(NewVRTSourcesDomain)); err != nil {
			return err
		}
	}
	return v.Flush()
}

type addPixFuncOpts struct {
	errorHandler ErrorHandler
}

// AddPixelFunctionBandOption is an option that can be passed to
// VRT.AddPixelFunctionBand()
//
// Available AddPixelFunctionBandOptions are:
//
// • ErrLogger
type AddPixelFunctionBandOption interface {
	setAddPixelFunctionBandOpt(o *addPixFuncOpts)
}

// AddPixelFunctionBand appends one derived band whose values are computed on
// demand by the named pixel function over bands of the external file at
// locator. srcBands index the external file, not the growing virtual
// dataset; both mappers in production rely on this, so it is a documented
// contract of the call.
//
// The band's element type defaults to Float32 and is not inferred from the
// upstream bands. The call fails without mutating the dataset when locator
// cannot be opened, an upstream band number is invalid, or the function is
// registered with a different arity.
func (v *VRT) AddPixelFunctionBand(function string, srcBands []int, locator string, entry BandEntry, opts ...AddPixelFunctionBandOption) error {
	o := addPixFuncOpts{}
	for _, opt := range opts {
		opt.setAddPixelFunctionBandOpt(&o)
	}
	var wkv WKV
	if entry.WKV != "" {
		var err error
		if wkv, err = LookupWKV(entry.WKV); err != nil {
			return err
		}
	}
	if arity, known := PixelFunctionArity(function); known && arity >= 0 && arity != len(srcBands) {
		return fmt.Errorf("pixel function %s takes %d sources, got %d", function, arity, len(srcBands))
	}
	srcDS, err := Open(locator)
	if err != nil {
		return fmt.Errorf("open source %s: %w", locator, err)
	}
	srcBandViews := srcDS.Bands()
	sources := make([]Source, len(srcBands))
	for i, bandNo := range srcBands {
		if bandNo < 1 || bandNo > len(srcBandViews) {
			return fmt.Errorf("source %s has no band %d", locator, bandNo)
		}
		st := srcBandViews[bandNo-1].Structure()
		sources[i] = Source{
			Kind:       SimpleSourceKind,
			Filename:   locator,
			Band:       bandNo,
			DataType:   st.DataType,
			BlockXSize: st.BlockSizeX,
			BlockYSize: st.BlockSizeY,
		}
	}
	dtype := Float32
	if entry.Parameters.DataType != Unknown {
		dtype = entry.Parameters.DataType
	}
	bd := v.ds.addBand(dtype)
	bd.subClass = derivedBandSubClass
	bd.pixelFunction = function
	band := v.ds.band(len(v.ds.bands) - 1)
	for i, src := range sources {
		if err := band.SetMetadata("source_"+strconv.Itoa(i),
			renderSource(src, v.ds.width, v.ds.height), Domain(VRTSourcesDomain)); err != nil {
			return err
		}
	}
	applyWKVMetadata(band, wkv)
	applyParameters(band, entry.Parameters)
	if err := band.SetMetadata("pixelfunction", function); err != nil {
		return err
	}
	return v.Flush()
}

func applyWKVMetadata(band Band, wkv WKV) {
	if wkv.StandardName == "" {
		return
	}
	_ = band.SetMetadata("standard_name", wkv.StandardName)
	_ = band.SetMetadata("band_name", wkv.ShortName)
	_ = band.SetMetadata("long_name", wkv.LongName)
	_ = band.SetMetadata("units", wkv.Units)
}

func applyParameters(band Band, p BandParameters) {
	if p.BandName != "" {
		_ = band.SetMetadata("band_name", p.BandName)
	}
	if p.Height != "" {
		_ = band.SetMetadata("height", p.Height)
	}
	if p.Polarization != "" {
		_ = band.SetMetadata("polarization", p.Polarization)
	}
	if p.Units != "" {
		_ = band.SetMetadata("units", p.Units)
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = band.SetMetadata(k, p.Extra[k])
	}
}

// ToXML flushes the dataset and returns the verbatim content of its backing
// slot. The XML is pass-through at this layer: it is never parsed back
// except by FromXML/Open. Two calls without an intervening mutation return
// identical text.
func (v *VRT) ToXML() (string, error) {
	if err := v.Flush(); err != nil {
		return "", err
	}
	data, err := VSIReadFile(v.filename)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromXML writes blob verbatim into the backing slot and reopens the
// dataset from it. The returned VRT replaces the receiver, which is closed:
// band views fetched from the old handle are stale and must be re-fetched
// from the new one. The operation is a replace, not a merge.
func (v *VRT) FromXML(blob string) (*VRT, error) {
	ds, err := unmarshalDataset([]byte(blob), v.filename)
	if err != nil {
		return nil, err
	}
	if err := VSIWriteFile(v.filename, []byte(blob)); err != nil {
		return nil, err
	}
	v.ds.closed = true
	v.ds = nil
	return &VRT{ds: ds, filename: v.filename}, nil
}

// Export writes a durable copy of the serialized graph to path. The
// ephemeral backing slot is unaffected.
func (v *VRT) Export(path string) error {
	if err := v.Flush(); err != nil {
		return err
	}
	data, err := VSIReadFile(v.filename)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
