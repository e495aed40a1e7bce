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
)

// metadata domains through which band sources are exposed and attached.
// Stored bands use NewVRTSourcesDomain, derived bands use VRTSourcesDomain.
const (
	VRTSourcesDomain    = "vrt_sources"
	NewVRTSourcesDomain = "new_vrt_sources"
)

// Band is a view over one band of a Dataset. Band views become stale when
// the owning dataset is reopened from XML and must be re-fetched.
type Band struct {
	ds    *Dataset
	index int
}

func (band Band) desc() *bandDesc {
	return band.ds.bands[band.index]
}

// Number returns the 1-based index of the band inside its dataset
func (band Band) Number() int {
	return band.index + 1
}

// Structure returns the band's Structure
func (band Band) Structure() BandStructure {
	bd := band.desc()
	st := BandStructure{
		SizeX:      band.ds.width,
		SizeY:      band.ds.height,
		BlockSizeX: bd.blockXSize,
		BlockSizeY: bd.blockYSize,
		DataType:   bd.dtype,
	}
	if st.BlockSizeX == 0 {
		st.BlockSizeX = band.ds.width
	}
	if st.BlockSizeY == 0 {
		st.BlockSizeY = 1
	}
	return st
}

// NoData returns the band's nodata value. ok is false if no nodata value has
// been set
func (band Band) NoData() (nodata float64, ok bool) {
	bd := band.desc()
	if bd.nodata != nil {
		return *bd.nodata, true
	}
	return 0, false
}

// SetNoData sets the band's nodata value
func (band Band) SetNoData(nd float64) error {
	v := nd
	band.desc().nodata = &v
	return nil
}

// ClearNoData clears the band's nodata value
func (band Band) ClearNoData() error {
	band.desc().nodata = nil
	return nil
}

// IsDerived reports wether the band is computed by a pixel function rather
// than stored
func (band Band) IsDerived() bool {
	return band.desc().subClass == derivedBandSubClass
}

// PixelFunction returns the name of the pixel function computing this band,
// or the empty string for a stored band
func (band Band) PixelFunction() string {
	return band.desc().pixelFunction
}

// Sources returns the band's source descriptors in upstream order
func (band Band) Sources() []Source {
	return append([]Source(nil), band.desc().sources...)
}

func (band Band) sourcesDomain() string {
	if band.IsDerived() {
		return VRTSourcesDomain
	}
	return NewVRTSourcesDomain
}

// Metadata returns the metadata item stored under key
func (band Band) Metadata(key string, opts ...MetadataOption) string {
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	if mo.domain == band.sourcesDomain() {
		return band.renderedSources()[key]
	}
	return band.desc().md.get(mo.domain, key)
}

// Metadatas returns all metadata items of a domain. The band's source
// domain (vrt_sources for derived bands, new_vrt_sources otherwise) is
// rendered on demand from the source descriptors.
func (band Band) Metadatas(opts ...MetadataOption) map[string]string {
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	if mo.domain == band.sourcesDomain() {
		return band.renderedSources()
	}
	return band.desc().md.all(mo.domain)
}

func (band Band) renderedSources() map[string]string {
	bd := band.desc()
	if len(bd.sources) == 0 {
		return nil
	}
	out := make(map[string]string, len(bd.sources))
	for i, src := range bd.sources {
		out["source_"+strconv.Itoa(i)] = renderSource(src, band.ds.width, band.ds.height)
	}
	return out
}

// SetMetadata stores value under key. Setting a source_N key in the
// vrt_sources or new_vrt_sources domain attaches the serialized source
// descriptor held in value to the band instead of storing plain metadata.
func (band Band) SetMetadata(key, value string, opts ...MetadataOption) error {
	mo := metadataOpts{}
	for _, opt := range opts {
		opt.setMetadataOpt(&mo)
	}
	if mo.domain == VRTSourcesDomain || mo.domain == NewVRTSourcesDomain {
		return band.setSource(key, value)
	}
	band.desc().md.set(mo.domain, key, value)
	return nil
}

func (band Band) setSource(key, snippet string) error {
	if !strings.HasPrefix(key, "source_") {
		return fmt.Errorf("source domain key %q: expected source_<n>", key)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(key, "source_"))
	if err != nil {
		return fmt.Errorf("source domain key %q: %w", key, err)
	}
	src, err := parseSource(snippet)
	if err != nil {
		return err
	}
	bd := band.desc()
	switch {
	case n == len(bd.sources):
		bd.sources = append(bd.sources, src)
	case n >= 0 && n < len(bd.sources):
		bd.sources[n] = src
	default:
		return fmt.Errorf("source index %d out of range, band has %d sources", n, len(bd.sources))
	}
	return nil
}

// MetadataDomains returns the list of metadata domains populated on this
// band, including the on-demand source domain when sources are attached
func (band Band) MetadataDomains() []string {
	domains := band.desc().md.domainNames()
	if len(band.desc().sources) > 0 {
		domains = append(domains, band.sourcesDomain())
	}
	return domains
}
