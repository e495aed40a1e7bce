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
	"encoding/xml"
	"fmt"
	"strings"
)

// SourceKind discriminates the flavors of band sources
type SourceKind int

const (
	// SimpleSourceKind is a verbatim passthrough of the referenced band
	SimpleSourceKind = SourceKind(iota)
	// ComplexSourceKind applies scale and offset to every sampled value
	ComplexSourceKind
)

// String implements Stringer
func (k SourceKind) String() string {
	switch k {
	case SimpleSourceKind:
		return "SimpleSource"
	case ComplexSourceKind:
		return "ComplexSource"
	default:
		return "Unknown"
	}
}

// Source references one band of one external raster file, along with the
// block size and data type needed to read it and, for complex sources, the
// scale/offset applied to every sampled value. A Source records identity,
// not ownership: the referenced file is only reopened when pixels are
// requested downstream.
type Source struct {
	Kind                   SourceKind
	Filename               string
	Band                   int
	DataType               DataType
	BlockXSize, BlockYSize int
	ScaleRatio             float64
	ScaleOffset            float64
}

func (src Source) toXML(rasterXSize, rasterYSize int) sourceXML {
	sx := sourceXML{
		XMLName:        xml.Name{Local: src.Kind.String()},
		SourceFilename: sourceFilenameXML{RelativeToVRT: 0, Name: src.Filename},
		SourceBand:     src.Band,
		SourceProperties: srcPropsXML{
			RasterXSize: rasterXSize,
			RasterYSize: rasterYSize,
			DataType:    src.DataType.String(),
			BlockXSize:  src.BlockXSize,
			BlockYSize:  src.BlockYSize,
		},
		SrcRect: rectXML{XSize: rasterXSize, YSize: rasterYSize},
		DstRect: rectXML{XSize: rasterXSize, YSize: rasterYSize},
	}
	if src.Kind == ComplexSourceKind {
		ratio, offset := src.ScaleRatio, src.ScaleOffset
		sx.ScaleRatio = &ratio
		sx.ScaleOffset = &offset
	}
	return sx
}

func sourceFromXML(sx sourceXML, kind SourceKind) (Source, error) {
	dtype, err := DataTypeFromName(sx.SourceProperties.DataType)
	if err != nil {
		return Source{}, fmt.Errorf("source %s: %w", sx.SourceFilename.Name, err)
	}
	src := Source{
		Kind:       kind,
		Filename:   sx.SourceFilename.Name,
		Band:       sx.SourceBand,
		DataType:   dtype,
		BlockXSize: sx.SourceProperties.BlockXSize,
		BlockYSize: sx.SourceProperties.BlockYSize,
	}
	if kind == ComplexSourceKind {
		src.ScaleRatio, src.ScaleOffset = 1, 0
		if sx.ScaleRatio != nil {
			src.ScaleRatio = *sx.ScaleRatio
		}
		if sx.ScaleOffset != nil {
			src.ScaleOffset = *sx.ScaleOffset
		}
	}
	return src, nil
}

// renderSource serializes a single source descriptor the way it appears in a
// band's vrt_sources/new_vrt_sources metadata domain
func renderSource(src Source, rasterXSize, rasterYSize int) string {
	out, err := xml.MarshalIndent(src.toXML(rasterXSize, rasterYSize), "", "  ")
	if err != nil {
		// the source model contains nothing xml.Marshal can reject
		panic(err)
	}
	return string(out)
}

// parseSource rebuilds a source descriptor from its XML snippet form
func parseSource(snippet string) (Source, error) {
	kind := SimpleSourceKind
	if strings.Contains(snippet, "<ComplexSource") {
		kind = ComplexSourceKind
	} else if !strings.Contains(snippet, "<SimpleSource") {
		return Source{}, fmt.Errorf("snippet is neither a SimpleSource nor a ComplexSource")
	}
	var sx sourceXML
	if err := xml.Unmarshal([]byte(snippet), &sx); err != nil {
		return Source{}, fmt.Errorf("unmarshal source: %w", err)
	}
	return sourceFromXML(sx, kind)
}

// resolveSource opens the referenced external band read-only to capture its
// block size and data type. The file is not held open: each resolution
// reopens by locator. A failed open is surfaced immediately, never retried.
func resolveSource(locator string, bandNo int, kind SourceKind, scale, offset float64) (Source, error) {
	ds, err := Open(locator)
	if err != nil {
		return Source{}, fmt.Errorf("open source %s: %w", locator, err)
	}
	bands := ds.Bands()
	if bandNo < 1 || bandNo > len(bands) {
		return Source{}, fmt.Errorf("source %s has no band %d", locator, bandNo)
	}
	st := bands[bandNo-1].Structure()
	src := Source{
		Kind:       kind,
		Filename:   locator,
		Band:       bandNo,
		DataType:   st.DataType,
		BlockXSize: st.BlockSizeX,
		BlockYSize: st.BlockSizeY,
	}
	if kind == ComplexSourceKind {
		src.ScaleRatio, src.ScaleOffset = scale, offset
	}
	return src, nil
}
