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
	"strconv"
	"strings"
)

// XML model of the VRT microformat. The microformat is contractually stable
// across flush/reopen cycles: everything the composition engine can express
// must survive a marshal/unmarshal round trip byte-exact on the second pass.

type vrtDatasetXML struct {
	XMLName      xml.Name      `xml:"VRTDataset"`
	RasterXSize  int           `xml:"rasterXSize,attr"`
	RasterYSize  int           `xml:"rasterYSize,attr"`
	SRS          string        `xml:"SRS,omitempty"`
	GeoTransform string        `xml:"GeoTransform,omitempty"`
	GCPList      *gcpListXML   `xml:"GCPList"`
	Metadata     []metadataXML `xml:"Metadata"`
	Bands        []vrtBandXML  `xml:"VRTRasterBand"`
}

type metadataXML struct {
	Domain string   `xml:"domain,attr,omitempty"`
	Items  []mdiXML `xml:"MDI"`
}

type mdiXML struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type gcpListXML struct {
	Projection string   `xml:"Projection,attr,omitempty"`
	GCPs       []gcpXML `xml:"GCP"`
}

type gcpXML struct {
	ID    string  `xml:"Id,attr,omitempty"`
	Info  string  `xml:"Info,attr,omitempty"`
	Pixel float64 `xml:"Pixel,attr"`
	Line  float64 `xml:"Line,attr"`
	X     float64 `xml:"X,attr"`
	Y     float64 `xml:"Y,attr"`
	Z     float64 `xml:"Z,attr"`
}

type vrtBandXML struct {
	DataType          string        `xml:"dataType,attr"`
	Band              int           `xml:"band,attr"`
	SubClass          string        `xml:"subClass,attr,omitempty"`
	NoDataValue       *float64      `xml:"NoDataValue"`
	PixelFunctionType string        `xml:"PixelFunctionType,omitempty"`
	Metadata          []metadataXML `xml:"Metadata"`
	ComplexSources    []sourceXML   `xml:"ComplexSource"`
	SimpleSources     []sourceXML   `xml:"SimpleSource"`
}

type sourceXML struct {
	XMLName          xml.Name
	SourceFilename   sourceFilenameXML `xml:"SourceFilename"`
	SourceBand       int               `xml:"SourceBand"`
	SourceProperties srcPropsXML       `xml:"SourceProperties"`
	SrcRect          rectXML           `xml:"SrcRect"`
	DstRect          rectXML           `xml:"DstRect"`
	ScaleRatio       *float64          `xml:"ScaleRatio"`
	ScaleOffset      *float64          `xml:"ScaleOffset"`
}

type sourceFilenameXML struct {
	RelativeToVRT int    `xml:"relativeToVRT,attr"`
	Name          string `xml:",chardata"`
}

type srcPropsXML struct {
	RasterXSize int    `xml:"RasterXSize,attr"`
	RasterYSize int    `xml:"RasterYSize,attr"`
	DataType    string `xml:"DataType,attr"`
	BlockXSize  int    `xml:"BlockXSize,attr"`
	BlockYSize  int    `xml:"BlockYSize,attr"`
}

type rectXML struct {
	XOff  int `xml:"xOff,attr"`
	YOff  int `xml:"yOff,attr"`
	XSize int `xml:"xSize,attr"`
	YSize int `xml:"ySize,attr"`
}

func gtToString(gt [6]float64) string {
	parts := make([]string, 6)
	for i, v := range gt {
		parts[i] = strconv.FormatFloat(v, 'e', 16, 64)
	}
	return " " + strings.Join(parts, ", ")
}

func gtFromString(s string) (*[6]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return nil, fmt.Errorf("geotransform has %d coefficients, expected 6", len(parts))
	}
	var gt [6]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("geotransform coefficient %d: %w", i, err)
		}
		gt[i] = v
	}
	return &gt, nil
}

func metadataToXML(ms *metadataStore) []metadataXML {
	var out []metadataXML
	for _, domain := range ms.domainNames() {
		keys := ms.keys(domain)
		if len(keys) == 0 {
			continue
		}
		md := metadataXML{Domain: domain}
		for _, k := range keys {
			md.Items = append(md.Items, mdiXML{Key: k, Value: ms.get(domain, k)})
		}
		out = append(out, md)
	}
	return out
}

func metadataFromXML(blocks []metadataXML, ms *metadataStore) {
	for _, b := range blocks {
		for _, item := range b.Items {
			ms.set(b.Domain, item.Key, item.Value)
		}
	}
}

// marshalDataset serializes the dataset graph into the XML microformat
func marshalDataset(ds *Dataset) ([]byte, error) {
	doc := vrtDatasetXML{
		RasterXSize: ds.width,
		RasterYSize: ds.height,
		SRS:         ds.projection,
		Metadata:    metadataToXML(&ds.md),
	}
	if ds.gt != nil {
		doc.GeoTransform = gtToString(*ds.gt)
	}
	if len(ds.gcps) > 0 {
		gl := &gcpListXML{Projection: ds.gcpProjection}
		for _, gcp := range ds.gcps {
			gl.GCPs = append(gl.GCPs, gcpXML{
				ID: gcp.ID, Info: gcp.Info,
				Pixel: gcp.Pixel, Line: gcp.Line,
				X: gcp.X, Y: gcp.Y, Z: gcp.Z,
			})
		}
		doc.GCPList = gl
	}
	for i, bd := range ds.bands {
		bx := vrtBandXML{
			DataType:          bd.dtype.String(),
			Band:              i + 1,
			SubClass:          bd.subClass,
			PixelFunctionType: bd.pixelFunction,
			NoDataValue:       bd.nodata,
			Metadata:          metadataToXML(&bd.md),
		}
		for _, src := range bd.sources {
			sx := src.toXML(ds.width, ds.height)
			if src.Kind == ComplexSourceKind {
				bx.ComplexSources = append(bx.ComplexSources, sx)
			} else {
				bx.SimpleSources = append(bx.SimpleSources, sx)
			}
		}
		doc.Bands = append(doc.Bands, bx)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal vrt: %w", err)
	}
	return append(out, '\n'), nil
}

// unmarshalDataset rebuilds a dataset from its serialized XML form
func unmarshalDataset(data []byte, name string) (*Dataset, error) {
	var doc vrtDatasetXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal vrt: %w", err)
	}
	if doc.RasterXSize <= 0 || doc.RasterYSize <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", doc.RasterXSize, doc.RasterYSize)
	}
	ds := &Dataset{
		driver:     VRTDrv,
		name:       name,
		width:      doc.RasterXSize,
		height:     doc.RasterYSize,
		projection: doc.SRS,
	}
	gt, err := gtFromString(doc.GeoTransform)
	if err != nil {
		return nil, err
	}
	ds.gt = gt
	if doc.GCPList != nil {
		ds.gcpProjection = doc.GCPList.Projection
		for _, g := range doc.GCPList.GCPs {
			ds.gcps = append(ds.gcps, GCP{
				ID: g.ID, Info: g.Info,
				Pixel: g.Pixel, Line: g.Line,
				X: g.X, Y: g.Y, Z: g.Z,
			})
		}
	}
	metadataFromXML(doc.Metadata, &ds.md)
	for i, bx := range doc.Bands {
		dtype, err := DataTypeFromName(bx.DataType)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i+1, err)
		}
		bd := ds.addBand(dtype)
		bd.subClass = bx.SubClass
		bd.pixelFunction = bx.PixelFunctionType
		bd.nodata = bx.NoDataValue
		metadataFromXML(bx.Metadata, &bd.md)
		for _, sx := range bx.ComplexSources {
			src, err := sourceFromXML(sx, ComplexSourceKind)
			if err != nil {
				return nil, fmt.Errorf("band %d: %w", i+1, err)
			}
			bd.sources = append(bd.sources, src)
		}
		for _, sx := range bx.SimpleSources {
			src, err := sourceFromXML(sx, SimpleSourceKind)
			if err != nil {
				return nil, fmt.Errorf("band %d: %w", i+1, err)
			}
			bd.sources = append(bd.sources, src)
		}
	}
	return ds, nil
}
