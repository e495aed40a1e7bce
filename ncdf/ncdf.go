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

// Package ncdf registers a netCDF format driver backed by the pure go
// go-native-netcdf reader. Each two dimensional numeric variable of the file
// becomes one band, in ListVariables order; variables whose shape differs
// from the first usable one are skipped. Variable attributes land in the
// band's default metadata domain, global attributes in the dataset's.
package ncdf

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/nansencenter/govrt"
)

type ncDriver struct{}

func (ncDriver) Name() govrt.DriverName {
	return govrt.NetCDF
}

// Register adds the netCDF driver to the probing order. Call once, usually
// from main or an init of the embedding program.
func Register() {
	govrt.RegisterRasterDriver(ncDriver{})
}

var suffixes = []string{".nc", ".nc4", ".cdf"}

func (ncDriver) Open(name string) (*govrt.Dataset, error) {
	handled := false
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			handled = true
			break
		}
	}
	if !handled {
		return nil, govrt.ErrNotHandled
	}
	g, err := netcdf.Open(name)
	if err != nil {
		return nil, fmt.Errorf("netcdf open: %w", err)
	}
	defer g.Close()
	return datasetFromGroup(name, g)
}

func datasetFromGroup(name string, g api.Group) (*govrt.Dataset, error) {
	var ds *govrt.Dataset
	width, height := 0, 0
	for _, varName := range g.ListVariables() {
		vg, err := g.GetVarGetter(varName)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", varName, err)
		}
		if len(vg.Dimensions()) != 2 {
			continue
		}
		dtype, ok := dataType(vg.GoType())
		if !ok {
			continue
		}
		h := int(vg.Len())
		w, err := rowLength(vg)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", varName, err)
		}
		if ds == nil {
			width, height = w, h
			ds, err = govrt.NewDriverDataset(govrt.NetCDF, name, width, height)
			if err != nil {
				return nil, err
			}
		} else if w != width || h != height {
			continue
		}
		band := ds.NewBand(dtype, govrt.BlockSize(width, 1))
		if err := band.SetMetadata("NETCDF_VARNAME", varName); err != nil {
			return nil, err
		}
		attrs := vg.Attributes()
		for _, key := range attrs.Keys() {
			if val, has := attrs.Get(key); has {
				if err := band.SetMetadata(key, fmt.Sprint(val)); err != nil {
					return nil, err
				}
			}
		}
	}
	if ds == nil {
		return nil, fmt.Errorf("%s holds no two dimensional numeric variable", name)
	}
	globals := g.Attributes()
	for _, key := range globals.Keys() {
		if val, has := globals.Get(key); has {
			if err := ds.SetMetadata(key, fmt.Sprint(val)); err != nil {
				return nil, err
			}
		}
	}
	return ds, nil
}

// rowLength reads one row of a 2D variable and measures it. Len() counts the
// outer dimension, the file carries no other direct shape accessor.
func rowLength(vg api.VarGetter) (int, error) {
	row, err := vg.GetSlice(0, 1)
	if err != nil {
		return 0, err
	}
	rv := reflect.ValueOf(row)
	if rv.Kind() != reflect.Slice || rv.Len() != 1 {
		return 0, fmt.Errorf("unexpected slice shape %T", row)
	}
	inner := rv.Index(0)
	if inner.Kind() != reflect.Slice {
		return 0, fmt.Errorf("unexpected row type %T", row)
	}
	return inner.Len(), nil
}

func dataType(goType string) (govrt.DataType, bool) {
	switch goType {
	case "uint8", "int8":
		return govrt.Byte, true
	case "int16":
		return govrt.Int16, true
	case "uint16":
		return govrt.UInt16, true
	case "int32":
		return govrt.Int32, true
	case "uint32":
		return govrt.UInt32, true
	case "float32":
		return govrt.Float32, true
	case "float64":
		return govrt.Float64, true
	}
	return govrt.Unknown, false
}
