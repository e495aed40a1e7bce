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

// Package govrt builds and serializes virtual raster datasets: declarative,
// lazily evaluated descriptions of multi band geospatial imagery where each
// band either references a band of an on-disk source file or is derived from
// one or more source bands through a named pixel function. The package never
// touches pixel values; it only composes the dataset graph and round-trips it
// through the VRT XML microformat backed by an in-memory /vsimem/ file.
package govrt

import (
	"fmt"
	"strings"
)

// DataType is a pixel data type
type DataType int

const (
	//Unknown / Unset Datatype
	Unknown = DataType(0)
	//Byte / UInt8
	Byte = DataType(1)
	//UInt16 DataType
	UInt16 = DataType(2)
	//Int16 DataType
	Int16 = DataType(3)
	//UInt32 DataType
	UInt32 = DataType(4)
	//Int32 DataType
	Int32 = DataType(5)
	//Float32 DataType
	Float32 = DataType(6)
	//Float64 DataType
	Float64 = DataType(7)
	//CInt16 is a complex Int16
	CInt16 = DataType(8)
	//CInt32 is a complex Int32
	CInt32 = DataType(9)
	//CFloat32 is a complex Float32
	CFloat32 = DataType(10)
	//CFloat64 is a complex Float64
	CFloat64 = DataType(11)
)

var dataTypeNames = map[DataType]string{
	Unknown:  "Unknown",
	Byte:     "Byte",
	UInt16:   "UInt16",
	Int16:    "Int16",
	UInt32:   "UInt32",
	Int32:    "Int32",
	Float32:  "Float32",
	Float64:  "Float64",
	CInt16:   "CInt16",
	CInt32:   "CInt32",
	CFloat32: "CFloat32",
	CFloat64: "CFloat64",
}

// String implements Stringer
func (dtype DataType) String() string {
	if name, ok := dataTypeNames[dtype]; ok {
		return name
	}
	return "Unknown"
}

// Size retruns the number of bytes needed for one instance of DataType
func (dtype DataType) Size() int {
	switch dtype {
	case Byte:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32, CInt16:
		return 4
	case CInt32, Float64, CFloat32:
		return 8
	case CFloat64:
		return 16
	default:
		panic("unsupported type")
	}
}

// DataTypeFromName returns the DataType whose name matches the given string
// (e.g. "Float32"), as found in serialized VRT band elements.
func DataTypeFromName(name string) (DataType, error) {
	for dt, n := range dataTypeNames {
		if strings.EqualFold(n, name) {
			return dt, nil
		}
	}
	return Unknown, fmt.Errorf("unknown data type %q", name)
}

// ErrorCategory is the severity of a message emitted while composing a
// dataset
type ErrorCategory int

const (
	// CE_None is not an error
	CE_None = ErrorCategory(0)
	// CE_Debug is a debug level
	CE_Debug = ErrorCategory(1)
	// CE_Warning is a warning level
	CE_Warning = ErrorCategory(2)
	// CE_Failure is an error
	CE_Failure = ErrorCategory(3)
	// CE_Fatal is an unrecoverable error
	CE_Fatal = ErrorCategory(4)
)
