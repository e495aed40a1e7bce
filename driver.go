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
	"errors"
	"fmt"
	"sync"
)

//DriverName is the name of a raster driver
type DriverName string

const (
	//VRTDrv is the virtual dataset driver. Named apart from the VRT
	//composition handle type that shares this package.
	VRTDrv DriverName = "VRT"
	//Memory is the in-memory driver
	Memory DriverName = "MEM"
	//NetCDF is the scientific data file driver (registered by the ncdf package)
	NetCDF DriverName = "netCDF"
)

// RasterDriver opens datasets of one format. Open probes drivers in
// registration order; a driver must return ErrNotHandled (possibly wrapped)
// for locators that are not in its format so that probing can continue, and
// a real error for locators it recognizes but cannot open.
type RasterDriver interface {
	Name() DriverName
	Open(name string) (*Dataset, error)
}

var drivers struct {
	sync.Mutex
	list []RasterDriver
}

// RegisterRasterDriver appends a driver to the probing order.
func RegisterRasterDriver(drv RasterDriver) {
	drivers.Lock()
	defer drivers.Unlock()
	for _, d := range drivers.list {
		if d.Name() == drv.Name() {
			panic(fmt.Sprintf("driver %s already registered", drv.Name()))
		}
	}
	drivers.list = append(drivers.list, drv)
}

func registeredDrivers() []RasterDriver {
	drivers.Lock()
	defer drivers.Unlock()
	return append([]RasterDriver(nil), drivers.list...)
}

type openOpts struct {
	drivers      []string
	errorHandler ErrorHandler
}

// OpenOption is an option passed to Open()
//
// Available OpenOptions are:
//
// • Drivers
//
// • ErrLogger
type OpenOption interface {
	setOpenOpt(oo *openOpts)
}

type driversOpt struct {
	drivers []string
}

//Drivers specifies the list of drivers that are allowed to try opening the
//dataset
func Drivers(drivers ...string) interface {
	OpenOption
} {
	return driversOpt{drivers}
}
func (do driversOpt) setOpenOpt(oo *openOpts) {
	oo.drivers = append(oo.drivers, do.drivers...)
}

// Open resolves a locator to a Dataset by probing the registered drivers in
// order. The returned dataset is read-only as far as pixel sources are
// concerned: it describes structure and metadata only.
func Open(name string, options ...OpenOption) (*Dataset, error) {
	oopts := openOpts{}
	for _, opt := range options {
		opt.setOpenOpt(&oopts)
	}
	allowed := func(dn DriverName) bool {
		if len(oopts.drivers) == 0 {
			return true
		}
		for _, d := range oopts.drivers {
			if string(dn) == d {
				return true
			}
		}
		return false
	}
	for _, drv := range registeredDrivers() {
		if !allowed(drv.Name()) {
			continue
		}
		ds, err := drv.Open(name)
		if err == nil {
			return ds, nil
		}
		if errors.Is(err, ErrNotHandled) {
			continue
		}
		return nil, fmt.Errorf("driver %s: open %s: %w", drv.Name(), name, err)
	}
	return nil, fmt.Errorf("open %s: %w", name, ErrNotHandled)
}

func init() {
	RegisterRasterDriver(memDriver{})
	RegisterRasterDriver(vrtDriver{})
}
