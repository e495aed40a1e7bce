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
	"sync"
)

// The Memory driver keeps created datasets in a process-wide table so that
// their locator keeps resolving for source re-resolution. Closing a Memory
// dataset removes it from the table, after which references into it dangle
// the same way references into a deleted file would.

var memDatasets = struct {
	sync.Mutex
	byName map[string]*Dataset
}{byName: make(map[string]*Dataset)}

type dsCreateOpts struct {
	blockSizeX, blockSizeY int
}

// DatasetCreateOption is an option that can be passed to Create()
//
// Available DatasetCreateOptions are:
//
// • BlockSize
type DatasetCreateOption interface {
	setDatasetCreateOpt(dc *dsCreateOpts)
}

type blockSizeOpt struct {
	x, y int
}

// BlockSize sets the block size of the created dataset's bands
func BlockSize(x, y int) interface {
	DatasetCreateOption
} {
	return blockSizeOpt{x, y}
}
func (bso blockSizeOpt) setDatasetCreateOpt(dc *dsCreateOpts) {
	dc.blockSizeX, dc.blockSizeY = bso.x, bso.y
}

// Create creates a new dataset. Only the Memory driver supports direct
// creation; virtual datasets are built through NewVRT and its companions.
func Create(driver DriverName, name string, nBands int, dtype DataType, width, height int, opts ...DatasetCreateOption) (*Dataset, error) {
	if driver != Memory {
		return nil, fmt.Errorf("driver %s does not support create", driver)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	co := dsCreateOpts{}
	for _, opt := range opts {
		opt.setDatasetCreateOpt(&co)
	}
	ds := &Dataset{
		driver: Memory,
		name:   name,
		width:  width,
		height: height,
	}
	for i := 0; i < nBands; i++ {
		bd := ds.addBand(dtype)
		bd.blockXSize, bd.blockYSize = co.blockSizeX, co.blockSizeY
	}
	memDatasets.Lock()
	defer memDatasets.Unlock()
	if _, ok := memDatasets.byName[name]; ok {
		return nil, fmt.Errorf("memory dataset %s already exists", name)
	}
	memDatasets.byName[name] = ds
	return ds, nil
}

func unregisterMemDataset(name string) {
	memDatasets.Lock()
	defer memDatasets.Unlock()
	delete(memDatasets.byName, name)
}

type memDriver struct{}

func (memDriver) Name() DriverName {
	return Memory
}

// Open returns the registered dataset for name. Memory datasets are shared
// handles: all opens of the same name observe the same bands and metadata.
func (memDriver) Open(name string) (*Dataset, error) {
	memDatasets.Lock()
	defer memDatasets.Unlock()
	ds, ok := memDatasets.byName[name]
	if !ok {
		return nil, ErrNotHandled
	}
	return ds, nil
}
