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
	"io"
	"os"
	"strings"
	"sync"
)

// VSIReader is the interface that should be returned by a VSIKeyReader for a
// given key (i.e. filename)
//
// Size() is used as a probe to determine wether the given key exists, and
// should return an error if no such key exists.
type VSIReader interface {
	io.ReaderAt
	Size() (uint64, error)
}

// VSIKeyReader is the interface that must be provided to RegisterVSIHandler.
// It should return a VSIReader for the given key.
//
// When registering a reader with
//  RegisterVSIHandler("scheme://",handler)
// calling Open("scheme://myfile.nc") will result in govrt making calls to
//  VSIReader("myfile.nc")
type VSIKeyReader interface {
	VSIReader(key string) (VSIReader, error)
}

var vsiHandlers struct {
	sync.Mutex
	prefixes map[string]VSIKeyReader
}

// RegisterVSIHandler registers keyReader on the given prefix. Locators
// starting with prefix are resolved through keyReader when drivers read
// source files.
func RegisterVSIHandler(prefix string, keyReader VSIKeyReader) error {
	vsiHandlers.Lock()
	defer vsiHandlers.Unlock()
	if vsiHandlers.prefixes == nil {
		vsiHandlers.prefixes = make(map[string]VSIKeyReader)
	}
	if vsiHandlers.prefixes[prefix] != nil {
		return fmt.Errorf("handler already registered on prefix %s", prefix)
	}
	vsiHandlers.prefixes[prefix] = keyReader
	return nil
}

func vsiHandlerFor(name string) (VSIKeyReader, string) {
	vsiHandlers.Lock()
	defer vsiHandlers.Unlock()
	for prefix, handler := range vsiHandlers.prefixes {
		if strings.HasPrefix(name, prefix) {
			return handler, name[len(prefix):]
		}
	}
	return nil, ""
}

// vsiReadAll resolves a locator to its full content: /vsimem/ slots first,
// then registered prefix handlers, then the OS filesystem.
func vsiReadAll(name string) ([]byte, error) {
	if strings.HasPrefix(name, VSIMemPrefix) {
		return VSIReadFile(name)
	}
	if handler, key := vsiHandlerFor(name); handler != nil {
		r, err := handler.VSIReader(key)
		if err != nil {
			return nil, fmt.Errorf("vsi handler %s: %w", name, err)
		}
		sz, err := r.Size()
		if err != nil {
			return nil, fmt.Errorf("vsi handler %s: %w", name, err)
		}
		buf := make([]byte, sz)
		if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
			return nil, fmt.Errorf("vsi handler %s: %w", name, err)
		}
		return buf, nil
	}
	return os.ReadFile(name)
}

// vsiExists reports wether a locator resolves to a readable file without
// fetching its content.
func vsiExists(name string) bool {
	if strings.HasPrefix(name, VSIMemPrefix) {
		_, err := VSIReadFile(name)
		return err == nil
	}
	if handler, key := vsiHandlerFor(name); handler != nil {
		r, err := handler.VSIReader(key)
		if err != nil {
			return false
		}
		_, err = r.Size()
		return err == nil
	}
	_, err := os.Stat(name)
	return err == nil
}
