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
	"bytes"
	"fmt"
	"strings"
)

type vrtDriver struct{}

func (vrtDriver) Name() DriverName {
	return VRTDrv
}

// Open parses a serialized virtual dataset. The locator may be a /vsimem/
// slot, a handler-backed path or an OS file; locators that neither carry a
// .vrt suffix nor hold VRTDataset XML are left to other drivers.
func (vrtDriver) Open(name string) (*Dataset, error) {
	if !strings.HasSuffix(name, ".vrt") && !vsiExists(name) {
		return nil, ErrNotHandled
	}
	data, err := vsiReadAll(name)
	if err != nil {
		if strings.HasSuffix(name, ".vrt") {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return nil, ErrNotHandled
	}
	head := bytes.TrimSpace(data)
	if len(head) > 256 {
		head = head[:256]
	}
	if !bytes.Contains(head, []byte("<VRTDataset")) {
		return nil, ErrNotHandled
	}
	return unmarshalDataset(data, name)
}
