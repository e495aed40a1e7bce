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
)

// A Mapper inspects an opened dataset and, when it recognizes the format
// family, composes a virtual dataset exposing the file's content as
// canonically named bands. A mapper that does not recognize the input must
// return ErrNotApplicable (possibly wrapped) so that selection can continue
// down the list; any other error aborts selection.
//
// metadata carries hints from the caller (acquisition metadata, format
// hints); bandList subsets and reorders the bands the mapper would compose,
// nil meaning all of them.
type Mapper func(locator string, ds *Dataset, metadata map[string]string, bandList []int) (*VRT, error)

// FirstApplicable runs mappers in order against the locator and returns the
// composition of the first one that applies.
func FirstApplicable(locator string, metadata map[string]string, bandList []int, mappers ...Mapper) (*VRT, error) {
	ds, err := Open(locator)
	if err != nil {
		return nil, err
	}
	for _, mapper := range mappers {
		vrt, err := mapper(locator, ds, metadata, bandList)
		if err == nil {
			return vrt, nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("map %s: %w", locator, ErrNotApplicable)
}
