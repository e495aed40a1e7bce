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

type metadataOpts struct {
	domain       string
	errorHandler ErrorHandler
}

// MetadataOption is an option that can be passed to metadata related calls
//
// Available MetadataOptions are:
//
// • Domain
type MetadataOption interface {
	setMetadataOpt(mo *metadataOpts)
}

type metadataOpt struct {
	domain string
}

// Domain specifies the metadata domain to use
func Domain(mdDomain string) interface {
	MetadataOption
} {
	return metadataOpt{mdDomain}
}
func (mdo metadataOpt) setMetadataOpt(mo *metadataOpts) {
	mo.domain = mdo.domain
}

// metadataStore holds key/value metadata split into domains, preserving
// insertion order within each domain so that serialization is deterministic.
type metadataStore struct {
	domains map[string]*metadataDomain
	order   []string
}

type metadataDomain struct {
	keys []string
	vals map[string]string
}

func (ms *metadataStore) domain(name string, create bool) *metadataDomain {
	if ms.domains == nil {
		if !create {
			return nil
		}
		ms.domains = make(map[string]*metadataDomain)
	}
	d, ok := ms.domains[name]
	if !ok {
		if !create {
			return nil
		}
		d = &metadataDomain{vals: make(map[string]string)}
		ms.domains[name] = d
		ms.order = append(ms.order, name)
	}
	return d
}

func (ms *metadataStore) set(domain, key, value string) {
	d := ms.domain(domain, true)
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = value
}

func (ms *metadataStore) get(domain, key string) string {
	d := ms.domain(domain, false)
	if d == nil {
		return ""
	}
	return d.vals[key]
}

func (ms *metadataStore) all(domain string) map[string]string {
	d := ms.domain(domain, false)
	if d == nil || len(d.keys) == 0 {
		return nil
	}
	ret := make(map[string]string, len(d.keys))
	for k, v := range d.vals {
		ret[k] = v
	}
	return ret
}

func (ms *metadataStore) keys(domain string) []string {
	d := ms.domain(domain, false)
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

func (ms *metadataStore) domainNames() []string {
	return append([]string(nil), ms.order...)
}

func (ms *metadataStore) copy() metadataStore {
	var out metadataStore
	for _, name := range ms.order {
		d := ms.domains[name]
		for _, k := range d.keys {
			out.set(name, k, d.vals[k])
		}
	}
	return out
}
