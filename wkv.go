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

import "fmt"

// WKV is a well-known variable: the canonical naming and units attached as
// default band metadata when a band declares its WKV standard name.
type WKV struct {
	StandardName string
	ShortName    string
	LongName     string
	Units        string
}

var wkvRegistry = map[string]WKV{}

// registerWKV panics on duplicate standard names: the registry is keyed and
// a collision is a programming error, not a runtime condition.
func registerWKV(w WKV) {
	if _, ok := wkvRegistry[w.StandardName]; ok {
		panic(fmt.Sprintf("wkv %s already registered", w.StandardName))
	}
	wkvRegistry[w.StandardName] = w
}

// LookupWKV resolves a CF standard name to its registry record
func LookupWKV(standardName string) (WKV, error) {
	w, ok := wkvRegistry[standardName]
	if !ok {
		return WKV{}, fmt.Errorf("%w: %s", ErrUnknownWKV, standardName)
	}
	return w, nil
}

// RegisterWKV adds a variable definition to the registry. Duplicate standard
// names are rejected.
func RegisterWKV(w WKV) error {
	if w.StandardName == "" {
		return fmt.Errorf("wkv standard name must not be empty")
	}
	if _, ok := wkvRegistry[w.StandardName]; ok {
		return fmt.Errorf("wkv %s already registered", w.StandardName)
	}
	wkvRegistry[w.StandardName] = w
	return nil
}

func init() {
	for _, w := range []WKV{
		{"eastward_wind_velocity", "east_wind", "Eastward wind velocity", "m s-1"},
		{"northward_wind_velocity", "north_wind", "Northward wind velocity", "m s-1"},
		{"wind_speed", "windspeed", "Wind speed", "m s-1"},
		{"wind_from_direction", "winddirection", "Wind from direction", "degrees"},
		{"surface_backwards_scattering_coefficient_of_radar_wave", "sigma0", "Normalized radar cross section", "m/m"},
		{"angle_of_incidence", "incidence_angle", "Angle of incidence", "degrees"},
		{"sensor_azimuth_angle", "sensor_azimuth", "Sensor azimuth angle", "degrees"},
		{"sea_surface_temperature", "sst", "Sea surface temperature", "K"},
		{"sea_ice_area_fraction", "ice_conc", "Sea ice concentration", "1"},
		{"mass_concentration_of_chlorophyll_a_in_sea_water", "chlor_a", "Chlorophyll-a concentration", "kg m-3"},
		{"latitude", "latitude", "Latitude", "degrees_north"},
		{"longitude", "longitude", "Longitude", "degrees_east"},
		{"digital_number", "DN", "Digital number", "1"},
	} {
		registerWKV(w)
	}
}
