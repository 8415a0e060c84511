/*
Copyright © 2026 the phytodrift authors.
This file is part of phytodrift.

phytodrift is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

phytodrift is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with phytodrift.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package irradiance provides an idealized daily light cycle at the sea
// surface and its attenuation with depth.
package irradiance

import (
	"fmt"
	"io"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// wattsToMicromol converts shortwave flux [W/m²] to photosynthetically
// available radiation [µmol photons m⁻² s⁻¹].
const wattsToMicromol = 0.00836

// Params holds parameters of the irradiance model.
type Params struct {
	Tau    float64 `yaml:"tau"`     // width of the Gaussian solar-angle weighting
	Nu     float64 `yaml:"nu"`      // biological and optical scaling factor
	KWater float64 `yaml:"k_water"` // light attenuation coefficient [1/m]

	DayLength float64 `yaml:"day_length"` // [hours]
	FMax      float64 `yaml:"f_max"`      // surface flux at solar noon [W/m²]
}

// DefaultParams returns the default irradiance parameters.
func DefaultParams() Params {
	return Params{
		Tau:       1,
		Nu:        1,
		KWater:    0.1,
		DayLength: 24,
		FMax:      1000,
	}
}

// LoadParams reads irradiance parameters in YAML format from r. Parameters
// missing from r keep their default values.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
		return p, fmt.Errorf("irradiance: reading parameters: %v", err)
	}
	return p, nil
}

// HourOfDay returns the number of hours since midnight at t.
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// Surface returns the downward shortwave flux at the sea surface [W/m²]
// at the given hour, following a half sine wave over dayLength hours
// that peaks at fMax. The flux is zero outside of (0, dayLength).
func Surface(hour, dayLength, fMax float64) float64 {
	if !(hour > 0 && hour < dayLength) {
		return 0
	}
	return fMax * math.Max(0, math.Sin(math.Pi*hour/dayLength))
}

// AtDepth returns the irradiance [µmol photons m⁻² s⁻¹] at each of the
// depths z [m, ≤ 0] for the given hour. Only the mean of the longitudes
// lon [degrees] is used, to estimate the solar hour angle.
func AtDepth(hour float64, lon, z []float64, p Params) ([]float64, error) {
	if len(lon) == 0 {
		return nil, fmt.Errorf("irradiance: no longitudes supplied")
	}
	surface := Surface(hour, p.DayLength, p.FMax)
	theta := ((hour-12)*15 - stat.Mean(lon, nil)) * math.Pi / 180
	weight := math.Sqrt(p.Tau/(2*math.Pi)) * math.Exp(-p.Tau*theta*theta/2)

	o := make([]float64, len(z))
	for i, zi := range z {
		o[i] = weight * surface * p.Nu * wattsToMicromol * math.Exp(p.KWater*zi)
	}
	return o, nil
}
