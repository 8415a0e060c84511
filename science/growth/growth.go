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

// Package growth provides closed-form phytoplankton growth rates with
// light, multi-nutrient and temperature limitation, and logistic growth
// of particle counts.
package growth

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Nutrient identifies a limiting nutrient.
type Nutrient int

// Nutrients considered by the growth model.
const (
	Nitrate Nutrient = iota
	Phosphate
	Iron
	Silicate
)

// AllNutrients lists the nutrients in the order they are evaluated.
var AllNutrients = []Nutrient{Nitrate, Phosphate, Iron, Silicate}

var nutrientNames = []string{"N", "P", "Fe", "Si"}

func (n Nutrient) String() string {
	if n < 0 || int(n) >= len(nutrientNames) {
		return fmt.Sprintf("Nutrient(%d)", int(n))
	}
	return nutrientNames[n]
}

// ParseNutrient returns the nutrient with the given symbol
// (N, P, Fe or Si).
func ParseNutrient(s string) (Nutrient, error) {
	for i, name := range nutrientNames {
		if name == s {
			return Nutrient(i), nil
		}
	}
	return 0, fmt.Errorf("growth: '%s' is not a valid nutrient; valid options are N, P, Fe, and Si", s)
}

// Concentrations holds nutrient concentrations [mmol/m³]. Only the
// nutrients present are considered limiting.
type Concentrations map[Nutrient]float64

// HalfSaturation holds half-saturation constants [mmol/m³].
type HalfSaturation struct {
	N  float64 `yaml:"N"`
	P  float64 `yaml:"P"`
	Fe float64 `yaml:"Fe"`
	Si float64 `yaml:"Si"`
}

// For returns the half-saturation constant for nutrient n.
func (h HalfSaturation) For(n Nutrient) float64 {
	switch n {
	case Nitrate:
		return h.N
	case Phosphate:
		return h.P
	case Iron:
		return h.Fe
	case Silicate:
		return h.Si
	}
	return math.NaN()
}

// Params holds growth model parameters.
type Params struct {
	MuMax          float64        `yaml:"mu_max"`          // maximum specific growth rate [1/day]
	Alpha          float64        `yaml:"alpha"`           // initial slope of the light limitation curve
	HalfSaturation HalfSaturation `yaml:"half_saturation"` // [mmol/m³]
	Q10            float64        `yaml:"q10"`
	TRef           float64        `yaml:"t_ref"`     // reference temperature [°C]
	Mortality      float64        `yaml:"mortality"` // [1/day]
}

// DefaultParams returns the default growth parameters.
func DefaultParams() Params {
	return Params{
		MuMax: 1.2,
		Alpha: 0.03,
		HalfSaturation: HalfSaturation{
			N:  0.5,
			P:  0.03,
			Fe: 0.001,
			Si: 0.001,
		},
		Q10:       2.0,
		TRef:      20.0,
		Mortality: 0.05,
	}
}

// LoadParams reads growth parameters in YAML format from r. Parameters
// missing from r keep their default values.
func LoadParams(r io.Reader) (Params, error) {
	p := DefaultParams()
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
		return p, fmt.Errorf("growth: reading parameters: %v", err)
	}
	return p, nil
}

// LightLimitation returns the light limitation factor at irradiance
// i [µmol photons m⁻² s⁻¹], without photoinhibition.
func LightLimitation(alpha, i float64) float64 {
	return 1 - math.Exp(-alpha*i)
}

// NutrientLimitation returns the Monod limitation factor for concentration
// c with half-saturation constant k. Negative concentrations give NaN.
func NutrientLimitation(c, k float64) float64 {
	if c < 0 {
		return math.NaN()
	}
	return c / (k + c)
}

// TemperatureFactor returns the Q10 temperature dependence at
// temperature t [°C].
func TemperatureFactor(q10, t, tRef float64) float64 {
	return math.Pow(q10, (t-tRef)/10)
}

// Result holds a growth rate and the factors that produced it.
type Result struct {
	Rate         float64 // net rate of change of biomass [biomass/day]
	SpecificRate float64 // specific growth rate [1/day]

	Light, Nutrient, Temperature float64 // limitation factors

	// Limits holds the limitation factor of each supplied nutrient, and
	// Limiting is the nutrient with the smallest one.
	Limits   map[Nutrient]float64
	Limiting Nutrient
}

// Rate calculates phytoplankton growth with nutrient limitation following
// Liebig's law of the minimum: the nutrient limitation factor is the
// smallest of the factors of the supplied nutrients. biomass may be in any
// units, irradiance is in µmol photons m⁻² s⁻¹, and temperature is in °C.
func Rate(biomass, irradiance float64, c Concentrations, temperature float64, p Params) (*Result, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("growth: no nutrient concentrations supplied")
	}
	r := &Result{
		Light:       LightLimitation(p.Alpha, irradiance),
		Temperature: TemperatureFactor(p.Q10, temperature, p.TRef),
		Limits:      make(map[Nutrient]float64, len(c)),
		Nutrient:    math.Inf(1),
	}
	for n, conc := range c {
		if n < 0 || int(n) >= len(nutrientNames) {
			return nil, fmt.Errorf("growth: invalid nutrient %v", n)
		}
		r.Limits[n] = NutrientLimitation(conc, p.HalfSaturation.For(n))
	}
	for _, n := range AllNutrients {
		lim, ok := r.Limits[n]
		if !ok {
			continue
		}
		if math.IsNaN(lim) {
			r.Nutrient = math.NaN()
			r.Limiting = n
			break
		}
		if lim < r.Nutrient {
			r.Nutrient = lim
			r.Limiting = n
		}
	}
	r.SpecificRate = p.MuMax * r.Light * r.Nutrient * r.Temperature
	r.Rate = (r.SpecificRate - p.Mortality) * biomass
	return r, nil
}

// SingleNutrient calculates phytoplankton growth limited by nitrate
// alone, returning the net rate of change of biomass and the specific
// growth rate [1/day].
func SingleNutrient(biomass, irradiance, nitrate, temperature float64, p Params) (rate, mu float64) {
	mu = p.MuMax * LightLimitation(p.Alpha, irradiance) *
		NutrientLimitation(nitrate, p.HalfSaturation.N) *
		TemperatureFactor(p.Q10, temperature, p.TRef)
	return (mu - p.Mortality) * biomass, mu
}

// Default logistic growth parameters for pelagic egg counts.
const (
	DefaultLogisticRate     = 0.0005 // [1/s]
	DefaultCarryingCapacity = 5000.
)

// Logistic advances a count n by one time step dt [s] of logistic growth
// with intrinsic rate r [1/s] and carrying capacity k.
func Logistic(n, r, k, dt float64) float64 {
	return n + r*n*(1-n/k)*dt
}
