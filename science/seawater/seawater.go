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

// Package seawater provides equations of state for seawater at
// atmospheric pressure.
package seawater

import "math"

// Density calculates the density of seawater [kg/m³] at one atmosphere
// where t is temperature [°C] and s is salinity [psu], using the
// international one-atmosphere equation of state from Fofonoff and
// Millard (1983), UNESCO technical papers in marine science no. 44.
// Negative salinities give NaN.
func Density(t, s float64) float64 {
	const (
		r4    = 4.8314e-4
		dr350 = 28.106331
	)
	// Pure water density anomaly; Bigg (1967), Br. J. Appl. Phys. 18, 521-537.
	r1 := ((((6.536332e-9*t-1.120083e-6)*t+1.001685e-4)*t-9.095290e-3)*t+6.793952e-2)*t - 28.263737
	// Salinity coefficients.
	r2 := (((5.3875e-9*t-8.2467e-7)*t+7.6438e-5)*t-4.0899e-3)*t + 8.24493e-1
	r3 := (-1.6546e-6*t+1.0227e-4)*t - 5.72466e-3
	sigma := r1 + (r3*math.Sqrt(s)+r4*s+r2)*s
	return sigma + dr350 + 1000.
}

// Linear is a linearized equation of state around a reference state.
// It is mostly useful for testing.
type Linear struct {
	Rho0  float64 // Reference density [kg/m³]
	T0    float64 // Reference temperature [°C]
	S0    float64 // Reference salinity [psu]
	Alpha float64 // Thermal expansion coefficient [1/°C]
	Beta  float64 // Haline contraction coefficient [1/psu]
}

// DefaultLinear is a linear equation of state with typical
// values for mid-latitude surface water.
var DefaultLinear = Linear{
	Rho0:  1027,
	T0:    10,
	S0:    35,
	Alpha: 1.7e-4,
	Beta:  7.6e-4,
}

// Density calculates the density [kg/m³] at temperature t [°C]
// and salinity s [psu].
func (l Linear) Density(t, s float64) float64 {
	return l.Rho0 * (1 - l.Alpha*(t-l.T0) + l.Beta*(s-l.S0))
}
