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

package seawater

import (
	"math"
	"testing"
)

func TestDensity(t *testing.T) {
	tests := []struct {
		t, s, want float64
	}{
		// UNESCO (1983) check values at zero pressure.
		{t: 5, s: 0, want: 999.96675},
		{t: 5, s: 35, want: 1027.67547},
		{t: 25, s: 35, want: 1023.34306},
	}
	for _, tt := range tests {
		have := Density(tt.t, tt.s)
		if math.Abs(have-tt.want) > 1e-4 {
			t.Errorf("Density(%g, %g) = %.5f, want %.5f", tt.t, tt.s, have, tt.want)
		}
	}
}

func TestDensityNegativeSalinity(t *testing.T) {
	if d := Density(10, -1); !math.IsNaN(d) {
		t.Errorf("negative salinity should give NaN, have %g", d)
	}
}

func TestLinear(t *testing.T) {
	l := DefaultLinear
	if d := l.Density(l.T0, l.S0); d != l.Rho0 {
		t.Errorf("reference state: have %g, want %g", d, l.Rho0)
	}
	if l.Density(l.T0, l.S0+1) <= l.Rho0 {
		t.Error("density should increase with salinity")
	}
	if l.Density(l.T0+1, l.S0) >= l.Rho0 {
		t.Error("density should decrease with temperature")
	}
}
