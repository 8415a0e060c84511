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

package settling

import (
	"fmt"

	"github.com/mishahublog/phytodrift"
	"github.com/mishahublog/phytodrift/science/profile"
	"gonum.org/v1/gonum/mat"
)

// Ambient returns the temperature [°C] and salinity [psu] at each of the
// particle depths [m]. Fields with a profile in env are interpolated from
// it; the others come from the per-particle values in env, or from the
// defaults when env has none. Per-particle values of a field that has a
// profile are ignored.
func Ambient(env *phytodrift.Environment, depth []float64) (t, s []float64, err error) {
	if env == nil {
		env = new(phytodrift.Environment)
	}
	var tp, sp mat.Matrix
	if p := env.Profiles; p != nil {
		tp, sp = p.Temperature, p.Salinity
	}
	var w *profile.Weights
	if tp != nil || sp != nil {
		if w, err = profile.NewWeights(env.Profiles.Z, depth); err != nil {
			return nil, nil, err
		}
	}
	if t, err = ambientField("temperature", w, tp, env.Temperature, len(depth), phytodrift.DefaultTemperature); err != nil {
		return nil, nil, err
	}
	if s, err = ambientField("salinity", w, sp, env.Salinity, len(depth), phytodrift.DefaultSalinity); err != nil {
		return nil, nil, err
	}
	return t, s, nil
}

// ambientField interpolates profile p with weights w, or broadcasts v when
// there is no profile.
func ambientField(name string, w *profile.Weights, p mat.Matrix, v []float64, n int, fallback float64) ([]float64, error) {
	if p == nil {
		return broadcast(name, v, n, fallback)
	}
	o, err := w.Apply(p)
	if err != nil {
		return nil, fmt.Errorf("settling: %s %v", name, err)
	}
	return o, nil
}

// broadcast expands v to n values. v may be empty, in which case
// fallback is used, or hold a single value.
func broadcast(name string, v []float64, n int, fallback float64) ([]float64, error) {
	o := make([]float64, n)
	switch len(v) {
	case n:
		copy(o, v)
	case 0, 1:
		x := fallback
		if len(v) == 1 {
			x = v[0]
		}
		for i := range o {
			o[i] = x
		}
	default:
		return nil, fmt.Errorf("settling: %d ambient %s values for %d particles", len(v), name, n)
	}
	return o, nil
}
