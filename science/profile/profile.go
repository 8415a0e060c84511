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

// Package profile samples vertical profiles of ambient fields at
// particle depths by linear interpolation between profile levels.
package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// Weights holds, for each particle, the indices of the two profile levels
// that bracket it and the interpolation weight of the upper one.
type Weights struct {
	Upper, Lower []int
	UpperWeight  []float64

	nLevels int
}

// Result is the outcome of sampling one profile field.
type Result struct {
	// Values holds the sampled value at each particle.
	Values []float64
	*Weights
}

// NewWeights calculates interpolation weights for particles at depths
// particleZ within a profile whose levels are at depths z. z must be
// strictly increasing or strictly decreasing. Particles outside the range
// of z are assigned to the nearest end level.
func NewWeights(z, particleZ []float64) (*Weights, error) {
	index, err := levelIndex(z)
	if err != nil {
		return nil, err
	}
	n := len(z)
	w := &Weights{
		Upper:       make([]int, len(particleZ)),
		Lower:       make([]int, len(particleZ)),
		UpperWeight: make([]float64, len(particleZ)),
		nLevels:     n,
	}
	for i, pz := range particleZ {
		if math.IsNaN(pz) {
			w.Lower[i] = min(1, n-1)
			w.UpperWeight[i] = math.NaN()
			continue
		}
		zi := index(pz)
		upper := max(int(math.Floor(zi)), 0)
		w.Upper[i] = upper
		w.Lower[i] = min(upper+1, n-1)
		w.UpperWeight[i] = clamp(1-(zi-float64(upper)), 0, 1)
	}
	return w, nil
}

// levelIndex returns a function mapping a depth to a fractional level
// index, clamped to the profile range.
func levelIndex(z []float64) (func(float64) float64, error) {
	n := len(z)
	if n == 0 {
		return nil, fmt.Errorf("profile: no profile levels")
	}
	if n == 1 {
		return func(float64) float64 { return 0 }, nil
	}
	xs := make([]float64, n)
	levels := make([]float64, n)
	increasing := z[1] > z[0]
	for i := range z {
		j := i
		if !increasing {
			j = n - 1 - i
		}
		xs[i] = z[j]
		levels[i] = float64(j)
	}
	for i := 1; i < n; i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("profile: level depths must be strictly monotonic, but %v is not", z)
		}
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, levels); err != nil {
		return nil, fmt.Errorf("profile: %v", err)
	}
	return pl.Predict, nil
}

// Apply interpolates values, a [level, particle] matrix, to the particle
// depths the weights were calculated for.
func (w *Weights) Apply(values mat.Matrix) ([]float64, error) {
	r, c := values.Dims()
	if r != w.nLevels {
		return nil, fmt.Errorf("profile: profile has %d levels but there are %d level depths", r, w.nLevels)
	}
	if c != len(w.Upper) {
		return nil, fmt.Errorf("profile: profile has %d columns but there are %d particles", c, len(w.Upper))
	}
	out := make([]float64, c)
	for i := range out {
		wu := w.UpperWeight[i]
		out[i] = values.At(w.Upper[i], i)*wu + values.At(w.Lower[i], i)*(1-wu)
	}
	return out, nil
}

// Sample interpolates values, a [level, particle] matrix with levels at
// depths z, to the particle depths particleZ.
func Sample(z []float64, values mat.Matrix, particleZ []float64) (*Result, error) {
	w, err := NewWeights(z, particleZ)
	if err != nil {
		return nil, err
	}
	v, err := w.Apply(values)
	if err != nil {
		return nil, err
	}
	return &Result{Values: v, Weights: w}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
