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

package profile

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// testProfile has three levels from the surface downwards and two
// particles with different profiles.
func testProfile() ([]float64, *mat.Dense) {
	z := []float64{0, -10, -50}
	v := mat.NewDense(3, 2, []float64{
		12, 8,
		10, 6,
		4, 2,
	})
	return z, v
}

func TestSampleAtLevel(t *testing.T) {
	z, v := testProfile()
	r, err := Sample(z, v, []float64{-10, 0})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 8}
	if !floats.Equal(r.Values, want) {
		t.Errorf("values: have %v, want %v", r.Values, want)
	}
	if r.Upper[0] != 1 || r.Upper[1] != 0 {
		t.Errorf("upper indices: have %v, want [1 0]", r.Upper)
	}
	for i, w := range r.UpperWeight {
		if w != 1 {
			t.Errorf("particle %d: upper weight %g, want 1", i, w)
		}
	}
}

func TestSampleBetweenLevels(t *testing.T) {
	z, v := testProfile()
	r, err := Sample(z, v, []float64{-5, -30})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{11, 4}
	if !floats.EqualApprox(r.Values, want, 1e-12) {
		t.Errorf("values: have %v, want %v", r.Values, want)
	}
	if r.Upper[1] != 1 || r.Lower[1] != 2 {
		t.Errorf("particle 1 levels: have %d/%d, want 1/2", r.Upper[1], r.Lower[1])
	}
	if different(r.UpperWeight[1], 0.5, 1e-12) {
		t.Errorf("particle 1 upper weight: have %g, want 0.5", r.UpperWeight[1])
	}
}

func TestSampleClamped(t *testing.T) {
	z, v := testProfile()
	r, err := Sample(z, v, []float64{-500, 20})
	if err != nil {
		t.Fatal(err)
	}
	if r.Values[0] != 4 {
		t.Errorf("below deepest level: have %g, want 4", r.Values[0])
	}
	if r.Values[1] != 8 {
		t.Errorf("above shallowest level: have %g, want 8", r.Values[1])
	}
	if r.Upper[0] != 2 || r.Lower[0] != 2 {
		t.Errorf("below deepest level: levels %d/%d, want 2/2", r.Upper[0], r.Lower[0])
	}
}

func TestSampleIncreasingDepths(t *testing.T) {
	// Same profile ordered from the bottom up.
	z := []float64{-50, -10, 0}
	v := mat.NewDense(3, 1, []float64{4, 10, 12})
	r, err := Sample(z, v, []float64{-5})
	if err != nil {
		t.Fatal(err)
	}
	if different(r.Values[0], 11, 1e-12) {
		t.Errorf("have %g, want 11", r.Values[0])
	}
	if r.Upper[0] != 1 || r.Lower[0] != 2 {
		t.Errorf("levels: have %d/%d, want 1/2", r.Upper[0], r.Lower[0])
	}
}

func TestSampleSingleLevel(t *testing.T) {
	v := mat.NewDense(1, 2, []float64{7, 9})
	r, err := Sample([]float64{-3}, v, []float64{-100, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(r.Values, []float64{7, 9}) {
		t.Errorf("have %v, want [7 9]", r.Values)
	}
}

func TestSampleNaNDepth(t *testing.T) {
	z, v := testProfile()
	r, err := Sample(z, v, []float64{math.NaN(), -10})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(r.Values[0]) {
		t.Errorf("NaN depth should give NaN value, have %g", r.Values[0])
	}
	if r.Values[1] != 6 {
		t.Errorf("other particles should be unaffected: have %g, want 6", r.Values[1])
	}
}

func TestSampleErrors(t *testing.T) {
	z, v := testProfile()
	tests := []struct {
		name      string
		z         []float64
		values    mat.Matrix
		particles []float64
		msg       string
	}{
		{name: "levels", z: z[:2], values: v, particles: []float64{0, 0}, msg: "levels"},
		{name: "particles", z: z, values: v, particles: []float64{0}, msg: "particles"},
		{name: "monotonic", z: []float64{0, -10, -5}, values: v, particles: []float64{0, 0}, msg: "monotonic"},
		{name: "empty", z: nil, values: v, particles: []float64{0, 0}, msg: "no profile levels"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sample(tt.z, tt.values, tt.particles)
			if err == nil {
				t.Fatal("should be an error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q should mention %q", err, tt.msg)
			}
		})
	}
}

func TestWeightsShared(t *testing.T) {
	z, v := testProfile()
	w, err := NewWeights(z, []float64{-30, -10})
	if err != nil {
		t.Fatal(err)
	}
	s := mat.NewDense(3, 2, []float64{
		30, 31,
		32, 33,
		34, 35,
	})
	tv, err := w.Apply(v)
	if err != nil {
		t.Fatal(err)
	}
	sv, err := w.Apply(s)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(tv, []float64{7, 6}, 1e-12) {
		t.Errorf("temperature: have %v", tv)
	}
	if !floats.EqualApprox(sv, []float64{33, 33}, 1e-12) {
		t.Errorf("salinity: have %v", sv)
	}
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
