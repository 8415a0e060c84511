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

package growth

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiebigMinimum(t *testing.T) {
	c := Concentrations{Nitrate: 1.2, Phosphate: 0.05, Iron: 0.002}
	r, err := Rate(1, 80, c, 18, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 0.706, r.Limits[Nitrate], 5e-4, "N")
	assert.InDelta(t, 0.625, r.Limits[Phosphate], 1e-12, "P")
	assert.InDelta(t, 0.667, r.Limits[Iron], 5e-4, "Fe")
	assert.Equal(t, r.Limits[Phosphate], r.Nutrient, "combined limitation")
	assert.Equal(t, Phosphate, r.Limiting)
	_, ok := r.Limits[Silicate]
	assert.False(t, ok, "silicate was not supplied")

	mu := 1.2 * (1 - math.Exp(-0.03*80)) * 0.625 * math.Pow(2, -0.2)
	assert.InDelta(t, mu, r.SpecificRate, 1e-12)
	assert.InDelta(t, mu-0.05, r.Rate, 1e-12)
}

func TestLiebigWithSilicate(t *testing.T) {
	c := Concentrations{Nitrate: 1.2, Phosphate: 0.05, Iron: 0.002, Silicate: 0.0001}
	r, err := Rate(2, 80, c, 18, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Silicate, r.Limiting)
	assert.InDelta(t, 0.0001/0.0011, r.Nutrient, 1e-12)
	for _, lim := range r.Limits {
		assert.True(t, r.Nutrient <= lim)
	}
}

func TestRateFactors(t *testing.T) {
	p := DefaultParams()
	c := Concentrations{Nitrate: 5}
	r, err := Rate(3, 0, c, p.TRef, p)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0., r.Light, "no light")
	assert.Equal(t, 1., r.Temperature, "reference temperature")
	assert.Equal(t, 0., r.SpecificRate)
	assert.InDelta(t, -p.Mortality*3, r.Rate, 1e-15, "only mortality in the dark")

	r, err = Rate(1, 1e6, c, p.TRef+10, p)
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, 1, r.Light, 1e-12)
	assert.InDelta(t, p.Q10, r.Temperature, 1e-12)
}

func TestRateErrors(t *testing.T) {
	_, err := Rate(1, 80, Concentrations{}, 18, DefaultParams())
	assert.Error(t, err)
	_, err = Rate(1, 80, Concentrations{Nutrient(9): 1}, 18, DefaultParams())
	assert.Error(t, err)
}

func TestNegativeConcentration(t *testing.T) {
	r, err := Rate(1, 80, Concentrations{Nitrate: 1, Phosphate: -0.1}, 18, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, math.IsNaN(r.Nutrient))
	assert.True(t, math.IsNaN(r.Rate))
}

func TestSingleNutrient(t *testing.T) {
	p := DefaultParams()
	rate, mu := SingleNutrient(1, 80, 1.2, 18, p)
	want := 1.2 * (1 - math.Exp(-0.03*80)) * (1.2 / 1.7) * math.Pow(2, -0.2)
	assert.InDelta(t, want, mu, 1e-12)
	assert.InDelta(t, want-p.Mortality, rate, 1e-12)

	r, err := Rate(1, 80, Concentrations{Nitrate: 1.2}, 18, p)
	if err != nil {
		t.Fatal(err)
	}
	assert.InDelta(t, mu, r.SpecificRate, 1e-15)
}

func TestLogistic(t *testing.T) {
	assert.Equal(t, DefaultCarryingCapacity,
		Logistic(DefaultCarryingCapacity, DefaultLogisticRate, DefaultCarryingCapacity, 3600))
	assert.Equal(t, 0., Logistic(0, DefaultLogisticRate, DefaultCarryingCapacity, 3600))
	n := Logistic(1000, DefaultLogisticRate, DefaultCarryingCapacity, 60)
	assert.InDelta(t, 1000+0.0005*1000*0.8*60, n, 1e-9)
	assert.True(t, Logistic(6000, DefaultLogisticRate, DefaultCarryingCapacity, 60) < 6000,
		"counts above capacity decline")
}

func TestLoadParams(t *testing.T) {
	p, err := LoadParams(strings.NewReader(`
mu_max: 3
half_saturation:
  Si: 0.002
`))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultParams()
	want.MuMax = 3
	want.HalfSaturation.Si = 0.002
	assert.Equal(t, want, p)

	p, err = LoadParams(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)

	_, err = LoadParams(strings.NewReader("mu_max: [1, 2"))
	assert.Error(t, err)
}

func TestParseNutrient(t *testing.T) {
	for _, n := range AllNutrients {
		have, err := ParseNutrient(n.String())
		assert.NoError(t, err)
		assert.Equal(t, n, have)
	}
	_, err := ParseNutrient("Zn")
	assert.Error(t, err)
	assert.Equal(t, "Nutrient(7)", Nutrient(7).String())
}
