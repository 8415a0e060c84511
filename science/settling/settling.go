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

// Package settling calculates the terminal vertical velocity of buoyant
// particles, such as pelagic fish eggs, suspended in seawater.
//
// Two drag laws are used: Stokes' law for particles at low Reynolds
// number and an empirical law for particles at higher Reynolds number,
// after Sundby (1983), A one-dimensional model for the vertical
// distribution of pelagic fish eggs in the mixed layer, Deep Sea
// Research 30, 645-661. The choice between them is made anew for every
// particle on every call, and the switch between the two is not
// continuous.
package settling

import (
	"fmt"
	"math"

	"github.com/mishahublog/phytodrift"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

const (
	g = 9.81 // gravitational acceleration [m/s²]

	// Particles whose low-Reynolds velocity estimate gives a particle
	// Reynolds number above this use the high-Reynolds drag law.
	reynoldsThreshold = 0.5
)

// DensityFunc calculates seawater density [kg/m³] from temperature [°C]
// and salinity [psu]. seawater.Density satisfies it.
type DensityFunc func(temperature, salinity float64) float64

// RegimeResult holds the intermediate results of a terminal velocity
// calculation for each particle.
type RegimeResult struct {
	// DeltaRho is the ambient water density minus the particle density [kg/m³].
	DeltaRho []float64
	// WaterDensity is the ambient water density [kg/m³].
	WaterDensity []float64
	// Low and High are the velocities [m/s] under the low- and
	// high-Reynolds drag laws.
	Low, High []float64
	// HighRe is true for particles where the high-Reynolds law applies.
	HighRe []bool
}

// Engine calculates terminal velocities using a seawater equation of state.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	density DensityFunc
	log     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives diagnostic messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine returns an Engine that uses density as the equation of state.
func NewEngine(density DensityFunc, opts ...Option) *Engine {
	e := &Engine{
		density: density,
		log:     phytodrift.DiscardLogger(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// LowReynoldsViscosity returns the dynamic viscosity of seawater
// [kg m⁻¹ s⁻¹] at temperature t [°C] and salinity s [psu] used with
// Stokes' law.
func LowReynoldsViscosity(t, s float64) float64 {
	return 0.001 * (1.7915 - 0.0538*t + 0.007*t*t - 0.0023*s)
}

// HighReynoldsViscosity returns the viscosity of seawater at temperature
// t [°C] used with the high-Reynolds drag law, in the centimetre-based
// units that law is written in.
func HighReynoldsViscosity(t float64) float64 {
	return 0.01854 * math.Exp(-0.02783*t)
}

// LowReynolds returns the Stokes terminal velocity [m/s] of a particle with
// diameter d [m] in water at temperature t [°C] and salinity s [psu], where
// dr is the water density minus the particle density [kg/m³].
func LowReynolds(d, t, s, dr float64) float64 {
	mu := LowReynoldsViscosity(t, s)
	return (1. / mu) * (1. / 18.) * g * d * d * dr
}

// IsHighReynolds reports whether a particle with diameter d [m] moving at
// low-Reynolds velocity w [m/s] in water at temperature t [°C] and
// salinity s [psu] is outside the Stokes regime.
func IsHighReynolds(w, d, t, s float64) bool {
	return w*1000*d/LowReynoldsViscosity(t, s) > reynoldsThreshold
}

// HighReynolds returns the terminal velocity [m/s] of a particle with
// diameter d [m] in water at temperature t [°C] with density rhoW [kg/m³],
// where dr is the water density minus the particle density [kg/m³].
// The drag law works in centimetres internally; the result is in m/s.
// Fractional powers of negative values keep their sign.
func HighReynolds(d, t, rhoW, dr float64) float64 {
	if dr == 0 {
		return 0
	}
	mu := HighReynoldsViscosity(t)
	d0 := 100*d - 0.4*math.Cbrt(9*mu*mu/(100*g)*rhoW/dr)
	w := 19 * d0 * signedPow23(0.001*dr) * math.Pow(mu*0.001*rhoW, -1./3.)
	return w / 100
}

// signedPow23 returns |x|^(2/3) with the sign of x.
func signedPow23(x float64) float64 {
	c := math.Cbrt(x)
	return c * math.Abs(c)
}

// validParticle reports whether the inputs for a particle are physically
// meaningful. Velocities of invalid particles are NaN.
func validParticle(d, neutralS, s float64) bool {
	return d >= 0 && neutralS >= 0 && s >= 0
}

// Regimes calculates the density contrast and both drag-law velocities for
// each particle, and flags the particles that are outside the Stokes
// regime. diameter [m], neutralSalinity [psu], t [°C] and s [psu] must all
// have the same length.
func (e *Engine) Regimes(diameter, neutralSalinity, t, s []float64) (*RegimeResult, error) {
	if !floats.EqualLengths(diameter, neutralSalinity, t, s) {
		return nil, fmt.Errorf("settling: input lengths differ: diameter=%d, neutral salinity=%d, "+
			"temperature=%d, salinity=%d", len(diameter), len(neutralSalinity), len(t), len(s))
	}
	n := len(diameter)
	r := &RegimeResult{
		DeltaRho:     make([]float64, n),
		WaterDensity: make([]float64, n),
		Low:          make([]float64, n),
		High:         make([]float64, n),
		HighRe:       make([]bool, n),
	}
	rhoP := make([]float64, n)
	phytodrift.Calculations(n, func(i int) {
		r.WaterDensity[i] = e.density(t[i], s[i])
		rhoP[i] = e.density(t[i], neutralSalinity[i])
	})
	floats.SubTo(r.DeltaRho, r.WaterDensity, rhoP)

	phytodrift.Calculations(n, func(i int) {
		if !validParticle(diameter[i], neutralSalinity[i], s[i]) {
			r.DeltaRho[i] = math.NaN()
			r.Low[i] = math.NaN()
			r.High[i] = math.NaN()
			return
		}
		r.Low[i] = LowReynolds(diameter[i], t[i], s[i], r.DeltaRho[i])
		r.HighRe[i] = IsHighReynolds(r.Low[i], diameter[i], t[i], s[i])
		r.High[i] = HighReynolds(diameter[i], t[i], r.WaterDensity[i], r.DeltaRho[i])
	})
	return r, nil
}

// Select returns a vector holding a[i] where mask[i] is true and b[i]
// elsewhere.
func Select(mask []bool, a, b []float64) []float64 {
	if len(mask) != len(a) || len(a) != len(b) {
		panic("settling: Select arguments have different lengths")
	}
	o := make([]float64, len(mask))
	for i, m := range mask {
		if m {
			o[i] = a[i]
		} else {
			o[i] = b[i]
		}
	}
	return o
}

// TerminalVelocity calculates the terminal velocity [m/s] of each particle,
// positive where the particle is lighter than the ambient water.
// diameter [m], neutralSalinity [psu], t [°C] and s [psu] must all have
// the same length.
func (e *Engine) TerminalVelocity(diameter, neutralSalinity, t, s []float64) ([]float64, error) {
	r, err := e.Regimes(diameter, neutralSalinity, t, s)
	if err != nil {
		return nil, err
	}
	e.logRegimes(r)
	return Select(r.HighRe, r.High, r.Low), nil
}

func (e *Engine) logRegimes(r *RegimeResult) {
	if e.log == nil {
		return
	}
	nHigh := 0
	for _, h := range r.HighRe {
		if h {
			nHigh++
		}
	}
	e.log.WithFields(logrus.Fields{
		"particles": len(r.HighRe),
		"highRe":    nHigh,
	}).Debug("calculated terminal velocity")
}

// Report holds the ambient conditions and intermediate results of a batch
// terminal velocity update.
type Report struct {
	*RegimeResult

	// Temperature [°C] and Salinity [psu] are the ambient values at each
	// particle depth.
	Temperature, Salinity []float64
}

// Update sets the terminal velocity of every particle in b from the ambient
// conditions in env, sampling profiles at the particle depths when env has
// them. Only the TerminalVelocity field of the batch is changed. It returns
// an error without changing b if the batch variables differ in length.
func (e *Engine) Update(env *phytodrift.Environment, b *phytodrift.ParticleBatch) (*Report, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	t, s, err := Ambient(env, b.Depth)
	if err != nil {
		return nil, err
	}
	r, err := e.Regimes(b.Diameter, b.NeutralBuoyancySalinity, t, s)
	if err != nil {
		return nil, err
	}
	e.logRegimes(r)
	copy(b.TerminalVelocity, Select(r.HighRe, r.High, r.Low))
	return &Report{RegimeResult: r, Temperature: t, Salinity: s}, nil
}

// UpdateTerminalVelocity returns a function that calls Update on a batch.
func (e *Engine) UpdateTerminalVelocity(env *phytodrift.Environment) phytodrift.BatchManipulator {
	return func(b *phytodrift.ParticleBatch) error {
		_, err := e.Update(env, b)
		return err
	}
}
