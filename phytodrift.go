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

// Package phytodrift holds the particle data model for a vertical-transport
// model of buoyant particles (idealized fish eggs) in a stratified water column,
// along with the machinery for running calculations on particle ensembles.
// The physics lives in the science sub-packages.
package phytodrift

import (
	"fmt"

	"github.com/ctessum/unit"
)

// Version gives the version number.
const Version = "0.1.0"

// ParticleBatch holds the state of an ensemble of particles as a structure
// of arrays. All fields share the same length and index order.
type ParticleBatch struct {
	Diameter                []float64 `desc:"Particle diameter" units:"m"`
	NeutralBuoyancySalinity []float64 `desc:"Salinity at which the particle is neutrally buoyant" units:"psu"`
	Depth                   []float64 `desc:"Vertical position, negative below the surface" units:"m"`
	Density                 []float64 `desc:"Particle density" units:"kg/m^3"`
	TerminalVelocity        []float64 `desc:"Terminal settling velocity, positive when lighter than the ambient water" units:"m/s"`
}

// NewParticleBatch returns a batch of n particles with every variable
// set to its default value from the variable table.
func NewParticleBatch(n int) *ParticleBatch {
	b := new(ParticleBatch)
	for _, v := range Variables {
		f := make([]float64, n)
		for i := range f {
			f[i] = v.Default
		}
		*b.field(v.Name) = f
	}
	return b
}

// field returns a pointer to the slice holding the named variable,
// or nil if the name is not a variable.
func (b *ParticleBatch) field(name string) *[]float64 {
	switch name {
	case "diameter":
		return &b.Diameter
	case "neutral_buoyancy_salinity":
		return &b.NeutralBuoyancySalinity
	case "depth":
		return &b.Depth
	case "density":
		return &b.Density
	case "terminal_velocity":
		return &b.TerminalVelocity
	}
	return nil
}

// Field returns the values of the named variable.
func (b *ParticleBatch) Field(name string) ([]float64, error) {
	f := b.field(name)
	if f == nil {
		return nil, fmt.Errorf("phytodrift: '%s' is not a particle variable", name)
	}
	return *f, nil
}

// Len returns the number of particles in the batch.
func (b *ParticleBatch) Len() int {
	return len(b.Diameter)
}

// Validate checks that every variable holds one value per particle.
func (b *ParticleBatch) Validate() error {
	n := b.Len()
	for _, v := range Variables {
		if l := len(*b.field(v.Name)); l != n {
			return fmt.Errorf("phytodrift: variable %s has %d values but the batch has %d particles",
				v.Name, l, n)
		}
	}
	return nil
}

// Quantity returns the value of the named variable for particle i
// along with its physical dimensions.
func (b *ParticleBatch) Quantity(name string, i int) (*unit.Unit, error) {
	v, ok := Variables.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("phytodrift: '%s' is not a particle variable", name)
	}
	f := *b.field(name)
	if i < 0 || i >= len(f) {
		return nil, fmt.Errorf("phytodrift: particle index %d out of range [0, %d)", i, len(f))
	}
	return unit.New(f[i], v.dims), nil
}
