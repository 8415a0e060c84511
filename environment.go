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

package phytodrift

import "gonum.org/v1/gonum/mat"

// Fallback ambient values used when the host supplies neither
// profiles nor per-particle values.
const (
	DefaultTemperature = 10. // °C
	DefaultSalinity    = 34. // psu
)

// Environment holds the ambient conditions around a particle batch.
type Environment struct {
	// Temperature [°C] and Salinity [psu] at each particle. A single value
	// applies to every particle. Empty slices mean the defaults above.
	Temperature, Salinity []float64

	// Profiles holds depth profiles of temperature and salinity.
	// A nil Profiles means no profiles are available.
	Profiles *Profiles
}

// Profiles holds vertical profiles of ambient fields at each particle.
type Profiles struct {
	// Z holds the depth of each profile level [m]. It must be strictly
	// monotonic in either direction.
	Z []float64

	// Temperature and Salinity are [level, particle] matrices. Either may
	// be nil, in which case the scalar value in Environment is used.
	Temperature, Salinity mat.Matrix
}
