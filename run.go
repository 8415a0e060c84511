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

import (
	"io/ioutil"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// ParticleManipulator performs a calculation on the particle at index i.
// It must only read or write index i of any shared slice.
type ParticleManipulator func(i int)

// BatchManipulator performs an operation on a whole particle batch.
type BatchManipulator func(b *ParticleBatch) error

// Calculations concurrently runs a series of calculations on the
// particle indices [0, n).
func Calculations(n int, calculators ...ParticleManipulator) {
	nprocs := runtime.GOMAXPROCS(0) // number of processors
	if nprocs > n {
		nprocs = n
	}
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for ii := pp; ii < n; ii += nprocs {
				for _, f := range calculators {
					f(ii)
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
}

// Drift runs a sequence of update functions on a particle batch.
// It keeps no state between calls to Update.
type Drift struct {
	// UpdateFuncs are run in order on every call to Update.
	UpdateFuncs []BatchManipulator

	// Log receives progress messages. If nil, nothing is logged.
	Log logrus.FieldLogger
}

// Update checks the batch and runs the update functions on it,
// stopping at the first error.
func (d *Drift) Update(b *ParticleBatch) error {
	if err := b.Validate(); err != nil {
		return err
	}
	log := d.Log
	if log == nil {
		log = DiscardLogger()
	}
	log.WithField("particles", b.Len()).Debug("updating particles")
	for _, f := range d.UpdateFuncs {
		if err := f(b); err != nil {
			return err
		}
	}
	return nil
}

// DiscardLogger returns a logger that writes nothing.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}
