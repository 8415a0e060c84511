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

package phytodriftutil

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/lnashier/viper"
	"github.com/mishahublog/phytodrift"
	"github.com/mishahublog/phytodrift/science/growth"
	"github.com/mishahublog/phytodrift/science/irradiance"
	"github.com/mishahublog/phytodrift/science/seawater"
	"github.com/mishahublog/phytodrift/science/settling"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gonum.org/v1/gonum/mat"
)

// float64s converts a configuration value to a slice of numbers. The value
// may be a list (from a configuration file or a slice flag) or a string of
// space- or comma-separated numbers (from an environment variable).
// A missing value gives a nil slice.
func float64s(name string, v interface{}) ([]float64, error) {
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]")
		v = strings.Fields(strings.Replace(s, ",", " ", -1))
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("phytodrift: %s: %v", name, err)
		}
		return []float64{f}, nil
	}
	o := make([]float64, rv.Len())
	for i := range o {
		f, err := cast.ToFloat64E(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("phytodrift: %s: item %d: %v", name, i, err)
		}
		o[i] = f
	}
	return o, nil
}

// matrix converts a configuration value holding a list of rows to a
// matrix. A missing value gives nil.
func matrix(name string, v interface{}) (mat.Matrix, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("phytodrift: %s must be a list of rows", name)
	}
	if rv.Len() == 0 {
		return nil, nil
	}
	var data []float64
	var cols int
	for i := 0; i < rv.Len(); i++ {
		row, err := float64s(fmt.Sprintf("%s row %d", name, i), rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		if i == 0 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, fmt.Errorf("phytodrift: %s row %d has %d values but row 0 has %d",
				name, i, len(row), cols)
		}
		data = append(data, row...)
	}
	if cols == 0 {
		return nil, fmt.Errorf("phytodrift: %s has empty rows", name)
	}
	return mat.NewDense(rv.Len(), cols, data), nil
}

// batchFields maps particle variable names to configuration keys.
var batchFields = []struct{ variable, key string }{
	{"diameter", "Diameter"},
	{"neutral_buoyancy_salinity", "NeutralBuoyancySalinity"},
	{"depth", "Depth"},
}

// loadBatch creates a particle batch from the configuration. The number of
// particles is the length of the longest particle array, or the Particles
// setting if no arrays are given. Arrays of length one apply to every
// particle and missing arrays take their default values.
func loadBatch(cfg *viper.Viper) (*phytodrift.ParticleBatch, error) {
	values := make([][]float64, len(batchFields))
	n := 0
	for i, f := range batchFields {
		v, err := float64s(f.key, cfg.Get(f.key))
		if err != nil {
			return nil, err
		}
		values[i] = v
		if len(v) > n {
			n = len(v)
		}
	}
	if n == 0 {
		n = cfg.GetInt("Particles")
		if n <= 0 {
			return nil, fmt.Errorf("phytodrift: the number of particles must be positive but is %d", n)
		}
	}
	b := phytodrift.NewParticleBatch(n)
	for i, f := range batchFields {
		dst, err := b.Field(f.variable)
		if err != nil {
			return nil, err
		}
		switch len(values[i]) {
		case 0:
		case 1:
			for j := range dst {
				dst[j] = values[i][0]
			}
		case n:
			copy(dst, values[i])
		default:
			return nil, fmt.Errorf("phytodrift: %s has %d values but there are %d particles",
				f.key, len(values[i]), n)
		}
	}
	return b, nil
}

// loadEnvironment reads ambient values and optional profiles from the
// configuration.
func loadEnvironment(cfg *viper.Viper) (*phytodrift.Environment, error) {
	env := new(phytodrift.Environment)
	var err error
	if env.Temperature, err = float64s("Temperature", cfg.Get("Temperature")); err != nil {
		return nil, err
	}
	if env.Salinity, err = float64s("Salinity", cfg.Get("Salinity")); err != nil {
		return nil, err
	}
	z, err := float64s("Profiles.Z", cfg.Get("Profiles.Z"))
	if err != nil {
		return nil, err
	}
	t, err := matrix("Profiles.Temperature", cfg.Get("Profiles.Temperature"))
	if err != nil {
		return nil, err
	}
	s, err := matrix("Profiles.Salinity", cfg.Get("Profiles.Salinity"))
	if err != nil {
		return nil, err
	}
	if t == nil && s == nil {
		return env, nil
	}
	if len(z) == 0 {
		return nil, fmt.Errorf("phytodrift: profiles are given without Profiles.Z")
	}
	env.Profiles = &phytodrift.Profiles{Z: z, Temperature: t, Salinity: s}
	return env, nil
}

// densityFunc returns the seawater equation of state with the given name.
func densityFunc(name string) (settling.DensityFunc, error) {
	switch strings.ToLower(name) {
	case "unesco":
		return seawater.Density, nil
	case "linear":
		return seawater.DefaultLinear.Density, nil
	default:
		return nil, fmt.Errorf("phytodrift: invalid density model '%s'; valid options are 'unesco' and 'linear'", name)
	}
}

// parseNutrients parses nutrient concentrations in the form
// "symbol=concentration", e.g. "N=1.2".
func parseNutrients(s []string) (growth.Concentrations, error) {
	c := make(growth.Concentrations, len(s))
	for _, item := range s {
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("phytodrift: invalid nutrient concentration '%s'; the format is 'N=1.2'", item)
		}
		n, err := growth.ParseNutrient(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, err
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("phytodrift: nutrient %v: %v", n, err)
		}
		c[n] = v
	}
	return c, nil
}

// growthParams returns the default growth parameters, or the parameters in
// the YAML file at path if it is not empty.
func growthParams(path string) (growth.Params, error) {
	if path == "" {
		return growth.DefaultParams(), nil
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return growth.Params{}, fmt.Errorf("phytodrift: opening growth parameters: %v", err)
	}
	defer f.Close()
	return growth.LoadParams(f)
}

// irradianceParams returns the irradiance parameters in the file at
// Irradiance.ParamsFile if it is set, or the individual Irradiance
// settings otherwise.
func irradianceParams(cfg *viper.Viper) (irradiance.Params, error) {
	if path := cfg.GetString("Irradiance.ParamsFile"); path != "" {
		f, err := os.Open(os.ExpandEnv(path))
		if err != nil {
			return irradiance.Params{}, fmt.Errorf("phytodrift: opening irradiance parameters: %v", err)
		}
		defer f.Close()
		return irradiance.LoadParams(f)
	}
	return irradiance.Params{
		Tau:       cfg.GetFloat64("Irradiance.Tau"),
		Nu:        cfg.GetFloat64("Irradiance.Nu"),
		KWater:    cfg.GetFloat64("Irradiance.KWater"),
		DayLength: cfg.GetFloat64("Irradiance.DayLength"),
		FMax:      cfg.GetFloat64("Irradiance.FMax"),
	}, nil
}

// newLogger returns a logger writing to w, at debug level if verbose
// is true.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	if verbose {
		log.Level = logrus.DebugLevel
	}
	return log
}
