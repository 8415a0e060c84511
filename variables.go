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
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
)

//go:embed variables.toml
var variablesTOML string

// Variable describes a per-particle variable: its name, units,
// default value and a short description.
type Variable struct {
	Name        string  `toml:"Name"`
	Units       string  `toml:"Units"`
	Default     float64 `toml:"Default"`
	Description string  `toml:"Description"`

	dims unit.Dimensions
}

// VariableTable is an ordered list of particle variables.
type VariableTable []Variable

// Lookup returns the variable with the given name.
func (t VariableTable) Lookup(name string) (Variable, bool) {
	for _, v := range t {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Names returns the variable names in table order.
func (t VariableTable) Names() []string {
	n := make([]string, len(t))
	for i, v := range t {
		n[i] = v.Name
	}
	return n
}

// Variables are the variables carried by every ParticleBatch.
var Variables VariableTable

// unitDimensions maps the unit strings allowed in the variable
// table to their physical dimensions.
var unitDimensions = map[string]unit.Dimensions{
	"m":      unit.Meter,
	"m/s":    unit.MeterPerSecond,
	"kg/m^3": unit.KilogramPerMeter3,
	"psu":    unit.Dimless,
	"1":      unit.Dimless,
}

// parseVariables decodes a TOML variable table and resolves the
// dimensions of each variable's units.
func parseVariables(s string) (VariableTable, error) {
	var doc struct {
		Variable []Variable
	}
	if _, err := toml.Decode(s, &doc); err != nil {
		return nil, fmt.Errorf("phytodrift: decoding variable table: %v", err)
	}
	seen := make(map[string]bool)
	for i, v := range doc.Variable {
		if seen[v.Name] {
			return nil, fmt.Errorf("phytodrift: duplicate variable %s", v.Name)
		}
		seen[v.Name] = true
		d, ok := unitDimensions[v.Units]
		if !ok {
			return nil, fmt.Errorf("phytodrift: variable %s has unsupported units '%s'", v.Name, v.Units)
		}
		doc.Variable[i].dims = d
	}
	return VariableTable(doc.Variable), nil
}

func init() {
	var err error
	Variables, err = parseVariables(variablesTOML)
	if err != nil {
		panic(err)
	}
	var b ParticleBatch
	for _, v := range Variables {
		if b.field(v.Name) == nil {
			panic(fmt.Errorf("phytodrift: variable %s has no ParticleBatch field", v.Name))
		}
	}
}
