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

// Package phytodriftutil contains the phytodrift command-line interface.
package phytodriftutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/lnashier/viper"
	"github.com/mishahublog/phytodrift"
	"github.com/mishahublog/phytodrift/science/growth"
	"github.com/mishahublog/phytodrift/science/irradiance"
	"github.com/mishahublog/phytodrift/science/settling"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	ip := irradiance.DefaultParams()

	// Options are the configuration options available to phytodrift.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether to log debugging messages.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "DensityModel",
			usage: `
              DensityModel specifies the seawater equation of state. Options are
              'unesco' (Fofonoff and Millard, 1983) and 'linear'.`,
			defaultVal: "unesco",
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Particles",
			usage: `
              Particles specifies the number of particles when no particle
              arrays are given.`,
			shorthand:  "n",
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Diameter",
			usage: `
              Diameter specifies the particle diameters [m]. A single value
              applies to every particle.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "NeutralBuoyancySalinity",
			usage: `
              NeutralBuoyancySalinity specifies the salinity [psu] at which each
              particle is neutrally buoyant.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Depth",
			usage: `
              Depth specifies the particle depths [m, negative below the surface].`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Temperature",
			usage: `
              Temperature specifies the ambient water temperature [°C], either one
              value or one per particle. It is used when there is no temperature
              profile (Profiles.Temperature) in the configuration file.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Salinity",
			usage: `
              Salinity specifies the ambient salinity [psu], either one value or one
              per particle. It is used when there is no salinity profile
              (Profiles.Salinity) in the configuration file.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{velocityCmd.Flags()},
		},
		{
			name: "Growth.Biomass",
			usage: `
              Growth.Biomass specifies the phytoplankton biomass.`,
			defaultVal: 1.,
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Growth.Irradiance",
			usage: `
              Growth.Irradiance specifies the irradiance [µmol photons m⁻² s⁻¹].`,
			defaultVal: 80.,
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Growth.Temperature",
			usage: `
              Growth.Temperature specifies the water temperature [°C].`,
			defaultVal: 18.,
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Growth.Nutrients",
			usage: `
              Growth.Nutrients specifies nutrient concentrations [mmol/m³] in the
              format 'symbol=value'. Valid symbols are N, P, Fe, and Si.`,
			defaultVal: []string{"N=1.2", "P=0.05", "Fe=0.002"},
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Growth.ParamsFile",
			usage: `
              Growth.ParamsFile specifies the location of a YAML file with growth
              model parameters. Parameters that are not in the file keep their
              default values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Growth.NitrateOnly",
			usage: `
              Growth.NitrateOnly specifies whether growth is limited by nitrate
              alone rather than by the scarcest nutrient.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{growthCmd.Flags()},
		},
		{
			name: "Irradiance.Time",
			usage: `
              Irradiance.Time specifies the time in RFC 3339 format, e.g.
              2024-06-21T12:00:00Z. If it is empty, Irradiance.Hour is used instead.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.Hour",
			usage: `
              Irradiance.Hour specifies the hour of the day.`,
			defaultVal: 12.,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.Longitude",
			usage: `
              Irradiance.Longitude specifies longitudes [degrees]. Only their
              mean is used.`,
			defaultVal: []string{"0"},
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.Depth",
			usage: `
              Irradiance.Depth specifies the depths [m, negative below the
              surface] to calculate irradiance at.`,
			defaultVal: []string{"0", "-5", "-10", "-20"},
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.Tau",
			usage: `
              Irradiance.Tau specifies the width of the solar-angle weighting.`,
			defaultVal: ip.Tau,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.Nu",
			usage: `
              Irradiance.Nu specifies the biological and optical scaling factor.`,
			defaultVal: ip.Nu,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.KWater",
			usage: `
              Irradiance.KWater specifies the light attenuation coefficient [1/m].`,
			defaultVal: ip.KWater,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.DayLength",
			usage: `
              Irradiance.DayLength specifies the length of the light cycle [hours].`,
			defaultVal: ip.DayLength,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.FMax",
			usage: `
              Irradiance.FMax specifies the surface flux at solar noon [W/m²].`,
			defaultVal: ip.FMax,
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Irradiance.ParamsFile",
			usage: `
              Irradiance.ParamsFile specifies the location of a YAML file with
              irradiance model parameters. If it is given, the parameters in the
              file are used instead of Irradiance.Tau, Irradiance.Nu,
              Irradiance.KWater, Irradiance.DayLength, and Irradiance.FMax.
              Parameters that are not in the file keep their default values.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{irradianceCmd.Flags()},
		},
		{
			name: "Logistic.Count",
			usage: `
              Logistic.Count specifies the initial egg count.`,
			defaultVal: 1000.,
			flagsets:   []*pflag.FlagSet{logisticCmd.Flags()},
		},
		{
			name: "Logistic.Rate",
			usage: `
              Logistic.Rate specifies the intrinsic growth rate [1/s].`,
			defaultVal: growth.DefaultLogisticRate,
			flagsets:   []*pflag.FlagSet{logisticCmd.Flags()},
		},
		{
			name: "Logistic.CarryingCapacity",
			usage: `
              Logistic.CarryingCapacity specifies the carrying capacity.`,
			defaultVal: growth.DefaultCarryingCapacity,
			flagsets:   []*pflag.FlagSet{logisticCmd.Flags()},
		},
		{
			name: "Logistic.TimeStep",
			usage: `
              Logistic.TimeStep specifies the length of each time step [s].`,
			defaultVal: 60.,
			flagsets:   []*pflag.FlagSet{logisticCmd.Flags()},
		},
		{
			name: "Logistic.Steps",
			usage: `
              Logistic.Steps specifies the number of time steps.`,
			defaultVal: 60,
			flagsets:   []*pflag.FlagSet{logisticCmd.Flags()},
		},
	}

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
	}
	Cfg = InitializeConfig()
}

// InitializeConfig returns a new configuration bound to the command-line
// flags and to environment variables.
func InitializeConfig() *viper.Viper {
	cfg := viper.New()

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("PHYTODRIFT")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	for _, option := range options {
		cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
	return cfg
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(velocityCmd)
	Root.AddCommand(growthCmd)
	Root.AddCommand(irradianceCmd)
	Root.AddCommand(logisticCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("phytodrift: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// logger returns the logger for a command run.
func logger() *logrus.Logger {
	return newLogger(os.Stderr, Cfg.GetBool("verbose"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "phytodrift",
	Short: "Vertical drift and growth of pelagic eggs and phytoplankton.",
	Long: `phytodrift calculates the terminal velocity of buoyant particles such as
fish eggs in a stratified water column, together with idealized light and
phytoplankton growth rates. Use the subcommands specified below to access
the model functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PHYTODRIFT_var' where 'var'
is the name of the variable to be set, with '.' replaced by '_'.
Depth profiles of temperature and salinity can only be given in a configuration
file, as Profiles.Z (the depth of each level [m]) and Profiles.Temperature and
Profiles.Salinity (one row per level with one value per particle).
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of phytodrift.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("phytodrift v%s\n", phytodrift.Version)
	},
	DisableAutoGenTag: true,
}

// velocityRecord is one row of the velocity report.
type velocityRecord struct {
	Particle         int     `csv:"particle"`
	Diameter         float64 `csv:"diameter"`
	Depth            float64 `csv:"depth"`
	Temperature      float64 `csv:"temperature"`
	Salinity         float64 `csv:"salinity"`
	DeltaRho         float64 `csv:"delta_rho"`
	HighReynolds     bool    `csv:"high_re"`
	TerminalVelocity float64 `csv:"terminal_velocity"`
}

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Calculate particle terminal velocities.",
	Long: `velocity calculates the terminal velocity of each particle [m/s, positive
upwards for particles lighter than the surrounding water] and writes a
CSV report to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		density, err := densityFunc(Cfg.GetString("DensityModel"))
		if err != nil {
			return err
		}
		b, err := loadBatch(Cfg)
		if err != nil {
			return err
		}
		env, err := loadEnvironment(Cfg)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"particles": b.Len(),
			"profiles":  env.Profiles != nil,
		}).Info("calculating terminal velocities")

		e := settling.NewEngine(density, settling.WithLogger(log))
		var r *settling.Report
		d := &phytodrift.Drift{
			UpdateFuncs: []phytodrift.BatchManipulator{
				func(b *phytodrift.ParticleBatch) (err error) {
					r, err = e.Update(env, b)
					return err
				},
			},
			Log: log,
		}
		if err := d.Update(b); err != nil {
			return err
		}

		records := make([]*velocityRecord, b.Len())
		for i := range records {
			records[i] = &velocityRecord{
				Particle:         i,
				Diameter:         b.Diameter[i],
				Depth:            b.Depth[i],
				Temperature:      r.Temperature[i],
				Salinity:         r.Salinity[i],
				DeltaRho:         r.DeltaRho[i],
				HighReynolds:     r.HighRe[i],
				TerminalVelocity: b.TerminalVelocity[i],
			}
		}
		return gocsv.Marshal(records, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// growthRecord is the growth report.
type growthRecord struct {
	Rate         float64 `csv:"rate"`
	SpecificRate float64 `csv:"specific_rate"`
	Light        float64 `csv:"light_limitation"`
	Nutrient     float64 `csv:"nutrient_limitation"`
	Temperature  float64 `csv:"temperature_factor"`
	Limiting     string  `csv:"limiting_nutrient"`
}

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Calculate the phytoplankton growth rate.",
	Long: `growth calculates the phytoplankton growth rate [biomass/day] and the
factors limiting it, and writes a CSV report to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		p, err := growthParams(Cfg.GetString("Growth.ParamsFile"))
		if err != nil {
			return err
		}
		biomass := Cfg.GetFloat64("Growth.Biomass")
		light := Cfg.GetFloat64("Growth.Irradiance")
		temperature := Cfg.GetFloat64("Growth.Temperature")

		c, err := nutrients()
		if err != nil {
			return err
		}

		var rec growthRecord
		if Cfg.GetBool("Growth.NitrateOnly") {
			n, ok := c[growth.Nitrate]
			if !ok {
				return fmt.Errorf("phytodrift: Growth.NitrateOnly requires a nitrate (N) concentration")
			}
			rec.Rate, rec.SpecificRate = growth.SingleNutrient(biomass, light, n, temperature, p)
			rec.Light = growth.LightLimitation(p.Alpha, light)
			rec.Nutrient = growth.NutrientLimitation(n, p.HalfSaturation.N)
			rec.Temperature = growth.TemperatureFactor(p.Q10, temperature, p.TRef)
			rec.Limiting = growth.Nitrate.String()
		} else {
			r, err := growth.Rate(biomass, light, c, temperature, p)
			if err != nil {
				return err
			}
			rec = growthRecord{
				Rate:         r.Rate,
				SpecificRate: r.SpecificRate,
				Light:        r.Light,
				Nutrient:     r.Nutrient,
				Temperature:  r.Temperature,
				Limiting:     r.Limiting.String(),
			}
		}
		log.WithField("limiting", rec.Limiting).Debug("calculated growth rate")
		return gocsv.Marshal([]*growthRecord{&rec}, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// nutrients returns the configured nutrient concentrations.
func nutrients() (growth.Concentrations, error) {
	v := Cfg.Get("Growth.Nutrients")
	if s, ok := v.(string); ok {
		v = strings.FieldsFunc(strings.Trim(s, "[]"), func(r rune) bool { return r == ',' || r == ' ' })
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("phytodrift: Growth.Nutrients: %v", err)
	}
	return parseNutrients(s)
}

// irradianceRecord is one row of the irradiance report.
type irradianceRecord struct {
	Depth      float64 `csv:"depth"`
	Irradiance float64 `csv:"irradiance"`
}

var irradianceCmd = &cobra.Command{
	Use:   "irradiance",
	Short: "Calculate idealized irradiance at depth.",
	Long: `irradiance calculates the irradiance [µmol photons m⁻² s⁻¹] at each of the
given depths and writes a CSV report to standard output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		hour := Cfg.GetFloat64("Irradiance.Hour")
		if ts := Cfg.GetString("Irradiance.Time"); ts != "" {
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				return fmt.Errorf("phytodrift: Irradiance.Time: %v", err)
			}
			hour = irradiance.HourOfDay(t)
		}
		lon, err := float64s("Irradiance.Longitude", Cfg.Get("Irradiance.Longitude"))
		if err != nil {
			return err
		}
		z, err := float64s("Irradiance.Depth", Cfg.Get("Irradiance.Depth"))
		if err != nil {
			return err
		}
		p, err := irradianceParams(Cfg)
		if err != nil {
			return err
		}
		light, err := irradiance.AtDepth(hour, lon, z, p)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"hour":    hour,
			"surface": irradiance.Surface(hour, p.DayLength, p.FMax),
		}).Debug("calculated irradiance")
		records := make([]*irradianceRecord, len(z))
		for i := range records {
			records[i] = &irradianceRecord{Depth: z[i], Irradiance: light[i]}
		}
		return gocsv.Marshal(records, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

// logisticRecord is one row of the logistic growth report.
type logisticRecord struct {
	Step  int     `csv:"step"`
	Time  float64 `csv:"time"`
	Count float64 `csv:"count"`
}

var logisticCmd = &cobra.Command{
	Use:   "logistic",
	Short: "Calculate logistic growth of an egg count.",
	Long: `logistic advances an egg count through a number of time steps of
logistic growth and writes the count after each step as a CSV report to
standard output. The first row holds the initial count.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger()
		n := Cfg.GetFloat64("Logistic.Count")
		r := Cfg.GetFloat64("Logistic.Rate")
		k := Cfg.GetFloat64("Logistic.CarryingCapacity")
		dt := Cfg.GetFloat64("Logistic.TimeStep")
		steps := Cfg.GetInt("Logistic.Steps")
		if steps < 0 {
			return fmt.Errorf("phytodrift: Logistic.Steps must not be negative but is %d", steps)
		}
		if k == 0 {
			return fmt.Errorf("phytodrift: Logistic.CarryingCapacity must not be zero")
		}
		records := make([]*logisticRecord, steps+1)
		records[0] = &logisticRecord{Count: n}
		for i := 1; i <= steps; i++ {
			n = growth.Logistic(n, r, k, dt)
			records[i] = &logisticRecord{Step: i, Time: float64(i) * dt, Count: n}
		}
		log.WithFields(logrus.Fields{
			"steps": steps,
			"count": n,
		}).Debug("calculated logistic growth")
		return gocsv.Marshal(records, cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
