// Package config resolves run settings from the environment and reads
// sources manifests.
package config

import (
	"github.com/spf13/viper"

	"github.com/willat8/ned/src/uvfit"
)

// Run holds the settings shared by every source in one invocation.
type Run struct {
	LowerCutoff float64
	UpperCutoff float64
	Policy      string
	OutDir      string
	LogLevel    string
}

// Load reads run settings from NED_* environment variables, falling back
// to the defaults. Flags may still override the result.
func Load() (*Run, error) {
	w := uvfit.DefaultWindow()
	viper.SetDefault("NED_LOWER_CUTOFF", w.Lower)
	viper.SetDefault("NED_UPPER_CUTOFF", w.Upper)
	viper.SetDefault("NED_POLICY", "rate")
	viper.SetDefault("NED_OUT_DIR", ".")
	viper.SetDefault("NED_LOG_LEVEL", "info")

	viper.AutomaticEnv()

	viper.BindEnv("NED_LOWER_CUTOFF")
	viper.BindEnv("NED_UPPER_CUTOFF")
	viper.BindEnv("NED_POLICY")
	viper.BindEnv("NED_OUT_DIR")
	viper.BindEnv("NED_LOG_LEVEL")

	var run Run
	run.LowerCutoff = viper.GetFloat64("NED_LOWER_CUTOFF")
	run.UpperCutoff = viper.GetFloat64("NED_UPPER_CUTOFF")
	run.Policy = viper.GetString("NED_POLICY")
	run.OutDir = viper.GetString("NED_OUT_DIR")
	run.LogLevel = viper.GetString("NED_LOG_LEVEL")
	return &run, nil
}

// Window builds the fitting window from the configured cutoffs.
func (r *Run) Window() uvfit.Window {
	return uvfit.Window{Lower: r.LowerCutoff, Upper: r.UpperCutoff}
}
