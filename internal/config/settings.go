package config

import (
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys shared by flags, environment variables and viper.
const (
	KeyConfig  = "config"
	KeyOutput  = "output"
	KeyWorkers = "workers"
	KeyVerbose = "verbose"
)

// EnvPrefix is the prefix of environment overrides: TLGEN_OUTPUT, ...
const EnvPrefix = "TLGEN"

// Settings are the per-invocation options that are not part of the manifest.
type Settings struct {
	ConfigFile string
	Output     string // overrides the manifest output directory when set
	Workers    int
	Verbose    bool
}

// NewViper returns a viper instance with defaults and environment bindings.
// Callers bind their command flags to it.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, DefaultFile)
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyVerbose, false)
	return v
}

// LoadSettings reads the effective settings.
func LoadSettings(v *viper.Viper) Settings {
	s := Settings{
		ConfigFile: v.GetString(KeyConfig),
		Output:     v.GetString(KeyOutput),
		Workers:    v.GetInt(KeyWorkers),
		Verbose:    v.GetBool(KeyVerbose),
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	return s
}
