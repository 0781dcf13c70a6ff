package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsDefaults(t *testing.T) {
	s := LoadSettings(NewViper())
	assert.Equal(t, DefaultFile, s.ConfigFile)
	assert.Equal(t, "", s.Output)
	assert.Equal(t, runtime.NumCPU(), s.Workers)
	assert.False(t, s.Verbose)
}

func TestSettingsFromEnvironment(t *testing.T) {
	t.Setenv("TLGEN_OUTPUT", "gen")
	t.Setenv("TLGEN_WORKERS", "3")
	t.Setenv("TLGEN_VERBOSE", "true")

	s := LoadSettings(NewViper())
	assert.Equal(t, "gen", s.Output)
	assert.Equal(t, 3, s.Workers)
	assert.True(t, s.Verbose)
}

func TestSettingsClampWorkers(t *testing.T) {
	v := NewViper()
	v.Set(KeyWorkers, 0)
	assert.Equal(t, 1, LoadSettings(v).Workers)
}
