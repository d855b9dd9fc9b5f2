package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesSpecDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 10, c.GetInt(KeyObase))
	assert.False(t, c.GetBool(KeyErrorOnWarning))
	assert.Equal(t, 1, c.GetInt(KeyOptimize))
}

func TestGetWrongTypePanics(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.GetString(KeyObase) })
}

func TestGetMissingKeyPanics(t *testing.T) {
	c := New()
	assert.Panics(t, func() { c.GetBool("no.such.key") })
}

func TestSetOverwritesPriorValueOfSameType(t *testing.T) {
	c := New()
	c.SetInt(KeyObase, 16)
	assert.Equal(t, 16, c.GetInt(KeyObase))
}
