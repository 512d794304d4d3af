package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermsHas(t *testing.T) {
	tests := []struct {
		perms    Perms
		cap      Capability
		expected bool
	}{
		{Perms{All: true}, CapInsert, true},
		{Perms{All: true}, CapDelete, true},
		{Perms{Insert: true}, CapInsert, true},
		{Perms{Insert: true}, CapUpdate, false},
		{Perms{Update: true, Delete: true}, CapDelete, true},
		{Perms{Upload: true}, CapUpload, true},
		{Perms{}, CapUpload, false},
		// Unknown capabilities fail closed unless All is set.
		{Perms{Insert: true, Update: true, Upload: true, Delete: true}, "unknown", false},
		{Perms{}, CapAll, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.perms.Has(tt.cap), "Perms%+v.Has(%q)", tt.perms, tt.cap)
	}
}

func TestPermsSetAndGranted(t *testing.T) {
	var p Perms
	p.Set(CapUpdate)
	p.Set(CapDelete)

	assert.Equal(t, []Capability{CapUpdate, CapDelete}, p.Granted())
	assert.True(t, p.Has(CapDelete))
	assert.False(t, p.Has(CapInsert))
}

func TestParseCapability(t *testing.T) {
	c, ok := ParseCapability("upload")
	assert.True(t, ok)
	assert.Equal(t, CapUpload, c)

	_, ok = ParseCapability("admin")
	assert.False(t, ok)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0c4b7a6e-2f61-4f6a-9d35-3a1c8e2b9f00"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("42"))
	assert.False(t, ValidID("0C4B7A6E-2F61-4F6A-9D35-3A1C8E2B9F00"))
	assert.False(t, ValidID("{0c4b7a6e-2f61-4f6a-9d35-3a1c8e2b9f00}"))
}
