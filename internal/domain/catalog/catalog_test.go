package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return New([]Descriptor{
		{Name: "Main", Persistent: false},
		{Name: "UI", Persistent: false},
		{Name: "HUD", Persistent: true},
		{Name: "Audio", Persistent: true},
	})
}

func TestCatalog_IsPersistent(t *testing.T) {
	c := testCatalog()

	tests := []struct {
		name     string
		expected bool
	}{
		{"HUD", true},
		{"Audio", true},
		{"Main", false},
		{"UI", false},
		{"Unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.IsPersistent(tt.name))
		})
	}
}

func TestCatalog_DuplicateNames(t *testing.T) {
	// Any persistent entry wins, regardless of order
	c := New([]Descriptor{
		{Name: "Main", Persistent: false},
		{Name: "Main", Persistent: true},
	})
	assert.True(t, c.IsPersistent("Main"))
}

func TestCatalog_Persistent(t *testing.T) {
	assert.Equal(t, []string{"HUD", "Audio"}, testCatalog().Persistent())
	assert.Empty(t, New(nil).Persistent())
}

func TestCatalog_Has(t *testing.T) {
	c := testCatalog()
	assert.True(t, c.Has("Main"))
	assert.False(t, c.Has("Level2"))
}

func TestCatalog_SwapAndCopies(t *testing.T) {
	src := []Descriptor{{Name: "Main"}}
	c := New(src)

	src[0].Persistent = true
	assert.False(t, c.IsPersistent("Main"), "New copies its input")

	out := c.Descriptors()
	out[0].Persistent = true
	assert.False(t, c.IsPersistent("Main"), "Descriptors returns a copy")

	c.Swap([]Descriptor{{Name: "Main", Persistent: true}})
	assert.True(t, c.IsPersistent("Main"))
	assert.Len(t, c.Descriptors(), 1)
}
