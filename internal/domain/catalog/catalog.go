// Package catalog holds the configured set of scenes a loader knows about.
package catalog

import "sync"

// Descriptor identifies a loadable scene and whether bulk unloads must keep it.
type Descriptor struct {
	Name       string
	Persistent bool
}

// Catalog is the ordered list of configured scene descriptors.
// It is read on the game loop and replaced wholesale on config reload.
type Catalog struct {
	mu     sync.RWMutex
	scenes []Descriptor
}

// New creates a catalog from descriptors. The slice is copied.
func New(scenes []Descriptor) *Catalog {
	c := &Catalog{}
	c.Swap(scenes)
	return c
}

// Swap replaces every descriptor at once.
func (c *Catalog) Swap(scenes []Descriptor) {
	cp := make([]Descriptor, len(scenes))
	copy(cp, scenes)

	c.mu.Lock()
	c.scenes = cp
	c.mu.Unlock()
}

// IsPersistent reports whether any descriptor named name is marked persistent.
// Unknown scenes are never persistent.
func (c *Catalog) IsPersistent(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.scenes {
		if d.Name == name && d.Persistent {
			return true
		}
	}
	return false
}

// Has reports whether name is configured.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.scenes {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Persistent returns the names of persistent scenes in configured order.
func (c *Catalog) Persistent() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for _, d := range c.scenes {
		if d.Persistent {
			names = append(names, d.Name)
		}
	}
	return names
}

// Descriptors returns a copy of every descriptor in configured order.
func (c *Catalog) Descriptors() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cp := make([]Descriptor, len(c.scenes))
	copy(cp, c.scenes)
	return cp
}
