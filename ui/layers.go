package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LayerID identifies a toggleable layer of the lattice view.
type LayerID string

// Lattice view layers.
const (
	LayerHeights  LayerID = "heights"
	LayerProteins LayerID = "proteins"
	LayerLigands  LayerID = "ligands"
)

// LayerDescriptor defines a layer that can be toggled.
type LayerDescriptor struct {
	ID       LayerID
	Name     string
	Key      int32  // keyboard key to toggle (0 = none)
	KeyLabel string // e.g. "H"
}

// LayerRegistry tracks which layers are shown, in registration order.
type LayerRegistry struct {
	descriptors []LayerDescriptor
	enabled     map[LayerID]bool
}

// NewLayerRegistry creates a registry with every lattice layer enabled.
func NewLayerRegistry() *LayerRegistry {
	r := &LayerRegistry{enabled: make(map[LayerID]bool)}
	r.Register(LayerDescriptor{ID: LayerHeights, Name: "Gap height", Key: rl.KeyH, KeyLabel: "H"}, true)
	r.Register(LayerDescriptor{ID: LayerProteins, Name: "Proteins", Key: rl.KeyP, KeyLabel: "P"}, true)
	r.Register(LayerDescriptor{ID: LayerLigands, Name: "pMHC", Key: rl.KeyL, KeyLabel: "L"}, true)
	return r
}

// Register adds a layer.
func (r *LayerRegistry) Register(desc LayerDescriptor, enabled bool) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = enabled
}

// All returns every layer in registration order.
func (r *LayerRegistry) All() []LayerDescriptor { return r.descriptors }

// IsEnabled reports whether a layer is shown.
func (r *LayerRegistry) IsEnabled(id LayerID) bool { return r.enabled[id] }

// SetEnabled shows or hides a layer. Unknown IDs are ignored.
func (r *LayerRegistry) SetEnabled(id LayerID, enabled bool) {
	if _, ok := r.enabled[id]; ok {
		r.enabled[id] = enabled
	}
}

// Toggle flips a layer and returns its new state.
func (r *LayerRegistry) Toggle(id LayerID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// HandleKeyPress toggles the layer bound to key, if any.
func (r *LayerRegistry) HandleKeyPress(key int32) (LayerID, bool, bool) {
	for _, d := range r.descriptors {
		if d.Key != 0 && d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return "", false, false
}
