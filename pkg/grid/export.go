package grid

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Unified Serialization Format
// =============================================================================

// Layout is the serialization format shared by the CLI, the HTTP service and
// rendering collaborators: a fully computed set of tile placements for one
// viewport.
type Layout struct {
	Mode   string  `json:"mode" bson:"mode"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Tiles []TilePlacement `json:"tiles" bson:"tiles"`

	// Picture-in-picture relative position, meaningful for the two-tile
	// freedom layout.
	PiPX float64 `json:"pip_x,omitempty" bson:"pip_x,omitempty"`
	PiPY float64 `json:"pip_y,omitempty" bson:"pip_y,omitempty"`

	// Scroll is the spotlight spectator-strip offset (≤ 0).
	Scroll float64 `json:"scroll,omitempty" bson:"scroll,omitempty"`
}

// TilePlacement is one positioned tile in a Layout.
type TilePlacement struct {
	Key  string `json:"key" bson:"key"`
	Rect Rect   `json:"rect" bson:"rect"`

	Focused   bool `json:"focused,omitempty" bson:"focused,omitempty"`
	Presenter bool `json:"presenter,omitempty" bson:"presenter,omitempty"`
	Local     bool `json:"local,omitempty" bson:"local,omitempty"`
	Removing  bool `json:"removing,omitempty" bson:"removing,omitempty"`
	Dragging  bool `json:"dragging,omitempty" bson:"dragging,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Mode == "" {
		l.Mode = string(ModeFreedom)
	}
	if !Mode(l.Mode).Valid() {
		return Layout{}, fmt.Errorf("unknown layout mode %q", l.Mode)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
