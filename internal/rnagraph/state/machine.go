package state

import (
	"errors"
	"fmt"

	"rna-graph/internal/rnagraph/models"
	"rna-graph/internal/rnagraph/scene"
)

// ============================================================
// Events
// ============================================================

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrInvalidEvent = errors.New("invalid event")
	ErrInvalidStyle = errors.New("invalid style")
)

type EventKind string

const (
	EventPick        EventKind = "pick"
	EventClear       EventKind = "clear"
	EventToggleLayer EventKind = "toggle_layer"
	EventEditStyle   EventKind = "edit_style"
)

// Event действие пользователя над сценой.
// Camera, если передана, записывается в сцену как есть.
type Event struct {
	Kind    EventKind          `json:"kind"`
	Key     *models.ResidueKey `json:"key,omitempty"`
	Layer   string             `json:"layer,omitempty"`
	Visible *bool              `json:"visible,omitempty"`
	Color   string             `json:"color,omitempty"`
	Dash    string             `json:"dash,omitempty"`
	Width   float64            `json:"width,omitempty"`
	Camera  *models.Camera     `json:"camera,omitempty"`
}

// ============================================================
// Machine
// ============================================================

// Apply возвращает новую сцену; исходная не изменяется
func Apply(current *models.Scene, ev Event) (*models.Scene, error) {
	if current == nil {
		return nil, fmt.Errorf("%w: no scene", ErrInvalidEvent)
	}

	next := current.Clone()

	switch ev.Kind {
	case EventPick:
		if ev.Key == nil {
			return nil, fmt.Errorf("%w: pick requires key", ErrInvalidEvent)
		}
		pick(next, *ev.Key)
	case EventClear:
		clearSelection(next)
	case EventToggleLayer:
		toggle(next, ev.Layer, ev.Visible)
	case EventEditStyle:
		if err := editStyle(next, ev); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}

	if ev.Camera != nil {
		cam := *ev.Camera
		next.Camera = &cam
	}
	return next, nil
}

func pick(s *models.Scene, key models.ResidueKey) {
	layer, idx := find(s, key)
	if layer == nil {
		return
	}
	if s.Selection != nil && *s.Selection == key {
		clearSelection(s)
		return
	}

	for _, l := range s.PointLayers {
		for i, base := range l.BaseColors {
			if l == layer && i == idx {
				l.Colors[i] = base.String()
				l.Sizes[i] = scene.SelectedSize
				continue
			}
			l.Colors[i] = base.Dim()
			l.Sizes[i] = scene.BaseSize
		}
	}

	sel := key
	s.Selection = &sel
}

func clearSelection(s *models.Scene) {
	for _, l := range s.PointLayers {
		for i, base := range l.BaseColors {
			l.Colors[i] = base.String()
			l.Sizes[i] = scene.BaseSize
		}
	}
	s.Selection = nil
}

func find(s *models.Scene, key models.ResidueKey) (*models.PointLayer, int) {
	for _, l := range s.PointLayers {
		for i, k := range l.Keys {
			if k == key {
				return l, i
			}
		}
	}
	return nil, -1
}

func toggle(s *models.Scene, name string, visible *bool) {
	if layer := s.LineLayer(models.InteractionType(name)); layer != nil {
		layer.Visible = flip(layer.Visible, visible)
		return
	}

	if name == models.HeteroatomsLayer && s.HeteroOption.Disabled {
		return
	}
	if layer := s.PointLayer(name); layer != nil {
		layer.Visible = flip(layer.Visible, visible)
	}
}

func flip(current bool, want *bool) bool {
	if want != nil {
		return *want
	}
	return !current
}

func editStyle(s *models.Scene, ev Event) error {
	if ev.Dash != "" && !scene.ValidDash(ev.Dash) {
		return fmt.Errorf("%w: dash %q", ErrInvalidStyle, ev.Dash)
	}
	if ev.Width < 0 {
		return fmt.Errorf("%w: width %v", ErrInvalidStyle, ev.Width)
	}

	layer := s.LineLayer(models.InteractionType(ev.Layer))
	if layer == nil {
		return nil
	}
	if ev.Color != "" {
		layer.Style.Color = ev.Color
	}
	if ev.Dash != "" {
		layer.Style.Dash = ev.Dash
	}
	if ev.Width > 0 {
		layer.Style.Width = ev.Width
	}
	return nil
}
