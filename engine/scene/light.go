package scene

import (
	"fmt"

	"github.com/google/uuid"
)

type LightKind int

const (
	LIGHT_AMBIENT LightKind = iota
	LIGHT_DIRECTIONAL
	LIGHT_HEMISPHERE
	LIGHT_POINT
)

func (k LightKind) String() string {
	switch k {
	case LIGHT_AMBIENT:
		return "ambient"
	case LIGHT_DIRECTIONAL:
		return "directional"
	case LIGHT_HEMISPHERE:
		return "hemisphere"
	case LIGHT_POINT:
		return "point"
	}
	return fmt.Sprintf("LightKind(%d)", int(k))
}

// ShadowMap is a depth target a light renders its shadow into.
type ShadowMap struct {
	ID         uuid.UUID
	Resolution [2]uint16
}

func NewShadowMap(width, height uint16) ShadowMap {
	return ShadowMap{ID: uuid.New(), Resolution: [2]uint16{width, height}}
}

// Shadow pairs a shadow map with the projection used to render it.
type Shadow struct {
	Map        ShadowMap
	Projection Orthographic
}

// Light is the payload of light nodes. Ground is only used by hemisphere
// lights.
type Light struct {
	LightKind LightKind
	Color     Color
	Intensity float32
	Ground    Color
	Shadow    *Shadow
}

func NewAmbientLight(color Color, intensity float32) *Light {
	return &Light{LightKind: LIGHT_AMBIENT, Color: color, Intensity: intensity}
}

func NewDirectionalLight(color Color, intensity float32) *Light {
	return &Light{LightKind: LIGHT_DIRECTIONAL, Color: color, Intensity: intensity}
}

func NewHemisphereLight(sky, ground Color, intensity float32) *Light {
	return &Light{LightKind: LIGHT_HEMISPHERE, Color: sky, Ground: ground, Intensity: intensity}
}

func NewPointLight(color Color, intensity float32) *Light {
	return &Light{LightKind: LIGHT_POINT, Color: color, Intensity: intensity}
}

func (*Light) Kind() Kind { return KIND_LIGHT }

func (l *Light) clone() SubNode {
	out := *l
	if l.Shadow != nil {
		s := *l.Shadow
		out.Shadow = &s
	}
	return &out
}

// LightOperation changes one property of a light.
type LightOperation interface {
	apply(l *Light)
}

type LightColor Color

type LightIntensity float32

func (c LightColor) apply(l *Light)     { l.Color = Color(c) }
func (i LightIntensity) apply(l *Light) { l.Intensity = float32(i) }
