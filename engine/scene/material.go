package scene

// Material describes how a Visual is shaded. It is one of BasicMaterial,
// LambertMaterial, PhongMaterial, SpriteMaterial or WireframeMaterial.
type Material interface {
	MaterialName() string
	material()
}

// BasicMaterial is unlit, optionally textured.
type BasicMaterial struct {
	Color Color
	Map   *Texture
}

// LambertMaterial is lit with diffuse reflection only.
type LambertMaterial struct {
	Color Color
	Flat  bool
}

// PhongMaterial is lit with diffuse and specular reflection.
type PhongMaterial struct {
	Color      Color
	Glossiness float32
}

// SpriteMaterial draws a texture, or a texel range of it.
type SpriteMaterial struct {
	Map Texture
}

// WireframeMaterial draws the edges of the mesh.
type WireframeMaterial struct {
	Color Color
}

func (BasicMaterial) MaterialName() string     { return "basic" }
func (LambertMaterial) MaterialName() string   { return "lambert" }
func (PhongMaterial) MaterialName() string     { return "phong" }
func (SpriteMaterial) MaterialName() string    { return "sprite" }
func (WireframeMaterial) MaterialName() string { return "wireframe" }

func (BasicMaterial) material()     {}
func (LambertMaterial) material()   {}
func (PhongMaterial) material()     {}
func (SpriteMaterial) material()    {}
func (WireframeMaterial) material() {}
