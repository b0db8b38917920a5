// Package material holds the surface properties attached to primitives: the
// Phong coefficients used by the shading kernel and the textures they can
// reference.
package material

import "github.com/wavefront/octracer/pkg/core"

// Material holds the classical Phong coefficients used by the shading
// kernel, plus the non-standard Refl/Tr/Tf/Ni fields the original MTL
// format carries for reflection and refraction.
type Material struct {
	Name string

	Ka core.Vec3 // ambient color
	Kd core.Vec3 // diffuse color
	Ks core.Vec3 // specular color
	Ns float64   // specular exponent

	Refl float64   // mirror reflectance coefficient
	Tr   float64   // transparency
	Tf   core.Vec3 // transmission filter color
	Ni   float64   // refraction index

	Texture *Texture // optional, modulates Ka when present
}

// NewMaterial returns a Material with the MTL-format defaults: opaque,
// non-reflective, refraction index 1 (vacuum).
func NewMaterial(name string) *Material {
	return &Material{
		Name: name,
		Ni:   1.0,
		Tf:   core.NewVec3(1, 1, 1),
	}
}
