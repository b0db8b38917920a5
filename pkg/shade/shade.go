// Package shade implements the recursive Whitted-style shading kernel: local
// Phong illumination plus mirror reflection and refraction, bounded by a
// maximum recursion depth.
package shade

import (
	"math"

	"github.com/wavefront/octracer/pkg/core"
	"github.com/wavefront/octracer/pkg/scene"
)

// maxRecursionLevel bounds the reflection/refraction recursion so a ray
// bouncing between mirrored or glass surfaces always terminates.
const maxRecursionLevel = 5

const (
	reflectionBias = 1e-4 // offset along the reflected direction before casting it
	refractionBias = 1e-5 // offset along the refracted direction before casting it
	shadowBiasEnter = 1e-5 // offset along the light direction before the first shadow query
	shadowBiasStep  = 1e-7 // offset along the light direction after each transparent surface
	shadowFloor     = 1e-3 // light_power channel below this is treated as fully blocked
)

// TraceRay shades the first surface ray hits in scn, or the background color
// (black) if it hits nothing.
func TraceRay(ray core.Ray, scn *scene.Scene) core.Vec3 {
	return traceRayWorker(ray, 0, false, 1.0, scn)
}

// traceRayWorker is the recursive kernel. level counts reflection/refraction
// bounces so far; inObject is true while the ray is travelling inside a
// transparent solid; reflectionCoef is the cumulative product of Refl
// coefficients along the reflection chain that produced this ray, used to
// cut off reflection recursion once its contribution would be negligible.
func traceRayWorker(ray core.Ray, level int, inObject bool, reflectionCoef float64, scn *scene.Scene) core.Vec3 {
	prim, point, _, hit := scn.Octree.IntersectRay(ray)
	if !hit {
		return core.Vec3{}
	}

	normal := prim.Normal(point)
	towardsCamera := ray.Direction.Negate()
	normalRayDot := normal.Dot(towardsCamera)
	if normalRayDot < 0 {
		normal = normal.Negate()
		normalRayDot = normal.Dot(towardsCamera)
	}

	mtl := prim.Material()
	if mtl == nil {
		g := (normalRayDot + 1.0) * 0.5
		return core.NewVec3(g, g, g)
	}

	surfaceColor := mtl.Ka
	if mtl.Texture != nil {
		uvw := prim.UVW(point)
		surfaceColor = surfaceColor.MultiplyVec(mtl.Texture.Sample(uvw.X, uvw.Y))
	}

	reflectedDirection := ray.Direction.Subtract(normal.Multiply(2 * ray.Direction.Dot(normal)))

	var result core.Vec3

	for _, light := range scn.Lights {
		lightDir := light.Position.Subtract(point).Normalize()

		result = result.Add(light.Ambient.MultiplyVec(surfaceColor))

		lightPower, inShadow := traceShadow(point, lightDir, light.Position, scn)
		lightPower = core.NewVec3(
			math.Max(lightPower.X, light.Ambient.X),
			math.Max(lightPower.Y, light.Ambient.Y),
			math.Max(lightPower.Z, light.Ambient.Z),
		)

		diffuse := mtl.Kd.MultiplyVec(surfaceColor).Multiply(lightDir.Dot(normal)).MultiplyVec(light.Diffuse).MultiplyVec(lightPower)
		result = result.Add(diffuse)

		if !inShadow {
			reflDot := reflectedDirection.Dot(towardsCamera)
			if reflDot > 0 {
				specular := mtl.Ks.MultiplyVec(surfaceColor).Multiply(math.Pow(reflDot, mtl.Ns)).MultiplyVec(light.Specular)
				result = result.Add(specular)
			}
		}
	}

	if level < maxRecursionLevel && mtl.Refl > 0 && reflectionCoef > 0.01 && !inObject {
		reflectOrigin := point.Add(reflectedDirection.Multiply(reflectionBias))
		reflectRay := core.NewRay(reflectOrigin, reflectedDirection)
		reflectColor := traceRayWorker(reflectRay, level+1, inObject, reflectionCoef*mtl.Refl, scn)
		result = result.Add(reflectColor.Multiply(mtl.Refl))
	}

	if level < maxRecursionLevel && mtl.Tr > 0 {
		refractDir, ok := refract(ray.Direction, normal, normalRayDot, mtl.Ni, inObject)
		if !ok {
			// Total internal reflection: no transmitted ray, fall back to a
			// mirror bounce off the same surface.
			refractDir = reflectedDirection
		}
		refractOrigin := point.Add(refractDir.Multiply(refractionBias))
		refractRay := core.NewRay(refractOrigin, refractDir)
		refractColor := traceRayWorker(refractRay, level+1, !inObject, reflectionCoef, scn)
		result = result.Add(refractColor.MultiplyVec(mtl.Tf).Multiply(mtl.Tr))
	}

	return result
}

// traceShadow walks a shadow ray from point toward lightPos, stepping
// through transparent surfaces and attenuating by each one's Tf*Tr on the
// entry surface of every pair (toggled each hit, mirroring the reference's
// traversing_through_object flag). Returns the accumulated light_power and
// whether the point is fully shadowed.
func traceShadow(point, lightDir, lightPos core.Vec3, scn *scene.Scene) (core.Vec3, bool) {
	lightPower := core.NewVec3(1, 1, 1)
	entrySurface := true
	start := point

	for {
		shadowOrigin := start.Add(lightDir.Multiply(shadowBiasEnter))
		shadowRay := core.NewRay(shadowOrigin, lightDir)

		lightDistance := start.Distance(lightPos)
		sPrim, sPoint, sDist, sHit := scn.Octree.IntersectRay(shadowRay)
		if !sHit {
			break
		}
		if sDist > lightDistance {
			break
		}

		sMtl := sPrim.Material()
		if sMtl == nil || sMtl.Tr == 0 {
			return core.Vec3{}, true
		}

		if entrySurface {
			lightPower = lightPower.MultiplyVec(sMtl.Tf).Multiply(sMtl.Tr)
		}
		entrySurface = !entrySurface

		start = sPoint.Add(lightDir.Multiply(shadowBiasStep))

		if point.Distance(start) > point.Distance(lightPos) {
			break
		}

		if lightPower.X <= shadowFloor && lightPower.Y <= shadowFloor && lightPower.Z <= shadowFloor {
			return core.Vec3{}, true
		}
	}

	return lightPower, false
}

// refract computes the Snell's-law transmission direction for an incident
// ray hitting a surface with refraction index ni (entering if !inObject,
// exiting back to vacuum if inObject). cosI is the already-computed
// normal/view dot product (normal faces the incident ray's origin side).
// ok is false on total internal reflection, where no real transmitted
// direction exists.
func refract(incident, normal core.Vec3, cosI, ni float64, inObject bool) (core.Vec3, bool) {
	eta := 1.0 / ni
	n := normal
	if inObject {
		eta = ni
		n = normal.Negate()
		cosI = -cosI
	}

	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return core.Vec3{}, false
	}
	cosT := math.Sqrt(1 - sin2T)
	dir := incident.Multiply(eta).Add(n.Multiply(eta*cosI - cosT))
	return dir.Normalize(), true
}

// ColorToRGB converts a linear color in [0,1] (values outside are clamped)
// into 8-bit truncated (not rounded) RGB bytes, matching the reference
// renderer's pixel packing.
func ColorToRGB(c core.Vec3) [3]byte {
	return [3]byte{toByte(c.X), toByte(c.Y), toByte(c.Z)}
}

func toByte(v float64) byte {
	if v > 1.0 {
		return 255
	}
	if v < 0.0 {
		return 0
	}
	return byte(v * 255)
}
