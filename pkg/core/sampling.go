package core

import (
	"math"
)

// Every sampler below maps a uniform sample in [0,1)^n to a point or direction.
// Each has a matching PDF, expressed in solid angle for directions and in area
// for planar points.

// SampleUniformDiskConcentric maps a square sample onto the unit disk with
// Shirley's concentric mapping, which keeps strata compact.
func SampleUniformDiskConcentric(u Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = math.Pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - math.Pi/4*(ox/oy)
	}

	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// SampleUniformDiskPolar maps a square sample onto the unit disk using polar coordinates
func SampleUniformDiskPolar(u Vec2) Vec2 {
	r := math.Sqrt(u.X)
	theta := 2 * math.Pi * u.Y
	return Vec2{r * math.Cos(theta), r * math.Sin(theta)}
}

// PDFUniformDisk is the area density of both disk samplers
func PDFUniformDisk() float64 {
	return 1 / math.Pi
}

// SampleUniformSphere returns a direction uniformly distributed over the unit sphere
func SampleUniformSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// PDFUniformSphere is 1/4π
func PDFUniformSphere() float64 {
	return 1 / (4 * math.Pi)
}

// SampleUniformHemisphere returns a direction uniformly distributed over z >= 0
func SampleUniformHemisphere(u Vec2) Vec3 {
	z := u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return Vec3{r * math.Cos(phi), r * math.Sin(phi), z}
}

// PDFUniformHemisphere is 1/2π
func PDFUniformHemisphere() float64 {
	return 1 / (2 * math.Pi)
}

// SampleCosineHemisphere lifts a concentric disk sample onto the z >= 0 hemisphere
// (Malley's method), producing directions with density cosθ/π.
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleUniformDiskConcentric(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return Vec3{d.X, d.Y, z}
}

// PDFCosineHemisphere returns cosθ/π for the given local cosine
func PDFCosineHemisphere(cosTheta float64) float64 {
	return math.Max(cosTheta, 0) / math.Pi
}

// SampleCosineHemisphereAround samples a cosine-weighted world-space direction around normal
func SampleCosineHemisphereAround(normal Vec3, u Vec2) Vec3 {
	return NewONB(normal).ToWorld(SampleCosineHemisphere(u))
}

// SampleUniformCone returns a local direction inside the cone around +Z with
// half-angle acos(cosThetaMax).
func SampleUniformCone(u Vec2, cosThetaMax float64) Vec3 {
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return Vec3{sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta}
}

// PDFUniformCone is the solid-angle density of SampleUniformCone
func PDFUniformCone(cosThetaMax float64) float64 {
	if cosThetaMax >= 1 {
		return 0
	}
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// SampleUniformTriangle returns barycentrics uniformly distributed over a
// triangle using Heitz's low-distortion square-to-triangle map.
func SampleUniformTriangle(u Vec2) Vec3 {
	var b0, b1 float64
	if u.X < u.Y {
		b0 = u.X / 2
		b1 = u.Y - b0
	} else {
		b1 = u.Y / 2
		b0 = u.X - b1
	}
	return Vec3{b0, b1, 1 - b0 - b1}
}

// PDFUniformTriangle is the area density for a triangle of the given area
func PDFUniformTriangle(area float64) float64 {
	if area <= 0 {
		return 0
	}
	return 1 / area
}

// SampleUniformRegularPolygon samples a point in the regular n-gon inscribed in
// the unit circle, with one vertex on +X. Used for polygonal apertures.
func SampleUniformRegularPolygon(n int, u Vec2) Vec2 {
	if n < 3 {
		return SampleUniformDiskConcentric(u)
	}
	// Pick a wedge with the first dimension and reuse its fractional part
	scaled := u.X * float64(n)
	wedge := math.Min(math.Floor(scaled), float64(n-1))
	ux := scaled - wedge

	step := 2 * math.Pi / float64(n)
	a0 := wedge * step
	a1 := a0 + step
	p1 := Vec2{math.Cos(a0), math.Sin(a0)}
	p2 := Vec2{math.Cos(a1), math.Sin(a1)}

	b := SampleUniformTriangle(Vec2{ux, u.Y})
	// The wedge's first vertex is the polygon center
	return Vec2{b.Y*p1.X + b.Z*p2.X, b.Y*p1.Y + b.Z*p2.Y}
}

// PDFUniformRegularPolygon is the area density of SampleUniformRegularPolygon
func PDFUniformRegularPolygon(n int) float64 {
	if n < 3 {
		return PDFUniformDisk()
	}
	area := 0.5 * float64(n) * math.Sin(2*math.Pi/float64(n))
	return 1 / area
}
