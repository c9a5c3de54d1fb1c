package core

import "math"

// Frame returns the orthonormal vector frame for the given tensor
// orientation angles. The first vector points along (theta, phi), the
// second starts perpendicular to it in the same azimuthal plane and is
// rotated about the first by psi, and the third completes the set. The
// rotation axis is flipped for lower-hemisphere orientations so that
// antipodal orientations rotate consistently.
func Frame(theta, phi, psi float64) [3]Vec3 {
	n1 := Sphere(theta, phi)

	st := math.Sin(theta + math.Pi/2)
	n2 := Vec3{X: st * math.Cos(phi), Y: st * math.Sin(phi), Z: math.Cos(theta + math.Pi/2)}

	axis := n1
	if n1.Z < 0 || (n1.Z == 0 && n1.X < 0) {
		axis = n1.Scale(-1)
	}

	sinPsi, cosPsi := math.Sincos(psi)
	n2 = n2.Scale(cosPsi).
		Add(n2.Cross(axis).Scale(sinPsi)).
		Add(axis.Scale(axis.Dot(n2) * (1 - cosPsi)))

	return [3]Vec3{n1, n2, n1.Cross(n2)}
}
