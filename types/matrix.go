package types

import "math"

// A column-major 4x4 matrix, laid out the way opengl expects it.
type Mat4 [16]float32

// Create identity matrix.
func Ident4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Create a translation matrix.
func Translate4(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v[0], v[1], v[2], 1,
	}
}

// Create a scale matrix.
func Scale4(v Vec3) Mat4 {
	return Mat4{
		v[0], 0, 0, 0,
		0, v[1], 0, 0,
		0, 0, v[2], 0,
		0, 0, 0, 1,
	}
}

// Create a perspective projection matrix. The fov is specified in degrees.
func Perspective4(fovY, aspect, near, far float32) Mat4 {
	f := float32(1.0 / math.Tan(float64(Radians(fovY))/2.0))
	nmf := near - far
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) / nmf, -1,
		0, 0, (2.0 * far * near) / nmf, 0,
	}
}

// Create a view matrix for an eye looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	m := Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		0, 0, 0, 1,
	}
	return m.Mul4(Translate4(eye.Mul(-1)))
}

// Multiply two matrices.
func (m1 Mat4) Mul4(m2 Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m1[k*4+row] * m2[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Multiply matrix with a 4 component vector.
func (m1 Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4{
		m1[0]*v[0] + m1[4]*v[1] + m1[8]*v[2] + m1[12]*v[3],
		m1[1]*v[0] + m1[5]*v[1] + m1[9]*v[2] + m1[13]*v[3],
		m1[2]*v[0] + m1[6]*v[1] + m1[10]*v[2] + m1[14]*v[3],
		m1[3]*v[0] + m1[7]*v[1] + m1[11]*v[2] + m1[15]*v[3],
	}
}

// Transform a point (w=1) and return its xyz components.
func (m1 Mat4) TransformPoint(v Vec3) Vec3 {
	return m1.Mul4x1(v.Vec4(1)).Vec3()
}

// Transform a direction (w=0) and return its xyz components.
func (m1 Mat4) TransformDir(v Vec3) Vec3 {
	return m1.Mul4x1(v.Vec4(0)).Vec3()
}
