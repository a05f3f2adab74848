package types

import "testing"

func TestTranslateAndScale(t *testing.T) {
	m := Translate4(XYZ(1, 2, 3)).Mul4(Scale4(XYZ(2, 2, 2)))

	got := m.TransformPoint(XYZ(1, 1, 1))
	exp := XYZ(3, 4, 5)
	if !got.ApproxEqual(exp) {
		t.Fatalf("expected transformed point to be %v; got %v", exp, got)
	}

	got = m.TransformDir(XYZ(1, 0, 0))
	exp = XYZ(2, 0, 0)
	if !got.ApproxEqual(exp) {
		t.Fatalf("expected transformed direction to be %v; got %v", exp, got)
	}
}

func TestLookAt(t *testing.T) {
	view := LookAtV(XYZ(0, 0, 5), XYZ(0, 0, 0), XYZ(0, 1, 0))

	// The target should end up 5 units in front of the camera (-Z in view space).
	got := view.TransformPoint(XYZ(0, 0, 0))
	exp := XYZ(0, 0, -5)
	if !got.ApproxEqual(exp) {
		t.Fatalf("expected target in view space to be %v; got %v", exp, got)
	}
}

func TestQuatRotation(t *testing.T) {
	type spec struct {
		q   Quat
		in  Vec3
		exp Vec3
	}
	specs := []spec{
		{QuatRotateY(90), XYZ(1, 0, 0), XYZ(0, 0, -1)},
		{QuatRotateX(90), XYZ(0, 1, 0), XYZ(0, 0, 1)},
		{QuatIdent(), XYZ(1, 2, 3), XYZ(1, 2, 3)},
	}

	for index, s := range specs {
		got := s.q.Rotate(s.in)
		if !got.ApproxEqual(s.exp) {
			t.Fatalf("[spec %d] expected rotated vector to be %v; got %v", index, s.exp, got)
		}

		// The matrix form must agree with direct rotation.
		got = s.q.Mat4().TransformPoint(s.in)
		if !got.ApproxEqual(s.exp) {
			t.Fatalf("[spec %d] expected matrix-rotated vector to be %v; got %v", index, s.exp, got)
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Fatalf("expected zero vector; got %v", got)
	}
}
