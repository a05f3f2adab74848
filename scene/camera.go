package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/embers/types"
)

// Pitch is kept away from the poles so that the view up vector never lines
// up with the view direction.
const maxPitch = 89.0

// The camera type controls the scene camera. It orbits around a target
// point; Orbit and Zoom move the eye while keeping it looking at Target.
type Camera struct {
	Eye    types.Vec3
	Target types.Vec3
	Up     types.Vec3

	ViewMat types.Mat4
	ProjMat types.Mat4

	// Vertical field of view in degrees.
	FOV  float32
	Near float32
	Far  float32

	// Range of allowed eye-target distances.
	MinDistance float32
	MaxDistance float32

	aspect float32
}

// Create a new camera looking from eye to target.
func NewCamera(fov, near, far float32, eye, target types.Vec3) *Camera {
	c := &Camera{
		Eye:         eye,
		Target:      target,
		Up:          types.XYZ(0, 1, 0),
		FOV:         fov,
		Near:        near,
		Far:         far,
		MaxDistance: float32(math.Inf(1)),
		aspect:      1,
	}
	c.SetupProjection(1)
	return c
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"eye: (%3.3f, %3.3f, %3.3f), target: (%3.3f, %3.3f, %3.3f), fov: %3.1f",
		c.Eye[0], c.Eye[1], c.Eye[2],
		c.Target[0], c.Target[1], c.Target[2],
		c.FOV,
	)
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	if aspect <= 0 {
		aspect = 1
	}
	c.aspect = aspect
	c.ProjMat = types.Perspective4(c.FOV, aspect, c.Near, c.Far)
	c.Update()
}

// Get the aspect ratio of the current projection.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// Update the view matrix. The eye is pulled back into the allowed distance
// range if needed.
func (c *Camera) Update() {
	offset := c.Eye.Sub(c.Target)
	dist := offset.Len()
	clamped := clamp(dist, c.MinDistance, c.MaxDistance)
	if dist > 0 && clamped != dist {
		c.Eye = c.Target.Add(offset.Mul(clamped / dist))
	}

	c.ViewMat = types.LookAtV(c.Eye, c.Target, c.Up)
}

// Get the distance between the eye and the target.
func (c *Camera) Distance() float32 {
	return c.Eye.Sub(c.Target).Len()
}

// Rotate the eye around the target. Yaw rotates about the up axis and pitch
// tilts the eye towards the poles; both are specified in degrees.
func (c *Camera) Orbit(yaw, pitch float32) {
	offset := c.Eye.Sub(c.Target)
	dist := offset.Len()
	if dist == 0 {
		return
	}

	curYaw := math.Atan2(float64(offset[0]), float64(offset[2]))
	curPitch := math.Asin(float64(offset[1] / dist))

	newYaw := curYaw + float64(types.Radians(yaw))
	newPitch := curPitch + float64(types.Radians(pitch))
	limit := float64(types.Radians(maxPitch))
	newPitch = math.Max(-limit, math.Min(limit, newPitch))

	sinPitch, cosPitch := math.Sincos(newPitch)
	sinYaw, cosYaw := math.Sincos(newYaw)
	c.Eye = c.Target.Add(types.XYZ(
		dist*float32(cosPitch*sinYaw),
		dist*float32(sinPitch),
		dist*float32(cosPitch*cosYaw),
	))
	c.Update()
}

// Scale the eye-target distance by factor, clamped to the allowed range.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	offset := c.Eye.Sub(c.Target)
	c.Eye = c.Target.Add(offset.Mul(factor))
	c.Update()
}

// Get the combined projection/view matrix.
func (c *Camera) ViewProjMat() types.Mat4 {
	return c.ProjMat.Mul4(c.ViewMat)
}

// Project a world space point to normalized device coordinates. The second
// return value is false if the point lies behind the camera.
func (c *Camera) Project(p types.Vec3) (types.Vec3, bool) {
	clip := c.ViewProjMat().Mul4x1(p.Vec4(1))
	if clip[3] <= c.Near*0.5 {
		return types.Vec3{}, false
	}
	return clip.Vec3().Mul(1.0 / clip[3]), true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
