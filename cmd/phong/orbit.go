package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/models"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Critically damped, no overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// maxPitch keeps the eye off the poles where up would be parallel to the
// view direction.
const maxPitch = 85 * math.Pi / 180

// Orbit moves the eye around the scene's gaze point on a sphere. Yaw turns
// about world +Y, pitch raises the eye toward it.
type Orbit struct {
	Yaw, Pitch RotationAxis
	Zoom       float64 // Multiplies the starting eye distance

	base         models.CameraSpec
	radius       float64
	yaw0, pitch0 float64
	fps          int
}

// NewOrbit starts an orbit at the scene camera's eye.
func NewOrbit(spec models.CameraSpec, fps int) *Orbit {
	o := &Orbit{base: spec, fps: fps}
	offset := spec.Eye.Sub(spec.Gaze)
	o.radius = offset.Len()
	if o.radius > 0 {
		o.yaw0 = math.Atan2(offset.X, offset.Z)
		o.pitch0 = math.Asin(min(max(offset.Y/o.radius, -1), 1))
	}
	o.Reset()
	return o
}

// Reset returns to the starting eye with no motion.
func (o *Orbit) Reset() {
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch = NewRotationAxis(o.fps)
	o.Zoom = 1
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// ZoomBy scales the eye distance, bounded to 0.2x..5x of the start.
func (o *Orbit) ZoomBy(factor float64) {
	o.Zoom = min(max(o.Zoom*factor, 0.2), 5)
}

// Update advances both axes by one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
}

// Moving reports whether either axis still has noticeable velocity.
func (o *Orbit) Moving() bool {
	const eps = 1e-5
	return math.Abs(o.Yaw.Velocity) > eps || math.Abs(o.Pitch.Velocity) > eps
}

// Angles returns the current yaw and pitch in radians.
func (o *Orbit) Angles() (yaw, pitch float64) {
	pitch = min(max(o.pitch0+o.Pitch.Position, -maxPitch), maxPitch)
	return o.yaw0 + o.Yaw.Position, pitch
}

// Spec returns the scene camera with the eye moved to the orbit position.
func (o *Orbit) Spec() models.CameraSpec {
	spec := o.base
	if o.radius == 0 {
		return spec
	}
	yaw, pitch := o.Angles()
	r := o.radius * o.Zoom
	offset := math3d.V3(
		r*math.Cos(pitch)*math.Sin(yaw),
		r*math.Sin(pitch),
		r*math.Cos(pitch)*math.Cos(yaw),
	)
	spec.Eye = spec.Gaze.Add(offset)
	return spec
}
