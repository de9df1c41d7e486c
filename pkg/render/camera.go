package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/models"
)

// Camera maps world space to pixel space and generates view rays. It is
// immutable once built and safe for concurrent use.
type Camera struct {
	up, eye, gaze math3d.Vec4
	u, v, n       math3d.Vec4 // Basis directions (w=0)

	mv math3d.Mat4 // World to viewing
	c  math3d.Mat4 // Viewing to image
	m  math3d.Mat4 // World to image, C * Mv

	near, far     float64
	theta, aspect float64 // Theta in degrees
	width, height int

	// Near-plane half extents
	halfWidth, halfHeight float64
}

// Intersection is an object index into the scene's object list and the ray
// parameter at which that object was hit.
type Intersection struct {
	Index int
	T     float64
}

// CameraOption configures optional camera parameters.
type CameraOption func(*cameraConfig)

type cameraConfig struct {
	near, far, fov float64
}

// WithNearPlane sets the distance of the near plane from the eye.
func WithNearPlane(d float64) CameraOption {
	return func(c *cameraConfig) { c.near = d }
}

// WithFarPlane sets the distance of the far plane from the eye.
func WithFarPlane(d float64) CameraOption {
	return func(c *cameraConfig) { c.far = d }
}

// WithFieldOfView sets the vertical field of view in degrees.
func WithFieldOfView(deg float64) CameraOption {
	return func(c *cameraConfig) { c.fov = deg }
}

func cameraErr(reason string) error {
	return &math3d.GeometryError{Op: "camera", Reason: reason}
}

// NewCamera builds the camera for a width x height image, looking from eye
// toward gaze. Defaults are near 10, far 50 and a 90 degree field of view.
func NewCamera(width, height int, up, eye, gaze math3d.Vec4, opts ...CameraOption) (*Camera, error) {
	cfg := cameraConfig{
		near: models.DefaultNear,
		far:  models.DefaultFar,
		fov:  models.DefaultFOV,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case width <= 0 || height <= 0:
		return nil, cameraErr("image size must be positive")
	case cfg.near <= 0 || cfg.far <= 0:
		return nil, cameraErr("near and far planes must be positive")
	case cfg.near >= cfg.far:
		return nil, cameraErr("near plane must be closer than far plane")
	case cfg.fov <= 0 || cfg.fov >= 180:
		return nil, cameraErr("field of view must be between 0 and 180 degrees")
	}

	cam := &Camera{
		eye:    math3d.V4FromV3(eye.Vec3(), 1),
		gaze:   math3d.V4FromV3(gaze.Vec3(), 1),
		near:   cfg.near,
		far:    cfg.far,
		theta:  cfg.fov,
		width:  width,
		height: height,
		aspect: float64(width) / float64(height),
	}

	upDir, err := math3d.V4FromV3(up.Vec3(), 0).Unit()
	if err != nil {
		return nil, cameraErr("up vector has zero length")
	}
	cam.up = upDir

	n, err := cam.eye.Sub(cam.gaze).Unit()
	if err != nil {
		return nil, cameraErr("eye and gaze point coincide")
	}
	u, err := upDir.Cross(n).Unit()
	if err != nil {
		return nil, cameraErr("up vector is parallel to the view direction")
	}
	cam.n, cam.u, cam.v = n, u, n.Cross(u)

	cam.halfHeight = cam.near * math.Tan(cam.theta*math.Pi/180/2)
	cam.halfWidth = cam.aspect * cam.halfHeight

	cam.mv = viewMatrix(cam.u, cam.v, cam.n, cam.eye)
	cam.c = cam.windowMatrix().Mul(cam.perspectiveMatrix())
	cam.m = cam.c.Mul(cam.mv)
	return cam, nil
}

// CameraFromSpec builds a camera from a scene's camera description.
func CameraFromSpec(spec models.CameraSpec, width, height int) (*Camera, error) {
	return NewCamera(width, height,
		math3d.V4FromV3(spec.Up, 0),
		math3d.V4FromV3(spec.Eye, 1),
		math3d.V4FromV3(spec.Gaze, 1),
		WithNearPlane(spec.Near),
		WithFarPlane(spec.Far),
		WithFieldOfView(spec.FOV),
	)
}

// viewMatrix moves the eye to the origin, then rotates the orthonormal
// basis onto the axes. The rotation is the transpose of the matrix whose
// columns are U, V and N.
func viewMatrix(u, v, n, eye math3d.Vec4) math3d.Mat4 {
	basis := math3d.Identity()
	for col, axis := range [3]math3d.Vec4{u, v, n} {
		basis.Set(0, col, axis.X)
		basis.Set(1, col, axis.Y)
		basis.Set(2, col, axis.Z)
	}
	return basis.Transpose().Mul(math3d.Translate(eye.Vec3().Negate()))
}

// perspectiveMatrix is Mp: x and y scaled by the near distance, depth
// remapped between the planes and w = -z.
func (cam *Camera) perspectiveMatrix() math3d.Mat4 {
	n, f := cam.near, cam.far
	mp := math3d.Identity()
	mp.Set(0, 0, n)
	mp.Set(1, 1, n)
	mp.Set(2, 2, -(f+n)/(f-n))
	mp.Set(2, 3, -2*f*n/(f-n))
	mp.Set(3, 2, -1)
	mp.Set(3, 3, 0)
	return mp
}

// windowMatrix is W2 * S2 * T2 * S1 * T1: the near-plane rectangle to
// [-1,1]^2, then to [0,width]x[0,height] with row 0 at the top.
func (cam *Camera) windowMatrix() math3d.Mat4 {
	top, right := cam.halfHeight, cam.halfWidth
	bottom, left := -top, -right

	t1 := math3d.Translate(math3d.V3(-(right+left)/2, -(top+bottom)/2, 0))
	s1 := math3d.Scale(math3d.V3(2/(right-left), 2/(top-bottom), 1))
	t2 := math3d.Translate(math3d.V3(1, 1, 0))
	s2 := math3d.Scale(math3d.V3(float64(cam.width)/2, float64(cam.height)/2, 1))

	w2 := math3d.Identity()
	w2.Set(1, 1, -1)
	w2.Set(1, 3, float64(cam.height))

	return w2.Mul(s2).Mul(t2).Mul(s1).Mul(t1)
}

// Ray returns the world-space direction (w=0) of the ray from the eye
// through pixel (i, j).
func (cam *Camera) Ray(i, j int) math3d.Vec4 {
	return cam.RayThrough(float64(i), float64(j+1))
}

// RayThrough returns the direction through continuous pixel coordinates
// (x, y). It inverts WorldToPixel: the point Eye + RayThrough(x, y)
// projects to (x, y).
func (cam *Camera) RayThrough(x, y float64) math3d.Vec4 {
	w, h := float64(cam.width), float64(cam.height)
	a := -cam.near
	b := cam.halfWidth * (2*x/w - 1)
	c := cam.halfHeight * (2*(h-y)/h - 1)
	return cam.n.Scale(a).Add(cam.u.Scale(b)).Add(cam.v.Scale(c))
}

// MinimumIntersection tests the ray from the eye along direction against
// every object and returns the hits ordered by increasing t. Objects at the
// same t keep their list order. The result is empty when nothing is hit.
func (cam *Camera) MinimumIntersection(direction math3d.Vec4, objects []models.Object) []Intersection {
	var hits []Intersection
	for i, obj := range objects {
		tinv := obj.InverseTransform()
		t := obj.Intersect(tinv.MulVec4(cam.eye), tinv.MulVec4(direction))
		if t != models.NoHit {
			hits = append(hits, Intersection{Index: i, T: t})
		}
	}
	slices.SortStableFunc(hits, func(a, b Intersection) int {
		return cmp.Compare(a.T, b.T)
	})
	return hits
}

// WorldToViewing applies Mv.
func (cam *Camera) WorldToViewing(p math3d.Vec4) math3d.Vec4 {
	return cam.mv.MulVec4(p)
}

// WorldToImage applies M without the perspective divide.
func (cam *Camera) WorldToImage(p math3d.Vec4) math3d.Vec4 {
	return cam.m.MulVec4(p)
}

// WorldToPixel applies M and divides by w.
func (cam *Camera) WorldToPixel(p math3d.Vec4) (math3d.Vec4, error) {
	return cam.m.MulVec4(p).Homogenize()
}

// ViewingToImage applies C.
func (cam *Camera) ViewingToImage(p math3d.Vec4) math3d.Vec4 {
	return cam.c.MulVec4(p)
}

// ViewingToPixel applies C and divides by w.
func (cam *Camera) ViewingToPixel(p math3d.Vec4) (math3d.Vec4, error) {
	return cam.c.MulVec4(p).Homogenize()
}

// ImageToPixel divides an image-space point by its w.
func (cam *Camera) ImageToPixel(p math3d.Vec4) (math3d.Vec4, error) {
	return p.Homogenize()
}

// ProjectToScreen returns the pixel position of a world point and whether
// the point lies in front of the eye.
func (cam *Camera) ProjectToScreen(p math3d.Vec3) (x, y float64, visible bool) {
	img := cam.WorldToImage(math3d.V4FromV3(p, 1))
	// w is the distance in front of the eye along -N
	if img.W <= 0 {
		return 0, 0, false
	}
	return img.X / img.W, img.Y / img.W, true
}

func (cam *Camera) Up() math3d.Vec4   { return cam.up }
func (cam *Camera) Eye() math3d.Vec4  { return cam.eye }
func (cam *Camera) Gaze() math3d.Vec4 { return cam.gaze }
func (cam *Camera) U() math3d.Vec4    { return cam.u }
func (cam *Camera) V() math3d.Vec4    { return cam.v }
func (cam *Camera) N() math3d.Vec4    { return cam.n }
func (cam *Camera) Mv() math3d.Mat4   { return cam.mv }
func (cam *Camera) C() math3d.Mat4    { return cam.c }
func (cam *Camera) M() math3d.Mat4    { return cam.m }
func (cam *Camera) Near() float64     { return cam.near }
func (cam *Camera) Far() float64      { return cam.far }

// Theta returns the vertical field of view in degrees.
func (cam *Camera) Theta() float64 { return cam.theta }

// Aspect returns width / height.
func (cam *Camera) Aspect() float64 { return cam.aspect }

func (cam *Camera) Width() int  { return cam.width }
func (cam *Camera) Height() int { return cam.height }

// NearPlaneWidth returns half the width of the near-plane window.
func (cam *Camera) NearPlaneWidth() float64 { return cam.halfWidth }

// NearPlaneHeight returns half the height of the near-plane window.
func (cam *Camera) NearPlaneHeight() float64 { return cam.halfHeight }
