package render

import (
	"image/color"
	"math"

	"github.com/taigrr/phong/pkg/math3d"
	"github.com/taigrr/phong/pkg/models"
)

// Wireframe draws debug geometry over a traced image using the same camera.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// boxEdges index AABB.Corners: bit 0 selects X, bit 1 Y, bit 2 Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// DrawLine3D draws a world-space segment. Segments with an endpoint behind
// the eye are skipped rather than clipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c color.RGBA) {
	x1, y1, vis1 := w.camera.ProjectToScreen(p1)
	x2, y2, vis2 := w.camera.ProjectToScreen(p2)
	if !vis1 || !vis2 {
		return
	}
	if !onCanvas(x1, y1) || !onCanvas(x2, y2) {
		return
	}
	w.fb.DrawLine(int(math.Floor(x1)), int(math.Floor(y1)), int(math.Floor(x2)), int(math.Floor(y2)), c)
}

// onCanvas rejects projections far enough out to make Bresenham crawl.
func onCanvas(x, y float64) bool {
	const limit = 1 << 16
	return math.Abs(x) < limit && math.Abs(y) < limit
}

// DrawBox draws the edges of a local-space box placed by transform.
func (w *Wireframe) DrawBox(transform math3d.Mat4, box models.AABB, c color.RGBA) {
	local := box.Corners()
	var world [8]math3d.Vec3
	for i, p := range local {
		world[i] = transform.MulVec4(math3d.V4FromV3(p, 1)).Vec3()
	}
	for _, e := range boxEdges {
		w.DrawLine3D(world[e[0]], world[e[1]], c)
	}
}

// DrawAxes draws an object's local X, Y and Z axes in red, green and blue.
func (w *Wireframe) DrawAxes(transform math3d.Mat4, length float64) {
	origin := transform.MulVec4(math3d.Point(0, 0, 0)).Vec3()
	axes := []struct {
		tip math3d.Vec4
		c   color.RGBA
	}{
		{math3d.Point(length, 0, 0), ColorRed},
		{math3d.Point(0, length, 0), ColorGreen},
		{math3d.Point(0, 0, length), ColorBlue},
	}
	for _, a := range axes {
		w.DrawLine3D(origin, transform.MulVec4(a.tip).Vec3(), a.c)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, c color.RGBA) {
	h := size / 2
	w.DrawLine3D(pos.Sub(math3d.V3(h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	w.DrawLine3D(pos.Sub(math3d.V3(0, h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	w.DrawLine3D(pos.Sub(math3d.V3(0, 0, h)), pos.Add(math3d.V3(0, 0, h)), c)
}

// DrawObject outlines an object's local bounds and axes.
func (w *Wireframe) DrawObject(obj models.Object, c color.RGBA) {
	t := obj.Transform()
	w.DrawBox(t, localBounds(obj), c)
	w.DrawAxes(t, 1.5)
}

// DrawScene outlines every object and marks every light.
func (w *Wireframe) DrawScene(objects []models.Object, lights []models.Light) {
	for _, obj := range objects {
		w.DrawObject(obj, ColorGray)
	}
	for _, l := range lights {
		w.DrawPoint(l.Position().Vec3(), 0.5, ColorWhite)
	}
}

func localBounds(obj models.Object) models.AABB {
	switch o := obj.(type) {
	case *models.Mesh:
		return o.Bounds()
	case *models.Plane:
		// Infinite; show the unit square around the origin
		return models.NewAABB(math3d.V3(-1, -1, 0), math3d.V3(1, 1, 0))
	default:
		return models.NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	}
}
