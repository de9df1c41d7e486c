package math3d

import "fmt"

// GeometryError reports degenerate geometry: a zero-length vector that had to
// be normalized, a perspective divide by w=0, a singular matrix, or a camera
// whose parameters cannot form a basis.
type GeometryError struct {
	Op     string // Operation that failed, e.g. "normalize" or "camera basis"
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Reason)
}

func geometryErr(op, reason string) error {
	return &GeometryError{Op: op, Reason: reason}
}

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-12
