package evd

import "fmt"

// Bounds are the (min, max) extents in mm of the x, y and z axes.
type Bounds [3][2]float64

const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Detector describes the active volume and the drift constants used to
// turn a drift time into a z position. It is immutable once built.
type Detector struct {
	Bounds Bounds
	// mm/us
	DriftVelocity float64
	// us/tick
	ClockInterval float64
	// +1 or -1 depending on the direction of the drift in z
	Direction int
}

// DefaultDetector is the single module geometry with a 10 MHz clock.
func DefaultDetector() Detector {
	return Detector{
		Bounds:        Bounds{{-150, 150}, {-150, 150}, {0, 300}},
		DriftVelocity: 1.6,
		ClockInterval: 0.1,
		Direction:     1,
	}
}

func (d Detector) DriftDistance() float64 {
	return d.Bounds[AxisZ][1] - d.Bounds[AxisZ][0]
}

// DriftWindow is the maximum drift time in clock ticks.
func (d Detector) DriftWindow() float64 {
	return d.DriftDistance() / (d.DriftVelocity * d.ClockInterval)
}

// DriftZ estimates the z position of an electron that drifted for dt ticks.
func (d Detector) DriftZ(dt float64) float64 {
	return d.Bounds[AxisZ][0] + float64(d.Direction)*dt*d.ClockInterval*d.DriftVelocity
}

func (d Detector) Validate() error {
	names := [3]string{"x", "y", "z"}
	for axis, b := range d.Bounds {
		if !(b[0] < b[1]) {
			return fmt.Errorf("%w: %s bounds [%g, %g]", ErrInvalidDetector, names[axis], b[0], b[1])
		}
	}
	if d.DriftVelocity <= 0 {
		return fmt.Errorf("%w: drift velocity %g", ErrInvalidDetector, d.DriftVelocity)
	}
	if d.ClockInterval <= 0 {
		return fmt.Errorf("%w: clock interval %g", ErrInvalidDetector, d.ClockInterval)
	}
	if d.Direction != 1 && d.Direction != -1 {
		return fmt.Errorf("%w: drift direction %d", ErrInvalidDetector, d.Direction)
	}
	return nil
}

// Point3 is a position in detector coordinates, mm.
type Point3 struct {
	X, Y, Z float64
}

// Segment is a straight line between two points.
type Segment struct {
	From, To Point3
}

// Edges returns the 12 edges of the detector box: 4 along x, 4 along y and
// 4 along z.
func (d Detector) Edges() []Segment {
	b := d.Bounds
	edges := make([]Segment, 0, 12)
	for _, y := range b[AxisY] {
		for _, z := range b[AxisZ] {
			edges = append(edges, Segment{
				From: Point3{b[AxisX][0], y, z},
				To:   Point3{b[AxisX][1], y, z},
			})
		}
	}
	for _, x := range b[AxisX] {
		for _, z := range b[AxisZ] {
			edges = append(edges, Segment{
				From: Point3{x, b[AxisY][0], z},
				To:   Point3{x, b[AxisY][1], z},
			})
		}
	}
	for _, x := range b[AxisX] {
		for _, y := range b[AxisY] {
			edges = append(edges, Segment{
				From: Point3{x, y, b[AxisZ][0]},
				To:   Point3{x, y, b[AxisZ][1]},
			})
		}
	}
	return edges
}
