package evd

import "math"

// View is an orthographic camera looking at the origin, angles in degrees.
type View struct {
	Elevation float64
	Azimuth   float64
}

// DefaultView matches matplotlib's default 3D axes orientation.
func DefaultView() View {
	return View{Elevation: 30, Azimuth: -60}
}

// Project returns the horizontal and vertical screen coordinates of p.
func (v View) Project(p Point3) (float64, float64) {
	az := v.Azimuth * math.Pi / 180
	el := v.Elevation * math.Pi / 180
	u := -p.X*math.Sin(az) + p.Y*math.Cos(az)
	w := -(p.X*math.Cos(az)+p.Y*math.Sin(az))*math.Sin(el) + p.Z*math.Cos(el)
	return u, w
}

// frame is the 2D window, in projected coordinates, the figure shows.
type frame struct {
	uMin, uMax float64
	wMin, wMax float64
}

func newFrame() frame {
	return frame{
		uMin: math.Inf(1), uMax: math.Inf(-1),
		wMin: math.Inf(1), wMax: math.Inf(-1),
	}
}

func (f *frame) add(u, w float64) {
	f.uMin = math.Min(f.uMin, u)
	f.uMax = math.Max(f.uMax, u)
	f.wMin = math.Min(f.wMin, w)
	f.wMax = math.Max(f.wMax, w)
}

// pad grows the frame by a fraction of its size on every side.
func (f *frame) pad(fraction float64) {
	du := (f.uMax - f.uMin) * fraction
	dw := (f.wMax - f.wMin) * fraction
	if du == 0 {
		du = 1
	}
	if dw == 0 {
		dw = 1
	}
	f.uMin -= du
	f.uMax += du
	f.wMin -= dw
	f.wMax += dw
}
