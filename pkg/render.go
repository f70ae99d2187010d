package evd

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Renderer draws the hits selected for one event.
type Renderer interface {
	Render(sel Selection) error
}

const (
	colorbarSteps = 64
	colorbarWidth = 16
	hitDotWidth   = 3
)

// ChartRenderer draws a projected 3D scatter of the hits colored by charge,
// the detector box and a colorbar into a PNG file, then hands the file to
// its Display.
type ChartRenderer struct {
	Detector  Detector
	View      View
	OutputDir string
	Width     int
	Height    int
	Display   Display
}

func NewChartRenderer(det Detector, outputDir string, display Display) *ChartRenderer {
	return &ChartRenderer{
		Detector:  det,
		View:      DefaultView(),
		OutputDir: outputDir,
		Width:     1024,
		Height:    768,
		Display:   display,
	}
}

func (r *ChartRenderer) Render(sel Selection) error {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	path := filepath.Join(r.OutputDir, fmt.Sprintf("event_%d.png", sel.Event.ID))
	f, err := os.Create(path)
	if err != nil {
		return &ErrOpenFile{Filename: path, Err: err}
	}
	if err := r.Draw(sel, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Event %d: %d hits written to %s", sel.Event.ID, sel.Len(), path)
		logger.Info(message, "render")
	}
	return r.Display.Show(path, sel)
}

// Draw writes the figure for sel as PNG.
func (r *ChartRenderer) Draw(sel Selection, w io.Writer) error {
	graph := r.Chart(sel)
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("error rendering event %d: %w", sel.Event.ID, err)
	}
	return nil
}

func (r *ChartRenderer) Chart(sel Selection) chart.Chart {
	edges := r.Detector.Edges()

	fr := newFrame()
	for _, edge := range edges {
		fr.add(r.View.Project(edge.From))
		fr.add(r.View.Project(edge.To))
	}
	us := make([]float64, sel.Len())
	ws := make([]float64, sel.Len())
	for i := range sel.HitIDs {
		us[i], ws[i] = r.View.Project(Point3{sel.X[i], sel.Y[i], sel.Z[i]})
		fr.add(us[i], ws[i])
	}
	fr.pad(0.05)

	series := make([]chart.Series, 0, len(edges)+1)
	for _, edge := range edges {
		u0, w0 := r.View.Project(edge.From)
		u1, w1 := r.View.Project(edge.To)
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{u0, u1},
			YValues: []float64{w0, w1},
			Style: chart.Style{
				StrokeColor:     drawing.ColorBlack,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}

	qMin, qMax := chargeRange(sel.Q)
	// go-chart rejects empty series, an event without hits only shows the box
	if sel.Len() > 0 {
		q := sel.Q
		series = append(series, chart.ContinuousSeries{
			Name:    "hits",
			XValues: us,
			YValues: ws,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    hitDotWidth,
				DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
					return chart.Viridis(q[index], qMin, qMax)
				},
			},
		})
	}

	return chart.Chart{
		Title:  fmt.Sprintf("Event %d (%d hits)", sel.Event.ID, sel.Len()),
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 40, Right: 110, Bottom: 40},
		},
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: fr.uMin, Max: fr.uMax},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: fr.wMin, Max: fr.wMax},
		},
		Series: series,
		Elements: []chart.Renderable{
			r.axisLabels(fr),
			colorbar(sel.Len() > 0, qMin, qMax),
		},
	}
}

// chargeRange returns the colormap limits. A single charge value is
// centred in a unit wide range.
func chargeRange(q []float64) (float64, float64) {
	if len(q) == 0 {
		return 0, 1
	}
	qMin, qMax := math.Inf(1), math.Inf(-1)
	for _, v := range q {
		qMin = math.Min(qMin, v)
		qMax = math.Max(qMax, v)
	}
	if qMin == qMax {
		return qMin - 0.5, qMax + 0.5
	}
	return qMin, qMax
}

// toCanvas maps projected coordinates to pixels inside the plot box.
func toCanvas(box chart.Box, fr frame, u, w float64) (int, int) {
	x := box.Left + int((u-fr.uMin)/(fr.uMax-fr.uMin)*float64(box.Width()))
	y := box.Bottom - int((w-fr.wMin)/(fr.wMax-fr.wMin)*float64(box.Height()))
	return x, y
}

func (r *ChartRenderer) axisLabels(fr frame) chart.Renderable {
	b := r.Detector.Bounds
	mid := func(axis int) float64 {
		return (b[axis][0] + b[axis][1]) / 2
	}
	labels := []struct {
		text   string
		anchor Point3
		dx, dy int
	}{
		{"x [mm]", Point3{mid(AxisX), b[AxisY][0], b[AxisZ][0]}, 0, 24},
		{"y [mm]", Point3{b[AxisX][1], mid(AxisY), b[AxisZ][0]}, 10, 24},
		{"z (drift) [mm]", Point3{b[AxisX][0], b[AxisY][0], mid(AxisZ)}, -10, 0},
	}

	return func(rend chart.Renderer, box chart.Box, defaults chart.Style) {
		rend.SetFont(defaults.GetFont())
		rend.SetFontColor(drawing.ColorBlack)
		rend.SetFontSize(11)
		for _, label := range labels {
			u, w := r.View.Project(label.anchor)
			x, y := toCanvas(box, fr, u, w)
			size := rend.MeasureText(label.text)
			x += label.dx
			if label.dx < 0 {
				x -= size.Width()
			} else if label.dx == 0 {
				x -= size.Width() / 2
			}
			rend.Text(label.text, x, y+label.dy)
		}
	}
}

func colorbar(hasHits bool, qMin, qMax float64) chart.Renderable {
	return func(rend chart.Renderer, box chart.Box, defaults chart.Style) {
		left := box.Right + 30
		right := left + colorbarWidth
		height := box.Height()

		if hasHits {
			for i := 0; i < colorbarSteps; i++ {
				top := box.Bottom - (i+1)*height/colorbarSteps
				bottom := box.Bottom - i*height/colorbarSteps
				t := (float64(i) + 0.5) / colorbarSteps
				rend.SetFillColor(chart.Viridis(t, 0, 1))
				rend.MoveTo(left, top)
				rend.LineTo(right, top)
				rend.LineTo(right, bottom)
				rend.LineTo(left, bottom)
				rend.Close()
				rend.Fill()
			}
		}

		rend.SetStrokeColor(drawing.ColorBlack)
		rend.SetStrokeWidth(1)
		rend.SetStrokeDashArray(nil)
		rend.MoveTo(left, box.Top)
		rend.LineTo(right, box.Top)
		rend.LineTo(right, box.Bottom)
		rend.LineTo(left, box.Bottom)
		rend.LineTo(left, box.Top)
		rend.Stroke()

		rend.SetFont(defaults.GetFont())
		rend.SetFontColor(drawing.ColorBlack)
		rend.SetFontSize(9)
		if hasHits {
			rend.Text(fmt.Sprintf("%.1f", qMax), right+4, box.Top+8)
			rend.Text(fmt.Sprintf("%.1f", qMin), right+4, box.Bottom)
		}

		rend.SetFontSize(11)
		rend.SetTextRotation(chart.DegreesToRadians(90))
		rend.Text("Charge", right+40, box.Top+height/2-20)
		rend.ClearTextRotation()
	}
}

// RecordingRenderer keeps every selection in memory instead of drawing it.
type RecordingRenderer struct {
	Selections []Selection
}

func (r *RecordingRenderer) Render(sel Selection) error {
	r.Selections = append(r.Selections, sel)
	return nil
}
