// Package export renders comparison runs to PNG charts: one chart per
// state variable, nonlinear trajectory solid, linearization dashed.
package export

import (
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/tanklab/internal/sim"
)

var (
	actualColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	linearColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// WriteComparison writes height.png and temperature.png into dir and
// returns their paths.
func WriteComparison(dir string, cmp sim.Comparison) ([]string, error) {
	heightPath := filepath.Join(dir, "height.png")
	if err := writeOverlay(heightPath, "Water Height: Actual vs Linearization", "Meters",
		cmp.Nonlinear.Heights, cmp.Linear.Heights); err != nil {
		return nil, err
	}

	tempPath := filepath.Join(dir, "temperature.png")
	if err := writeOverlay(tempPath, "Water Temp: Actual vs Linearization", "Degrees",
		cmp.Nonlinear.Temps, cmp.Linear.Temps); err != nil {
		return nil, err
	}

	return []string{heightPath, tempPath}, nil
}

func writeOverlay(path, title, yLabel string, actual, linear []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = yLabel

	actualLine, err := plotter.NewLine(points(actual))
	if err != nil {
		return err
	}
	actualLine.Color = actualColor

	linearLine, err := plotter.NewLine(points(linear))
	if err != nil {
		return err
	}
	linearLine.Color = linearColor
	linearLine.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	p.Add(actualLine, linearLine)
	p.Legend.Add("actual", actualLine)
	p.Legend.Add("linear", linearLine)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

func points(series []float64) plotter.XYs {
	pts := make(plotter.XYs, len(series))
	for i, v := range series {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	return pts
}
