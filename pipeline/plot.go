package pipeline

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveImportancePlot renders the ranked feature importances as a bar chart
// and writes it to path (format by extension, PNG in the reference run).
func SaveImportancePlot(res *TrainResult, path string) error {
	imps, err := FeatureImportances(res)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Feature Importances"
	p.Y.Label.Text = "Importance"
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -1

	values := make(plotter.Values, len(imps))
	names := make([]string, len(imps))
	for i, imp := range imps {
		values[i] = imp.Score
		names[i] = imp.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return errors.Wrap(err, "pipeline: build importance chart")
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "pipeline: save importance chart to %s", path)
	}
	return nil
}
