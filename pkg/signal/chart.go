package signal

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"marketpulse/pkg/models"
)

const chartTitle = "Hourly Average Market Sentiment Signal"

// Bucket is the mean composite signal of one time interval
type Bucket struct {
	Start time.Time
	Count int
	Mean  float64
}

// BucketMeans groups rows into consecutive intervals of width size, from the
// interval of the earliest row to that of the latest. Intervals without rows
// are kept with a zero Count.
func BucketMeans(rows []models.SignalRow, size time.Duration) []Bucket {
	if len(rows) == 0 || size <= 0 {
		return nil
	}

	first := rows[0].Timestamp.UTC().Truncate(size)
	last := first
	for _, r := range rows {
		start := r.Timestamp.UTC().Truncate(size)
		if start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}

	n := int(last.Sub(first)/size) + 1
	buckets := make([]Bucket, n)
	sums := make([]float64, n)
	for i := range buckets {
		buckets[i].Start = first.Add(time.Duration(i) * size)
	}
	for _, r := range rows {
		i := int(r.Timestamp.UTC().Truncate(size).Sub(first) / size)
		buckets[i].Count++
		sums[i] += r.CompositeSignal
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].Mean = sums[i] / float64(buckets[i].Count)
		}
	}
	return buckets
}

// RenderChart writes a line chart of the bucketed mean composite signal to
// path as a standalone HTML page. Empty intervals show as gaps.
func RenderChart(path string, buckets []Bucket) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Market sentiment",
			Width:     "1200px",
			Height:    "560px",
			Theme:     types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    chartTitle,
			Subtitle: "composite signal, UTC",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (UTC)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Average Composite Signal"}),
	)

	labels := make([]string, len(buckets))
	points := make([]opts.LineData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Start.Format("2006-01-02 15:04")
		if b.Count == 0 {
			points[i] = opts.LineData{Value: "-"}
			continue
		}
		points[i] = opts.LineData{Value: b.Mean}
	}
	line.SetXAxis(labels).AddSeries("Avg. composite signal", points)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}

var signalLine = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// RenderImage draws the same chart as RenderChart into a static image. The
// format follows the extension of path (.png, .svg, .pdf). Each run of
// consecutive non-empty intervals is one line segment.
func RenderImage(path string, buckets []Bucket) error {
	p := plot.New()
	p.Title.Text = chartTitle
	p.X.Label.Text = "Time (UTC)"
	p.Y.Label.Text = "Average Composite Signal"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02\n15:04"}
	p.Add(plotter.NewGrid())

	for _, run := range contiguousRuns(buckets) {
		line, points, err := plotter.NewLinePoints(run)
		if err != nil {
			return fmt.Errorf("failed to build chart line: %w", err)
		}
		line.Color = signalLine
		points.Color = signalLine
		points.Radius = vg.Points(2)
		p.Add(line, points)
	}

	if err := p.Save(15*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart image: %w", err)
	}
	return nil
}

// contiguousRuns splits buckets at empty intervals. X is the interval start
// in Unix seconds.
func contiguousRuns(buckets []Bucket) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	for _, b := range buckets {
		if b.Count == 0 {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(b.Start.Unix()), Y: b.Mean})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
