package charts

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cyclecli/internal/config"
	apperrors "cyclecli/internal/errors"
	"cyclecli/internal/infrastructure"
	"cyclecli/pkg/contracts/domain"
)

// Metric selects which statistic a chart plots.
type Metric string

const (
	// MetricAvgRideLength plots the mean ride length in minutes.
	MetricAvgRideLength Metric = "avg_ride_length"
	// MetricRideCount plots the number of rides.
	MetricRideCount Metric = "ride_count"
)

// barPalette colors bar series. Grouped charts take one color per series in
// series order, so the same rider type keeps the same color across charts.
var barPalette = []color.RGBA{
	{R: 70, G: 130, B: 180, A: 255},
	{R: 255, G: 140, B: 0, A: 255},
	{R: 60, G: 179, B: 113, A: 255},
	{R: 186, G: 85, B: 211, A: 255},
}

// Renderer draws summary tables as vertical bar charts in PNG form. Chart
// file names derive from the metric and table name alone, so a re-run
// overwrites the previous run's charts in place.
type Renderer struct {
	paths  *config.Paths
	cfg    config.ChartsConfig
	logger *slog.Logger
}

// NewRenderer creates a chart renderer
func NewRenderer(paths *config.Paths, cfg config.ChartsConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		paths:  paths,
		cfg:    cfg,
		logger: infrastructure.WithComponent(logger, "charts"),
	}
}

// ChartFileName is the deterministic file name for one chart,
// e.g. ("avg_ride_length", "by_weekday") -> "avg_ride_length_by_weekday.png".
func ChartFileName(metric Metric, tableName string) string {
	return fmt.Sprintf("%s_%s%s", metric, tableName, config.ChartFileExtension)
}

// RenderAll renders the chart set for every table and returns the paths
// written, in render order.
func (r *Renderer) RenderAll(tables []*domain.SummaryTable) ([]string, error) {
	r.logger.Info("rendering ride charts", slog.Int("tables", len(tables)))

	var written []string
	for _, table := range tables {
		paths, err := r.RenderTable(table)
		written = append(written, paths...)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// RenderTable renders the charts one table calls for: single-dimension tables
// get an average ride length chart and a ride count chart, except hour of day
// which only gets the count; crossed tables get one grouped average chart.
func (r *Renderer) RenderTable(table *domain.SummaryTable) ([]string, error) {
	if err := domain.ValidateSummaryTable(table); err != nil {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("summary table is not renderable: %v", err))
	}
	if err := os.MkdirAll(r.paths.ChartsDir, 0755); err != nil {
		return nil, apperrors.NewChartError("failed to create charts directory", err)
	}

	var written []string
	for _, metric := range chartMetrics(table) {
		path := r.paths.GetChartPath(ChartFileName(metric, table.Name))

		var err error
		if len(table.Dimensions) > 1 {
			err = r.renderGrouped(table, metric, path)
		} else {
			err = r.renderBars(table, metric, path)
		}
		if err != nil {
			return written, err
		}

		r.logger.Info("chart rendered",
			slog.String("table", table.Name),
			slog.String("metric", string(metric)),
			slog.String("file", path))
		written = append(written, path)
	}
	return written, nil
}

// chartMetrics decides the chart set for a table. Hour-of-day averages and
// crossed counts add little over the tables they come from, so those stay
// CSV-only.
func chartMetrics(table *domain.SummaryTable) []Metric {
	if len(table.Dimensions) > 1 {
		return []Metric{MetricAvgRideLength}
	}
	if table.Dimensions[0] == domain.DimensionHourOfDay {
		return []Metric{MetricRideCount}
	}
	return []Metric{MetricAvgRideLength, MetricRideCount}
}

// renderBars draws one bar per row of a single-dimension table.
func (r *Renderer) renderBars(table *domain.SummaryTable, metric Metric, path string) error {
	labels := make([]string, len(table.Rows))
	values := make(plotter.Values, len(table.Rows))
	for i, row := range table.Rows {
		labels[i] = row.Keys[0].Label
		values[i] = metricValue(row.Stats, metric)
	}

	p := plot.New()
	p.Title.Text = chartTitle(table, metric)
	p.Y.Label.Text = yLabel(metric)

	bars, err := plotter.NewBarChart(values, r.barWidth(len(values)))
	if err != nil {
		return apperrors.NewChartError("failed to build bar chart", err).
			WithContext("file", path)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barPalette[0]
	p.Add(bars)
	p.NominalX(labels...)

	return r.save(p, path)
}

// renderGrouped draws one bar series per second-dimension value, side by side
// within each first-dimension group. Combinations the data never produced
// draw as zero-height bars.
func (r *Renderer) renderGrouped(table *domain.SummaryTable, metric Metric, path string) error {
	groups, series := groupedAxes(table)

	byCell := make(map[string]map[string]float64, len(groups))
	for _, row := range table.Rows {
		g, s := row.Keys[0].Label, row.Keys[1].Label
		if byCell[g] == nil {
			byCell[g] = make(map[string]float64, len(series))
		}
		byCell[g][s] = metricValue(row.Stats, metric)
	}

	p := plot.New()
	p.Title.Text = chartTitle(table, metric)
	p.Y.Label.Text = yLabel(metric)
	p.Legend.Top = true

	width := r.barWidth(len(groups) * len(series))
	for i, s := range series {
		values := make(plotter.Values, len(groups))
		for j, g := range groups {
			values[j] = byCell[g][s]
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return apperrors.NewChartError("failed to build grouped bar chart", err).
				WithContext("file", path)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = barPalette[i%len(barPalette)]
		bars.Offset = vg.Length(float64(i)-float64(len(series)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s, bars)
	}
	p.NominalX(groups...)

	return r.save(p, path)
}

// groupedAxes returns the distinct first-dimension labels (chart groups, in
// the table's row order) and second-dimension labels (bar series, sorted so
// legend order does not depend on which combinations were observed).
func groupedAxes(table *domain.SummaryTable) (groups, series []string) {
	seenGroup := make(map[string]bool)
	seenSeries := make(map[string]bool)
	for _, row := range table.Rows {
		if g := row.Keys[0].Label; !seenGroup[g] {
			seenGroup[g] = true
			groups = append(groups, g)
		}
		if s := row.Keys[1].Label; !seenSeries[s] {
			seenSeries[s] = true
			series = append(series, s)
		}
	}
	sort.Strings(series)
	return groups, series
}

// metricValue picks the plotted statistic. An undefined mean draws at zero
// height; the CSV and JSON exports keep the NaN.
func metricValue(stats domain.RideLengthStats, metric Metric) float64 {
	if metric == MetricRideCount {
		return float64(stats.Count)
	}
	if math.IsNaN(stats.Mean) {
		return 0
	}
	return stats.Mean
}

func chartTitle(table *domain.SummaryTable, metric Metric) string {
	if metric == MetricRideCount {
		return "Ride count " + table.Title()
	}
	return "Average ride length " + table.Title()
}

func yLabel(metric Metric) string {
	if metric == MetricRideCount {
		return "Rides"
	}
	return "Minutes"
}

// barWidth sizes bars to the nominal slot so dense tables (24 hours, crossed
// weekday series) stay separated.
func (r *Renderer) barWidth(slots int) vg.Length {
	width := vg.Length(r.cfg.WidthInches) * vg.Inch / vg.Length(slots+1)
	if width > vg.Points(24) {
		width = vg.Points(24)
	}
	return width
}

func (r *Renderer) save(p *plot.Plot, path string) error {
	w := vg.Length(r.cfg.WidthInches) * vg.Inch
	h := vg.Length(r.cfg.HeightInches) * vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return apperrors.NewChartError("failed to save chart", err).
			WithContext("file", path)
	}
	return nil
}
