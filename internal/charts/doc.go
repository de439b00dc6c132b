// Package charts renders ride summary tables as PNG bar charts using
// gonum.org/v1/plot.
//
// Single-dimension tables produce an average-ride-length chart and a
// ride-count chart (hour of day only the count). The crossed weekday and
// rider-type table produces one grouped-bar average chart with a legend
// entry per rider type.
//
// File names are deterministic, <metric>_<table>.png, so re-running a
// pipeline replaces the previous charts instead of accumulating new ones.
// Bars for groups with an undefined mean render at zero height; the numeric
// exports are where undefined statistics stay visible.
package charts
