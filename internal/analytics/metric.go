package analytics

import (
	"fmt"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// Metric selects the neighbourhood statistic used to colour and rank neighbourhoods.
type Metric string

const (
	MetricCount       Metric = "count"
	MetricAvgPrice    Metric = "avg_price"
	MetricEntireShare Metric = "entire_share"
)

// Metrics lists the selectable metrics in selector order.
var Metrics = []Metric{MetricCount, MetricAvgPrice, MetricEntireShare}

var metricOptions = map[Metric]string{
	MetricCount:       "Nombre de logements",
	MetricAvgPrice:    "Prix moyen",
	MetricEntireShare: "Part de logement entier",
}

var metricLabels = map[Metric]string{
	MetricCount:       "Nombre de logements",
	MetricAvgPrice:    "Prix moyen (€)",
	MetricEntireShare: "Pourcentage de logements entiers (%)",
}

// ParseMetric accepts a metric key or its selector option text.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if s == string(m) || s == metricOptions[m] {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Option is the text shown in the statistic selector.
func (m Metric) Option() string { return metricOptions[m] }

// Label is the axis and legend label of the metric.
func (m Metric) Label() string { return metricLabels[m] }

// Value extracts the metric from a stat. ok is false when the value is missing.
func (m Metric) Value(s types.NeighbourhoodStat) (v float64, ok bool) {
	switch m {
	case MetricCount:
		return float64(s.Count), true
	case MetricAvgPrice:
		if s.AvgPrice == nil {
			return 0, false
		}
		return *s.AvgPrice, true
	case MetricEntireShare:
		return s.EntireShare, true
	}
	return 0, false
}
