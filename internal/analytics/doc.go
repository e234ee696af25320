// Package analytics holds the aggregations behind the dashboards: room-type counts,
// price percentiles, neighbourhood statistics and the choropleth binding.
//
// Every function is pure. Inputs are never modified and outputs are freshly allocated,
// so callers can share one dataset between concurrent requests.
package analytics
