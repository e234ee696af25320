package analytics

import (
	"math"
	"sort"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// NeighbourhoodStats aggregates listings per neighbourhood, sorted by neighbourhood name.
// Listings without a neighbourhood are ignored.
func NeighbourhoodStats(listings []types.Listing) []types.NeighbourhoodStat {
	type acc struct {
		count, entire, priced int
		priceSum             float64
	}
	accs := make(map[string]*acc)
	for _, l := range listings {
		if l.Neighbourhood == "" {
			continue
		}
		a, ok := accs[l.Neighbourhood]
		if !ok {
			a = &acc{}
			accs[l.Neighbourhood] = a
		}
		a.count++
		if l.RoomType == types.RoomTypeEntireHome {
			a.entire++
		}
		if l.Price != nil && !math.IsNaN(*l.Price) {
			a.priced++
			a.priceSum += *l.Price
		}
	}

	stats := make([]types.NeighbourhoodStat, 0, len(accs))
	for name, a := range accs {
		s := types.NeighbourhoodStat{
			Neighbourhood: name,
			Count:         a.count,
			EntireCount:   a.entire,
			EntireShare:   float64(a.entire) / float64(a.count) * 100,
		}
		if a.priced > 0 {
			avg := a.priceSum / float64(a.priced)
			s.AvgPrice = &avg
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Neighbourhood < stats[j].Neighbourhood })
	return stats
}

// MaxCount returns the largest listing count, 0 for no stats.
func MaxCount(stats []types.NeighbourhoodStat) int {
	max := 0
	for _, s := range stats {
		if s.Count > max {
			max = s.Count
		}
	}
	return max
}

// FilterMinCount keeps the neighbourhoods with at least min listings.
func FilterMinCount(stats []types.NeighbourhoodStat, min int) []types.NeighbourhoodStat {
	out := make([]types.NeighbourhoodStat, 0, len(stats))
	for _, s := range stats {
		if s.Count >= min {
			out = append(out, s)
		}
	}
	return out
}

// SortByMetric returns a copy of stats ordered by metric, largest first.
// Missing values go last and ties keep their input order.
func SortByMetric(stats []types.NeighbourhoodStat, metric Metric) []types.NeighbourhoodStat {
	out := append([]types.NeighbourhoodStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, oki := metric.Value(out[i])
		vj, okj := metric.Value(out[j])
		if oki != okj {
			return oki
		}
		return vi > vj
	})
	return out
}

// Summarize counts the neighbourhoods and the listings they hold.
func Summarize(stats []types.NeighbourhoodStat) types.Summary {
	sum := types.Summary{Neighbourhoods: len(stats)}
	for _, s := range stats {
		sum.Listings += s.Count
	}
	return sum
}
