package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// RoomTypes returns the distinct room types in order of first appearance.
func RoomTypes(listings []types.Listing) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range listings {
		if l.RoomType == "" {
			continue
		}
		if _, ok := seen[l.RoomType]; ok {
			continue
		}
		seen[l.RoomType] = struct{}{}
		out = append(out, l.RoomType)
	}
	return out
}

// RoomTypeHistogram counts listings per room type, in order of first appearance.
func RoomTypeHistogram(listings []types.Listing) []types.HistogramBucket {
	roomTypes := RoomTypes(listings)
	index := make(map[string]int, len(roomTypes))
	buckets := make([]types.HistogramBucket, len(roomTypes))
	for i, rt := range roomTypes {
		index[rt] = i
		buckets[i] = types.HistogramBucket{RoomType: rt, Label: types.RoomTypeLabel(rt)}
	}
	for _, l := range listings {
		if i, ok := index[l.RoomType]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// PriceDistribution keeps the priced listings of roomType whose price is at most the q
// quantile of that room type, and returns their five-number summary.
func PriceDistribution(listings []types.Listing, roomType string, q float64) (types.PriceDistribution, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return types.PriceDistribution{}, fmt.Errorf("quantile %v out of range [0, 1]", q)
	}

	found := false
	var prices []float64
	for _, l := range listings {
		if l.RoomType != roomType {
			continue
		}
		found = true
		if l.Price != nil && !math.IsNaN(*l.Price) {
			prices = append(prices, *l.Price)
		}
	}
	if !found {
		return types.PriceDistribution{}, fmt.Errorf("%w: %q", ErrUnknownRoomType, roomType)
	}

	dist := types.PriceDistribution{RoomType: roomType, Quantile: q}
	if len(prices) == 0 {
		return dist, nil
	}

	sort.Float64s(prices)
	dist.Threshold = quantileSorted(prices, q)

	kept := prices[:sort.Search(len(prices), func(i int) bool { return prices[i] > dist.Threshold })]
	if len(kept) == 0 {
		return dist, nil
	}

	dist.Count = len(kept)
	dist.Prices = kept
	dist.Min = kept[0]
	dist.Max = kept[len(kept)-1]
	dist.Q1 = quantileSorted(kept, 0.25)
	dist.Median = quantileSorted(kept, 0.5)
	dist.Q3 = quantileSorted(kept, 0.75)
	dist.Mean = Mean(kept)
	return dist, nil
}

// MapPoints returns the first n listings as markers. n is clamped to [min(10, len), len].
func MapPoints(listings []types.Listing, n int) []types.MapPoint {
	lower := 10
	if len(listings) < lower {
		lower = len(listings)
	}
	if n < lower {
		n = lower
	}
	if n > len(listings) {
		n = len(listings)
	}

	points := make([]types.MapPoint, n)
	for i, l := range listings[:n] {
		points[i] = types.MapPoint{
			Name:      l.Name,
			RoomType:  l.RoomType,
			Price:     l.Price,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		}
	}
	return points
}
