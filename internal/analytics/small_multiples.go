package analytics

import (
	"fmt"
	"sort"

	"github.com/FACorreiaa/go-rental-dashboard/internal/types"
)

// Columns accepted as the x axis of the small multiples.
const (
	ColumnNeighbourhood = "neighbourhood"
	ColumnRoomType      = "room_type"
)

// RoomTypeCounts counts listings per (room type, neighbourhood) pair, sorted by room
// type then neighbourhood. Listings without a room type or neighbourhood are ignored.
func RoomTypeCounts(listings []types.Listing) []types.RoomTypeCount {
	type key struct{ roomType, neighbourhood string }
	counts := make(map[key]int)
	for _, l := range listings {
		if l.RoomType == "" || l.Neighbourhood == "" {
			continue
		}
		counts[key{l.RoomType, l.Neighbourhood}]++
	}

	out := make([]types.RoomTypeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, types.RoomTypeCount{RoomType: k.roomType, Neighbourhood: k.neighbourhood, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoomType != out[j].RoomType {
			return out[i].RoomType < out[j].RoomType
		}
		return out[i].Neighbourhood < out[j].Neighbourhood
	})
	return out
}

// FacetColumn returns the column the charts are split on when column is on the x axis.
func FacetColumn(column string) (string, error) {
	switch column {
	case ColumnNeighbourhood:
		return ColumnRoomType, nil
	case ColumnRoomType:
		return ColumnNeighbourhood, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
}

// SmallMultiples splits counts into one facet per distinct value of the facet column,
// in order of first appearance. Each facet holds one bar per row of that value.
func SmallMultiples(counts []types.RoomTypeCount, column string) (types.SmallMultiples, error) {
	facetColumn, err := FacetColumn(column)
	if err != nil {
		return types.SmallMultiples{}, err
	}

	pick := func(c types.RoomTypeCount, col string) string {
		if col == ColumnRoomType {
			return c.RoomType
		}
		return c.Neighbourhood
	}

	result := types.SmallMultiples{Column: column, FacetColumn: facetColumn}
	index := make(map[string]int)
	for _, c := range counts {
		value := pick(c, facetColumn)
		i, ok := index[value]
		if !ok {
			i = len(result.Facets)
			index[value] = i
			result.Facets = append(result.Facets, types.Facet{
				Value: value,
				Title: fmt.Sprintf("Nombre de %s par quartier parisien", value),
			})
		}
		result.Facets[i].Bars = append(result.Facets[i].Bars, types.Bar{
			Label:         pick(c, column),
			Neighbourhood: c.Neighbourhood,
			Count:         c.Count,
		})
	}
	return result, nil
}
