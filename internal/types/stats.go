package types

// RoomTypeCount is the number of listings of one room type in one neighbourhood.
type RoomTypeCount struct {
	RoomType      string `json:"room_type"`
	Neighbourhood string `json:"neighbourhood"`
	Count         int    `json:"count"`
}

// Bar is one bar of a facet chart.
type Bar struct {
	Label         string `json:"label"`
	Neighbourhood string `json:"neighbourhood"`
	Count         int    `json:"count"`
}

// Facet is one chart of the small multiples.
type Facet struct {
	Value string `json:"value"`
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
}

// SmallMultiples groups room-type counts into one facet per value of the facet column.
type SmallMultiples struct {
	Column      string  `json:"column"`
	FacetColumn string  `json:"facet_column"`
	Facets      []Facet `json:"facets"`
}

// HistogramBucket counts listings of one room type.
type HistogramBucket struct {
	RoomType string `json:"room_type"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

// PriceDistribution summarises the prices of one room type below a quantile threshold.
type PriceDistribution struct {
	RoomType  string    `json:"room_type"`
	Quantile  float64   `json:"quantile"`
	Threshold float64   `json:"threshold"`
	Count     int       `json:"count"`
	Min       float64   `json:"min"`
	Q1        float64   `json:"q1"`
	Median    float64   `json:"median"`
	Q3        float64   `json:"q3"`
	Max       float64   `json:"max"`
	Mean      float64   `json:"mean"`
	Prices    []float64 `json:"prices,omitempty"`
}

// MapPoint is a listing marker.
type MapPoint struct {
	Name      string   `json:"name"`
	RoomType  string   `json:"room_type"`
	Price     *float64 `json:"price"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// NeighbourhoodStat aggregates the listings of one neighbourhood.
type NeighbourhoodStat struct {
	Neighbourhood string   `json:"neighbourhood"`
	Count         int      `json:"count"`
	AvgPrice      *float64 `json:"avg_price"` // nil when no listing has a price
	EntireCount   int      `json:"entire_count"`
	EntireShare   float64  `json:"entire_share"`
}

// Summary holds the headline figures of a set of neighbourhood stats.
type Summary struct {
	Neighbourhoods int `json:"neighbourhoods"`
	Listings       int `json:"listings"`
}
