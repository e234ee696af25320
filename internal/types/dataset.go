package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// NeighbourhoodBoundary is the polygon geometry of a named district.
type NeighbourhoodBoundary struct {
	Name     string       `json:"neighbourhood"`
	Group    string       `json:"neighbourhood_group,omitempty"`
	Geometry orb.Geometry `json:"-"`
}

// Dataset is one immutable snapshot of listings and boundaries for a city.
// It is shared between requests and must not be modified after construction.
type Dataset struct {
	SnapshotID uuid.UUID
	City       string
	SourceURL  string
	FetchedAt  time.Time
	Columns    []string
	Listings   []Listing
	Boundaries []NeighbourhoodBoundary
}

// DatasetInfo describes a dataset without its rows.
type DatasetInfo struct {
	SnapshotID     uuid.UUID `json:"snapshot_id"`
	City           string    `json:"city"`
	SourceURL      string    `json:"source_url"`
	FetchedAt      time.Time `json:"fetched_at"`
	Columns        []string  `json:"columns"`
	Listings       int       `json:"listings"`
	Neighbourhoods int       `json:"neighbourhoods"`
}

// Info summarises the dataset.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		SnapshotID:     d.SnapshotID,
		City:           d.City,
		SourceURL:      d.SourceURL,
		FetchedAt:      d.FetchedAt,
		Columns:        d.Columns,
		Listings:       len(d.Listings),
		Neighbourhoods: len(d.Boundaries),
	}
}
