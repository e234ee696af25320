package types

// Room type categories as published in the listings file.
const (
	RoomTypeEntireHome = "Entire home/apt"
	RoomTypePrivate    = "Private room"
	RoomTypeShared     = "Shared room"
	RoomTypeHotel      = "Hotel room"
)

// roomTypeLabels holds the labels shown in the dashboard for each room type.
var roomTypeLabels = map[string]string{
	RoomTypeEntireHome: "Maison/Appartement",
	RoomTypePrivate:    "Chambre privée",
	RoomTypeShared:     "Chambre partagée",
	RoomTypeHotel:      "Chambre d'hotel",
}

// RoomTypeLabel returns the display label of a room type, or the room type itself when unknown.
func RoomTypeLabel(roomType string) string {
	if label, ok := roomTypeLabels[roomType]; ok {
		return label
	}
	return roomType
}

// Listing is one rental unit of the listings snapshot.
type Listing struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	HostID             int64    `json:"host_id,omitempty"`
	HostName           string   `json:"host_name,omitempty"`
	NeighbourhoodGroup string   `json:"neighbourhood_group,omitempty"`
	Neighbourhood      string   `json:"neighbourhood"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	RoomType           string   `json:"room_type"`
	Price              *float64 `json:"price"` // nil when the snapshot has no price
	MinimumNights      int      `json:"minimum_nights,omitempty"`
	NumberOfReviews    int      `json:"number_of_reviews,omitempty"`
	Availability365    int      `json:"availability_365,omitempty"`
}

// HasPrice reports whether the listing carries a price.
func (l Listing) HasPrice() bool {
	return l.Price != nil
}
