package nominatim

// Address carries the locality fields the resolver's fallback chain
// consumes. Nominatim returns many more; only these are needed.
type Address struct {
	City          string `json:"city"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}

// SearchAPIResponse is one element of the /search result array.
type SearchAPIResponse struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// ReverseAPIResponse is the /reverse result. Nominatim reports lookup
// failures as a 200 with an error field rather than a non-2xx status.
type ReverseAPIResponse struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error"`
}
