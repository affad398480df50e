package weather

import (
	"time"

	"github.com/abdulsamad/weatherx/internal/geo"
	"github.com/abdulsamad/weatherx/internal/units"
)

// Reading is a single weather observation or forecast entry. Current
// readings fill the instantaneous fields; daily entries use the min/max
// pair instead of Temperature.
type Reading struct {
	Time              time.Time `json:"time"`
	Temperature       float64   `json:"temperature"`
	FeelsLike         float64   `json:"feelsLike"`
	TempMin           float64   `json:"tempMin"`
	TempMax           float64   `json:"tempMax"`
	Humidity          float64   `json:"humidity"`
	Pressure          float64   `json:"pressure"`
	WindSpeed         float64   `json:"windSpeed"`
	PrecipProbability float64   `json:"precipProbability"`
	Condition         Condition `json:"condition"`
}

// Snapshot is a point-in-time reading tagged with the place and unit it
// was fetched under.
type Snapshot struct {
	Place     geo.Place  `json:"place"`
	Unit      units.Unit `json:"unit"`
	FetchedAt time.Time  `json:"fetchedAt"`
	Reading   Reading    `json:"reading"`
}

// Series is an ordered sequence of timestamped readings tagged the same
// way as a Snapshot.
type Series struct {
	Place     geo.Place  `json:"place"`
	Unit      units.Unit `json:"unit"`
	FetchedAt time.Time  `json:"fetchedAt"`
	Readings  []Reading  `json:"readings"`
}

// Bundle carries the three datasets of one refresh. They are produced
// from a single provider response, so they are consistent by
// construction and must be committed together.
type Bundle struct {
	Timezone    string   `json:"timezone"`
	Current     Snapshot `json:"current"`
	Next48Hours Series   `json:"next48Hours"`
	Next7Days   Series   `json:"next7Days"`
}
