package openmeteo

// ForecastAPIResponse is the combined current/hourly/daily forecast
// payload. Timestamps arrive as unix seconds (timeformat=unixtime).
type ForecastAPIResponse struct {
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	Timezone         string      `json:"timezone"`
	UTCOffsetSeconds int         `json:"utc_offset_seconds"`
	Current          CurrentData `json:"current"`
	Hourly           HourlyData  `json:"hourly"`
	Daily            DailyData   `json:"daily"`
}

type CurrentData struct {
	Time                int64   `json:"time"`
	Temperature2M       float64 `json:"temperature_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	RelativeHumidity2M  float64 `json:"relative_humidity_2m"`
	SurfacePressure     float64 `json:"surface_pressure"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed10M        float64 `json:"wind_speed_10m"`
}

type HourlyData struct {
	Time                     []int64   `json:"time"`
	Temperature2M            []float64 `json:"temperature_2m"`
	WeatherCode              []int     `json:"weather_code"`
	PrecipitationProbability []float64 `json:"precipitation_probability"`
	WindSpeed10M             []float64 `json:"wind_speed_10m"`
}

type DailyData struct {
	Time                        []int64   `json:"time"`
	WeatherCode                 []int     `json:"weather_code"`
	Temperature2MMax            []float64 `json:"temperature_2m_max"`
	Temperature2MMin            []float64 `json:"temperature_2m_min"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	WindSpeed10MMax             []float64 `json:"wind_speed_10m_max"`
}
