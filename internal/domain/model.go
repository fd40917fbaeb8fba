package domain

// Resource names used in logs, metrics and published snapshots.
const (
	ResourceStations = "stations"
	ResourceForecast = "forecast"
	ResourceReport   = "report"
)

// TimeStepsKey is the series key holding the forecast time steps as epoch
// milliseconds.
const TimeStepsKey = "time_steps"

// StationRecord is one row of the MOSMIX station catalog.
// ClusterID, Coefficient, ModelHeight and StationType are only populated by
// the fixed-width catalog layout.
type StationRecord struct {
	ID          string  `json:"id"`
	ICAO        *string `json:"icao"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Elevation   int     `json:"elevation"`
	ClusterID   *int    `json:"cluster_id,omitempty"`
	Coefficient *uint   `json:"coefficient,omitempty"`
	ModelHeight *int    `json:"model_height,omitempty"`
	StationType string  `json:"station_type,omitempty"`
}

// ReferenceModel names a numerical model the forecast was derived from.
type ReferenceModel struct {
	Name          string `json:"name"`
	ReferenceTime int64  `json:"reference_time"` // epoch ms, 0 if unparseable
}

// ForecastDocument is one decoded single-station MOSMIX forecast.
//
// Series maps canonical element keys to one value per time step; nil marks a
// value the upstream did not provide. Series[TimeStepsKey] holds the time
// steps themselves. Every slice in Series has exactly TimeStepsCount entries.
type ForecastDocument struct {
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Issuer            string                `json:"issuer"`
	GeneratingProcess string                `json:"generating_process"`
	IssueTime         int64                 `json:"issue_time"` // epoch ms
	ReferenceModels   []ReferenceModel      `json:"reference_models"`
	Coordinates       string                `json:"coordinates"`
	Series            map[string][]*float64 `json:"data"`
	TimeStepsCount    int                   `json:"n_data_points"`

	// DroppedElements counts elements left out of Series because their value
	// count did not match TimeStepsCount or their code is unknown.
	DroppedElements int `json:"-"`
}

// WeatherReport is one decoded POI observation report.
//
// Units maps each property from the header row to its unit. Each Data entry
// holds a "timestamp" (epoch ms) plus one value per reported property: a
// float64 when the cell is numeric, the raw cell text otherwise. Properties
// whose cell was undefined are absent from the entry.
type WeatherReport struct {
	Units map[string]string `json:"units"`
	Data  []map[string]any  `json:"data"`

	// DroppedRows counts data rows rejected for a bad timestamp or too many
	// columns.
	DroppedRows int `json:"-"`
}
