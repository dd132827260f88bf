package schema

// MissingFlag marks whether data for one expected interval tick arrived.
type MissingFlag struct {
	PlotTime  int64 `json:"plotTime"`
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
	IsMissing bool  `json:"isMissing"`
}

// MissingAnnotation is one chart annotation summarizing missing ticks in a bucket.
type MissingAnnotation struct {
	DataValue    int64  `json:"dataValue"`
	StartTime    int64  `json:"startTime"`
	EndTime      int64  `json:"endTime"`
	DetailText   string `json:"detailText"`
	MissingCount int    `json:"missingCount"`
}

// SeriesResult is the chart payload for a single series.
type SeriesResult struct {
	DetectorID      string              `json:"detectorId"`
	Feature         string              `json:"feature,omitempty"`
	Entities        EntityList          `json:"entities,omitempty"`
	Range           TimeWindow          `json:"range"`
	TotalPoints     int                 `json:"totalPoints"`
	Points          Series              `json:"points"`
	Annotations     []MissingAnnotation `json:"annotations"`
	MissingSeverity MissingSeverity     `json:"missingSeverity"`
}

// MissingResult is the full list of missing flags for a series.
type MissingResult struct {
	DetectorID      string          `json:"detectorId"`
	Feature         string          `json:"feature,omitempty"`
	Range           TimeWindow      `json:"range"`
	Flags           []MissingFlag   `json:"flags"`
	MissingCount    int             `json:"missingCount"`
	MissingSeverity MissingSeverity `json:"missingSeverity"`
}

// ComboSeries is the downsampled anomaly series of one entity combination.
type ComboSeries struct {
	Entities    EntityList `json:"entities"`
	TotalPoints int        `json:"totalPoints"`
	Points      Series     `json:"points"`
}

// ComboResult holds expanded entity combinations and optionally their series.
type ComboResult struct {
	DetectorID string        `json:"detectorId"`
	Count      int           `json:"count"`
	Combos     []EntityList  `json:"combos"`
	Series     []ComboSeries `json:"series,omitempty"`
}
