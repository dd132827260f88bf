package schema

// WindowDelay is the backend-side lag before data for an interval is queryable.
type WindowDelay struct {
	Interval int      `json:"interval"`
	Unit     TimeUnit `json:"unit"`
}

// Millis returns the delay in milliseconds. Unknown units count as zero;
// callers that care validate the unit first.
func (d WindowDelay) Millis() int64 {
	return int64(d.Interval) * TimeUnitMillis[d.Unit]
}

// Detector holds the metadata of an anomaly detector or forecaster.
type Detector struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	IntervalMinutes int         `json:"intervalMinutes"`
	WindowDelay     WindowDelay `json:"windowDelay"`
	CategoryFields  []string    `json:"categoryFields,omitempty"`
	Features        []string    `json:"features,omitempty"`
	EnabledTime     int64       `json:"enabledTime,omitempty"`  // Epoch ms, zero if never enabled
	DisabledTime    int64       `json:"disabledTime,omitempty"` // Epoch ms, zero if running
}

// IsHighCardinality reports whether the detector is split by category fields.
func (d Detector) IsHighCardinality() bool {
	return len(d.CategoryFields) > 0
}

// IsRunning reports whether the detector has been enabled and not disabled since.
func (d Detector) IsRunning() bool {
	return d.EnabledTime > 0 && d.DisabledTime < d.EnabledTime
}

// AnomalyResult is one raw anomaly result row as returned by the backend.
type AnomalyResult struct {
	AnomalyGrade float64    `json:"anomalyGrade"`
	Confidence   float64    `json:"confidence"`
	StartTime    int64      `json:"startTime"`
	EndTime      int64      `json:"endTime"`
	PlotTime     int64      `json:"plotTime"`
	Entity       EntityList `json:"entity,omitempty"`
}

// ToPoint converts the result into a chartable point graded by anomaly grade.
func (r AnomalyResult) ToPoint() TimePoint {
	return TimePoint{Timestamp: r.PlotTime, Value: r.AnomalyGrade, Severity: r.AnomalyGrade}
}

// FeatureResult is one raw feature data point.
type FeatureResult struct {
	PlotTime  int64      `json:"plotTime"`
	StartTime int64      `json:"startTime"`
	EndTime   int64      `json:"endTime"`
	Value     float64    `json:"value"`
	Entity    EntityList `json:"entity,omitempty"`
}

// ToPoint converts the feature value into an ungraded point.
func (r FeatureResult) ToPoint() TimePoint {
	return TimePoint{Timestamp: r.PlotTime, Value: r.Value}
}

// ResultQuery selects raw results for a detector.
type ResultQuery struct {
	DetectorID string
	Range      TimeWindow
	Entities   EntityList // Optional entity filter; every pair must match
}

// ResultBundle is the on-disk JSON format read by the file source.
type ResultBundle struct {
	Detector  Detector                   `json:"detector"`
	Anomalies []AnomalyResult            `json:"anomalies"`
	Features  map[string][]FeatureResult `json:"features,omitempty"`
}
