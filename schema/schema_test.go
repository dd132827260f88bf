package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow(t *testing.T) {
	w := TimeWindow{StartDate: 100, EndDate: 200}
	assert.NoError(t, w.Validate())
	assert.Equal(t, int64(100), w.Duration())
	assert.True(t, w.Contains(100))
	assert.True(t, w.Contains(199))
	assert.False(t, w.Contains(200)) // half-open
	assert.False(t, w.Contains(99))

	assert.NoError(t, TimeWindow{StartDate: 5, EndDate: 5}.Validate())
	assert.Error(t, TimeWindow{StartDate: 6, EndDate: 5}.Validate())
}

func TestWindowDelayMillis(t *testing.T) {
	tests := []struct {
		delay WindowDelay
		want  int64
	}{
		{WindowDelay{Interval: 1, Unit: Minutes}, OneMinuteMillis},
		{WindowDelay{Interval: 30, Unit: Seconds}, 30 * OneSecondMillis},
		{WindowDelay{Interval: 2, Unit: Hours}, 2 * OneHourMillis},
		{WindowDelay{Interval: 1, Unit: Days}, OneDayMillis},
		{WindowDelay{Interval: 3, Unit: "fortnights"}, 0},
		{WindowDelay{}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.delay.Millis(), "%+v", tt.delay)
	}
}

func TestDetectorState(t *testing.T) {
	d := Detector{ID: "d1"}
	assert.False(t, d.IsRunning())
	assert.False(t, d.IsHighCardinality())

	d.EnabledTime = 1000
	d.CategoryFields = []string{"host"}
	assert.True(t, d.IsRunning())
	assert.True(t, d.IsHighCardinality())

	d.DisabledTime = 2000
	assert.False(t, d.IsRunning())
}

func TestResultToPoint(t *testing.T) {
	a := AnomalyResult{AnomalyGrade: 0.7, Confidence: 0.9, PlotTime: 42}
	assert.Equal(t, TimePoint{Timestamp: 42, Value: 0.7, Severity: 0.7}, a.ToPoint())

	f := FeatureResult{PlotTime: 43, Value: 12.5}
	assert.Equal(t, TimePoint{Timestamp: 43, Value: 12.5}, f.ToPoint())
}

func TestEntityListKeyAndLabel(t *testing.T) {
	l := EntityList{{Name: "host", Value: "a"}, {Name: "region", Value: "us"}}
	assert.Equal(t, "host=a|region=us", l.Key())
	assert.Equal(t, "a / us", l.Label())
	assert.Equal(t, "", EntityList(nil).Key())

	swapped := EntityList{{Name: "region", Value: "us"}, {Name: "host", Value: "a"}}
	assert.NotEqual(t, l.Key(), swapped.Key())
}

func TestEntityListMatches(t *testing.T) {
	l := EntityList{{Name: "host", Value: "a"}, {Name: "region", Value: "us"}}
	tests := []struct {
		name   string
		filter EntityList
		want   bool
	}{
		{"empty filter", nil, true},
		{"single match", EntityList{{Name: "region", Value: "us"}}, true},
		{"full match", l, true},
		{"value mismatch", EntityList{{Name: "host", Value: "b"}}, false},
		{"unknown field", EntityList{{Name: "zone", Value: "1"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Matches(tt.filter))
		})
	}
}

func TestEntityListClone(t *testing.T) {
	l := EntityList{{Name: "host", Value: "a"}}
	c := l.Clone()
	c[0].Value = "b"
	assert.Equal(t, "a", l[0].Value)
	assert.Nil(t, EntityList(nil).Clone())
}

func TestParseEntity(t *testing.T) {
	tests := []struct {
		in      string
		want    Entity
		wantErr bool
	}{
		{"host=a", Entity{Name: "host", Value: "a"}, false},
		{" host = a ", Entity{Name: "host", Value: "a"}, false},
		{"url=http://x?a=b", Entity{Name: "url", Value: "http://x?a=b"}, false},
		{"host", Entity{}, true},
		{"=a", Entity{}, true},
		{"host=", Entity{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEntity(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntityList(t *testing.T) {
	got, err := ParseEntityList([]string{"host=a", "region=us"})
	require.NoError(t, err)
	assert.Equal(t, "host=a|region=us", got.Key())

	_, err = ParseEntityList([]string{"host=a", "host=b"})
	assert.Error(t, err)

	_, err = ParseEntityList([]string{"bad"})
	assert.Error(t, err)

	got, err = ParseEntityList(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseFieldValues(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldValues
		wantErr bool
	}{
		{"region=us,eu", FieldValues{Name: "region", Values: []string{"us", "eu"}}, false},
		{"region= us , ,eu ", FieldValues{Name: "region", Values: []string{"us", "eu"}}, false},
		{"region", FieldValues{Name: "region"}, false},
		{"region=", FieldValues{Name: "region"}, false},
		{"=us", FieldValues{}, true},
		{"", FieldValues{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFieldValues(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeatmapMatrixCells(t *testing.T) {
	m := HeatmapMatrix{
		Columns: []TimeWindow{{0, 10}, {10, 20}},
		Rows: []HeatmapRow{
			{Label: "a", Cells: []HeatmapCell{{MaxSeverity: 0.1}, {MaxSeverity: 0.2}}},
			{Label: "b", Cells: []HeatmapCell{{MaxSeverity: 0.3}, {MaxSeverity: 0.4}}},
		},
	}
	cells := m.Cells()
	require.Len(t, cells, 4)
	assert.Equal(t, 0.3, cells[2].MaxSeverity)
}
