package algo

import (
	"testing"

	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingTicks(flags []schema.MissingFlag) (missing, present []int64) {
	for _, f := range flags {
		if f.IsMissing {
			missing = append(missing, f.PlotTime/minute)
		} else {
			present = append(present, f.PlotTime/minute)
		}
	}
	return missing, present
}

func TestDetectMissingScenario(t *testing.T) {
	observed := schema.Series{{Timestamp: 10*minute + 20*schema.OneSecondMillis, Value: 1}}
	r := schema.TimeWindow{StartDate: 0, EndDate: 30 * minute}
	flags, err := DetectMissing(observed, r, MissingOptions{IntervalMinutes: 5, Offset: DefaultMissingOffset})
	require.NoError(t, err)
	require.Len(t, flags, 5)

	missing, present := missingTicks(flags)
	assert.Equal(t, []int64{0, 5, 15, 20}, missing)
	assert.Equal(t, []int64{10}, present)

	assert.Equal(t, schema.MissingFlag{PlotTime: 10 * minute, StartTime: 10 * minute, EndTime: 15 * minute}, flags[2])
}

func TestDetectMissing(t *testing.T) {
	r := schema.TimeWindow{StartDate: 0, EndDate: 30 * minute}
	tests := []struct {
		name        string
		observed    []int64 // minutes
		opts        MissingOptions
		wantMissing []int64
		wantPresent []int64
	}{
		{
			name:        "all present",
			observed:    []int64{0, 5, 10, 15, 20, 25},
			opts:        MissingOptions{IntervalMinutes: 5, Offset: 2},
			wantPresent: []int64{0, 5, 10, 15, 20},
		},
		{
			name:        "unsorted descending input",
			observed:    []int64{20, 15, 0},
			opts:        MissingOptions{IntervalMinutes: 5, Offset: 2},
			wantMissing: []int64{5, 10},
			wantPresent: []int64{0, 15, 20},
		},
		{
			name:        "point inside interval counts",
			observed:    []int64{3, 3, 3},
			opts:        MissingOptions{IntervalMinutes: 5, Offset: 2},
			wantMissing: []int64{5, 10, 15, 20},
			wantPresent: []int64{0},
		},
		{
			name:        "window delay trims the tail",
			observed:    []int64{0},
			opts:        MissingOptions{IntervalMinutes: 5, Offset: 2, WindowDelay: schema.WindowDelay{Interval: 5, Unit: schema.Minutes}},
			wantMissing: []int64{5, 10, 15},
			wantPresent: []int64{0},
		},
		{
			name:        "window delay already applied",
			observed:    []int64{0},
			opts:        MissingOptions{IntervalMinutes: 5, Offset: 2, WindowDelay: schema.WindowDelay{Interval: 5, Unit: schema.Minutes}, WindowDelayApplied: true},
			wantMissing: []int64{5, 10, 15, 20},
			wantPresent: []int64{0},
		},
		{
			name:        "zero offset checks the tail",
			observed:    []int64{25},
			opts:        MissingOptions{IntervalMinutes: 5},
			wantMissing: []int64{0, 5, 10, 15, 20, 30},
			wantPresent: []int64{25},
		},
		{
			name:     "offset swallows the range",
			observed: []int64{0},
			opts:     MissingOptions{IntervalMinutes: 10, Offset: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed := make(schema.Series, len(tt.observed))
			for i, m := range tt.observed {
				observed[i] = schema.TimePoint{Timestamp: m * minute}
			}
			flags, err := DetectMissing(observed, r, tt.opts)
			require.NoError(t, err)
			missing, present := missingTicks(flags)
			assert.Equal(t, tt.wantMissing, missing)
			assert.Equal(t, tt.wantPresent, present)
		})
	}
}

func TestDetectMissingEmptyObserved(t *testing.T) {
	flags, err := DetectMissing(nil, schema.TimeWindow{StartDate: 0, EndDate: 60 * minute}, MissingOptions{IntervalMinutes: 1, Offset: 2})
	require.NoError(t, err)
	assert.NotNil(t, flags)
	assert.Empty(t, flags)
}

func TestDetectMissingRoundsToNearestMinute(t *testing.T) {
	r := schema.TimeWindow{StartDate: 0, EndDate: 5 * minute}
	// 59.6s rounds up into the second tick, leaving the first one missing.
	observed := schema.Series{{Timestamp: 59_600}}
	flags, err := DetectMissing(observed, r, MissingOptions{IntervalMinutes: 1, Offset: 2})
	require.NoError(t, err)
	missing, present := missingTicks(flags)
	assert.Equal(t, []int64{0, 2, 3}, missing)
	assert.Equal(t, []int64{1}, present)
}

func TestRoundToMinute(t *testing.T) {
	tests := []struct {
		in, want int64
	}{
		{0, 0},
		{29_999, 0},
		{30_000, minute},
		{89_999, minute},
		{-30_000, 0},
		{-30_001, -minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roundToMinute(tt.in), "round(%d)", tt.in)
	}
}

func TestDetectMissingErrors(t *testing.T) {
	observed := schema.Series{{Timestamp: 0}}
	r := schema.TimeWindow{StartDate: 0, EndDate: 30 * minute}
	tests := []struct {
		name string
		r    schema.TimeWindow
		opts MissingOptions
	}{
		{"zero interval", r, MissingOptions{}},
		{"negative interval", r, MissingOptions{IntervalMinutes: -5}},
		{"negative offset", r, MissingOptions{IntervalMinutes: 5, Offset: -1}},
		{"negative delay", r, MissingOptions{IntervalMinutes: 5, WindowDelay: schema.WindowDelay{Interval: -1, Unit: schema.Minutes}}},
		{"unknown unit", r, MissingOptions{IntervalMinutes: 5, WindowDelay: schema.WindowDelay{Interval: 1, Unit: "weeks"}}},
		{"inverted range", schema.TimeWindow{StartDate: 10, EndDate: 0}, MissingOptions{IntervalMinutes: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectMissing(observed, tt.r, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestClassifyMissing(t *testing.T) {
	flag := func(missing bool) schema.MissingFlag { return schema.MissingFlag{IsMissing: missing} }
	tests := []struct {
		name  string
		flags []schema.MissingFlag
		want  schema.MissingSeverity
	}{
		{"none", []schema.MissingFlag{flag(false), flag(false)}, schema.MissingNone},
		{"empty", nil, schema.MissingNone},
		{"one", []schema.MissingFlag{flag(true), flag(false)}, schema.MissingLow},
		{"two", []schema.MissingFlag{flag(true), flag(true)}, schema.MissingMedium},
		{"three", []schema.MissingFlag{flag(true), flag(true), flag(true)}, schema.MissingHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMissing(tt.flags, DefaultMissingThresholds()))
		})
	}

	custom := MissingThresholds{High: 10, Medium: 5}
	assert.Equal(t, schema.MissingLow, ClassifyMissing([]schema.MissingFlag{flag(true), flag(true), flag(true)}, custom))
}

func TestEffectiveRange(t *testing.T) {
	r := schema.TimeWindow{StartDate: 100, EndDate: 1000}
	tests := []struct {
		name string
		d    schema.Detector
		want schema.TimeWindow
	}{
		{"never enabled", schema.Detector{}, r},
		{"enabled before range", schema.Detector{EnabledTime: 50}, r},
		{"enabled inside range", schema.Detector{EnabledTime: 300}, schema.TimeWindow{StartDate: 300, EndDate: 1000}},
		{"stopped inside range", schema.Detector{EnabledTime: 50, DisabledTime: 700}, schema.TimeWindow{StartDate: 100, EndDate: 700}},
		{"restarted", schema.Detector{EnabledTime: 800, DisabledTime: 700}, schema.TimeWindow{StartDate: 800, EndDate: 1000}},
		{"enabled after range", schema.Detector{EnabledTime: 2000}, schema.TimeWindow{StartDate: 2000, EndDate: 2000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveRange(tt.d, r))
		})
	}
}

func BenchmarkDetectMissing(b *testing.B) {
	observed := make(schema.Series, 20_000)
	for i := range observed {
		observed[i] = schema.TimePoint{Timestamp: int64(i*2) * minute}
	}
	r := schema.TimeWindow{StartDate: 0, EndDate: 40_000 * minute}
	opts := MissingOptions{IntervalMinutes: 1, Offset: DefaultMissingOffset}
	for b.Loop() {
		_, _ = DetectMissing(observed, r, opts)
	}
}
