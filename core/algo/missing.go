package algo

import (
	"slices"
	"sort"

	"github.com/huangsam/adviz/schema"
)

// DefaultMissingOffset is how many trailing intervals are never checked,
// since their data may still be in flight.
const DefaultMissingOffset = 2

// Default missing-data severity thresholds, in missing ticks.
const (
	DefaultMissingHighThreshold   = 3
	DefaultMissingMediumThreshold = 2
)

// MissingOptions configures DetectMissing.
type MissingOptions struct {
	IntervalMinutes    int
	WindowDelay        schema.WindowDelay
	WindowDelayApplied bool // Range end already accounts for the delay
	Offset             int  // Trailing intervals to skip
}

// MissingThresholds maps a count of missing ticks to a severity.
type MissingThresholds struct {
	High   int
	Medium int
}

// DefaultMissingThresholds returns the stock thresholds.
func DefaultMissingThresholds() MissingThresholds {
	return MissingThresholds{High: DefaultMissingHighThreshold, Medium: DefaultMissingMediumThreshold}
}

func (o MissingOptions) validate() error {
	if o.IntervalMinutes <= 0 {
		return invalidf("interval must be positive, got %d minutes", o.IntervalMinutes)
	}
	if o.Offset < 0 {
		return invalidf("offset must not be negative, got %d", o.Offset)
	}
	if o.WindowDelay.Interval < 0 {
		return invalidf("window delay must not be negative, got %d", o.WindowDelay.Interval)
	}
	if o.WindowDelay.Interval > 0 {
		if _, ok := schema.TimeUnitMillis[o.WindowDelay.Unit]; !ok {
			return invalidf("unknown window delay unit %q", o.WindowDelay.Unit)
		}
	}
	return nil
}

// roundToMinute rounds an epoch millisecond timestamp to the nearest minute.
func roundToMinute(ts int64) int64 {
	return floorDiv(ts+schema.OneMinuteMillis/2, schema.OneMinuteMillis) * schema.OneMinuteMillis
}

// DetectMissing enumerates the expected interval ticks of r and flags each one
// that has no observed point in [tick, tick+interval). The last Offset intervals
// and the window delay are trimmed from the end of the range. An empty observed
// series yields no flags, because no data and missing data look the same.
func DetectMissing(observed schema.Series, r schema.TimeWindow, opts MissingOptions) ([]schema.MissingFlag, error) {
	if err := r.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(observed) == 0 {
		return []schema.MissingFlag{}, nil
	}

	ticks := make([]int64, len(observed))
	for i, p := range observed {
		ticks[i] = roundToMinute(p.Timestamp)
	}
	slices.Sort(ticks)

	intervalMs := int64(opts.IntervalMinutes) * schema.OneMinuteMillis
	var delayMs int64
	if !opts.WindowDelayApplied {
		delayMs = opts.WindowDelay.Millis()
	}

	first := roundToMinute(r.StartDate)
	last := roundToMinute(r.EndDate) - int64(opts.Offset)*intervalMs - delayMs
	if last < first {
		return []schema.MissingFlag{}, nil
	}

	flags := make([]schema.MissingFlag, 0, (last-first)/intervalMs+1)
	for tick := first; tick <= last; tick += intervalMs {
		flags = append(flags, schema.MissingFlag{
			PlotTime:  tick,
			StartTime: tick,
			EndTime:   tick + intervalMs,
			IsMissing: !hasTickInRange(ticks, tick, tick+intervalMs),
		})
	}
	return flags, nil
}

// hasTickInRange reports whether sorted has any value in [lo, hi).
func hasTickInRange(sorted []int64, lo, hi int64) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= lo })
	return i < len(sorted) && sorted[i] < hi
}

// CountMissing returns how many flags are missing.
func CountMissing(flags []schema.MissingFlag) int {
	n := 0
	for _, f := range flags {
		if f.IsMissing {
			n++
		}
	}
	return n
}

// ClassifyMissing grades a flag list by its number of missing ticks.
func ClassifyMissing(flags []schema.MissingFlag, th MissingThresholds) schema.MissingSeverity {
	n := CountMissing(flags)
	switch {
	case n == 0:
		return schema.MissingNone
	case n >= th.High:
		return schema.MissingHigh
	case n >= th.Medium:
		return schema.MissingMedium
	default:
		return schema.MissingLow
	}
}

// EffectiveRange clamps r to the period the detector was running: it starts no
// earlier than the enabled time and, for a stopped detector, ends no later than
// the disabled time. A detector that never ran leaves r untouched. When the
// clamp empties the range the result has zero width.
func EffectiveRange(d schema.Detector, r schema.TimeWindow) schema.TimeWindow {
	out := r
	if d.EnabledTime > 0 && d.EnabledTime > out.StartDate {
		out.StartDate = d.EnabledTime
	}
	if d.EnabledTime > 0 && !d.IsRunning() && d.DisabledTime > 0 && d.DisabledTime < out.EndDate {
		out.EndDate = d.DisabledTime
	}
	if out.EndDate < out.StartDate {
		out.EndDate = out.StartDate
	}
	return out
}
