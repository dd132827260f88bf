package algo

import "github.com/huangsam/adviz/schema"

// PartitionWindows splits r into at most maxWindows contiguous windows of equal
// width. The width is never narrower than one minute and the last window may
// be narrower than the rest. A zero-length range yields no windows.
func PartitionWindows(maxWindows int, r schema.TimeWindow) ([]schema.TimeWindow, error) {
	if maxWindows <= 0 {
		return nil, invalidf("maxWindows must be positive, got %d", maxWindows)
	}
	if err := r.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}
	span := r.Duration()
	if span == 0 {
		return []schema.TimeWindow{}, nil
	}

	width := max(ceilDiv(span, int64(maxWindows)), schema.OneMinuteMillis)
	windows := make([]schema.TimeWindow, 0, min(int64(maxWindows), ceilDiv(span, width)))
	for cur := r.StartDate; cur < r.EndDate; {
		next := r.EndDate
		if r.EndDate-cur > width {
			next = cur + width
		}
		windows = append(windows, schema.TimeWindow{StartDate: cur, EndDate: next})
		cur = next
	}
	return windows, nil
}

// ceilDiv divides by a positive b rounding up; non-positive a yields zero.
func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a-1)/b + 1
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
