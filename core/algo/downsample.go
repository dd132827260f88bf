package algo

import "github.com/huangsam/adviz/schema"

// Downsample reduces s to at most maxPoints points. The series is cut into
// contiguous chunks of ceil(len/maxPoints) points and only the highest-severity
// point of each chunk is kept; ties keep the earliest point. Values are never
// averaged. A series already within budget is returned as a copy.
func Downsample(s schema.Series, maxPoints int) (schema.Series, error) {
	if maxPoints <= 0 {
		return nil, invalidf("maxPoints must be positive, got %d", maxPoints)
	}
	n := len(s)
	if n <= maxPoints {
		out := make(schema.Series, n)
		copy(out, s)
		return out, nil
	}

	step := (n-1)/maxPoints + 1
	out := make(schema.Series, 0, (n-1)/step+1)
	for lo := 0; lo < n; lo += step {
		hi := min(lo+step, n)
		best := lo
		for i := lo + 1; i < hi; i++ {
			if s[i].Severity > s[best].Severity {
				best = i
			}
		}
		out = append(out, s[best])
	}
	return out, nil
}
