package algo

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/huangsam/adviz/schema"
)

// SampleMissingAnnotations compresses missing flags into at most maxAnnotations
// chart annotations. The range is partitioned and, for each window holding at
// least one missing flag, the middle flag represents the window with its span
// widened to cover the whole window.
func SampleMissingAnnotations(flags []schema.MissingFlag, r schema.TimeWindow, maxAnnotations int) ([]schema.MissingAnnotation, error) {
	windows, err := PartitionWindows(maxAnnotations, r)
	if err != nil {
		return nil, err
	}

	missing := make([]schema.MissingFlag, 0, len(flags))
	for _, f := range flags {
		if f.IsMissing {
			missing = append(missing, f)
		}
	}
	slices.SortStableFunc(missing, func(a, b schema.MissingFlag) int {
		return cmp.Compare(a.PlotTime, b.PlotTime)
	})

	annotations := make([]schema.MissingAnnotation, 0, min(len(windows), len(missing)))
	for _, w := range windows {
		lo := sort.Search(len(missing), func(i int) bool { return missing[i].PlotTime >= w.StartDate })
		hi := sort.Search(len(missing), func(i int) bool { return missing[i].PlotTime >= w.EndDate })
		if lo >= hi {
			continue
		}
		n := hi - lo
		rep := missing[lo+n/2]
		start := min(w.StartDate, rep.StartTime)
		end := max(w.EndDate, rep.EndTime)
		annotations = append(annotations, schema.MissingAnnotation{
			DataValue:    rep.PlotTime,
			StartTime:    start,
			EndTime:      end,
			DetailText:   missingDetail(n, start, end),
			MissingCount: n,
		})
	}
	return annotations, nil
}

func missingDetail(n int, start, end int64) string {
	noun := "points"
	if n == 1 {
		noun = "point"
	}
	return fmt.Sprintf("%d missing data %s between %s and %s", n, noun,
		formatMillis(start), formatMillis(end))
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
