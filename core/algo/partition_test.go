package algo

import (
	"testing"

	"github.com/huangsam/adviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minute = schema.OneMinuteMillis

// assertTiles checks that windows cover r exactly with no gaps or overlaps.
func assertTiles(t *testing.T, windows []schema.TimeWindow, r schema.TimeWindow) {
	t.Helper()
	if r.Duration() == 0 {
		assert.Empty(t, windows)
		return
	}
	require.NotEmpty(t, windows)
	assert.Equal(t, r.StartDate, windows[0].StartDate)
	assert.Equal(t, r.EndDate, windows[len(windows)-1].EndDate)
	for i, w := range windows {
		assert.Less(t, w.StartDate, w.EndDate, "window %d is empty", i)
		if i > 0 {
			assert.Equal(t, windows[i-1].EndDate, w.StartDate, "gap or overlap at window %d", i)
		}
	}
}

func TestPartitionWindows(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		r         schema.TimeWindow
		wantCount int
		wantWidth int64
	}{
		{"even split", 4, schema.TimeWindow{StartDate: 0, EndDate: 40 * minute}, 4, 10 * minute},
		{"uneven split", 3, schema.TimeWindow{StartDate: 0, EndDate: 10*minute + 1}, 3, 200_001},
		{"one minute floor", 10, schema.TimeWindow{StartDate: 0, EndDate: 3 * minute}, 3, minute},
		{"sub minute range", 5, schema.TimeWindow{StartDate: 0, EndDate: 1000}, 1, 1000},
		{"single window", 1, schema.TimeWindow{StartDate: 5, EndDate: 5 + 90*minute}, 1, 90 * minute},
		{"offset start", 2, schema.TimeWindow{StartDate: 7 * minute, EndDate: 27 * minute}, 2, 10 * minute},
		{"zero span", 5, schema.TimeWindow{StartDate: 100, EndDate: 100}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := PartitionWindows(tt.max, tt.r)
			require.NoError(t, err)
			assert.Len(t, windows, tt.wantCount)
			assert.LessOrEqual(t, len(windows), tt.max)
			assertTiles(t, windows, tt.r)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantWidth, windows[0].Duration())
			}
		})
	}
}

func TestPartitionWindowsLastNarrower(t *testing.T) {
	windows, err := PartitionWindows(3, schema.TimeWindow{StartDate: 0, EndDate: 10*minute + 1})
	require.NoError(t, err)
	require.Len(t, windows, 3)
	assert.Equal(t, schema.TimeWindow{StartDate: 400_002, EndDate: 600_001}, windows[2])
}

func TestPartitionWindowsErrors(t *testing.T) {
	_, err := PartitionWindows(0, schema.TimeWindow{StartDate: 0, EndDate: minute})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = PartitionWindows(-3, schema.TimeWindow{StartDate: 0, EndDate: minute})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = PartitionWindows(3, schema.TimeWindow{StartDate: minute, EndDate: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPartitionWindowsDeterministic(t *testing.T) {
	r := schema.TimeWindow{StartDate: 1_700_000_000_000, EndDate: 1_700_000_000_000 + 7*schema.OneDayMillis}
	a, err := PartitionWindows(20, r)
	require.NoError(t, err)
	b, err := PartitionWindows(20, r)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 20)
}

func FuzzPartitionWindows(f *testing.F) {
	f.Add(int64(0), int64(30*minute), 4)
	f.Add(int64(1_700_000_000_000), int64(7*schema.OneDayMillis), 20)
	f.Add(int64(-5*minute), int64(59_999), 7)
	f.Add(int64(0), int64(0), 1)

	f.Fuzz(func(t *testing.T, start, span int64, n int) {
		if span < 0 || span > 100*365*schema.OneDayMillis || n <= 0 || n > 10_000 {
			t.Skip()
		}
		if start < -(1<<50) || start > 1<<50 {
			t.Skip()
		}
		r := schema.TimeWindow{StartDate: start, EndDate: start + span}
		windows, err := PartitionWindows(n, r)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(windows), n)
		assertTiles(t, windows, r)
	})
}
