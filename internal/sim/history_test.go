package sim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(b *Buffer, n int) {
	for i := 0; i < n; i++ {
		b.Push(Point{Value: float64(i), Timestamp: int64(1000 + i*2000)})
	}
}

func TestBuffer_EvictsOldest(t *testing.T) {
	b := NewBuffer(20)
	fill(b, 20)
	require.Equal(t, 20, b.Len())

	first := b.Points()[0]
	b.Push(Point{Value: 99, Timestamp: 1_000_000})

	pts := b.Points()
	assert.Len(t, pts, 20)
	assert.NotEqual(t, first, pts[0])
	assert.Equal(t, 1.0, pts[0].Value)
	assert.Equal(t, Point{Value: 99, Timestamp: 1_000_000}, pts[19])
}

func TestBuffer_CapacityAndOrder(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		pushes int
		want   int
	}{
		{name: "empty", size: 20, pushes: 0, want: 0},
		{name: "partial", size: 20, pushes: 7, want: 7},
		{name: "exact", size: 50, pushes: 50, want: 50},
		{name: "wrapped many times", size: 20, pushes: 137, want: 20},
		{name: "default size", size: 0, pushes: 30, want: DefaultHistorySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(tt.size)
			fill(b, tt.pushes)

			pts := b.Points()
			assert.Len(t, pts, tt.want)
			for i := 1; i < len(pts); i++ {
				assert.Less(t, pts[i-1].Timestamp, pts[i].Timestamp)
			}
			if tt.pushes > 0 {
				assert.Equal(t, float64(tt.pushes-1), pts[len(pts)-1].Value)
			}
		})
	}
}

func TestBuffer_BumpsStaleTimestamps(t *testing.T) {
	b := NewBuffer(5)
	b.Push(Point{Value: 1, Timestamp: 100})
	b.Push(Point{Value: 2, Timestamp: 100})
	b.Push(Point{Value: 3, Timestamp: 50})

	pts := b.Points()
	require.Len(t, pts, 3)
	assert.Equal(t, []int64{100, 101, 102}, []int64{pts[0].Timestamp, pts[1].Timestamp, pts[2].Timestamp})
}

func TestBuffer_LatestAndLast(t *testing.T) {
	b := NewBuffer(10)
	_, ok := b.Last()
	assert.False(t, ok)
	assert.Empty(t, b.Latest(3))

	fill(b, 4)

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Value)
	assert.Equal(t, []float64{2, 3}, valuesOf(b.Latest(2)))
	assert.Equal(t, []float64{0, 1, 2, 3}, valuesOf(b.Latest(99)))
	assert.Equal(t, []float64{0, 1, 2, 3}, b.Values())
	assert.Equal(t, 10, b.Cap())
}

func TestBuffer_ResetKeepsNewest(t *testing.T) {
	src := NewBuffer(100)
	fill(src, 60)

	b := NewBuffer(50)
	fill(b, 3)
	b.Reset(src.Points())

	assert.Equal(t, 50, b.Len())
	assert.Equal(t, 10.0, b.Points()[0].Value)
	assert.Equal(t, 59.0, b.Points()[49].Value)

	b.Reset(nil)
	assert.Equal(t, 0, b.Len())
}

func TestHistory_UnknownMetric(t *testing.T) {
	h := NewHistory(20)

	pts := h.Get("nope")
	assert.NotNil(t, pts)
	assert.Empty(t, pts)
	assert.Empty(t, h.Values("nope"))
	assert.Equal(t, 0, h.Len("nope"))
	_, ok := h.Last("nope")
	assert.False(t, ok)
}

func TestHistory_PushReplaceClear(t *testing.T) {
	h := NewHistory(3)
	assert.Equal(t, 3, h.Size())

	for i := 0; i < 5; i++ {
		h.Push("a", Point{Value: float64(i), Timestamp: int64(i)})
	}
	assert.Equal(t, []float64{2, 3, 4}, h.Values("a"))

	h.Replace("b", []Point{{Value: 7, Timestamp: 1}})
	assert.Equal(t, 1, h.Len("b"))

	h.ClearAll()
	assert.Equal(t, 0, h.Len("a"))
	assert.Equal(t, 0, h.Len("b"))
}

func TestHistory_GetReturnsCopy(t *testing.T) {
	h := NewHistory(5)
	h.Push("a", Point{Value: 1, Timestamp: 1})

	pts := h.Get("a")
	pts[0].Value = 100
	assert.Equal(t, 1.0, h.Get("a")[0].Value)
}

func TestHistory_ConcurrentAccess(t *testing.T) {
	h := NewHistory(20)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				h.Push("m", Point{Value: float64(i), Timestamp: int64(w*1000 + i)})
				_ = h.Get("m")
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 20, h.Len("m"))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Stats{}, Summarize(nil))

	s := Summarize([]Point{{Value: 4}, {Value: 1}, {Value: 7}})
	assert.Equal(t, 7.0, s.Current)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 7.0, s.Max)
	assert.InDelta(t, 4.0, s.Avg, 1e-9)
	assert.Equal(t, 3, s.Count)
}

func valuesOf(pts []Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}
