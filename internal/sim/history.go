package sim

import (
	"math"
	"sync"
)

const (
	// DefaultHistorySize is the dashboard buffer capacity per metric.
	DefaultHistorySize = 20
	// DefaultFocusHistorySize is the focused view buffer capacity.
	DefaultFocusHistorySize = 50
)

// Point is one timestamped sample. Timestamp is Unix milliseconds.
type Point struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// Buffer is a fixed-capacity circular buffer of points in ascending
// timestamp order. Pushing beyond capacity evicts the oldest point.
type Buffer struct {
	data  []Point
	head  int
	count int
	size  int
}

// NewBuffer creates a buffer with the given capacity.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &Buffer{
		data: make([]Point, size),
		size: size,
	}
}

// Push appends p. A timestamp not after the newest point is moved to
// newest+1 so timestamps stay strictly increasing.
func (b *Buffer) Push(p Point) {
	if last, ok := b.Last(); ok && p.Timestamp <= last.Timestamp {
		p.Timestamp = last.Timestamp + 1
	}
	b.data[b.head] = p
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Last returns the newest point.
func (b *Buffer) Last() (Point, bool) {
	if b.count == 0 {
		return Point{}, false
	}
	return b.data[(b.head-1+b.size)%b.size], true
}

// Latest returns the newest count points, oldest first.
func (b *Buffer) Latest(count int) []Point {
	if count <= 0 || b.count == 0 {
		return []Point{}
	}
	if count > b.count {
		count = b.count
	}

	out := make([]Point, count)
	start := (b.head - count + b.size) % b.size
	for i := 0; i < count; i++ {
		out[i] = b.data[(start+i)%b.size]
	}
	return out
}

// Points returns every stored point, oldest first.
func (b *Buffer) Points() []Point {
	return b.Latest(b.count)
}

// Values returns the stored values, oldest first.
func (b *Buffer) Values() []float64 {
	pts := b.Points()
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}

// Len returns the number of stored points.
func (b *Buffer) Len() int {
	return b.count
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.size
}

// Reset drops all points and refills from pts, keeping the newest Cap().
func (b *Buffer) Reset(pts []Point) {
	b.head, b.count = 0, 0
	if len(pts) > b.size {
		pts = pts[len(pts)-b.size:]
	}
	for _, p := range pts {
		b.Push(p)
	}
}

// History holds one Buffer per metric id. Safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	size    int
	metrics map[string]*Buffer
}

// NewHistory creates a history whose buffers hold size points each.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		metrics: make(map[string]*Buffer),
	}
}

// Size returns the per-metric capacity.
func (h *History) Size() int {
	return h.size
}

// Push appends a point to a metric's buffer.
func (h *History) Push(id string, p Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer(id).Push(p)
}

// Replace swaps a metric's contents for pts.
func (h *History) Replace(id string, pts []Point) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer(id).Reset(pts)
}

// Get returns a copy of a metric's points, or an empty slice.
func (h *History) Get(id string) []Point {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.metrics[id]
	if !ok {
		return []Point{}
	}
	return b.Points()
}

// Values returns a metric's values, oldest first.
func (h *History) Values(id string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.metrics[id]
	if !ok {
		return []float64{}
	}
	return b.Values()
}

// Last returns a metric's newest point.
func (h *History) Last(id string) (Point, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.metrics[id]
	if !ok {
		return Point{}, false
	}
	return b.Last()
}

// Len returns how many points a metric holds.
func (h *History) Len(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	b, ok := h.metrics[id]
	if !ok {
		return 0
	}
	return b.Len()
}

// ClearAll removes every metric's history.
func (h *History) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics = make(map[string]*Buffer)
}

// buffer returns a metric's buffer, creating it if needed.
// Must be called with h.mu held.
func (h *History) buffer(id string) *Buffer {
	b, ok := h.metrics[id]
	if !ok {
		b = NewBuffer(h.size)
		h.metrics[id] = b
	}
	return b
}

// Stats summarizes a series.
type Stats struct {
	Current float64 `json:"current"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Avg     float64 `json:"avg"`
	Count   int     `json:"count"`
}

// Summarize computes Stats over pts. An empty series yields zero Stats.
func Summarize(pts []Point) Stats {
	if len(pts) == 0 {
		return Stats{}
	}
	s := Stats{
		Current: pts[len(pts)-1].Value,
		Min:     math.Inf(1),
		Max:     math.Inf(-1),
		Count:   len(pts),
	}
	sum := 0.0
	for _, p := range pts {
		sum += p.Value
		s.Min = math.Min(s.Min, p.Value)
		s.Max = math.Max(s.Max, p.Value)
	}
	s.Avg = sum / float64(len(pts))
	return s
}
