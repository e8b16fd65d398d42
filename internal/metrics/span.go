package metrics

import (
	"math"

	"github.com/san-kum/tanklab/internal/dynamo"
)

// Span tracks the range (max - min) of one state component over a run,
// e.g. how far the water level swings during a schedule change.
type Span struct {
	name string
	idx  int
	min  float64
	max  float64
	seen bool
}

func NewSpan(name string, idx int) *Span {
	return &Span{name: name, idx: idx}
}

func (s *Span) Name() string {
	return s.name
}

func (s *Span) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if s.idx >= len(x) {
		return
	}
	v := x[s.idx]
	if math.IsNaN(v) {
		return
	}
	if !s.seen {
		s.min, s.max = v, v
		s.seen = true
		return
	}
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)
}

func (s *Span) Value() float64 {
	if !s.seen {
		return 0
	}
	return s.max - s.min
}

func (s *Span) Reset() {
	s.min, s.max = 0, 0
	s.seen = false
}
