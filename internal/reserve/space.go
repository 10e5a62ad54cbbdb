package reserve

import "fmt"

// Space is the discretized reserve domain [Min, Max], both ends inclusive.
type Space struct {
	Min int
	Max int
}

// NewSpace returns the reserve domain [min, max].
func NewSpace(min, max int) (Space, error) {
	if max < min {
		return Space{}, fmt.Errorf("reserve max %d is below min %d", max, min)
	}
	return Space{Min: min, Max: max}, nil
}

// States returns the number of reserve levels in the domain.
func (s Space) States() int {
	return s.Max - s.Min + 1
}

// Contains reports whether r lies inside the domain.
func (s Space) Contains(r int) bool {
	return r >= s.Min && r <= s.Max
}

// Clamp pins r into [Min, Max].
func (s Space) Clamp(r int) int {
	if r < s.Min {
		return s.Min
	}
	if r > s.Max {
		return s.Max
	}
	return r
}

// Index maps a reserve level to its zero-based row. Callers must check Contains first.
func (s Space) Index(r int) int {
	return r - s.Min
}

// Levels returns every reserve level in ascending order.
func (s Space) Levels() []int {
	levels := make([]int, 0, s.States())
	for r := s.Min; r <= s.Max; r++ {
		levels = append(levels, r)
	}
	return levels
}
