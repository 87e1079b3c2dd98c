package gcsim

import (
	"sort"
)

// Parameters is the numbered macro variable store (#1, #2, ...) shared by both channels.
type Parameters struct {
	numParams map[int]float64
}

func NewParameters() *Parameters {
	return &Parameters{numParams: map[int]float64{}}
}

func (p *Parameters) Get(num int) (float64, bool) {
	val, ok := p.numParams[num]
	if !ok {
		return 0, false
	}
	return val, true
}

// Set stores val in #num; the last writer wins.
func (p *Parameters) Set(num int, val float64) {
	p.numParams[num] = val
}

func (p *Parameters) Len() int {
	return len(p.numParams)
}

// Indexes returns the assigned parameter numbers in ascending order.
func (p *Parameters) Indexes() []int {
	nums := make([]int, 0, len(p.numParams))
	for num := range p.numParams {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// Snapshot returns a copy of the store that callers may keep.
func (p *Parameters) Snapshot() map[int]float64 {
	snap := make(map[int]float64, len(p.numParams))
	for num, val := range p.numParams {
		snap[num] = val
	}
	return snap
}

func (p *Parameters) Clear() {
	p.numParams = map[int]float64{}
}
