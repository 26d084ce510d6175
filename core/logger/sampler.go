package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

type ratio struct {
	num, den uint64
}

// ratioSampler lets num out of every den calls through. A zero ratio lets everything through.
type ratioSampler struct {
	ratio   atomic.Pointer[ratio]
	counter atomic.Uint64
}

func newRatioSampler(num, den int) *ratioSampler {
	s := &ratioSampler{}
	s.Set(num, den)
	return s
}

// Set replaces the ratio and restarts the cycle.
func (s *ratioSampler) Set(num, den int) {
	r := &ratio{}
	if num > 0 && den > 0 {
		r.num, r.den = uint64(min(num, den)), uint64(den)
	}
	s.ratio.Store(r)
	s.counter.Store(0)
}

// Allow reports whether the current call passes.
func (s *ratioSampler) Allow() bool {
	r := s.ratio.Load()
	if r == nil || r.den == 0 {
		return true
	}
	n := s.counter.Add(1) - 1
	return n%r.den < r.num
}

// parseRatioSpec accepts "n/d" or a bare "d" meaning 1/d.
func parseRatioSpec(spec string) (int, int) {
	spec = strings.TrimSpace(spec)
	if n, d, ok := strings.Cut(spec, "/"); ok {
		num, err1 := strconv.Atoi(strings.TrimSpace(n))
		den, err2 := strconv.Atoi(strings.TrimSpace(d))
		if err1 == nil && err2 == nil {
			return num, den
		}
		return 0, 0
	}
	if v, err := strconv.Atoi(spec); err == nil && v > 0 {
		return 1, v
	}
	return 0, 0
}
