package match

import "testing"

// scriptedRand 按顺序返回预设的随机值，用完后返回零值
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

// strictRand 任何一次取随机数都判定为失败
type strictRand struct{ t *testing.T }

func (r strictRand) Float64() float64 {
	r.t.Helper()
	r.t.Fatalf("unexpected Float64 draw")
	return 0
}

func (r strictRand) Intn(int) int {
	r.t.Helper()
	r.t.Fatalf("unexpected Intn draw")
	return 0
}
