package logger

import "testing"

func TestRatioSamplerCycle(t *testing.T) {
	s := newRatioSampler(2, 5)
	var got []bool
	for i := 0; i < 10; i++ {
		got = append(got, s.Allow())
	}
	want := []bool{true, true, false, false, false, true, true, false, false, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: got %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
}

func TestRatioSamplerDisabled(t *testing.T) {
	s := newRatioSampler(0, 0)
	for i := 0; i < 3; i++ {
		if !s.Allow() {
			t.Fatalf("zero ratio must allow everything")
		}
	}
}

func TestParseRatioSpec(t *testing.T) {
	tests := []struct {
		in       string
		num, den int
	}{
		{"1/10", 1, 10},
		{" 3 / 4 ", 3, 4},
		{"20", 1, 20},
		{"0", 0, 0},
		{"x/2", 0, 0},
		{"", 0, 0},
	}
	for _, tt := range tests {
		num, den := parseRatioSpec(tt.in)
		if num != tt.num || den != tt.den {
			t.Errorf("parseRatioSpec(%q) = %d/%d, want %d/%d", tt.in, num, den, tt.num, tt.den)
		}
	}
}
