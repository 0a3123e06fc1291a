package utils

import "testing"

func TestClampInt(t *testing.T) {
	cases := []struct{ n, want int }{
		{-5, 1}, {0, 1}, {1, 1}, {50, 50}, {100, 100}, {101, 100}, {1 << 30, 100},
	}
	for _, tc := range cases {
		if got := ClampInt(tc.n, 1, 100); got != tc.want {
			t.Fatalf("ClampInt(%d) = %d; want %d", tc.n, got, tc.want)
		}
	}
}

func TestAtoiBounded(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 20},
		{"   ", 20},
		{" 42 ", 42},
		{"0012", 12},
		{"abc", 20},
		{"12abc", 20},
		{"5", 5},
		{"0", 1},
		{"1000", 100},
		{"99999999999999999999", 100},
		{"+99999999999999999999", 100},
		{"-99999999999999999999", 1},
	}
	for _, tc := range cases {
		if got := AtoiBounded(tc.s, 20, 1, 100); got != tc.want {
			t.Fatalf("AtoiBounded(%q) = %d; want %d", tc.s, got, tc.want)
		}
	}
}
