package gpiodomain

import "testing"

func TestChipNameFromPath(t *testing.T) {
	cases := map[string]string{
		"/dev/gpiochip0": "gpiochip0",
		"/dev/gpiochip1": "gpiochip1",
		"gpiochip2":      "gpiochip2",
	}
	for path, want := range cases {
		if got := chipNameFromPath(path); got != want {
			t.Errorf("chipNameFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestChipContains(t *testing.T) {
	c := &Chip{Base: 512, NumLines: 32}
	cases := []struct {
		n    int
		want bool
	}{
		{511, false},
		{512, true},
		{543, true},
		{544, false},
	}
	for _, tc := range cases {
		if got := c.Contains(tc.n); got != tc.want {
			t.Errorf("Contains(%d) = %v, want %v", tc.n, got, tc.want)
		}
	}
}
