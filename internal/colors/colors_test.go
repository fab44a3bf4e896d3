package colors

import (
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want float64
	}{
		{"Black", "#000000", 0},
		{"White", "#ffffff", 1},
		{"Blue Channel Only", "#0000ff", 0.0722},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Luminance(tc.hex)
			if math.Abs(got-tc.want) > 0.001 {
				t.Errorf("Luminance(%q) = %f, want %f", tc.hex, got, tc.want)
			}
		})
	}

	t.Run("Malformed Input Counts As Black", func(t *testing.T) {
		if got := Luminance("chartreuse"); got != 0 {
			t.Errorf("expected 0 for malformed input, got %f", got)
		}
	})
}

func TestContrastRatio(t *testing.T) {
	t.Run("Black On White Is Maximal", func(t *testing.T) {
		got := ContrastRatio("#000000", "#ffffff")
		if math.Abs(got-21) > 0.01 {
			t.Errorf("expected ratio 21, got %f", got)
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := ContrastRatio("#0000ff", "#ffffff")
		b := ContrastRatio("#ffffff", "#0000ff")
		if a != b {
			t.Errorf("expected symmetric ratio, got %f and %f", a, b)
		}
	})

	t.Run("Same Color Is One", func(t *testing.T) {
		got := ContrastRatio("#abcdef", "#abcdef")
		if math.Abs(got-1) > 0.001 {
			t.Errorf("expected ratio 1, got %f", got)
		}
	})
}

func TestAccessibleForeground(t *testing.T) {
	t.Run("Passing Brand Color Is Kept", func(t *testing.T) {
		got := AccessibleForeground("#0000FF", "#ffffff")
		if got != "#0000ff" {
			t.Errorf("expected brand color kept (normalized), got %q", got)
		}
	})

	t.Run("Failing Brand On Light Background Falls Back Dark", func(t *testing.T) {
		got := AccessibleForeground("#ffff00", "#ffffff")
		if got != NeutralDark {
			t.Errorf("expected %q, got %q", NeutralDark, got)
		}
	})

	t.Run("Failing Brand On Dark Background Falls Back Light", func(t *testing.T) {
		got := AccessibleForeground("#1a1a2e", "#000000")
		if got != NeutralLight {
			t.Errorf("expected %q, got %q", NeutralLight, got)
		}
	})

	t.Run("Malformed Brand Falls Back", func(t *testing.T) {
		got := AccessibleForeground("purple", "#ffffff")
		if got != NeutralDark {
			t.Errorf("expected %q, got %q", NeutralDark, got)
		}
	})
}

func TestBlend(t *testing.T) {
	t.Run("Zero Alpha Is Bottom", func(t *testing.T) {
		if got := Blend("#ff0000", "#0000ff", 0); got != "#0000ff" {
			t.Errorf("expected bottom color, got %q", got)
		}
	})

	t.Run("Full Alpha Is Top", func(t *testing.T) {
		if got := Blend("#ff0000", "#0000ff", 1); got != "#ff0000" {
			t.Errorf("expected top color, got %q", got)
		}
	})

	t.Run("Alpha Clamped", func(t *testing.T) {
		if got := Blend("#ff0000", "#0000ff", 2.5); got != "#ff0000" {
			t.Errorf("expected clamp to top color, got %q", got)
		}
	})

	t.Run("Malformed Top Yields Bottom", func(t *testing.T) {
		if got := Blend("nope", "#0000ff", 0.5); got != "#0000ff" {
			t.Errorf("expected bottom color, got %q", got)
		}
	})
}

func TestCompute(t *testing.T) {
	theme := Compute("#0000ff", "#ffffff")

	if theme.Foreground != "#0000ff" {
		t.Errorf("expected brand foreground, got %q", theme.Foreground)
	}
	if theme.Hover == theme.Active {
		t.Error("hover and active states should differ")
	}
	if theme.Hover == "#ffffff" || theme.Active == "#ffffff" {
		t.Error("blended states should differ from the background")
	}
}
