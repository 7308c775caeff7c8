package deploy

import "testing"

func TestCoerceStringVariants(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"already a string", "already a string"},
		{true, "true"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		if got := coerceString(c.in); got != c.want {
			t.Fatalf("coerceString(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCoerceStringUnsupportedFallsBackToEmpty(t *testing.T) {
	if got := coerceString(struct{ X int }{X: 1}); got != "" {
		t.Fatalf("expected an unconvertible struct to fall back to empty string, got %q", got)
	}
}
