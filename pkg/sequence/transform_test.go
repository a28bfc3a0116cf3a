package sequence

import (
	"errors"
	"testing"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		raw      []int
		opts     Options
		expected []Step
	}{
		{
			name:     "positive values",
			raw:      []int{5, 10, 87},
			opts:     Options{PMod: 88, POff: 24},
			expected: []Step{{Note: 29}, {Note: 34}, {Note: 111}},
		},
		{
			name:     "negative value wraps into range",
			raw:      []int{-1},
			opts:     Options{PMod: 88, POff: 24},
			expected: []Step{{Note: 111}},
		},
		{
			name:     "offset wraps past 127",
			raw:      []int{87},
			opts:     Options{PMod: 88, POff: 100},
			expected: []Step{{Note: 59}},
		},
		{
			name:     "negative offset",
			raw:      []int{0},
			opts:     Options{PMod: 88, POff: -1},
			expected: []Step{{Note: 127}},
		},
		{
			name:     "zero rest",
			raw:      []int{0, 1, -1, 2},
			opts:     Options{PMod: 88, POff: 24, Rest: mustRest(t, "z")},
			expected: []Step{{Rest: true}, {Note: 25}, {Note: 111}, {Note: 26}},
		},
		{
			name:     "negative rest",
			raw:      []int{-3},
			opts:     Options{PMod: 88, POff: 24, Rest: mustRest(t, "n")},
			expected: []Step{{Rest: true}},
		},
		{
			name:     "empty input",
			raw:      nil,
			opts:     Options{PMod: 88, POff: 24},
			expected: []Step{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := Transform(tt.raw, tt.opts)
			if err != nil {
				t.Fatalf("Transform() error: %v", err)
			}
			if len(steps) != len(tt.expected) {
				t.Fatalf("Transform() returned %d steps, want %d", len(steps), len(tt.expected))
			}
			for i, want := range tt.expected {
				if steps[i] != want {
					t.Errorf("step %d = %v, want %v", i, steps[i], want)
				}
			}
		})
	}
}

func TestTransformInvalidModulus(t *testing.T) {
	for _, pmod := range []int{0, -5} {
		_, err := Transform([]int{1}, Options{PMod: pmod})
		if err == nil {
			t.Errorf("Transform() with pmod=%d should fail", pmod)
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("Transform() with pmod=%d returned %T, want *ConfigError", pmod, err)
		}
	}
}

func TestTransformNoteBounds(t *testing.T) {
	// Every combination of sign, modulus, and offset must land in [0,127]
	raws := []int{-1000000, -129, -1, 0, 1, 87, 88, 127, 128, 1000000}
	pmods := []int{1, 2, 88, 127, 128, 500}
	poffs := []int{-1000, -128, -1, 0, 24, 127, 128, 1000}

	for _, pmod := range pmods {
		for _, poff := range poffs {
			steps, err := Transform(raws, Options{PMod: pmod, POff: poff})
			if err != nil {
				t.Fatalf("Transform(pmod=%d, poff=%d) error: %v", pmod, poff, err)
			}
			for i, s := range steps {
				if s.Note > 127 {
					t.Errorf("Transform(%d, pmod=%d, poff=%d) note = %d, out of MIDI range", raws[i], pmod, poff, s.Note)
				}
			}
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	raw := []int{3, -7, 0, 42, -88, 91}
	opts := Options{PMod: 88, POff: 24, Rest: mustRest(t, "z")}

	first, err := Transform(raw, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Transform(raw, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("step %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestParseRestSpec(t *testing.T) {
	tests := []struct {
		code    string
		value   int
		matches bool
	}{
		{"", -1, false},
		{"", 0, false},
		{"n", -1, true},
		{"n", 0, false},
		{"n", 1, false},
		{"z", 0, true},
		{"z", -1, false},
		{"z", 1, false},
		{"p", 1, true},
		{"p", 0, false},
		{"nz", -5, true},
		{"nz", 0, true},
		{"nz", 5, false},
		{"pz", 0, true},
		{"pz", 5, true},
		{"pz", -5, false},
		{"zp", 0, true},
		{"zp", -1, false},
		{"nzp", -1, true},
		{"nzp", 0, true},
		{"nzp", 1, true},
	}

	for _, tt := range tests {
		rs, err := ParseRestSpec(tt.code)
		if err != nil {
			t.Fatalf("ParseRestSpec(%q) error: %v", tt.code, err)
		}
		if got := rs.Matches(tt.value); got != tt.matches {
			t.Errorf("ParseRestSpec(%q).Matches(%d) = %v, want %v", tt.code, tt.value, got, tt.matches)
		}
	}
}

func TestParseRestSpecInvalid(t *testing.T) {
	for _, code := range []string{"x", "nx", "N", "n z"} {
		_, err := ParseRestSpec(code)
		if err == nil {
			t.Errorf("ParseRestSpec(%q) should fail", code)
			continue
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("ParseRestSpec(%q) returned %T, want *ConfigError", code, err)
		}
	}
}

func TestRestSpecString(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"", "none"},
		{"n", "n"},
		{"zp", "zp"},
		{"pzn", "nzp"},
	}
	for _, tt := range tests {
		rs := mustRest(t, tt.code)
		if got := rs.String(); got != tt.want {
			t.Errorf("ParseRestSpec(%q).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func mustRest(t *testing.T, code string) RestSpec {
	t.Helper()
	rs, err := ParseRestSpec(code)
	if err != nil {
		t.Fatalf("ParseRestSpec(%q): %v", code, err)
	}
	return rs
}
