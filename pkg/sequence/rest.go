package sequence

// RestSpec classifies raw sequence values as rests. The zero value matches
// nothing.
type RestSpec struct {
	negative bool
	zero     bool
	positive bool
}

// ParseRestSpec builds a RestSpec from a code string. Each letter adds a
// class: 'n' negatives, 'z' zeros, 'p' positives. Letters combine as a
// union, so "nz" matches nonpositive values and "pz" (or "zp") matches
// nonnegative ones. An empty string matches nothing. Any other rune is a
// ConfigError.
func ParseRestSpec(code string) (RestSpec, error) {
	var rs RestSpec
	for _, r := range code {
		switch r {
		case 'n':
			rs.negative = true
		case 'z':
			rs.zero = true
		case 'p':
			rs.positive = true
		default:
			return RestSpec{}, configErrorf("unrecognized rest code %q in %q (want letters from n, z, p)", r, code)
		}
	}
	return rs, nil
}

// Matches reports whether the raw value v should become a rest
func (rs RestSpec) Matches(v int) bool {
	switch {
	case v < 0:
		return rs.negative
	case v == 0:
		return rs.zero
	default:
		return rs.positive
	}
}

func (rs RestSpec) String() string {
	var s []byte
	if rs.negative {
		s = append(s, 'n')
	}
	if rs.zero {
		s = append(s, 'z')
	}
	if rs.positive {
		s = append(s, 'p')
	}
	if len(s) == 0 {
		return "none"
	}
	return string(s)
}
