package sequence

// Transform maps each raw sequence value to a Step. Values matching the
// rest spec become rests; everything else is reduced modulo PMod, offset
// by POff, and wrapped into the MIDI note range [0,127]. The result is
// parallel to raw (same length, same order) and deterministic.
func Transform(raw []int, opts Options) ([]Step, error) {
	if opts.PMod <= 0 {
		return nil, configErrorf("pmod must be positive, got %d", opts.PMod)
	}

	steps := make([]Step, len(raw))
	for i, v := range raw {
		if opts.Rest.Matches(v) {
			steps[i] = Step{Rest: true}
			continue
		}
		m := ((v % opts.PMod) + opts.PMod) % opts.PMod
		note := ((m+opts.POff)%128 + 128) % 128
		steps[i] = Step{Note: uint8(note)}
	}
	return steps, nil
}
