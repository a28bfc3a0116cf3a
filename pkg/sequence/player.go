package sequence

// activeKey identifies a sounding note by the input that triggered it
type activeKey struct {
	channel uint8
	key     uint8
}

// Player steps through a transformed sequence, substituting the note
// number of each incoming note-on with the value at the current step.
// It owns all playback state: one Player per run, no globals.
//
// Events must be handled one at a time; Player is not safe for
// concurrent use.
type Player struct {
	seq    []Step
	length int // effective cycle/step bound
	loop   bool

	cursor int
	active map[activeKey]uint8
	out    Output
}

// NewPlayer validates the step bound against the sequence and returns a
// player writing to out. In loop mode NStep larger than the sequence is a
// ConfigError (the cursor indexes the sequence directly); in one-shot mode
// it is clamped to the sequence length.
func NewPlayer(seq []Step, opts Options, out Output) (*Player, error) {
	if len(seq) == 0 {
		return nil, configErrorf("empty sequence")
	}
	length := opts.NStep
	if length <= 0 {
		length = len(seq)
	}
	if opts.Loop && length > len(seq) {
		return nil, configErrorf("nstep %d exceeds sequence length %d in loop mode", length, len(seq))
	}
	if !opts.Loop && length > len(seq) {
		length = len(seq)
	}
	return &Player{
		seq:    seq,
		length: length,
		loop:   opts.Loop,
		active: make(map[activeKey]uint8),
		out:    out,
	}, nil
}

// HandleNoteOn advances one step and emits a note-on with the step's note
// number, keeping the input velocity and channel. Rest steps emit nothing.
// After one-shot exhaustion all note-ons are ignored.
func (p *Player) HandleNoteOn(channel, key, velocity uint8) error {
	if !p.loop && p.cursor >= p.length {
		return nil // exhausted
	}

	step := p.seq[p.cursor]
	if !step.Rest {
		if err := p.out.NoteOn(channel, step.Note, velocity); err != nil {
			return err
		}
		p.active[activeKey{channel, key}] = step.Note
	}

	p.cursor++
	if p.loop && p.cursor >= p.length {
		p.cursor = 0
	}
	return nil
}

// HandleNoteOff releases whatever note was emitted for this input note,
// if any. A note-off with no matching entry (the note-on was a rest, or
// predates this player) is a no-op.
func (p *Player) HandleNoteOff(channel, key uint8) error {
	k := activeKey{channel, key}
	note, ok := p.active[k]
	if !ok {
		return nil
	}
	delete(p.active, k)
	return p.out.NoteOff(channel, note)
}

// Flush emits a note-off for every note still sounding. Called on
// shutdown so the output device is not left with stuck notes.
func (p *Player) Flush() error {
	var firstErr error
	for k, note := range p.active {
		if err := p.out.NoteOff(k.channel, note); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.active, k)
	}
	return firstErr
}

// Exhausted reports whether a one-shot player has consumed all its steps.
// Loop players never exhaust.
func (p *Player) Exhausted() bool {
	return !p.loop && p.cursor >= p.length
}

// Cursor returns the current step position
func (p *Player) Cursor() int {
	return p.cursor
}

// Length returns the effective step bound
func (p *Player) Length() int {
	return p.length
}

// ActiveNotes returns the number of notes currently sounding
func (p *Player) ActiveNotes() int {
	return len(p.active)
}
