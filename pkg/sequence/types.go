// Package sequence maps OEIS integer sequences onto MIDI notes and steps
// through them as input notes arrive
package sequence

import "fmt"

// Step is one playable position in a transformed sequence: either a MIDI
// note number or a rest
type Step struct {
	Note uint8 // MIDI note number (0-127), meaningless when Rest is set
	Rest bool  // Rest steps emit nothing
}

func (s Step) String() string {
	if s.Rest {
		return "rest"
	}
	return fmt.Sprintf("note %d", s.Note)
}

// Options controls how raw sequence values become steps and how playback
// advances through them
type Options struct {
	PMod  int      // modulus applied to raw values, must be > 0
	POff  int      // offset added after the modulus
	Rest  RestSpec // which raw values become rests
	Loop  bool     // wrap the cursor instead of stopping
	NStep int      // bound on the cycle length (loop) or total steps (one-shot); 0 = sequence length
}

// DefaultOptions returns the standard transform settings: 88 semitone
// positions (a piano's worth) offset up to start at note 24 (C1).
func DefaultOptions() Options {
	return Options{PMod: 88, POff: 24}
}

// ConfigError reports an invalid option combination. It is fatal and is
// reported before any event handling starts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Msg
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Output receives the note events the player decides to emit. The player
// never opens or closes the underlying transport.
type Output interface {
	NoteOn(channel, key, velocity uint8) error
	NoteOff(channel, key uint8) error
}
