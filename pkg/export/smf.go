// Package export writes transformed sequences to standard MIDI files so
// they can be previewed without a live input device
package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/holmesrichards/playoeis/pkg/sequence"
)

const ticksPerQuarter = 480

// Options controls the rendered file
type Options struct {
	Tempo    float64 // beats per minute, default 120
	Velocity uint8   // note velocity, default 100
	Channel  uint8
}

// WriteSMF renders the steps as a single-track MIDI file, one step per
// 16th note. Rests advance time without sounding.
func WriteSMF(steps []sequence.Step, opts Options) ([]byte, error) {
	if len(steps) == 0 {
		return nil, errors.New("no steps to export")
	}
	if opts.Tempo <= 0 {
		opts.Tempo = 120.0
	}
	if opts.Velocity == 0 {
		opts.Velocity = 100
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(opts.Tempo))
	track.Add(0, smf.MetaMeter(4, 4))

	ticksPerStep := uint32(ticksPerQuarter) / 4
	// staccato gap so repeated notes articulate
	noteLength := (ticksPerStep * 3) / 4

	var delta uint32
	for _, step := range steps {
		if step.Rest {
			delta += ticksPerStep
			continue
		}
		track.Add(delta, midi.NoteOn(opts.Channel, step.Note, opts.Velocity))
		track.Add(noteLength, midi.NoteOff(opts.Channel, step.Note))
		delta = ticksPerStep - noteLength
	}

	track.Close(0)
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSMFFile renders the steps and writes them to filename
func WriteSMFFile(steps []sequence.Step, opts Options, filename string) error {
	data, err := WriteSMF(steps, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
