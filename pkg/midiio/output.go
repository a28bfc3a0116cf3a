package midiio

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Output sends note and passthrough messages to a MIDI output port. It
// implements sequence.Output.
type Output struct {
	port drivers.Out
	send func(midi.Message) error
}

// OpenOutput opens the named output port (empty name = system default)
func OpenOutput(name string) (*Output, error) {
	port, err := FindOut(name)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", port.String(), err)
	}
	return &Output{port: port, send: send}, nil
}

// NoteOn sends a note-on message
func (o *Output) NoteOn(channel, key, velocity uint8) error {
	return o.send(midi.NoteOn(channel, key, velocity))
}

// NoteOff sends a note-off message
func (o *Output) NoteOff(channel, key uint8) error {
	return o.send(midi.NoteOff(channel, key))
}

// Send forwards an arbitrary message unchanged
func (o *Output) Send(msg midi.Message) error {
	return o.send(msg)
}

// Name returns the underlying port name
func (o *Output) Name() string {
	return o.port.String()
}

// Close closes the output port
func (o *Output) Close() error {
	return o.port.Close()
}
