// Package midiio connects the step player to live MIDI ports
package midiio

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// EventKind classifies an incoming MIDI message
type EventKind int

const (
	EventOther EventKind = iota
	EventNoteOn
	EventNoteOff
)

// Event is a classified incoming MIDI message. Raw always holds the
// original bytes so non-note messages can be forwarded verbatim.
type Event struct {
	Kind     EventKind
	Channel  uint8
	Note     uint8
	Velocity uint8
	Raw      midi.Message
}

func (e Event) String() string {
	switch e.Kind {
	case EventNoteOn:
		return fmt.Sprintf("note-on ch=%d note=%d vel=%d", e.Channel, e.Note, e.Velocity)
	case EventNoteOff:
		return fmt.Sprintf("note-off ch=%d note=%d", e.Channel, e.Note)
	default:
		return e.Raw.String()
	}
}

// Classify inspects a MIDI message and tags note events. A note-on with
// velocity 0 counts as a note-off, per MIDI convention.
func Classify(msg midi.Message) Event {
	var channel, key, velocity uint8
	if msg.GetNoteStart(&channel, &key, &velocity) {
		return Event{Kind: EventNoteOn, Channel: channel, Note: key, Velocity: velocity, Raw: msg}
	}
	if msg.GetNoteEnd(&channel, &key) {
		return Event{Kind: EventNoteOff, Channel: channel, Note: key, Raw: msg}
	}
	return Event{Kind: EventOther, Raw: msg}
}
