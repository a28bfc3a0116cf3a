package export

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/holmesrichards/playoeis/pkg/sequence"
)

func TestWriteSMF(t *testing.T) {
	steps := []sequence.Step{
		{Note: 24},
		{Rest: true},
		{Note: 36},
		{Note: 48},
	}

	data, err := WriteSMF(steps, Options{})
	if err != nil {
		t.Fatalf("WriteSMF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Fatal("output is not a MIDI file")
	}

	// Read it back and count the sounding notes
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated file does not parse: %v", err)
	}

	var notes []uint8
	for _, track := range s.Tracks {
		for _, ev := range track {
			var channel, key, velocity uint8
			if ev.Message.GetNoteStart(&channel, &key, &velocity) {
				notes = append(notes, key)
			}
		}
	}

	want := []uint8{24, 36, 48}
	if len(notes) != len(want) {
		t.Fatalf("got %d notes, want %d (rests must not sound)", len(notes), len(want))
	}
	for i, w := range want {
		if notes[i] != w {
			t.Errorf("note %d = %d, want %d", i, notes[i], w)
		}
	}
}

func TestWriteSMFEmpty(t *testing.T) {
	if _, err := WriteSMF(nil, Options{}); err == nil {
		t.Error("WriteSMF(nil) should fail")
	}
}

func TestWriteSMFDefaults(t *testing.T) {
	data, err := WriteSMF([]sequence.Step{{Note: 60}}, Options{Tempo: -5})
	if err != nil {
		t.Fatalf("WriteSMF() error: %v", err)
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	var velocity uint8
	for _, track := range s.Tracks {
		for _, ev := range track {
			var channel, key uint8
			if ev.Message.GetNoteStart(&channel, &key, &velocity) {
				if velocity != 100 {
					t.Errorf("default velocity = %d, want 100", velocity)
				}
			}
		}
	}
}
