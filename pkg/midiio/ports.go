package midiio

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver
)

// InPortNames lists the available MIDI input ports
func InPortNames() []string {
	ins := midi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

// OutPortNames lists the available MIDI output ports
func OutPortNames() []string {
	outs := midi.GetOutPorts()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// FindIn resolves an input port by name. An empty name selects the first
// available port (the system default). Matching is a case-insensitive
// substring test, then exact.
func FindIn(name string) (drivers.In, error) {
	ins := midi.GetInPorts()
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI input ports found")
	}
	if name == "" {
		return ins[0], nil
	}
	for _, in := range ins {
		if in.String() == name {
			return in, nil
		}
	}
	lower := strings.ToLower(name)
	for _, in := range ins {
		if strings.Contains(strings.ToLower(in.String()), lower) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input port %q not found, available: %v", name, InPortNames())
}

// FindOut resolves an output port by name, with the same rules as FindIn
func FindOut(name string) (drivers.Out, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI output ports found")
	}
	if name == "" {
		return outs[0], nil
	}
	for _, out := range outs {
		if out.String() == name {
			return out, nil
		}
	}
	lower := strings.ToLower(name)
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), lower) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output port %q not found, available: %v", name, OutPortNames())
}

// CloseDriver releases the MIDI driver. Call once on process exit.
func CloseDriver() {
	midi.CloseDriver()
}
