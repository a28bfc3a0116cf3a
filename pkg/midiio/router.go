package midiio

import (
	"context"
	"fmt"
	"log"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/holmesrichards/playoeis/pkg/sequence"
)

// ExhaustPolicy decides what happens once a one-shot player has consumed
// every step
type ExhaustPolicy int

const (
	// ExhaustIgnore keeps running and drops further note-ons
	ExhaustIgnore ExhaustPolicy = iota
	// ExhaustExit stops the routing loop after the last step
	ExhaustExit
)

// ParseExhaustPolicy maps the --on-end flag values to a policy
func ParseExhaustPolicy(s string) (ExhaustPolicy, error) {
	switch s {
	case "", "ignore":
		return ExhaustIgnore, nil
	case "exit":
		return ExhaustExit, nil
	default:
		return ExhaustIgnore, fmt.Errorf("unknown on-end policy %q (want ignore or exit)", s)
	}
}

// Router consumes events from one input port and drives a step player.
// Note events are intercepted and substituted; everything else is
// forwarded verbatim. Events are handled strictly one at a time in
// arrival order.
type Router struct {
	in     drivers.In
	out    *Output
	player *sequence.Player

	OnEnd   ExhaustPolicy
	Verbose bool

	// OnEvent, when set, observes every handled event after the player
	// has processed it. Called from the routing goroutine.
	OnEvent func(Event)
}

// NewRouter wires an input port and an output to a player
func NewRouter(in drivers.In, out *Output, player *sequence.Player) *Router {
	return &Router{in: in, out: out, player: player}
}

// Run listens on the input port and routes events until ctx is canceled
// or, with ExhaustExit, until the sequence is exhausted. On return all
// still-sounding notes have been released.
func (r *Router) Run(ctx context.Context) error {
	events := make(chan Event, 64)
	stop, err := midi.ListenTo(r.in, func(msg midi.Message, timestampms int32) {
		select {
		case events <- Classify(msg):
		default:
			// input faster than we drain; drop rather than block the driver
		}
	})
	if err != nil {
		return fmt.Errorf("listen on %q: %w", r.in.String(), err)
	}
	defer stop()
	defer func() {
		if err := r.player.Flush(); err != nil {
			log.Printf("flush: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if err := r.handle(ev); err != nil {
				// a dead output port is not recoverable
				return err
			}
			if r.OnEvent != nil {
				r.OnEvent(ev)
			}
			if r.OnEnd == ExhaustExit && r.player.Exhausted() {
				if r.Verbose {
					log.Printf("sequence exhausted after %d steps", r.player.Length())
				}
				return nil
			}
		}
	}
}

func (r *Router) handle(ev Event) error {
	switch ev.Kind {
	case EventNoteOn:
		if r.Verbose {
			log.Printf("step %d: %s", r.player.Cursor(), ev)
		}
		return r.player.HandleNoteOn(ev.Channel, ev.Note, ev.Velocity)
	case EventNoteOff:
		return r.player.HandleNoteOff(ev.Channel, ev.Note)
	default:
		if len(ev.Raw) == 0 {
			return nil // malformed, drop
		}
		return r.out.Send(ev.Raw)
	}
}
