// Package conformance runs fixed golden-path scenarios (immediate
// loads, ALU ops, CALL nn, interrupt acceptance, WAIT-stretched memory
// access) through a real CPU for a fixed number of T-states and checks
// the resulting register and memory state against the documented
// behavior. Pin traffic itself is not checked.
package conformance

import "github.com/oisee/z80core/pkg/z80"

// Vector is one conformance scenario: a register/flag setup, a flat
// memory and I/O image the host bus resolves reads and writes against,
// a fixed tick budget, and a final assertion.
type Vector struct {
	Name  string
	Setup func(c *z80.CPU)
	Mem   map[uint16]uint8
	IO    map[uint16]uint8
	Ticks int
	Check func(c *z80.CPU) error

	// Hold is asserted on every tick (level-sensitive inputs like INT,
	// which a real peripheral keeps driving until acknowledged).
	Hold z80.Pins

	// PulseAt asserts extra pins on exactly one tick index (0-based),
	// e.g. a single-T WAIT stretch. Unlike Hold, it does not persist to
	// the next tick.
	PulseAt map[int]z80.Pins
}

// transientPins are host-driven inputs the harness itself manages;
// they are stripped from the pins carried between iterations so Hold
// and PulseAt are the only source of truth for them.
const transientPins = z80.PinWAIT | z80.PinINT | z80.PinNMI | z80.PinRES

// Run drives a fresh CPU through v.Ticks T-states against v.Mem/v.IO as
// a minimal bus model, then applies v.Check.
func Run(v Vector) error {
	c := z80.New()
	if v.Setup != nil {
		v.Setup(c)
	}
	if v.Mem == nil {
		v.Mem = map[uint16]uint8{}
	}
	if v.IO == nil {
		v.IO = map[uint16]uint8{}
	}

	pins := c.Pins()
	for i := 0; i < v.Ticks; i++ {
		pins = pins.Clear(transientPins) | v.Hold
		if extra, ok := v.PulseAt[i]; ok {
			pins = pins.Set(extra)
		}
		switch {
		case pins.Has(z80.PinMREQ) && pins.Has(z80.PinRD):
			pins = pins.WithData(v.Mem[pins.Addr()])
		case pins.Has(z80.PinMREQ) && pins.Has(z80.PinWR):
			v.Mem[pins.Addr()] = pins.Data()
		case pins.Has(z80.PinIORQ) && pins.Has(z80.PinRD):
			pins = pins.WithData(v.IO[pins.Addr()])
		case pins.Has(z80.PinIORQ) && pins.Has(z80.PinWR):
			v.IO[pins.Addr()] = pins.Data()
		}
		pins = c.Tick(pins)
	}

	if v.Check != nil {
		return v.Check(c)
	}
	return nil
}
