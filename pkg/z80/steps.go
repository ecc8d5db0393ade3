package z80

// stepFn is one T-state's worth of CPU action: drive pins, capture the
// data latch, mutate registers, or call an ALU primitive. A decoded
// instruction is a slice of these, one per *active* T-state (inactive
// T-states, where the bus simply idles, need no entry at all — see
// decEntry.pip).
type stepFn func(c *CPU)

// decEntry is the static per-opcode descriptor: the initial pipeline
// word paired with the instruction's step sequence. The steps are held
// as a slice per entry rather than an offset into one giant flat array.
type decEntry struct {
	pip   uint64
	steps []stepFn
}

// builder accumulates a decEntry one T-state at a time. pos tracks the
// bit position (T-state index) of the *next* T-state to be described;
// idle T-states simply advance pos without recording a step.
type builder struct {
	pip   uint64
	pos   uint
	steps []stepFn
}

func newBuilder() *builder { return &builder{} }

// active records a step at the current position, optionally marking it
// wait-sampleable, and advances to the next position.
func (b *builder) active(waitSample bool, fn stepFn) {
	b.pip |= 1 << b.pos
	if waitSample {
		b.pip |= 1 << (32 + b.pos)
	}
	b.steps = append(b.steps, fn)
	b.pos++
}

// idle advances n T-states with no action and no wait sampling — the
// bus simply holds whatever the last active step drove, then the
// control-strobe clear at the top of the next tick drops it.
func (b *builder) idle(n uint) { b.pos += n }

// build finalizes the entry.
func (b *builder) build() decEntry { return decEntry{pip: b.pip, steps: b.steps} }

// memRead appends a 3T memory-read machine cycle: address
// and MREQ|RD driven for T1-T2 (T2 is wait-sampleable), data captured
// into the latch and passed to capture at T2, T3 idles with the bus
// released.
func (b *builder) memRead(addr func(c *CPU) uint16, capture func(c *CPU, v uint8)) {
	b.active(false, func(c *CPU) {
		c.pins = c.pins.WithAddr(addr(c)).Set(PinMREQ | PinRD)
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinMREQ | PinRD)
		c.dlatch = c.pins.Data()
		if capture != nil {
			capture(c, c.dlatch)
		}
	})
	b.idle(1)
}

// memWrite appends a 3T memory-write machine cycle.
func (b *builder) memWrite(addr func(c *CPU) uint16, data func(c *CPU) uint8) {
	b.active(false, func(c *CPU) {
		c.pins = c.pins.WithAddr(addr(c)).WithData(data(c)).Set(PinMREQ | PinWR)
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinMREQ | PinWR)
	})
	b.idle(1)
}

// ioRead appends a 4T I/O read machine cycle: one idle T-state before
// the strobe (the classic Z80 IO wait state), address+IORQ|RD held for
// two T-states (the second wait-sampleable), then idle.
func (b *builder) ioRead(addr func(c *CPU) uint16, capture func(c *CPU, v uint8)) {
	b.idle(1)
	b.active(false, func(c *CPU) {
		c.pins = c.pins.WithAddr(addr(c)).Set(PinIORQ | PinRD)
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinIORQ | PinRD)
		c.dlatch = c.pins.Data()
		if capture != nil {
			capture(c, c.dlatch)
		}
	})
	b.idle(1)
}

// ioWrite appends a 4T I/O write machine cycle.
func (b *builder) ioWrite(addr func(c *CPU) uint16, data func(c *CPU) uint8) {
	b.idle(1)
	b.active(false, func(c *CPU) {
		c.pins = c.pins.WithAddr(addr(c)).WithData(data(c)).Set(PinIORQ | PinWR)
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinIORQ | PinWR)
	})
	b.idle(1)
}

// internalStep appends n purely-internal T-states (no bus activity). If
// fn is non-nil it runs on the first of them; the rest simply idle. Used
// for the extra T-states many register-only and indexed instructions
// spend doing internal register arithmetic (e.g. the extra T-state of
// INC (HL), or the five extra T-states computing IX+d).
func (b *builder) internalStep(n uint, fn stepFn) {
	if n == 0 {
		return
	}
	if fn != nil {
		b.active(false, fn)
		n--
	}
	b.idle(n)
}

// overlap appends the final T-state of the instruction: fn performs the
// overlap work (applying an ALU result, moving a register, …) and the
// engine itself splices in end-of-instruction handling (interrupt
// sampling, then the next M1 fetch) immediately after fn runs.
func (b *builder) overlap(fn stepFn) {
	b.active(false, func(c *CPU) {
		if fn != nil {
			fn(c)
		}
		c.endInstruction()
	})
}
