package z80

// This file implements the interrupt logic: NMI/INT sampling at the
// overlap T-state, IM 0/1/2 acceptance sequences, HALT, the
// EI-deferral rule, and the daisy-chain RETI handshake.

// endInstruction is called from the overlap step of every instruction
// (builder.overlap splices it in automatically). It samples RES, NMI
// and INT in that priority order and either begins the next opcode
// fetch or dispatches into a reset/interrupt-accept sequence.
func (c *CPU) endInstruction() {
	c.prefix = PrefixNone
	c.instDone = true

	if c.pins.Has(PinRES) {
		c.Reset()
		return
	}

	if c.nmiEdge {
		c.nmiEdge = false
		c.acceptNMI()
		return
	}

	if c.afterEI {
		// INT stays masked for exactly one instruction after EI; NMI
		// and RES are not deferred.
		c.afterEI = false
		c.beginFetch()
		return
	}

	if c.IFF1 && c.intRequested() {
		c.acceptINT()
		return
	}

	c.beginFetch()
}

// notifyRETI pulses the virtual RETI pin on the attached daisy chain, if
// any, letting whichever device is in-service lower that flag. Called by
// the RETI opcode handler in the ED decode table; RETN does not call it.
func (c *CPU) notifyRETI() {
	if c.daisy != nil {
		c.daisy.NotifyRETI()
	}
}

// intRequested reports whether a maskable interrupt is currently being
// requested, either directly on the INT pin or via the attached daisy
// chain's aggregate request.
func (c *CPU) intRequested() bool {
	if c.daisy != nil {
		return c.daisy.Requesting()
	}
	return c.pins.Has(PinINT)
}

// leaveHalt clears HALT and advances PC past the halt opcode, so the
// accepted interrupt pushes the address of the instruction after it.
func (c *CPU) leaveHalt() {
	if c.HaltF {
		c.HaltF = false
		c.PC++
		c.pins = c.pins.Clear(PinHALT)
	}
}

// acceptNMI implements the 11T NMI response: a dummy M1 cycle, push PC,
// jump to 0x0066, clear IFF1 only so RETN can restore it from IFF2.
func (c *CPU) acceptNMI() {
	c.leaveHalt()
	c.IFF1 = false

	b := newBuilder()
	b.internalStep(4, func(c *CPU) { c.bumpR() })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC >> 8) })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC) })
	b.overlap(func(c *CPU) { c.PC = 0x0066; c.WZ = c.PC })
	entry := b.build()
	c.dispatch(&entry)
}

// acceptINT implements IM 0/1/2 acceptance. All three
// clear IFF1 and IFF2.
func (c *CPU) acceptINT() {
	c.leaveHalt()
	c.IFF1 = false
	c.IFF2 = false

	switch c.IM {
	case 1:
		c.acceptIM1()
	case 2:
		c.acceptIM2()
	default:
		c.acceptIM0()
	}
}

// ackM1 appends the 7T interrupt-acknowledge M1 cycle: two extra wait
// T-states, then M1|IORQ asserted while the device places a byte on
// the data bus, latched into dlatch. The first T-state of the cycle is
// the overlap tick that dispatched the acceptance sequence.
func (b *builder) ackM1() {
	b.idle(2)
	b.active(false, func(c *CPU) {
		c.pins = c.pins.Set(PinM1 | PinIORQ)
		c.bumpR()
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinM1 | PinIORQ)
		c.dlatch = c.pins.Data()
	})
	b.idle(2)
}

// acceptIM0 reads one instruction byte from the data bus during an
// IORQ-asserted M1 cycle and executes it. Only the common case — the
// device places an RST nn opcode on the bus — is implemented; a device
// placing an arbitrary multi-byte instruction is unusual enough that
// real daisy-chain peripherals (Z80 PIO/CTC/SIO) never do it.
func (c *CPU) acceptIM0() {
	b := newBuilder()
	b.ackM1()
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC >> 8) })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC) })
	b.overlap(func(c *CPU) {
		c.PC = uint16(c.dlatch & 0x38)
		c.WZ = c.PC
	})
	entry := b.build()
	c.dispatch(&entry)
}

// acceptIM1 executes RST 38h unconditionally, 13T total.
func (c *CPU) acceptIM1() {
	b := newBuilder()
	b.ackM1()
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC >> 8) })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC) })
	b.overlap(func(c *CPU) { c.PC = 0x0038; c.WZ = c.PC })
	entry := b.build()
	c.dispatch(&entry)
}

// acceptIM2 reads one byte from the device during an IORQ-asserted M1
// cycle, forms the vector {I, byte & 0xFE}, fetches the 16-bit target
// from that address, and jumps there. 19T total. When a daisy chain is
// attached, the vector comes from whichever device is highest priority
// and pending, not the raw data bus.
func (c *CPU) acceptIM2() {
	var vecLo uint8
	b := newBuilder()
	b.idle(2)
	b.active(false, func(c *CPU) {
		c.pins = c.pins.Set(PinM1 | PinIORQ)
		c.bumpR()
	})
	b.active(true, func(c *CPU) {
		c.pins = c.pins.Set(PinM1 | PinIORQ)
		if c.daisy != nil {
			if v, ok := c.daisy.Acknowledge(); ok {
				vecLo = v
				return
			}
		}
		vecLo = c.pins.Data()
	})
	b.idle(2)
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC >> 8) })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC) })
	b.memRead(func(c *CPU) uint16 { return uint16(c.I)<<8 | uint16(vecLo&0xFE) }, func(c *CPU, v uint8) {
		c.WZ = (c.WZ & 0xFF00) | uint16(v)
	})
	b.memRead(func(c *CPU) uint16 { return (uint16(c.I)<<8 | uint16(vecLo&0xFE)) + 1 }, func(c *CPU, v uint8) {
		c.WZ = uint16(v)<<8 | (c.WZ & 0xFF)
	})
	b.overlap(func(c *CPU) { c.PC = c.WZ })
	entry := b.build()
	c.dispatch(&entry)
}
