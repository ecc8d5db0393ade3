package z80

// The DD CB / FD CB table operates on the (IX+d)/(IY+d) address already
// computed into WZ by armDDCB. It is regular in the same way as
// the plain CB table, plus the undocumented "dual-target" forms: every
// opcode whose low 3 bits are not 6 also stores the computed result
// into the named 8-bit register. BIT n,(IX+d)/(IY+d) has no register
// form at all — bits 0-2 of those opcodes are ignored, not aliased.
var ddcbTable [256]decEntry

func init() {
	for op := 0; op < 256; op++ {
		r := uint8(op & 0x07)
		group := uint8(op >> 6)
		bit := uint8((op >> 3) & 0x07)

		var b builder
		switch group {
		case 0:
			rotKind := bit
			b.memRead(func(c *CPU) uint16 { return c.WZ }, func(c *CPU, v uint8) {
				res, f := rotOp(rotKind, v, c.F&FlagC)
				c.dlatch, c.flatch = res, f
			})
			b.internalStep(1, nil)
			b.memWrite(func(c *CPU) uint16 { return c.WZ }, func(c *CPU) uint8 { return c.dlatch })
			b.overlap(func(c *CPU) {
				c.F = c.flatch
				if r != 6 {
					r8SetPlain(c, r, c.dlatch)
				}
			})
		case 1:
			n := bit
			b.memRead(func(c *CPU) uint16 { return c.WZ }, func(c *CPU, v uint8) {
				c.flatch = bitFlags(v, uint(n), uint8(c.WZ>>8), c.F)
			})
			b.internalStep(1, nil)
			b.overlap(func(c *CPU) { c.F = c.flatch })
		case 2:
			n := bit
			b.memRead(func(c *CPU) uint16 { return c.WZ }, func(c *CPU, v uint8) {
				c.dlatch = v &^ (1 << n)
			})
			b.internalStep(1, nil)
			b.memWrite(func(c *CPU) uint16 { return c.WZ }, func(c *CPU) uint8 { return c.dlatch })
			b.overlap(func(c *CPU) {
				if r != 6 {
					r8SetPlain(c, r, c.dlatch)
				}
			})
		default:
			n := bit
			b.memRead(func(c *CPU) uint16 { return c.WZ }, func(c *CPU, v uint8) {
				c.dlatch = v | (1 << n)
			})
			b.internalStep(1, nil)
			b.memWrite(func(c *CPU) uint16 { return c.WZ }, func(c *CPU) uint8 { return c.dlatch })
			b.overlap(func(c *CPU) {
				if r != 6 {
					r8SetPlain(c, r, c.dlatch)
				}
			})
		}
		ddcbTable[op] = b.build()
	}
}
