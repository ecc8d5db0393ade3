package z80

// The CB-prefixed table is fully regular: rotate/shift (0x00-0x3F), BIT
// (0x40-0x7F), RES (0x80-0xBF) and SET (0xC0-0xFF), each crossed with
// the eight 3-bit register operands. Register forms cost 8T (both
// fetches only, no extra work); the (HL) form costs 15T for
// rotate/shift/RES/SET (an extra read-modify-write cycle) and 12T for
// BIT (read only, no write-back) —
var cbTable [256]decEntry

func init() {
	for op := 0; op < 256; op++ {
		r := uint8(op & 0x07)
		group := uint8(op >> 6)
		bit := uint8((op >> 3) & 0x07)

		var b builder
		switch group {
		case 0: // rotate/shift
			rotKind := bit
			if r == 6 {
				b.memRead(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint8) {
					res, f := rotOp(rotKind, v, c.F&FlagC)
					c.dlatch, c.flatch = res, f
				})
				b.internalStep(1, nil)
				b.memWrite(func(c *CPU) uint16 { return c.HL() }, func(c *CPU) uint8 { return c.dlatch })
				b.overlap(func(c *CPU) { c.F = c.flatch })
			} else {
				b.overlap(func(c *CPU) {
					v := r8Get(c, r)
					res, f := rotOp(rotKind, v, c.F&FlagC)
					r8Set(c, r, res)
					c.F = f
				})
			}
		case 1: // BIT n,r
			n := bit
			if r == 6 {
				b.memRead(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint8) {
					c.flatch = bitFlags(v, uint(n), uint8(c.WZ>>8), c.F)
				})
				b.internalStep(1, nil)
				b.overlap(func(c *CPU) { c.F = c.flatch })
			} else {
				b.overlap(func(c *CPU) {
					v := r8Get(c, r)
					c.F = bitFlags(v, uint(n), v, c.F)
				})
			}
		case 2: // RES n,r
			n := bit
			if r == 6 {
				b.memRead(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint8) {
					c.dlatch = v &^ (1 << n)
				})
				b.internalStep(1, nil)
				b.memWrite(func(c *CPU) uint16 { return c.HL() }, func(c *CPU) uint8 { return c.dlatch })
				b.overlap(nil)
			} else {
				b.overlap(func(c *CPU) {
					r8Set(c, r, r8Get(c, r)&^(1<<n))
				})
			}
		default: // SET n,r
			n := bit
			if r == 6 {
				b.memRead(func(c *CPU) uint16 { return c.HL() }, func(c *CPU, v uint8) {
					c.dlatch = v | (1 << n)
				})
				b.internalStep(1, nil)
				b.memWrite(func(c *CPU) uint16 { return c.HL() }, func(c *CPU) uint8 { return c.dlatch })
				b.overlap(nil)
			} else {
				b.overlap(func(c *CPU) {
					r8Set(c, r, r8Get(c, r)|(1<<n))
				})
			}
		}
		cbTable[op] = b.build()
	}
}
