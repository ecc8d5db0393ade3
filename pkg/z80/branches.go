package z80

// Conditional branches (JR cc,e / DJNZ / CALL cc,nn / RET cc) only
// spend their extra T-states when the branch is actually taken. Since
// a decEntry's step/pip shape is fixed at table-build time, the taken
// path is built on demand here and spliced in mid-instruction via
// dispatch, exactly like prefix chaining.

// padEntry is a single end-of-instruction T-state with no work of its
// own, dispatched by decision steps that fire one T-state before the
// instruction's overlap (the not-taken RET cc path).
var padEntry = decEntry{
	pip:   1,
	steps: []stepFn{func(c *CPU) { c.endInstruction() }},
}

// relJumpTaken appends the 5T relative-jump delay (the last of which is
// the overlap) and adds e to PC, used by the taken path of JR e /
// JR cc,e / DJNZ. The displacement travels in c.disp so the entry built
// here carries no state of its own.
func (c *CPU) relJumpTaken() {
	b := newBuilder()
	b.internalStep(4, nil)
	b.overlap(func(c *CPU) {
		c.PC = uint16(int32(c.PC) + int32(c.disp))
		c.WZ = c.PC
	})
	entry := b.build()
	c.dispatch(&entry)
}

// callTaken appends the push+jump machine cycles of a taken CALL cc,nn,
// continuing from the already-fetched target held in WZ. The decision
// T-state that dispatched it doubles as the stretched final T-state of
// the operand read, so no extra internal cycle is needed here.
func (c *CPU) callTaken() {
	b := newBuilder()
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC >> 8) })
	b.memWrite(func(c *CPU) uint16 { c.SP--; return c.SP }, func(c *CPU) uint8 { return uint8(c.PC) })
	b.overlap(func(c *CPU) { c.PC = c.WZ })
	entry := b.build()
	c.dispatch(&entry)
}

// retTaken appends the pop+jump machine cycles of a taken RET cc.
func (c *CPU) retTaken() {
	b := newBuilder()
	b.memRead(func(c *CPU) uint16 { a := c.SP; c.SP++; return a }, func(c *CPU, v uint8) { c.llatch = v })
	b.memRead(func(c *CPU) uint16 { a := c.SP; c.SP++; return a }, nil)
	b.overlap(func(c *CPU) {
		c.PC = uint16(c.dlatch)<<8 | uint16(c.llatch)
		c.WZ = c.PC
	})
	entry := b.build()
	c.dispatch(&entry)
}
