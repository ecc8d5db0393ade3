package z80

// CPU is the Z80 core: the register file, the pin bus, and the tiny
// piece of sequencing state (op.pip/op.step) that lets one Tick call
// advance exactly one T-state. It is single-threaded and cooperatively
// driven: Tick never blocks, sleeps, or retains hidden
// state beyond this struct.
type CPU struct {
	Registers

	pins Pins

	cur        *decEntry
	opStep     uint16
	opPip      uint64
	dispatched bool // a step this tick replaced cur/opPip via dispatch()
	instDone   bool // the last executed step was an instruction overlap

	afterEI bool // EI-deferred INT sampling
	nmiEdge bool // NMI input observed high since the last sample

	prevNMI bool // previous pins.Has(PinNMI), for edge detection

	daisy *Chain // optional daisy-chain of interrupt-priority devices
}

// initialRegValue is the manual-convention reset value for the main,
// shadow and index register pairs.
const initialRegValue = 0xFFFF

// New creates a CPU and performs Init.
func New() *CPU {
	c := &CPU{}
	c.Init()
	return c
}

// AttachDaisyChain wires an interrupt-priority daisy chain to the CPU.
// The CPU consults only the chain's aggregate INT request; RETI pulses
// are forwarded to it.
func (c *CPU) AttachDaisyChain(chain *Chain) { c.daisy = chain }

// Init resets all architectural state to its documented power-on values
// and arms the pipeline to fetch from PC=0.
func (c *CPU) Init() Pins {
	c.Registers = Registers{}
	c.SetAF(initialRegValue)
	c.SetBC(initialRegValue)
	c.SetDE(initialRegValue)
	c.SetHL(initialRegValue)
	c.A_, c.F_ = uint8(initialRegValue>>8), uint8(initialRegValue&0xFF)
	c.B_, c.C_ = uint8(initialRegValue>>8), uint8(initialRegValue&0xFF)
	c.D_, c.E_ = uint8(initialRegValue>>8), uint8(initialRegValue&0xFF)
	c.H_, c.L_ = uint8(initialRegValue>>8), uint8(initialRegValue&0xFF)
	c.SetIX(initialRegValue)
	c.SetIY(initialRegValue)
	c.SP = initialRegValue
	c.PC = 0
	c.I = 0
	c.R = 0
	c.IM = 0
	c.IFF1 = false
	c.IFF2 = false
	c.HaltF = false
	c.prefix = PrefixNone

	c.pins = 0
	c.afterEI = false
	c.nmiEdge = false
	c.prevNMI = false
	c.beginFetch()
	return c.pins
}

// Reset performs the documented RES response: clears PC/IFF/IM/prefix
// state, zeroes I and R, and arms a fetch from 0x0000.
func (c *CPU) Reset() {
	c.PC = 0
	c.IFF1 = false
	c.IFF2 = false
	c.IM = 0
	c.I = 0
	c.R = 0
	c.HaltF = false
	c.prefix = PrefixNone
	c.beginFetch()
}

// Prefetch forces PC to newPC and arms an opcode fetch for the start of
// the next tick. Used by a host that needs to redirect
// execution outside of the normal CALL/JP/RET instruction flow (e.g.
// loading a snapshot).
func (c *CPU) Prefetch(newPC uint16) Pins {
	c.PC = newPC
	c.prefix = PrefixNone
	c.beginFetch()
	return c.pins
}

// OpDone reports whether the instruction overlap T-state has just
// executed. Prefix bytes and mid-instruction dispatches
// do not count: only the final overlap of a whole instruction (or of an
// interrupt acceptance sequence) sets this, and the next Tick clears it
// again.
func (c *CPU) OpDone() bool { return c.instDone }

// Pins returns the pin word as currently driven by the CPU.
func (c *CPU) Pins() Pins { return c.pins }

// Tick advances the CPU by exactly one T-state. pins is
// the bus state as last driven by the host (data bus for reads,
// WAIT/INT/NMI/RES levels); the returned pins are what the CPU wishes to
// drive for the upcoming T-state.
func (c *CPU) Tick(pins Pins) Pins {
	c.pins = pins

	nmiNow := c.pins.Has(PinNMI)
	if nmiNow && !c.prevNMI {
		c.nmiEdge = true
	}
	c.prevNMI = nmiNow

	waitSample := c.opPip&(1<<32) != 0
	if waitSample && c.pins.Has(PinWAIT) {
		return c.pins
	}

	c.pins = c.pins.clearCtrl().Clear(PinRETI)

	c.instDone = false
	c.dispatched = false
	if c.opPip&1 != 0 {
		fn := c.cur.steps[c.opStep]
		c.opStep++
		fn(c)
	}

	// A step that called dispatch()/beginFetch() already replaced opPip
	// with a fresh entry starting at its own position 0; shifting here
	// would skip that position entirely. The freshly dispatched entry's
	// position 0 is evaluated on the next Tick call instead.
	if !c.dispatched {
		c.opPip >>= 1
	}
	return c.pins
}

// beginFetch starts the next M1 cycle: drives address=PC, asserts
// M1|MREQ|RD, and resets the sequencer to the universal fetch steps of
// fetchEntry. It runs inside the overlap
// step of the instruction that is ending, so the M1 pins are on the bus
// during that same T-state: the last T-state of instruction N doubles
// as T1 of the M1 cycle of instruction N+1.
func (c *CPU) beginFetch() {
	c.pins = c.pins.WithAddr(c.PC).Set(PinM1 | PinMREQ | PinRD)
	if c.HaltF {
		c.pins = c.pins.Set(PinHALT)
	} else {
		c.pins = c.pins.Clear(PinHALT)
	}
	c.dispatch(&fetchEntry)
}

// fetchEntry is the universal fetch/decode/refresh sequence every
// opcode byte (and every prefix byte) goes through, covering T2-T4 of
// the M1 cycle (T1 is the overlap T-state of the previous instruction,
// where beginFetch drove the fetch pins):
//
//	position 0 (T2) — re-assert the fetch strobes and latch the opcode
//	 from the data bus; wait-sampleable.
//	position 1 (T3) — drive the refresh cycle (address I:R, MREQ|RFSH)
//	 and bump the low 7 bits of R.
//	position 2 (T4) — resolve prefixes and dispatch into the decode
//	 table entry; the entry's own position 0 runs on
//	 the next tick.
var fetchEntry decEntry

// prefixEntry is the single T-state a resolved CB/ED/DD/FD lead-in byte
// spends before the next M1 begins (T1 of that M1). No interrupt
// sampling happens here: prefixes and their following byte are
// indivisible.
var prefixEntry decEntry

func init() {
	fetchEntry = decEntry{
		pip:   uint64(1<<0|1<<1|1<<2) | uint64(1<<32),
		steps: []stepFn{stepFetchData, stepFetchRefresh, stepFetchDispatch},
	}
	prefixEntry = decEntry{
		pip:   1,
		steps: []stepFn{func(c *CPU) { c.beginFetch() }},
	}
}

// stepFetchData is fetch position 0: hold the M1 strobes, latch the
// fetched opcode byte into IR, and step PC past it. While halted the
// bus byte is ignored, NOP executes instead, and PC holds still at the
// halt instruction. Deferring the increment to this
// T-state keeps PC equal to the next instruction's address for the
// whole overlap T-state, where the host observes it at OpDone.
func stepFetchData(c *CPU) {
	c.pins = c.pins.Set(PinM1 | PinMREQ | PinRD)
	if c.HaltF {
		c.IR = 0x00
	} else {
		c.IR = c.pins.Data()
		c.PC++
	}
}

// stepFetchRefresh is fetch position 1: drive the refresh cycle and
// bump R. R advances once per M1, which includes every prefix byte and
// every interrupt acknowledge cycle.
func stepFetchRefresh(c *CPU) {
	c.pins = c.pins.WithAddr(uint16(c.I)<<8 | uint16(c.R)).Set(PinMREQ | PinRFSH)
	c.bumpR()
}

// armDDCB arms the two extra plain memory reads a DD CB / FD CB
// instruction needs before dispatch — the displacement byte, then the
// final sub-opcode byte — followed by the internal T-state that
// resolves WZ = IX+d (or IY+d) and the dispatch into the ddcbTable.
func (c *CPU) armDDCB() {
	b := newBuilder()
	b.memRead(func(c *CPU) uint16 { return c.PC }, func(c *CPU, v uint8) {
		c.disp = int8(v)
		c.PC++
	})
	b.memRead(func(c *CPU) uint16 { return c.PC }, func(c *CPU, v uint8) {
		c.IR = v
		c.PC++
	})
	b.active(false, func(c *CPU) {
		c.WZ = uint16(int32(c.hlLike()) + int32(c.disp))
	})
	b.active(false, func(c *CPU) {
		c.dispatch(&ddcbTable[c.IR])
	})
	entry := b.build()
	c.dispatch(&entry)
}

// stepFetchDispatch is fetch position 2: either chain into another
// prefix fetch or dispatch into the resolved opcode's decode entry.
func stepFetchDispatch(c *CPU) {
	c.pins = c.pins.Set(PinRFSH)

	switch {
	case c.IR == 0xCB && (c.prefix == PrefixDD || c.prefix == PrefixFD):
		// DD CB / FD CB: the displacement byte is fetched before the
		// final sub-opcode byte, both as plain memory reads rather than
		// fresh M1 cycles.
		if c.prefix == PrefixDD {
			c.prefix = PrefixDDCB
		} else {
			c.prefix = PrefixFDCB
		}
		c.armDDCB()
	case c.IR == 0xCB:
		c.prefix = PrefixCB
		c.dispatch(&prefixEntry)
	case c.IR == 0xED:
		c.prefix = PrefixED
		c.dispatch(&prefixEntry)
	case c.IR == 0xDD:
		c.prefix = PrefixDD
		c.dispatch(&prefixEntry)
	case c.IR == 0xFD:
		c.prefix = PrefixFD
		c.dispatch(&prefixEntry)
	default:
		c.dispatch(c.lookup(c.IR))
	}
}

// lookup selects the decode table entry for the resolved opcode byte
// given the current prefix state.
func (c *CPU) lookup(op uint8) *decEntry {
	switch c.prefix {
	case PrefixCB:
		return &cbTable[op]
	case PrefixED:
		return &edTable[op]
	case PrefixDD:
		return &ddTable[op]
	case PrefixFD:
		return &fdTable[op]
	default:
		return &mainTable[op]
	}
}

// dispatch splices in a decode entry as the instruction currently
// executing, starting fresh at its own step 0.
func (c *CPU) dispatch(entry *decEntry) {
	c.cur = entry
	c.opStep = 0
	c.opPip = entry.pip
	c.dispatched = true
}
