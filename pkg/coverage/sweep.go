// Package coverage sweeps the entire (prefix, opcode) space the CPU
// core can decode and checks it for completeness: every slot must run
// to an OpDone boundary within a bounded number of T-states without
// panicking.
package coverage

import (
	"fmt"

	"github.com/oisee/z80core/pkg/z80"
)

// Prefix identifies which decode table a slot belongs to.
type Prefix int

const (
	Main Prefix = iota
	CB
	ED
	DD
	FD
	DDCB
	FDCB
)

func (p Prefix) String() string {
	switch p {
	case CB:
		return "CB"
	case ED:
		return "ED"
	case DD:
		return "DD"
	case FD:
		return "FD"
	case DDCB:
		return "DDCB"
	case FDCB:
		return "FDCB"
	default:
		return "main"
	}
}

// maxTicksPerOp bounds how long a single swept opcode is allowed to run
// before it is considered stuck (an incomplete decode entry that never
// reaches its overlap step).
const maxTicksPerOp = 40

// Gap records a decode-table slot that failed the sweep.
type Gap struct {
	Prefix Prefix
	Opcode uint8
	Reason string
}

func (g Gap) String() string {
	return fmt.Sprintf("%s %02X: %s", g.Prefix, g.Opcode, g.Reason)
}

// Sweep walks every (prefix, opcode) pair the fetch logic can reach and
// returns every Gap found. An empty result means the whole opcode space
// decodes and terminates cleanly.
func Sweep() []Gap {
	var gaps []Gap
	for _, p := range []Prefix{Main, CB, ED, DD, FD, DDCB, FDCB} {
		for op := 0; op < 256; op++ {
			if g, ok := checkOne(p, uint8(op)); ok {
				gaps = append(gaps, g)
			}
		}
	}
	return gaps
}

// checkOne builds the byte stream that reaches slot (p, op) and drives
// a fresh CPU through it, recovering any panic into a Gap.
func checkOne(p Prefix, op uint8) (gap Gap, found bool) {
	defer func() {
		if r := recover(); r != nil {
			gap = Gap{Prefix: p, Opcode: op, Reason: fmt.Sprintf("panic: %v", r)}
			found = true
		}
	}()

	stream := instrBytes(p, op)
	c := z80.New()
	pins := c.Pins()

	reachedOpDone := false
	for i := 0; i < maxTicksPerOp; i++ {
		if pins.Has(z80.PinMREQ) && pins.Has(z80.PinRD) {
			var b uint8
			if int(pins.Addr()) < len(stream) {
				b = stream[pins.Addr()]
			}
			pins = pins.WithData(b)
		}
		if pins.Has(z80.PinIORQ) && pins.Has(z80.PinRD) {
			pins = pins.WithData(0xFF)
		}
		pins = c.Tick(pins)
		if c.OpDone() {
			reachedOpDone = true
			break
		}
	}

	if !reachedOpDone {
		return Gap{Prefix: p, Opcode: op, Reason: fmt.Sprintf("did not reach OpDone within %dT", maxTicksPerOp)}, true
	}
	return Gap{}, false
}

// instrBytes builds the byte stream needed to reach a given (prefix,
// opcode) decode-table slot: the prefix byte(s), the displacement byte
// for DDCB/FDCB, then the opcode, followed by an executable NOP so the
// sweep doesn't wander into whatever happens to follow in memory.
func instrBytes(p Prefix, op uint8) []uint8 {
	switch p {
	case CB:
		return []uint8{0xCB, op, 0x00}
	case ED:
		return []uint8{0xED, op, 0x00}
	case DD:
		return []uint8{0xDD, op, 0x00}
	case FD:
		return []uint8{0xFD, op, 0x00}
	case DDCB:
		return []uint8{0xDD, 0xCB, 0x00, op, 0x00}
	case FDCB:
		return []uint8{0xFD, 0xCB, 0x00, op, 0x00}
	default:
		return []uint8{op, 0x00}
	}
}
