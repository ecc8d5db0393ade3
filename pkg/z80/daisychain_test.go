package z80

import "testing"

// fakeDevice is a minimal daisy-chain peripheral: it raises an
// interrupt request, hands over a vector byte when acknowledged, and
// tracks its in-service flag until RETI.
type fakeDevice struct {
	pending   bool
	vector    uint8
	inService bool
	retis     int
}

func (d *fakeDevice) Pending() bool { return d.pending }

func (d *fakeDevice) IORQVector() uint8 {
	d.pending = false
	d.inService = true
	return d.vector
}

func (d *fakeDevice) RETI() {
	d.retis++
	d.inService = false
}

// TestIM2DaisyChainAcceptance drives a NOP followed by an IM 2
// acceptance whose vector comes from the highest-priority pending
// device on the chain: vector table entry {I,vec&FE} supplies the jump
// target.
func TestIM2DaisyChainAcceptance(t *testing.T) {
	dev := &fakeDevice{pending: true, vector: 0x80}
	low := &fakeDevice{pending: true, vector: 0x90}

	mem := map[uint16]uint8{
		0x0000: 0x00, // NOP
		0x2080: 0x34,
		0x2081: 0x12,
	}

	c := New()
	c.SP = 0x8000
	c.I = 0x20
	c.IM = 2
	c.IFF1, c.IFF2 = true, true
	c.AttachDaisyChain(NewChain(dev, low))

	pins := c.Pins()
	for i := 0; i < 4+19; i++ {
		switch {
		case pins.Has(PinMREQ) && pins.Has(PinRD):
			pins = pins.WithData(mem[pins.Addr()])
		case pins.Has(PinMREQ) && pins.Has(PinWR):
			mem[pins.Addr()] = pins.Data()
		case pins.Has(PinIORQ) && pins.Has(PinRD):
			pins = pins.WithData(0xFF)
		}
		pins = c.Tick(pins)
	}

	if !c.OpDone() {
		t.Fatalf("IM2 acceptance did not finish in 23 ticks")
	}
	if c.PC != 0x1234 {
		t.Fatalf("PC = %04X, want 0x1234 (vector at 0x2080)", c.PC)
	}
	if mem[0x7FFE] != 0x01 || mem[0x7FFF] != 0x00 {
		t.Fatalf("pushed PC = %02X%02X, want 0001", mem[0x7FFF], mem[0x7FFE])
	}
	if !dev.inService {
		t.Fatalf("acknowledged device not marked in-service")
	}
	if low.pending != true || low.inService {
		t.Fatalf("lower-priority device was acknowledged instead")
	}
}

// TestRETINotifiesChain checks that decoding RETI forwards the pulse to
// every device on the chain so the in-service one can clear its flag.
func TestRETINotifiesChain(t *testing.T) {
	dev := &fakeDevice{inService: true}

	mem := map[uint16]uint8{0: 0xED, 1: 0x4D, 0x8000: 0x00, 0x8001: 0x10}
	c := New()
	c.SP = 0x8000
	c.AttachDaisyChain(NewChain(dev))

	pins := c.Pins()
	for i := 0; i < 14; i++ {
		if pins.Has(PinMREQ) && pins.Has(PinRD) {
			pins = pins.WithData(mem[pins.Addr()])
		}
		pins = c.Tick(pins)
	}

	if c.PC != 0x1000 {
		t.Fatalf("PC = %04X, want 0x1000 (popped return address)", c.PC)
	}
	if dev.retis != 1 {
		t.Fatalf("device saw %d RETI pulses, want 1", dev.retis)
	}
	if dev.inService {
		t.Fatalf("device still in-service after RETI")
	}
}
