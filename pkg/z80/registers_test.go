package z80

import "testing"

// TestRegisterPairConsistency checks the two views of each pair:
// writing a pair then reading a half, and writing both halves then
// reading the pair, must agree.
func TestRegisterPairConsistency(t *testing.T) {
	var r Registers

	r.SetBC(0x1234)
	if r.B != 0x12 || r.C != 0x34 {
		t.Fatalf("SetBC(0x1234): B=%02X C=%02X, want 12/34", r.B, r.C)
	}
	r.B, r.C = 0xAB, 0xCD
	if got := r.BC(); got != 0xABCD {
		t.Fatalf("BC() = %04X, want ABCD", got)
	}

	r.SetDE(0x5678)
	if r.D != 0x56 || r.E != 0x78 || r.DE() != 0x5678 {
		t.Fatalf("DE round-trip failed: D=%02X E=%02X DE()=%04X", r.D, r.E, r.DE())
	}

	r.SetHL(0x9ABC)
	if r.H != 0x9A || r.L != 0xBC || r.HL() != 0x9ABC {
		t.Fatalf("HL round-trip failed: H=%02X L=%02X HL()=%04X", r.H, r.L, r.HL())
	}

	r.SetIX(0x1111)
	if r.IX() != 0x1111 {
		t.Fatalf("IX round-trip failed: IX()=%04X", r.IX())
	}
	r.SetIY(0x2222)
	if r.IY() != 0x2222 {
		t.Fatalf("IY round-trip failed: IY()=%04X", r.IY())
	}

	r.SetAF(0x3344)
	if r.A != 0x33 || r.F != 0x44 || r.AF() != 0x3344 {
		t.Fatalf("AF round-trip failed: A=%02X F=%02X AF()=%04X", r.A, r.F, r.AF())
	}
}

// TestExxAndExAFAF checks the register-pair exchanges used by EXX/EX AF,AF'.
func TestExxAndExAFAF(t *testing.T) {
	var r Registers
	r.SetBC(0x1111)
	r.SetDE(0x2222)
	r.SetHL(0x3333)
	r.B_, r.C_, r.D_, r.E_, r.H_, r.L_ = 0x44, 0x55, 0x66, 0x77, 0x88, 0x99

	r.exx()
	if r.BC() != 0x4455 || r.DE() != 0x6677 || r.HL() != 0x8899 {
		t.Fatalf("exx did not swap in shadow regs: BC=%04X DE=%04X HL=%04X", r.BC(), r.DE(), r.HL())
	}
	r.exx()
	if r.BC() != 0x1111 || r.DE() != 0x2222 || r.HL() != 0x3333 {
		t.Fatalf("exx is not its own inverse: BC=%04X DE=%04X HL=%04X", r.BC(), r.DE(), r.HL())
	}

	r.SetAF(0x0102)
	r.A_, r.F_ = 0x03, 0x04
	r.exAFAF()
	if r.AF() != 0x0304 {
		t.Fatalf("exAFAF did not swap in shadow AF: AF=%04X", r.AF())
	}
	r.exAFAF()
	if r.AF() != 0x0102 {
		t.Fatalf("exAFAF is not its own inverse: AF=%04X", r.AF())
	}
}

// TestBumpR checks that bit 7 of R survives
// every auto-increment, and the low 7 bits advance by exactly one,
// wrapping at 0x7F.
func TestBumpR(t *testing.T) {
	tests := []struct{ before, after uint8 }{
		{0x00, 0x01},
		{0x7E, 0x7F},
		{0x7F, 0x00},
		{0x80, 0x81},
		{0xFE, 0xFF},
		{0xFF, 0x80},
	}
	for _, tc := range tests {
		var r Registers
		r.R = tc.before
		r.bumpR()
		if r.R != tc.after {
			t.Errorf("bumpR(%02X) = %02X, want %02X", tc.before, r.R, tc.after)
		}
	}
}
