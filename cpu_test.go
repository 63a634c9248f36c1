// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

import (
	"fmt"
	"strings"
	"testing"
)

// recorder keeps every cycle the CPU reports.
type recorder struct {
	cycles []Cycle
}

func (r *recorder) ObserveCycle(c Cycle) {
	r.cycles = append(r.cycles, c)
}

func (r *recorder) reset() {
	r.cycles = r.cycles[:0]
}

func (r *recorder) last() Cycle {
	return r.cycles[len(r.cycles)-1]
}

// busOps returns the non-idle cycles as "R 1234" / "W 1234" strings.
func (r *recorder) busOps() []string {
	var ops []string
	for _, c := range r.cycles {
		switch c.Kind {
		case BusRead:
			ops = append(ops, fmt.Sprintf("R %04X", c.Addr))
		case BusWrite:
			ops = append(ops, fmt.Sprintf("W %04X", c.Addr))
		}
	}
	return ops
}

func assertOps(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	got := rec.busOps()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("bus transactions = %v, want %v", got, want)
	}
}

func newTestCPU(pc uint16) (*CPU, *RAM, *recorder) {
	mem := &RAM{}
	rec := &recorder{}
	cpu := New(mem)
	cpu.PC = pc
	cpu.Attach(rec)
	return cpu, mem, rec
}

func TestNewPowerOnState(t *testing.T) {
	cpu := New(&RAM{})
	if cpu.PC != InitialPC || cpu.S != InitialS || cpu.P != InitialP {
		t.Errorf("power-on state = %v", cpu)
	}
	if cpu.Cycles != 0 {
		t.Errorf("Cycles = %d, want 0", cpu.Cycles)
	}
}

func TestTickHasNoBusTransaction(t *testing.T) {
	cpu, _, rec := newTestCPU(0x8000)
	cpu.Tick()
	cpu.Tick()
	if cpu.Cycles != 2 {
		t.Errorf("Cycles = %d, want 2", cpu.Cycles)
	}
	if len(rec.cycles) != 2 {
		t.Fatalf("observed %d cycles, want 2", len(rec.cycles))
	}
	for _, c := range rec.cycles {
		if c.Kind != BusIdle || c.Phase != PhaseIdle {
			t.Errorf("tick cycle = %+v, want idle", c)
		}
	}
	if cpu.PC != 0x8000 {
		t.Errorf("PC = %#04x, want unchanged", cpu.PC)
	}
}

func TestLoadU8BumpPC(t *testing.T) {
	cpu, mem, _ := newTestCPU(0xffff)
	mem[0xffff] = 0xab
	cpu.begin(PhaseFetchOperand)
	v := cpu.loadU8BumpPC()
	cpu.end()
	if v != 0xab {
		t.Errorf("loadU8BumpPC() = %#02x, want 0xab", v)
	}
	if cpu.PC != 0x0000 {
		t.Errorf("PC = %#04x, want wrap to 0x0000", cpu.PC)
	}
	if cpu.Addr != 0xffff || cpu.Data != 0xab {
		t.Errorf("latches = %04x/%02x, want ffff/ab", cpu.Addr, cpu.Data)
	}
}

func TestBusDoesNotCountCycles(t *testing.T) {
	cpu, _, _ := newTestCPU(0)
	cpu.begin(PhaseWrite)
	cpu.write(0x1234, 0x56)
	cpu.end()
	if cpu.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", cpu.Cycles)
	}
}

func expectPanic(t *testing.T, name string, fn func()) (v any) {
	t.Helper()
	defer func() {
		v = recover()
		if v == nil {
			t.Errorf("%s: no panic", name)
		}
	}()
	fn()
	return nil
}

func TestOneTransactionPerCycle(t *testing.T) {
	cpu, _, _ := newTestCPU(0)
	expectPanic(t, "second transaction", func() {
		cpu.begin(PhaseRead)
		cpu.read(0x0000)
		cpu.read(0x0001)
	})

	cpu, _, _ = newTestCPU(0)
	expectPanic(t, "outside cycle", func() {
		cpu.read(0x0000)
	})
}
