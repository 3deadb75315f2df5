package hw

import "dotmatrix/hw/hwio"

// TAC bits.
const (
	tacFreqMask = 0x03
	tacEnable   = 0x04
)

// divPeriod is the cycle count between DIV increments (16384 Hz).
const divPeriod = 256

// timaPeriods maps the TAC frequency selector to the cycle count between
// TIMA increments (4096, 262144, 65536 and 16384 Hz).
var timaPeriods = [4]int{1024, 16, 64, 256}

// Timer holds the two free-running counters of the DMG: the divider,
// always ticking, and the main timer, gated by TAC. The visible counters
// live in memory-mapped registers; the sub-period cycle accumulators are
// internal state.
type Timer struct {
	DIV  hwio.Reg8
	TIMA hwio.Reg8
	TMA  hwio.Reg8
	TAC  hwio.Reg8

	divCycles  int
	timaCycles int
}

func NewTimer() *Timer {
	return &Timer{
		DIV:  hwio.Reg8{Name: "DIV"},
		TIMA: hwio.Reg8{Name: "TIMA"},
		TMA:  hwio.Reg8{Name: "TMA"},
		TAC:  hwio.Reg8{Name: "TAC"},
	}
}

func (t *Timer) initBus(bus *hwio.Table) {
	bus.MapReg8(AddrDIV, &t.DIV)
	bus.MapReg8(AddrTIMA, &t.TIMA)
	bus.MapReg8(AddrTMA, &t.TMA)
	bus.MapReg8(AddrTAC, &t.TAC)
}

// Tick advances both counters by the given cycle count. On overflow TIMA
// reloads from TMA; raising the timer interrupt is out of scope, nothing
// is signalled.
func (t *Timer) Tick(cycles int) {
	t.divCycles += cycles
	for t.divCycles >= divPeriod {
		t.divCycles -= divPeriod
		t.DIV.Value++
	}

	if t.TAC.Value&tacEnable == 0 {
		return
	}

	period := timaPeriods[t.TAC.Value&tacFreqMask]
	t.timaCycles += cycles
	for t.timaCycles >= period {
		t.timaCycles -= period
		if t.TIMA.Value == 0xFF {
			t.TIMA.Value = t.TMA.Value
		} else {
			t.TIMA.Value++
		}
	}
}
