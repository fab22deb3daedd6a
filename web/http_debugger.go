package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/ch8"
)

// Snapshot is the state of the CPU right after a step
type Snapshot struct {
	OpCode    ch8.Instruction
	Registers ch8.Registers
	Cycles    uint
	Fault     error
}

type HttpDebugger struct {
	CurrentOpCode ch8.Instruction

	SendEvery uint
	send      chan Snapshot
}

// NewHttpDebugger creates a new debugger and registers its hooks on the cpu
func NewHttpDebugger(cpu *ch8.Cpu) *HttpDebugger {
	deb := &HttpDebugger{
		CurrentOpCode: 0,
		SendEvery:     1,
		send:          make(chan Snapshot, 64),
	}

	cpu.AddBeforeStepHook(deb.beforeStep)
	cpu.AddAfterStepHook(deb.afterStep)
	cpu.AddFaultHook(deb.afterFault)

	return deb
}

func (d *HttpDebugger) handle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Connecting to debugger")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Listening for events")
	for {
		select {
		case snapshot := <-d.send:
			if err := conn.WriteMessage(websocket.BinaryMessage, d.formatAsEvent(snapshot)); err != nil {
				slog.Error("Error writing debugger message", slog.Any("error", err))
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

func (d *HttpDebugger) beforeStep(cpu *ch8.Cpu) {
	if ch8.IsProgramRange(cpu.Pc, 2) {
		d.CurrentOpCode = ch8.Instruction(cpu.Memory.Word(cpu.Pc))
	}
}

func (d *HttpDebugger) afterStep(cpu *ch8.Cpu) {
	if cpu.Cycles()%max(d.SendEvery, 1) == 0 {
		d.publish(cpu)
	}
}

func (d *HttpDebugger) afterFault(cpu *ch8.Cpu) {
	d.publish(cpu)
}

func (d *HttpDebugger) publish(cpu *ch8.Cpu) {
	snapshot := Snapshot{
		OpCode:    d.CurrentOpCode,
		Registers: cpu.Registers,
		Cycles:    cpu.Cycles(),
		Fault:     cpu.Fault(),
	}

	select {
	case d.send <- snapshot:
	default:
		// nobody is listening fast enough
	}
}

// formatAsEvent encodes the snapshot as
// opcode(2) pc(2) V(16) I(2) sp(1) stack(32) dt(1) st(1) key(1) fault(1) mnemonic(...)
// with 16-bit values big-endian. key is 0xFF when the latch is empty and fault is the fault kind or 0.
func (d HttpDebugger) formatAsEvent(s Snapshot) []byte {
	buf := make([]byte, 0, 80)

	buf = append(buf, byte((s.OpCode&0xFF00)>>8))
	buf = append(buf, byte((s.OpCode&0x00FF)>>0))

	buf = append(buf, byte((s.Registers.Pc&0xFF00)>>8))
	buf = append(buf, byte((s.Registers.Pc&0x00FF)>>0))
	buf = append(buf, s.Registers.V[:]...)
	buf = append(buf, byte((s.Registers.I&0xFF00)>>8))
	buf = append(buf, byte((s.Registers.I&0x00FF)>>0))
	buf = append(buf, s.Registers.Sp)
	for _, b := range s.Registers.Stack {
		buf = append(buf, byte((b&0xFF00)>>8))
		buf = append(buf, byte((b&0x00FF)>>0))
	}
	buf = append(buf, s.Registers.Dt)
	buf = append(buf, s.Registers.St)

	if k, ok := s.Registers.Key.Get(); ok {
		buf = append(buf, k)
	} else {
		buf = append(buf, 0xFF)
	}

	kind, _ := ch8.FaultKindOf(s.Fault)
	buf = append(buf, byte(kind))

	buf = append(buf, s.OpCode.String()...)

	return buf
}
