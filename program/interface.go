package program

// NeedInput is the sentinel a run-time behavior returns as its output when
// it needs the host to push more data before the machine can proceed. The
// specification models this as the numeric value -1; here it is its own
// type so it can never collide with a legitimate string or number output
// (the teacher's vm/syscall.go draws the same line between an execution
// error and an expected "blocking syscall" signal).
type NeedInput struct{}

// CallState is the machine's single outstanding call/return slot. Bliks
// functions do not nest: ReturnTarget is -1 whenever no call is pending.
type CallState struct {
	ReturnTarget int
}

// NewCallState returns a CallState with no outstanding call.
func NewCallState() *CallState {
	return &CallState{ReturnTarget: -1}
}

// Interface is the transient view a run-time behavior is given for the
// duration of a single step: a write-only register accumulator (flushed by
// the machine after the step returns), a way to pop from the input buffer,
// the instruction currently executing, and a writable NextInstruction slot
// the behavior uses to steer the machine. The machine does not read
// Output; a behavior's output is the first value its RunFunc returns.
type Interface struct {
	Registers map[int]string

	// PopBuffer removes and returns the front of the input buffer, and
	// whether anything was there to pop.
	PopBuffer func() (string, bool)

	CurInstruction  Instruction
	NextInstruction int
	Output          any // nil, a string, or NeedInput

	Call *CallState
}

// SetRegister stages a register write, applied by the machine once the
// step's run-time behavior returns without error.
func (i *Interface) SetRegister(index int, value string) {
	if i.Registers == nil {
		i.Registers = make(map[int]string)
	}
	i.Registers[index] = value
}
