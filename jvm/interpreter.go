package jvm

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/robusta/classfile"
)

var log = commonlog.GetLogger("robusta.jvm")

// Frame is the execution state of one in-progress method invocation: a
// program counter into the method's bytecode, an operand stack bounded by
// the method's declared max stack, and its local variable slots.
type Frame struct {
	Method *RuntimeMethod
	PC     int
	Code   []byte
	Stack  []int32
	Locals []int32
}

func newFrame(method *RuntimeMethod) *Frame {
	return &Frame{
		Method: method,
		Code:   method.Code.Code,
		Stack:  make([]int32, 0, method.Code.MaxStack),
		Locals: make([]int32, method.Code.MaxLocals),
	}
}

func (f *Frame) push(v int32) error {
	if len(f.Stack) >= int(f.Method.Code.MaxStack) {
		return fmt.Errorf("operand stack overflow at pc %d (max stack %d)", f.PC, f.Method.Code.MaxStack)
	}
	f.Stack = append(f.Stack, v)
	return nil
}

func (f *Frame) pop() (int32, error) {
	if len(f.Stack) == 0 {
		return 0, fmt.Errorf("operand stack underflow at pc %d", f.PC)
	}
	v := f.Stack[len(f.Stack)-1]
	f.Stack = f.Stack[:len(f.Stack)-1]
	return v, nil
}

func (f *Frame) local(index int) (int32, error) {
	if index < 0 || index >= len(f.Locals) {
		return 0, fmt.Errorf("local variable index %d out of range at pc %d (max locals %d)", index, f.PC, len(f.Locals))
	}
	return f.Locals[index], nil
}

func (f *Frame) setLocal(index int, v int32) error {
	if index < 0 || index >= len(f.Locals) {
		return fmt.Errorf("local variable index %d out of range at pc %d (max locals %d)", index, f.PC, len(f.Locals))
	}
	f.Locals[index] = v
	return nil
}

// operand fetches the n operand bytes following the opcode at the current
// pc, failing if the bytecode ends mid-instruction.
func (f *Frame) operand(n int) ([]byte, error) {
	if f.PC+n >= len(f.Code) {
		return nil, fmt.Errorf("truncated %s instruction at pc %d", OpcodeName(f.Code[f.PC]), f.PC)
	}
	return f.Code[f.PC+1 : f.PC+1+n], nil
}

// findHandler locates the first exception table entry covering pc with a
// catch-all type and a handler offset inside the bytecode. Entries with
// offsets outside the bytecode are ignored rather than followed.
func (f *Frame) findHandler(pc int) *classfile.ExceptionTableEntry {
	for i := range f.Method.Code.ExceptionTable {
		entry := &f.Method.Code.ExceptionTable[i]
		if pc < int(entry.StartPC) || pc >= int(entry.EndPC) {
			continue
		}
		if entry.CatchType != 0 {
			continue
		}
		if int(entry.HandlerPC) >= len(f.Code) {
			continue
		}
		return entry
	}
	return nil
}

// guestException is an abnormal completion raised by the executing
// bytecode itself, as opposed to a defect in the bytecode. It unwinds
// through exception tables before aborting the thread.
type guestException struct {
	kind   string
	method string
	pc     int
}

func (e *guestException) Error() string {
	return fmt.Sprintf("%s in %s at pc %d", e.kind, e.method, e.pc)
}

// Thread executes one logical thread of control over an explicit,
// heap-resident call stack. Guest call depth is bounded by memory, not by
// host stack frames.
type Thread struct {
	frames []*Frame
}

// NewThread builds a thread with a single frame positioned at the start of
// the given method's bytecode.
func NewThread(method *RuntimeMethod) *Thread {
	t := &Thread{}
	t.PushFrame(method)
	return t
}

// PushFrame begins an invocation of method on top of the call stack.
func (t *Thread) PushFrame(method *RuntimeMethod) {
	t.frames = append(t.frames, newFrame(method))
}

func (t *Thread) popFrame() {
	t.frames = t.frames[:len(t.frames)-1]
}

func (t *Thread) top() *Frame {
	return t.frames[len(t.frames)-1]
}

// Depth reports the current call stack depth. A thread at depth 0 has
// terminated.
func (t *Thread) Depth() int {
	return len(t.frames)
}

// Run drives the fetch-decode-execute loop until the call stack is empty.
// Any dispatch error aborts the run; an unwinding guest exception that no
// frame handles terminates the thread with failure.
func (t *Thread) Run() error {
	for len(t.frames) > 0 {
		frame := t.top()
		if frame.PC >= len(frame.Code) {
			// Falling off the end of the bytecode completes the frame.
			// This also covers methods without a body.
			t.popFrame()
			continue
		}
		if err := t.step(frame); err != nil {
			if ex, ok := err.(*guestException); ok {
				if err := t.raise(ex); err != nil {
					return err
				}
				continue
			}
			return err
		}
	}
	log.Debug("thread terminated")
	return nil
}

// raise unwinds a guest exception: the topmost frame whose exception
// table covers its faulting pc receives control at the handler offset
// with a cleared operand stack; frames without a handler are popped.
func (t *Thread) raise(ex *guestException) error {
	for len(t.frames) > 0 {
		frame := t.top()
		if handler := frame.findHandler(frame.PC); handler != nil {
			log.Debugf("caught %s, transferring to pc %d", ex.kind, handler.HandlerPC)
			frame.PC = int(handler.HandlerPC)
			frame.Stack = frame.Stack[:0]
			return nil
		}
		t.popFrame()
	}
	return fmt.Errorf("unhandled exception: %s", ex)
}

func (t *Thread) step(f *Frame) error {
	op := f.Code[f.PC]
	switch op {
	case OpReturn:
		t.popFrame()

	case OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5:
		if err := f.push(int32(op) - OpIconst0); err != nil {
			return err
		}
		f.PC++

	case OpBipush:
		operand, err := f.operand(1)
		if err != nil {
			return err
		}
		if err := f.push(int32(int8(operand[0]))); err != nil {
			return err
		}
		f.PC += 2

	case OpSipush:
		operand, err := f.operand(2)
		if err != nil {
			return err
		}
		if err := f.push(int32(int16(operand[0])<<8 | int16(operand[1]))); err != nil {
			return err
		}
		f.PC += 3

	case OpIload:
		operand, err := f.operand(1)
		if err != nil {
			return err
		}
		v, err := f.local(int(operand[0]))
		if err != nil {
			return err
		}
		if err := f.push(v); err != nil {
			return err
		}
		f.PC += 2

	case OpIload0, OpIload1, OpIload2, OpIload3:
		v, err := f.local(int(op) - OpIload0)
		if err != nil {
			return err
		}
		if err := f.push(v); err != nil {
			return err
		}
		f.PC++

	case OpIstore:
		operand, err := f.operand(1)
		if err != nil {
			return err
		}
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.setLocal(int(operand[0]), v); err != nil {
			return err
		}
		f.PC += 2

	case OpIstore0, OpIstore1, OpIstore2, OpIstore3:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.setLocal(int(op)-OpIstore0, v); err != nil {
			return err
		}
		f.PC++

	case OpPop:
		if _, err := f.pop(); err != nil {
			return err
		}
		f.PC++

	case OpDup:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.push(v); err != nil {
			return err
		}
		if err := f.push(v); err != nil {
			return err
		}
		f.PC++

	case OpSwap:
		a, err := f.pop()
		if err != nil {
			return err
		}
		b, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.push(a); err != nil {
			return err
		}
		if err := f.push(b); err != nil {
			return err
		}
		f.PC++

	case OpIadd, OpIsub, OpImul:
		b, err := f.pop()
		if err != nil {
			return err
		}
		a, err := f.pop()
		if err != nil {
			return err
		}
		var v int32
		switch op {
		case OpIadd:
			v = a + b
		case OpIsub:
			v = a - b
		case OpImul:
			v = a * b
		}
		if err := f.push(v); err != nil {
			return err
		}
		f.PC++

	case OpIdiv, OpIrem:
		b, err := f.pop()
		if err != nil {
			return err
		}
		a, err := f.pop()
		if err != nil {
			return err
		}
		if b == 0 {
			return &guestException{
				kind:   "java.lang.ArithmeticException: / by zero",
				method: f.Method.Name,
				pc:     f.PC,
			}
		}
		var v int32
		if op == OpIdiv {
			v = a / b
		} else {
			v = a % b
		}
		if err := f.push(v); err != nil {
			return err
		}
		f.PC++

	case OpIneg:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.push(-v); err != nil {
			return err
		}
		f.PC++

	case OpGoto:
		operand, err := f.operand(2)
		if err != nil {
			return err
		}
		offset := int(int16(operand[0])<<8 | int16(operand[1]))
		target := f.PC + offset
		if target < 0 || target >= len(f.Code) {
			return fmt.Errorf("goto target %d out of range at pc %d", target, f.PC)
		}
		f.PC = target

	default:
		return fmt.Errorf("unknown instruction 0x%02X at pc %d", op, f.PC)
	}
	return nil
}
