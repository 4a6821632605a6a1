package jvm

import (
	"strings"
	"testing"

	"github.com/dhamidi/robusta/classfile"
)

func testMethod(code []byte) *RuntimeMethod {
	return &RuntimeMethod{
		Name:       "main",
		Descriptor: MainMethodDescriptor,
		Code: classfile.CodeAttribute{
			MaxStack:  8,
			MaxLocals: 4,
			Code:      code,
		},
	}
}

func TestRunReturn(t *testing.T) {
	thread := NewThread(testMethod([]byte{OpReturn}))
	if err := thread.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if thread.Depth() != 0 {
		t.Errorf("Depth() = %d after run, want 0", thread.Depth())
	}
}

func TestRunUnknownInstruction(t *testing.T) {
	thread := NewThread(testMethod([]byte{0x00}))
	err := thread.Run()
	if err == nil {
		t.Fatal("expected error for unknown instruction")
	}
	if !strings.Contains(err.Error(), "0x00") {
		t.Errorf("error %q does not name the opcode byte", err)
	}
}

func TestRunBodylessMethod(t *testing.T) {
	// Abstract and native methods link with empty code; running one
	// completes the frame immediately.
	thread := NewThread(testMethod(nil))
	if err := thread.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}

// stepFrame drives a single frame to completion, leaving its state
// observable for assertions.
func stepFrame(t *testing.T, f *Frame) {
	t.Helper()
	thread := &Thread{frames: []*Frame{f}}
	for len(thread.frames) > 0 && f.PC < len(f.Code) {
		if err := thread.step(f); err != nil {
			t.Fatalf("step() failed at pc %d: %v", f.PC, err)
		}
	}
}

func TestConstantsAndLocals(t *testing.T) {
	// iconst_2, istore_0, bipush -7, istore_1, sipush 0x1234, istore 2
	f := newFrame(testMethod([]byte{
		OpIconst2, OpIstore0,
		OpBipush, 0xF9, OpIstore1,
		OpSipush, 0x12, 0x34, OpIstore, 2,
	}))
	stepFrame(t, f)

	if f.Locals[0] != 2 {
		t.Errorf("Locals[0] = %d, want 2", f.Locals[0])
	}
	if f.Locals[1] != -7 {
		t.Errorf("Locals[1] = %d, want -7", f.Locals[1])
	}
	if f.Locals[2] != 0x1234 {
		t.Errorf("Locals[2] = %d, want %d", f.Locals[2], 0x1234)
	}
	if len(f.Stack) != 0 {
		t.Errorf("stack = %v, want empty", f.Stack)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		code []byte
		want int32
	}{
		{"iadd", []byte{OpIconst2, OpIconst3, OpIadd, OpIstore0}, 5},
		{"isub", []byte{OpIconst2, OpIconst5, OpIsub, OpIstore0}, -3},
		{"imul", []byte{OpIconst3, OpIconst4, OpImul, OpIstore0}, 12},
		{"idiv", []byte{OpBipush, 7, OpIconst2, OpIdiv, OpIstore0}, 3},
		{"irem", []byte{OpBipush, 7, OpIconst2, OpIrem, OpIstore0}, 1},
		{"ineg", []byte{OpIconst4, OpIneg, OpIstore0}, -4},
		{"dup", []byte{OpIconst3, OpDup, OpIadd, OpIstore0}, 6},
		{"swap", []byte{OpIconst1, OpIconst5, OpSwap, OpIsub, OpIstore0}, 4},
		{"pop", []byte{OpIconst1, OpIconst2, OpPop, OpIstore0}, 1},
		{"iconst_m1", []byte{OpIconstM1, OpIstore0}, -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f := newFrame(testMethod(test.code))
			stepFrame(t, f)
			if f.Locals[0] != test.want {
				t.Errorf("Locals[0] = %d, want %d", f.Locals[0], test.want)
			}
		})
	}
}

func TestIloadShorthands(t *testing.T) {
	f := newFrame(testMethod([]byte{OpIload1, OpIload, 3, OpIadd, OpIstore0}))
	f.Locals[1] = 20
	f.Locals[3] = 22
	stepFrame(t, f)
	if f.Locals[0] != 42 {
		t.Errorf("Locals[0] = %d, want 42", f.Locals[0])
	}
}

func TestGotoForward(t *testing.T) {
	// goto +4 jumps over a byte that has no handler.
	thread := NewThread(testMethod([]byte{OpGoto, 0x00, 0x04, 0x00, OpReturn}))
	if err := thread.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}

func TestGotoOutOfRange(t *testing.T) {
	thread := NewThread(testMethod([]byte{OpGoto, 0xFF, 0x00}))
	if err := thread.Run(); err == nil {
		t.Fatal("expected error for out-of-range branch target")
	}
}

func TestTruncatedInstruction(t *testing.T) {
	for _, code := range [][]byte{
		{OpBipush},
		{OpSipush, 0x01},
		{OpIload},
		{OpIconst1, OpIstore},
		{OpGoto, 0x00},
	} {
		thread := NewThread(testMethod(code))
		err := thread.Run()
		if err == nil {
			t.Errorf("Run(%v) succeeded, want truncation error", code)
			continue
		}
		if !strings.Contains(err.Error(), "truncated") {
			t.Errorf("Run(%v) error = %q, want truncation error", code, err)
		}
	}
}

func TestStackLimits(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		thread := NewThread(testMethod([]byte{OpIadd}))
		if err := thread.Run(); err == nil || !strings.Contains(err.Error(), "underflow") {
			t.Errorf("err = %v, want underflow error", err)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		method := testMethod([]byte{OpIconst1, OpIconst1})
		method.Code.MaxStack = 1
		thread := NewThread(method)
		if err := thread.Run(); err == nil || !strings.Contains(err.Error(), "overflow") {
			t.Errorf("err = %v, want overflow error", err)
		}
	})
}

func exceptionMethod(code []byte, table []classfile.ExceptionTableEntry) *RuntimeMethod {
	m := testMethod(code)
	m.Code.ExceptionTable = table
	return m
}

func TestDivisionByZero(t *testing.T) {
	// iconst_1, iconst_0, idiv faults at pc 2.
	code := []byte{OpIconst1, OpIconst0, OpIdiv, OpReturn}

	t.Run("caught by a covering handler", func(t *testing.T) {
		method := exceptionMethod(code, []classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 3, HandlerPC: 3, CatchType: 0},
		})
		thread := NewThread(method)
		if err := thread.Run(); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
	})

	t.Run("handler outside the faulting range is skipped", func(t *testing.T) {
		method := exceptionMethod(code, []classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 2, HandlerPC: 3, CatchType: 0},
		})
		thread := NewThread(method)
		err := thread.Run()
		if err == nil || !strings.Contains(err.Error(), "unhandled exception") {
			t.Errorf("err = %v, want unhandled exception", err)
		}
	})

	t.Run("typed handlers are not consulted", func(t *testing.T) {
		method := exceptionMethod(code, []classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 3, HandlerPC: 3, CatchType: 9},
		})
		thread := NewThread(method)
		if err := thread.Run(); err == nil {
			t.Error("expected unhandled exception")
		}
	})

	t.Run("handler offset outside the bytecode is ignored", func(t *testing.T) {
		method := exceptionMethod(code, []classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 3, HandlerPC: 200, CatchType: 0},
		})
		thread := NewThread(method)
		if err := thread.Run(); err == nil {
			t.Error("expected unhandled exception")
		}
	})

	t.Run("propagates to the caller frame", func(t *testing.T) {
		caller := exceptionMethod([]byte{OpIdiv, OpReturn, 0x00, OpReturn}, []classfile.ExceptionTableEntry{
			{StartPC: 0, EndPC: 2, HandlerPC: 3, CatchType: 0},
		})
		callee := testMethod(code)

		thread := NewThread(caller)
		thread.PushFrame(callee)
		if err := thread.Run(); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
	})

	t.Run("propagates past the bottom frame", func(t *testing.T) {
		thread := NewThread(testMethod([]byte{OpReturn}))
		thread.PushFrame(testMethod(code))
		err := thread.Run()
		if err == nil || !strings.Contains(err.Error(), "unhandled exception") {
			t.Errorf("err = %v, want unhandled exception", err)
		}
		if thread.Depth() != 0 {
			t.Errorf("Depth() = %d, want 0", thread.Depth())
		}
	})

	t.Run("handler receives a cleared operand stack", func(t *testing.T) {
		// The handler immediately stores: only the frame being empty
		// beforehand makes istore_0 the sole consumer of iconst_5.
		method := exceptionMethod(
			[]byte{OpIconst1, OpIconst1, OpIconst0, OpIdiv, OpReturn, OpIconst5, OpIstore0, OpReturn},
			[]classfile.ExceptionTableEntry{{StartPC: 0, EndPC: 5, HandlerPC: 5, CatchType: 0}},
		)
		f := newFrame(method)
		thread := &Thread{frames: []*Frame{f}}
		if err := thread.Run(); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		if f.Locals[0] != 5 {
			t.Errorf("Locals[0] = %d, want 5", f.Locals[0])
		}
		if len(f.Stack) != 0 {
			t.Errorf("stack = %v, want empty", f.Stack)
		}
	})
}

func TestRunPropagatesCallerOnUnhandledFault(t *testing.T) {
	// The caller's pc is still 0 when the callee faults, so a caller
	// handler covering pc 0 catches the propagated exception.
	caller := exceptionMethod([]byte{0x00, OpReturn}, []classfile.ExceptionTableEntry{
		{StartPC: 0, EndPC: 1, HandlerPC: 1, CatchType: 0},
	})
	callee := testMethod([]byte{OpIconst1, OpIconst0, OpIdiv})

	thread := NewThread(caller)
	thread.PushFrame(callee)
	if err := thread.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
}
