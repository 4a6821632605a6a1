package jvm

// Opcode values implemented by the interpreter. The dispatch table is
// conceptually exhaustive over the full instruction set; bytes without a
// handler fail with an unknown-instruction error rather than being
// skipped.
const (
	OpIconstM1 = 0x02
	OpIconst0  = 0x03
	OpIconst1  = 0x04
	OpIconst2  = 0x05
	OpIconst3  = 0x06
	OpIconst4  = 0x07
	OpIconst5  = 0x08
	OpBipush   = 0x10
	OpSipush   = 0x11
	OpIload    = 0x15
	OpIload0   = 0x1A
	OpIload1   = 0x1B
	OpIload2   = 0x1C
	OpIload3   = 0x1D
	OpIstore   = 0x36
	OpIstore0  = 0x3B
	OpIstore1  = 0x3C
	OpIstore2  = 0x3D
	OpIstore3  = 0x3E
	OpPop      = 0x57
	OpDup      = 0x59
	OpSwap     = 0x5F
	OpIadd     = 0x60
	OpIsub     = 0x64
	OpImul     = 0x68
	OpIdiv     = 0x6C
	OpIrem     = 0x70
	OpIneg     = 0x74
	OpGoto     = 0xA7
	OpReturn   = 0xB1
)

var opcodeNames = map[byte]string{
	OpIconstM1: "iconst_m1",
	OpIconst0:  "iconst_0",
	OpIconst1:  "iconst_1",
	OpIconst2:  "iconst_2",
	OpIconst3:  "iconst_3",
	OpIconst4:  "iconst_4",
	OpIconst5:  "iconst_5",
	OpBipush:   "bipush",
	OpSipush:   "sipush",
	OpIload:    "iload",
	OpIload0:   "iload_0",
	OpIload1:   "iload_1",
	OpIload2:   "iload_2",
	OpIload3:   "iload_3",
	OpIstore:   "istore",
	OpIstore0:  "istore_0",
	OpIstore1:  "istore_1",
	OpIstore2:  "istore_2",
	OpIstore3:  "istore_3",
	OpPop:      "pop",
	OpDup:      "dup",
	OpSwap:     "swap",
	OpIadd:     "iadd",
	OpIsub:     "isub",
	OpImul:     "imul",
	OpIdiv:     "idiv",
	OpIrem:     "irem",
	OpIneg:     "ineg",
	OpGoto:     "goto",
	OpReturn:   "return",
}

// OpcodeName returns the mnemonic for an implemented opcode, or "" for
// bytes without a handler.
func OpcodeName(op byte) string {
	return opcodeNames[op]
}
