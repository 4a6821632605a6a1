package classfile

import (
	"bytes"
	"fmt"
)

// AttributeInfo is a generic, still-encoded attribute. Only the Code
// attribute is ever structurally decoded by this runtime; everything else
// is carried as raw bytes.
type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
}

func (a *AttributeInfo) Name(cp ConstantPool) (string, error) {
	return cp.Utf8(a.NameIndex)
}

// CodeAttribute is the decoded body of a Code attribute. Bytecode holds
// exactly the declared code length; nested attributes (line number tables
// and the like) are discarded during decoding.
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// ParseCodeAttribute decodes the raw payload of a Code attribute.
func ParseCodeAttribute(info []byte) (*CodeAttribute, error) {
	r := &reader{r: bytes.NewReader(info)}

	code := &CodeAttribute{
		MaxStack:  r.readU2(),
		MaxLocals: r.readU2(),
	}
	codeLength := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read code header: %w", r.err)
	}

	code.Code = r.readBytes(int(codeLength))
	if r.err != nil {
		return nil, fmt.Errorf("failed to read bytecode (%d bytes declared): %w", codeLength, r.err)
	}

	tableLength := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read exception table length: %w", r.err)
	}

	code.ExceptionTable = make([]ExceptionTableEntry, tableLength)
	for i := uint16(0); i < tableLength; i++ {
		code.ExceptionTable[i] = ExceptionTableEntry{
			StartPC:   r.readU2(),
			EndPC:     r.readU2(),
			HandlerPC: r.readU2(),
			CatchType: r.readU2(),
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read exception table: %w", r.err)
	}

	attributesCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read code attributes count: %w", r.err)
	}
	for i := uint16(0); i < attributesCount; i++ {
		if _, err := readAttributeInfo(r); err != nil {
			return nil, fmt.Errorf("failed to read code attribute %d: %w", i, err)
		}
	}

	return code, nil
}
