package classfile

import "fmt"

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantClassInfo struct {
	NameIndex uint16
}

func (c *ConstantClassInfo) Tag() ConstantTag { return ConstantClass }

// ConstantOpaqueInfo records constant kinds the runtime does not resolve.
// The payload has been consumed from the stream so that later pool indices
// stay aligned, only the tag survives.
type ConstantOpaqueInfo struct {
	EntryTag ConstantTag
}

func (c *ConstantOpaqueInfo) Tag() ConstantTag { return c.EntryTag }

// ConstantPool is the 1-indexed constant table of a class file. Index 0 is
// reserved by the format and never resolves.
type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) Entry(index uint16) (ConstantPoolEntry, error) {
	if index == 0 || int(index) > len(cp) {
		return nil, fmt.Errorf("constant pool has no entry at index %d (pool size %d)", index, len(cp))
	}
	return cp[index-1], nil
}

// Utf8 resolves index to a Utf8 constant, failing if the entry has a
// different shape.
func (cp ConstantPool) Utf8(index uint16) (string, error) {
	entry, err := cp.Entry(index)
	if err != nil {
		return "", err
	}
	utf8, ok := entry.(*ConstantUtf8Info)
	if !ok {
		return "", fmt.Errorf("constant pool index %d: expected Utf8, found %s", index, entry.Tag())
	}
	return utf8.Value, nil
}

// Class resolves index to a Class constant.
func (cp ConstantPool) Class(index uint16) (*ConstantClassInfo, error) {
	entry, err := cp.Entry(index)
	if err != nil {
		return nil, err
	}
	class, ok := entry.(*ConstantClassInfo)
	if !ok {
		return nil, fmt.Errorf("constant pool index %d: expected Class, found %s", index, entry.Tag())
	}
	return class, nil
}

// ClassName resolves index to a Class constant and then follows its name
// index to the Utf8 entry holding the internal (slash-separated) name.
func (cp ConstantPool) ClassName(index uint16) (string, error) {
	class, err := cp.Class(index)
	if err != nil {
		return "", err
	}
	return cp.Utf8(class.NameIndex)
}
