package classfile

type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (f *FieldInfo) Name(cp ConstantPool) (string, error) {
	return cp.Utf8(f.NameIndex)
}

func (f *FieldInfo) Descriptor(cp ConstantPool) (string, error) {
	return cp.Utf8(f.DescriptorIndex)
}

func (f *FieldInfo) IsStatic() bool { return f.AccessFlags.IsStatic() }
func (f *FieldInfo) IsFinal() bool  { return f.AccessFlags.IsFinal() }
