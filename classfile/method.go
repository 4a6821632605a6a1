package classfile

// CodeAttributeName is the attribute holding a method's executable body.
const CodeAttributeName = "Code"

type MethodInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (m *MethodInfo) Name(cp ConstantPool) (string, error) {
	return cp.Utf8(m.NameIndex)
}

func (m *MethodInfo) Descriptor(cp ConstantPool) (string, error) {
	return cp.Utf8(m.DescriptorIndex)
}

// GetAttribute returns the first attribute whose name resolves to the
// given literal, or nil if the method carries none.
func (m *MethodInfo) GetAttribute(cp ConstantPool, name string) *AttributeInfo {
	for i := range m.Attributes {
		attrName, err := m.Attributes[i].Name(cp)
		if err == nil && attrName == name {
			return &m.Attributes[i]
		}
	}
	return nil
}

func (m *MethodInfo) IsStatic() bool   { return m.AccessFlags.IsStatic() }
func (m *MethodInfo) IsNative() bool   { return m.AccessFlags.IsNative() }
func (m *MethodInfo) IsAbstract() bool { return m.AccessFlags.IsAbstract() }

func (m *MethodInfo) ParsedDescriptor(cp ConstantPool) *MethodDescriptor {
	descriptor, err := m.Descriptor(cp)
	if err != nil {
		return nil
	}
	return ParseMethodDescriptor(descriptor)
}
