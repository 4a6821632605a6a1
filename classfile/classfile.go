package classfile

// ClassFile is the transient parse result for one class file. It still
// speaks in constant pool indices; linking resolves those into a
// self-contained runtime class.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	Methods      []MethodInfo
	Attributes   []AttributeInfo
}

// ClassName resolves this class's internal (slash-separated) binary name.
func (cf *ClassFile) ClassName() (string, error) {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

// SuperClassName resolves the superclass name, or "" for a class without
// one (java/lang/Object).
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		name, err := cf.ConstantPool.ClassName(idx)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// GetMethod finds the first method with the given name and descriptor. An
// empty descriptor matches any overload. Methods whose pool entries do not
// resolve are skipped.
func (cf *ClassFile) GetMethod(name, descriptor string) *MethodInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		mName, err := m.Name(cf.ConstantPool)
		if err != nil || mName != name {
			continue
		}
		if descriptor == "" {
			return m
		}
		mDescriptor, err := m.Descriptor(cf.ConstantPool)
		if err == nil && mDescriptor == descriptor {
			return m
		}
	}
	return nil
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	for i := range cf.Attributes {
		attrName, err := cf.Attributes[i].Name(cf.ConstantPool)
		if err == nil && attrName == name {
			return &cf.Attributes[i]
		}
	}
	return nil
}
