// Package jvm links parsed class files into runtime classes and executes
// their bytecode.
package jvm

import (
	"fmt"

	"github.com/dhamidi/robusta/classfile"
)

// RuntimeClass is a fully linked class: every constant pool reference the
// runtime needs has been resolved to its concrete value. Instances are
// immutable after linking and may be shared freely between frames.
type RuntimeClass struct {
	// Name is the internal, slash-separated binary name.
	Name string
	// SuperName is the internal name of the superclass, or "" for a class
	// without one. Held as a name rather than a pointer; resolution goes
	// through the registry on demand.
	SuperName string
	Methods   []*RuntimeMethod
}

// ExternalName returns the dot-separated form used for lookup.
func (c *RuntimeClass) ExternalName() string {
	return classfile.InternalToSourceName(c.Name)
}

// GetMethod finds the method with exactly the given name and descriptor.
func (c *RuntimeClass) GetMethod(name, descriptor string) (*RuntimeMethod, error) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, nil
		}
	}
	return nil, fmt.Errorf("class %s has no method %s with descriptor %s", c.ExternalName(), name, descriptor)
}

// RuntimeMethod carries no remaining pool indices. A method without a Code
// attribute (abstract or native) has a zero-valued Code.
type RuntimeMethod struct {
	Class      *RuntimeClass
	Name       string
	Descriptor string
	Code       classfile.CodeAttribute
}

// Link resolves all symbolic references of a parsed class file, producing
// a self-contained runtime class. Every pool hop is type checked; a hop
// landing on the wrong constant shape fails with context.
func Link(cf *classfile.ClassFile) (*RuntimeClass, error) {
	name, err := cf.ClassName()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve class name: %w", err)
	}

	superName, err := cf.SuperClassName()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve super class of %s: %w", name, err)
	}

	class := &RuntimeClass{
		Name:      name,
		SuperName: superName,
		Methods:   make([]*RuntimeMethod, 0, len(cf.Methods)),
	}

	for i := range cf.Methods {
		method, err := linkMethod(&cf.Methods[i], cf.ConstantPool)
		if err != nil {
			return nil, fmt.Errorf("failed to link method %d of %s: %w", i, name, err)
		}
		method.Class = class
		class.Methods = append(class.Methods, method)
	}

	return class, nil
}

func linkMethod(m *classfile.MethodInfo, cp classfile.ConstantPool) (*RuntimeMethod, error) {
	name, err := m.Name(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve method name: %w", err)
	}

	descriptor, err := m.Descriptor(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve descriptor of %s: %w", name, err)
	}

	method := &RuntimeMethod{
		Name:       name,
		Descriptor: descriptor,
	}

	// A method with no Code attribute is legal: abstract and native
	// methods have no executable body here.
	if attr := m.GetAttribute(cp, classfile.CodeAttributeName); attr != nil {
		code, err := classfile.ParseCodeAttribute(attr.Info)
		if err != nil {
			return nil, fmt.Errorf("failed to decode code of %s: %w", name, err)
		}
		method.Code = *code
	}

	return method, nil
}
