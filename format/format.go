// Package format renders parsed class files for the dump commands.
package format

import (
	"github.com/dhamidi/robusta/classfile"
)

type Encoder interface {
	Encode(cf *classfile.ClassFile) error
}

type classData struct {
	Name       string       `json:"name" cbor:"name"`
	SuperClass string       `json:"superClass,omitempty" cbor:"superClass,omitempty"`
	Interfaces []string     `json:"interfaces,omitempty" cbor:"interfaces,omitempty"`
	Version    versionData  `json:"version" cbor:"version"`
	Constants  int          `json:"constants" cbor:"constants"`
	Methods    []methodData `json:"methods,omitempty" cbor:"methods,omitempty"`
}

type versionData struct {
	Major uint16 `json:"major" cbor:"major"`
	Minor uint16 `json:"minor" cbor:"minor"`
}

type methodData struct {
	Name       string `json:"name" cbor:"name"`
	Descriptor string `json:"descriptor" cbor:"descriptor"`
	Signature  string `json:"signature,omitempty" cbor:"signature,omitempty"`
	CodeLength int    `json:"codeLength" cbor:"codeLength"`
	MaxStack   uint16 `json:"maxStack" cbor:"maxStack"`
	MaxLocals  uint16 `json:"maxLocals" cbor:"maxLocals"`
}

func buildClassData(cf *classfile.ClassFile) (*classData, error) {
	name, err := cf.ClassName()
	if err != nil {
		return nil, err
	}
	superName, err := cf.SuperClassName()
	if err != nil {
		return nil, err
	}
	interfaces, err := cf.InterfaceNames()
	if err != nil {
		return nil, err
	}

	data := &classData{
		Name:       classfile.InternalToSourceName(name),
		SuperClass: classfile.InternalToSourceName(superName),
		Interfaces: interfaces,
		Version: versionData{
			Major: cf.MajorVersion,
			Minor: cf.MinorVersion,
		},
		Constants: len(cf.ConstantPool),
	}

	for i := range cf.Methods {
		m := &cf.Methods[i]
		name, err := m.Name(cf.ConstantPool)
		if err != nil {
			return nil, err
		}
		descriptor, err := m.Descriptor(cf.ConstantPool)
		if err != nil {
			return nil, err
		}

		md := methodData{
			Name:       name,
			Descriptor: descriptor,
		}
		if parsed := classfile.ParseMethodDescriptor(descriptor); parsed != nil {
			md.Signature = parsed.String()
		}
		if attr := m.GetAttribute(cf.ConstantPool, classfile.CodeAttributeName); attr != nil {
			code, err := classfile.ParseCodeAttribute(attr.Info)
			if err != nil {
				return nil, err
			}
			md.CodeLength = len(code.Code)
			md.MaxStack = code.MaxStack
			md.MaxLocals = code.MaxLocals
		}
		data.Methods = append(data.Methods, md)
	}

	return data, nil
}
