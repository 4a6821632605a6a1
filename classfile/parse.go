package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) skip(n int) {
	r.readBytes(n)
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes one class file from rd. The magic number and version are
// read but not validated; a stream that is too short for any declared
// field fails with an error naming that field.
func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	cf := &ClassFile{}
	cf.Magic = r.readU4()
	cf.MinorVersion = r.readU2()
	cf.MajorVersion = r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read header: %w", r.err)
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}

	if constantPoolCount > 0 {
		cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	}
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	cf.Interfaces = make([]uint16, interfacesCount)
	for i := uint16(0); i < interfacesCount; i++ {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read interfaces: %w", r.err)
	}

	fieldsCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read fields count: %w", r.err)
	}

	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := uint16(0); i < fieldsCount; i++ {
		field, err := readFieldInfo(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
		cf.Fields[i] = *field
	}

	methodsCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read methods count: %w", r.err)
	}

	cf.Methods = make([]MethodInfo, methodsCount)
	for i := uint16(0); i < methodsCount; i++ {
		method, err := readMethodInfo(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
		cf.Methods[i] = *method
	}

	attributesCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read attributes count: %w", r.err)
	}

	cf.Attributes = make([]AttributeInfo, attributesCount)
	for i := uint16(0); i < attributesCount; i++ {
		attr, err := readAttributeInfo(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read attribute %d: %w", i, err)
		}
		cf.Attributes[i] = *attr
	}

	return cf, nil
}

// readConstantPoolEntry dispatches on the one-byte tag. Only Utf8 and
// Class are materialized; the remaining recognized tags have their
// fixed-size payload consumed and recorded as opaque, so that indices past
// them stay aligned. A tag outside the recognized set is an error because
// its payload length cannot be inferred.
//
// Long and Double constants occupy a single pool slot here, though the
// format reserves two. Classes carrying wide numeric constants will
// misalign subsequent indices.
func readConstantPoolEntry(r *reader) (ConstantPoolEntry, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, r.err
	}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		bytes := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		value, err := decodeModifiedUtf8(bytes)
		if err != nil {
			return nil, fmt.Errorf("malformed Utf8 constant: %w", err)
		}
		return &ConstantUtf8Info{Value: value}, nil

	case ConstantClass:
		nameIndex := r.readU2()
		if r.err != nil {
			return nil, r.err
		}
		return &ConstantClassInfo{NameIndex: nameIndex}, nil

	case ConstantInteger, ConstantFloat:
		r.skip(4)

	case ConstantLong, ConstantDouble:
		r.skip(8)

	case ConstantString, ConstantMethodType:
		r.skip(2)

	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantInvokeDynamic:
		r.skip(4)

	case ConstantMethodHandle:
		r.skip(3)

	default:
		return nil, fmt.Errorf("unimplemented constant pool tag: %d", tag)
	}

	if r.err != nil {
		return nil, r.err
	}
	return &ConstantOpaqueInfo{EntryTag: tag}, nil
}

func readFieldInfo(r *reader) (*FieldInfo, error) {
	field := &FieldInfo{
		AccessFlags:     AccessFlags(r.readU2()),
		NameIndex:       r.readU2(),
		DescriptorIndex: r.readU2(),
	}

	attributesCount := r.readU2()
	if r.err != nil {
		return nil, r.err
	}

	field.Attributes = make([]AttributeInfo, attributesCount)
	for i := uint16(0); i < attributesCount; i++ {
		attr, err := readAttributeInfo(r)
		if err != nil {
			return nil, err
		}
		field.Attributes[i] = *attr
	}

	return field, nil
}

func readMethodInfo(r *reader) (*MethodInfo, error) {
	method := &MethodInfo{
		AccessFlags:     AccessFlags(r.readU2()),
		NameIndex:       r.readU2(),
		DescriptorIndex: r.readU2(),
	}

	attributesCount := r.readU2()
	if r.err != nil {
		return nil, r.err
	}

	method.Attributes = make([]AttributeInfo, attributesCount)
	for i := uint16(0); i < attributesCount; i++ {
		attr, err := readAttributeInfo(r)
		if err != nil {
			return nil, err
		}
		method.Attributes[i] = *attr
	}

	return method, nil
}

func readAttributeInfo(r *reader) (*AttributeInfo, error) {
	nameIndex := r.readU2()
	length := r.readU4()
	info := r.readBytes(int(length))
	if r.err != nil {
		return nil, r.err
	}

	return &AttributeInfo{
		NameIndex: nameIndex,
		Info:      info,
	}, nil
}

// decodeModifiedUtf8 decodes the class-file variant of UTF-8: no NUL
// bytes, no four-byte sequences, supplementary characters as surrogate
// pairs of three-byte sequences.
func decodeModifiedUtf8(bytes []byte) (string, error) {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		switch {
		case b == 0x00 || b >= 0xF0:
			return "", fmt.Errorf("invalid byte 0x%02X at offset %d", b, i)

		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++

		case b&0xE0 == 0xC0:
			if i+1 >= len(bytes) || bytes[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated two-byte sequence at offset %d", i)
			}
			runes = append(runes, rune(b&0x1F)<<6|rune(bytes[i+1]&0x3F))
			i += 2

		case b&0xF0 == 0xE0:
			if i+2 >= len(bytes) || bytes[i+1]&0xC0 != 0x80 || bytes[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated three-byte sequence at offset %d", i)
			}
			r := rune(b&0x0F)<<12 | rune(bytes[i+1]&0x3F)<<6 | rune(bytes[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(bytes) {
				low := rune(bytes[i+3]&0x0F)<<12 | rune(bytes[i+4]&0x3F)<<6 | rune(bytes[i+5]&0x3F)
				if bytes[i+3] == 0xED && low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3

		default:
			return "", fmt.Errorf("invalid byte 0x%02X at offset %d", b, i)
		}
	}
	return string(runes), nil
}
