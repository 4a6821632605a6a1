package classfile

import "strings"

// FieldType is one decoded component of a descriptor: a primitive, a class
// reference, or an array of either.
type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType // nil means void
}

func (md *MethodDescriptor) String() string {
	var sb strings.Builder
	if md.ReturnType != nil {
		sb.WriteString(md.ReturnType.String())
	} else {
		sb.WriteString("void")
	}
	sb.WriteString("(")
	for i, p := range md.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// ParseMethodDescriptor decodes a compact method descriptor such as
// "([Ljava/lang/String;)V". It returns nil for malformed input.
func ParseMethodDescriptor(desc string) *MethodDescriptor {
	if len(desc) == 0 || desc[0] != '(' {
		return nil
	}

	md := &MethodDescriptor{}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		ft, consumed := parseFieldType(desc, i)
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
		i += consumed
	}
	if i >= len(desc) || desc[i] != ')' {
		return nil
	}
	i++

	if i >= len(desc) {
		return nil
	}
	if desc[i] != 'V' {
		md.ReturnType, _ = parseFieldType(desc, i)
		if md.ReturnType == nil {
			return nil
		}
	}
	return md
}

func parseFieldType(desc string, start int) (*FieldType, int) {
	ft := &FieldType{}
	i := start
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil, 0
	}

	if name, ok := baseTypes[desc[i]]; ok {
		ft.BaseType = name
		return ft, i - start + 1
	}
	if desc[i] == 'L' {
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon == -1 {
			return nil, 0
		}
		ft.ClassName = desc[i+1 : i+semicolon]
		return ft, i - start + semicolon + 1
	}
	return nil, 0
}

// InternalToSourceName converts "java/lang/String" to "java.lang.String".
func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

// SourceToInternalName converts "java.lang.String" to "java/lang/String".
func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
