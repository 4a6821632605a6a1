package classfile

import (
	"strings"
	"testing"
)

func testPool() ConstantPool {
	return ConstantPool{
		&ConstantUtf8Info{Value: "EmptyMain"},
		&ConstantClassInfo{NameIndex: 1},
		&ConstantOpaqueInfo{EntryTag: ConstantMethodref},
	}
}

func TestConstantPoolIndexing(t *testing.T) {
	cp := testPool()

	t.Run("index zero is reserved", func(t *testing.T) {
		if _, err := cp.Entry(0); err == nil {
			t.Fatal("expected error for index 0")
		}
	})

	t.Run("index past the end", func(t *testing.T) {
		if _, err := cp.Entry(4); err == nil {
			t.Fatal("expected error for index 4")
		}
	})

	t.Run("every index in range resolves", func(t *testing.T) {
		for i := uint16(1); i <= 3; i++ {
			if _, err := cp.Entry(i); err != nil {
				t.Errorf("Entry(%d) failed: %v", i, err)
			}
		}
	})
}

func TestConstantPoolTypedAccessors(t *testing.T) {
	cp := testPool()

	t.Run("utf8", func(t *testing.T) {
		value, err := cp.Utf8(1)
		if err != nil {
			t.Fatalf("Utf8(1) failed: %v", err)
		}
		if value != "EmptyMain" {
			t.Errorf("Utf8(1) = %q, want %q", value, "EmptyMain")
		}
	})

	t.Run("utf8 of a class entry fails", func(t *testing.T) {
		_, err := cp.Utf8(2)
		if err == nil {
			t.Fatal("expected wrong-variant error")
		}
		if !strings.Contains(err.Error(), "expected Utf8, found Class") {
			t.Errorf("error %q does not name both variants", err)
		}
	})

	t.Run("class", func(t *testing.T) {
		class, err := cp.Class(2)
		if err != nil {
			t.Fatalf("Class(2) failed: %v", err)
		}
		if class.NameIndex != 1 {
			t.Errorf("NameIndex = %d, want 1", class.NameIndex)
		}
	})

	t.Run("class of a utf8 entry fails", func(t *testing.T) {
		_, err := cp.Class(1)
		if err == nil {
			t.Fatal("expected wrong-variant error")
		}
		if !strings.Contains(err.Error(), "expected Class, found Utf8") {
			t.Errorf("error %q does not name both variants", err)
		}
	})

	t.Run("class of an opaque entry fails", func(t *testing.T) {
		if _, err := cp.Class(3); err == nil {
			t.Fatal("expected wrong-variant error")
		}
	})

	t.Run("class name follows both hops", func(t *testing.T) {
		name, err := cp.ClassName(2)
		if err != nil {
			t.Fatalf("ClassName(2) failed: %v", err)
		}
		if name != "EmptyMain" {
			t.Errorf("ClassName(2) = %q, want %q", name, "EmptyMain")
		}
	})
}
