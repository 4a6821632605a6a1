package jar

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/robusta/jvm"
)

// emptyMainClass encodes a class named com/jkitch/robusta/test/EmptyMain
// whose main method is a single return instruction.
func emptyMainClass(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	u1 := func(v uint8) { buf.WriteByte(v) }
	u2 := func(v uint16) { binary.Write(&buf, binary.BigEndian, v) }
	u4 := func(v uint32) { binary.Write(&buf, binary.BigEndian, v) }
	utf8 := func(s string) { u1(1); u2(uint16(len(s))); buf.WriteString(s) }

	u4(0xCAFEBABE)
	u2(0)
	u2(52)
	u2(6) // constant pool count
	utf8("main")                              // 1
	utf8("([Ljava/lang/String;)V")            // 2
	utf8("com/jkitch/robusta/test/EmptyMain") // 3
	u1(7)                                     // 4: Class -> 3
	u2(3)
	utf8("Code") // 5
	u2(0x0021)   // access flags
	u2(4)        // this_class
	u2(0)        // super_class
	u2(0)        // interfaces
	u2(0)        // fields
	u2(1)        // methods
	u2(0x0009)
	u2(1) // name
	u2(2) // descriptor
	u2(1) // attributes
	u2(5) // "Code"
	u4(13)
	u2(1)    // max stack
	u2(1)    // max locals
	u4(1)    // code length
	u1(0xB1) // return
	u2(0)    // exception table
	u2(0)    // code attributes
	u2(0)    // class attributes
	return buf.Bytes()
}

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if _, err := f.Write(data); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write jar: %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeJar(t, filepath.Join(dir, "test.jar"), map[string][]byte{
		"com/jkitch/robusta/test/EmptyMain.class": emptyMainClass(t),
		"META-INF/MANIFEST.MF":                    []byte("Manifest-Version: 1.0\n"),
	})
	// Non-jar files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	registry := jvm.NewRegistry()
	loader := NewLoader(registry)
	if err := loader.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() failed: %v", err)
	}

	if registry.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", registry.Len())
	}

	t.Run("end to end run", func(t *testing.T) {
		method, err := registry.FindMainMethod("com.jkitch.robusta.test.EmptyMain")
		if err != nil {
			t.Fatalf("FindMainMethod() failed: %v", err)
		}
		thread := jvm.NewThread(method)
		if err := thread.Run(); err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		if thread.Depth() != 0 {
			t.Errorf("Depth() = %d, want 0", thread.Depth())
		}
	})
}

func TestLoadFileRejectsCorruptClass(t *testing.T) {
	dir := t.TempDir()
	truncated := emptyMainClass(t)
	truncated = truncated[:len(truncated)/2]
	path := filepath.Join(dir, "bad.jar")
	writeJar(t, path, map[string][]byte{
		"Bad.class": truncated,
	})

	loader := NewLoader(jvm.NewRegistry())
	if err := loader.LoadFile(path); err == nil {
		t.Fatal("expected error for truncated class file")
	}
}

func TestLoadDirMissing(t *testing.T) {
	loader := NewLoader(jvm.NewRegistry())
	if err := loader.LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
