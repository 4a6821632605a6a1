// Package jar feeds class files from jar archives into the class
// registry.
package jar

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/robusta/classfile"
	"github.com/dhamidi/robusta/jvm"
)

var log = commonlog.GetLogger("robusta.jar")

const classFileSuffix = ".class"

// Loader scans jar archives, parses every class file entry, links it, and
// registers it. Loading happens entirely before execution starts; any
// failure aborts the load.
type Loader struct {
	Registry *jvm.Registry
}

func NewLoader(registry *jvm.Registry) *Loader {
	return &Loader{Registry: registry}
}

// LoadDir loads every .jar file in dir.
func (l *Loader) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read jar directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jar") {
			continue
		}
		if err := l.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile loads all class files from one jar archive.
func (l *Loader) LoadFile(path string) error {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open jar %s: %w", path, err)
	}
	defer archive.Close()

	loaded := 0
	for _, file := range archive.File {
		if !strings.HasSuffix(file.Name, classFileSuffix) {
			continue
		}
		if err := l.loadEntry(file); err != nil {
			return fmt.Errorf("failed to load %s from %s: %w", file.Name, path, err)
		}
		loaded++
	}

	log.Debugf("loaded %d classes from %s", loaded, path)
	return nil
}

func (l *Loader) loadEntry(file *zip.File) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	cf, err := classfile.Parse(rc)
	if err != nil {
		return err
	}

	class, err := jvm.Link(cf)
	if err != nil {
		return err
	}

	l.Registry.Register(class)
	log.Debugf("registered class %s", class.ExternalName())
	return nil
}
