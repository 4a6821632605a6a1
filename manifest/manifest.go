// Package manifest handles robusta.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "robusta.toml"

// Manifest represents a robusta.toml configuration file.
type Manifest struct {
	Runtime Runtime `toml:"runtime"`

	// Dir is the directory containing the robusta.toml file (set at load
	// time).
	Dir string `toml:"-"`
}

// Runtime configures where class files come from and how the run behaves.
type Runtime struct {
	// Jars lists directories scanned for .jar files, relative to Dir.
	Jars []string `toml:"jars"`
	// Main is the default main class when none is given on the command
	// line.
	Main string `toml:"main"`
	// Verbosity is the log verbosity passed to the logging backend.
	Verbosity int `toml:"verbosity"`
}

// Load parses robusta.toml from the given directory. A missing file is
// not an error: the defaults apply.
func Load(dir string) (*Manifest, error) {
	m := &Manifest{}

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if len(m.Runtime.Jars) == 0 {
		m.Runtime.Jars = []string{"data"}
	}

	return m, nil
}

// JarDirs returns the configured jar directories resolved against the
// manifest directory.
func (m *Manifest) JarDirs() []string {
	dirs := make([]string, len(m.Runtime.Jars))
	for i, dir := range m.Runtime.Jars {
		if filepath.IsAbs(dir) {
			dirs[i] = dir
		} else {
			dirs[i] = filepath.Join(m.Dir, dir)
		}
	}
	return dirs
}
