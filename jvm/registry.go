package jvm

import (
	"fmt"
	"sort"

	"github.com/dhamidi/robusta/classfile"
)

const (
	MainMethodName       = "main"
	MainMethodDescriptor = "([Ljava/lang/String;)V"
)

// Registry is the process-wide class table, keyed by the dot-separated
// class name. It is populated once during the load phase and read-only
// during execution; registered classes are never mutated, so concurrent
// readers need no locking.
type Registry struct {
	classes map[string]*RuntimeClass
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*RuntimeClass)}
}

// Register inserts a linked class, replacing any prior entry of the same
// name.
func (r *Registry) Register(class *RuntimeClass) {
	r.classes[class.ExternalName()] = class
}

// Lookup finds a class by name in either dot- or slash-separated form.
func (r *Registry) Lookup(name string) (*RuntimeClass, error) {
	class, ok := r.classes[classfile.InternalToSourceName(name)]
	if !ok {
		return nil, fmt.Errorf("unknown class %s", name)
	}
	return class, nil
}

// FindMainMethod locates the conventional entry point on the named class:
// a method named "main" with descriptor "([Ljava/lang/String;)V".
func (r *Registry) FindMainMethod(className string) (*RuntimeMethod, error) {
	class, err := r.Lookup(className)
	if err != nil {
		return nil, err
	}
	method, err := class.GetMethod(MainMethodName, MainMethodDescriptor)
	if err != nil {
		return nil, fmt.Errorf("can't find main method: %w", err)
	}
	return method, nil
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many classes are registered.
func (r *Registry) Len() int {
	return len(r.classes)
}
