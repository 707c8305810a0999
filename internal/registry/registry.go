package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/vk/runbookgo/internal/qualname"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Module is the interface that all task modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// SymbolKind tells the visitor what a resolved name stands for.
type SymbolKind int

const (
	KindTask SymbolKind = iota + 1
	KindVariable
	KindValue
	KindParallel
)

func (k SymbolKind) String() string {
	switch k {
	case KindTask:
		return "task factory"
	case KindVariable:
		return "variable factory"
	case KindValue:
		return "value"
	case KindParallel:
		return "parallel marker"
	default:
		return "unknown"
	}
}

// TaskSpec is what a task factory produces.
type TaskSpec struct {
	Type    string
	Payload any
}

// TaskFactory turns decoded call arguments into a task.
type TaskFactory struct {
	// Params names the positional parameters in order.
	Params []string
	// NewInput returns a pointer to the cty-tagged struct arguments decode into.
	NewInput func() any
	// Build receives the value NewInput returned, populated.
	Build func(input any) (*TaskSpec, error)
}

// VariableSpec is what a variable factory produces.
type VariableSpec struct {
	DataType string
	Value    string
	Secret   bool
}

// VariableFactory turns decoded call arguments into a variable.
type VariableFactory struct {
	Params   []string
	NewInput func() any
	Build    func(input any) (*VariableSpec, error)
}

// Symbol is a resolved namespace entry.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Task     *TaskFactory
	Variable *VariableFactory
	Value    cty.Value
}

// Registry holds every symbol visible to action scripts.
type Registry struct {
	symbols   map[string]*Symbol
	functions map[string]function.Function
}

// New creates a Registry preloaded with the `parallel` marker and the
// built-in function library.
func New() *Registry {
	r := &Registry{
		symbols:   make(map[string]*Symbol),
		functions: make(map[string]function.Function),
	}
	r.RegisterParallel("parallel")
	for name, fn := range builtinFunctions() {
		r.RegisterFunction(name, fn)
	}
	return r
}

// RegisterTask registers a task factory under a qualified name.
func (r *Registry) RegisterTask(name string, f *TaskFactory) {
	r.add(&Symbol{Name: name, Kind: KindTask, Task: f})
}

// RegisterVariable registers a variable factory under a qualified name.
func (r *Registry) RegisterVariable(name string, f *VariableFactory) {
	r.add(&Symbol{Name: name, Kind: KindVariable, Variable: f})
}

// RegisterValue exposes a constant to argument expressions.
func (r *Registry) RegisterValue(name string, v cty.Value) {
	r.add(&Symbol{Name: name, Kind: KindValue, Value: v})
}

// RegisterParallel registers a name that opens parallel blocks.
func (r *Registry) RegisterParallel(name string) {
	r.add(&Symbol{Name: name, Kind: KindParallel})
}

// RegisterFunction adds a function callable from argument expressions.
func (r *Registry) RegisterFunction(name string, fn function.Function) {
	if _, exists := r.functions[name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", name))
	}
	slog.Debug("Registering function.", "name", name)
	r.functions[name] = fn
}

func (r *Registry) add(s *Symbol) {
	n, err := qualname.Parse(s.Name)
	if err != nil {
		panic(fmt.Sprintf("invalid symbol name '%s': %v", s.Name, err))
	}
	s.Name = n.String()
	if _, exists := r.symbols[s.Name]; exists {
		panic(fmt.Sprintf("symbol with name '%s' already registered", s.Name))
	}
	slog.Debug("Registering symbol.", "name", s.Name, "kind", s.Kind.String())
	r.symbols[s.Name] = s
}

// Lookup resolves a qualified name.
func (r *Registry) Lookup(name string) (*Symbol, bool) {
	s, ok := r.symbols[name]
	return s, ok
}

// IsParallelMarker reports whether name opens a parallel block.
func (r *Registry) IsParallelMarker(name string) bool {
	s, ok := r.symbols[name]
	return ok && s.Kind == KindParallel
}

// IsRoot reports whether name is the first segment of any registered symbol.
func (r *Registry) IsRoot(name string) bool {
	for key := range r.symbols {
		n, _ := qualname.Parse(key)
		if n.Root() == name {
			return true
		}
	}
	return false
}

// Names returns all registered symbol names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.symbols))
}
