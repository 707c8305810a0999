package variables

import (
	"strconv"

	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// StringInput defines the arguments of string-valued variable factories.
type StringInput struct {
	Value string `cty:"value"`
}

// IntInput defines the arguments of Variable.Simple.int.
type IntInput struct {
	Value int `cty:"value"`
}

func buildString(secret bool) func(any) (*registry.VariableSpec, error) {
	return func(in any) (*registry.VariableSpec, error) {
		return &registry.VariableSpec{
			DataType: model.DataTypeString,
			Value:    in.(*StringInput).Value,
			Secret:   secret,
		}, nil
	}
}

func buildInt(in any) (*registry.VariableSpec, error) {
	return &registry.VariableSpec{
		DataType: model.DataTypeInt,
		Value:    strconv.Itoa(in.(*IntInput).Value),
	}, nil
}

// Register registers Variable.Simple and its typed variants.
func (m *Module) Register(r *registry.Registry) {
	newString := func() any { return new(StringInput) }
	params := []string{"value"}

	r.RegisterVariable("Variable.Simple", &registry.VariableFactory{Params: params, NewInput: newString, Build: buildString(false)})
	r.RegisterVariable("Variable.Simple.string", &registry.VariableFactory{Params: params, NewInput: newString, Build: buildString(false)})
	r.RegisterVariable("Variable.Simple.secret", &registry.VariableFactory{Params: params, NewInput: newString, Build: buildString(true)})
	r.RegisterVariable("Variable.Simple.int", &registry.VariableFactory{
		Params:   params,
		NewInput: func() any { return new(IntInput) },
		Build:    buildInt,
	})
}
