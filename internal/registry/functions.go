package registry

import (
	"fmt"
	"strings"

	"github.com/vk/runbookgo/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// ReferenceType is the cty type of a reference produced by `ref` or `endpoint`.
var ReferenceType = cty.Object(map[string]cty.Type{
	"kind": cty.String,
	"name": cty.String,
})

// EndpointKind is the reference kind produced by `endpoint(name)`.
const EndpointKind = "endpoint"

// builtinFunctions returns the functions every action script can call.
func builtinFunctions() map[string]function.Function {
	return map[string]function.Function{
		"ref":       refFunc,
		"endpoint":  entityFunc(EndpointKind),
		"upper":     stdlib.UpperFunc,
		"lower":     stdlib.LowerFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"concat":    stdlib.ConcatFunc,
		"trimspace": stdlib.TrimSpaceFunc,
	}
}

// entityFunc builds a function returning a reference of the given kind.
func entityFunc(kind string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(ReferenceType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			if name == "" {
				return cty.NilVal, fmt.Errorf("%s name cannot be empty", kind)
			}
			return referenceVal(kind, name), nil
		},
	})
}

// refFunc accepts either an entity object or a "kind:name" string.
var refFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "entity", Type: cty.DynamicPseudoType},
	},
	Type: function.StaticReturnType(ReferenceType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		ref, err := ReferenceFromValue(args[0])
		if err != nil {
			return cty.NilVal, err
		}
		return referenceVal(ref.Kind, ref.Name), nil
	},
})

func referenceVal(kind, name string) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"kind": cty.StringVal(kind),
		"name": cty.StringVal(name),
	})
}

// ReferenceFromValue converts a reference object, or a "kind:name" string,
// into a model.Reference.
func ReferenceFromValue(v cty.Value) (*model.Reference, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("reference must be a known, non-null value")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return model.ParseReference(v.AsString())
	case ty.IsObjectType() && ty.HasAttribute("kind") && ty.HasAttribute("name"):
		kind, name := v.GetAttr("kind"), v.GetAttr("name")
		if kind.Type() != cty.String || name.Type() != cty.String || kind.IsNull() || name.IsNull() {
			return nil, fmt.Errorf("reference kind and name must be strings")
		}
		if strings.TrimSpace(kind.AsString()) == "" || strings.TrimSpace(name.AsString()) == "" {
			return nil, fmt.Errorf("reference kind and name cannot be empty")
		}
		return &model.Reference{Kind: kind.AsString(), Name: name.AsString()}, nil
	default:
		return nil, fmt.Errorf("cannot use a value of type %s as a reference", ty.FriendlyName())
	}
}
