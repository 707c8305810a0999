package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToCtyValue converts a decoded YAML scalar, or a slice of one Go type, into
// a cty.Value. nil becomes a dynamic null. Untyped containers such as
// map[string]any have no implied cty.Type and are rejected.
func ToCtyValue(v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int:
		return cty.NumberIntVal(int64(x)), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type for %T: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}
