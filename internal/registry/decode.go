package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Arguments are evaluated call arguments.
type Arguments struct {
	Positional []cty.Value
	Named      map[string]cty.Value
}

// Bind assigns positional arguments to params and merges them with the named
// ones.
func (a Arguments) Bind(params []string) (map[string]cty.Value, error) {
	if len(a.Positional) > len(params) {
		return nil, fmt.Errorf("takes at most %d positional arguments but %d were given", len(params), len(a.Positional))
	}
	out := make(map[string]cty.Value, len(a.Positional)+len(a.Named))
	for i, v := range a.Positional {
		out[params[i]] = v
	}
	for k, v := range a.Named {
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("got multiple values for argument %q", k)
		}
		out[k] = v
	}
	return out, nil
}

// Decode binds args and populates the cty-tagged fields of the struct input
// points to. Fields that are pointers, slices or maps, or whose tag carries
// `optional`, may be omitted; unknown arguments are rejected.
func Decode(args Arguments, params []string, input any) error {
	values, err := args.Bind(params)
	if err != nil {
		return err
	}

	ptr := reflect.ValueOf(input)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("internal error: decode target must be a pointer to a struct, got %T", input)
	}
	target := ptr.Elem()
	targetType := target.Type()

	used := make(map[string]bool, len(values))
	for i := 0; i < targetType.NumField(); i++ {
		fieldDef := targetType.Field(i)
		if !fieldDef.IsExported() {
			continue
		}
		tagName, optional := parseTag(fieldDef)
		if tagName == "" {
			continue
		}

		val, ok := values[tagName]
		if !ok {
			if !optional {
				return fmt.Errorf("missing required argument %q", tagName)
			}
			continue
		}
		used[tagName] = true

		if err := decodeField(val, target.Field(i)); err != nil {
			return fmt.Errorf("argument %q: %w", tagName, err)
		}
	}

	for name := range values {
		if !used[name] {
			return fmt.Errorf("unsupported argument %q", name)
		}
	}
	return nil
}

// decodeField converts val to the type implied by the Go field and assigns it.
func decodeField(val cty.Value, field reflect.Value) error {
	if field.Type() == reflect.TypeOf(cty.Value{}) {
		field.Set(reflect.ValueOf(val))
		return nil
	}

	want, err := gocty.ImpliedType(reflect.Zero(field.Type()).Interface())
	if err != nil {
		return fmt.Errorf("internal error: unable to infer cty.Type: %w", err)
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("expected %s, got %s", want.FriendlyName(), val.Type().FriendlyName())
	}
	return gocty.FromCtyValue(converted, field.Addr().Interface())
}

func parseTag(f reflect.StructField) (name string, optional bool) {
	parts := strings.Split(f.Tag.Get("cty"), ",")
	name = parts[0]
	if name == "-" {
		return "", false
	}
	for _, p := range parts[1:] {
		if p == "optional" {
			optional = true
		}
	}
	switch f.Type.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map:
		optional = true
	}
	return name, optional
}
