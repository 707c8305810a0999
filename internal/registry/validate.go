package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry checks that every factory's positional parameters map to
// tagged input fields whose Go types have a cty equivalent, and that the
// registered values form a consistent tree.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		s := r.symbols[name]
		var params []string
		var newInput func() any
		switch s.Kind {
		case KindTask:
			if s.Task == nil || s.Task.Build == nil || s.Task.NewInput == nil {
				errs = append(errs, fmt.Sprintf("task factory '%s': NewInput and Build are required", name))
				continue
			}
			params, newInput = s.Task.Params, s.Task.NewInput
		case KindVariable:
			if s.Variable == nil || s.Variable.Build == nil || s.Variable.NewInput == nil {
				errs = append(errs, fmt.Sprintf("variable factory '%s': NewInput and Build are required", name))
				continue
			}
			params, newInput = s.Variable.Params, s.Variable.NewInput
		default:
			continue
		}

		fields, fieldErrs := inputFields(name, newInput())
		errs = append(errs, fieldErrs...)
		for _, p := range params {
			if _, ok := fields[p]; !ok {
				errs = append(errs, fmt.Sprintf("factory '%s': positional parameter '%s' has no input field", name, p))
			}
		}
		for _, reserved := range []string{"name", "target"} {
			if _, ok := fields[reserved]; ok {
				errs = append(errs, fmt.Sprintf("factory '%s': input field '%s' is reserved for the compiler", name, reserved))
			}
		}
		logger.Debug("Factory validated.", "name", name, "params", params)
	}

	if _, err := r.valueTree(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// inputFields maps tag names to field types and reports fields whose type
// has no cty equivalent.
func inputFields(factory string, input any) (map[string]reflect.Type, []string) {
	var errs []string
	fields := make(map[string]reflect.Type)

	ptr := reflect.ValueOf(input)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return fields, []string{fmt.Sprintf("factory '%s': NewInput must return a pointer to a struct, got %T", factory, input)}
	}
	inputType := ptr.Elem().Type()
	for i := 0; i < inputType.NumField(); i++ {
		field := inputType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagName, _ := parseTag(field)
		if tagName == "" {
			continue
		}
		fields[tagName] = field.Type
		if field.Type == reflect.TypeOf(cty.Value{}) {
			continue
		}
		if _, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface()); err != nil {
			errs = append(errs, fmt.Sprintf("factory '%s', input '%s': could not imply cty type from Go field type %s: %v", factory, tagName, field.Type, err))
		}
	}
	return fields, errs
}
