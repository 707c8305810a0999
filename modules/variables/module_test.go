package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/model"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestVariables(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	tests := []struct {
		callee string
		value  cty.Value
		want   registry.VariableSpec
	}{
		{"Variable.Simple", cty.StringVal("a"), registry.VariableSpec{DataType: model.DataTypeString, Value: "a"}},
		{"Variable.Simple.string", cty.NumberIntVal(7), registry.VariableSpec{DataType: model.DataTypeString, Value: "7"}},
		{"Variable.Simple.secret", cty.StringVal("pw"), registry.VariableSpec{DataType: model.DataTypeString, Value: "pw", Secret: true}},
		{"Variable.Simple.int", cty.NumberIntVal(8080), registry.VariableSpec{DataType: model.DataTypeInt, Value: "8080"}},
		{"Variable.Simple.int", cty.StringVal("42"), registry.VariableSpec{DataType: model.DataTypeInt, Value: "42"}},
	}
	for _, tc := range tests {
		t.Run(tc.callee, func(t *testing.T) {
			sym, ok := r.Lookup(tc.callee)
			require.True(t, ok)
			require.Equal(t, registry.KindVariable, sym.Kind)

			input := sym.Variable.NewInput()
			require.NoError(t, registry.Decode(registry.Arguments{Positional: []cty.Value{tc.value}}, sym.Variable.Params, input))
			spec, err := sym.Variable.Build(input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *spec)
		})
	}

	t.Run("int rejects text", func(t *testing.T) {
		sym, _ := r.Lookup("Variable.Simple.int")
		input := sym.Variable.NewInput()
		err := registry.Decode(registry.Arguments{Positional: []cty.Value{cty.StringVal("many")}}, sym.Variable.Params, input)
		require.Error(t, err)
	})

	require.NoError(t, r.ValidateRegistry(t.Context()))
}
