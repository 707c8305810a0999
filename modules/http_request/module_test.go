package http_request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestHTTPRequest(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	tests := []struct {
		name    string
		callee  string
		args    registry.Arguments
		want    *Payload
		wantErr string
	}{
		{
			name:   "get with defaults",
			callee: "Task.HTTP.get",
			args:   registry.Arguments{Positional: []cty.Value{cty.StringVal("https://example.com/health")}},
			want: &Payload{
				Method:              "GET",
				URL:                 "https://example.com/health",
				ContentType:         DefaultContentType,
				ExpectedStatusCodes: []int{200},
			},
		},
		{
			name:   "post with everything",
			callee: "Task.HTTP.post",
			args: registry.Arguments{
				Positional: []cty.Value{cty.StringVal("http://api/items"), cty.StringVal(`{"a":1}`)},
				Named: map[string]cty.Value{
					"headers":      cty.ObjectVal(map[string]cty.Value{"X-Token": cty.StringVal("t")}),
					"content_type": cty.StringVal("text/plain"),
					"status_codes": cty.TupleVal([]cty.Value{cty.NumberIntVal(201), cty.NumberIntVal(202)}),
					"timeout":      cty.NumberIntVal(30),
				},
			},
			want: &Payload{
				Method:              "POST",
				URL:                 "http://api/items",
				Body:                `{"a":1}`,
				Headers:             map[string]string{"X-Token": "t"},
				ContentType:         "text/plain",
				ExpectedStatusCodes: []int{201, 202},
				RequestTimeout:      30,
			},
		},
		{
			name:   "runtime macro url",
			callee: "Task.HTTP.delete",
			args:   registry.Arguments{Positional: []cty.Value{cty.StringVal("@@{address}@@/items/1")}},
			want: &Payload{
				Method:              "DELETE",
				URL:                 "@@{address}@@/items/1",
				ContentType:         DefaultContentType,
				ExpectedStatusCodes: []int{200},
			},
		},
		{
			name:    "bad scheme",
			callee:  "Task.HTTP.put",
			args:    registry.Arguments{Positional: []cty.Value{cty.StringVal("ftp://host")}},
			wantErr: "must use http or https",
		},
		{
			name:    "get with body",
			callee:  "Task.HTTP.get",
			args:    registry.Arguments{Positional: []cty.Value{cty.StringVal("http://h"), cty.StringVal("x")}},
			wantErr: "cannot carry a body",
		},
		{
			name:   "bad status code",
			callee: "Task.HTTP.get",
			args: registry.Arguments{
				Positional: []cty.Value{cty.StringVal("http://h")},
				Named:      map[string]cty.Value{"status_codes": cty.TupleVal([]cty.Value{cty.NumberIntVal(42)})},
			},
			wantErr: "invalid status code 42",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sym, ok := r.Lookup(tc.callee)
			require.True(t, ok)
			input := sym.Task.NewInput()
			require.NoError(t, registry.Decode(tc.args, sym.Task.Params, input))

			spec, err := sym.Task.Build(input)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, spec.Type)
			assert.Equal(t, tc.want, spec.Payload)
		})
	}
}
