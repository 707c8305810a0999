package http_request

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vk/runbookgo/internal/registry"
)

// TaskType is the task type emitted for HTTP calls.
const TaskType = "HTTP"

// DefaultContentType is used when the call does not set content_type.
const DefaultContentType = "application/json"

// Methods maps the factory suffix to the HTTP method it emits.
var Methods = map[string]string{
	"get":    "GET",
	"post":   "POST",
	"put":    "PUT",
	"delete": "DELETE",
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a Task.HTTP.* call.
type Input struct {
	URL         string            `cty:"url"`
	Body        *string           `cty:"body"`
	Headers     map[string]string `cty:"headers"`
	ContentType *string           `cty:"content_type"`
	StatusCodes []int             `cty:"status_codes"`
	Timeout     *int              `cty:"timeout"`
}

// Payload is the task attributes handed to the execution engine.
type Payload struct {
	Method              string            `yaml:"method" json:"method"`
	URL                 string            `yaml:"url" json:"url"`
	Body                string            `yaml:"body,omitempty" json:"body,omitempty"`
	Headers             map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	ContentType         string            `yaml:"content_type" json:"content_type"`
	ExpectedStatusCodes []int             `yaml:"expected_response_params" json:"expected_response_params"`
	RequestTimeout      int               `yaml:"connection_timeout,omitempty" json:"connection_timeout,omitempty"`
}

func newBuild(method string) func(any) (*registry.TaskSpec, error) {
	return func(in any) (*registry.TaskSpec, error) {
		input := in.(*Input)

		u, err := url.Parse(input.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			// Macros like @@{endpoint}@@ resolve at run time and have no scheme yet.
			if !strings.Contains(input.URL, "@@{") {
				return nil, fmt.Errorf("url %q must use http or https", input.URL)
			}
		}

		p := &Payload{
			Method:              method,
			URL:                 input.URL,
			Headers:             input.Headers,
			ContentType:         DefaultContentType,
			ExpectedStatusCodes: []int{200},
		}
		if input.Body != nil {
			if method == "GET" || method == "DELETE" {
				return nil, fmt.Errorf("%s requests cannot carry a body", method)
			}
			p.Body = *input.Body
		}
		if input.ContentType != nil {
			p.ContentType = *input.ContentType
		}
		if len(input.StatusCodes) > 0 {
			for _, code := range input.StatusCodes {
				if code < 100 || code > 599 {
					return nil, fmt.Errorf("invalid status code %d", code)
				}
			}
			p.ExpectedStatusCodes = input.StatusCodes
		}
		if input.Timeout != nil {
			if *input.Timeout <= 0 {
				return nil, fmt.Errorf("timeout must be positive, got %d", *input.Timeout)
			}
			p.RequestTimeout = *input.Timeout
		}

		return &registry.TaskSpec{Type: TaskType, Payload: p}, nil
	}
}

// Register registers Task.HTTP.get, .post, .put and .delete.
func (m *Module) Register(r *registry.Registry) {
	for suffix, method := range Methods {
		r.RegisterTask("Task.HTTP."+suffix, &registry.TaskFactory{
			Params:   []string{"url", "body"},
			NewInput: func() any { return new(Input) },
			Build:    newBuild(method),
		})
	}
}
