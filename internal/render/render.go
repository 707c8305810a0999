// Package render serializes compiled actions for the orchestration platform.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/runbookgo/internal/model"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Document is the top-level rendered object.
type Document struct {
	Entity  string                  `yaml:"entity" json:"entity"`
	Actions []*model.CompiledAction `yaml:"actions" json:"actions"`
}

// Formats lists the accepted values of the format argument.
func Formats() []string {
	return []string{FormatYAML, FormatJSON}
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, format string, doc *Document) error {
	if doc.Actions == nil {
		doc.Actions = []*model.CompiledAction{}
	}
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q: expected one of %s", format, strings.Join(Formats(), ", "))
	}
}
