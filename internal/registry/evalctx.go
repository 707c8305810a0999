package registry

import (
	"fmt"
	"maps"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/runbookgo/internal/qualname"
	"github.com/zclconf/go-cty/cty"
)

// EvalContext builds the HCL evaluation context for call arguments. Values
// registered under dotted names become nested objects, so `endpoints.web`
// is reachable as a traversal.
func (r *Registry) EvalContext() (*hcl.EvalContext, error) {
	tree, err := r.valueTree()
	if err != nil {
		return nil, err
	}
	vars := make(map[string]cty.Value, len(tree))
	for root, node := range tree {
		vars[root] = node.value()
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: maps.Clone(r.functions),
	}, nil
}

// valueNode is either a leaf value or a branch of named children.
type valueNode struct {
	leaf     *cty.Value
	children map[string]*valueNode
}

func (n *valueNode) value() cty.Value {
	if n.leaf != nil {
		return *n.leaf
	}
	attrs := make(map[string]cty.Value, len(n.children))
	for k, child := range n.children {
		attrs[k] = child.value()
	}
	return cty.ObjectVal(attrs)
}

// valueTree arranges every registered value by name segment. A value may not
// sit on the path of another value.
func (r *Registry) valueTree() (map[string]*valueNode, error) {
	root := &valueNode{children: make(map[string]*valueNode)}
	for _, key := range r.Names() {
		s := r.symbols[key]
		if s.Kind != KindValue {
			continue
		}
		n, err := qualname.Parse(s.Name)
		if err != nil {
			return nil, err
		}

		node := root
		for i, seg := range n.Segments {
			if node.leaf != nil {
				return nil, fmt.Errorf("value %q is nested under value %q", s.Name, n.Segments[:i])
			}
			child, ok := node.children[seg]
			if !ok {
				child = &valueNode{children: make(map[string]*valueNode)}
				node.children[seg] = child
			}
			node = child
		}
		if len(node.children) > 0 {
			return nil, fmt.Errorf("value %q has values nested under it", s.Name)
		}
		v := s.Value
		node.leaf = &v
	}
	return root.children, nil
}
