package action

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node wraps one position in the recursive Action tree literal: a YAML
// mapping with exactly one key, the snake_case variant tag, whose value
// decodes into the concrete Stateless struct the Registry produces for
// that tag.
//
// The shape mirrors a root struct decoding a YAML document
// (pkg/config/config.go), generalized here to a tagged sum since the task
// tree is polymorphic per node rather than a single fixed shape.
type Node struct {
	Tag   string
	Value Stateless
}

// Decode resolves a Node against reg. Call once per parsed document; the
// Registry must already contain every variant tag the task description may
// reference.
func (n *Node) Decode(raw *yaml.Node, reg *Registry) error {
	if raw.Kind != yaml.MappingNode || len(raw.Content) != 2 {
		return fmt.Errorf("action: node must be a single-key mapping, got kind %v", raw.Kind)
	}

	var tag string
	if err := raw.Content[0].Decode(&tag); err != nil {
		return fmt.Errorf("action: decode variant tag: %w", err)
	}

	stateless, err := reg.New(tag)
	if err != nil {
		return err
	}

	if err := raw.Content[1].Decode(stateless); err != nil {
		return fmt.Errorf("action: decode %s body: %w", tag, err)
	}

	n.Tag = tag
	n.Value = stateless
	return nil
}

// UnmarshalYAML satisfies yaml.Unmarshaler so *Node can appear as a field
// anywhere in a larger document, provided the caller has stashed a
// *Registry to resolve against — see WithRegistry below, since yaml.v3
// gives unmarshalers no side channel for extra context.
func (n *Node) UnmarshalYAML(raw *yaml.Node) error {
	reg := currentRegistry
	if reg == nil {
		return fmt.Errorf("action: no registry set for tree decode (call action.WithRegistry)")
	}
	return n.Decode(raw, reg)
}

// currentRegistry is a narrow, deliberately process-local indirection: YAML
// unmarshaling in this ecosystem (encoding/json and yaml.v3 alike) has no
// way to thread extra context into UnmarshalYAML, so every decoder that
// needs a Registry wraps its call in WithRegistry. Block loading is always
// sequential, one task loaded at a time; neither this variable nor
// WithRegistry is guarded by a lock.
var currentRegistry *Registry

// WithRegistry scopes reg as the active Registry for the duration of fn,
// then restores whatever was active before. Used by the task loader around
// yaml.Unmarshal calls that touch Node fields.
func WithRegistry(reg *Registry, fn func() error) error {
	prev := currentRegistry
	currentRegistry = reg
	defer func() { currentRegistry = prev }()
	return fn()
}
