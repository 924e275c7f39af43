package schemafile

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML schema document.
type File struct {
	// Version of the schema format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Classes is the ordered list of class declarations.
	Classes []ClassDecl `yaml:"classes"`
}

// ClassDecl declares one class descriptor.
type ClassDecl struct {
	// Name is the class name, optionally package-qualified
	// ("catalog.Pair" or "example.com/catalog.Pair").
	Name string `yaml:"name"`

	// Params declares the type parameters in order.
	Params ParamList `yaml:"params,omitempty"`

	// Extends references the superclass, with type arguments when the
	// superclass is generic ("Pair[int, int]").
	Extends string `yaml:"extends,omitempty"`

	// Implements references superinterfaces in declaration order.
	Implements StringArray `yaml:"implements,omitempty"`

	// Members declares the class's members.
	Members MemberList `yaml:"members,omitempty"`
}

// ParamDecl is one declared type parameter with an optional upper
// bound.
type ParamDecl struct {
	Name  string
	Bound string
}

// ParamList is a collection of ParamDecl that can be unmarshaled from
// multiple YAML forms:
//   - Single string: "T"
//   - Array of strings: [K, V]
//   - Array mixing bounds in: [{E: Identified}, V]
type ParamList []ParamDecl

// UnmarshalYAML implements custom YAML unmarshaling for ParamList.
func (p *ParamList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}
		if str == "" {
			*p = ParamList{}
			return nil
		}
		*p = ParamList{{Name: str}}
		return nil

	case yaml.SequenceNode:
		var params ParamList
		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				var str string
				if err := item.Decode(&str); err != nil {
					return err
				}
				params = append(params, ParamDecl{Name: str})
			case yaml.MappingNode:
				decl, err := parseParamFromMap(item)
				if err != nil {
					return err
				}
				params = append(params, decl)
			default:
				return fmt.Errorf("expected string or map in params, got %v", item.Kind)
			}
		}
		*p = params
		return nil

	default:
		return fmt.Errorf("expected string or array for params, got %v", node.Kind)
	}
}

// parseParamFromMap parses a YAML mapping node like {E: Identified}
// into a ParamDecl carrying the bound.
func parseParamFromMap(node *yaml.Node) (ParamDecl, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return ParamDecl{}, errors.New("expected single key-value map like {E: Identified}")
	}

	var name, bound string
	if err := node.Content[0].Decode(&name); err != nil {
		return ParamDecl{}, fmt.Errorf("invalid parameter name: %w", err)
	}
	if err := node.Content[1].Decode(&bound); err != nil {
		return ParamDecl{}, fmt.Errorf("invalid bound for parameter %q: %w", name, err)
	}
	return ParamDecl{Name: name, Bound: bound}, nil
}

// MemberDecl is one declared member: a name and its type reference.
type MemberDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// MemberList is a collection of MemberDecl that can be unmarshaled
// from two YAML forms, both preserving declaration order:
//   - Mapping: {Left: K, Right: V}
//   - List of maps: [{name: Left, type: K}] or the terse [{Left: K}]
type MemberList []MemberDecl

// UnmarshalYAML implements custom YAML unmarshaling for MemberList.
func (m *MemberList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		return m.appendPairs(node)

	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("expected map in members list, got %v", item.Kind)
			}

			var decl MemberDecl
			if err := item.Decode(&decl); err == nil && decl.Name != "" {
				*m = append(*m, decl)
				continue
			}

			if err := m.appendPairs(item); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("expected map or list for members, got %v", node.Kind)
	}
}

// appendPairs appends one MemberDecl per key-value pair of a mapping
// node, in document order.
func (m *MemberList) appendPairs(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name, ref string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid member name: %w", err)
		}
		if err := node.Content[i+1].Decode(&ref); err != nil {
			return fmt.Errorf("invalid type for member %q: %w", name, err)
		}
		*m = append(*m, MemberDecl{Name: name, Type: ref})
	}
	return nil
}

// StringArray accepts a single string or a list of strings.
type StringArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringArray.
func (s *StringArray) UnmarshalYAML(unmarshal func(any) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = []string{single}
		return nil
	}

	var multi []string
	if err := unmarshal(&multi); err == nil {
		*s = multi
		return nil
	}

	return errors.New("expected string or array of strings")
}
