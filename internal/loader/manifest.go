package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// manifestYAML is the document root of a declaration manifest.
type manifestYAML struct {
	Decls []declYAML `yaml:"decls"`
}

// declYAML is one declaration entry, decoded by hand from the mapping node.
// Values stay as nodes so that every name and type keeps its position.
type declYAML struct {
	Var       *yaml.Node
	Fn        *yaml.Node
	Class     *yaml.Node
	Interface *yaml.Node
	Type      *yaml.Node
	Returns   *yaml.Node
	Formals   []formalYAML
	Body      *yaml.Node
	Extends   *yaml.Node
	// scalar or sequence
	Implements *yaml.Node
	Members    []declYAML

	node *yaml.Node
	keys []*yaml.Node
}

func (d *declYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		return d.UnmarshalYAML(value.Alias)
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: declaration must be a mapping, found %s", value.Line, value.ShortTag())
	}
	*d = declYAML{node: value, keys: make([]*yaml.Node, 0, len(value.Content)/2)}
	seen := make(map[string]struct{}, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], resolveAlias(value.Content[i+1])
		key := keyNode.Value
		if _, dup := seen[key]; dup {
			return fmt.Errorf("line %d: key %q already defined", keyNode.Line, key)
		}
		seen[key] = struct{}{}
		d.keys = append(d.keys, keyNode)

		var err error
		switch key {
		case "var":
			d.Var = valueNode
		case "fn":
			d.Fn = valueNode
		case "class":
			d.Class = valueNode
		case "interface":
			d.Interface = valueNode
		case "type":
			d.Type = valueNode
		case "returns":
			d.Returns = valueNode
		case "body":
			d.Body = valueNode
		case "extends":
			d.Extends = valueNode
		case "implements":
			d.Implements = valueNode
		case "formals":
			d.Formals, err = decodeSeq[formalYAML](valueNode, "formals")
		case "members":
			d.Members, err = decodeSeq[declYAML](valueNode, "members")
		}
		// прочие ключи остаются в keys, checkKeys предупредит о них
		if err != nil {
			return err
		}
	}
	return nil
}

type formalYAML struct {
	Name *yaml.Node
	Type *yaml.Node

	node *yaml.Node
}

func (f *formalYAML) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: formal must be a mapping with name and type", value.Line)
	}
	*f = formalYAML{node: value}
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valueNode := value.Content[i], resolveAlias(value.Content[i+1])
		switch keyNode.Value {
		case "name":
			f.Name = valueNode
		case "type":
			f.Type = valueNode
		default:
			return fmt.Errorf("line %d: formal accepts only name and type, found %q", keyNode.Line, keyNode.Value)
		}
	}
	return nil
}

// decodeSeq decodes a sequence of mappings; null or an absent value gives
// an empty slice.
func decodeSeq[T any, PT interface {
	*T
	UnmarshalYAML(*yaml.Node) error
}](node *yaml.Node, key string) ([]T, error) {
	if node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a list", node.Line, key)
	}
	out := make([]T, len(node.Content))
	for i, item := range node.Content {
		if err := PT(&out[i]).UnmarshalYAML(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// kindKey names the key that selects the declaration kind.
type kindKey string

const (
	keyVar       kindKey = "var"
	keyFn        kindKey = "fn"
	keyClass     kindKey = "class"
	keyInterface kindKey = "interface"
)

// allowedKeys lists the keys each declaration kind accepts.
var allowedKeys = map[kindKey]map[string]struct{}{
	keyVar:       set("var", "type"),
	keyFn:        set("fn", "returns", "formals", "body"),
	keyClass:     set("class", "extends", "implements", "members"),
	keyInterface: set("interface", "members"),
}

func set(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// kinds returns every kind key present in d along with its name node.
func (d *declYAML) kinds() ([]kindKey, []*yaml.Node) {
	var keys []kindKey
	var names []*yaml.Node
	for _, c := range []struct {
		key  kindKey
		node *yaml.Node
	}{
		{keyVar, d.Var},
		{keyFn, d.Fn},
		{keyClass, d.Class},
		{keyInterface, d.Interface},
	} {
		if c.node != nil {
			keys = append(keys, c.key)
			names = append(names, c.node)
		}
	}
	return keys, names
}

// hasBody reports whether the entry asks for an attached body.
func (d *declYAML) hasBody() bool {
	if d.Body == nil {
		return false
	}
	var body bool
	if err := d.Body.Decode(&body); err != nil {
		return false
	}
	return body
}
