package attach

import (
	"gopkg.in/yaml.v3"
)

// Schema names the document keys with structural meaning. A tree uses one
// Schema for its whole lifetime.
type Schema struct {
	// AttachmentsKey is the reserved key holding the list of child
	// attachments. It always denotes the child list: a path whose first
	// unmatched segment is AttachmentsKey never addresses a property.
	AttachmentsKey string `yaml:"attachmentsKey"`

	// TypeKey holds the attachment type identifier.
	TypeKey string `yaml:"typeKey"`

	// ModelType is the type identifier of model attachments.
	ModelType string `yaml:"modelType"`

	// ModelNameKey holds the model name of model attachments.
	ModelNameKey string `yaml:"modelNameKey"`
}

// DefaultSchema is the schema of attachment documents.
var DefaultSchema = Schema{
	AttachmentsKey: "attachments",
	TypeKey:        "type",
	ModelType:      "MODEL",
	ModelNameKey:   "modelName",
}

// WithDefaults returns s with empty names replaced by their default.
func (s Schema) WithDefaults() Schema {
	if s.AttachmentsKey == "" {
		s.AttachmentsKey = DefaultSchema.AttachmentsKey
	}
	if s.TypeKey == "" {
		s.TypeKey = DefaultSchema.TypeKey
	}
	if s.ModelType == "" {
		s.ModelType = DefaultSchema.ModelType
	}
	if s.ModelNameKey == "" {
		s.ModelNameKey = DefaultSchema.ModelNameKey
	}
	return s
}

// TypeID returns the scalar under TypeKey, or "".
func (s Schema) TypeID(payload *yaml.Node) string {
	return scalar(Lookup(payload, s.TypeKey))
}

// ModelName returns the model name of payload, or "" when payload is not a
// model attachment or names no model.
func (s Schema) ModelName(payload *yaml.Node) string {
	if s.TypeID(payload) != s.ModelType {
		return ""
	}
	return scalar(Lookup(payload, s.ModelNameKey))
}

// Children returns the child attachment payloads of payload. The second
// result is false when the reserved key is present but does not hold a
// sequence.
func (s Schema) Children(payload *yaml.Node) ([]*yaml.Node, bool) {
	list := Lookup(payload, s.AttachmentsKey)
	if list == nil {
		return nil, true
	}
	if list.Kind != yaml.SequenceNode {
		return nil, false
	}
	return list.Content, true
}

// Unwrap returns the content of a document node, or n itself.
func Unwrap(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	if n != nil && n.Kind == yaml.AliasNode {
		return n.Alias
	}
	return n
}

// Lookup returns the value under key in the mapping n, or nil.
func Lookup(n *yaml.Node, key string) *yaml.Node {
	n = Unwrap(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return Unwrap(n.Content[i+1])
		}
	}
	return nil
}

func scalar(n *yaml.Node) string {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return n.Value
}
