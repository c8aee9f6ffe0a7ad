package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notepad/pkg/core"
)

// Serializer defines how to read and write the collection in a specific file format.
type Serializer interface {
	// Parse reads from r and returns the collection in document order.
	Parse(r io.Reader) (core.Collection, error)
	// Serialize converts the collection to bytes, preserving order.
	Serialize(c core.Collection) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// record is the wire shape of a note. Pointers distinguish a missing
// field from an empty one.
type record struct {
	ID      *string `json:"id" yaml:"id"`
	Content *string `json:"content" yaml:"content"`
}

func fromRecords(records []record) (core.Collection, error) {
	c := make(core.Collection, 0, len(records))
	for i, rec := range records {
		if rec.ID == nil {
			return nil, fmt.Errorf("note %d: missing id", i)
		}
		if rec.Content == nil {
			return nil, fmt.Errorf("note %d: missing content", i)
		}
		c = append(c, core.Note{ID: *rec.ID, Content: *rec.Content})
	}
	return c, nil
}

// checkUTF8 fails on byte sequences the text encoders would rewrite.
func checkUTF8(c core.Collection) error {
	for i, n := range c {
		if !utf8.ValidString(n.ID) || !utf8.ValidString(n.Content) {
			return fmt.Errorf("note %d: not valid UTF-8", i)
		}
	}
	return nil
}

// --- JSON Serializer ---

// JSONSerializer stores the collection as a JSON array of {id, content} objects.
type JSONSerializer struct {
	// Indent is applied to the output. Empty means compact.
	Indent string
}

// NewJSONSerializer creates a JSON serializer with two-space indentation.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{Indent: "  "}
}

func (s *JSONSerializer) Parse(r io.Reader) (core.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Collection{}, nil
	}

	var records []record
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("invalid json: trailing data after notes array")
	}
	return fromRecords(records)
}

func (s *JSONSerializer) Serialize(c core.Collection) ([]byte, error) {
	if c == nil {
		c = core.Collection{}
	}
	if err := checkUTF8(c); err != nil {
		return nil, err
	}
	if s.Indent == "" {
		return json.Marshal(c)
	}
	return json.MarshalIndent(c, "", s.Indent)
}

// --- YAML Serializer ---

// YAMLSerializer stores the collection as a YAML sequence of {id, content} mappings.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (core.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Collection{}, nil
	}

	var records []record
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid yaml: more than one document")
	}
	return fromRecords(records)
}

// Serialize writes every id and content as a double-quoted scalar, the only
// YAML style that keeps leading blank lines, edge whitespace and CR intact.
func (s *YAMLSerializer) Serialize(c core.Collection) ([]byte, error) {
	if err := checkUTF8(c); err != nil {
		return nil, err
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, n := range c {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind: yaml.MappingNode,
			Tag:  "!!map",
			Content: []*yaml.Node{
				plainKey("id"), quoted(n.ID),
				plainKey("content"), quoted(n.Content),
			},
		})
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(seq); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plainKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func quoted(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle}
}
