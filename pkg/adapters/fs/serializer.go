package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// Reserved keys in a record file. Every other key is metadata.
const (
	fieldID      = "id"
	fieldTitle   = "title"
	fieldDate    = "date"
	fieldContent = "content"
)

// Serializer defines how to read and write a specific file format.
// Parse does not set Kind or ID; those come from the file's location.
type Serializer interface {
	Parse(data []byte) (core.Document, error)
	Serialize(doc core.Document) ([]byte, error)
}

// DefaultSerializers returns the supported formats keyed by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".md":   MarkdownSerializer{},
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

func toFields(doc core.Document, withContent bool) map[string]any {
	fields := make(map[string]any, len(doc.Metadata)+4)
	for k, v := range doc.Metadata {
		fields[k] = v
	}
	fields[fieldID] = doc.ID
	fields[fieldTitle] = doc.Title
	fields[fieldDate] = doc.Date.UTC().Format(time.RFC3339Nano)
	if withContent {
		fields[fieldContent] = doc.Content
	}
	return fields
}

func fromFields(fields map[string]any) (core.Document, error) {
	doc := core.Document{Metadata: make(core.Metadata)}
	rest := maps.Clone(fields)

	if v, ok := rest[fieldID]; ok {
		doc.ID = fmt.Sprint(v)
		delete(rest, fieldID)
	}
	if v, ok := rest[fieldTitle]; ok {
		doc.Title = fmt.Sprint(v)
		delete(rest, fieldTitle)
	}
	if v, ok := rest[fieldContent]; ok {
		doc.Content = fmt.Sprint(v)
		delete(rest, fieldContent)
	}
	if v, ok := rest[fieldDate]; ok {
		switch d := v.(type) {
		case time.Time:
			doc.Date = d
		case string:
			t, err := time.Parse(time.RFC3339Nano, d)
			if err != nil {
				return core.Document{}, fmt.Errorf("invalid date %q: %w", d, err)
			}
			doc.Date = t
		default:
			return core.Document{}, fmt.Errorf("invalid date %v", v)
		}
		delete(rest, fieldDate)
	}
	for k, v := range rest {
		if v == nil {
			continue
		}
		doc.Metadata[k] = fmt.Sprint(v)
	}
	return doc, nil
}

// --- JSON Serializer ---

// JSONSerializer stores a record as a flat JSON object.
type JSONSerializer struct{}

func (JSONSerializer) Parse(data []byte) (core.Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return core.Document{}, fmt.Errorf("invalid json: %w", err)
	}
	return fromFields(fields)
}

func (JSONSerializer) Serialize(doc core.Document) ([]byte, error) {
	return json.MarshalIndent(toFields(doc, true), "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer stores a record as a flat YAML mapping.
type YAMLSerializer struct{}

func (YAMLSerializer) Parse(data []byte) (core.Document, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return core.Document{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromFields(fields)
}

func (YAMLSerializer) Serialize(doc core.Document) ([]byte, error) {
	return yaml.Marshal(toFields(doc, true))
}

// --- Markdown Serializer ---

// MarkdownSerializer keeps everything but the content in YAML frontmatter.
// The content is the body after the closing delimiter.
type MarkdownSerializer struct{}

func (MarkdownSerializer) Parse(data []byte) (core.Document, error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return core.Document{Content: string(data), Metadata: make(core.Metadata)}, nil
	}

	rest := data[bytes.IndexByte(data, '\n')+1:]
	var front, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---")):
		body = rest[3:]
	default:
		end := bytes.Index(rest, []byte("\n---"))
		if end < 0 {
			return core.Document{}, errors.New("frontmatter started but no closing delimiter found")
		}
		front, body = rest[:end+1], rest[end+4:]
	}

	var fields map[string]any
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return core.Document{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	doc, err := fromFields(fields)
	if err != nil {
		return core.Document{}, err
	}

	body = bytes.TrimPrefix(body, []byte("\r\n"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	doc.Content = string(body)
	return doc, nil
}

func (MarkdownSerializer) Serialize(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toFields(doc, false)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}
