// Package docio reads and writes canvas and recorrido documents as JSON or
// YAML. YAML documents are bridged through JSON so both formats share the
// field names and number types of the JSON schema.
package docio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lienzo/pkg/domain"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml and yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFor infers the format from a file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Decode parses data in format f into out.
func Decode(data []byte, f Format, out any) error {
	if f == YAML {
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("failed to parse yaml: %w", err)
		}
		var buf bytes.Buffer
		if err := toJSON(&buf, &node); err != nil {
			return fmt.Errorf("failed to bridge yaml: %w", err)
		}
		data = buf.Bytes()
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse json: %w", err)
	}
	return nil
}

// Encode renders v in format f. YAML output keeps the JSON field order.
func Encode(v any, f Format) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if f != YAML {
		return append(data, '\n'), nil
	}

	// JSON is valid YAML, so parsing it into a node tree keeps key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to bridge json: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toJSON writes the node tree as JSON, keeping mapping key order.
func toJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		buf.WriteString("null")
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return toJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return toJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := toJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := toJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(data)
	}
	return nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// ReadCanvas decodes a canvas document.
func ReadCanvas(r io.Reader, f Format) (*domain.Canvas, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc domain.Canvas
	if err := Decode(data, f, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadRecorrido decodes a recorrido document.
func ReadRecorrido(r io.Reader, f Format) (*domain.Recorrido, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rec domain.Recorrido
	if err := Decode(data, f, &rec); err != nil {
		return nil, err
	}
	if rec.Steps == nil {
		rec.Steps = domain.NewStepMap()
	}
	return &rec, nil
}

// Write encodes v to w.
func Write(w io.Writer, v any, f Format) error {
	data, err := Encode(v, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// LoadCanvas reads a canvas file, or stdin when path is "-".
func LoadCanvas(path string) (*domain.Canvas, error) {
	r, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	doc, err := ReadCanvas(r, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadRecorrido reads a recorrido file, or stdin when path is "-".
func LoadRecorrido(path string) (*domain.Recorrido, error) {
	r, closeFn, err := open(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	rec, err := ReadRecorrido(r, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func open(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
