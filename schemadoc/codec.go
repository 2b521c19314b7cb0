package schemadoc

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// MarshalMsgpack encodes a document in its canonical binary form.
func MarshalMsgpack(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("schemadoc: encode msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes a document produced by MarshalMsgpack.
func UnmarshalMsgpack(data []byte) (*Document, error) {
	var d Document
	if err := msgpack.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("schemadoc: decode msgpack: %w", err)
	}
	return &d, nil
}

// MarshalYAML encodes a document as YAML for review and version control.
func MarshalYAML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("schemadoc: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("schemadoc: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML document.
func UnmarshalYAML(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("schemadoc: decode yaml: %w", err)
	}
	return &d, nil
}
