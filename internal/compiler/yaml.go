package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wadcompat/internal/ir"
)

// yamlDocument is the top level of a YAML compatibility file:
//
//	compatibility:
//	  - name: doom2_map07
//	    hashes: ["..."]
//	    on: [comp_zombie]
//	    off: []
type yamlDocument struct {
	Compatibility []ir.Section `yaml:"compatibility"`
}

// DecodeYAMLSections parses compatibility sections from YAML.
// Unknown fields are rejected so typos like "of:" surface as errors.
// An empty document yields no sections.
func DecodeYAMLSections(data []byte) ([]ir.Section, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return doc.Compatibility, nil
}
