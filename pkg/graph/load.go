package graph

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LinkSpec is one link entry of a graph file.
// Confidence defaults to 1 when omitted.
type LinkSpec struct {
	Source      string   `yaml:"source"`
	Target      string   `yaml:"target"`
	Type        string   `yaml:"type"`
	InverseType string   `yaml:"inverse_type"`
	Strength    float64  `yaml:"strength"`
	Confidence  *float64 `yaml:"confidence"`
}

// File is the on-disk layout of a graph file.
//
//	links:
//	  - {source: A, target: B, type: SimilarityLink, strength: 0.8, confidence: 0.9}
type File struct {
	Links []LinkSpec `yaml:"links"`
}

// Decode reads a graph file from r into a new MemGraph.
func Decode(r io.Reader) (*MemGraph, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("YAML syntax error in graph file: %w", err)
	}

	g := NewMemGraph()
	for i, l := range f.Links {
		if l.Source == "" || l.Target == "" {
			return nil, fmt.Errorf("link %d: source and target are required", i)
		}
		confidence := 1.0
		if l.Confidence != nil {
			confidence = *l.Confidence
		}
		if err := g.Link(l.Source, l.Target, l.Type, l.InverseType, l.Strength, confidence); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	return g, nil
}

// LoadFile reads the graph file at path.
func LoadFile(path string) (*MemGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
