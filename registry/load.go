package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// toolDocument is the YAML shape for a tool registry source.
type toolDocument struct {
	Tools []*ToolSignature `yaml:"tools"`
}

// actorDocument is the YAML shape for an actor registry source.
type actorDocument struct {
	Actors []*ActorProfile `yaml:"actors"`
}

// LoadTools parses a YAML tool registry source and returns a validated,
// immutable ToolRegistry. Unknown YAML fields are rejected so that typos
// in a source document fail loudly instead of silently dropping data.
func LoadTools(r io.Reader) (*ToolRegistry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc toolDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("registry: parse tool source: %w", err)
	}

	return NewToolRegistry(doc.Tools...)
}

// LoadActors parses a YAML actor registry source, validates every profile
// against the given tool registry, and returns an immutable ActorRegistry.
func LoadActors(r io.Reader, tools *ToolRegistry) (*ActorRegistry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc actorDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("registry: parse actor source: %w", err)
	}

	return NewActorRegistry(tools, doc.Actors...)
}

// LoadToolsFile loads a tool registry from a YAML file on disk.
func LoadToolsFile(path string) (*ToolRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open tool source: %w", err)
	}
	defer f.Close()
	return LoadTools(f)
}

// LoadActorsFile loads an actor registry from a YAML file on disk.
func LoadActorsFile(path string, tools *ToolRegistry) (*ActorRegistry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: open actor source: %w", err)
	}
	defer f.Close()
	return LoadActors(f, tools)
}
