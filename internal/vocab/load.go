// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vocab

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// vocabularyFile is the on-disk layout of a vocabulary override, in
// field-selection order.
type vocabularyFile struct {
	Identifier  []string `yaml:"identifier"`
	Title       []string `yaml:"title"`
	Description []string `yaml:"description"`
	Price       []string `yaml:"price"`
}

// Load reads a YAML vocabulary file mapping role names to keyword lists.
// Roles present in the file replace the built-in keywords for that role;
// roles left out keep the defaults. An empty path returns Default().
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML vocabulary document. See Load.
func Parse(data []byte) (*Vocabulary, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}

	merged := make(map[Role][]string, len(Roles))
	for role, kws := range defaultKeywords {
		merged[role] = kws
	}
	for name, kws := range raw {
		role := Role(name)
		if !role.Valid() {
			return nil, fmt.Errorf("parsing vocabulary: unknown column role %q", name)
		}
		merged[role] = kws
	}
	return New(merged)
}

// MarshalYAML renders the vocabulary with roles in field-selection order.
func (v *Vocabulary) MarshalYAML() (any, error) {
	return vocabularyFile{
		Identifier:  v.Keywords(RoleIdentifier),
		Title:       v.Keywords(RoleTitle),
		Description: v.Keywords(RoleDescription),
		Price:       v.Keywords(RolePrice),
	}, nil
}
