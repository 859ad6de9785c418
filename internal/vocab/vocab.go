// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vocab classifies price-list column labels into semantic roles
// by whole-word keyword matching against a fixed vocabulary.
package vocab

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Role is a semantic column category.
type Role string

const (
	RoleIdentifier  Role = "identifier"
	RoleTitle       Role = "title"
	RoleDescription Role = "description"
	RolePrice       Role = "price"
)

// Roles lists every role in field-selection order.
var Roles = []Role{RoleIdentifier, RoleTitle, RoleDescription, RolePrice}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// defaultKeywords is the built-in vocabulary collected from supplier
// price lists.
var defaultKeywords = map[Role][]string{
	RoleIdentifier:  {"Cat. NO", "Order no", "Diamond Chain Part No", "Part No.", "Catalog No.", "Cat.Nos", "IDH No."},
	RoleTitle:       {"type", "electrical product names", "Carding Machine"},
	RoleDescription: {"description", "Type and frame size", "Product Description", "in mm", "in inches"},
	RolePrice:       {"M.R.P.", "LP in INR", "PRICE IN RS", "MRP Per Metre", "Rs.   P.", "Price", "MRP", "price"},
}

// Vocabulary maps each role to an ordered keyword list. It is immutable
// once built; the zero value matches nothing.
type Vocabulary struct {
	keywords   map[Role][]string
	normalized map[Role][]string
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	v, _ := New(defaultKeywords)
	return v
}

// New builds a Vocabulary from a role→keywords mapping. Roles missing from
// m have no keywords. Unknown roles are rejected.
func New(m map[Role][]string) (*Vocabulary, error) {
	v := &Vocabulary{
		keywords:   make(map[Role][]string, len(Roles)),
		normalized: make(map[Role][]string, len(Roles)),
	}
	for role, kws := range m {
		if !role.Valid() {
			return nil, fmt.Errorf("unknown column role %q", role)
		}
		v.keywords[role] = append([]string(nil), kws...)
		norm := make([]string, 0, len(kws))
		for _, kw := range kws {
			if n := normalize(kw); n != "" {
				norm = append(norm, n)
			}
		}
		v.normalized[role] = norm
	}
	return v, nil
}

// Keywords returns a copy of the keywords configured for role.
func (v *Vocabulary) Keywords(role Role) []string {
	return append([]string(nil), v.keywords[role]...)
}

// Classify reports whether label contains any keyword of role as a whole
// word. Matching is case-insensitive; an empty label never matches.
func (v *Vocabulary) Classify(label string, role Role) bool {
	return v.matchLength(normalize(label), role) > 0
}

// Assign returns the roles a column labelled label is assigned to, in
// Roles order. A label matching keywords of several roles goes to the
// role(s) whose matching keyword is longest, so "Type and frame size" is
// a description column even though it also contains "type".
func (v *Vocabulary) Assign(label string) []Role {
	norm := normalize(label)
	if norm == "" {
		return nil
	}

	best := 0
	lengths := make(map[Role]int, len(Roles))
	for _, role := range Roles {
		n := v.matchLength(norm, role)
		lengths[role] = n
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return nil
	}

	var roles []Role
	for _, role := range Roles {
		if lengths[role] == best {
			roles = append(roles, role)
		}
	}
	return roles
}

// matchLength returns the rune length of the longest keyword of role found
// in the normalized label, or 0 when none matches.
func (v *Vocabulary) matchLength(label string, role Role) int {
	if label == "" {
		return 0
	}
	best := 0
	for _, kw := range v.normalized[role] {
		if containsWord(label, kw) {
			if n := utf8.RuneCountInString(kw); n > best {
				best = n
			}
		}
	}
	return best
}

// normalize lower-cases s and collapses whitespace runs, so headers wrapped
// across lines inside a cell still match single-line keywords.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
