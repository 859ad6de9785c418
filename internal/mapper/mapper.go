// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper turns rows of a classified price-list table into
// structured product records.
package mapper

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pricelist-engine/internal/vocab"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// DefaultMinColumns is the narrowest table considered a product table.
const DefaultMinColumns = 3

// Options tunes how tables are mapped.
type Options struct {
	// MinColumns discards narrower tables. Zero uses DefaultMinColumns.
	MinColumns int

	// KeepShadowed keeps columns that matched a role already taken by an
	// earlier column, as "<role>:<label>" attributes.
	KeepShadowed bool
}

// Mapper maps table rows to records using a column vocabulary.
type Mapper struct {
	vocab *vocab.Vocabulary
	opts  Options
}

// New creates a Mapper. A nil vocabulary uses vocab.Default().
func New(v *vocab.Vocabulary, opts Options) *Mapper {
	if v == nil {
		v = vocab.Default()
	}
	if opts.MinColumns <= 0 {
		opts.MinColumns = DefaultMinColumns
	}
	return &Mapper{vocab: v, opts: opts}
}

// Accepts reports whether t is wide enough to be treated as a product table.
func (m *Mapper) Accepts(t types.Table) bool {
	return t.ColumnCount() >= m.opts.MinColumns
}

// MapTable maps every body row of t, returning records in row order.
// Tables rejected by Accepts yield no records.
func (m *Mapper) MapTable(t types.Table) []types.Record {
	if !m.Accepts(t) {
		return nil
	}
	cols := m.columns(t.Header, t.ColumnCount())

	var records []types.Record
	for _, row := range t.Rows {
		if rec, ok := m.mapRow(cols, row); ok {
			records = append(records, rec)
		}
	}
	return records
}

// MapRow maps a single row against header. It returns false when the row
// is blank or has no identifier, title or description.
func (m *Mapper) MapRow(header, row []string) (types.Record, bool) {
	width := len(header)
	if len(row) > width {
		width = len(row)
	}
	return m.mapRow(m.columns(header, width), row)
}

// column is a header label with the roles it was assigned.
type column struct {
	label string
	key   string
	roles []vocab.Role
}

func (m *Mapper) columns(header []string, width int) []column {
	cols := make([]column, width)
	seen := make(map[string]int, width)
	for i := range cols {
		var label string
		if i < len(header) {
			label = header[i]
		}
		key := attributeKey(label, i)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s#%d", key, n)
		}
		cols[i] = column{
			label: label,
			key:   key,
			roles: m.vocab.Assign(label),
		}
	}
	return cols
}

// attributeKey is the attribute name for a column. Columns without a
// header label are named by position. A label repeated in the header is
// suffixed with its occurrence number from the second time on ("Size",
// "Size#2").
func attributeKey(label string, index int) string {
	if strings.TrimSpace(label) == "" {
		return fmt.Sprintf("column_%d", index+1)
	}
	return label
}

func (m *Mapper) mapRow(cols []column, row []string) (types.Record, bool) {
	if types.IsBlankRow(row) {
		return types.Record{}, false
	}

	// First column assigned to a role wins that role.
	winner := make(map[vocab.Role]int, len(vocab.Roles))
	for i, c := range cols {
		for _, role := range c.roles {
			if _, taken := winner[role]; !taken {
				winner[role] = i
			}
		}
	}

	field := func(role vocab.Role) *string {
		i, ok := winner[role]
		if !ok {
			return nil
		}
		return cellValue(row, i)
	}

	id := field(vocab.RoleIdentifier)
	title := field(vocab.RoleTitle)
	desc := field(vocab.RoleDescription)
	if id == nil && title == nil && desc == nil {
		return types.Record{}, false
	}

	rec := types.Record{
		ID:          id,
		Title:       types.DefaultTitle,
		Description: types.DefaultDescription,
		Attributes:  make(map[string]*string),
	}
	if title != nil {
		rec.Title = *title
	}
	if desc != nil {
		rec.Description = *desc
	}
	if raw := field(vocab.RolePrice); raw != nil {
		if p, ok := NormalizePrice(*raw); ok {
			rec.Price = &p
		}
	}

	for i, c := range cols {
		if len(c.roles) == 0 {
			rec.Attributes[c.key] = cellValue(row, i)
			continue
		}
		if !m.opts.KeepShadowed {
			continue
		}
		for _, role := range c.roles {
			if winner[role] != i {
				rec.Attributes[string(role)+":"+c.key] = cellValue(row, i)
			}
		}
	}

	return rec, true
}

// cellValue returns the trimmed cell at index i, or nil when the cell is
// missing or blank.
func cellValue(row []string, i int) *string {
	if i >= len(row) {
		return nil
	}
	v := strings.TrimSpace(row[i])
	if v == "" {
		return nil
	}
	return &v
}
