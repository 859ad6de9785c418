// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pricelist-engine/internal/vocab"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestMapTable_BracketPriceList(t *testing.T) {
	m := New(nil, Options{})
	table := types.NewTable(1, [][]string{
		{"Cat. NO", "Type and frame size", "MRP", "Weight"},
		{"A100", "Heavy Duty Bracket", "₹1,500.00", "2kg"},
	})

	records := m.MapTable(table)
	require.Len(t, records, 1)

	price := 1500.0
	want := types.Record{
		ID:          strPtr("A100"),
		Title:       types.DefaultTitle,
		Description: "Heavy Duty Bracket",
		Price:       &price,
		Attributes:  map[string]*string{"Weight": strPtr("2kg")},
	}
	assert.Equal(t, want, records[0])
}

func TestMapRow(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Part No.", "Type", "Description", "Price", "Colour"}

	tests := []struct {
		name   string
		row    []string
		wantOK bool
		check  func(t *testing.T, r types.Record)
	}{
		{
			name:   "all cells empty",
			row:    []string{"", " ", "", "", "\n"},
			wantOK: false,
		},
		{
			name:   "only price and attributes present",
			row:    []string{"", "", "", "120", "Red"},
			wantOK: false,
		},
		{
			name:   "identifier only gets both defaults",
			row:    []string{"P-1", "", "", "", ""},
			wantOK: true,
			check: func(t *testing.T, r types.Record) {
				assert.Equal(t, "P-1", *r.ID)
				assert.Equal(t, types.DefaultTitle, r.Title)
				assert.Equal(t, types.DefaultDescription, r.Description)
				assert.Nil(t, r.Price)
				assert.Equal(t, map[string]*string{"Colour": nil}, r.Attributes)
			},
		},
		{
			name:   "title without identifier",
			row:    []string{"", "  Motor  ", "", "$99", "Blue"},
			wantOK: true,
			check: func(t *testing.T, r types.Record) {
				assert.Nil(t, r.ID)
				assert.Equal(t, "Motor", r.Title)
				require.NotNil(t, r.Price)
				assert.Equal(t, 99.0, *r.Price)
			},
		},
		{
			name:   "unparseable price is absent",
			row:    []string{"P-2", "Pump", "Inline pump", "N/A", ""},
			wantOK: true,
			check: func(t *testing.T, r types.Record) {
				assert.Nil(t, r.Price)
				assert.Equal(t, "Inline pump", r.Description)
			},
		},
		{
			name:   "short row pads missing cells",
			row:    []string{"P-3", "Fan"},
			wantOK: true,
			check: func(t *testing.T, r types.Record) {
				assert.Equal(t, "Fan", r.Title)
				assert.Nil(t, r.Price)
				assert.Contains(t, r.Attributes, "Colour")
				assert.Nil(t, r.Attributes["Colour"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := m.MapRow(header, tt.row)
			assert.Equal(t, tt.wantOK, ok)
			if tt.check != nil {
				tt.check(t, rec)
			}
		})
	}
}

func TestMapRow_FirstMatchingColumnWins(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Part No.", "Type", "MRP", "Price in RS", "Pack"}

	rec, ok := m.MapRow(header, []string{"X1", "Valve", "100", "90", "10"})
	require.True(t, ok)
	require.NotNil(t, rec.Price)
	assert.Equal(t, 100.0, *rec.Price)
	assert.Equal(t, map[string]*string{"Pack": strPtr("10")}, rec.Attributes)
}

func TestMapRow_FirstColumnWinsEvenWhenEmpty(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Part No.", "Type", "MRP", "Price", "Pack"}

	rec, ok := m.MapRow(header, []string{"X1", "Valve", "", "90", "10"})
	require.True(t, ok)
	assert.Nil(t, rec.Price)
}

func TestMapRow_KeepShadowedColumns(t *testing.T) {
	m := New(nil, Options{KeepShadowed: true})
	header := []string{"Part No.", "Type", "MRP", "Price", "Pack"}

	rec, ok := m.MapRow(header, []string{"X1", "Valve", "100", "90", "10"})
	require.True(t, ok)
	assert.Equal(t, map[string]*string{
		"Pack":        strPtr("10"),
		"price:Price": strPtr("90"),
	}, rec.Attributes)
}

func TestMapRow_ClassifiedColumnNeverInAttributes(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Cat.Nos", "Product Description", "M.R.P.", "Size"}

	rec, ok := m.MapRow(header, []string{"C-9", "Clamp", "45", "M8"})
	require.True(t, ok)
	assert.NotContains(t, rec.Attributes, "M.R.P.")
	assert.NotContains(t, rec.Attributes, "Cat.Nos")
	assert.NotContains(t, rec.Attributes, "Product Description")
	assert.Equal(t, 45.0, *rec.Price)
}

func TestMapRow_UnlabelledColumnsGetPositionalKeys(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Part No.", "", "Description", ""}

	rec, ok := m.MapRow(header, []string{"Z1", "a", "Gear", "b"})
	require.True(t, ok)
	assert.Equal(t, map[string]*string{
		"column_2": strPtr("a"),
		"column_4": strPtr("b"),
	}, rec.Attributes)
}

func TestMapRow_RepeatedLabelsGetNumberedKeys(t *testing.T) {
	m := New(nil, Options{})
	header := []string{"Part No.", "Size", "Description", "Size", "Size"}

	rec, ok := m.MapRow(header, []string{"S1", "M8", "Bolt", "20mm", ""})
	require.True(t, ok)
	assert.Equal(t, map[string]*string{
		"Size":   strPtr("M8"),
		"Size#2": strPtr("20mm"),
		"Size#3": nil,
	}, rec.Attributes)
}

func TestMapRow_RepeatedShadowedLabelsKeptApart(t *testing.T) {
	m := New(nil, Options{KeepShadowed: true})
	header := []string{"Part No.", "Type", "MRP", "MRP", "MRP"}

	rec, ok := m.MapRow(header, []string{"X1", "Valve", "100", "90", "80"})
	require.True(t, ok)
	assert.Equal(t, 100.0, *rec.Price)
	assert.Equal(t, map[string]*string{
		"price:MRP#2": strPtr("90"),
		"price:MRP#3": strPtr("80"),
	}, rec.Attributes)
}

func TestMapTable_NarrowTablesDiscarded(t *testing.T) {
	m := New(nil, Options{})
	table := types.NewTable(2, [][]string{
		{"Part No.", "Price"},
		{"A1", "10"},
		{"A2", "20"},
	})

	assert.False(t, m.Accepts(table))
	assert.Empty(t, m.MapTable(table))
}

func TestMapTable_SkipsBlankAndUnqualifiedRows(t *testing.T) {
	m := New(nil, Options{})
	table := types.NewTable(1, [][]string{
		{"Order no", "Description", "Price", "Unit"},
		{"", "", "", ""},
		{"O-1", "Hose", "12.5", "m"},
		{"", "", "99", "pcs"},
		{"O-2", "", "", ""},
	})

	records := m.MapTable(table)
	require.Len(t, records, 2)
	assert.Equal(t, "O-1", *records[0].ID)
	assert.Equal(t, "O-2", *records[1].ID)
	assert.Equal(t, types.DefaultDescription, records[1].Description)
}

func TestMapTable_CustomVocabulary(t *testing.T) {
	v, err := vocab.New(map[vocab.Role][]string{
		vocab.RoleIdentifier: {"SKU"},
		vocab.RolePrice:      {"Rate"},
	})
	require.NoError(t, err)

	m := New(v, Options{MinColumns: 2})
	records := m.MapTable(types.NewTable(1, [][]string{
		{"SKU", "Rate"},
		{"K-1", "$5"},
	}))
	require.Len(t, records, 1)
	assert.Equal(t, 5.0, *records[0].Price)
	assert.Empty(t, records[0].Attributes)
}
