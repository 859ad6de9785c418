// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lattice rebuilds ruled tables from the lines drawn on a PDF page.
//
// Rulings are snapped and joined into edges, edge crossings become grid
// points, and every minimal rectangle whose four sides are drawn becomes a
// cell. Cells sharing a corner form one table. Text fragments are then
// dropped into the cell containing their centre. Only drawn lines are used
// as evidence, so body text aligned in columns never forms a table.
package lattice

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
	"github.com/tsawler/tabula/model"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// eps is the tolerance for comparing coordinates that were produced by
// snapping and are therefore expected to be identical.
const eps = 1e-6

// DefaultConfig returns tolerances that suit typical printed price lists.
func DefaultConfig() types.LatticeConfig {
	return types.LatticeConfig{
		SnapTolerance:         3,
		JoinTolerance:         3,
		IntersectionTolerance: 3,
		MinEdgeLength:         3,
	}
}

// Table is a ruled table: a rectangular grid of cell text, top row first.
// Positions covered by a merged cell other than its top-left are empty.
type Table struct {
	BBox  model.BBox
	Cells [][]string

	// CellCount is the number of ruled cells; a merged cell counts once.
	CellCount int
}

// Rows returns the number of grid rows.
func (t Table) Rows() int { return len(t.Cells) }

// Cols returns the number of grid columns.
func (t Table) Cols() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

// Find returns the ruled tables formed by lines, filled with the text of
// fragments, ordered top to bottom then left to right. Zero tolerances in
// cfg fall back to DefaultConfig.
func Find(cfg types.LatticeConfig, lines []model.Line, fragments []model.TextFragment) []Table {
	cfg = withDefaults(cfg)

	h, v := collectEdges(lines, cfg)
	h = joinEdges(snapEdges(h, cfg.SnapTolerance), cfg.JoinTolerance)
	v = joinEdges(snapEdges(v, cfg.SnapTolerance), cfg.JoinTolerance)
	if len(h) < 2 || len(v) < 2 {
		return nil
	}

	g := newGrid(h, v, cfg.IntersectionTolerance)
	cells := g.cells()
	if len(cells) == 0 {
		return nil
	}

	var tables []Table
	for _, group := range groupCells(cells) {
		if len(group) < 2 {
			continue
		}
		tables = append(tables, buildTable(group, fragments))
	}

	sort.SliceStable(tables, func(i, j int) bool {
		ti, tj := tables[i].BBox, tables[j].BBox
		if math.Abs(ti.Top()-tj.Top()) > cfg.SnapTolerance {
			return ti.Top() > tj.Top()
		}
		return ti.Left() < tj.Left()
	})
	return tables
}

func withDefaults(cfg types.LatticeConfig) types.LatticeConfig {
	def := DefaultConfig()
	if cfg.SnapTolerance <= 0 {
		cfg.SnapTolerance = def.SnapTolerance
	}
	if cfg.JoinTolerance <= 0 {
		cfg.JoinTolerance = def.JoinTolerance
	}
	if cfg.IntersectionTolerance <= 0 {
		cfg.IntersectionTolerance = def.IntersectionTolerance
	}
	if cfg.MinEdgeLength <= 0 {
		cfg.MinEdgeLength = def.MinEdgeLength
	}
	return cfg
}

// cell is a minimal ruled rectangle in PDF space (y grows upward).
type cell struct {
	x0, y0, x1, y1 float64
}

func (c cell) corners() [4]point {
	return [4]point{{c.x0, c.y0}, {c.x0, c.y1}, {c.x1, c.y0}, {c.x1, c.y1}}
}

// groupCells partitions cells into tables: cells sharing a corner belong
// to the same table.
func groupCells(cells []cell) [][]cell {
	parent := make([]int, len(cells))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	owner := make(map[point]int)
	for i, c := range cells {
		for _, p := range c.corners() {
			if j, ok := owner[p]; ok {
				parent[find(i)] = find(j)
			} else {
				owner[p] = i
			}
		}
	}

	index := make(map[int]int)
	var groups [][]cell
	for i, c := range cells {
		root := find(i)
		gi, ok := index[root]
		if !ok {
			gi = len(groups)
			index[root] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], c)
	}
	return groups
}

// buildTable lays a group of cells out on a grid and fills in their text.
func buildTable(group []cell, fragments []model.TextFragment) Table {
	var xs, ys []float64
	for _, c := range group {
		xs = append(xs, c.x0, c.x1)
		ys = append(ys, c.y0, c.y1)
	}
	xs = uniqueSorted(xs)
	ys = uniqueSorted(ys)
	// Rows run top to bottom.
	for i, j := 0, len(ys)-1; i < j; i, j = i+1, j-1 {
		ys[i], ys[j] = ys[j], ys[i]
	}

	rows, cols := len(ys)-1, len(xs)-1
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
	}

	texts := assignText(group, fragments)
	for i, c := range group {
		r := indexOf(ys, c.y1)
		col := indexOf(xs, c.x0)
		if r < 0 || r >= rows || col < 0 || col >= cols {
			continue
		}
		grid[r][col] = texts[i]
	}

	return Table{
		BBox: model.BBox{
			X:      xs[0],
			Y:      ys[len(ys)-1],
			Width:  xs[len(xs)-1] - xs[0],
			Height: ys[0] - ys[len(ys)-1],
		},
		Cells:     grid,
		CellCount: len(group),
	}
}

// assignText returns the text of each cell in group, built from the
// fragments whose centre falls inside it.
func assignText(group []cell, fragments []model.TextFragment) []string {
	var index rtree.RTreeG[int]
	for i, c := range group {
		index.Insert([2]float64{c.x0, c.y0}, [2]float64{c.x1, c.y1}, i)
	}

	contents := make([][]model.TextFragment, len(group))
	for _, f := range fragments {
		if f.Text == "" {
			continue
		}
		center := f.BBox.Center()
		hit := -1
		index.Search([2]float64{center.X, center.Y}, [2]float64{center.X, center.Y},
			func(_, _ [2]float64, i int) bool {
				if hit < 0 || i < hit {
					hit = i
				}
				return true
			})
		if hit >= 0 {
			contents[hit] = append(contents[hit], f)
		}
	}

	texts := make([]string, len(group))
	for i, frags := range contents {
		texts[i] = joinFragments(frags)
	}
	return texts
}

func uniqueSorted(values []float64) []float64 {
	sort.Float64s(values)
	out := values[:0]
	for _, v := range values {
		if len(out) == 0 || v-out[len(out)-1] > eps {
			out = append(out, v)
		}
	}
	return out
}

func indexOf(values []float64, v float64) int {
	for i, x := range values {
		if math.Abs(x-v) <= eps {
			return i
		}
	}
	return -1
}
