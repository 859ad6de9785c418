// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattice

import (
	"math"
	"sort"

	"github.com/tsawler/tabula/model"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// edge is an axis-aligned ruling. For a horizontal edge pos is its y and
// lo..hi its x extent; for a vertical edge pos is its x and lo..hi its y
// extent.
type edge struct {
	pos, lo, hi float64
}

// collectEdges splits lines and rectangle outlines into horizontal and
// vertical edges, discarding diagonals and anything shorter than
// cfg.MinEdgeLength.
func collectEdges(lines []model.Line, cfg types.LatticeConfig) (h, v []edge) {
	addH := func(y, x0, x1 float64) {
		if x1-x0 >= cfg.MinEdgeLength {
			h = append(h, edge{pos: y, lo: x0, hi: x1})
		}
	}
	addV := func(x, y0, y1 float64) {
		if y1-y0 >= cfg.MinEdgeLength {
			v = append(v, edge{pos: x, lo: y0, hi: y1})
		}
	}

	for _, l := range lines {
		x0, x1 := math.Min(l.Start.X, l.End.X), math.Max(l.Start.X, l.End.X)
		y0, y1 := math.Min(l.Start.Y, l.End.Y), math.Max(l.Start.Y, l.End.Y)

		if l.IsRect {
			addH(y0, x0, x1)
			addH(y1, x0, x1)
			addV(x0, y0, y1)
			addV(x1, y0, y1)
			continue
		}

		switch {
		case y1-y0 <= cfg.SnapTolerance:
			addH((y0+y1)/2, x0, x1)
		case x1-x0 <= cfg.SnapTolerance:
			addV((x0+x1)/2, y0, y1)
		}
	}
	return h, v
}

// snapEdges moves parallel edges whose positions lie within tol of their
// neighbour onto the mean position of their cluster.
func snapEdges(edges []edge, tol float64) []edge {
	if len(edges) == 0 {
		return edges
	}
	out := append([]edge(nil), edges...)
	sort.Slice(out, func(i, j int) bool { return out[i].pos < out[j].pos })

	start := 0
	flush := func(end int) {
		var sum float64
		for _, e := range out[start:end] {
			sum += e.pos
		}
		mean := sum / float64(end-start)
		for i := start; i < end; i++ {
			out[i].pos = mean
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i].pos-out[i-1].pos > tol {
			flush(i)
			start = i
		}
	}
	flush(len(out))
	return out
}

// joinEdges merges collinear edges that overlap or are separated by a gap
// of at most tol. Input positions must already be snapped.
func joinEdges(edges []edge, tol float64) []edge {
	if len(edges) == 0 {
		return edges
	}
	sorted := append([]edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].pos != sorted[j].pos {
			return sorted[i].pos < sorted[j].pos
		}
		return sorted[i].lo < sorted[j].lo
	})

	out := []edge{sorted[0]}
	for _, e := range sorted[1:] {
		cur := &out[len(out)-1]
		if math.Abs(e.pos-cur.pos) <= eps && e.lo <= cur.hi+tol {
			cur.hi = math.Max(cur.hi, e.hi)
			continue
		}
		out = append(out, e)
	}
	return out
}
