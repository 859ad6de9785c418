// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattice

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
)

type point struct {
	x, y float64
}

// grid holds the joined edges of a page and the points where they cross.
type grid struct {
	h, v   []edge
	tol    float64
	points rtree.RTreeG[point]
	set    map[point]bool
	list   []point
}

func newGrid(h, v []edge, tol float64) *grid {
	g := &grid{h: h, v: v, tol: tol, set: make(map[point]bool)}
	for _, ve := range v {
		for _, he := range h {
			if ve.pos < he.lo-tol || ve.pos > he.hi+tol {
				continue
			}
			if he.pos < ve.lo-tol || he.pos > ve.hi+tol {
				continue
			}
			p := point{ve.pos, he.pos}
			if g.set[p] {
				continue
			}
			g.set[p] = true
			g.list = append(g.list, p)
			g.points.Insert([2]float64{p.x, p.y}, [2]float64{p.x, p.y}, p)
		}
	}
	return g
}

// hConnected reports whether a single horizontal edge at y spans x0..x1.
func (g *grid) hConnected(y, x0, x1 float64) bool {
	for _, e := range g.h {
		if math.Abs(e.pos-y) <= eps && e.lo <= x0+g.tol && e.hi >= x1-g.tol {
			return true
		}
	}
	return false
}

// vConnected reports whether a single vertical edge at x spans y0..y1.
func (g *grid) vConnected(x, y0, y1 float64) bool {
	for _, e := range g.v {
		if math.Abs(e.pos-x) <= eps && e.lo <= y0+g.tol && e.hi >= y1-g.tol {
			return true
		}
	}
	return false
}

// below returns the points straight below p, nearest first.
func (g *grid) below(p point) []point {
	var out []point
	g.points.Search([2]float64{p.x - eps, math.Inf(-1)}, [2]float64{p.x + eps, p.y - eps},
		func(_, _ [2]float64, q point) bool {
			out = append(out, q)
			return true
		})
	sort.Slice(out, func(i, j int) bool { return out[i].y > out[j].y })
	return out
}

// rightOf returns the points straight to the right of p, nearest first.
func (g *grid) rightOf(p point) []point {
	var out []point
	g.points.Search([2]float64{p.x + eps, p.y - eps}, [2]float64{math.Inf(1), p.y + eps},
		func(_, _ [2]float64, q point) bool {
			out = append(out, q)
			return true
		})
	sort.Slice(out, func(i, j int) bool { return out[i].x < out[j].x })
	return out
}

// cells returns every minimal rectangle whose four sides are drawn. Each
// crossing point is treated as a potential top-left corner; the nearest
// bottom-left and top-right corners that close a fully ruled rectangle win.
func (g *grid) cells() []cell {
	pts := append([]point(nil), g.list...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].y != pts[j].y {
			return pts[i].y > pts[j].y
		}
		return pts[i].x < pts[j].x
	})

	var out []cell
	for _, tl := range pts {
		if c, ok := g.cellAt(tl); ok {
			out = append(out, c)
		}
	}
	return out
}

func (g *grid) cellAt(tl point) (cell, bool) {
	right := g.rightOf(tl)
	for _, bl := range g.below(tl) {
		if !g.vConnected(tl.x, bl.y, tl.y) {
			continue
		}
		for _, tr := range right {
			if !g.hConnected(tl.y, tl.x, tr.x) {
				continue
			}
			br := point{tr.x, bl.y}
			if !g.set[br] {
				continue
			}
			if g.vConnected(tr.x, br.y, tr.y) && g.hConnected(bl.y, bl.x, br.x) {
				return cell{x0: tl.x, y0: bl.y, x1: tr.x, y1: tl.y}, true
			}
		}
	}
	return cell{}, false
}
