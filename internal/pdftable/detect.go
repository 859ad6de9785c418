// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"github.com/pdiddy/pricelist-engine/internal/lattice"
	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// latticeDetector rebuilds tables from the rulings drawn on the page.
type latticeDetector struct {
	cfg types.LatticeConfig
}

func (d latticeDetector) detect(pc pageContent) ([]grid, error) {
	found := lattice.Find(d.cfg, pc.lines, pc.text)
	out := make([]grid, 0, len(found))
	for _, t := range found {
		out = append(out, grid{
			top:   t.BBox.Top(),
			left:  t.BBox.Left(),
			cells: t.CellCount,
			rows:  t.Cells,
		})
	}
	return out, nil
}
