// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattice

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/tabula/model"
)

// wordGapRatio is the horizontal gap, as a fraction of the font size,
// above which two fragments on one line are separated by a space.
const wordGapRatio = 0.15

// joinFragments rebuilds the text of one cell: fragments are grouped into
// lines by vertical position, lines are read top to bottom and joined with
// newlines, fragments within a line are read left to right.
func joinFragments(frags []model.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sorted := append([]model.TextFragment(nil), frags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().Y > sorted[j].BBox.Center().Y
	})

	var lines [][]model.TextFragment
	for _, f := range sorted {
		if n := len(lines); n > 0 && sameLine(lines[n-1][0], f) {
			lines[n-1] = append(lines[n-1], f)
			continue
		}
		lines = append(lines, []model.TextFragment{f})
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if s := strings.TrimSpace(joinLine(line)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

func sameLine(a, b model.TextFragment) bool {
	tol := 0.5 * math.Min(height(a), height(b))
	return math.Abs(a.BBox.Center().Y-b.BBox.Center().Y) <= tol
}

func height(f model.TextFragment) float64 {
	if f.BBox.Height > 0 {
		return f.BBox.Height
	}
	if f.FontSize > 0 {
		return f.FontSize
	}
	return 1
}

func joinLine(line []model.TextFragment) string {
	sort.SliceStable(line, func(i, j int) bool { return line[i].BBox.X < line[j].BBox.X })

	var b strings.Builder
	for i, f := range line {
		if i > 0 {
			prev := line[i-1]
			gap := f.BBox.Left() - prev.BBox.Right()
			size := math.Max(prev.FontSize, f.FontSize)
			if size <= 0 {
				size = height(prev)
			}
			if gap > wordGapRatio*size &&
				!strings.HasSuffix(prev.Text, " ") && !strings.HasPrefix(f.Text, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(f.Text)
	}
	return b.String()
}
