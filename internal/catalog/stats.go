// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// SourceStats summarises the prices of one source. Price fields are zero
// when Priced is zero.
type SourceStats struct {
	Source   string  `json:"source" yaml:"source"`
	Products int     `json:"products" yaml:"products"`
	Priced   int     `json:"priced" yaml:"priced"`
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Median   float64 `json:"median" yaml:"median"`
}

// Stats returns price statistics per source, ordered by source name.
func (s *Store) Stats(ctx context.Context) ([]SourceStats, error) {
	sources, err := s.Sources(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SourceStats, 0, len(sources))
	for _, src := range sources {
		var prices []float64
		if err := s.db.SelectContext(ctx, &prices,
			`SELECT price FROM products WHERE source = ? AND price IS NOT NULL ORDER BY position`,
			src.Name); err != nil {
			return nil, fmt.Errorf("reading prices of %s: %w", src.Name, err)
		}

		st := SourceStats{Source: src.Name, Products: src.RecordCount, Priced: len(prices)}
		if len(prices) > 0 {
			data := stats.Float64Data(prices)
			if st.Min, err = data.Min(); err != nil {
				return nil, err
			}
			if st.Max, err = data.Max(); err != nil {
				return nil, err
			}
			if st.Mean, err = data.Mean(); err != nil {
				return nil, err
			}
			if st.Median, err = data.Median(); err != nil {
				return nil, err
			}
		}
		out = append(out, st)
	}
	return out, nil
}
