// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/pricelist-engine/pkg/types"
)

// Query holds search parameters. All set filters must match.
type Query struct {
	// Text matches case-insensitively anywhere in the product ID, title
	// or description.
	Text string

	// Source restricts results to one source name.
	Source string

	// MinPrice and MaxPrice bound the price inclusively. Products without
	// a price never match a price bound.
	MinPrice *float64
	MaxPrice *float64

	// MaxResults limits result count. Zero uses the store default; a
	// negative value means no limit.
	MaxResults int
}

// Product is an indexed record with the source it came from.
type Product struct {
	Source   string `json:"source" yaml:"source"`
	Position int    `json:"position" yaml:"position"`

	types.Record `yaml:",inline"`
}

// likeEscaper escapes LIKE wildcards so user text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns products matching q, ordered by source then position
// within the source.
func (s *Store) Search(ctx context.Context, q Query) ([]Product, error) {
	limit := q.MaxResults
	if limit == 0 {
		limit = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT source, position, product_id, title, description, price, attributes
		FROM products WHERE 1=1`)

	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + likeEscaper.Replace(text) + "%"
		qb.WriteString(` AND (product_id LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if q.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, q.Source)
	}
	if q.MinPrice != nil {
		qb.WriteString(` AND price >= ?`)
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		qb.WriteString(` AND price <= ?`)
		args = append(args, *q.MaxPrice)
	}

	qb.WriteString(` ORDER BY source, position`)
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, qb.String(), args...); err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}

	products := make([]Product, 0, len(rows))
	for _, r := range rows {
		p := Product{
			Source:   r.Source,
			Position: r.Position,
			Record: types.Record{
				ID:          r.ProductID,
				Title:       r.Title,
				Description: r.Description,
				Price:       r.Price,
			},
		}
		if err := json.Unmarshal([]byte(r.Attributes), &p.Attributes); err != nil {
			return nil, fmt.Errorf("decoding attributes of %s #%d: %w", r.Source, r.Position, err)
		}
		products = append(products, p)
	}
	return products, nil
}
