// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftable

import (
	"fmt"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"
)

// pageContent is the positioned text and drawn geometry of one page.
type pageContent struct {
	text  []model.TextFragment
	lines []model.Line
}

func readPage(r *reader.Reader, page *pages.Page) (pageContent, error) {
	var pc pageContent
	frags, err := r.ExtractTextFragments(page)
	if err != nil {
		return pc, fmt.Errorf("extracting text: %w", err)
	}
	pc.text = toModelFragments(frags)

	data, err := contentBytes(page)
	if err != nil {
		return pc, err
	}
	if len(data) == 0 {
		return pc, nil
	}

	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(data); err != nil {
		return pc, fmt.Errorf("extracting graphics: %w", err)
	}
	pc.lines = append(ge.ToModelLines(), ge.ToModelRectangles()...)
	return pc, nil
}

// contentBytes returns the page's content streams decoded and concatenated.
func contentBytes(page *pages.Page) ([]byte, error) {
	contents, err := page.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading contents: %w", err)
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding content stream: %w", err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	return data, nil
}

func toModelFragments(frags []text.TextFragment) []model.TextFragment {
	out := make([]model.TextFragment, 0, len(frags))
	for _, f := range frags {
		out = append(out, model.TextFragment{
			Text:     f.Text,
			BBox:     model.BBox{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
	}
	return out
}
