package pdfrenderer

import (
	"fmt"

	"github.com/ByLCY/qrcanvas/renderer"
	"github.com/ByLCY/qrcanvas/scene"
)

// Renderer renders every page of a scene into one PDF file.
type Renderer struct {
	// ID fixes the trailer file identifier; nil generates a random one.
	ID []byte
}

var _ scene.Renderer = Renderer{}

func (r Renderer) Render(s *scene.Scene) ([]byte, error) {
	if len(s.Pages) == 0 {
		return nil, renderer.Fail(format, fmt.Errorf("scene has no pages"))
	}
	first := &s.Pages[0]
	c, err := NewCanvas(first.Width, first.Height, s.Meta.FontFamily)
	if err != nil {
		return nil, err
	}
	doc := c.Document()
	if r.ID != nil {
		doc.SetID(r.ID)
	}
	doc.Info.Title = s.Meta.Title
	doc.Info.Author = s.Meta.Author
	doc.Info.Subject = s.Meta.Subject
	doc.Info.Keywords = s.Meta.Keywords
	doc.Info.Creator = s.Meta.Creator

	for i := range s.Pages {
		page := &s.Pages[i]
		if i > 0 {
			if err := c.NewPage(page.Width, page.Height); err != nil {
				return nil, err
			}
		}
		if err := scene.Play(page, c); err != nil {
			return nil, renderer.Fail(format, fmt.Errorf("page %d: %w", i+1, err))
		}
	}
	return c.ToBytes()
}
