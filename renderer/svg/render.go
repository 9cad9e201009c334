package svgrenderer

import (
	"fmt"

	"github.com/ByLCY/qrcanvas/renderer"
	"github.com/ByLCY/qrcanvas/scene"
)

// Renderer renders one page of a scene as an SVG document.
type Renderer struct {
	// Page is the zero-based page index.
	Page int
}

var _ scene.Renderer = Renderer{}

func (r Renderer) Render(s *scene.Scene) ([]byte, error) {
	if r.Page < 0 || r.Page >= len(s.Pages) {
		return nil, renderer.Fail("svg", fmt.Errorf("page %d out of range (%d pages)", r.Page, len(s.Pages)))
	}
	page := &s.Pages[r.Page]
	c := NewCanvas(page.Width, page.Height, s.Meta.FontFamily)
	if err := scene.Play(page, c); err != nil {
		c.Close()
		return nil, renderer.Fail("svg", err)
	}
	data, err := c.ToBytes()
	if err != nil {
		return nil, renderer.Fail("svg", err)
	}
	return data, nil
}
