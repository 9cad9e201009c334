package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"

	"github.com/ByLCY/qrcanvas/fonts"
	"github.com/ByLCY/qrcanvas/layout"
	"github.com/ByLCY/qrcanvas/renderer"
	"github.com/ByLCY/qrcanvas/scene"
)

const format = "png"

// DefaultDPI is the resolution used when none is given.
const DefaultDPI = 144

// Canvas forwards drawing operations to a github.com/tdewolff/canvas context
// and rasterizes the result to PNG on Close. Measurements come from the same
// font metrics as the vector backends; glyphs are drawn with the Go fonts.
type Canvas struct {
	renderer.Metrics

	c      *canvas.Canvas
	ctx    *canvas.Context
	path   renderer.PathState
	family *canvas.FontFamily
	dpi    float64
	out    bytes.Buffer
	err    error
}

var _ renderer.Canvas = (*Canvas)(nil)

// NewCanvas creates a raster canvas of width × height mm.
func NewCanvas(width, height float64, fontFamily string, dpi float64) (*Canvas, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	metrics := renderer.NewMetrics(fontFamily)
	family, err := loadFamily(metrics.Font)
	if err != nil {
		return nil, renderer.Fail(format, err)
	}
	c := canvas.New(width, height)
	return &Canvas{
		Metrics: metrics,
		c:       c,
		ctx:     canvas.NewContext(c),
		family:  family,
		dpi:     dpi,
	}, nil
}

// 每个 Canvas 单独加载字体族，避免在并发渲染之间共享可变状态。
func loadFamily(m *layout.FontMetrics) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(m.FirstFamily())
	for _, style := range []canvas.FontStyle{canvas.FontRegular, canvas.FontBold} {
		data := fonts.ForFace(m.Face(), style == canvas.FontBold)
		if err := family.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", fonts.Name(m.Face(), style == canvas.FontBold), err)
		}
	}
	return family, nil
}

// SetTransformation replaces the view matrix. The context's coordinate
// system already has its origin at the bottom left with y pointing up.
func (c *Canvas) SetTransformation(translateX, translateY, rotate, scaleX, scaleY float64) error {
	if err := c.path.Usable("set transformation"); err != nil {
		return err
	}
	view := canvas.Identity.Translate(translateX, translateY)
	if rotate != 0 {
		view = view.Rotate(rotate * 180 / math.Pi)
	}
	if scaleX != 1 || scaleY != 1 {
		view = view.Scale(scaleX, scaleY)
	}
	c.ctx.SetView(view)
	return nil
}

func (c *Canvas) StartPath() error {
	return c.path.Start()
}

func (c *Canvas) MoveTo(x, y float64) error {
	if err := c.path.Check("move to"); err != nil {
		return err
	}
	c.ctx.MoveTo(x, y)
	return nil
}

func (c *Canvas) LineTo(x, y float64) error {
	if err := c.path.Check("line to"); err != nil {
		return err
	}
	c.ctx.LineTo(x, y)
	return nil
}

func (c *Canvas) CubicCurveTo(x1, y1, x2, y2, x, y float64) error {
	if err := c.path.Check("curve to"); err != nil {
		return err
	}
	c.ctx.CubeTo(x1, y1, x2, y2, x, y)
	return nil
}

func (c *Canvas) AddRectangle(x, y, width, height float64) error {
	if err := c.path.Check("add rectangle"); err != nil {
		return err
	}
	c.ctx.MoveTo(x, y)
	c.ctx.LineTo(x+width, y)
	c.ctx.LineTo(x+width, y+height)
	c.ctx.LineTo(x, y+height)
	c.ctx.Close()
	return nil
}

func (c *Canvas) CloseSubpath() error {
	if err := c.path.Check("close subpath"); err != nil {
		return err
	}
	c.ctx.Close()
	return nil
}

// FillPath fills the current path. The rasterizer always anti-aliases, so
// smoothing is ignored.
func (c *Canvas) FillPath(col int, smoothing bool) error {
	if err := c.path.Finish("fill path"); err != nil {
		return err
	}
	c.ctx.SetFillColor(rgb(col))
	c.ctx.Fill()
	return nil
}

// StrokePath strokes the current path; width is in pt.
func (c *Canvas) StrokePath(width float64, col int, style renderer.LineStyle, smoothing bool) error {
	if err := c.path.Finish("stroke path"); err != nil {
		return err
	}
	w := width * layout.PtToMm
	dashes, round := renderer.DashPattern(style, w)
	c.ctx.SetStrokeColor(rgb(col))
	c.ctx.SetStrokeWidth(w)
	if round {
		c.ctx.SetStrokeCapper(canvas.RoundCap)
	} else {
		c.ctx.SetStrokeCapper(canvas.ButtCap)
	}
	c.ctx.SetDashes(0, dashes...)
	c.ctx.Stroke()
	return nil
}

func (c *Canvas) PutText(text string, x, y, fontSize float64, bold bool) error {
	if err := c.path.Usable("put text"); err != nil {
		return err
	}
	style := canvas.FontRegular
	if bold {
		style = canvas.FontBold
	}
	face := c.family.Face(fontSize, canvas.Black, style, canvas.FontNormal)
	c.ctx.DrawText(x, y, canvas.NewTextLine(face, text, canvas.Left))
	return nil
}

// Close rasterizes the page to PNG. Calling it again returns the first
// result.
func (c *Canvas) Close() error {
	if !c.path.MarkClosed() {
		return c.err
	}
	if err := c.c.Write(&c.out, renderers.PNG(canvas.DPI(c.dpi))); err != nil {
		c.out.Reset()
		c.err = renderer.Fail(format, err)
	}
	return c.err
}

// ToBytes closes the canvas and returns the PNG image.
func (c *Canvas) ToBytes() ([]byte, error) {
	if err := c.Close(); err != nil {
		return nil, err
	}
	return c.out.Bytes(), nil
}

func rgb(col int) color.RGBA {
	return color.RGBA{R: uint8(col >> 16), G: uint8(col >> 8), B: uint8(col), A: 0xff}
}

// Renderer rasterizes one page of a scene.
type Renderer struct {
	Page int
	DPI  float64
}

var _ scene.Renderer = Renderer{}

func (r Renderer) Render(s *scene.Scene) ([]byte, error) {
	if r.Page < 0 || r.Page >= len(s.Pages) {
		return nil, renderer.Fail(format, fmt.Errorf("page %d out of range (%d pages)", r.Page, len(s.Pages)))
	}
	page := &s.Pages[r.Page]
	c, err := NewCanvas(page.Width, page.Height, s.Meta.FontFamily, r.DPI)
	if err != nil {
		return nil, err
	}
	if err := scene.Play(page, c); err != nil {
		c.Close()
		return nil, renderer.Fail(format, err)
	}
	return c.ToBytes()
}
