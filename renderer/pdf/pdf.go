package pdfrenderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ByLCY/qrcanvas/layout"
	"github.com/ByLCY/qrcanvas/pdf"
	"github.com/ByLCY/qrcanvas/renderer"
)

const format = "pdf"

// Canvas draws onto the pages of a pdf.Document.
//
// Each page's content is wrapped in a saved graphics state; SetTransformation
// restores that base state before concatenating the new matrix, so
// transformations never accumulate.
type Canvas struct {
	renderer.Metrics

	doc      *pdf.Document
	page     *pdf.Page
	cs       *pdf.ContentStream
	path     renderer.PathState
	segments []segment
	attached bool
	out      bytes.Buffer
	err      error

	fill, stroke int // last colors set, -1 if unknown
	lineWidth    float64
	style        renderer.LineStyle
	styleSet     bool
}

var _ renderer.Canvas = (*Canvas)(nil)

// NewCanvas creates a document with one page of width × height mm.
func NewCanvas(width, height float64, fontFamily string) (*Canvas, error) {
	c := &Canvas{
		Metrics: renderer.NewMetrics(fontFamily),
		doc:     pdf.NewDocument(),
	}
	if err := c.addPage(width, height); err != nil {
		return nil, renderer.Fail(format, err)
	}
	return c, nil
}

// Attach draws onto an existing page of a document owned by the caller.
// Close restores the graphics state but never saves the document.
func Attach(doc *pdf.Document, page *pdf.Page, fontFamily string) *Canvas {
	c := &Canvas{
		Metrics:  renderer.NewMetrics(fontFamily),
		doc:      doc,
		attached: true,
	}
	c.startPage(page)
	return c
}

// Document returns the underlying document, for example to set its Info.
func (c *Canvas) Document() *pdf.Document { return c.doc }

// NewPage finishes the current page and continues on a new one of
// width × height mm.
func (c *Canvas) NewPage(width, height float64) error {
	if err := c.path.Usable("new page"); err != nil {
		return err
	}
	c.cs.RestoreGraphicsState()
	return c.fail(c.addPage(width, height))
}

func (c *Canvas) addPage(width, height float64) error {
	page, err := c.doc.AddPage(width*layout.MmToPt, height*layout.MmToPt)
	if err != nil {
		return err
	}
	c.startPage(page)
	return nil
}

func (c *Canvas) startPage(page *pdf.Page) {
	c.page = page
	c.cs = page.Contents
	c.cs.SaveGraphicsState()
	c.resetState()
}

func (c *Canvas) resetState() {
	c.fill, c.stroke = -1, -1
	c.lineWidth = -1
	c.styleSet = false
}

func (c *Canvas) SetTransformation(translateX, translateY, rotate, scaleX, scaleY float64) error {
	if err := c.path.Usable("set transformation"); err != nil {
		return err
	}
	c.cs.RestoreGraphicsState()
	c.cs.SaveGraphicsState()
	c.resetState()

	m := pdf.Identity()
	m.Translate(translateX*layout.MmToPt, translateY*layout.MmToPt)
	m.Rotate(rotate)
	m.Scale(scaleX, scaleY)
	if !m.IsIdentity() {
		c.cs.Transform(m)
	}
	return c.check()
}

func (c *Canvas) StartPath() error {
	if err := c.path.Start(); err != nil {
		return err
	}
	c.segments = c.segments[:0]
	return nil
}

// segment is a path construction operator in pt. The path is kept until it
// is painted so that color and line state can be set before it.
type segment struct {
	op     byte
	coords [6]float64
}

func (c *Canvas) addSegment(name string, op byte, coords ...float64) error {
	if err := c.path.Check(name); err != nil {
		return err
	}
	seg := segment{op: op}
	for i, v := range coords {
		seg.coords[i] = pt(v)
	}
	c.segments = append(c.segments, seg)
	return nil
}

func (c *Canvas) MoveTo(x, y float64) error { return c.addSegment("move to", 'm', x, y) }

func (c *Canvas) LineTo(x, y float64) error { return c.addSegment("line to", 'l', x, y) }

func (c *Canvas) CubicCurveTo(x1, y1, x2, y2, x, y float64) error {
	return c.addSegment("curve to", 'c', x1, y1, x2, y2, x, y)
}

func (c *Canvas) AddRectangle(x, y, width, height float64) error {
	return c.addSegment("add rectangle", 'r', x, y, width, height)
}

func (c *Canvas) CloseSubpath() error { return c.addSegment("close subpath", 'h') }

func (c *Canvas) emitPath() {
	for _, seg := range c.segments {
		p := seg.coords
		switch seg.op {
		case 'm':
			c.cs.MoveTo(p[0], p[1])
		case 'l':
			c.cs.LineTo(p[0], p[1])
		case 'c':
			c.cs.CurveTo(p[0], p[1], p[2], p[3], p[4], p[5])
		case 'r':
			c.cs.AddRect(p[0], p[1], p[2], p[3])
		case 'h':
			c.cs.ClosePath()
		}
	}
	c.segments = c.segments[:0]
}

// FillPath fills with the nonzero winding rule. smoothing has no effect.
func (c *Canvas) FillPath(color int, smoothing bool) error {
	if err := c.path.Finish("fill path"); err != nil {
		return err
	}
	c.setFillColor(color)
	c.emitPath()
	c.cs.Fill()
	return c.check()
}

func (c *Canvas) StrokePath(width float64, color int, style renderer.LineStyle, smoothing bool) error {
	if err := c.path.Finish("stroke path"); err != nil {
		return err
	}
	if color != c.stroke {
		r, g, b := components(color)
		c.cs.SetStrokingColor(r, g, b)
		c.stroke = color
	}
	if width != c.lineWidth || !c.styleSet || style != c.style {
		if width != c.lineWidth {
			c.cs.SetLineWidth(width)
		}
		dashes, round := renderer.DashPattern(style, width)
		capStyle := 0
		if round {
			capStyle = 1
		}
		c.cs.SetLineCapStyle(capStyle)
		c.cs.SetLineDashPattern(dashes, 0)
		c.lineWidth = width
		c.style = style
		c.styleSet = true
	}
	c.emitPath()
	c.cs.Stroke()
	return c.check()
}

// PutText draws black text in the standard font matching the metrics.
func (c *Canvas) PutText(text string, x, y, fontSize float64, bold bool) error {
	if err := c.path.Usable("put text"); err != nil {
		return err
	}
	ref, err := c.doc.CreateFont(c.fontFor(bold))
	if err != nil {
		return c.fail(err)
	}
	name := c.page.Resources.AddFont(ref)

	c.setFillColor(0x000000)
	c.cs.BeginText()
	c.cs.SetFont(name, fontSize)
	c.cs.NewLineAtOffset(pt(x), pt(y))
	c.cs.ShowText(text)
	c.cs.EndText()
	return c.check()
}

func (c *Canvas) fontFor(bold bool) pdf.Font {
	if c.Font.Face() == layout.FaceCourier {
		if bold {
			return pdf.CourierBold
		}
		return pdf.Courier
	}
	if bold {
		return pdf.HelveticaBold
	}
	return pdf.Helvetica
}

func (c *Canvas) setFillColor(color int) {
	if color == c.fill {
		return
	}
	r, g, b := components(color)
	c.cs.SetNonStrokingColor(r, g, b)
	c.fill = color
}

// Close ends the current page. A canvas created by NewCanvas serializes the
// document; an attached canvas leaves saving to the document's owner.
func (c *Canvas) Close() error {
	if !c.path.MarkClosed() {
		return c.err
	}
	c.cs.RestoreGraphicsState()
	if err := c.cs.Err(); err != nil {
		return c.fail(err)
	}
	if c.attached {
		return nil
	}
	return c.fail(c.doc.Save(&c.out))
}

// ToBytes closes the canvas and returns the PDF file.
func (c *Canvas) ToBytes() ([]byte, error) {
	if c.attached {
		return nil, fmt.Errorf("pdf: attached canvas does not own the document")
	}
	if err := c.Close(); err != nil {
		return nil, err
	}
	return c.out.Bytes(), nil
}

// WriteTo closes the canvas and writes the PDF file to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	data, err := c.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (c *Canvas) check() error {
	return c.fail(c.cs.Err())
}

func (c *Canvas) fail(err error) error {
	if err == nil {
		return nil
	}
	if c.err == nil {
		c.err = renderer.Fail(format, err)
	}
	return c.err
}

func pt(mm float64) float64 { return mm * layout.MmToPt }

func components(color int) (r, g, b float64) {
	return float64(color>>16&0xff) / 255, float64(color>>8&0xff) / 255, float64(color&0xff) / 255
}
