package svgrenderer

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/qrcanvas/layout"
	"github.com/ByLCY/qrcanvas/renderer"
)

// pathLineLimit bounds the approximate length of one line inside a path's d
// attribute. Exceeding it inserts a newline before the next command.
const pathLineLimit = 255

// Canvas streams drawing operations into an SVG document.
//
// The SVG is sized in mm and uses a viewBox in pt. The outer group moves the
// origin to the bottom of the page; y coordinates are negated on output.
type Canvas struct {
	renderer.Metrics

	buf  bytes.Buffer
	path renderer.PathState

	inGroup        bool
	firstMove      bool
	lastX, lastY   float64 // current point in pt, y already negated
	startX, startY float64 // start of the current subpath
	pathLength     int
}

var _ renderer.Canvas = (*Canvas)(nil)

// NewCanvas starts an SVG document of width × height mm. fontFamily is a
// comma-separated family list; its first entry selects the font metrics.
func NewCanvas(width, height float64, fontFamily string) *Canvas {
	c := &Canvas{Metrics: renderer.NewMetrics(fontFamily)}
	c.buf.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	c.buf.WriteString("<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\" \"http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd\">\n")
	fmt.Fprintf(&c.buf, "<svg width=\"%smm\" height=\"%smm\" version=\"1.1\" viewBox=\"0 0 %s %s\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		formatNumber(width), formatNumber(height), formatCoordinate(width), formatCoordinate(height))
	fmt.Fprintf(&c.buf, "<g font-family=\"%s\" transform=\"translate(0 %s)\">\n",
		escapeXML(fontFamily), formatCoordinate(height))
	return c
}

// SetTransformation closes the previous transformation group and opens a new
// one unless the transformation is the identity.
func (c *Canvas) SetTransformation(translateX, translateY, rotate, scaleX, scaleY float64) error {
	if err := c.path.Usable("set transformation"); err != nil {
		return err
	}
	c.closeGroup()
	if translateX == 0 && translateY == 0 && rotate == 0 && scaleX == 1 && scaleY == 1 {
		return nil
	}
	c.buf.WriteString("<g transform=\"translate(")
	c.buf.WriteString(formatCoordinate(translateX))
	c.buf.WriteByte(' ')
	c.buf.WriteString(formatCoordinate(-translateY))
	c.buf.WriteByte(')')
	if rotate != 0 {
		c.buf.WriteString(" rotate(")
		c.buf.WriteString(formatNumber(-rotate / math.Pi * 180))
		c.buf.WriteByte(')')
	}
	if scaleX != 1 || scaleY != 1 {
		c.buf.WriteString(" scale(")
		c.buf.WriteString(formatNumber(scaleX))
		if scaleX != scaleY {
			c.buf.WriteByte(' ')
			c.buf.WriteString(formatNumber(scaleY))
		}
		c.buf.WriteByte(')')
	}
	c.buf.WriteString("\">\n")
	c.inGroup = true
	return nil
}

func (c *Canvas) closeGroup() {
	if c.inGroup {
		c.buf.WriteString("</g>\n")
		c.inGroup = false
	}
}

func (c *Canvas) StartPath() error {
	if err := c.path.Start(); err != nil {
		return err
	}
	c.buf.WriteString("<path d=\"")
	c.firstMove = true
	c.pathLength = 0
	return nil
}

func (c *Canvas) MoveTo(x, y float64) error {
	if err := c.path.Check("move to"); err != nil {
		return err
	}
	c.moveTo(x, y)
	return nil
}

func (c *Canvas) moveTo(x, y float64) {
	px, py := toPt(x), -toPt(y)
	if c.firstMove {
		c.buf.WriteByte('M')
		c.writePoint(px, py)
		c.firstMove = false
	} else {
		c.newlineIfLong()
		c.buf.WriteByte('m')
		c.writePoint(px-c.lastX, py-c.lastY)
	}
	c.lastX, c.lastY = px, py
	c.startX, c.startY = px, py
	c.pathLength += 16
}

func (c *Canvas) LineTo(x, y float64) error {
	if err := c.path.Check("line to"); err != nil {
		return err
	}
	px, py := toPt(x), -toPt(y)
	c.newlineIfLong()
	c.buf.WriteByte('l')
	c.writePoint(px-c.lastX, py-c.lastY)
	c.lastX, c.lastY = px, py
	c.pathLength += 16
	return nil
}

func (c *Canvas) CubicCurveTo(x1, y1, x2, y2, x, y float64) error {
	if err := c.path.Check("curve to"); err != nil {
		return err
	}
	c.newlineIfLong()
	c.buf.WriteByte('c')
	c.writePoint(toPt(x1)-c.lastX, -toPt(y1)-c.lastY)
	c.buf.WriteByte(' ')
	c.writePoint(toPt(x2)-c.lastX, -toPt(y2)-c.lastY)
	c.buf.WriteByte(' ')
	px, py := toPt(x), -toPt(y)
	c.writePoint(px-c.lastX, py-c.lastY)
	c.lastX, c.lastY = px, py
	c.pathLength += 48
	return nil
}

// AddRectangle starts at the top-left corner (in page orientation) and runs
// clockwise on screen: right, down, left, close.
func (c *Canvas) AddRectangle(x, y, width, height float64) error {
	if err := c.path.Check("add rectangle"); err != nil {
		return err
	}
	c.newlineIfLong()
	c.moveTo(x, y+height)
	c.buf.WriteByte('h')
	c.buf.WriteString(formatCoordinate(width))
	c.buf.WriteByte('v')
	c.buf.WriteString(formatCoordinate(height))
	c.buf.WriteByte('h')
	c.buf.WriteString(formatCoordinate(-width))
	c.buf.WriteByte('z')
	c.pathLength += 24
	return nil
}

func (c *Canvas) CloseSubpath() error {
	if err := c.path.Check("close subpath"); err != nil {
		return err
	}
	c.buf.WriteByte('z')
	c.lastX, c.lastY = c.startX, c.startY
	c.pathLength++
	return nil
}

func (c *Canvas) FillPath(color int, smoothing bool) error {
	if err := c.path.Finish("fill path"); err != nil {
		return err
	}
	c.buf.WriteString("\" fill=\"#")
	c.buf.WriteString(formatColor(color))
	c.buf.WriteByte('"')
	if !smoothing {
		c.buf.WriteString(" shape-rendering=\"crispEdges\"")
	}
	c.buf.WriteString("/>\n")
	return nil
}

func (c *Canvas) StrokePath(width float64, color int, style renderer.LineStyle, smoothing bool) error {
	if err := c.path.Finish("stroke path"); err != nil {
		return err
	}
	c.buf.WriteString("\" stroke=\"#")
	c.buf.WriteString(formatColor(color))
	if width != 1 {
		c.buf.WriteString("\" stroke-width=\"")
		c.buf.WriteString(formatNumber(width))
	}
	dashes, round := renderer.DashPattern(style, width)
	if round {
		c.buf.WriteString("\" stroke-linecap=\"round")
	}
	if len(dashes) > 0 {
		c.buf.WriteString("\" stroke-dasharray=\"")
		for i, d := range dashes {
			if i > 0 {
				c.buf.WriteByte(' ')
			}
			c.buf.WriteString(formatNumber(d))
		}
	}
	c.buf.WriteString("\" fill=\"none\"")
	if !smoothing {
		c.buf.WriteString(" shape-rendering=\"crispEdges\"")
	}
	c.buf.WriteString("/>\n")
	return nil
}

func (c *Canvas) PutText(text string, x, y, fontSize float64, bold bool) error {
	if err := c.path.Usable("put text"); err != nil {
		return err
	}
	c.buf.WriteString("<text x=\"")
	c.buf.WriteString(formatCoordinate(x))
	c.buf.WriteString("\" y=\"")
	c.buf.WriteString(formatCoordinate(-y))
	c.buf.WriteString("\" font-size=\"")
	c.buf.WriteString(formatNumber(fontSize))
	if bold {
		c.buf.WriteString("\" font-weight=\"bold")
	}
	c.buf.WriteString("\">")
	c.buf.WriteString(escapeXML(text))
	c.buf.WriteString("</text>\n")
	return nil
}

// Close ends any open group and the document. Further drawing fails with
// renderer.ErrClosed.
func (c *Canvas) Close() error {
	if !c.path.MarkClosed() {
		return nil
	}
	c.closeGroup()
	c.buf.WriteString("</g>\n</svg>\n")
	return nil
}

// ToBytes closes the canvas and returns the SVG document.
func (c *Canvas) ToBytes() ([]byte, error) {
	if err := c.Close(); err != nil {
		return nil, err
	}
	return c.buf.Bytes(), nil
}

// WriteTo closes the canvas and writes the SVG document to w.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	if err := c.Close(); err != nil {
		return 0, err
	}
	n, err := w.Write(c.buf.Bytes())
	return int64(n), err
}

func (c *Canvas) writePoint(x, y float64) {
	c.buf.WriteString(formatNumber(x))
	c.buf.WriteByte(',')
	c.buf.WriteString(formatNumber(y))
}

func (c *Canvas) newlineIfLong() {
	if c.pathLength > pathLineLimit {
		c.buf.WriteByte('\n')
		c.pathLength = 0
	}
}

func toPt(mm float64) float64 { return mm * layout.MmToPt }

func formatCoordinate(mm float64) string { return formatNumber(toPt(mm)) }

// formatNumber writes at most three fractional digits with a '.' separator.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func formatColor(color int) string {
	return fmt.Sprintf("%06x", color&0xffffff)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
	"\"", "&quot;",
)

// escapeXML escapes markup characters and replaces control characters,
// which XML 1.0 does not allow, with spaces.
func escapeXML(text string) string {
	text = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return ' '
		}
		return r
	}, text)
	return xmlEscaper.Replace(text)
}
