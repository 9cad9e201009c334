package scene

import (
	"fmt"
	"strings"

	"github.com/ByLCY/qrcanvas/renderer"
)

// Renderer turns a whole scene into the bytes of one output file.
type Renderer interface {
	Render(s *Scene) ([]byte, error)
}

// Play replays the operations of one page onto c. It does not close c.
func Play(page *Page, c renderer.Canvas) error {
	for i, op := range page.Ops {
		if err := playOp(op, c); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind(), err)
		}
	}
	return nil
}

func playOp(op Op, c renderer.Canvas) error {
	switch {
	case op.Transform != nil:
		t := op.Transform
		return c.SetTransformation(t.TranslateX, t.TranslateY, t.Rotate, t.ScaleX, t.ScaleY)
	case op.Fill != nil:
		if err := playPath(op.Fill.Path, c); err != nil {
			return err
		}
		return c.FillPath(op.Fill.Color, op.Fill.Smooth)
	case op.Stroke != nil:
		s := op.Stroke
		if err := playPath(s.Path, c); err != nil {
			return err
		}
		return c.StrokePath(s.Width, s.Color, s.Style, s.Smooth)
	case op.Text != nil:
		t := op.Text
		return c.PutText(t.Value, t.X, t.Y, t.Size, t.Bold)
	case op.Lines != nil:
		l := op.Lines
		return renderer.PutTextLines(c, expandLines(l, c), l.X, l.Y, l.Size, l.Leading)
	case op.Modules != nil:
		m := op.Modules
		return renderer.FillModules(c, m.Rows, m.X, m.Y, m.Size, m.Color)
	default:
		return fmt.Errorf("empty operation")
	}
}

func playPath(path []Segment, c renderer.Canvas) error {
	if err := c.StartPath(); err != nil {
		return err
	}
	for _, seg := range path {
		p := seg.Coords
		var err error
		switch seg.Kind {
		case SegmentMove:
			err = c.MoveTo(p[0], p[1])
		case SegmentLine:
			err = c.LineTo(p[0], p[1])
		case SegmentCurve:
			err = c.CubicCurveTo(p[0], p[1], p[2], p[3], p[4], p[5])
		case SegmentRect:
			err = c.AddRectangle(p[0], p[1], p[2], p[3])
		case SegmentClose:
			err = c.CloseSubpath()
		default:
			err = fmt.Errorf("unknown segment %q", seg.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// expandLines splits each entry at newlines, or to the block width through
// the canvas metrics when a width is set.
func expandLines(l *Lines, c renderer.Canvas) []string {
	var out []string
	for _, v := range l.Values {
		if l.Width > 0 {
			out = append(out, c.SplitLines(v, l.Width, l.Size)...)
			continue
		}
		out = append(out, strings.Split(v, "\n")...)
	}
	return out
}
