package pdf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ContentStream collects page drawing operators. The operators are
// compressed as they are written and the stream is serialized with
// /Filter /FlateDecode.
//
// Coordinates passed to the operators are in PDF user space units (pt).
// The first write error is kept and reported by Err and on serialization.
type ContentStream struct {
	data     bytes.Buffer
	zw       *zlib.Writer
	finished bool
	err      error
	line     []byte
}

// ErrStreamFinished is returned when operators are added to a content stream
// that has already been serialized.
var ErrStreamFinished = errors.New("pdf: content stream already finished")

// NewContentStream returns an empty content stream.
func NewContentStream() *ContentStream {
	cs := &ContentStream{}
	cs.zw = zlib.NewWriter(&cs.data)
	return cs
}

// Err returns the first error encountered while writing operators.
func (cs *ContentStream) Err() error { return cs.err }

func (cs *ContentStream) op(operator string, operands ...float64) {
	if cs.err != nil {
		return
	}
	if cs.finished {
		cs.err = ErrStreamFinished
		return
	}
	cs.line = cs.line[:0]
	for _, v := range operands {
		cs.line = append(cs.line, FormatNumber(v)...)
		cs.line = append(cs.line, ' ')
	}
	cs.line = append(cs.line, operator...)
	cs.line = append(cs.line, '\n')
	_, cs.err = cs.zw.Write(cs.line)
}

func (cs *ContentStream) raw(s string) {
	if cs.err != nil {
		return
	}
	if cs.finished {
		cs.err = ErrStreamFinished
		return
	}
	_, cs.err = io.WriteString(cs.zw, s)
}

func (cs *ContentStream) MoveTo(x, y float64)        { cs.op("m", x, y) }
func (cs *ContentStream) LineTo(x, y float64)        { cs.op("l", x, y) }
func (cs *ContentStream) AddRect(x, y, w, h float64) { cs.op("re", x, y, w, h) }
func (cs *ContentStream) ClosePath()                 { cs.op("h") }
func (cs *ContentStream) Stroke()                    { cs.op("S") }
func (cs *ContentStream) Fill()                      { cs.op("f") }
func (cs *ContentStream) SaveGraphicsState()         { cs.op("q") }
func (cs *ContentStream) RestoreGraphicsState()      { cs.op("Q") }
func (cs *ContentStream) BeginText()                 { cs.op("BT") }
func (cs *ContentStream) EndText()                   { cs.op("ET") }

func (cs *ContentStream) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	cs.op("c", x1, y1, x2, y2, x3, y3)
}

// SetStrokingColor sets the RGB stroke color, components in 0..1.
func (cs *ContentStream) SetStrokingColor(r, g, b float64) { cs.op("RG", r, g, b) }

// SetNonStrokingColor sets the RGB fill color, components in 0..1.
func (cs *ContentStream) SetNonStrokingColor(r, g, b float64) { cs.op("rg", r, g, b) }

func (cs *ContentStream) SetLineWidth(width float64) { cs.op("w", width) }

// SetLineCapStyle sets the cap style: 0 butt, 1 round, 2 projecting square.
func (cs *ContentStream) SetLineCapStyle(style int) { cs.op("J", float64(style)) }

// SetLineDashPattern sets the dash array; an empty pattern draws solid lines.
func (cs *ContentStream) SetLineDashPattern(pattern []float64, phase float64) {
	parts := make([]string, len(pattern))
	for i, v := range pattern {
		parts[i] = FormatNumber(v)
	}
	cs.raw("[" + strings.Join(parts, " ") + "] " + FormatNumber(phase) + " d\n")
}

// Transform concatenates m to the current transformation matrix.
func (cs *ContentStream) Transform(m TransformationMatrix) {
	cs.op("cm", m.A, m.B, m.C, m.D, m.E, m.F)
}

// SetFont selects a font by its resource name, for example "F1".
func (cs *ContentStream) SetFont(resource string, size float64) {
	var b bytes.Buffer
	_ = Name(resource).PDF(&b)
	b.WriteByte(' ')
	b.WriteString(FormatNumber(size))
	b.WriteString(" Tf\n")
	cs.raw(b.String())
}

func (cs *ContentStream) NewLineAtOffset(x, y float64) { cs.op("Td", x, y) }

// ShowText shows text encoded as Windows-1252.
func (cs *ContentStream) ShowText(text string) {
	cs.raw(string(appendLiteral(nil, text)) + " Tj\n")
}

func (cs *ContentStream) finish() error {
	if cs.finished {
		return cs.err
	}
	cs.finished = true
	if err := cs.zw.Close(); err != nil && cs.err == nil {
		cs.err = err
	}
	return cs.err
}

// Bytes finishes the stream and returns the compressed operator data.
func (cs *ContentStream) Bytes() ([]byte, error) {
	if err := cs.finish(); err != nil {
		return nil, err
	}
	return cs.data.Bytes(), nil
}

// PDF writes the stream object. No operators can be added afterwards.
func (cs *ContentStream) PDF(w io.Writer) error {
	data, err := cs.Bytes()
	if err != nil {
		return fmt.Errorf("content stream: %w", err)
	}
	dict := Dict{
		{"Length", Integer(len(data))},
		{"Filter", Name("FlateDecode")},
	}
	if err := dict.PDF(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\nendstream")
	return err
}
