package pdfrenderer

import (
	"bytes"
	"compress/zlib"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/qrcanvas/dsl"
	"github.com/ByLCY/qrcanvas/pdf"
	"github.com/ByLCY/qrcanvas/renderer"
	"github.com/ByLCY/qrcanvas/scene"
)

func attached(t *testing.T, family string) (*Canvas, *pdf.Page) {
	t.Helper()
	doc := pdf.NewDocument()
	page, err := doc.AddPage(595.276, 841.89)
	if err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	return Attach(doc, page, family), page
}

func content(t *testing.T, page *pdf.Page) string {
	t.Helper()
	data, err := page.Contents.Bytes()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("zlib: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return string(plain)
}

func TestRectangleFill(t *testing.T) {
	c, page := attached(t, "Helvetica")
	if err := c.StartPath(); err != nil {
		t.Fatal(err)
	}
	if err := c.AddRectangle(0, 0, 10, 5); err != nil {
		t.Fatal(err)
	}
	if err := c.FillPath(0x000000, true); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	want := "q\n0 0 0 rg\n0 0 28.346 14.173 re\nf\nQ\n"
	if diff := cmp.Diff(want, content(t, page)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestStrokeStateIsCached(t *testing.T) {
	c, page := attached(t, "Helvetica")
	for i := 0; i < 2; i++ {
		c.StartPath()
		c.MoveTo(0, 0)
		c.LineTo(10, 0)
		if err := c.StrokePath(1, 0xff0000, renderer.Dotted, true); err != nil {
			t.Fatal(err)
		}
	}
	c.StartPath()
	c.MoveTo(0, 0)
	c.CubicCurveTo(1, 1, 2, 2, 3, 3)
	c.CloseSubpath()
	if err := c.StrokePath(2, 0xff0000, renderer.Dashed, false); err != nil {
		t.Fatal(err)
	}
	c.Close()

	want := "q\n" +
		"1 0 0 RG\n1 w\n1 J\n[0 3] 0 d\n0 0 m\n28.346 0 l\nS\n" +
		"0 0 m\n28.346 0 l\nS\n" +
		"2 w\n0 J\n[8] 0 d\n0 0 m\n2.835 2.835 5.669 5.669 8.504 8.504 c\nh\nS\n" +
		"Q\n"
	if diff := cmp.Diff(want, content(t, page)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformationReplaces(t *testing.T) {
	c, page := attached(t, "Helvetica")
	for i := 0; i < 2; i++ {
		if err := c.SetTransformation(10, 20, 0, 1, 1); err != nil {
			t.Fatal(err)
		}
	}
	c.SetTransformation(0, 0, 0, 1, 1)
	c.Close()

	want := "q\n" +
		"Q\nq\n1 0 0 1 28.346 56.693 cm\n" +
		"Q\nq\n1 0 0 1 28.346 56.693 cm\n" +
		"Q\nq\n" +
		"Q\n"
	if diff := cmp.Diff(want, content(t, page)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestPutText(t *testing.T) {
	c, page := attached(t, "Courier")
	if err := c.PutText("Hi (1)", 10, 20, 10, false); err != nil {
		t.Fatal(err)
	}
	if err := c.PutText("Bold", 10, 10, 10, true); err != nil {
		t.Fatal(err)
	}
	c.Close()

	want := "q\n0 0 0 rg\n" +
		"BT\n/F1 10 Tf\n28.346 56.693 Td\n(Hi \\(1\\)) Tj\nET\n" +
		"BT\n/F2 10 Tf\n28.346 28.346 Td\n(Bold) Tj\nET\n" +
		"Q\n"
	if diff := cmp.Diff(want, content(t, page)); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}

	ref, _ := page.Resources.Font("F2")
	font, ok := c.Document().Object(ref).(pdf.Font)
	if !ok || font != pdf.CourierBold {
		t.Fatalf("F2 = %#v, want Courier-Bold", c.Document().Object(ref))
	}
}

func TestPreconditions(t *testing.T) {
	c, _ := attached(t, "Helvetica")
	if err := c.FillPath(0, true); !errors.Is(err, renderer.ErrNoPath) {
		t.Fatalf("fill without path: %v", err)
	}
	if err := c.LineTo(1, 1); !errors.Is(err, renderer.ErrNoPath) {
		t.Fatalf("line without path: %v", err)
	}
	c.StartPath()
	if err := c.StartPath(); !errors.Is(err, renderer.ErrPathOpen) {
		t.Fatalf("nested path: %v", err)
	}
	if err := c.PutText("x", 0, 0, 10, false); !errors.Is(err, renderer.ErrPathOpen) {
		t.Fatalf("text inside path: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := c.StartPath(); !errors.Is(err, renderer.ErrClosed) {
		t.Fatalf("draw after close: %v", err)
	}
	if _, err := c.ToBytes(); err == nil {
		t.Fatalf("attached canvas must not serialize the document")
	}
}

func TestAttachDoesNotSave(t *testing.T) {
	c, _ := attached(t, "Helvetica")
	c.PutText("x", 0, 0, 10, false)
	c.Close()

	var buf bytes.Buffer
	if err := c.Document().Save(&buf); err != nil {
		t.Fatalf("owner save after attached close: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/Font << /F1 6 0 R >>")) {
		t.Fatalf("font resource missing in saved document")
	}
}

const billScript = `
doc bill v1 {
  meta { title: "Bill" }
  page A4 {
    fill #000000 { rect 0 0 10 5 }
    text "Page one" 10mm 280mm 12pt
  }
  page A5 landscape {
    text "Page two" 10mm 10mm 12pt bold
    text "again" 10mm 20mm 12pt
  }
}
`

func renderBill(t *testing.T, id []byte) []byte {
	t.Helper()
	script, err := dsl.ParseString(billScript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, err := scene.Build(script, nil, scene.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := Renderer{ID: id}.Render(s)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func TestRenderScene(t *testing.T) {
	id := []byte("0123456789")
	out := renderBill(t, id)

	for _, want := range []string{
		"%PDF-1.4\n",
		"/MediaBox [0 0 595.276 841.89]",
		"/MediaBox [0 0 595.276 419.528]",
		"/Type /Pages /Kids [4 0 R 7 0 R] /Count 2",
		"/Title (Bill)",
		"/Creator (qrcanvas)",
		"/BaseFont /Helvetica /Encoding /WinAnsiEncoding",
		"/BaseFont /Helvetica-Bold",
		"%%EOF\n",
	} {
		if !bytes.Contains(out, []byte(want)) {
			t.Fatalf("output lacks %q", want)
		}
	}
	if n := bytes.Count(out, []byte("/BaseFont /Helvetica ")); n != 1 {
		t.Fatalf("regular font written %d times, want 1", n)
	}
	if !bytes.Equal(out, renderBill(t, id)) {
		t.Fatalf("rendering is not deterministic with a fixed identifier")
	}
}

func TestRenderCanvasSizes(t *testing.T) {
	c, err := NewCanvas(210, 105, "Helvetica")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.NewPage(105, 148); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("/MediaBox [0 0 595.276 297.638]")) {
		t.Fatalf("first page size missing")
	}
	if err := c.NewPage(10, 10); !errors.Is(err, renderer.ErrClosed) {
		t.Fatalf("new page after close: %v", err)
	}
}
