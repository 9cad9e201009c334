package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func buildTwoPageDoc(t *testing.T, id []byte) *Document {
	t.Helper()
	doc := NewDocument()
	if id != nil {
		doc.SetID(id)
	}
	doc.Info.Title = "Invoice (copy)"
	for i := 0; i < 2; i++ {
		page, err := doc.AddPage(595.276, 841.89)
		if err != nil {
			t.Fatalf("AddPage: %v", err)
		}
		ref, err := doc.CreateFont(Helvetica)
		if err != nil {
			t.Fatalf("CreateFont: %v", err)
		}
		name := page.Resources.AddFont(ref)
		cs := page.Contents
		cs.SetNonStrokingColor(0, 0, 0)
		cs.AddRect(0, 0, 28.346, 14.173)
		cs.Fill()
		cs.BeginText()
		cs.SetFont(name, 10)
		cs.NewLineAtOffset(10, 20)
		cs.ShowText(fmt.Sprintf("Page %d", i+1))
		cs.EndText()
	}
	return doc
}

func save(t *testing.T, doc *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return buf.Bytes()
}

func TestXrefOffsetsPointAtObjects(t *testing.T) {
	doc := buildTwoPageDoc(t, []byte("0123456789"))
	out := save(t, doc)

	offsets := doc.Offsets()
	if len(offsets) != doc.NumObjects() {
		t.Fatalf("offsets = %d, objects = %d", len(offsets), doc.NumObjects())
	}
	for i := 1; i < len(offsets); i++ {
		want := fmt.Sprintf("%d 0 obj", i)
		if !bytes.HasPrefix(out[offsets[i]:], []byte(want)) {
			t.Fatalf("object %d: offset %d does not start with %q", i, offsets[i], want)
		}
	}

	xref := bytes.Index(out, []byte("\nxref\n")) + 1
	m := regexp.MustCompile(`startxref\n(\d+)\n%%EOF\n$`).FindSubmatch(out)
	if m == nil {
		t.Fatalf("missing startxref trailer:\n%s", out[xref:])
	}
	if pos, _ := strconv.Atoi(string(m[1])); pos != xref {
		t.Fatalf("startxref = %d, want %d", pos, xref)
	}

	rest := out[xref:]
	header := fmt.Sprintf("xref\n0 %d\n", doc.NumObjects())
	if !bytes.HasPrefix(rest, []byte(header)) {
		t.Fatalf("xref header = %q", rest[:len(header)])
	}
	rows := rest[len(header):]
	if got := string(rows[:20]); got != "0000000000 65535 f\r\n" {
		t.Fatalf("free entry = %q", got)
	}
	for i := 1; i < doc.NumObjects(); i++ {
		row := string(rows[i*20 : (i+1)*20])
		want := fmt.Sprintf("%010d 00000 n\r\n", offsets[i])
		if row != want {
			t.Fatalf("row %d = %q, want %q", i, row, want)
		}
	}
	if !bytes.HasPrefix(rows[doc.NumObjects()*20:], []byte("trailer\n")) {
		t.Fatalf("xref table has extra rows")
	}
}

func TestHeaderAndTrailer(t *testing.T) {
	out := save(t, buildTwoPageDoc(t, []byte{0xde, 0xad, 0xbe, 0xef, 0, 1, 2, 3, 4, 5}))
	if !bytes.HasPrefix(out, []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")) {
		t.Fatalf("header = %q", out[:16])
	}
	want := "trailer\n<< /Root 1 0 R /Info 2 0 R /Size 9 /ID [<deadbeef000102030405> <deadbeef000102030405>] >>"
	if !bytes.Contains(out, []byte(want)) {
		t.Fatalf("trailer not found in\n%s", out[bytes.Index(out, []byte("trailer")):])
	}
	if !bytes.Contains(out, []byte("/Title (Invoice \\(copy\\))")) {
		t.Fatalf("info title missing")
	}
	if !bytes.Contains(out, []byte("/Type /Pages /Kids [4 0 R 7 0 R] /Count 2")) {
		t.Fatalf("page tree missing")
	}
}

func TestFontIsShared(t *testing.T) {
	doc := NewDocument()
	a, err := doc.CreateFont(Helvetica)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := doc.CreateFont(Font{BaseFont: "Helvetica", Subtype: "Type1", Encoding: "WinAnsiEncoding"})
	if a != b {
		t.Fatalf("same font created twice: %v and %v", a, b)
	}
	c, _ := doc.CreateFont(HelveticaBold)
	if c == a {
		t.Fatalf("bold font shares the regular reference")
	}

	out := save(t, buildTwoPageDoc(t, nil))
	if n := bytes.Count(out, []byte("/Type /Font")); n != 1 {
		t.Fatalf("%d font objects, want 1", n)
	}
	if n := bytes.Count(out, []byte("/Resources << /Font << /F1 6 0 R >> >>")); n != 2 {
		t.Fatalf("%d pages reference the shared font, want 2", n)
	}
}

func TestSaveIsDeterministicExceptID(t *testing.T) {
	first := save(t, buildTwoPageDoc(t, nil))
	second := save(t, buildTwoPageDoc(t, nil))

	id := regexp.MustCompile(`/ID \[<([0-9a-f]{20})> <([0-9a-f]{20})>\]`)
	m1 := id.FindSubmatch(first)
	m2 := id.FindSubmatch(second)
	if m1 == nil || m2 == nil {
		t.Fatalf("missing file identifier")
	}
	if bytes.Equal(m1[1], m2[1]) {
		t.Fatalf("random identifiers are equal")
	}
	strip := func(b []byte) string { return id.ReplaceAllString(string(b), "/ID []") }
	if strip(first) != strip(second) {
		t.Fatalf("outputs differ beyond the identifier")
	}

	fixed := []byte("fixed-id!!")
	if !bytes.Equal(save(t, buildTwoPageDoc(t, fixed)), save(t, buildTwoPageDoc(t, fixed))) {
		t.Fatalf("outputs with fixed identifier differ")
	}
}

func TestSaveIsSingleShot(t *testing.T) {
	doc := buildTwoPageDoc(t, nil)
	save(t, doc)

	if err := doc.Save(&bytes.Buffer{}); !errors.Is(err, ErrSaved) {
		t.Fatalf("second Save: %v", err)
	}
	if _, err := doc.AddPage(10, 10); !errors.Is(err, ErrSaved) {
		t.Fatalf("AddPage after Save: %v", err)
	}
	if _, err := doc.CreateFont(Courier); !errors.Is(err, ErrSaved) {
		t.Fatalf("CreateFont after Save: %v", err)
	}
	doc.Pages()[0].Contents.Fill()
	if err := doc.Pages()[0].Contents.Err(); !errors.Is(err, ErrStreamFinished) {
		t.Fatalf("write to finished stream: %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSaveWritesNothingOnError(t *testing.T) {
	doc := NewDocument()
	page, _ := doc.AddPage(100, 100)
	page.Contents.Fill()
	page.Contents.finish()
	page.Contents.err = errors.New("broken")

	var buf bytes.Buffer
	err := doc.Save(&buf)
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("Save error = %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("partial output written: %d bytes", buf.Len())
	}

	doc = NewDocument()
	if err := doc.Save(failingWriter{}); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Save error = %v", err)
	}
}
