package pdf

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// ErrSaved is returned when a Document is modified or saved after Save.
var ErrSaved = errors.New("pdf: document already saved")

type docState int

const (
	stateBuilding docState = iota
	stateSerializing
	stateClosed
)

// Info holds the entries of the document information dictionary.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

func (info *Info) PDF(w io.Writer) error {
	dict := Dict{}
	for _, e := range []struct {
		key Name
		val string
	}{
		{"Title", info.Title},
		{"Author", info.Author},
		{"Subject", info.Subject},
		{"Keywords", info.Keywords},
		{"Creator", info.Creator},
		{"Producer", info.Producer},
	} {
		if e.val != "" {
			dict = append(dict, DictEntry{e.key, String(e.val)})
		}
	}
	return dict.PDF(w)
}

// Document is the root of a PDF object graph.
//
// Every indirect object lives in the document's object table; object number 0
// is the reserved free entry. Objects are serialized in creation order by
// Save, which can be called only once.
type Document struct {
	Info *Info

	objects []Object // index is the object number; objects[0] is nil
	offsets []int64  // byte offsets recorded during Save
	pages   []*Page
	fonts   map[Font]Ref
	catalog Ref
	info    Ref
	tree    Ref
	id      []byte
	state   docState
}

// NewDocument creates an empty document with catalog, info and page tree.
func NewDocument() *Document {
	d := &Document{
		Info:    &Info{Producer: "qrcanvas"},
		objects: []Object{nil},
		fonts:   map[Font]Ref{},
	}
	d.catalog = d.alloc(nil)
	d.info = d.alloc(d.Info)
	d.tree = d.alloc(pageTree{doc: d})
	d.objects[d.catalog] = Dict{
		{"Type", Name("Catalog")},
		{"Pages", d.tree},
	}
	return d
}

func (d *Document) alloc(obj Object) Ref {
	d.objects = append(d.objects, obj)
	return Ref(len(d.objects) - 1)
}

// SetID fixes the file identifier written to the trailer. Without it, a
// random identifier is generated on Save.
func (d *Document) SetID(id []byte) {
	d.id = append([]byte(nil), id...)
}

// Add stores obj as a new indirect object.
func (d *Document) Add(obj Object) (Ref, error) {
	if d.state != stateBuilding {
		return 0, ErrSaved
	}
	return d.alloc(obj), nil
}

// NumObjects returns the number of object table entries, including entry 0.
func (d *Document) NumObjects() int { return len(d.objects) }

// Object returns the object stored under ref, or nil.
func (d *Document) Object(ref Ref) Object {
	if ref <= 0 || int(ref) >= len(d.objects) {
		return nil
	}
	return d.objects[ref]
}

// Offsets returns the byte offset of each object recorded by Save. Entry 0
// is always 0.
func (d *Document) Offsets() []int64 { return d.offsets }

// Pages returns the pages in order.
func (d *Document) Pages() []*Page { return d.pages }

// AddPage appends a page of width × height pt with an empty content stream.
func (d *Document) AddPage(width, height float64) (*Page, error) {
	if d.state != stateBuilding {
		return nil, ErrSaved
	}
	p := &Page{
		Width:     width,
		Height:    height,
		parent:    d.tree,
		Contents:  NewContentStream(),
		Resources: NewResourceDict(),
	}
	p.ref = d.alloc(p)
	p.contents = d.alloc(p.Contents)
	d.pages = append(d.pages, p)
	return p, nil
}

// CreateFont returns the indirect object for f, creating it on first use.
func (d *Document) CreateFont(f Font) (Ref, error) {
	if ref, ok := d.fonts[f]; ok {
		return ref, nil
	}
	if d.state != stateBuilding {
		return 0, ErrSaved
	}
	ref := d.alloc(f)
	d.fonts[f] = ref
	return ref, nil
}

// Save serializes the document to w. Output is assembled in memory and
// written only if serialization succeeds. The document cannot be saved or
// modified afterwards.
func (d *Document) Save(w io.Writer) error {
	if d.state != stateBuilding {
		return ErrSaved
	}
	d.state = stateSerializing
	defer func() { d.state = stateClosed }()

	id := d.id
	if id == nil {
		id = make([]byte, 10)
		if _, err := rand.Read(id); err != nil {
			return fmt.Errorf("pdf: file identifier: %w", err)
		}
	}

	var buf bytes.Buffer
	pw := &posWriter{w: &buf}

	if _, err := io.WriteString(pw, "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"); err != nil {
		return err
	}

	d.offsets = make([]int64, len(d.objects))
	for i := 1; i < len(d.objects); i++ {
		d.offsets[i] = pw.pos
		if err := d.writeObject(pw, i); err != nil {
			return err
		}
	}

	xrefPos := pw.pos
	fmt.Fprintf(pw, "xref\n0 %d\n", len(d.objects))
	io.WriteString(pw, "0000000000 65535 f\r\n")
	for i := 1; i < len(d.objects); i++ {
		fmt.Fprintf(pw, "%010d 00000 n\r\n", d.offsets[i])
	}

	trailer := Dict{
		{"Root", d.catalog},
		{"Info", d.info},
		{"Size", Integer(len(d.objects))},
		{"ID", Array{HexString(id), HexString(id)}},
	}
	io.WriteString(pw, "trailer\n")
	if err := trailer.PDF(pw); err != nil {
		return err
	}
	fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	if pw.err != nil {
		return pw.err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func (d *Document) writeObject(w io.Writer, num int) error {
	obj := d.objects[num]
	if _, err := fmt.Fprintf(w, "%d 0 obj\n", num); err != nil {
		return err
	}
	if obj == nil {
		if _, err := io.WriteString(w, "null"); err != nil {
			return err
		}
	} else if err := obj.PDF(w); err != nil {
		return fmt.Errorf("pdf: object %d: %w", num, err)
	}
	_, err := io.WriteString(w, "\nendobj\n")
	return err
}

// posWriter counts the bytes written so that object offsets can be recorded.
type posWriter struct {
	w   io.Writer
	pos int64
	err error
}

func (w *posWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	w.pos += int64(n)
	w.err = err
	return n, err
}
