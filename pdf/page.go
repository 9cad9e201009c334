package pdf

import (
	"fmt"
	"io"
)

// Page is one page of a Document. Width and Height are in pt.
type Page struct {
	Width, Height float64

	ref       Ref
	parent    Ref
	contents  Ref
	Contents  *ContentStream
	Resources *ResourceDict
}

// Ref returns the object number of the page dictionary.
func (p *Page) Ref() Ref { return p.ref }

func (p *Page) PDF(w io.Writer) error {
	dict := Dict{
		{"Type", Name("Page")},
		{"Parent", p.parent},
		{"MediaBox", Array{Integer(0), Integer(0), Real(p.Width), Real(p.Height)}},
		{"Resources", p.Resources},
		{"Contents", p.contents},
	}
	return dict.PDF(w)
}

// ResourceDict maps the font names used in one page's content stream to the
// document-level font objects.
type ResourceDict struct {
	names []string
	refs  map[string]Ref
	byRef map[Ref]string
}

// NewResourceDict returns an empty resource dictionary.
func NewResourceDict() *ResourceDict {
	return &ResourceDict{refs: map[string]Ref{}, byRef: map[Ref]string{}}
}

// AddFont returns the page-local name (F1, F2, …) for a font object,
// assigning a new name on first use.
func (rd *ResourceDict) AddFont(ref Ref) string {
	if name, ok := rd.byRef[ref]; ok {
		return name
	}
	name := fmt.Sprintf("F%d", len(rd.names)+1)
	rd.names = append(rd.names, name)
	rd.refs[name] = ref
	rd.byRef[ref] = name
	return name
}

// Font returns the object a page-local font name refers to.
func (rd *ResourceDict) Font(name string) (Ref, bool) {
	ref, ok := rd.refs[name]
	return ref, ok
}

func (rd *ResourceDict) PDF(w io.Writer) error {
	if len(rd.names) == 0 {
		return Dict{}.PDF(w)
	}
	fonts := make(Dict, 0, len(rd.names))
	for _, name := range rd.names {
		fonts = append(fonts, DictEntry{Name(name), rd.refs[name]})
	}
	return Dict{{"Font", fonts}}.PDF(w)
}

// pageTree is the /Pages root listing all pages in order.
type pageTree struct {
	doc *Document
}

func (t pageTree) PDF(w io.Writer) error {
	kids := make(Array, len(t.doc.pages))
	for i, p := range t.doc.pages {
		kids[i] = p.ref
	}
	return Dict{
		{"Type", Name("Pages")},
		{"Kids", kids},
		{"Count", Integer(len(t.doc.pages))},
	}.PDF(w)
}
