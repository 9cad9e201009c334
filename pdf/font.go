package pdf

import "io"

// Font identifies a font resource. Fonts are compared by value: the same
// Font requested twice from a Document yields the same indirect object.
type Font struct {
	BaseFont string
	Subtype  string
	Encoding string
}

// Standard Type 1 fonts with the Windows code page encoding.
var (
	Helvetica     = Font{BaseFont: "Helvetica", Subtype: "Type1", Encoding: "WinAnsiEncoding"}
	HelveticaBold = Font{BaseFont: "Helvetica-Bold", Subtype: "Type1", Encoding: "WinAnsiEncoding"}
	Courier       = Font{BaseFont: "Courier", Subtype: "Type1", Encoding: "WinAnsiEncoding"}
	CourierBold   = Font{BaseFont: "Courier-Bold", Subtype: "Type1", Encoding: "WinAnsiEncoding"}
)

func (f Font) PDF(w io.Writer) error {
	dict := Dict{
		{"Type", Name("Font")},
		{"Subtype", Name(f.Subtype)},
		{"BaseFont", Name(f.BaseFont)},
	}
	if f.Encoding != "" {
		dict = append(dict, DictEntry{"Encoding", Name(f.Encoding)})
	}
	return dict.PDF(w)
}
