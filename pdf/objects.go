package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Object is a value that can be serialized into a PDF file.
type Object interface {
	// PDF writes the file representation of the object to w.
	PDF(w io.Writer) error
}

// Ref refers to an indirect object of a Document by its object number.
type Ref int

func (r Ref) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d 0 R", int(r))
	return err
}

// Name is a PDF name object, written with a leading slash.
type Name string

func (n Name) PDF(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte("#()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Integer is a PDF integer.
type Integer int

func (x Integer) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.Itoa(int(x)))
	return err
}

// Real is a PDF number written with at most three fractional digits.
type Real float64

func (x Real) PDF(w io.Writer) error {
	_, err := io.WriteString(w, FormatNumber(float64(x)))
	return err
}

// Bool is a PDF boolean.
type Bool bool

func (x Bool) PDF(w io.Writer) error {
	_, err := io.WriteString(w, strconv.FormatBool(bool(x)))
	return err
}

// String is a text string, written as a Windows-1252 literal string.
type String string

func (s String) PDF(w io.Writer) error {
	_, err := w.Write(appendLiteral(nil, string(s)))
	return err
}

// HexString is a binary string, written in hexadecimal notation.
type HexString []byte

func (s HexString) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<%s>", hex.EncodeToString(s))
	return err
}

// Array is a PDF array.
type Array []Object

func (a Array) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, obj := range a {
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := obj.PDF(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// DictEntry is one key/value pair of a Dict.
type DictEntry struct {
	Key   Name
	Value Object
}

// Dict is a PDF dictionary. Entries are written in order; entries with a nil
// value are omitted.
type Dict []DictEntry

// Set replaces the value of key or appends a new entry.
func (d *Dict) Set(key Name, value Object) {
	for i := range *d {
		if (*d)[i].Key == key {
			(*d)[i].Value = value
			return
		}
	}
	*d = append(*d, DictEntry{Key: key, Value: value})
}

// Get returns the value of key, or nil.
func (d Dict) Get(key Name) Object {
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

func (d Dict) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, e := range d {
		if e.Value == nil {
			continue
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := e.Key.PDF(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := e.Value.PDF(w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, " >>")
	return err
}

// FormatNumber formats v with at most three fractional digits and a '.'
// decimal point. Values within 0.0005 of zero are written as "0".
func FormatNumber(v float64) string {
	if math.Abs(v) < 0.0005 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// EncodeText converts text to Windows-1252. Characters outside the code page
// become '?'.
func EncodeText(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

// appendLiteral appends text as a PDF literal string: parentheses and
// backslashes are escaped, control characters use escape sequences.
func appendLiteral(dst []byte, text string) []byte {
	var buf bytes.Buffer
	buf.Write(dst)
	buf.WriteByte('(')
	for _, b := range EncodeText(text) {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if b < 0x20 {
				fmt.Fprintf(&buf, "\\%03o", b)
			} else {
				buf.WriteByte(b)
			}
		}
	}
	buf.WriteByte(')')
	return buf.Bytes()
}
