package layout

import "strings"

// 该文件实现字体度量：字宽表查询与由字号推导的上升部、下降部与行高。

// Face identifies the width table a FontMetrics uses.
type Face int

const (
	FaceHelvetica Face = iota
	FaceCourier
)

// widthTable 保存一种字重的字宽（1/1000 em，字号为 1 时）。
type widthTable struct {
	ascii    [95]int16      // 0x20–0x7E
	latin1   [96]int16      // 0xA0–0xFF
	extra    map[rune]int16 // Windows-1252 extras and Latin Extended-A letters
	fallback int16          // width of any code point not listed
	fixed    bool           // monospaced, every glyph uses fallback
}

func (t *widthTable) width(r rune) int {
	switch {
	case t.fixed:
	case r >= 0x20 && r <= 0x7e:
		return int(t.ascii[r-0x20])
	case r >= 0xa0 && r <= 0xff:
		return int(t.latin1[r-0xa0])
	default:
		if w, ok := t.extra[r]; ok {
			return int(w)
		}
	}
	return int(t.fallback)
}

// FontMetrics 提供一个字体族的字宽与文本度量。创建后不可变，可在多个渲染过程间并发共享。
type FontMetrics struct {
	familyList  string
	firstFamily string
	face        Face
	regular     *widthTable
	bold        *widthTable
}

// NewFontMetrics selects the width tables for the first family of a
// comma-separated font family list such as `Helvetica,Arial,"Liberation Sans"`.
// Unknown families use the Helvetica widths.
func NewFontMetrics(familyList string) *FontMetrics {
	first := FirstFamily(familyList)
	m := &FontMetrics{
		familyList:  familyList,
		firstFamily: first,
		face:        FaceHelvetica,
		regular:     &helveticaRegular,
		bold:        &helveticaBold,
	}
	if strings.Contains(strings.ToLower(first), "courier") {
		m.face = FaceCourier
		m.regular = &courier
		m.bold = &courier
	}
	return m
}

// FirstFamily returns the first entry of a font family list without quotes.
func FirstFamily(familyList string) string {
	first, _, _ := strings.Cut(familyList, ",")
	first = strings.TrimSpace(first)
	return strings.Trim(first, `"'`)
}

// FamilyList returns the font family list the metrics were created for.
func (m *FontMetrics) FamilyList() string { return m.familyList }

// FirstFamily returns the family that selected the width tables.
func (m *FontMetrics) FirstFamily() string { return m.firstFamily }

// Face returns the width table family in use.
func (m *FontMetrics) Face() Face { return m.face }

// Ascender 返回字体上升部（mm），fontSize 单位为 pt。
func (m *FontMetrics) Ascender(fontSize float64) float64 {
	return fontSize * 0.8 * PtToMm
}

// Descender 返回字体下降部（mm，正值），fontSize 单位为 pt。
func (m *FontMetrics) Descender(fontSize float64) float64 {
	return fontSize * 0.2 * PtToMm
}

// LineHeight 返回行高（mm），等于字号换算为毫米。
func (m *FontMetrics) LineHeight(fontSize float64) float64 {
	return fontSize * PtToMm
}

// CharWidth returns the width of r in 1/1000 em.
func (m *FontMetrics) CharWidth(r rune, bold bool) int {
	if bold {
		return m.bold.width(r)
	}
	return m.regular.width(r)
}

// TextWidth 返回单行文本宽度（mm）。粗体使用粗体字宽表而非比例放大。
func (m *FontMetrics) TextWidth(text string, fontSize float64, bold bool) float64 {
	units := 0
	for _, r := range text {
		units += m.CharWidth(r, bold)
	}
	return float64(units) * fontSize / 1000 * PtToMm
}
