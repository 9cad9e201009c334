package scene

import "github.com/ByLCY/qrcanvas/renderer"

// 该文件定义场景结构：按页记录的绘图操作，可在任意 Canvas 上重放，也可导出为调试 JSON。
// 所有坐标与尺寸单位为 mm，字号与描边宽度单位为 pt。

// Scene 保存文档信息与页面列表。
type Scene struct {
	Name  string `json:"name"`
	Meta  Meta   `json:"meta"`
	Pages []Page `json:"pages"`
}

// Meta 对应脚本中的 meta 段落。
type Meta struct {
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Keywords   string `json:"keywords,omitempty"`
	Creator    string `json:"creator,omitempty"`
	FontFamily string `json:"fontFamily"`
}

// Page 记录页面尺寸与按顺序执行的操作。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
}

// Op 是一个绘图操作，恰好一个字段非空。
type Op struct {
	Transform *Transform `json:"transform,omitempty"`
	Fill      *Fill      `json:"fill,omitempty"`
	Stroke    *Stroke    `json:"stroke,omitempty"`
	Text      *Text      `json:"text,omitempty"`
	Lines     *Lines     `json:"lines,omitempty"`
	Modules   *Modules   `json:"modules,omitempty"`
}

// Kind returns the script keyword of the operation.
func (op Op) Kind() string {
	switch {
	case op.Transform != nil:
		return "transform"
	case op.Fill != nil:
		return "fill"
	case op.Stroke != nil:
		return "stroke"
	case op.Text != nil:
		return "text"
	case op.Lines != nil:
		return "lines"
	case op.Modules != nil:
		return "modules"
	default:
		return "unknown"
	}
}

// Transform replaces the coordinate system; Rotate is in radians.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Rotate     float64 `json:"rotate"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
}

// SegmentKind names a path segment.
type SegmentKind string

const (
	SegmentMove  SegmentKind = "move"
	SegmentLine  SegmentKind = "line"
	SegmentCurve SegmentKind = "curve"
	SegmentRect  SegmentKind = "rect"
	SegmentClose SegmentKind = "close"
)

// segmentArity is the number of coordinates each segment takes.
var segmentArity = map[SegmentKind]int{
	SegmentMove:  2,
	SegmentLine:  2,
	SegmentCurve: 6,
	SegmentRect:  4,
	SegmentClose: 0,
}

// Segment is one path segment with its coordinates.
type Segment struct {
	Kind   SegmentKind `json:"kind"`
	Coords []float64   `json:"coords,omitempty"`
}

// Fill fills a path.
type Fill struct {
	Color  int       `json:"color"`
	Smooth bool      `json:"smooth"`
	Path   []Segment `json:"path"`
}

// Stroke strokes a path. Width is in pt.
type Stroke struct {
	Width  float64            `json:"width"`
	Color  int                `json:"color"`
	Style  renderer.LineStyle `json:"style"`
	Smooth bool               `json:"smooth"`
	Path   []Segment          `json:"path"`
}

// Text is a single line of text.
type Text struct {
	Value string  `json:"value"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Bold  bool    `json:"bold"`
}

// Lines is a multi-line text block starting at the baseline X, Y. When Width
// is positive every entry is split to that width before drawing.
type Lines struct {
	Values  []string `json:"values"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Size    float64  `json:"size"`
	Leading float64  `json:"leading"`
	Width   float64  `json:"width,omitempty"`
}

// Modules is a symbol matrix (for example a QR code); Rows[0] is the top row
// and X, Y the bottom-left corner.
type Modules struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Size  float64  `json:"size"`
	Color int      `json:"color"`
	Rows  [][]bool `json:"rows"`
}
