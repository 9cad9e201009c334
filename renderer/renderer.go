package renderer

// Canvas 是与输出格式无关的绘图接口，由 SVG、PDF 与栅格后端实现。
//
// 坐标单位为毫米，原点位于左下角，y 轴向上；字号单位为 pt；颜色为 0xRRGGBB。
// 一条路径必须以 StartPath 开始，并以 FillPath 或 StrokePath 结束。
// Canvas 不支持并发使用，每个并发任务需创建独立实例。
type Canvas interface {
	// SetTransformation replaces the coordinate system, measured from the
	// backend's origin. It does not compose with earlier transformations.
	// The composition order is translate, rotate (radians), scale.
	SetTransformation(translateX, translateY, rotate, scaleX, scaleY float64) error

	StartPath() error
	MoveTo(x, y float64) error
	LineTo(x, y float64) error
	CubicCurveTo(x1, y1, x2, y2, x, y float64) error
	// AddRectangle appends a closed subpath; no MoveTo is needed.
	AddRectangle(x, y, width, height float64) error
	CloseSubpath() error

	// FillPath fills and ends the current path. smoothing=false hints that
	// anti-aliasing may be disabled.
	FillPath(color int, smoothing bool) error
	// StrokePath strokes and ends the current path. width is in pt.
	StrokePath(width float64, color int, style LineStyle, smoothing bool) error

	// PutText draws one line of text; x, y is the left end of the baseline.
	PutText(text string, x, y, fontSize float64, bold bool) error

	Ascender(fontSize float64) float64
	Descender(fontSize float64) float64
	LineHeight(fontSize float64) float64
	TextWidth(text string, fontSize float64, bold bool) float64
	// SplitLines splits text into lines no wider than maxWidth (mm).
	SplitLines(text string, maxWidth, fontSize float64) []string

	// Close finalizes backend buffers. Calling it more than once is a no-op.
	Close() error
}

// LineStyle 描述描边线型。
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
	Dotted
)

func (s LineStyle) String() string {
	switch s {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	default:
		return "solid"
	}
}

func (s LineStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseLineStyle 将 solid/dashed/dotted 解析为 LineStyle，未知取值返回 false。
func ParseLineStyle(s string) (LineStyle, bool) {
	switch s {
	case "", "solid":
		return Solid, true
	case "dashed":
		return Dashed, true
	case "dotted":
		return Dotted, true
	default:
		return Solid, false
	}
}

// DashPattern returns the on/off lengths used for a line style at the given
// stroke width, and whether the pattern needs round caps. Solid lines have no
// pattern.
func DashPattern(style LineStyle, width float64) (dashes []float64, roundCap bool) {
	switch style {
	case Dashed:
		return []float64{4 * width}, false
	case Dotted:
		return []float64{0, 3 * width}, true
	default:
		return nil, false
	}
}
