package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/qrcanvas/binding"
	"github.com/ByLCY/qrcanvas/dsl"
	"github.com/ByLCY/qrcanvas/layout"
	"github.com/ByLCY/qrcanvas/renderer"
)

// Build 将脚本 AST 转换为场景，文本中的 ${path} 由 data 填充。
func Build(script *dsl.Script, data any, opts BuildOptions) (*Scene, error) {
	if script == nil {
		return nil, fmt.Errorf("scene: script is nil")
	}
	s := &Scene{
		Name: script.Name,
		Meta: collectMeta(script, data, opts),
	}
	for _, section := range script.Sections {
		if section.Page == nil {
			continue
		}
		page, err := buildPage(section.Page, data)
		if err != nil {
			return nil, err
		}
		s.Pages = append(s.Pages, page)
	}
	if len(s.Pages) == 0 {
		return nil, fmt.Errorf("scene: script has no page section")
	}
	return s, nil
}

func collectMeta(script *dsl.Script, data any, opts BuildOptions) Meta {
	meta := Meta{Author: opts.Author, Creator: opts.Creator, FontFamily: opts.FontFamily}
	if meta.Creator == "" {
		meta.Creator = "qrcanvas"
	}
	for _, section := range script.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			value := binding.Interpolate(stmt.Assignment.Value.Raw(), data)
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = value
			case "author":
				meta.Author = value
			case "subject":
				meta.Subject = value
			case "keywords":
				meta.Keywords = value
			case "creator":
				meta.Creator = value
			case "font":
				meta.FontFamily = value
			}
		}
	}
	if meta.FontFamily == "" {
		meta.FontFamily = DefaultFontFamily
	}
	return meta
}

var pagePresets = map[string][2]float64{
	"A4": {210, 297},
	"A5": {148, 210},
	"A6": {105, 148},
}

func resolvePageSize(section *dsl.PageSection) (float64, float64, error) {
	args := section.Size
	if len(args) == 0 {
		return 0, 0, fmt.Errorf("%s: page size missing", section.Pos)
	}
	var width, height float64
	rest := args
	if base, ok := pagePresets[strings.ToUpper(args[0].Value)]; ok {
		width, height = base[0], base[1]
		rest = args[1:]
	} else {
		if len(args) < 2 {
			return 0, 0, fmt.Errorf("%s: page needs width and height", section.Pos)
		}
		var err error
		if width, err = lengthMM(args[0]); err != nil {
			return 0, 0, err
		}
		if height, err = lengthMM(args[1]); err != nil {
			return 0, 0, err
		}
		rest = args[2:]
	}
	for _, tok := range rest {
		switch tok.Value {
		case "landscape":
			if height > width {
				width, height = height, width
			}
		case "portrait":
			if width > height {
				width, height = height, width
			}
		default:
			return 0, 0, fmt.Errorf("%s: unknown page option %q", tok.Pos, tok.Value)
		}
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%s: page size must be positive", section.Pos)
	}
	return width, height, nil
}

func buildPage(section *dsl.PageSection, data any) (Page, error) {
	width, height, err := resolvePageSize(section)
	if err != nil {
		return Page{}, err
	}
	page := Page{Width: width, Height: height}
	if section.Block == nil {
		return page, nil
	}
	for _, stmt := range section.Block.Statements {
		cmd := stmt.Command
		if cmd == nil {
			return Page{}, fmt.Errorf("page: only commands are allowed, got %+v", stmt)
		}
		op, err := buildOp(cmd, data)
		if err != nil {
			return Page{}, fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
		}
		page.Ops = append(page.Ops, op)
	}
	return page, nil
}

func buildOp(cmd *dsl.Command, data any) (Op, error) {
	switch cmd.Name {
	case "transform":
		t, err := buildTransform(cmd.Args)
		return Op{Transform: t}, err
	case "fill":
		f, err := buildFill(cmd)
		return Op{Fill: f}, err
	case "stroke":
		s, err := buildStroke(cmd)
		return Op{Stroke: s}, err
	case "text":
		t, err := buildText(cmd.Args, data)
		return Op{Text: t}, err
	case "lines":
		l, err := buildLines(cmd, data)
		return Op{Lines: l}, err
	case "modules":
		m, err := buildModules(cmd, data)
		return Op{Modules: m}, err
	default:
		return Op{}, fmt.Errorf("unknown command")
	}
}

// transform tx ty [degrees [sx [sy]]]
func buildTransform(args []*dsl.Lexeme) (*Transform, error) {
	if len(args) < 2 || len(args) > 5 {
		return nil, fmt.Errorf("expected 2 to 5 arguments, got %d", len(args))
	}
	t := &Transform{ScaleX: 1, ScaleY: 1}
	var err error
	if t.TranslateX, err = lengthMM(args[0]); err != nil {
		return nil, err
	}
	if t.TranslateY, err = lengthMM(args[1]); err != nil {
		return nil, err
	}
	if len(args) > 2 {
		deg, err := number(args[2])
		if err != nil {
			return nil, err
		}
		t.Rotate = deg / 180 * math.Pi
	}
	if len(args) > 3 {
		if t.ScaleX, err = number(args[3]); err != nil {
			return nil, err
		}
		t.ScaleY = t.ScaleX
	}
	if len(args) > 4 {
		if t.ScaleY, err = number(args[4]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// fill [#color] [crisp] { segments }
func buildFill(cmd *dsl.Command) (*Fill, error) {
	f := &Fill{Smooth: true}
	for _, arg := range cmd.Args {
		switch {
		case arg.Type == "Color":
			c, err := parseColor(arg.Value)
			if err != nil {
				return nil, err
			}
			f.Color = c
		case arg.Value == "crisp":
			f.Smooth = false
		default:
			return nil, fmt.Errorf("%s: unexpected argument %q", arg.Pos, arg.Raw)
		}
	}
	path, err := buildPath(cmd.Block)
	if err != nil {
		return nil, err
	}
	f.Path = path
	return f, nil
}

// stroke width [#color] [solid|dashed|dotted] [crisp] { segments }
func buildStroke(cmd *dsl.Command) (*Stroke, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("stroke width missing")
	}
	width, err := lengthPT(cmd.Args[0])
	if err != nil {
		return nil, err
	}
	s := &Stroke{Width: width, Smooth: true}
	for _, arg := range cmd.Args[1:] {
		if arg.Type == "Color" {
			if s.Color, err = parseColor(arg.Value); err != nil {
				return nil, err
			}
			continue
		}
		if arg.Value == "crisp" {
			s.Smooth = false
			continue
		}
		style, ok := renderer.ParseLineStyle(arg.Value)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected argument %q", arg.Pos, arg.Raw)
		}
		s.Style = style
	}
	if s.Path, err = buildPath(cmd.Block); err != nil {
		return nil, err
	}
	return s, nil
}

func buildPath(block *dsl.Block) ([]Segment, error) {
	if block == nil || len(block.Statements) == 0 {
		return nil, fmt.Errorf("path block missing")
	}
	var path []Segment
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil {
			return nil, fmt.Errorf("path: only segments are allowed")
		}
		kind := SegmentKind(cmd.Name)
		arity, ok := segmentArity[kind]
		if !ok {
			return nil, fmt.Errorf("%s: unknown path segment %q", cmd.Pos, cmd.Name)
		}
		if len(cmd.Args) != arity {
			return nil, fmt.Errorf("%s: %s takes %d coordinates, got %d", cmd.Pos, cmd.Name, arity, len(cmd.Args))
		}
		seg := Segment{Kind: kind}
		for _, arg := range cmd.Args {
			v, err := lengthMM(arg)
			if err != nil {
				return nil, err
			}
			seg.Coords = append(seg.Coords, v)
		}
		path = append(path, seg)
	}
	return path, nil
}

// text "value" x y size [bold]
func buildText(args []*dsl.Lexeme, data any) (*Text, error) {
	if len(args) < 4 || len(args) > 5 {
		return nil, fmt.Errorf("expected text, x, y and size")
	}
	if args[0].Type != "String" {
		return nil, fmt.Errorf("%s: text must be a string", args[0].Pos)
	}
	t := &Text{Value: binding.Interpolate(args[0].Value, data)}
	var err error
	if t.X, err = lengthMM(args[1]); err != nil {
		return nil, err
	}
	if t.Y, err = lengthMM(args[2]); err != nil {
		return nil, err
	}
	if t.Size, err = lengthPT(args[3]); err != nil {
		return nil, err
	}
	if len(args) == 5 {
		if args[4].Value != "bold" {
			return nil, fmt.Errorf("%s: unexpected argument %q", args[4].Pos, args[4].Raw)
		}
		t.Bold = true
	}
	return t, nil
}

// lines x y size [leading L] [width W] { "line" ... }
func buildLines(cmd *dsl.Command, data any) (*Lines, error) {
	args := cmd.Args
	if len(args) < 3 {
		return nil, fmt.Errorf("expected x, y and size")
	}
	l := &Lines{}
	var err error
	if l.X, err = lengthMM(args[0]); err != nil {
		return nil, err
	}
	if l.Y, err = lengthMM(args[1]); err != nil {
		return nil, err
	}
	if l.Size, err = lengthPT(args[2]); err != nil {
		return nil, err
	}
	opts, err := keyValues(args[3:])
	if err != nil {
		return nil, err
	}
	for key, tok := range opts {
		switch key {
		case "leading":
			l.Leading, err = lengthMM(tok)
		case "width":
			l.Width, err = lengthMM(tok)
		default:
			err = fmt.Errorf("%s: unknown option %q", tok.Pos, key)
		}
		if err != nil {
			return nil, err
		}
	}
	if l.Values, err = literals(cmd.Block, data); err != nil {
		return nil, err
	}
	return l, nil
}

// modules x y size [#color] { "1010" ... }
func buildModules(cmd *dsl.Command, data any) (*Modules, error) {
	args := cmd.Args
	if len(args) < 3 || len(args) > 4 {
		return nil, fmt.Errorf("expected x, y, module size and optional color")
	}
	m := &Modules{}
	var err error
	if m.X, err = lengthMM(args[0]); err != nil {
		return nil, err
	}
	if m.Y, err = lengthMM(args[1]); err != nil {
		return nil, err
	}
	if m.Size, err = lengthMM(args[2]); err != nil {
		return nil, err
	}
	if len(args) == 4 {
		if args[3].Type != "Color" {
			return nil, fmt.Errorf("%s: expected color, got %q", args[3].Pos, args[3].Raw)
		}
		if m.Color, err = parseColor(args[3].Value); err != nil {
			return nil, err
		}
	}
	values, err := literals(cmd.Block, data)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		for _, line := range strings.Split(v, "\n") {
			if line == "" {
				continue
			}
			row, err := parseModuleRow(line)
			if err != nil {
				return nil, err
			}
			m.Rows = append(m.Rows, row)
		}
	}
	return m, nil
}

func parseModuleRow(line string) ([]bool, error) {
	row := make([]bool, 0, len(line))
	for _, r := range line {
		switch r {
		case '1', '#', 'X', 'x':
			row = append(row, true)
		case '0', '.', ' ', '_':
			row = append(row, false)
		default:
			return nil, fmt.Errorf("invalid module %q in row %q", r, line)
		}
	}
	return row, nil
}

func literals(block *dsl.Block, data any) ([]string, error) {
	if block == nil {
		return nil, fmt.Errorf("text block missing")
	}
	var out []string
	for _, stmt := range block.Statements {
		if stmt.Text == nil {
			return nil, fmt.Errorf("only string literals are allowed in a text block")
		}
		out = append(out, binding.Interpolate(string(stmt.Text.Value), data))
	}
	return out, nil
}

func keyValues(args []*dsl.Lexeme) (map[string]*dsl.Lexeme, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%s: option %q has no value", args[len(args)-1].Pos, args[len(args)-1].Raw)
	}
	out := make(map[string]*dsl.Lexeme, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		out[args[i].Value] = args[i+1]
	}
	return out, nil
}

func lengthMM(tok *dsl.Lexeme) (float64, error) {
	l, err := parseLength(tok)
	return l.ToMM(), err
}

func lengthPT(tok *dsl.Lexeme) (float64, error) {
	l, err := parseLength(tok)
	return l.ToPT(), err
}

func parseLength(tok *dsl.Lexeme) (layout.Length, error) {
	if tok.Type != "Number" {
		return layout.Length{}, fmt.Errorf("%s: expected number, got %q", tok.Pos, tok.Raw)
	}
	l, err := layout.ParseLength(tok.Value)
	if err != nil {
		return layout.Length{}, fmt.Errorf("%s: %w", tok.Pos, err)
	}
	return l, nil
}

func number(tok *dsl.Lexeme) (float64, error) {
	if tok.Type != "Number" {
		return 0, fmt.Errorf("%s: expected number, got %q", tok.Pos, tok.Raw)
	}
	v, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tok.Pos, err)
	}
	return v, nil
}

func parseColor(value string) (int, error) {
	value = strings.TrimPrefix(value, "#")
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	if len(value) != 6 {
		return 0, fmt.Errorf("invalid color #%s", value)
	}
	c, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color #%s: %w", value, err)
	}
	return int(c), nil
}
