package renderer

// PutTextLines 逐行调用 PutText 绘制多行文本（非粗体），每行之后基线下移
// LineHeight(fontSize) + leading（mm）。所有后端共用此实现。
func PutTextLines(c Canvas, lines []string, x, y, fontSize, leading float64) error {
	for _, line := range lines {
		if err := c.PutText(line, x, y, fontSize, false); err != nil {
			return err
		}
		y -= c.LineHeight(fontSize) + leading
	}
	return nil
}

// FillModules draws a pre-computed symbol matrix (for example a QR code) as
// filled squares in a single path. modules[0] is the top row; (x, y) is the
// bottom-left corner of the symbol and moduleSize the edge length in mm.
func FillModules(c Canvas, modules [][]bool, x, y, moduleSize float64, color int) error {
	if err := c.StartPath(); err != nil {
		return err
	}
	rows := len(modules)
	for r, row := range modules {
		top := y + float64(rows-1-r)*moduleSize
		for col, dark := range row {
			if !dark {
				continue
			}
			if err := c.AddRectangle(x+float64(col)*moduleSize, top, moduleSize, moduleSize); err != nil {
				return err
			}
		}
	}
	return c.FillPath(color, false)
}
