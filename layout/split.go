package layout

import "strings"

// SplitLines 使用贪心算法将文本拆分为多行。
// maxLength 为最大行宽（pt），fontSize 为字号（pt）。宽度统一在 1/1000 em 下累计比较。
//
// 行首空格被跳过且不计宽度；遇到 '\n' 时在此处换行；累计宽度超出上限时，向前寻找
// 行首之后最近的空格换行（丢弃该空格），找不到则在当前字符处强制换行，且每行至少一个字符。
// 每行去除尾部空格。末尾的空行仅在输入以 '\n' 结尾（或输入全为空白）时保留。
func (m *FontMetrics) SplitLines(text string, maxLength, fontSize float64) []string {
	limit := int(maxLength * 1000 / fontSize)
	runes := []rune(text)
	n := len(runes)

	var lines []string
	lineStart := 0
	width := 0
	addEmptyLine := true

	pos := 0
	for pos < n {
		ch := runes[pos]
		if ch == ' ' && pos == lineStart {
			lineStart++
			pos++
			continue
		}

		width += m.CharWidth(ch, false)
		if ch != '\n' && width <= limit {
			pos++
			continue
		}

		var end, next int
		if ch == '\n' {
			end, next = pos, pos+1
			addEmptyLine = true
		} else {
			sp := pos
			for sp > lineStart && runes[sp] != ' ' {
				sp--
			}
			if sp > lineStart {
				end, next = sp, sp+1
			} else {
				end = pos
				if end == lineStart {
					end = lineStart + 1
				}
				next = end
			}
			addEmptyLine = false
		}

		lines = append(lines, strings.TrimRight(string(runes[lineStart:end]), " "))
		lineStart, pos, width = next, next, 0
	}

	if lineStart < n {
		lines = append(lines, strings.TrimRight(string(runes[lineStart:]), " "))
	} else if addEmptyLine {
		lines = append(lines, "")
	}
	return lines
}
