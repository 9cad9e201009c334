package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLines(t *testing.T) {
	m := NewFontMetrics("Helvetica")
	cases := []struct {
		name      string
		text      string
		maxLength float64 // pt
		want      []string
	}{
		{"empty", "", 100, []string{""}},
		{"whitespace only", "   ", 100, []string{""}},
		{"short", "Hello world", 1000, []string{"Hello world"}},
		{"explicit newlines", "foo\n\nbar", 1000, []string{"foo", "", "bar"}},
		{"trailing newline kept", "foo\n", 1000, []string{"foo", ""}},
		{"trailing spaces trimmed", "foo   \nbar  ", 1000, []string{"foo", "bar"}},
		{"leading spaces skipped", "  foo\n  bar", 1000, []string{"foo", "bar"}},
		// 宽度上限 1000 单位：每个单词单独一行
		{"break at spaces", "a b c", 10, []string{"a", "b", "c"}},
		// 上限 2000 单位：abc=1612, abcd=2168 → 强制在词内换行
		{"forced break", "abcdefgh", 20, []string{"abc", "defg", "h"}},
		// 单个字符超出上限时仍需前进
		{"giant glyph", "WW", 1, []string{"W", "W"}},
		{"no empty line after wrap", "abc def", 20, []string{"abc", "def"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := m.SplitLines(c.text, c.maxLength, 10)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("SplitLines(%q) mismatch (-want +got):\n%s", c.text, diff)
			}
		})
	}
}

// TestSplitLinesPaymentInformation 复现付款信息中的拆行：在空格处断开，斜杠分隔的长串保持完整。
func TestSplitLinesPaymentInformation(t *testing.T) {
	m := NewFontMetrics("Helvetica,Arial")
	text := "Instruction of 15.09.2019##S1/01/20170309"
	// "Instruction of " = 6003 units, "15.09.2019##S1/01/20170309" = 13455 units
	got := m.SplitLines(text, 150, 10)
	want := []string{"Instruction of", "15.09.2019##S1/01/20170309"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitLinesIdempotentOnShortText(t *testing.T) {
	m := NewFontMetrics("Helvetica")
	for _, s := range []string{"CH44 3199 9123 0008 8901 2", "Pia-Maria Rutschmann-Schnyder", "Grosse Marktgasse 28"} {
		width := m.TextWidth(s, 10, false) * MmToPt
		got := m.SplitLines(s, width+0.01, 10)
		if diff := cmp.Diff([]string{s}, got); diff != "" {
			t.Fatalf("short text was split (-want +got):\n%s", diff)
		}
	}
}

func TestSplitLinesRespectsLimit(t *testing.T) {
	m := NewFontMetrics("Helvetica")
	text := "Robert Schneider AG Rue du Lac 1268 2501 Biel Payment of travel 12.03.2020 / ref 210000000003139471430009017"
	const maxLength, fontSize = 80.0, 8.0
	lines := m.SplitLines(text, maxLength, fontSize)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", lines)
	}
	for _, ln := range lines {
		if ln == "" {
			t.Fatalf("unexpected empty line in %q", lines)
		}
		if w := m.TextWidth(ln, fontSize, false) * MmToPt; w > maxLength+1e-9 && len([]rune(ln)) > 1 {
			t.Fatalf("line %q exceeds limit: %g > %g", ln, w, maxLength)
		}
	}
	joined := strings.ReplaceAll(strings.Join(lines, ""), " ", "")
	if want := strings.ReplaceAll(text, " ", ""); joined != want {
		t.Fatalf("content lost while splitting: %q", joined)
	}
}
