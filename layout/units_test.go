package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
	if got := 72 * PtToMm; math.Abs(got-25.4) > 1e-12 {
		t.Fatalf("72pt 应为 25.4mm，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in     string
		wantMM float64
		unit   Unit
	}{
		{"10mm", 10, UnitMM},
		{"2.54cm", 25.4, UnitCM},
		{"1in", 25.4, UnitIN},
		{"72pt", 25.4, UnitPT},
		{" 3.5 ", 3.5, UnitNone},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", c.in, err)
		}
		if l.Unit != c.unit {
			t.Fatalf("ParseLength(%q) unit = %s, want %s", c.in, UnitToString(l.Unit), UnitToString(c.unit))
		}
		if math.Abs(l.ToMM()-c.wantMM) > 1e-9 {
			t.Fatalf("ParseLength(%q).ToMM() = %g, want %g", c.in, l.ToMM(), c.wantMM)
		}
	}
	if _, err := ParseLength("12,5mm"); err == nil {
		t.Fatalf("expected error for comma decimal separator")
	}
}

func TestLengthToPT(t *testing.T) {
	if got := (Length{Value: 25.4, Unit: UnitMM}).ToPT(); math.Abs(got-72) > 1e-9 {
		t.Fatalf("25.4mm 转 pt 期望 72，实际 %g", got)
	}
	if got := (Length{Value: 11}).ToPT(); got != 11 {
		t.Fatalf("无单位数值转 pt 应保持不变，实际 %g", got)
	}
}
