package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := MMFromPt(pt)
		back := PtFromMM(mm)
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
	if got := PtFromMM(1); math.Abs(got-2.8346) > 1e-4 {
		t.Fatalf("1mm 期望约 2.8346pt，实际 %g", got)
	}
}

// TestPxFromMM 覆盖 300 DPI 下的几个常用尺寸。
func TestPxFromMM(t *testing.T) {
	cases := []struct {
		mm   float64
		dpi  int
		want int
	}{
		{25.4, 300, 300},
		{63, 300, 744},
		{88, 300, 1039},
		{2, 300, 24},
		{67, 300, 791},
		{92, 300, 1087},
		{0, 300, 0},
	}
	for _, c := range cases {
		if got := PxFromMM(c.mm, c.dpi); got != c.want {
			t.Errorf("PxFromMM(%g, %d) = %d, want %d", c.mm, c.dpi, got, c.want)
		}
	}
}

// TestPxRoundTripWithinOnePixel 验证 mm→px→mm 的误差不超过一个像素对应的长度，且单调。
func TestPxRoundTripWithinOnePixel(t *testing.T) {
	const dpi = 300
	onePx := PxToMM(1, dpi)
	prev := -1
	for mm := 0.0; mm <= 300; mm += 0.37 {
		px := PxFromMM(mm, dpi)
		if px < prev {
			t.Fatalf("PxFromMM 非单调: %gmm → %d < %d", mm, px, prev)
		}
		prev = px
		if diff := math.Abs(PxToMM(px, dpi) - mm); diff > onePx {
			t.Fatalf("往返误差过大: mm=%g px=%d diff=%g", mm, px, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in     string
		wantMM float64
	}{
		{"63mm", 63},
		{"63", 63},
		{"1in", 25.4},
		{"2.54cm", 25.4},
		{"72pt", 25.4},
		{" 1.5 MM ", 1.5},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", c.in, err)
		}
		if diff := math.Abs(l.ToMM() - c.wantMM); diff > 1e-9 {
			t.Errorf("ParseLength(%q).ToMM() = %g, want %g", c.in, l.ToMM(), c.wantMM)
		}
	}
	for _, bad := range []string{"", "abc", "-3mm", "mm"} {
		if _, err := ParseLength(bad); err == nil {
			t.Errorf("ParseLength(%q) 期望报错", bad)
		}
	}
}
