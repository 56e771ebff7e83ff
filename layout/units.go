package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// 本文件定义长度单位与 mm / pt / px 之间的换算。

// Unit 表示长度值在配置中书写时的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 未写单位，按毫米处理
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// pt 与 mm 的换算常量（1in = 25.4mm = 72pt）。
const (
	MmPerInch = 25.4
	PtPerInch = 72.0
	PtToMm    = MmPerInch / PtPerInch
	MmToPt    = PtPerInch / MmPerInch
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM 将长度换算为毫米；UnitNone 视为毫米。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerInch
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT 将长度换算为点（pt）。
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength 解析 "63mm"、"2.5in"、"0.25pt" 或纯数字（按毫米）形式的长度。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, fmt.Errorf("长度 %q 超出范围", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// PxFromMM 将毫米换算为给定 DPI 下的像素数（四舍五入）。
func PxFromMM(mm float64, dpi int) int {
	return int(math.Round(mm / MmPerInch * float64(dpi)))
}

// PxToMM 是 PxFromMM 的逆运算（不取整）。
func PxToMM(px int, dpi int) float64 {
	return float64(px) * MmPerInch / float64(dpi)
}

// PtFromMM 将毫米换算为 PDF 点。
func PtFromMM(mm float64) float64 { return mm * MmToPt }

// MMFromPt 将 PDF 点换算为毫米。
func MMFromPt(pt float64) float64 { return pt * PtToMm }
