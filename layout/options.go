package layout

import (
	"fmt"
	"strings"
)

// FitMode 决定卡图如何缩放到目标像素尺寸。
type FitMode int

const (
	// FitStretch 直接拉伸到目标宽高，不保持比例。
	FitStretch FitMode = iota
	// FitCover 等比缩放覆盖目标尺寸；纵向多余只裁顶部，横向多余居中裁剪。
	FitCover
	// FitCoverCenter 等比缩放覆盖目标尺寸，两个方向都居中裁剪。
	FitCoverCenter
)

func (m FitMode) String() string {
	switch m {
	case FitStretch:
		return "stretch"
	case FitCover:
		return "cover"
	case FitCoverCenter:
		return "cover-center"
	default:
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
}

// ParseFitMode 解析配置中的缩放模式名称。
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stretch", "0":
		return FitStretch, nil
	case "cover", "1":
		return FitCover, nil
	case "cover-center", "center":
		return FitCoverCenter, nil
	default:
		return 0, fmt.Errorf("未知的缩放模式 %q（可选 stretch / cover / cover-center）", s)
	}
}

// MarshalText lets FitMode appear by name in debug JSON.
func (m FitMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Config 描述一条流水线的全部排版常量。长度单位为毫米，CropLineWidth 为 pt。
// Config 按值传递，构造后不应再修改。
type Config struct {
	DPI           int     `json:"dpi"`
	PageWidth     float64 `json:"pageWidth"`
	PageHeight    float64 `json:"pageHeight"`
	CardWidth     float64 `json:"cardWidth"`
	CardHeight    float64 `json:"cardHeight"`
	Border        float64 `json:"border"`
	Spacing       float64 `json:"spacing"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	Fit           FitMode `json:"fit"`
	Mirror        bool    `json:"mirror"`
	CropLines     bool    `json:"cropLines"`
	CropLineWidth float64 `json:"cropLineWidth"`
	CropLineColor Color   `json:"cropLineColor"`
	BorderColor   Color   `json:"borderColor"`
}

const (
	DefaultDPI           = 300
	DefaultColumns       = 3
	DefaultRows          = 3
	DefaultSpacing       = 1.0
	DefaultCropLineWidth = 0.25
)

// BorderGray 是正面卡图外圈灰边的颜色。
var BorderGray = Color{R: 200, G: 200, B: 200}

// pageSizes 以毫米记录常见纸张尺寸（纵向）。
var pageSizes = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

// ResolvePageSize 根据纸张名称返回宽高（mm）。
func ResolvePageSize(name string) (float64, float64, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = "A4"
	}
	size, ok := pageSizes[key]
	if !ok {
		return 0, 0, fmt.Errorf("不支持的纸张尺寸 %q", name)
	}
	return size[0], size[1], nil
}

// DefaultFront 返回正面卡的默认排版：63×88mm，2mm 灰边，拉伸缩放，带裁剪线。
func DefaultFront() Config {
	return Config{
		DPI:           DefaultDPI,
		PageWidth:     210,
		PageHeight:    297,
		CardWidth:     63,
		CardHeight:    88,
		Border:        2,
		Spacing:       DefaultSpacing,
		Columns:       DefaultColumns,
		Rows:          DefaultRows,
		Fit:           FitStretch,
		CropLines:     true,
		CropLineWidth: DefaultCropLineWidth,
		BorderColor:   BorderGray,
	}
}

// DefaultBack 返回牌背的默认排版：67×92mm（留出出血），无灰边，列镜像。
func DefaultBack() Config {
	return Config{
		DPI:        DefaultDPI,
		PageWidth:  210,
		PageHeight: 297,
		CardWidth:  67,
		CardHeight: 92,
		Spacing:    DefaultSpacing,
		Columns:    DefaultColumns,
		Rows:       DefaultRows,
		Fit:        FitCoverCenter,
		Mirror:     true,
	}
}

// PerPage 返回每页卡位数量。
func (c Config) PerPage() int { return c.Columns * c.Rows }

// TargetPx 返回缩放后（未加灰边）的卡图像素尺寸。
func (c Config) TargetPx() (int, int) {
	return PxFromMM(c.CardWidth, c.DPI), PxFromMM(c.CardHeight, c.DPI)
}

// BorderPx 返回灰边的像素宽度。
func (c Config) BorderPx() int { return PxFromMM(c.Border, c.DPI) }

// Validate 检查配置是否可以排出一页合法的 3×3 网格。
func (c Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("DPI 必须为正数，当前 %d", c.DPI)
	}
	if c.Columns != DefaultColumns || c.Rows != DefaultRows {
		return fmt.Errorf("网格必须为 %d×%d，当前 %d×%d", DefaultColumns, DefaultRows, c.Columns, c.Rows)
	}
	if c.CardWidth <= 0 || c.CardHeight <= 0 {
		return fmt.Errorf("卡牌尺寸必须为正数，当前 %g×%gmm", c.CardWidth, c.CardHeight)
	}
	if c.PageWidth <= 0 || c.PageHeight <= 0 {
		return fmt.Errorf("页面尺寸必须为正数，当前 %g×%gmm", c.PageWidth, c.PageHeight)
	}
	if c.Border < 0 || c.Spacing < 0 {
		return fmt.Errorf("灰边与间距不能为负数")
	}
	if c.CropLines && c.Border <= 0 {
		return fmt.Errorf("绘制裁剪线需要大于 0 的灰边宽度")
	}
	blockW := float64(c.Columns)*(c.CardWidth+2*c.Border) + float64(c.Columns-1)*c.Spacing
	blockH := float64(c.Rows)*(c.CardHeight+2*c.Border) + float64(c.Rows-1)*c.Spacing
	if blockW > c.PageWidth || blockH > c.PageHeight {
		return fmt.Errorf("%d×%d 网格（%.1f×%.1fmm）超出页面 %.1f×%.1fmm", c.Columns, c.Rows, blockW, blockH, c.PageWidth, c.PageHeight)
	}
	return nil
}
