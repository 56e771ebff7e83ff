package layout

import "image"

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。
// 除特别说明外，坐标与尺寸均以 pt 为单位，原点位于页面左下角。

// Result 保存排版后的全部页面。
type Result struct {
	Config Config       `json:"config"`
	Pages  []Page       `json:"pages"`
	Meta   DocumentMeta `json:"meta"`
}

// Card 是一张已经处理到最终像素尺寸的卡图。
type Card struct {
	Name  string      `json:"name"`
	Image image.Image `json:"-"`
}

// Page 记录页面尺寸以及可以直接绘制的元素。
type Page struct {
	Number int        `json:"number"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Images []ImageBox `json:"images"`
	Lines  []Line     `json:"lines,omitempty"`
}

// ImageBox 是绑定了卡图的卡位。
type ImageBox struct {
	Cell
	Card Card `json:"card"`
}

// Cell 表示页面上的一个卡位。Index 为页内序号，Row/Col 为视觉上的行列（Col 已考虑镜像）。
type Cell struct {
	Index  int     `json:"index"`
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right 返回卡位右边缘的 x 坐标。
func (c Cell) Right() float64 { return c.X + c.Width }

// Top 返回卡位上边缘的 y 坐标。
func (c Cell) Top() float64 { return c.Y + c.Height }

// Overlaps 判断两个卡位是否有面积重叠（共边不算）。
func (c Cell) Overlaps(o Cell) bool {
	return c.X < o.Right() && o.X < c.Right() && c.Y < o.Top() && o.Y < c.Top()
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（pt），<=0 时由渲染器给默认值
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
}
