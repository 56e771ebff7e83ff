package layout

// CropLines 返回卡位四条裁剪线（上、下、左、右），位置在灰边内侧。
// 横线贯穿整页宽度、竖线贯穿整页高度，相邻卡位的裁剪线因此连成整条参考线。
func CropLines(cell Cell, border, pageWidth, pageHeight, width float64, col Color) []Line {
	top := cell.Top() - border
	bottom := cell.Y + border
	left := cell.X + border
	right := cell.Right() - border
	return []Line{
		{X1: 0, Y1: top, X2: pageWidth, Y2: top, Color: col, Width: width},
		{X1: 0, Y1: bottom, X2: pageWidth, Y2: bottom, Color: col, Width: width},
		{X1: left, Y1: 0, X2: left, Y2: pageHeight, Color: col, Width: width},
		{X1: right, Y1: 0, X2: right, Y2: pageHeight, Color: col, Width: width},
	}
}
