package layout

// Grid 保存一页网格的几何参数（pt，原点左下角）。整块网格在页面上居中。
type Grid struct {
	Columns    int
	Rows       int
	Mirror     bool
	PageWidth  float64
	PageHeight float64
	CellWidth  float64
	CellHeight float64
	Spacing    float64
	MarginX    float64
	MarginY    float64
}

// NewGrid 由配置计算网格几何。卡位尺寸包含两侧灰边。
func NewGrid(cfg Config) Grid {
	g := Grid{
		Columns:    cfg.Columns,
		Rows:       cfg.Rows,
		Mirror:     cfg.Mirror,
		PageWidth:  PtFromMM(cfg.PageWidth),
		PageHeight: PtFromMM(cfg.PageHeight),
		CellWidth:  PtFromMM(cfg.CardWidth + 2*cfg.Border),
		CellHeight: PtFromMM(cfg.CardHeight + 2*cfg.Border),
		Spacing:    PtFromMM(cfg.Spacing),
	}
	g.MarginX = (g.PageWidth - g.BlockWidth()) / 2
	g.MarginY = (g.PageHeight - g.BlockHeight()) / 2
	return g
}

// BlockWidth 返回整块网格的宽度。
func (g Grid) BlockWidth() float64 {
	return float64(g.Columns)*g.CellWidth + float64(g.Columns-1)*g.Spacing
}

// BlockHeight 返回整块网格的高度。
func (g Grid) BlockHeight() float64 {
	return float64(g.Rows)*g.CellHeight + float64(g.Rows-1)*g.Spacing
}

// Capacity 返回每页卡位数。
func (g Grid) Capacity() int { return g.Columns * g.Rows }

// DisplayColumn 返回页内序号对应的视觉列；镜像时左右翻转，
// 使牌背在长边翻转双面打印后与正面逐张对齐。
func (g Grid) DisplayColumn(index int) int {
	col := index % g.Columns
	if g.Mirror {
		return g.Columns - 1 - col
	}
	return col
}

// Place 计算页内第 index 个卡位（0 起，行优先，第 0 行在最上方）。
func (g Grid) Place(index int) Cell {
	row := index / g.Columns
	col := g.DisplayColumn(index)
	return Cell{
		Index:  index,
		Row:    row,
		Col:    col,
		X:      g.MarginX + float64(col)*(g.CellWidth+g.Spacing),
		Y:      g.PageHeight - g.MarginY - float64(row+1)*g.CellHeight - float64(row)*g.Spacing,
		Width:  g.CellWidth,
		Height: g.CellHeight,
	}
}
