package layout

import "fmt"

// Span 是一页所包含的卡图在输入序列中的半开区间 [Start, End)。
type Span struct {
	Start int
	End   int
}

// Len 返回该页卡图数量。
func (s Span) Len() int { return s.End - s.Start }

// Paginate 将 n 张卡按每页 perPage 张切分，最后一页可以不满。
func Paginate(n, perPage int) []Span {
	if n <= 0 || perPage <= 0 {
		return nil
	}
	count := (n + perPage - 1) / perPage
	spans := make([]Span, 0, count)
	for page := 0; page < count; page++ {
		start := page * perPage
		spans = append(spans, Span{Start: start, End: min(start+perPage, n)})
	}
	return spans
}

// Build 按输入顺序把卡图排入网格页面；开启裁剪线时为每个卡位追加四条整页参考线。
func Build(cards []Card, cfg Config, meta DocumentMeta) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("排版配置无效: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("没有可排版的卡图")
	}

	grid := NewGrid(cfg)
	border := PtFromMM(cfg.Border)
	lineWidth := cfg.CropLineWidth
	if lineWidth <= 0 {
		lineWidth = DefaultCropLineWidth
	}

	spans := Paginate(len(cards), grid.Capacity())
	pages := make([]Page, 0, len(spans))
	for i, span := range spans {
		page := Page{
			Number: i + 1,
			Width:  grid.PageWidth,
			Height: grid.PageHeight,
			Images: make([]ImageBox, 0, span.Len()),
		}
		for idx, card := range cards[span.Start:span.End] {
			cell := grid.Place(idx)
			page.Images = append(page.Images, ImageBox{Cell: cell, Card: card})
		}
		// 裁剪线在全部卡图之后绘制，避免被后续卡图覆盖。
		if cfg.CropLines {
			for _, img := range page.Images {
				page.Lines = append(page.Lines, CropLines(img.Cell, border, grid.PageWidth, grid.PageHeight, lineWidth, cfg.CropLineColor)...)
			}
		}
		pages = append(pages, page)
	}

	return &Result{
		Config: cfg,
		Pages:  pages,
		Meta:   meta,
	}, nil
}
