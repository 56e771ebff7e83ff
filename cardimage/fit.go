// Package cardimage 负责把任意尺寸的卡图处理成固定像素尺寸，并按需添加灰边。
package cardimage

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ByLCY/cardsheet/layout"
)

// CoverWindow 计算覆盖模式下的等比缩放尺寸与裁剪窗口。
// 缩放比取两个方向比例的较大者，保证缩放后两边都不小于目标尺寸。
//
// layout.FitCover：纵向有多余时只裁顶部（保留底部），横向多余居中裁剪；
// layout.FitCoverCenter：两个方向都居中裁剪。
func CoverWindow(srcW, srcH, dstW, dstH int, mode layout.FitMode) (scaledW, scaledH int, crop image.Rectangle) {
	scale := math.Max(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	scaledW = max(dstW, int(math.Round(float64(srcW)*scale)))
	scaledH = max(dstH, int(math.Round(float64(srcH)*scale)))

	left := (scaledW - dstW) / 2
	top := (scaledH - dstH) / 2
	if mode == layout.FitCover && scaledH > dstH {
		top = scaledH - dstH
	}
	return scaledW, scaledH, image.Rect(left, top, left+dstW, top+dstH)
}

// Fit 将 src 处理为恰好 w×h 像素。
func Fit(src image.Image, w, h int, mode layout.FitMode) *image.NRGBA {
	if mode == layout.FitStretch {
		return imaging.Resize(src, w, h, imaging.Lanczos)
	}
	b := src.Bounds()
	scaledW, scaledH, crop := CoverWindow(b.Dx(), b.Dy(), w, h, mode)
	scaled := imaging.Resize(src, scaledW, scaledH, imaging.Lanczos)
	if crop == scaled.Bounds() {
		return scaled
	}
	return imaging.Crop(scaled, crop)
}

// AddBorder 新建 (w+2*border)×(h+2*border) 的纯色画布，并把 img 贴在 (border, border) 处。
func AddBorder(img image.Image, border int, fill color.Color) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+2*border, b.Dy()+2*border, fill)
	return imaging.Paste(canvas, img, image.Pt(border, border))
}

// Prepare 按配置完成缩放裁剪；配置了灰边时再添加灰边（正面卡总有灰边，牌背没有）。
func Prepare(src image.Image, cfg layout.Config) image.Image {
	w, h := cfg.TargetPx()
	fitted := Fit(src, w, h, cfg.Fit)
	if cfg.Border <= 0 {
		return fitted
	}
	c := cfg.BorderColor
	return AddBorder(fitted, cfg.BorderPx(), color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff})
}
