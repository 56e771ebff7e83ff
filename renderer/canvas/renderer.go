package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/cardsheet/layout"
	"github.com/ByLCY/cardsheet/renderer"
)

// defaultLineWidth is the crop line stroke in pt when a line carries none.
const defaultLineWidth = layout.DefaultCropLineWidth

// Renderer draws layout results via github.com/tdewolff/canvas.
// Layout coordinates are pt with a bottom-left origin; canvas works in mm,
// so every coordinate is converted once at the drawing boundary.
type Renderer struct {
	creator string
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Creator is written to the PDF info dictionary when the layout meta has none.
	Creator string
}

// NewRenderer creates a canvas-based PDF renderer.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{creator: opts.Creator}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianI) // 与排版一致：原点在左下角，y 轴向上

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	creator := meta.Creator
	if creator == "" {
		creator = r.creator
	}
	writer.SetInfo(meta.Title, meta.Subject, "", "", creator)
}

// drawPage 先绘制全部卡图，再绘制裁剪线，保证裁剪线不被卡图遮挡。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	if err := r.drawImages(ctx, page.Images); err != nil {
		return err
	}
	return r.drawLines(ctx, page.Lines)
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, box := range images {
		img := box.Card.Image
		if img == nil {
			return fmt.Errorf("卡位 %d 缺少图像数据 (%s)", box.Index, box.Card.Name)
		}
		widthMM := toMm(box.Width)
		if widthMM <= 0 {
			return fmt.Errorf("卡位 %d 宽度无效: %g", box.Index, box.Width)
		}
		// 以像素宽度 / 卡位宽度作为分辨率，使图像恰好铺满卡位。
		dpmm := float64(img.Bounds().Dx()) / widthMM
		ctx.DrawImage(toMm(box.X), toMm(box.Y), img, canvas.DPMM(dpmm))
	}
	return nil
}

// drawLines 绘制贯穿整页的裁剪线。
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) error {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultLineWidth
		}
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(toMm(w))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(ln.X2-ln.X1), toMm(ln.Y2-ln.Y1))
		ctx.DrawPath(toMm(ln.X1), toMm(ln.Y1), p)
	}
	return nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return layout.MMFromPt(pt) }
