// Package sheet 串联读取、卡图处理、排版与渲染，生成正面与牌背 PDF。
package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/ByLCY/cardsheet/cardimage"
	"github.com/ByLCY/cardsheet/layout"
	"github.com/ByLCY/cardsheet/renderer"
)

// ErrOutput 表示输出目录或 PDF 文件无法写入。
var ErrOutput = errors.New("输出失败")

// Options 配置流水线的外部依赖。
type Options struct {
	Renderer renderer.Renderer
	Logger   *slog.Logger
	// Progress 非空时在其上显示卡图处理进度条。
	Progress io.Writer
	// DebugPath 非空时把排版结果（不含像素）写成 JSON。
	DebugPath string
	Creator   string
}

// Builder 执行正面与牌背流水线。全部卡图先在内存中处理完毕，再一次性排版、渲染并写出。
type Builder struct {
	opts Options
	log  *slog.Logger
}

// New creates a Builder. A nil logger falls back to slog.Default.
func New(opts Options) (*Builder, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Builder{opts: opts, log: log}, nil
}

// Front 处理目录中的全部正面卡图，加灰边后排版并绘制裁剪线。
func (b *Builder) Front(inputDir, output string, cfg layout.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("正面排版配置无效: %w", err)
	}
	paths, err := resolveFrontInputs(inputDir)
	if err != nil {
		return err
	}
	b.log.Info("preparing front cards", "input", inputDir, "count", len(paths), "fit", cfg.Fit.String())

	cards, err := b.prepareAll(paths, cfg, "正面")
	if err != nil {
		return err
	}
	return b.produce(cards, cfg, output, "front")
}

// Back 处理牌背：单张图片复制铺满一页，目录则逐张处理并按镜像列排版。
func (b *Builder) Back(input, output string, cfg layout.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("牌背排版配置无效: %w", err)
	}
	src, err := ResolveBackSource(input)
	if err != nil {
		return err
	}
	cards, err := b.expandBack(src, cfg)
	if err != nil {
		return err
	}
	return b.produce(cards, cfg, output, "back")
}

// expandBack 把牌背输入变为统一的卡图序列，排版逻辑只消费该序列。
func (b *Builder) expandBack(src BackSource, cfg layout.Config) ([]layout.Card, error) {
	switch s := src.(type) {
	case SingleRepeated:
		b.log.Info("preparing repeated back", "input", s.Path, "copies", cfg.PerPage())
		card, err := b.prepare(s.Path, cfg)
		if err != nil {
			return nil, err
		}
		cards := make([]layout.Card, cfg.PerPage())
		for i := range cards {
			cards[i] = card
		}
		return cards, nil
	case PerCardList:
		b.log.Info("preparing per-card backs", "count", len(s.Paths), "fit", cfg.Fit.String())
		return b.prepareAll(s.Paths, cfg, "牌背")
	default:
		return nil, fmt.Errorf("未知的牌背输入类型 %T", src)
	}
}

func (b *Builder) prepareAll(paths []string, cfg layout.Config, label string) ([]layout.Card, error) {
	bar := b.newProgressBar(len(paths), label)
	cards := make([]layout.Card, 0, len(paths))
	for _, path := range paths {
		card, err := b.prepare(path, cfg)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return cards, nil
}

func (b *Builder) prepare(path string, cfg layout.Config) (layout.Card, error) {
	src, err := cardimage.Load(path)
	if err != nil {
		return layout.Card{}, err
	}
	img := cardimage.Prepare(src, cfg)
	b.log.Debug("card prepared", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return layout.Card{Name: filepath.Base(path), Image: img}, nil
}

func (b *Builder) newProgressBar(n int, label string) *progressbar.ProgressBar {
	if b.opts.Progress == nil || n == 0 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(b.opts.Progress),
		progressbar.OptionSetDescription("处理"+label+"卡图"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("cards"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

// produce 排版并渲染为 PDF 字节后才创建输出目录并写文件，失败时不会留下半成品。
func (b *Builder) produce(cards []layout.Card, cfg layout.Config, output, kind string) error {
	meta := layout.DocumentMeta{
		Title:   filepath.Base(output),
		Subject: kind + " sheet",
		Creator: b.opts.Creator,
	}
	result, err := layout.Build(cards, cfg, meta)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if b.opts.DebugPath != "" {
		if err := layout.WriteDebugJSON(result, b.opts.DebugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	pdfBytes, err := b.opts.Renderer.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := writeFileAtomic(output, pdfBytes); err != nil {
		return err
	}
	b.log.Info("sheet written", "kind", kind, "output", output, "cards", len(cards), "pages", len(result.Pages))
	return nil
}

// writeFileAtomic 先写入同目录下的临时文件再改名。
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: 创建输出目录失败: %w", ErrOutput, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: 写入 PDF 文件失败: %w", ErrOutput, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: 写入 PDF 文件失败: %w", ErrOutput, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: 写入 PDF 文件失败: %w", ErrOutput, err)
	}
	return nil
}
