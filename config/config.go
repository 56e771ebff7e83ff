// Package config 读取 YAML 排版配置，并解析为 layout.Config。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/cardsheet/layout"
)

// File 是 YAML 配置文件的结构。长度以字符串书写，可带 mm/cm/in/pt 单位，省略单位按毫米。
type File struct {
	DPI   int    `yaml:"dpi"`
	Page  string `yaml:"page"`
	Front Sheet  `yaml:"front"`
	Back  Sheet  `yaml:"back"`
}

// Sheet 是一条流水线可配置的项目。
type Sheet struct {
	CardWidth     string `yaml:"card_width"`
	CardHeight    string `yaml:"card_height"`
	Border        string `yaml:"border"`
	Spacing       string `yaml:"spacing"`
	Fit           string `yaml:"fit"`
	CropLineWidth string `yaml:"crop_line_width"`
}

// Default 返回与内置常量一致的配置。
func Default() *File {
	return &File{
		DPI:  layout.DefaultDPI,
		Page: "A4",
		Front: Sheet{
			CardWidth:     "63mm",
			CardHeight:    "88mm",
			Border:        "2mm",
			Spacing:       "1mm",
			Fit:           "stretch",
			CropLineWidth: "0.25pt",
		},
		Back: Sheet{
			CardWidth:  "67mm",
			CardHeight: "92mm",
			Spacing:    "1mm",
			Fit:        "cover-center",
		},
	}
}

// Load 读取 YAML 文件并覆盖到默认配置上；path 为空时直接返回默认配置。
func Load(path string) (*File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	var overlay File
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	cfg.merge(overlay)
	if _, err := cfg.FrontConfig(); err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	if _, err := cfg.BackConfig(); err != nil {
		return nil, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return cfg, nil
}

// Clone 返回一份独立副本。
func (f *File) Clone() *File {
	c := *f
	return &c
}

func (f *File) merge(o File) {
	if o.DPI != 0 {
		f.DPI = o.DPI
	}
	if o.Page != "" {
		f.Page = o.Page
	}
	f.Front.merge(o.Front)
	f.Back.merge(o.Back)
}

func (s *Sheet) merge(o Sheet) {
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&s.CardWidth, o.CardWidth},
		{&s.CardHeight, o.CardHeight},
		{&s.Border, o.Border},
		{&s.Spacing, o.Spacing},
		{&s.Fit, o.Fit},
		{&s.CropLineWidth, o.CropLineWidth},
	} {
		if p.src != "" {
			*p.dst = p.src
		}
	}
}

// Set 按键名覆盖单个配置项，键名可用连字符或下划线。
// dpi 与 page 为全局项，其余写入 section（"front" 或 "back"）。
func (f *File) Set(section, key, value string) error {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	switch key {
	case "dpi":
		dpi, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("dpi 必须为整数: %q", value)
		}
		f.DPI = dpi
		return nil
	case "page":
		f.Page = value
		return nil
	}

	var s *Sheet
	switch section {
	case "front":
		s = &f.Front
	case "back":
		s = &f.Back
	default:
		return fmt.Errorf("未知的配置段 %q", section)
	}
	switch key {
	case "card_width", "width":
		s.CardWidth = value
	case "card_height", "height":
		s.CardHeight = value
	case "border":
		s.Border = value
	case "spacing":
		s.Spacing = value
	case "fit":
		s.Fit = value
	case "crop_line_width":
		s.CropLineWidth = value
	default:
		return fmt.Errorf("未知的配置项 %q", key)
	}
	return nil
}

// FrontConfig 解析正面流水线的排版配置。
func (f *File) FrontConfig() (layout.Config, error) {
	cfg, err := f.resolve(layout.DefaultFront(), f.Front)
	if err != nil {
		return layout.Config{}, fmt.Errorf("front: %w", err)
	}
	return cfg, nil
}

// BackConfig 解析牌背流水线的排版配置。牌背始终不加灰边、不画裁剪线。
func (f *File) BackConfig() (layout.Config, error) {
	if strings.TrimSpace(f.Back.Border) != "" {
		if l, err := layout.ParseLength(f.Back.Border); err != nil || !l.IsZero() {
			return layout.Config{}, fmt.Errorf("back: 牌背不支持灰边")
		}
	}
	cfg, err := f.resolve(layout.DefaultBack(), f.Back)
	if err != nil {
		return layout.Config{}, fmt.Errorf("back: %w", err)
	}
	cfg.Border = 0
	cfg.CropLines = false
	return cfg, nil
}

func (f *File) resolve(base layout.Config, s Sheet) (layout.Config, error) {
	cfg := base
	if f.DPI != 0 {
		cfg.DPI = f.DPI
	}
	w, h, err := layout.ResolvePageSize(f.Page)
	if err != nil {
		return layout.Config{}, err
	}
	cfg.PageWidth, cfg.PageHeight = w, h

	for _, p := range []struct {
		name string
		src  string
		dst  *float64
	}{
		{"card_width", s.CardWidth, &cfg.CardWidth},
		{"card_height", s.CardHeight, &cfg.CardHeight},
		{"border", s.Border, &cfg.Border},
		{"spacing", s.Spacing, &cfg.Spacing},
	} {
		if strings.TrimSpace(p.src) == "" {
			continue
		}
		l, err := layout.ParseLength(p.src)
		if err != nil {
			return layout.Config{}, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = l.ToMM()
	}
	if strings.TrimSpace(s.CropLineWidth) != "" {
		l, err := layout.ParseLength(s.CropLineWidth)
		if err != nil {
			return layout.Config{}, fmt.Errorf("crop_line_width: %w", err)
		}
		cfg.CropLineWidth = l.ToPT()
	}
	if strings.TrimSpace(s.Fit) != "" {
		mode, err := layout.ParseFitMode(s.Fit)
		if err != nil {
			return layout.Config{}, err
		}
		cfg.Fit = mode
	}
	return cfg, cfg.Validate()
}
