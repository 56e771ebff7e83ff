package sheet

import (
	"errors"
	"fmt"
	"os"

	"github.com/ByLCY/cardsheet/cardimage"
)

// ErrInvalidInput 表示输入路径既不是可读的图片文件也不是目录，或目录中没有图片。
var ErrInvalidInput = errors.New("输入无效")

// BackSource 是牌背输入在边界处一次性解析得到的结果，取值为 SingleRepeated 或 PerCardList。
type BackSource interface {
	isBackSource()
}

// SingleRepeated 表示一张牌背图重复铺满整页。
type SingleRepeated struct {
	Path string
}

// PerCardList 表示每张正面各自对应一张牌背，按自然顺序排列。
type PerCardList struct {
	Paths []string
}

func (SingleRepeated) isBackSource() {}
func (PerCardList) isBackSource()    {}

// ResolveBackSource 根据路径类型决定牌背模式：图片文件 → SingleRepeated，目录 → PerCardList。
func ResolveBackSource(path string) (BackSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, path, err)
	}
	if info.IsDir() {
		paths, err := listCardImages(path)
		if err != nil {
			return nil, err
		}
		return PerCardList{Paths: paths}, nil
	}
	if !cardimage.IsImageFile(path) {
		return nil, fmt.Errorf("%w: %s 不是支持的图片（.jpg/.jpeg/.png）", ErrInvalidInput, path)
	}
	return SingleRepeated{Path: path}, nil
}

// resolveFrontInputs 要求正面输入为目录，返回自然排序后的图片列表。
func resolveFrontInputs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: 正面输入 %s 必须是目录", ErrInvalidInput, dir)
	}
	return listCardImages(dir)
}

func listCardImages(dir string) ([]string, error) {
	paths, err := cardimage.ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: 目录 %s 中没有图片", ErrInvalidInput, dir)
	}
	return paths, nil
}
