package cardimage

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
)

// ErrDecode 表示图片无法解码（格式不支持或文件损坏）。
var ErrDecode = errors.New("图片解码失败")

var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImageFile 按扩展名（不区分大小写）判断是否为支持的图片。
func IsImageFile(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// Load 读取并解码一张图片。
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer f.Close()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

// SortNatural 按自然顺序排序（card2 排在 card10 之前）。
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
}

// ListImages 返回目录下全部支持的图片路径，按文件名自然排序。子目录会被忽略。
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s 失败: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	SortNatural(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
