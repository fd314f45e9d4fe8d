package logo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// imageExts 视为队徽的文件扩展名
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
	".gif":  true,
}

// Catalog 队徽目录：根目录下每个联赛一个子目录，子目录内是以球队命名的图片
type Catalog interface {
	// Leagues 返回所有联赛目录名
	Leagues() ([]string, error)
	// Files 返回某联赛目录下的图片文件名（含扩展名）
	Files(league string) ([]string, error)
}

// DirCatalog 每次调用都重新扫描磁盘，不做缓存
type DirCatalog struct {
	root string
}

func NewDirCatalog(root string) *DirCatalog {
	return &DirCatalog{root: root}
}

func (c *DirCatalog) Leagues() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("读取队徽根目录失败: %w", err)
	}
	leagues := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			leagues = append(leagues, e.Name())
		}
	}
	return leagues, nil
}

func (c *DirCatalog) Files(league string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.root, league))
	if err != nil {
		return nil, fmt.Errorf("读取联赛目录%s失败: %w", league, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImage(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

func isImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
