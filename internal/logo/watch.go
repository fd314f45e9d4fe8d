package logo

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// index 某一时刻的目录快照
type index struct {
	leagues []string
	files   map[string][]string
}

// WatchedCatalog 在内存中缓存目录快照，fsnotify 发现根目录或联赛目录有变化时作废，
// 下一次查找时重建。并发的重建请求通过 singleflight 合并。
type WatchedCatalog struct {
	root    string
	disk    *DirCatalog
	logger  *logrus.Logger
	watcher *fsnotify.Watcher

	mu         sync.RWMutex
	current    *index
	generation uint64

	group singleflight.Group
	done  chan struct{}
	wg    sync.WaitGroup
}

// NewWatchedCatalog 创建并开始监听 root
func NewWatchedCatalog(root string, logger *logrus.Logger) (*WatchedCatalog, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(absRoot); err != nil {
		w.Close()
		return nil, err
	}

	c := &WatchedCatalog{
		root:    absRoot,
		disk:    NewDirCatalog(absRoot),
		logger:  logger,
		watcher: w,
		done:    make(chan struct{}),
	}
	c.wg.Add(1)
	go c.processEvents()
	return c, nil
}

func (c *WatchedCatalog) Leagues() ([]string, error) {
	idx, err := c.load()
	if err != nil {
		return nil, err
	}
	return idx.leagues, nil
}

func (c *WatchedCatalog) Files(league string) ([]string, error) {
	idx, err := c.load()
	if err != nil {
		return nil, err
	}
	return idx.files[league], nil
}

// Close 停止监听
func (c *WatchedCatalog) Close() error {
	close(c.done)
	c.wg.Wait()
	return c.watcher.Close()
}

func (c *WatchedCatalog) load() (*index, error) {
	c.mu.RLock()
	idx := c.current
	c.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	v, err, _ := c.group.Do("index", func() (interface{}, error) {
		return c.rebuild()
	})
	if err != nil {
		return nil, err
	}
	return v.(*index), nil
}

func (c *WatchedCatalog) rebuild() (*index, error) {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	leagues, err := c.disk.Leagues()
	if err != nil {
		return nil, err
	}
	idx := &index{leagues: leagues, files: make(map[string][]string, len(leagues))}
	for _, league := range leagues {
		files, err := c.disk.Files(league)
		if err != nil {
			return nil, err
		}
		idx.files[league] = files
		// 重复 Add 同一路径是安全的
		if err := c.watcher.Add(filepath.Join(c.root, league)); err != nil {
			c.logger.WithError(err).WithField("league", league).Warn("监听联赛目录失败")
		}
	}

	c.mu.Lock()
	// 重建期间发生过变化则不缓存，下次重新扫描
	if c.generation == gen {
		c.current = idx
	}
	c.mu.Unlock()

	c.logger.WithField("leagues", len(leagues)).Debug("队徽目录索引已重建")
	return idx, nil
}

func (c *WatchedCatalog) invalidate() {
	c.mu.Lock()
	c.current = nil
	c.generation++
	c.mu.Unlock()
}

func (c *WatchedCatalog) processEvents() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			c.logger.WithField("path", event.Name).Debug("队徽目录变化，索引失效")
			c.invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.WithError(err).Warn("队徽目录监听出错")
			c.invalidate()
		}
	}
}
