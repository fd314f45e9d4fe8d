package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"FixtureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// FileStore 以本地 JSON 文件保存比赛数据，并记录最近一次读写时的修改时间，
// 用于发现文件被外部编辑。
type FileStore struct {
	path     string
	readOnly bool
	logger   *logrus.Logger

	mu        sync.Mutex
	lastMtime time.Time
}

// NewFileStore readOnly 为 true 时 Save 只记日志不写盘（如 Vercel 只读文件系统）
func NewFileStore(path string, readOnly bool, logger *logrus.Logger) *FileStore {
	return &FileStore{path: path, readOnly: readOnly, logger: logger}
}

// Load 宽松解析（数字 id、字符串比分等照常读入）。文件缺失时返回空文档；
// JSON 损坏时先备份原文件再返回空文档，备份失败才返回错误
func (s *FileStore) Load(ctx context.Context) (*model.MatchData, error) {
	_ = ctx
	if stat, err := os.Stat(s.path); err == nil {
		s.setMtime(stat.ModTime())
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.WithError(err).WithField("file", s.path).Error("读取比赛文件失败，使用空数据")
		return model.EnsureStructure(nil), nil
	}
	data, err := decodeMatchData(raw)
	if err != nil {
		if s.readOnly {
			s.logger.WithError(err).WithField("file", s.path).Error("解析比赛文件失败，使用空数据")
			return model.EnsureStructure(nil), nil
		}
		// 先把损坏的文件挪开，避免随后的 Save 覆盖掉手工内容
		backup, berr := s.backupCorrupt()
		if berr != nil {
			return nil, fmt.Errorf("比赛文件%s损坏且无法备份: %w", s.path, errors.Join(err, berr))
		}
		s.logger.WithError(err).WithFields(logrus.Fields{"file": s.path, "backup": backup}).Error("解析比赛文件失败，已备份原文件，使用空数据")
		return model.EnsureStructure(nil), nil
	}
	s.logger.WithField("file", s.path).Info("比赛文件加载成功")
	return model.EnsureStructure(data), nil
}

// backupCorrupt 把当前文件改名为 <path>.corrupt-<时间戳>
func (s *FileStore) backupCorrupt() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405.000000000"))
	if err := os.Rename(s.path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

// Save 以两空格缩进写入整份文档
func (s *FileStore) Save(ctx context.Context, data *model.MatchData) error {
	_ = ctx
	if s.readOnly {
		s.logger.WithField("file", s.path).Info("只读文件系统，跳过写入比赛文件")
		return nil
	}
	raw, err := json.MarshalIndent(model.EnsureStructure(data), "", "  ")
	if err != nil {
		return fmt.Errorf("序列化比赛数据失败: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("写入比赛文件失败: %w", err)
	}
	if stat, err := os.Stat(s.path); err == nil {
		s.setMtime(stat.ModTime())
	}
	s.logger.WithField("file", s.path).Debug("比赛文件已保存")
	return nil
}

// Changed 文件修改时间晚于最近一次读写时返回 true
func (s *FileStore) Changed() bool {
	stat, err := os.Stat(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.WithError(err).WithField("file", s.path).Warn("检查比赛文件修改时间失败")
		}
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return stat.ModTime().After(s.lastMtime)
}

func (s *FileStore) setMtime(t time.Time) {
	s.mu.Lock()
	s.lastMtime = t
	s.mu.Unlock()
}
