package repository

import (
	"context"
	"errors"

	"FixtureSync/internal/interfaces"
	"FixtureSync/internal/model"

	"github.com/sirupsen/logrus"
)

// MirrorStore 文档库为主、本地文件为备份：
// 读取优先文档库，文档不存在或读取失败时回退到文件；写入先写文档库再写文件。
type MirrorStore struct {
	document interfaces.MatchStore // 可为 nil
	file     *FileStore
	logger   *logrus.Logger
}

func NewMirrorStore(document interfaces.MatchStore, file *FileStore, logger *logrus.Logger) *MirrorStore {
	return &MirrorStore{document: document, file: file, logger: logger}
}

func (s *MirrorStore) Load(ctx context.Context) (*model.MatchData, error) {
	if s.document != nil {
		data, err := s.document.Load(ctx)
		switch {
		case err == nil:
			s.logger.Info("比赛数据已从文档库加载")
			return data, nil
		case errors.Is(err, ErrDocumentNotFound):
			s.logger.Info("文档库中还没有比赛数据，回退到本地文件")
		default:
			s.logger.WithError(err).Warn("读取文档库失败，回退到本地文件")
		}
	}
	return s.file.Load(ctx)
}

// Save 文档库写失败只记日志，返回值以文件写入结果为准
func (s *MirrorStore) Save(ctx context.Context, data *model.MatchData) error {
	if s.document != nil {
		if err := s.document.Save(ctx, data); err != nil {
			s.logger.WithError(err).Error("保存到文档库失败")
		} else {
			s.logger.Debug("比赛数据已保存到文档库")
		}
	}
	return s.file.Save(ctx, data)
}

// Changed 配置了文档库时以文档库为准，不看文件修改时间
func (s *MirrorStore) Changed() bool {
	if s.document != nil {
		return false
	}
	return s.file.Changed()
}
