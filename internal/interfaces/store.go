package interfaces

import (
	"context"

	"FixtureSync/internal/model"
)

// MatchStore 比赛数据的持久化镜像（文件或文档库），内存中的列表才是权威副本
type MatchStore interface {
	Load(ctx context.Context) (*model.MatchData, error)
	Save(ctx context.Context, data *model.MatchData) error
}

// ChangeDetector 可感知外部修改的存储（如被手工编辑的 matches.json）
type ChangeDetector interface {
	Changed() bool
}
