package repository

import (
	"fmt"
	"os"
	"time"

	"FixtureSync/internal/model"

	"github.com/google/uuid"
)

// ReadSeedFile 读取 matches.json 并整理成标准结构：补 id、两队字段齐全、比分转为数字或 null。
// 不做联赛名与队徽的规范化，服务加载时会处理。
func ReadSeedFile(path string, now time.Time) (*model.MatchData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取%s失败: %w", path, err)
	}
	data, err := decodeMatchData(raw)
	if err != nil {
		return nil, fmt.Errorf("解析%s失败: %w", path, err)
	}

	if data.LastUpdated == nil {
		t := now.UTC()
		data.LastUpdated = &t
	}
	for i := range data.Matches {
		m := &data.Matches[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.HomeTeam == nil {
			m.HomeTeam = &model.Team{}
		}
		if m.AwayTeam == nil {
			m.AwayTeam = &model.Team{}
		}
	}
	return data, nil
}
