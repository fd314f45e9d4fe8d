package model

import (
	"time"

	"gorm.io/datatypes"
)

// MatchDocument 文档存储表：一行即一份完整的 MatchData，matches 以 jsonb 保存
type MatchDocument struct {
	ID          string         `gorm:"column:id;primaryKey;type:varchar(128);comment:文档路径，如 matches/data"`
	LastUpdated *time.Time     `gorm:"column:last_updated;type:timestamp;comment:最近一次写入时间"`
	Matches     datatypes.JSON `gorm:"column:matches;type:jsonb;not null;comment:比赛列表"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (MatchDocument) TableName() string { return "match_documents" }
